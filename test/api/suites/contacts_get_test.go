/*
Copyright 2024-2025 the Unikorn Authors.
Copyright 2026 Nscale.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

//nolint:testpackage,revive // test package in suites is standard for these tests, dot imports standard for Ginkgo
package suites

import (
	"net/http"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/nscaledev/contact-list-api-tests/test/api"
)

var _ = Describe("Contact Retrieval", func() {
	Context("When getting a contact", func() {
		Describe("Given a contact created by the fixture", func() {
			It("should return the contact as it was created", func() {
				token := api.RequireToken(ctx, session)
				handle := api.CreateContactWithCleanup(client, ctx, token, nil)

				resp, err := client.GetContact(ctx, token, handle.ID)
				Expect(err).NotTo(HaveOccurred())
				api.AssertStatus(resp, http.StatusOK)

				body := decodeObject(resp)
				api.ExpectFieldsMatch(body, handle.Payload)
				api.ExpectServerFields(body)
				Expect(api.ValidateSchema(api.SchemaContact, body)).To(Succeed())

				contact, err := api.DecodeContact(resp)
				Expect(err).NotTo(HaveOccurred())
				Expect(contact.ID).To(Equal(handle.ID))
				Expect(contact.Payload()).To(Equal(handle.Payload))
			})

			It("should return a contact without an optional street2", func() {
				token := api.RequireToken(ctx, session)
				handle := api.CreateContactWithCleanup(client, ctx, token, api.NewContactPayload().Without("street2").Build())

				resp, err := client.GetContact(ctx, token, handle.ID)
				Expect(err).NotTo(HaveOccurred())
				api.AssertStatus(resp, http.StatusOK)

				body := decodeObject(resp)
				api.ExpectFieldsMatch(body, handle.Payload,
					"firstName", "lastName", "birthdate", "email", "phone", "street1", "city", "stateProvince", "postalCode", "country")
			})
		})

		Describe("Given an identifier that does not exist", func() {
			It("should return not found", func() {
				token := api.RequireToken(ctx, session)

				resp, err := client.GetContact(ctx, token, "000000000000000000000000")
				Expect(err).NotTo(HaveOccurred())
				api.AssertStatus(resp, http.StatusNotFound)
			})
		})

		Describe("Given a malformed identifier", func() {
			It("should be rejected", func() {
				token := api.RequireToken(ctx, session)

				resp, err := client.GetContact(ctx, token, "not-a-contact-id")
				Expect(err).NotTo(HaveOccurred())
				api.AssertStatus(resp, http.StatusBadRequest)
			})
		})
	})
})
