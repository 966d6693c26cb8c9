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
	"maps"
	"net/http"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/nscaledev/contact-list-api-tests/test/api"
)

var _ = Describe("Contact Update", func() {
	Context("When replacing a contact", func() {
		Describe("Given a complete payload", func() {
			It("should replace every field", func() {
				token := api.RequireToken(ctx, session)
				handle := api.CreateContactWithCleanup(client, ctx, token, nil)

				replacement := api.NewContactPayload().WithCity("Otherton").WithPhone("8005550100").Build()

				resp, err := client.UpdateContact(ctx, token, handle.ID, replacement)
				Expect(err).NotTo(HaveOccurred())
				api.AssertStatus(resp, http.StatusOK)

				updated := decodeObject(resp)
				api.ExpectFieldsMatch(updated, replacement)

				id, found := api.ExtractID(updated)
				Expect(found).To(BeTrue())
				Expect(id).To(Equal(handle.ID))

				resp, err = client.GetContact(ctx, token, handle.ID)
				Expect(err).NotTo(HaveOccurred())
				api.AssertStatus(resp, http.StatusOK)

				contact, err := api.DecodeContact(resp)
				Expect(err).NotTo(HaveOccurred())
				Expect(contact.Payload()).To(Equal(replacement))
			})
		})
	})

	Context("When patching a contact", func() {
		Describe("Given a single field", func() {
			It("should change only that field", func() {
				token := api.RequireToken(ctx, session)
				handle := api.CreateContactWithCleanup(client, ctx, token, nil)

				resp, err := client.PatchContact(ctx, token, handle.ID, map[string]interface{}{
					"city": "Patchville",
				})
				Expect(err).NotTo(HaveOccurred())
				api.AssertStatus(resp, http.StatusOK)

				expected := maps.Clone(handle.Payload)
				expected["city"] = "Patchville"

				api.ExpectFieldsMatch(decodeObject(resp), expected)
			})
		})
	})
})
