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

var _ = Describe("Contact Creation", func() {
	Context("When adding a contact", func() {
		Describe("Given a complete payload", func() {
			It("should echo every submitted field and add server fields", func() {
				token := api.RequireToken(ctx, session)
				payload := api.NewContactPayload().Build()

				resp, err := client.CreateContact(ctx, token, payload)
				Expect(err).NotTo(HaveOccurred())
				api.AssertOK(resp)

				created := decodeObject(resp)

				id, found := api.ExtractID(created)
				Expect(found).To(BeTrue(), "create response has no contact id")

				api.DeferRelease(api.NewContactLifecycle(client, token), &api.ContactHandle{
					ID:      id,
					Payload: payload,
					Created: created,
				})

				api.ExpectFieldsMatch(created, payload)
				api.ExpectServerFields(created)
				Expect(api.ValidateSchema(api.SchemaContact, created)).To(Succeed())

				GinkgoWriter.Printf("Created contact %s owned by %v\n", id, created["owner"])
			})
		})

		DescribeTable("Given an invalid payload",
			func(build func() map[string]interface{}) {
				token := api.RequireToken(ctx, session)
				payload := build()

				resp, err := client.CreateContact(ctx, token, payload)
				Expect(err).NotTo(HaveOccurred())

				if resp.IsSuccess() {
					if created, ok := api.SafeJSONObject(resp); ok {
						if id, found := api.ExtractID(created); found {
							api.DeferRelease(api.NewContactLifecycle(client, token), &api.ContactHandle{ID: id, Payload: payload})
						}
					}
				}

				api.AssertStatus(resp, http.StatusBadRequest)
			},
			Entry("without a first name", func() map[string]interface{} {
				return api.NewContactPayload().Without("firstName").Build()
			}),
			Entry("without a last name", func() map[string]interface{} {
				return api.NewContactPayload().Without("lastName").Build()
			}),
			Entry("with a malformed birthdate", func() map[string]interface{} {
				return api.NewContactPayload().WithBirthdate("not-a-date").Build()
			}),
			Entry("with a malformed email", func() map[string]interface{} {
				return api.NewContactPayload().WithEmail("not-an-email").Build()
			}),
		)
	})
})
