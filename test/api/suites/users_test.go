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

var _ = Describe("User Authentication", func() {
	Context("When logging in", func() {
		Describe("Given valid credentials", func() {
			It("should return a token and the logged in user", func() {
				requireCredentials()

				resp, err := client.Login(ctx, config.UserEmail, config.UserPassword)
				Expect(err).NotTo(HaveOccurred())
				api.AssertOK(resp)

				if err := api.ValidateLoginResponse(resp); err != nil {
					api.PrintResponse(resp)
					Fail(err.Error())
				}

				body := decodeObject(resp)
				Expect(body["token"]).To(BeAssignableToTypeOf(""))
				Expect(len(body["token"].(string))).To(BeNumerically(">", 8)) //nolint:forcetypeassert

				login, err := api.DecodeLoginResponse(resp)
				Expect(err).NotTo(HaveOccurred())
				Expect(string(login.User.Email)).To(Equal(config.UserEmail))
			})
		})

		Describe("Given invalid credentials", func() {
			It("should be rejected without a token", func() {
				resp, err := client.Login(ctx, api.UniqueLocalPart()+"@example.com", api.GenerateTestID())
				if err != nil {
					Skip(err.Error())
				}

				api.AssertStatus(resp, http.StatusUnauthorized)

				_, found := api.ExtractToken(resp.Body)
				Expect(found).To(BeFalse())
			})
		})
	})

	Context("When using a session token", func() {
		It("should return the profile of the logged in user", func() {
			token := api.RequireToken(ctx, session)

			resp, err := client.GetProfile(ctx, token)
			Expect(err).NotTo(HaveOccurred())
			api.AssertStatus(resp, http.StatusOK)

			profile := decodeObject(resp)
			Expect(profile).To(HaveKeyWithValue("email", config.UserEmail))
			Expect(api.ValidateSchema(api.SchemaUser, profile)).To(Succeed())
		})

		It("should reject requests without a token", func() {
			resp, err := client.ListContacts(ctx, "", nil)
			if err != nil {
				Skip(err.Error())
			}

			api.AssertStatus(resp, http.StatusUnauthorized)
			Expect(decodeObject(resp)).To(HaveKeyWithValue("error", "Please authenticate."))
		})

		It("should revoke the token on logout", func() {
			requireCredentials()

			token, found, err := client.LoginToken(ctx, config.UserEmail, config.UserPassword)
			if err != nil {
				Skip(err.Error())
			}

			Expect(found).To(BeTrue(), "login did not return a token")

			resp, err := client.Logout(ctx, token)
			Expect(err).NotTo(HaveOccurred())
			api.AssertStatus(resp, http.StatusOK)

			resp, err = client.GetProfile(ctx, token)
			Expect(err).NotTo(HaveOccurred())
			api.AssertStatus(resp, http.StatusUnauthorized)
		})
	})

	Context("When registering a user", func() {
		It("should reject an email address that is already registered", func() {
			requireCredentials()

			resp, err := client.AddUser(ctx, api.NewUserPayload().WithEmail(config.UserEmail).Build())
			Expect(err).NotTo(HaveOccurred())
			api.AssertStatus(resp, http.StatusBadRequest)
			Expect(decodeObject(resp)).To(HaveKeyWithValue("message", "Email address is already in use"))
		})
	})
})
