/*
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

//nolint:revive,staticcheck // dot imports are standard for Ginkgo/Gomega test code
package api_test

import (
	"context"
	"net/http"
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/nscaledev/contact-list-api-tests/test/api"
)

var _ = Describe("Session", func() {
	var (
		ctx context.Context
		h   *harness
	)

	BeforeEach(func() {
		ctx = context.Background()
		h = newHarness()
	})

	It("should log in once and reuse the token", func() {
		first, err := h.session.Token(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(len(first)).To(BeNumerically(">", 8))

		second, err := h.session.Token(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(second).To(Equal(first))

		Expect(h.twin.Requests(http.MethodPost, "/users/login")).To(Equal(1))
	})

	It("should log in again after being invalidated", func() {
		h.token(ctx)
		h.session.Invalidate()
		h.token(ctx)

		Expect(h.twin.Requests(http.MethodPost, "/users/login")).To(Equal(2))
	})

	It("should report missing credentials without making a request", func() {
		h.config.UserPassword = ""
		session := api.NewSession(h.client, h.config)

		_, err := session.Token(ctx)
		Expect(api.IsCredentialsNotConfigured(err)).To(BeTrue())
		Expect(api.IsSetupUnavailable(err)).To(BeTrue())
		Expect(h.twin.Requests(http.MethodPost, "/users/login")).To(BeZero())
	})

	It("should report a login that returns no token", func() {
		h.config.UserPassword = "not-the-password"
		session := api.NewSession(h.client, h.config)

		_, err := session.Token(ctx)
		Expect(api.IsNoToken(err)).To(BeTrue())
		Expect(api.IsSetupUnavailable(err)).To(BeFalse())
	})

	It("should treat an unreachable service as setup unavailable", func() {
		server := httptest.NewServer(http.NotFoundHandler())
		server.Close()

		config := testConfig(server.URL)
		session := api.NewSession(api.NewAPIClientWithConfig(config), config)

		_, err := session.Token(ctx)
		Expect(api.IsSetupUnavailable(err)).To(BeTrue())
		Expect(api.IsNoToken(err)).To(BeFalse())
	})

	It("should extract a token from a non-2xx login response", func() {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"user":{"accessToken":"nested-token-value"}}`))
		}))
		DeferCleanup(server.Close)

		client := api.NewAPIClientWithConfig(testConfig(server.URL))

		token, ok, err := client.LoginToken(ctx, harnessEmail, harnessPassword)
		Expect(err).NotTo(HaveOccurred())
		Expect(ok).To(BeTrue())
		Expect(token).To(Equal("nested-token-value"))
	})

	Context("when required by a spec", func() {
		It("should return the token", func() {
			Expect(api.RequireToken(ctx, h.session)).NotTo(BeEmpty())
		})

		It("should skip when credentials are not configured", func() {
			h.config.UserEmail = ""

			api.RequireToken(ctx, api.NewSession(h.client, h.config))
			Fail("RequireToken returned without skipping")
		})

		It("should skip when the service is unreachable", func() {
			h.server.Close()

			api.RequireToken(ctx, h.session)
			Fail("RequireToken returned without skipping")
		})
	})
})
