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
	"net/url"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/nscaledev/contact-list-api-tests/test/api"
	"github.com/nscaledev/contact-list-api-tests/test/api/twin"
)

var _ = Describe("ContactSearch", func() {
	var (
		ctx    context.Context
		h      *harness
		token  string
		search *api.ContactSearch
	)

	listRequests := func() int {
		return h.twin.Requests(http.MethodGet, "/contacts")
	}

	BeforeEach(func() {
		ctx = context.Background()
		h = newHarness()
		token = h.token(ctx)
		search = api.NewContactSearch(h.client, token)
	})

	It("should honour the page budget", func() {
		ids := h.createContacts(ctx, token, 2)

		_, found := search.Find(ctx, api.SearchCriteria{ID: ids[1]}, 1, 1)
		Expect(found).To(BeFalse())
		Expect(listRequests()).To(Equal(1))
	})

	It("should find a contact on a later page", func() {
		ids := h.createContacts(ctx, token, 3)

		contact, found := search.Find(ctx, api.SearchCriteria{ID: ids[2]}, 1, 5)
		Expect(found).To(BeTrue())
		Expect(contact).To(HaveKeyWithValue("_id", ids[2]))
		Expect(listRequests()).To(Equal(3))
	})

	It("should find a contact by email", func() {
		payload := api.NewContactPayload().Build()
		api.CreateContactWithCleanup(h.client, ctx, token, payload)

		contact, found := search.Find(ctx, api.SearchCriteria{Email: payload["email"].(string)}, 0, 0) //nolint:forcetypeassert
		Expect(found).To(BeTrue())
		api.ExpectFieldsMatch(contact, payload)
	})

	It("should stop at a short page", func() {
		h.createContacts(ctx, token, 3)

		_, found := search.Find(ctx, api.SearchCriteria{ID: "000000000000000000000fff"}, 2, 10)
		Expect(found).To(BeFalse())
		Expect(listRequests()).To(Equal(2))
	})

	It("should fetch one extra page when the last page is full", func() {
		h.createContacts(ctx, token, 4)

		_, found := search.Find(ctx, api.SearchCriteria{Email: "nobody@example.com"}, 2, 10)
		Expect(found).To(BeFalse())
		Expect(listRequests()).To(Equal(3))
	})

	It("should abort on a non-200 status", func() {
		ids := h.createContacts(ctx, token, 1)
		h.twin.InjectFault(twin.Fault{Method: http.MethodGet, PathPrefix: "/contacts", StatusCode: http.StatusInternalServerError})

		_, found := search.Find(ctx, api.SearchCriteria{ID: ids[0]}, 1, 10)
		Expect(found).To(BeFalse())
		Expect(listRequests()).To(Equal(1))
	})

	It("should abort without a valid token", func() {
		ids := h.createContacts(ctx, token, 1)

		_, found := api.NewContactSearch(h.client, "").Find(ctx, api.SearchCriteria{ID: ids[0]}, 1, 10)
		Expect(found).To(BeFalse())
		Expect(listRequests()).To(Equal(1))
	})

	It("should use configured pagination parameter names", func() {
		var seen url.Values

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = r.URL.Query()

			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`[{"id":"x1"}]`))
		}))
		DeferCleanup(server.Close)

		custom := api.NewContactSearch(api.NewAPIClientWithConfig(testConfig(server.URL)), "token")
		custom.PageParam = "p"
		custom.LimitParam = "per_page"

		contact, found := custom.Find(ctx, api.SearchCriteria{ID: "x1", Params: url.Values{"sort": {"asc"}}}, 50, 1)
		Expect(found).To(BeTrue())
		Expect(contact).To(HaveKeyWithValue("id", "x1"))
		Expect(seen.Get("p")).To(Equal("1"))
		Expect(seen.Get("per_page")).To(Equal("50"))
		Expect(seen.Get("sort")).To(Equal("asc"))
	})

	DescribeTable("should abort on an unusable body",
		func(body string) {
			requests := 0

			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				requests++
				_, _ = w.Write([]byte(body))
			}))
			DeferCleanup(server.Close)

			_, found := api.NewContactSearch(api.NewAPIClientWithConfig(testConfig(server.URL)), "token").
				Find(ctx, api.SearchCriteria{ID: "x1"}, 1, 10)
			Expect(found).To(BeFalse())
			Expect(requests).To(Equal(1))
		},
		Entry("not JSON", "<html>oops</html>"),
		Entry("an object", `{"contacts":[{"_id":"x1"}]}`),
		Entry("null", "null"),
	)
})

var _ = Describe("SearchCriteria", func() {
	It("should match on any id field or email", func() {
		Expect(api.SearchCriteria{ID: "a"}.Matches(map[string]interface{}{"_id": "a"})).To(BeTrue())
		Expect(api.SearchCriteria{ID: "a"}.Matches(map[string]interface{}{"contactId": "a"})).To(BeTrue())
		Expect(api.SearchCriteria{Email: "a@example.com"}.Matches(map[string]interface{}{"email": "a@example.com"})).To(BeTrue())
		Expect(api.SearchCriteria{ID: "a"}.Matches(map[string]interface{}{"_id": "b"})).To(BeFalse())
		Expect(api.SearchCriteria{}.Matches(map[string]interface{}{"_id": ""})).To(BeFalse())
	})
})
