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

package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

const (
	DefaultSearchPageSize = 100
	DefaultSearchMaxPages = 10
)

// SearchCriteria selects a contact from a listing.  ID matches any of the
// known identifier fields, Email matches the email field.  Either may be empty
// but not both.
type SearchCriteria struct {
	ID    string
	Email string
	// Params are extra query parameters sent with every page request.
	Params url.Values
}

// Matches reports whether item satisfies the criteria.
func (c SearchCriteria) Matches(item map[string]interface{}) bool {
	if c.ID != "" {
		for _, field := range contactIDFields {
			if id, ok := item[field].(string); ok && id == c.ID {
				return true
			}
		}
	}

	if c.Email != "" {
		if email, ok := item["email"].(string); ok && email == c.Email {
			return true
		}
	}

	return false
}

// ContactSearch walks the contact listing a page at a time with a hard cap on
// the number of requests made.
type ContactSearch struct {
	client *APIClient
	token  string

	// PageParam and LimitParam name the pagination query parameters.
	PageParam  string
	LimitParam string
}

func NewContactSearch(client *APIClient, token string) *ContactSearch {
	return &ContactSearch{
		client:     client,
		token:      token,
		PageParam:  "page",
		LimitParam: "limit",
	}
}

// Find returns the first listed contact matching criteria.  At most maxPages
// pages of pageSize items are requested; non-positive values fall back to the
// defaults.  Any transport error, non-200 status or non-array body ends the
// search with nothing found.  A page shorter than pageSize is taken to be the
// last one, so an exactly full final page costs one extra request.
func (s *ContactSearch) Find(ctx context.Context, criteria SearchCriteria, pageSize, maxPages int) (map[string]interface{}, bool) {
	if pageSize <= 0 {
		pageSize = DefaultSearchPageSize
	}

	if maxPages <= 0 {
		maxPages = DefaultSearchMaxPages
	}

	logger := s.client.Logger()

	for page := 1; page <= maxPages; page++ {
		query := url.Values{}

		for key, values := range criteria.Params {
			query[key] = values
		}

		query.Set(s.PageParam, strconv.Itoa(page))
		query.Set(s.LimitParam, strconv.Itoa(pageSize))

		resp, err := s.client.ListContacts(ctx, s.token, query)
		if err != nil {
			logger.Warn("contact search aborted", "page", page, "error", err)
			return nil, false
		}

		if resp.StatusCode != http.StatusOK {
			logger.Warn("contact search aborted", "page", page, "status", resp.StatusCode, "traceID", resp.TraceID())
			return nil, false
		}

		body, ok := SafeJSON(resp)
		if !ok {
			logger.Warn("contact search aborted, body is not JSON", "page", page)
			return nil, false
		}

		items, ok := body.([]interface{})
		if !ok {
			logger.Warn("contact search aborted, body is not a list", "page", page)
			return nil, false
		}

		for _, raw := range items {
			item, ok := raw.(map[string]interface{})
			if !ok {
				continue
			}

			if criteria.Matches(item) {
				logger.Debug("contact found", "page", page)
				return item, true
			}
		}

		if len(items) < pageSize {
			break
		}
	}

	return nil, false
}
