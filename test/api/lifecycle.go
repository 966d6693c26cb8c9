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
	"fmt"
	"net/http"
)

// contactIDFields lists the fields a contact identifier may be returned in,
// in priority order.
//
//nolint:gochecknoglobals
var contactIDFields = []string{"_id", "id", "contactId"}

// ExtractID returns the first non-empty identifier found in a decoded body.
func ExtractID(body map[string]interface{}) (string, bool) {
	for _, field := range contactIDFields {
		if id, ok := body[field].(string); ok && id != "" {
			return id, true
		}
	}

	return "", false
}

// ContactHandle is a contact created for the duration of a single test.
type ContactHandle struct {
	ID      string
	Payload map[string]interface{}
	// Created is the decoded create response.
	Created map[string]interface{}

	released bool
}

// Released reports whether the contact has been deleted, or handed back by the
// test having deleted it itself.
func (h *ContactHandle) Released() bool {
	return h.released
}

// MarkReleased records that the test deleted the contact itself so teardown
// does not attempt it again.
func (h *ContactHandle) MarkReleased() {
	h.released = true
}

// ContactLifecycle creates contacts before a test and deletes them afterwards.
type ContactLifecycle struct {
	client *APIClient
	token  string
}

func NewContactLifecycle(client *APIClient, token string) *ContactLifecycle {
	return &ContactLifecycle{
		client: client,
		token:  token,
	}
}

// Acquire creates a contact from a freshly generated payload.
func (l *ContactLifecycle) Acquire(ctx context.Context) (*ContactHandle, error) {
	return l.AcquireWith(ctx, NewContactPayload().Build())
}

// AcquireWith creates a contact from payload.  Every failure is reported as
// setup unavailable, the test cannot run without the contact.
func (l *ContactLifecycle) AcquireWith(ctx context.Context, payload map[string]interface{}) (*ContactHandle, error) {
	resp, err := l.client.CreateContact(ctx, l.token, payload)
	if err != nil {
		return nil, setupUnavailable(err, "creating contact")
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, setupUnavailable(unexpectedStatusError(resp, "200 or 201"), "creating contact")
	}

	created, ok := SafeJSONObject(resp)
	if !ok {
		return nil, setupUnavailable(malformedBodyError(resp, "create response is not a JSON object"), "creating contact")
	}

	id, ok := ExtractID(created)
	if !ok {
		return nil, setupUnavailable(malformedBodyError(resp, "create response has no contact id"), "creating contact")
	}

	l.client.Logger().Debug("contact created", "id", id, "traceID", resp.TraceID())

	return &ContactHandle{
		ID:      id,
		Payload: payload,
		Created: created,
	}, nil
}

// Release deletes the contact.  It is safe to call more than once, only the
// first call issues a request.  Any error returned is a cleanup failure and
// must not fail the test.
func (l *ContactLifecycle) Release(ctx context.Context, handle *ContactHandle) error {
	if handle == nil || handle.released {
		return nil
	}

	handle.released = true

	resp, err := l.client.DeleteContact(ctx, l.token, handle.ID)
	if err != nil {
		return cleanupFailed(err, fmt.Sprintf("deleting contact %s", handle.ID))
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		l.client.Logger().Warn("contact delete returned unexpected status", "id", handle.ID, "response", FormatResponse(resp, false))

		return cleanupFailed(unexpectedStatusError(resp, "200 or 204"), fmt.Sprintf("deleting contact %s", handle.ID))
	}

	return nil
}
