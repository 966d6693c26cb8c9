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

//nolint:revive,staticcheck // dot imports are standard for Ginkgo/Gomega test code
package api

import (
	"context"
	"fmt"

	. "github.com/onsi/ginkgo/v2"
)

// RequireToken returns the session token.  Missing credentials or an
// unreachable service skip the spec, a login that returns no token fails it.
func RequireToken(ctx context.Context, session *Session) string {
	GinkgoHelper()

	token, err := session.Token(ctx)

	switch {
	case err == nil:
		return token
	case IsNoToken(err):
		Fail(err.Error())
	case IsSetupUnavailable(err):
		Skip(err.Error())
	default:
		Fail(fmt.Sprintf("acquiring session token: %v", err))
	}

	return ""
}

// CreateContactWithCleanup creates a contact and schedules its deletion.  If
// the contact cannot be created the spec is skipped.  Deletion runs whether
// the spec passes or fails, and a failed deletion is only a warning.
func CreateContactWithCleanup(client *APIClient, ctx context.Context, token string, payload map[string]interface{}) *ContactHandle {
	GinkgoHelper()

	if payload == nil {
		payload = NewContactPayload().Build()
	}

	lifecycle := NewContactLifecycle(client, token)

	handle, err := lifecycle.AcquireWith(ctx, payload)
	if err != nil {
		Skip(fmt.Sprintf("contact fixture unavailable: %v", err))
	}

	GinkgoWriter.Printf("Created contact with ID: %s\n", handle.ID)

	if err := NewRunCache(client.config.CacheDir).RecordContact(handle.ID); err != nil {
		GinkgoWriter.Printf("Warning: Failed to record contact %s in run cache: %v\n", handle.ID, err)
	}

	DeferRelease(lifecycle, handle)

	return handle
}

// DeferRelease schedules deletion of a contact created by the spec itself.
// Failures are logged as warnings and never fail the spec.
func DeferRelease(lifecycle *ContactLifecycle, handle *ContactHandle) {
	DeferCleanup(func(ctx context.Context) {
		if handle.Released() {
			return
		}

		GinkgoWriter.Printf("Cleaning up contact: %s\n", handle.ID)

		if err := lifecycle.Release(ctx, handle); err != nil {
			GinkgoWriter.Printf("Warning: Failed to delete contact %s: %v\n", handle.ID, err)
			return
		}

		GinkgoWriter.Printf("Successfully deleted contact: %s\n", handle.ID)
	})
}
