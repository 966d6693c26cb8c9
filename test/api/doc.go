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

// Package api provides integration test utilities for the Contact List API.
//
// # Client
//
// APIClient is a thin HTTP client that returns every response, whatever its
// status, and only errors on transport failure.  Each request carries W3C
// trace context headers so a failure can be found in the service logs.
//
// # Sessions and fixtures
//
// Session logs the configured test user in once and shares the token between
// specs.  Missing credentials or an unreachable service skip dependent specs,
// they are not defects in the service.  CreateContactWithCleanup creates a
// contact for the current spec and deletes it afterwards whether the spec
// passed or not.  A failed delete is only reported as a warning.
//
// # Searching
//
// ContactSearch pages through the contact listing with a hard cap on the
// number of requests.  A short page is taken as the end of the listing.
//
// # Offline runs
//
// Setting TEST_USE_TWIN runs the suites against the in-memory twin in the
// twin package rather than the live service.
package api
