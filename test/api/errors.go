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
	"errors"
	"fmt"

	goerrors "github.com/goliatone/go-errors"
)

// Text codes attached to harness errors.  Setup problems and assertion problems
// travel on different codes so fixtures can skip on the former and fail on the
// latter.
const (
	TextCodeCredentialsNotConfigured = "CREDENTIALS_NOT_CONFIGURED"
	TextCodeSetupUnavailable         = "SETUP_UNAVAILABLE"
	TextCodeTransportFailure         = "TRANSPORT_FAILURE"
	TextCodeUnexpectedStatus         = "UNEXPECTED_STATUS"
	TextCodeMalformedBody            = "MALFORMED_BODY"
	TextCodeCleanupFailed            = "CLEANUP_FAILED"
)

// ErrCredentialsNotConfigured is returned when no test identity is configured.
//
//nolint:gochecknoglobals
var ErrCredentialsNotConfigured = goerrors.New(
	"TEST_USER_EMAIL and TEST_USER_PASS are not set; tests requiring authentication will be skipped",
	goerrors.CategoryBadInput).
	WithTextCode(TextCodeCredentialsNotConfigured)

func transportError(method, path string, err error) error {
	return goerrors.Wrap(err, goerrors.CategoryExternal, fmt.Sprintf("%s %s: http request failed", method, path)).
		WithTextCode(TextCodeTransportFailure).
		WithMetadata(map[string]any{
			"method": method,
			"path":   path,
		})
}

func unexpectedStatusError(resp *Response, expected string) error {
	return goerrors.New(fmt.Sprintf("expected status %s, got %d", expected, resp.StatusCode), goerrors.CategoryOperation).
		WithCode(resp.StatusCode).
		WithTextCode(TextCodeUnexpectedStatus).
		WithMetadata(map[string]any{
			"expected": expected,
			"actual":   resp.StatusCode,
			"response": FormatResponse(resp, true),
		})
}

func malformedBodyError(resp *Response, reason string) error {
	return goerrors.New(fmt.Sprintf("%s %s: %s", resp.Method, resp.Path, reason), goerrors.CategoryValidation).
		WithCode(resp.StatusCode).
		WithTextCode(TextCodeMalformedBody).
		WithMetadata(map[string]any{
			"response": FormatResponse(resp, true),
		})
}

// setupUnavailable marks err as a reason the test cannot proceed.
func setupUnavailable(err error, message string) error {
	return goerrors.Wrap(err, goerrors.CategoryOperation, message).
		WithTextCode(TextCodeSetupUnavailable)
}

func cleanupFailed(err error, message string) error {
	return goerrors.Wrap(err, goerrors.CategoryExternal, message).
		WithTextCode(TextCodeCleanupFailed)
}

func textCode(err error) string {
	var rich *goerrors.Error
	if goerrors.As(err, &rich) {
		return rich.TextCode
	}

	return ""
}

// IsCredentialsNotConfigured reports whether err means no test identity is configured.
func IsCredentialsNotConfigured(err error) bool {
	return textCode(err) == TextCodeCredentialsNotConfigured
}

// IsSetupUnavailable reports whether err should skip the test rather than fail it.
func IsSetupUnavailable(err error) bool {
	switch textCode(err) {
	case TextCodeSetupUnavailable, TextCodeCredentialsNotConfigured:
		return true
	}

	return false
}

// IsCleanupFailure reports whether err came from teardown and is a warning only.
func IsCleanupFailure(err error) bool {
	return textCode(err) == TextCodeCleanupFailed
}

// IsTransportFailure reports whether err is a network or client error.
func IsTransportFailure(err error) bool {
	return textCode(err) == TextCodeTransportFailure
}

// ErrSchemaNotFound is returned when validating against an undefined schema.
//
//nolint:gochecknoglobals
var ErrSchemaNotFound = errors.New("schema not found")
