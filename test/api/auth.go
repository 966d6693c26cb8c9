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

	goerrors "github.com/goliatone/go-errors"
	"github.com/tidwall/gjson"
)

// TextCodeNoToken is attached when a login response carried no usable token.
const TextCodeNoToken = "LOGIN_RETURNED_NO_TOKEN"

// tokenPaths lists where a bearer token may appear in a login response, in
// priority order.  The service documents "token" but the user object has
// carried it in the past.
//
//nolint:gochecknoglobals
var tokenPaths = []string{
	"token",
	"access_token",
	"accessToken",
	"jwt",
	"user.token",
	"user.access_token",
	"user.accessToken",
}

// ExtractToken returns the first non-empty string found at one of the known
// token paths.  A body that is not JSON, or has no token, yields false.
func ExtractToken(body []byte) (string, bool) {
	if !gjson.ValidBytes(body) {
		return "", false
	}

	for _, path := range tokenPaths {
		result := gjson.GetBytes(body, path)
		if result.Type == gjson.String && result.Str != "" {
			return result.Str, true
		}
	}

	return "", false
}

// LoginToken logs in and extracts a token from whatever body comes back, even
// for a non-2xx status.  Only transport failures are returned as errors.
func (c *APIClient) LoginToken(ctx context.Context, email, password string) (string, bool, error) {
	resp, err := c.Login(ctx, email, password)
	if err != nil {
		return "", false, err
	}

	token, ok := ExtractToken(resp.Body)
	if !ok {
		c.logger.Warn("login response carried no token", "status", resp.StatusCode, "traceID", resp.TraceID())
	}

	return token, ok, nil
}

// Session owns the bearer token for the configured test identity.  The token is
// acquired on first use and shared by every spec for the lifetime of the suite.
// A Session is not safe for concurrent use.
type Session struct {
	client   *APIClient
	email    string
	password string
	token    string
}

func NewSession(client *APIClient, config *TestConfig) *Session {
	return &Session{
		client:   client,
		email:    config.UserEmail,
		password: config.UserPassword,
	}
}

// Email returns the configured test identity.
func (s *Session) Email() string {
	return s.email
}

// Token returns the cached token, logging in if required.
func (s *Session) Token(ctx context.Context) (string, error) {
	if s.token != "" {
		return s.token, nil
	}

	if s.email == "" || s.password == "" {
		return "", ErrCredentialsNotConfigured
	}

	token, ok, err := s.client.LoginToken(ctx, s.email, s.password)
	if err != nil {
		return "", setupUnavailable(err, "logging in test user")
	}

	if !ok {
		return "", goerrors.New("login did not return a token, check TEST_USER_EMAIL/TEST_USER_PASS or the /users/login endpoint", goerrors.CategoryAuth).
			WithTextCode(TextCodeNoToken)
	}

	s.token = token

	return token, nil
}

// Invalidate forgets the cached token, e.g. after logging out.
func (s *Session) Invalidate() {
	s.token = ""
}

// IsNoToken reports whether a login completed without yielding a token.
func IsNoToken(err error) bool {
	return textCode(err) == TextCodeNoToken
}
