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

//nolint:revive // naming conventions acceptable in test code
package api

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/onsi/ginkgo/v2"
)

//go:generate mockgen -source=api_client.go -destination=mock/doer.go -package=mock

// HTTPDoer is the subset of *http.Client used by the API client.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

type APIClient struct {
	baseURL   string
	client    HTTPDoer
	config    *TestConfig
	endpoints *Endpoints
	logger    *slog.Logger
}

func NewAPIClientWithConfig(config *TestConfig) *APIClient {
	return NewAPIClientWithDoer(config, &http.Client{
		Timeout: config.RequestTimeout,
	})
}

// NewAPIClientWithDoer creates a client that sends requests through doer.
func NewAPIClientWithDoer(config *TestConfig, doer HTTPDoer) *APIClient {
	return &APIClient{
		baseURL:   strings.TrimSuffix(config.BaseURL, "/"),
		client:    doer,
		config:    config,
		endpoints: NewEndpoints(),
		logger:    NewLogger(ginkgo.GinkgoWriter, config.DebugLogging, true),
	}
}

// SetLogger replaces the default GinkgoWriter logger.
func (c *APIClient) SetLogger(logger *slog.Logger) {
	c.logger = logger
}

func (c *APIClient) Logger() *slog.Logger {
	return c.logger
}

func (c *APIClient) BaseURL() string {
	return c.baseURL
}

func (c *APIClient) Endpoints() *Endpoints {
	return c.endpoints
}

type requestOptions struct {
	token   string
	body    interface{}
	hasBody bool
	query   url.Values
	header  http.Header
}

// RequestOption customises a single request.
type RequestOption func(*requestOptions)

// WithToken attaches a bearer token.  An empty token sends no Authorization header.
func WithToken(token string) RequestOption {
	return func(o *requestOptions) {
		o.token = token
	}
}

// WithJSON serializes body as the JSON request body.
func WithJSON(body interface{}) RequestOption {
	return func(o *requestOptions) {
		o.body = body
		o.hasBody = true
	}
}

// WithQuery adds query parameters, replacing any with the same name.
func WithQuery(query url.Values) RequestOption {
	return func(o *requestOptions) {
		for key, values := range query {
			o.query[key] = values
		}
	}
}

// WithHeader sets an extra request header.
func WithHeader(key, value string) RequestOption {
	return func(o *requestOptions) {
		o.header.Set(key, value)
	}
}

func (c *APIClient) Get(ctx context.Context, path string, opts ...RequestOption) (*Response, error) {
	return c.Do(ctx, http.MethodGet, path, opts...)
}

func (c *APIClient) Post(ctx context.Context, path string, opts ...RequestOption) (*Response, error) {
	return c.Do(ctx, http.MethodPost, path, opts...)
}

func (c *APIClient) Put(ctx context.Context, path string, opts ...RequestOption) (*Response, error) {
	return c.Do(ctx, http.MethodPut, path, opts...)
}

func (c *APIClient) Patch(ctx context.Context, path string, opts ...RequestOption) (*Response, error) {
	return c.Do(ctx, http.MethodPatch, path, opts...)
}

func (c *APIClient) Delete(ctx context.Context, path string, opts ...RequestOption) (*Response, error) {
	return c.Do(ctx, http.MethodDelete, path, opts...)
}

// logError logs a transport error with trace context.
func (c *APIClient) logError(method, path string, duration time.Duration, traceParent string, err error, context string) {
	c.logger.Error(context, "method", method, "path", path, "duration", duration, "traceparent", traceParent, "error", err)
	c.logTraceContext(traceParent)
}

// logTraceContext logs the trace context information.
func (c *APIClient) logTraceContext(traceParent string) {
	c.logger.Info("use this trace ID to search service logs for the request", "traceID", extractTraceID(traceParent))
}

// generateTraceID creates a new W3C trace ID.
// A new trace ID per request means a failure can be found in the service logs.
func generateTraceID() string {
	buf := make([]byte, 16)
	_, _ = rand.Read(buf)

	return hex.EncodeToString(buf)
}

// generateSpanID creates a new W3C span ID.
func generateSpanID() string {
	buf := make([]byte, 8)
	_, _ = rand.Read(buf)

	return hex.EncodeToString(buf)
}

// createTraceParent creates a W3C traceparent header value.
func createTraceParent() string {
	return fmt.Sprintf("00-%s-%s-01", generateTraceID(), generateSpanID())
}

// extractTraceID extracts the trace ID from a traceparent header value.
func extractTraceID(traceParent string) string {
	parts := strings.Split(traceParent, "-")
	if len(parts) >= 2 {
		return parts[1]
	}

	return traceParent
}

func (c *APIClient) buildURL(path string, query url.Values) (string, error) {
	fullURL, err := url.Parse(c.baseURL + path)
	if err != nil {
		return "", fmt.Errorf("parsing request URL: %w", err)
	}

	if len(query) > 0 {
		merged := fullURL.Query()

		for key, values := range query {
			merged[key] = values
		}

		fullURL.RawQuery = merged.Encode()
	}

	return fullURL.String(), nil
}

// Do issues a single request.  Any status code is returned as a response; only
// transport failures are returned as errors.  There are no retries.
//
//nolint:cyclop // test code complexity is acceptable
func (c *APIClient) Do(ctx context.Context, method, path string, opts ...RequestOption) (*Response, error) {
	options := &requestOptions{
		query:  url.Values{},
		header: http.Header{},
	}

	for _, opt := range opts {
		opt(options)
	}

	fullURL, err := c.buildURL(path, options.query)
	if err != nil {
		return nil, err
	}

	var body io.Reader

	if options.hasBody {
		data, err := json.Marshal(options.body)
		if err != nil {
			return nil, fmt.Errorf("marshaling request body: %w", err)
		}

		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	// Add W3C Trace Context headers
	traceParent := createTraceParent()
	req.Header.Set("Traceparent", traceParent)
	req.Header.Set("Tracestate", "test-automation=ginkgo")
	req.Header.Set("Accept", "application/json")

	for key, values := range options.header {
		req.Header[key] = values
	}

	if options.hasBody && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}

	if options.token != "" {
		req.Header.Set("Authorization", "Bearer "+options.token)
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	duration := time.Since(start)

	if err != nil {
		c.logError(method, path, duration, traceParent, err, "http request failed")
		return nil, transportError(method, path, err)
	}

	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logError(method, path, duration, traceParent, err, "reading response body")
		return nil, transportError(method, path, fmt.Errorf("reading response body: %w", err))
	}

	if c.config.LogRequests {
		c.logger.Info("request", "method", method, "path", path, "status", resp.StatusCode, "duration", duration, "traceparent", traceParent)
	}

	if c.config.LogResponses && len(respBody) > 0 {
		c.logger.Info("response body", "method", method, "path", path, "body", string(respBody))
	}

	return &Response{
		Method:      method,
		Path:        path,
		URL:         fullURL,
		StatusCode:  resp.StatusCode,
		Header:      resp.Header,
		Body:        respBody,
		TraceParent: traceParent,
	}, nil
}

// AddUser registers a new user.
func (c *APIClient) AddUser(ctx context.Context, body map[string]interface{}) (*Response, error) {
	return c.Post(ctx, c.endpoints.AddUser(), WithJSON(body))
}

// Login posts credentials to the login endpoint.
func (c *APIClient) Login(ctx context.Context, email, password string) (*Response, error) {
	return c.Post(ctx, c.endpoints.Login(), WithJSON(map[string]interface{}{
		"email":    email,
		"password": password,
	}))
}

func (c *APIClient) Logout(ctx context.Context, token string) (*Response, error) {
	return c.Post(ctx, c.endpoints.Logout(), WithToken(token))
}

func (c *APIClient) GetProfile(ctx context.Context, token string) (*Response, error) {
	return c.Get(ctx, c.endpoints.Profile(), WithToken(token))
}

func (c *APIClient) CreateContact(ctx context.Context, token string, payload map[string]interface{}) (*Response, error) {
	return c.Post(ctx, c.endpoints.CreateContact(), WithToken(token), WithJSON(payload))
}

func (c *APIClient) GetContact(ctx context.Context, token, contactID string) (*Response, error) {
	return c.Get(ctx, c.endpoints.GetContact(contactID), WithToken(token))
}

// ListContacts lists contacts, query may carry pagination parameters.
func (c *APIClient) ListContacts(ctx context.Context, token string, query url.Values) (*Response, error) {
	return c.Get(ctx, c.endpoints.ListContacts(), WithToken(token), WithQuery(query))
}

// UpdateContact replaces a contact.
func (c *APIClient) UpdateContact(ctx context.Context, token, contactID string, payload map[string]interface{}) (*Response, error) {
	return c.Put(ctx, c.endpoints.UpdateContact(contactID), WithToken(token), WithJSON(payload))
}

// PatchContact updates a subset of contact fields.
func (c *APIClient) PatchContact(ctx context.Context, token, contactID string, fields map[string]interface{}) (*Response, error) {
	return c.Patch(ctx, c.endpoints.UpdateContact(contactID), WithToken(token), WithJSON(fields))
}

func (c *APIClient) DeleteContact(ctx context.Context, token, contactID string) (*Response, error) {
	return c.Delete(ctx, c.endpoints.DeleteContact(contactID), WithToken(token))
}
