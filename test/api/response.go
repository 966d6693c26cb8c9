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
	"encoding/json"
	"fmt"
	"net/http"
)

// Response is a fully read HTTP response.  The body has already been consumed
// and closed, so it can be inspected any number of times.
type Response struct {
	Method      string
	Path        string
	URL         string
	StatusCode  int
	Header      http.Header
	Body        []byte
	TraceParent string
}

// Text returns the raw response body.
func (r *Response) Text() string {
	return string(r.Body)
}

// JSON decodes the response body into v.
func (r *Response) JSON(v interface{}) error {
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("decoding %s %s response: %w", r.Method, r.Path, err)
	}

	return nil
}

// IsSuccess reports whether the status code is 2xx.
func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// TraceID returns the trace ID sent with the request, for log correlation.
func (r *Response) TraceID() string {
	return extractTraceID(r.TraceParent)
}
