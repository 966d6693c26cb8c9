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
package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// MaxDumpLength bounds the body section of a response dump.
const MaxDumpLength = 8000

const truncatedSuffix = "\n...(truncated)"

// SafeJSON decodes the response body.  An empty, null or invalid body yields
// false, it never panics or errors.
func SafeJSON(resp *Response) (interface{}, bool) {
	if resp == nil || len(bytes.TrimSpace(resp.Body)) == 0 {
		return nil, false
	}

	var v interface{}
	if err := json.Unmarshal(resp.Body, &v); err != nil {
		return nil, false
	}

	if v == nil {
		return nil, false
	}

	return v, true
}

// SafeJSONObject decodes the response body as a JSON object.
func SafeJSONObject(resp *Response) (map[string]interface{}, bool) {
	v, ok := SafeJSON(resp)
	if !ok {
		return nil, false
	}

	object, ok := v.(map[string]interface{})

	return object, ok
}

func truncate(s string) string {
	if len(s) <= MaxDumpLength {
		return s
	}

	return s[:MaxDumpLength] + truncatedSuffix
}

func prettyJSON(v interface{}) string {
	var buf bytes.Buffer

	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(v); err != nil {
		return fmt.Sprintf("%v", v)
	}

	return strings.TrimSuffix(buf.String(), "\n")
}

// FormatResponse renders a response for failure diagnostics.  JSON bodies are
// pretty printed, anything else is shown verbatim.  Long bodies are truncated.
func FormatResponse(resp *Response, showHeaders bool) string {
	if resp == nil {
		return "<no response>"
	}

	var b strings.Builder

	fmt.Fprintf(&b, "--- HTTP %d %s %s ---\n", resp.StatusCode, resp.Method, resp.URL)

	if resp.TraceParent != "" {
		fmt.Fprintf(&b, "traceID: %s\n", resp.TraceID())
	}

	if showHeaders && len(resp.Header) > 0 {
		flat := make(map[string]string, len(resp.Header))
		for key := range resp.Header {
			flat[key] = resp.Header.Get(key)
		}

		fmt.Fprintf(&b, "headers: %s\n", prettyJSON(flat))
	}

	body := resp.Text()
	if v, ok := SafeJSON(resp); ok {
		body = prettyJSON(v)
	}

	fmt.Fprintf(&b, "body:\n%s\n", truncate(body))
	b.WriteString("--- end response ---")

	return b.String()
}

// CheckStatus returns an unexpected status error if the status code is not
// the expected one.
func CheckStatus(resp *Response, expected int) error {
	if resp.StatusCode != expected {
		return unexpectedStatusError(resp, fmt.Sprintf("%d", expected))
	}

	return nil
}

// CheckOK returns an unexpected status error for anything but a 2xx.
func CheckOK(resp *Response) error {
	if !resp.IsSuccess() {
		return unexpectedStatusError(resp, "2xx")
	}

	return nil
}

// valuesEqual compares decoded JSON values, treating numbers of any Go type
// as equal when their values are.
func valuesEqual(actual, expected interface{}) bool {
	if a, ok := toFloat(actual); ok {
		if e, ok := toFloat(expected); ok {
			return a == e
		}
	}

	return reflect.DeepEqual(actual, expected)
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}

	return 0, false
}

// DiffFields returns a description of every field whose value differs between
// actual and expected.  A field missing from actual is a difference.
func DiffFields(actual, expected map[string]interface{}, fields ...string) []string {
	var diffs []string

	for _, field := range fields {
		want := expected[field]

		got, ok := actual[field]
		if !ok {
			diffs = append(diffs, fmt.Sprintf("%s: missing, want %v", field, want))
			continue
		}

		if !valuesEqual(got, want) {
			diffs = append(diffs, fmt.Sprintf("%s: got %v, want %v", field, got, want))
		}
	}

	return diffs
}

// PrintResponse writes the response dump to the Ginkgo output.
func PrintResponse(resp *Response) {
	fmt.Fprintln(GinkgoWriter, FormatResponse(resp, true))
}

// AssertStatus fails the spec with a response dump if the status code is not
// the expected one.
func AssertStatus(resp *Response, expected int) {
	GinkgoHelper()

	if resp.StatusCode != expected {
		PrintResponse(resp)
	}

	Expect(resp.StatusCode).To(Equal(expected),
		"expected status %d, got %d for %s %s", expected, resp.StatusCode, resp.Method, resp.Path)
}

// AssertOK fails the spec with a response dump if the status code is not 2xx.
func AssertOK(resp *Response) {
	GinkgoHelper()

	if !resp.IsSuccess() {
		PrintResponse(resp)
	}

	Expect(resp.IsSuccess()).To(BeTrue(),
		"expected 2xx status, got %d for %s %s", resp.StatusCode, resp.Method, resp.Path)
}

// ExpectFieldsMatch asserts that every submitted field was echoed back
// unchanged.
func ExpectFieldsMatch(actual, expected map[string]interface{}, fields ...string) {
	GinkgoHelper()

	if len(fields) == 0 {
		fields = ContactFields
	}

	Expect(DiffFields(actual, expected, fields...)).To(BeEmpty(), "response fields differ from payload")
}

// ExpectServerFields asserts the server assigned fields, where present, have
// the expected types.
func ExpectServerFields(body map[string]interface{}) {
	GinkgoHelper()

	for _, field := range []string{"_id", "owner"} {
		if value, ok := body[field]; ok {
			Expect(value).To(BeAssignableToTypeOf(""), "%s should be a string", field)
		}
	}

	if value, ok := body["__v"]; ok {
		version, isNumber := value.(float64)
		Expect(isNumber).To(BeTrue(), "__v should be a number")
		Expect(version).To(Equal(math.Trunc(version)), "__v should be an integer")
	}
}
