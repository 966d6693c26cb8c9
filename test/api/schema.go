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
	_ "embed"
	"fmt"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"
	goerrors "github.com/goliatone/go-errors"
)

// Schema names defined in the embedded document.
const (
	SchemaUser          = "User"
	SchemaLoginResponse = "LoginResponse"
	SchemaContact       = "Contact"
	SchemaContactList   = "ContactList"
)

//go:embed schemas/contactlist.yaml
var contactListSchema []byte

//nolint:gochecknoglobals
var loadSchema = sync.OnceValues(func() (*openapi3.T, error) {
	loader := openapi3.NewLoader()

	doc, err := loader.LoadFromData(contactListSchema)
	if err != nil {
		return nil, fmt.Errorf("loading contact list schema: %w", err)
	}

	if err := doc.Validate(context.Background()); err != nil {
		return nil, fmt.Errorf("validating contact list schema: %w", err)
	}

	return doc, nil
})

// Schema returns the parsed OpenAPI document describing the service.
func Schema() (*openapi3.T, error) {
	return loadSchema()
}

// ValidateSchema checks a decoded JSON value against a named component schema.
func ValidateSchema(name string, value interface{}) error {
	doc, err := loadSchema()
	if err != nil {
		return err
	}

	ref, ok := doc.Components.Schemas[name]
	if !ok || ref.Value == nil {
		return fmt.Errorf("%w: unknown schema %q", ErrSchemaNotFound, name)
	}

	if err := ref.Value.VisitJSON(value); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryValidation, fmt.Sprintf("response does not match %s schema", name)).
			WithTextCode(TextCodeMalformedBody)
	}

	return nil
}

// ValidateLoginResponse checks a login response carries a token and the
// logged in user.
func ValidateLoginResponse(resp *Response) error {
	body, ok := SafeJSON(resp)
	if !ok {
		return malformedBodyError(resp, "login response is not JSON")
	}

	return ValidateSchema(SchemaLoginResponse, body)
}
