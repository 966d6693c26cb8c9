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
	"time"

	openapi_types "github.com/oapi-codegen/runtime/types"

	"k8s.io/utils/ptr"
)

// User is a registered user of the service.
type User struct {
	ID        string              `json:"_id"`
	FirstName string              `json:"firstName"`
	LastName  string              `json:"lastName"`
	Email     openapi_types.Email `json:"email"`
	Version   *int                `json:"__v,omitempty"`
}

// LoginResponse is returned by both login and user registration.
type LoginResponse struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}

// Contact is a contact owned by a user.  Everything but the names is optional.
type Contact struct {
	ID            string               `json:"_id,omitempty"`
	FirstName     string               `json:"firstName"`
	LastName      string               `json:"lastName"`
	Birthdate     *openapi_types.Date  `json:"birthdate,omitempty"`
	Email         *openapi_types.Email `json:"email,omitempty"`
	Phone         *string              `json:"phone,omitempty"`
	Street1       *string              `json:"street1,omitempty"`
	Street2       *string              `json:"street2,omitempty"`
	City          *string              `json:"city,omitempty"`
	StateProvince *string              `json:"stateProvince,omitempty"`
	PostalCode    *string              `json:"postalCode,omitempty"`
	Country       *string              `json:"country,omitempty"`
	Owner         string               `json:"owner,omitempty"`
	Version       *int                 `json:"__v,omitempty"`
}

// Payload returns the client submitted fields of the contact as a request
// body.  Unset optional fields are omitted.
func (c *Contact) Payload() map[string]interface{} {
	payload := map[string]interface{}{
		"firstName": c.FirstName,
		"lastName":  c.LastName,
	}

	if c.Birthdate != nil {
		payload["birthdate"] = c.Birthdate.Format(openapi_types.DateFormat)
	}

	if c.Email != nil {
		payload["email"] = string(*c.Email)
	}

	optional := map[string]*string{
		"phone":         c.Phone,
		"street1":       c.Street1,
		"street2":       c.Street2,
		"city":          c.City,
		"stateProvince": c.StateProvince,
		"postalCode":    c.PostalCode,
		"country":       c.Country,
	}

	for field, value := range optional {
		if value != nil {
			payload[field] = ptr.Deref(value, "")
		}
	}

	return payload
}

// DecodeContact decodes a contact response.
func DecodeContact(resp *Response) (*Contact, error) {
	var contact Contact
	if err := resp.JSON(&contact); err != nil {
		return nil, malformedBodyError(resp, err.Error())
	}

	if contact.ID == "" {
		return nil, malformedBodyError(resp, "contact has no _id")
	}

	return &contact, nil
}

// DecodeContacts decodes a contact listing.
func DecodeContacts(resp *Response) ([]Contact, error) {
	var contacts []Contact
	if err := resp.JSON(&contacts); err != nil {
		return nil, malformedBodyError(resp, err.Error())
	}

	return contacts, nil
}

// DecodeLoginResponse decodes a login or registration response.
func DecodeLoginResponse(resp *Response) (*LoginResponse, error) {
	var login LoginResponse
	if err := resp.JSON(&login); err != nil {
		return nil, malformedBodyError(resp, err.Error())
	}

	return &login, nil
}

// ContactFromPayload builds a typed contact from a generated payload.
func ContactFromPayload(payload map[string]interface{}) *Contact {
	str := func(field string) *string {
		if value, ok := payload[field].(string); ok {
			return ptr.To(value)
		}

		return nil
	}

	contact := &Contact{
		FirstName:     ptr.Deref(str("firstName"), ""),
		LastName:      ptr.Deref(str("lastName"), ""),
		Phone:         str("phone"),
		Street1:       str("street1"),
		Street2:       str("street2"),
		City:          str("city"),
		StateProvince: str("stateProvince"),
		PostalCode:    str("postalCode"),
		Country:       str("country"),
	}

	if email := str("email"); email != nil {
		contact.Email = ptr.To(openapi_types.Email(*email))
	}

	if birthdate := str("birthdate"); birthdate != nil {
		if t, err := time.Parse(openapi_types.DateFormat, *birthdate); err == nil {
			contact.Birthdate = &openapi_types.Date{Time: t}
		}
	}

	return contact
}
