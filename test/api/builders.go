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

package api

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"maps"
	mathrand "math/rand/v2"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ContactFields are the fields a client submits when creating a contact, and
// which the service must echo back unchanged.
//
//nolint:gochecknoglobals
var ContactFields = []string{
	"firstName",
	"lastName",
	"birthdate",
	"email",
	"phone",
	"street1",
	"street2",
	"city",
	"stateProvince",
	"postalCode",
	"country",
}

func generateRandomName(prefix string) string {
	buf := make([]byte, 6) // 12 hex characters
	_, _ = rand.Read(buf)

	return fmt.Sprintf("%s-%s", prefix, hex.EncodeToString(buf))
}

// GenerateTestID returns a random identifier suitable for passwords and names.
func GenerateTestID() string {
	return generateRandomName("test")
}

// UniqueLocalPart generates an email local-part that will not collide across
// repeated test runs.
func UniqueLocalPart() string {
	return "test" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}

// randomBirthdate returns a YYYY-MM-DD date between 1950 and 2000 inclusive.
func randomBirthdate() string {
	start := time.Date(1950, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2000, time.December, 31, 0, 0, 0, 0, time.UTC)
	days := int(end.Sub(start).Hours() / 24)

	//nolint:gosec // not security sensitive
	return start.AddDate(0, 0, mathrand.IntN(days+1)).Format(time.DateOnly)
}

// ContactPayloadBuilder builds contact payloads for testing.
type ContactPayloadBuilder struct {
	payload map[string]interface{}
}

// NewContactPayload creates a contact payload with a unique name and email.
func NewContactPayload() *ContactPayloadBuilder {
	uid := UniqueLocalPart()

	return &ContactPayloadBuilder{
		payload: map[string]interface{}{
			"firstName":     "Test" + uid,
			"lastName":      "User",
			"birthdate":     randomBirthdate(),
			"email":         uid + "@example.com",
			"phone":         "8005555555",
			"street1":       "1 Main St.",
			"street2":       "Apartment A",
			"city":          "Anytown",
			"stateProvince": "KS",
			"postalCode":    "12345",
			"country":       "USA",
		},
	}
}

func (b *ContactPayloadBuilder) WithFirstName(name string) *ContactPayloadBuilder {
	b.payload["firstName"] = name
	return b
}

func (b *ContactPayloadBuilder) WithLastName(name string) *ContactPayloadBuilder {
	b.payload["lastName"] = name
	return b
}

func (b *ContactPayloadBuilder) WithEmail(email string) *ContactPayloadBuilder {
	b.payload["email"] = email
	return b
}

// WithBirthdate sets the birthdate, which must be formatted YYYY-MM-DD.
func (b *ContactPayloadBuilder) WithBirthdate(birthdate string) *ContactPayloadBuilder {
	b.payload["birthdate"] = birthdate
	return b
}

func (b *ContactPayloadBuilder) WithPhone(phone string) *ContactPayloadBuilder {
	b.payload["phone"] = phone
	return b
}

func (b *ContactPayloadBuilder) WithCity(city string) *ContactPayloadBuilder {
	b.payload["city"] = city
	return b
}

// WithOverrides shallow merges fields over the defaults.
func (b *ContactPayloadBuilder) WithOverrides(overrides map[string]interface{}) *ContactPayloadBuilder {
	maps.Copy(b.payload, overrides)
	return b
}

// Without removes a field (e.g. to test required field validation).
func (b *ContactPayloadBuilder) Without(field string) *ContactPayloadBuilder {
	delete(b.payload, field)
	return b
}

// Build returns a copy of the completed contact payload.
func (b *ContactPayloadBuilder) Build() map[string]interface{} {
	return maps.Clone(b.payload)
}

// UserPayloadBuilder builds user registration payloads.
type UserPayloadBuilder struct {
	payload map[string]interface{}
}

// NewUserPayload creates a user with a unique email and a random password.
func NewUserPayload() *UserPayloadBuilder {
	uid := UniqueLocalPart()

	return &UserPayloadBuilder{
		payload: map[string]interface{}{
			"firstName": "Test" + uid,
			"lastName":  "User",
			"email":     uid + "@example.com",
			"password":  GenerateTestID(),
		},
	}
}

func (b *UserPayloadBuilder) WithEmail(email string) *UserPayloadBuilder {
	b.payload["email"] = email
	return b
}

func (b *UserPayloadBuilder) WithPassword(password string) *UserPayloadBuilder {
	b.payload["password"] = password
	return b
}

// Build returns a copy of the completed user payload.
func (b *UserPayloadBuilder) Build() map[string]interface{} {
	return maps.Clone(b.payload)
}
