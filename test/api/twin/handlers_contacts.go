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

package twin

import (
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
)

//nolint:gochecknoglobals
var (
	objectIDPattern = regexp.MustCompile(`^[0-9a-f]{24}$`)
	emailPattern    = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
)

// contactFields are the client writable contact fields with their maximum
// lengths, zero meaning unbounded.
//
//nolint:gochecknoglobals
var contactFields = map[string]int{
	"firstName":     20,
	"lastName":      20,
	"birthdate":     0,
	"email":         0,
	"phone":         15,
	"street1":       40,
	"street2":       40,
	"city":          40,
	"stateProvince": 20,
	"postalCode":    10,
	"country":       40,
}

func validEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// decodeContact reads and validates a contact body.  Unknown fields are
// ignored.  With partial set the names are not required.
func decodeContact(r *http.Request, partial bool) (map[string]string, string) {
	var raw map[string]any
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		return nil, "Contact validation failed: malformed request body"
	}

	fields := map[string]string{}

	for field, maxLength := range contactFields {
		value, ok := raw[field]
		if !ok || value == nil {
			continue
		}

		s, ok := value.(string)
		if !ok {
			return nil, fmt.Sprintf("Contact validation failed: %s: Cast to string failed", field)
		}

		if maxLength > 0 && len(s) > maxLength {
			return nil, fmt.Sprintf("Contact validation failed: %s: Path `%s` is longer than the maximum allowed length (%d).", field, field, maxLength)
		}

		fields[field] = s
	}

	if !partial {
		for _, field := range []string{"firstName", "lastName"} {
			if fields[field] == "" {
				return nil, fmt.Sprintf("Contact validation failed: %s: Path `%s` is required.", field, field)
			}
		}
	}

	if birthdate, ok := fields["birthdate"]; ok && birthdate != "" {
		if _, err := time.Parse(time.DateOnly, birthdate); err != nil {
			return nil, "Contact validation failed: birthdate: Birthdate is invalid"
		}
	}

	if email, ok := fields["email"]; ok && email != "" && !validEmail(email) {
		return nil, "Contact validation failed: email: Email is invalid"
	}

	return fields, ""
}

// contactID returns the path id, writing a 400 if it is malformed.
func contactID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := chi.URLParam(r, "contactID")
	if !objectIDPattern.MatchString(id) {
		writeError(w, http.StatusBadRequest, "Invalid Contact ID")
		return "", false
	}

	return id, true
}

// CreateContact handles POST /contacts.
func (h *handler) CreateContact(w http.ResponseWriter, r *http.Request) {
	fields, problem := decodeContact(r, false)
	if problem != "" {
		writeError(w, http.StatusBadRequest, problem)
		return
	}

	contact := h.store.CreateContact(userFromContext(r.Context()).ID, fields)

	writeJSON(w, http.StatusCreated, contact.view())
}

func positiveQueryInt(r *http.Request, name string) (int, bool) {
	value, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil || value < 1 {
		return 0, false
	}

	return value, true
}

// ListContacts handles GET /contacts.  Without a limit every contact is
// returned.
func (h *handler) ListContacts(w http.ResponseWriter, r *http.Request) {
	contacts := h.store.ListContacts(userFromContext(r.Context()).ID)

	if limit, ok := positiveQueryInt(r, "limit"); ok {
		page, ok := positiveQueryInt(r, "page")
		if !ok {
			page = 1
		}

		start := min((page-1)*limit, len(contacts))
		end := min(start+limit, len(contacts))
		contacts = contacts[start:end]
	}

	views := make([]map[string]any, 0, len(contacts))
	for _, contact := range contacts {
		views = append(views, contact.view())
	}

	writeJSON(w, http.StatusOK, views)
}

// GetContact handles GET /contacts/{contactID}.  Missing contacts get a bare
// 404.
func (h *handler) GetContact(w http.ResponseWriter, r *http.Request) {
	id, ok := contactID(w, r)
	if !ok {
		return
	}

	contact, err := h.store.GetContact(userFromContext(r.Context()).ID, id)
	if err != nil {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	writeJSON(w, http.StatusOK, contact.view())
}

func (h *handler) updateContact(w http.ResponseWriter, r *http.Request, merge bool) {
	id, ok := contactID(w, r)
	if !ok {
		return
	}

	fields, problem := decodeContact(r, merge)
	if problem != "" {
		writeError(w, http.StatusBadRequest, problem)
		return
	}

	contact, err := h.store.UpdateContact(userFromContext(r.Context()).ID, id, fields, merge)
	if err != nil {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	writeJSON(w, http.StatusOK, contact.view())
}

// UpdateContact handles PUT /contacts/{contactID}, replacing every field.
func (h *handler) UpdateContact(w http.ResponseWriter, r *http.Request) {
	h.updateContact(w, r, false)
}

// PatchContact handles PATCH /contacts/{contactID}.
func (h *handler) PatchContact(w http.ResponseWriter, r *http.Request) {
	h.updateContact(w, r, true)
}

// DeleteContact handles DELETE /contacts/{contactID}.
func (h *handler) DeleteContact(w http.ResponseWriter, r *http.Request) {
	id, ok := contactID(w, r)
	if !ok {
		return
	}

	if err := h.store.DeleteContact(userFromContext(r.Context()).ID, id); err != nil {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("Contact deleted"))
}
