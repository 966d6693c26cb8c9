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
	"errors"
	"net/http"
)

const minPasswordLength = 7

type userRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

// AddUser handles POST /users.
func (h *handler) AddUser(w http.ResponseWriter, r *http.Request) {
	var req userRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "User validation failed: malformed request body")
		return
	}

	switch {
	case req.FirstName == "":
		writeError(w, http.StatusBadRequest, "User validation failed: firstName: Path `firstName` is required.")
		return
	case req.LastName == "":
		writeError(w, http.StatusBadRequest, "User validation failed: lastName: Path `lastName` is required.")
		return
	case !validEmail(req.Email):
		writeError(w, http.StatusBadRequest, "User validation failed: email: Email is invalid")
		return
	case len(req.Password) < minPasswordLength:
		writeError(w, http.StatusBadRequest, "User validation failed: password: Path `password` is shorter than the minimum allowed length (7).")
		return
	}

	user, err := h.store.CreateUser(req.FirstName, req.LastName, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, ErrEmailInUse) {
			writeError(w, http.StatusBadRequest, "Email address is already in use")
			return
		}

		writeError(w, http.StatusInternalServerError, err.Error())

		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"user":  user.view(),
		"token": h.store.IssueToken(user.ID),
	})
}

// Login handles POST /users/login.  Bad credentials get a bare 401.
func (h *handler) Login(w http.ResponseWriter, r *http.Request) {
	var req userRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	user, token, ok := h.store.Authenticate(req.Email, req.Password)
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"user":  user.view(),
		"token": token,
	})
}

// GetProfile handles GET /users/me.
func (h *handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, userFromContext(r.Context()).view())
}

// Logout handles POST /users/logout, revoking the presented token.
func (h *handler) Logout(w http.ResponseWriter, r *http.Request) {
	//nolint:forcetypeassert // always set by authenticate
	h.store.RevokeToken(r.Context().Value(tokenKey).(string))
	w.WriteHeader(http.StatusOK)
}
