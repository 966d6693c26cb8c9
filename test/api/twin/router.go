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

// Package twin is an in-memory stand-in for the Contact List service.  It
// implements enough of the API for the test harness to be exercised without
// network access.
package twin

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

type contextKey int

const (
	userKey contextKey = iota
	tokenKey
)

// Fault forces matching requests to fail with the given status.
type Fault struct {
	Method     string
	PathPrefix string
	StatusCode int
}

// Twin serves the Contact List API from memory.
type Twin struct {
	Router *chi.Mux
	Store  *Store

	mu       sync.Mutex
	faults   []Fault
	requests map[string]int
}

// New creates a twin with an empty store.
func New() *Twin {
	t := &Twin{
		Router:   chi.NewRouter(),
		Store:    NewStore(),
		requests: map[string]int{},
	}

	h := &handler{store: t.Store}

	r := t.Router
	r.Use(chimw.Recoverer)
	r.Use(t.countRequests)
	r.Use(t.injectFaults)

	r.Post("/users", h.AddUser)
	r.Post("/users/login", h.Login)

	r.Group(func(r chi.Router) {
		r.Use(h.authenticate)

		r.Get("/users/me", h.GetProfile)
		r.Post("/users/logout", h.Logout)

		r.Post("/contacts", h.CreateContact)
		r.Get("/contacts", h.ListContacts)
		r.Get("/contacts/{contactID}", h.GetContact)
		r.Put("/contacts/{contactID}", h.UpdateContact)
		r.Patch("/contacts/{contactID}", h.PatchContact)
		r.Delete("/contacts/{contactID}", h.DeleteContact)
	})

	return t
}

func (t *Twin) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	t.Router.ServeHTTP(w, r)
}

// SeedUser registers a user directly, bypassing the API.
func (t *Twin) SeedUser(email, password string) (User, error) {
	return t.Store.CreateUser("Test", "User", email, password)
}

// InjectFault makes matching requests fail until Reset is called.
func (t *Twin) InjectFault(fault Fault) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.faults = append(t.faults, fault)
}

// Requests returns how many requests were made for method and path.
func (t *Twin) Requests(method, path string) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.requests[method+" "+path]
}

// Reset clears all state, faults and request counts.
func (t *Twin) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.faults = nil
	t.requests = map[string]int{}
	t.Store.Reset()
}

func (t *Twin) countRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.mu.Lock()
		t.requests[r.Method+" "+r.URL.Path]++
		t.mu.Unlock()

		next.ServeHTTP(w, r)
	})
}

func (t *Twin) injectFaults(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.mu.Lock()
		var match *Fault

		for i := range t.faults {
			fault := t.faults[i]
			if (fault.Method == "" || fault.Method == r.Method) && strings.HasPrefix(r.URL.Path, fault.PathPrefix) {
				match = &fault
				break
			}
		}
		t.mu.Unlock()

		if match != nil {
			writeJSON(w, match.StatusCode, map[string]any{"error": "injected fault"})
			return
		}

		next.ServeHTTP(w, r)
	})
}

func setUncacheable(w http.ResponseWriter) {
	w.Header().Add("Cache-Control", "no-cache")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	setUncacheable(w)
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)

	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"message": message})
}

type handler struct {
	store *Store
}

// authenticate resolves the bearer token to a user.
func (h *handler) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")

		token := strings.TrimPrefix(auth, "Bearer ")
		if token == auth || token == "" {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"error": "Please authenticate."})
			return
		}

		user, ok := h.store.UserForToken(token)
		if !ok {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"error": "Please authenticate."})
			return
		}

		ctx := context.WithValue(r.Context(), userKey, user)
		ctx = context.WithValue(ctx, tokenKey, token)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func userFromContext(ctx context.Context) User {
	//nolint:forcetypeassert // always set by authenticate
	return ctx.Value(userKey).(User)
}
