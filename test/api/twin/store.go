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
	"errors"
	"fmt"
	"maps"
	"strings"
	"sync"

	"github.com/google/uuid"
)

var (
	ErrEmailInUse      = errors.New("email address is already in use")
	ErrContactNotFound = errors.New("contact not found")
)

// User is a registered account.
type User struct {
	ID        string
	FirstName string
	LastName  string
	Email     string
	Version   int

	password string
}

func (u User) view() map[string]any {
	return map[string]any{
		"_id":       u.ID,
		"firstName": u.FirstName,
		"lastName":  u.LastName,
		"email":     u.Email,
		"__v":       u.Version,
	}
}

// Contact is a contact owned by a user.
type Contact struct {
	ID      string
	Owner   string
	Fields  map[string]string
	Version int
}

func (c Contact) view() map[string]any {
	view := make(map[string]any, len(c.Fields)+3)
	for key, value := range c.Fields {
		view[key] = value
	}

	view["_id"] = c.ID
	view["owner"] = c.Owner
	view["__v"] = c.Version

	return view
}

// Store holds all twin state in memory.
type Store struct {
	mu       sync.RWMutex
	counter  uint64
	users    map[string]*User
	emails   map[string]string
	tokens   map[string]string
	contacts map[string]*Contact
	// order records contact creation order for listing.
	order []string
}

func NewStore() *Store {
	s := &Store{}
	s.reset()

	return s
}

func (s *Store) reset() {
	s.counter = 0
	s.users = map[string]*User{}
	s.emails = map[string]string{}
	s.tokens = map[string]string{}
	s.contacts = map[string]*Contact{}
	s.order = nil
}

// Reset discards all users, tokens and contacts.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.reset()
}

// nextID returns an object id, 24 hex characters.  Callers hold the lock.
func (s *Store) nextID() string {
	s.counter++
	return fmt.Sprintf("%024x", s.counter)
}

// CreateUser registers a user, email addresses are unique ignoring case.
func (s *Store) CreateUser(firstName, lastName, email, password string) (User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := strings.ToLower(email)
	if _, ok := s.emails[key]; ok {
		return User{}, ErrEmailInUse
	}

	user := &User{
		ID:        s.nextID(),
		FirstName: firstName,
		LastName:  lastName,
		Email:     email,
		password:  password,
	}

	s.users[user.ID] = user
	s.emails[key] = user.ID

	return *user, nil
}

// Authenticate checks credentials and issues a new token.
func (s *Store) Authenticate(email, password string) (User, string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.emails[strings.ToLower(email)]
	if !ok || s.users[id].password != password {
		return User{}, "", false
	}

	return *s.users[id], s.issueToken(id), true
}

// IssueToken returns a new token for an existing user.
func (s *Store) IssueToken(userID string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.issueToken(userID)
}

func (s *Store) issueToken(userID string) string {
	token := strings.ReplaceAll(uuid.NewString(), "-", "") + strings.ReplaceAll(uuid.NewString(), "-", "")
	s.tokens[token] = userID

	return token
}

// UserForToken resolves a bearer token.
func (s *Store) UserForToken(token string) (User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.tokens[token]
	if !ok {
		return User{}, false
	}

	return *s.users[id], true
}

// RevokeToken invalidates a token.
func (s *Store) RevokeToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.tokens, token)
}

// CreateContact stores a contact for owner.
func (s *Store) CreateContact(owner string, fields map[string]string) Contact {
	s.mu.Lock()
	defer s.mu.Unlock()

	contact := &Contact{
		ID:     s.nextID(),
		Owner:  owner,
		Fields: maps.Clone(fields),
	}

	s.contacts[contact.ID] = contact
	s.order = append(s.order, contact.ID)

	return copyContact(contact)
}

func copyContact(c *Contact) Contact {
	out := *c
	out.Fields = maps.Clone(c.Fields)

	return out
}

// GetContact returns a contact if it exists and belongs to owner.
func (s *Store) GetContact(owner, id string) (Contact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	contact, ok := s.contacts[id]
	if !ok || contact.Owner != owner {
		return Contact{}, ErrContactNotFound
	}

	return copyContact(contact), nil
}

// ListContacts returns the owner's contacts in creation order.
func (s *Store) ListContacts(owner string) []Contact {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var contacts []Contact

	for _, id := range s.order {
		if contact := s.contacts[id]; contact.Owner == owner {
			contacts = append(contacts, copyContact(contact))
		}
	}

	return contacts
}

// UpdateContact replaces the contact fields, or merges them when merge is set.
func (s *Store) UpdateContact(owner, id string, fields map[string]string, merge bool) (Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	contact, ok := s.contacts[id]
	if !ok || contact.Owner != owner {
		return Contact{}, ErrContactNotFound
	}

	if merge {
		maps.Copy(contact.Fields, fields)
	} else {
		contact.Fields = maps.Clone(fields)
	}

	contact.Version++

	return copyContact(contact), nil
}

// DeleteContact removes a contact.
func (s *Store) DeleteContact(owner, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	contact, ok := s.contacts[id]
	if !ok || contact.Owner != owner {
		return ErrContactNotFound
	}

	delete(s.contacts, id)

	for i, candidate := range s.order {
		if candidate == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}

	return nil
}

// ContactCount returns the total number of stored contacts.
func (s *Store) ContactCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.contacts)
}
