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
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

const runCacheFile = "last_run.yaml"

// runCacheEntry is the persisted state of the last test run.
type runCacheEntry struct {
	LastContactID string    `yaml:"last_contact_id"`
	UpdatedAt     time.Time `yaml:"updated_at"`
}

// RunCache remembers the last contact created so that a failed run can be
// investigated by hand afterwards.
type RunCache struct {
	path string
}

func NewRunCache(dir string) *RunCache {
	return &RunCache{
		path: filepath.Join(dir, runCacheFile),
	}
}

// Path returns the cache file location.
func (c *RunCache) Path() string {
	return c.path
}

// RecordContact stores id as the last created contact.
func (c *RunCache) RecordContact(id string) error {
	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return fmt.Errorf("creating run cache directory: %w", err)
	}

	data, err := yaml.Marshal(&runCacheEntry{
		LastContactID: id,
		UpdatedAt:     time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("encoding run cache: %w", err)
	}

	if err := os.WriteFile(c.path, data, 0o600); err != nil {
		return fmt.Errorf("writing run cache: %w", err)
	}

	return nil
}

// LastContactID returns the last recorded contact, or false if nothing has
// been recorded.
func (c *RunCache) LastContactID() (string, bool, error) {
	data, err := os.ReadFile(c.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", false, nil
		}

		return "", false, fmt.Errorf("reading run cache: %w", err)
	}

	var entry runCacheEntry
	if err := yaml.Unmarshal(data, &entry); err != nil {
		return "", false, fmt.Errorf("decoding run cache: %w", err)
	}

	return entry.LastContactID, entry.LastContactID != "", nil
}
