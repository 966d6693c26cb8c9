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
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultBaseURL is the public Contact List service.
const DefaultBaseURL = "https://thinking-tester-contact-list.herokuapp.com"

type TestConfig struct {
	BaseURL        string
	UserEmail      string
	UserPassword   string
	RequestTimeout time.Duration
	TestTimeout    time.Duration
	SearchPageSize int
	SearchMaxPages int
	CacheDir       string
	UseTwin        bool
	DebugLogging   bool
	LogRequests    bool
	LogResponses   bool
}

// LoadTestConfig loads configuration from environment variables and .env files.
// Credentials are optional: their absence is a recognised state that causes
// authenticated specs to be skipped.  Only malformed values are reported as errors.
func LoadTestConfig() (*TestConfig, error) {
	loadEnvFile()

	config := &TestConfig{
		BaseURL:        getStringWithDefault("API_BASE_URL", DefaultBaseURL),
		UserEmail:      os.Getenv("TEST_USER_EMAIL"),
		UserPassword:   os.Getenv("TEST_USER_PASS"),
		RequestTimeout: getDurationWithDefault("REQUEST_TIMEOUT", 30*time.Second),
		TestTimeout:    getDurationWithDefault("TEST_TIMEOUT", 2*time.Minute),
		SearchPageSize: getIntWithDefault("SEARCH_PAGE_SIZE", DefaultSearchPageSize),
		SearchMaxPages: getIntWithDefault("SEARCH_MAX_PAGES", DefaultSearchMaxPages),
		CacheDir:       getStringWithDefault("TEST_CACHE_DIR", filepath.Join(".cache", "contactlist")),
		UseTwin:        getBoolWithDefault("TEST_USE_TWIN", false),
		DebugLogging:   getBoolWithDefault("DEBUG_LOGGING", false),
		LogRequests:    getBoolWithDefault("LOG_REQUESTS", false),
		LogResponses:   getBoolWithDefault("LOG_RESPONSES", false),
	}

	if err := validateConfig(config); err != nil {
		return nil, err
	}

	return config, nil
}

// HasCredentials reports whether a test identity is configured.
func (c *TestConfig) HasCredentials() bool {
	return c.UserEmail != "" && c.UserPassword != ""
}

func getStringWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}

	return defaultValue
}

// getDurationWithDefault gets a duration from environment variable or returns default.
func getDurationWithDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	duration, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}

	return duration
}

// getBoolWithDefault gets a boolean from environment variable or returns default.
func getBoolWithDefault(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	boolValue, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}

	return boolValue
}

// getIntWithDefault gets a positive integer from environment variable or returns default.
func getIntWithDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	intValue, err := strconv.Atoi(value)
	if err != nil || intValue <= 0 {
		return defaultValue
	}

	return intValue
}

func loadEnvFile() {
	envPaths := []string{
		".env",
		"../.env",       // From test/api
		"../../.env",    // From test/api/suites, or the repository root from test/api
		"../../../.env", // Repository root from test/api/suites
	}

	var envPath string

	for _, path := range envPaths {
		if _, err := os.Stat(path); err == nil {
			absPath, err := filepath.Abs(path)
			if err == nil {
				envPath = absPath
				break
			}
		}
	}

	if envPath == "" {
		// .env file not found - this is OK in CI/CD where env vars are set directly
		return
	}

	// godotenv.Load never overrides variables that are already set.
	if err := godotenv.Load(envPath); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to load .env file from %s: %v\n", envPath, err)
	}
}

// validateConfig checks that configuration values are usable.
func validateConfig(config *TestConfig) error {
	var problems []string

	if parsed, err := url.Parse(config.BaseURL); err != nil || parsed.Scheme == "" || parsed.Host == "" {
		problems = append(problems, fmt.Sprintf("API_BASE_URL %q is not an absolute URL", config.BaseURL))
	}

	if config.CacheDir == "" {
		problems = append(problems, "TEST_CACHE_DIR must not be empty")
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s. Please fix these environment variables or the .env file", strings.Join(problems, "; "))
	}

	return nil
}
