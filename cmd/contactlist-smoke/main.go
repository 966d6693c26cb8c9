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

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"k8s.io/utils/ptr"

	"github.com/nscaledev/contact-list-api-tests/test/api"
)

var errSmoke = errors.New("smoke check failed")

type options struct {
	baseURL  string
	email    string
	password string
	pageSize int
	maxPages int
	timeout  time.Duration
	debug    bool
}

func (o *options) AddFlags(f *pflag.FlagSet) {
	f.StringVar(&o.baseURL, "base-url", envOr("API_BASE_URL", api.DefaultBaseURL), "Contact List service base URL.")
	f.StringVar(&o.email, "email", os.Getenv("TEST_USER_EMAIL"), "Email address of an existing user.")
	f.StringVar(&o.password, "password", os.Getenv("TEST_USER_PASS"), "Password of the user.")
	f.IntVar(&o.pageSize, "page-size", api.DefaultSearchPageSize, "Page size used when searching the contact list.")
	f.IntVar(&o.maxPages, "max-pages", api.DefaultSearchMaxPages, "Maximum number of pages searched.")
	f.DurationVar(&o.timeout, "timeout", 30*time.Second, "Per request timeout.")
	f.BoolVar(&o.debug, "debug", false, "Enable debug logging.")
}

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}

	return fallback
}

func (o *options) config() *api.TestConfig {
	return &api.TestConfig{
		BaseURL:        o.baseURL,
		UserEmail:      o.email,
		UserPassword:   o.password,
		RequestTimeout: o.timeout,
		SearchPageSize: o.pageSize,
		SearchMaxPages: o.maxPages,
		DebugLogging:   o.debug,
		LogRequests:    o.debug,
	}
}

func expectStatus(resp *api.Response, expected int) error {
	if err := api.CheckStatus(resp, expected); err != nil {
		return fmt.Errorf("%w\n%s", err, api.FormatResponse(resp, true))
	}

	return nil
}

//nolint:cyclop
func run(ctx context.Context, logger *slog.Logger, o *options) error {
	config := o.config()

	client := api.NewAPIClientWithConfig(config)
	client.SetLogger(logger)

	token, found, err := client.LoginToken(ctx, config.UserEmail, config.UserPassword)
	if err != nil {
		return fmt.Errorf("logging in: %w", err)
	}

	if !found {
		return fmt.Errorf("%w: login returned no token", errSmoke)
	}

	logger.Info("logged in", "email", config.UserEmail)

	lifecycle := api.NewContactLifecycle(client, token)

	handle, err := lifecycle.Acquire(ctx)
	if err != nil {
		return err
	}

	defer func() {
		if err := lifecycle.Release(context.WithoutCancel(ctx), handle); err != nil {
			logger.Warn("failed to delete contact", "id", handle.ID, "error", err)
		}
	}()

	logger.Info("created contact", "id", handle.ID)

	resp, err := client.GetContact(ctx, token, handle.ID)
	if err != nil {
		return fmt.Errorf("getting contact: %w", err)
	}

	if err := expectStatus(resp, http.StatusOK); err != nil {
		return err
	}

	body, ok := api.SafeJSONObject(resp)
	if !ok {
		return fmt.Errorf("%w: contact is not a JSON object\n%s", errSmoke, api.FormatResponse(resp, false))
	}

	if diff := api.DiffFields(body, handle.Payload, api.ContactFields...); len(diff) > 0 {
		return fmt.Errorf("%w: contact differs from payload: %v", errSmoke, diff)
	}

	contact, err := api.DecodeContact(resp)
	if err != nil {
		return err
	}

	logger.Info("fetched contact", "id", contact.ID, "owner", contact.Owner)

	criteria := api.SearchCriteria{
		ID:    handle.ID,
		Email: string(ptr.Deref(contact.Email, "")),
	}

	if _, found := api.NewContactSearch(client, token).Find(ctx, criteria, config.SearchPageSize, config.SearchMaxPages); !found {
		return fmt.Errorf("%w: contact %s not found within %d pages", errSmoke, handle.ID, config.SearchMaxPages)
	}

	logger.Info("found contact in list", "id", handle.ID)

	resp, err = client.DeleteContact(ctx, token, handle.ID)
	if err != nil {
		return fmt.Errorf("deleting contact: %w", err)
	}

	if err := expectStatus(resp, http.StatusOK); err != nil {
		return err
	}

	handle.MarkReleased()

	if resp.Text() != "Contact deleted" {
		return fmt.Errorf("%w: unexpected delete response %q", errSmoke, resp.Text())
	}

	logger.Info("deleted contact", "id", handle.ID)

	resp, err = client.GetContact(ctx, token, handle.ID)
	if err != nil {
		return fmt.Errorf("getting deleted contact: %w", err)
	}

	return expectStatus(resp, http.StatusNotFound)
}

func main() {
	var o options

	o.AddFlags(pflag.CommandLine)

	pflag.Parse()

	logger := api.NewLogger(os.Stderr, o.debug, false)

	if o.email == "" || o.password == "" {
		logger.Warn("skipping smoke check", "reason", api.ErrCredentialsNotConfigured)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, logger, &o); err != nil {
		logger.Error("smoke check failed", "error", err)
		stop()
		os.Exit(1) //nolint:gocritic
	}

	logger.Info("smoke check passed", "baseURL", o.baseURL)
}
