// Copyright 2025, the Launchpod contributors
// SPDX-License-Identifier: AGPL-3.0-only

//go:build integration

/*
To run these tests, specify `-tags=integration` when running `go test`.
*/
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/tidwall/gjson"
)

const (
	// Server configuration constants.
	host      = "127.0.0.1:8282"
	authority = "http://127.0.0.1:8282"

	// Polling constants.
	retryCount  = 10
	dialTimeout = 250 * time.Millisecond

	browserUA = "Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:122.0) Gecko/20100101 Firefox/122.0"
)

// client does not follow redirects so their targets can be asserted.
var client = &http.Client{
	CheckRedirect: func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse },
}

// httpTestCase defines a test case.
type httpTestCase struct {
	URL                string
	Method             string
	ExpectedStatusCode int
	ExpectedLocation   string

	// POST requests specific fields
	FormData map[string]string
}

// setDefault sets the default values for the test case.
func (c *httpTestCase) setDefault() {
	if c.ExpectedStatusCode == 0 {
		c.ExpectedStatusCode = http.StatusOK
	}
}

// TestMain starts the server on a scratch data directory and waits for it.
func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "launchpod-integration-")
	if err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	for k, v := range map[string]string{
		"LAUNCHPOD_HOST":            "127.0.0.1",
		"LAUNCHPOD_PORT":            "8282",
		"LAUNCHPOD_DEV":             "true",
		"LAUNCHPOD_DATABASE_PATH":   filepath.Join(dir, "launchpod.db"),
		"LAUNCHPOD_MEDIA_DIRECTORY": filepath.Join(dir, "media"),
	} {
		_ = os.Setenv(k, v)
	}

	go func() {
		if err := run(); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	if !waitForServerReady() {
		log.Fatalf("Server did not start in time")
	}

	code := m.Run()

	_ = os.RemoveAll(dir)
	os.Exit(code)
}

// waitForServerReady polls the server until it's available or the retries are exhausted.
func waitForServerReady() bool {
	for range retryCount {
		conn, err := net.DialTimeout("tcp", host, dialTimeout)
		if err == nil {
			_ = conn.Close()

			return true
		}

		time.Sleep(dialTimeout)
	}

	return false
}

func TestBasicAllRoutes(t *testing.T) {
	t.Parallel()

	testCases := []httpTestCase{
		{URL: "/", Method: http.MethodGet},
		{URL: "/create", Method: http.MethodGet},
		{URL: "/mp3-form", Method: http.MethodGet},
		{URL: "/link-form", Method: http.MethodGet},
		{URL: "/upload-form", Method: http.MethodGet},
		{URL: "/transcribe", Method: http.MethodGet},
		{URL: "/translate", Method: http.MethodGet},
		{URL: "/my-feeds", Method: http.MethodGet},
		{URL: "/robots.txt", Method: http.MethodGet},
		{URL: "/css/site.css", Method: http.MethodGet},
		{URL: "/login-status", Method: http.MethodGet},

		{URL: "/unknown/path", Method: http.MethodGet, ExpectedStatusCode: http.StatusFound, ExpectedLocation: "/create"},
		{URL: "/MP3-FORM", Method: http.MethodGet, ExpectedStatusCode: http.StatusFound, ExpectedLocation: "/create"},
		{URL: "/rss-feed", Method: http.MethodGet, ExpectedStatusCode: http.StatusBadRequest},
		{URL: "/media/missing", Method: http.MethodGet, ExpectedStatusCode: http.StatusNotFound},
		{URL: "/episodes", Method: http.MethodPost, ExpectedStatusCode: http.StatusUnauthorized},
		{URL: "/transcribe", Method: http.MethodPost, ExpectedStatusCode: http.StatusBadRequest},
	}

	for _, tc := range testCases {
		t.Run(fmt.Sprintf("%s %s", tc.Method, tc.URL), func(t *testing.T) {
			t.Parallel()
			tc.setDefault()

			resp := makeRequest(t, buildRequestWithFormData(t, authority+tc.URL, tc.Method, tc.FormData, nil))
			defer resp.Body.Close()

			if resp.StatusCode != tc.ExpectedStatusCode {
				t.Errorf("expected status %d, got %d", tc.ExpectedStatusCode, resp.StatusCode)
			}

			if tc.ExpectedLocation != "" && resp.Header.Get("Location") != tc.ExpectedLocation {
				t.Errorf("expected Location %q, got %q", tc.ExpectedLocation, resp.Header.Get("Location"))
			}
		})
	}
}

func TestSessionFlow(t *testing.T) {
	t.Parallel()

	resp := makeRequest(t, buildRequestWithFormData(t, authority+"/login", http.MethodPost, map[string]string{
		"email": "integration@example.com",
	}, nil))
	resp.Body.Close()

	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("expected status %d, got %d", http.StatusSeeOther, resp.StatusCode)
	}

	cookies := resp.Cookies()

	resp = makeRequest(t, buildRequestWithFormData(t, authority+"/rss-feed", http.MethodPost, map[string]string{
		"title":       "Integration",
		"description": "A feed made by the integration tests",
		"language":    "en",
	}, cookies))
	resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}

	resp = makeRequest(t, buildRequestWithFormData(t, authority+"/login-status", http.MethodGet, nil, cookies))
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("Failed to read body: %v", err)
	}

	body := string(raw)

	if !gjson.Get(body, "isLoggedIn").Bool() {
		t.Errorf("expected to be logged in: %s", body)
	}

	if got := gjson.Get(body, "feeds.#").Int(); got != 1 {
		t.Errorf("expected 1 feed, got %d", got)
	}
}

func buildRequestWithFormData(t *testing.T, link, method string, formData map[string]string, cookies []*http.Cookie) *http.Request {
	t.Helper()

	form := url.Values{}

	for k, v := range formData {
		form.Set(k, v)
	}

	req, err := http.NewRequestWithContext(context.TODO(), method, link, strings.NewReader(form.Encode()))
	if err != nil {
		t.Fatalf("Failed to create request: %v", err)
	}

	for _, v := range cookies {
		req.AddCookie(v)
	}

	req.Header.Set("User-Agent", browserUA)
	req.Header.Add("Content-Type", "application/x-www-form-urlencoded")

	return req
}

func makeRequest(t *testing.T, req *http.Request) *http.Response {
	t.Helper()

	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}

	return resp
}
