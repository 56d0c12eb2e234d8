// Copyright 2025, the Launchpod contributors
// SPDX-License-Identifier: AGPL-3.0-only

package limiter

import (
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const browserUA = "Mozilla/5.0 (X11; Linux x86_64; rv:128.0) Gecko/20100101 Firefox/128.0"

func newTestLimiter(now *time.Time) *Limiter {
	l := New(Options{Rate: 1, Burst: 2, IPv4Prefix: 24, IPv6Prefix: 48, CheckHeaders: true})
	l.timeNow = func() time.Time { return *now }

	return l
}

func serve(l *Limiter, method, remoteAddr, ua string) *httptest.ResponseRecorder {
	r := httptest.NewRequest(method, "/rss-feed", nil)
	r.RemoteAddr = remoteAddr
	r.Header.Set("User-Agent", ua)

	rr := httptest.NewRecorder()
	l.Evaluate(rr, r, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	return rr
}

func TestEvaluate(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	l := newTestLimiter(&now)

	// reads are never limited
	for range 5 {
		assert.Equal(t, http.StatusNoContent, serve(l, http.MethodGet, "203.0.113.7:1000", "").Code)
	}

	assert.Equal(t, http.StatusNoContent, serve(l, http.MethodPost, "203.0.113.7:1000", browserUA).Code)
	assert.Equal(t, http.StatusNoContent, serve(l, http.MethodPost, "203.0.113.8:1000", browserUA).Code)

	// same /24, bucket exhausted
	rr := serve(l, http.MethodPost, "203.0.113.9:1000", browserUA)
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
	assert.NotEmpty(t, rr.Header().Get("Retry-After"))

	// another network has its own bucket
	assert.Equal(t, http.StatusNoContent, serve(l, http.MethodPost, "198.51.100.1:1000", browserUA).Code)

	// tokens refill with time
	now = now.Add(time.Second)
	assert.Equal(t, http.StatusNoContent, serve(l, http.MethodPost, "203.0.113.7:1000", browserUA).Code)
}

func TestEvaluateChecksHeaders(t *testing.T) {
	t.Parallel()

	now := time.Now()
	l := newTestLimiter(&now)

	assert.Equal(t, http.StatusForbidden, serve(l, http.MethodPost, "203.0.113.7:1000", "").Code)
	assert.Equal(t, http.StatusForbidden, serve(l, http.MethodPost, "203.0.113.7:1000", "curl/8.5.0").Code)

	r := httptest.NewRequest(http.MethodPost, "/login", nil)
	r.Header.Set("User-Agent", browserUA)
	r.Header.Set("Sec-Fetch-Site", "cross-site")
	assert.Equal(t, "Cross-site request", blockedByHeaders(r))
}

func TestCleanup(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	l := newTestLimiter(&now)

	_, ok := l.allow("203.0.113.0/24")
	require.True(t, ok)

	now = now.Add(LimiterExpiryDuration / 2)
	_, ok = l.allow("198.51.100.0/24")
	require.True(t, ok)

	now = now.Add(LimiterExpiryDuration/2 + time.Minute)
	assert.Equal(t, 1, l.cleanup())

	_, stillThere := l.limiters.Load("198.51.100.0/24")
	assert.True(t, stillThere)
}

func TestGetClientIP(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		remoteAddr string
		header     http.Header
		expectedIP string
	}{
		{
			name:       "X-Real-IP from loopback",
			remoteAddr: "127.0.0.1:12345",
			header:     http.Header{"X-Real-Ip": []string{"2.2.2.2"}},
			expectedIP: "2.2.2.2",
		},
		{
			name:       "X-Forwarded-For from private network",
			remoteAddr: "192.168.1.1:12345",
			header:     http.Header{"X-Forwarded-For": []string{"3.3.3.3, 4.4.4.4"}},
			expectedIP: "4.4.4.4",
		},
		{
			name:       "headers ignored from public peer",
			remoteAddr: "1.1.1.1:12345",
			header:     http.Header{"X-Real-Ip": []string{"2.2.2.2"}},
			expectedIP: "1.1.1.1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r := &http.Request{RemoteAddr: tt.remoteAddr, Header: tt.header}
			assert.Equal(t, tt.expectedIP, getClientIP(r))
		})
	}
}

func TestGetNetwork(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "203.0.113.0/24", getNetwork(net.ParseIP("203.0.113.77"), 24, 48).String())
	assert.Equal(t, "2001:db8:1::/48", getNetwork(net.ParseIP("2001:db8:1:2::1"), 24, 48).String())
}
