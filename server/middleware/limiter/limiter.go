// Copyright 2025, the Launchpod contributors
// SPDX-License-Identifier: AGPL-3.0-only

package limiter

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"codeberg.org/launchpod/launchpod/server/utils"
)

const (
	LimiterExpiryDuration = time.Hour       // How long to keep idle limiters in memory.
	CleanupInterval       = 5 * time.Minute // Interval between cleanup runs.
)

var (
	errMissingClientIP = errors.New("missing client IP")
	errInvalidIPFormat = errors.New("invalid IP format")
)

// Options configures a Limiter.
type Options struct {
	Rate         float64 // tokens per second
	Burst        int
	IPv4Prefix   int
	IPv6Prefix   int
	CheckHeaders bool
}

// Limiter holds one token bucket per client network.
type Limiter struct {
	opts     Options
	limiters sync.Map // network string -> *limiterWrapper
	timeNow  func() time.Time
}

// limiterWrapper holds a rate limiter and its last access time.
type limiterWrapper struct {
	limiter    *rate.Limiter
	mu         sync.Mutex
	lastAccess time.Time
}

// New returns a Limiter using opts.
func New(opts Options) *Limiter {
	return &Limiter{opts: opts, timeNow: time.Now}
}

// Evaluate is the middleware entry point. Reads pass straight through; writes
// consume a token from the client's network and are answered with 429 when
// none is left.
func (l *Limiter) Evaluate(w http.ResponseWriter, r *http.Request, next http.Handler) {
	if !utils.IsWriteMethod(r.Method) {
		next.ServeHTTP(w, r)

		return
	}

	if l.opts.CheckHeaders {
		if reason := blockedByHeaders(r); reason != "" {
			log.Warn().
				Str("ip", getClientIP(r)).
				Str("reason", reason).
				Msg("Blocked request")

			http.Error(w, reason, http.StatusForbidden)

			return
		}
	}

	network, err := l.networkOf(r)
	if err != nil {
		log.Warn().Err(err).Msg("Could not identify client network")

		http.Error(w, "Could not identify client", http.StatusBadRequest)

		return
	}

	if wait, ok := l.allow(network); !ok {
		log.Warn().
			Str("network", network).
			Msg("Rate limit exceeded")

		w.Header().Set("Retry-After", strconv.Itoa(int(wait.Round(time.Second)/time.Second)+1))
		http.Error(w, "Rate limit exceeded", http.StatusTooManyRequests)

		return
	}

	next.ServeHTTP(w, r)
}

func (l *Limiter) networkOf(r *http.Request) (string, error) {
	realIP := getClientIP(r)
	if realIP == "" {
		return "", errMissingClientIP
	}

	parsedIP := net.ParseIP(realIP)
	if parsedIP == nil {
		return "", errInvalidIPFormat
	}

	return getNetwork(parsedIP, l.opts.IPv4Prefix, l.opts.IPv6Prefix).String(), nil
}

// allow consumes one token for network. When it fails it reports how long
// until the next token is available.
func (l *Limiter) allow(network string) (time.Duration, bool) {
	lw := l.getOrCreate(network)

	lw.mu.Lock()
	defer lw.mu.Unlock()

	now := l.timeNow()
	lw.lastAccess = now

	if lw.limiter.AllowN(now, 1) {
		return 0, true
	}

	reservation := lw.limiter.ReserveN(now, 1)
	wait := reservation.DelayFrom(now)
	reservation.CancelAt(now)

	return wait, false
}

func (l *Limiter) getOrCreate(network string) *limiterWrapper {
	if v, ok := l.limiters.Load(network); ok {
		return v.(*limiterWrapper)
	}

	v, _ := l.limiters.LoadOrStore(network, &limiterWrapper{
		limiter:    rate.NewLimiter(rate.Limit(l.opts.Rate), l.opts.Burst),
		lastAccess: l.timeNow(),
	})

	return v.(*limiterWrapper)
}

// cleanup drops limiters idle for longer than LimiterExpiryDuration and
// returns how many were removed.
func (l *Limiter) cleanup() int {
	cutoff := l.timeNow().Add(-LimiterExpiryDuration)
	removed := 0

	l.limiters.Range(func(key, value any) bool {
		lw := value.(*limiterWrapper)

		lw.mu.Lock()
		expired := lw.lastAccess.Before(cutoff)
		lw.mu.Unlock()

		if expired {
			l.limiters.Delete(key)

			removed++
		}

		return true
	})

	return removed
}

// Run removes idle limiters every CleanupInterval until ctx is done.
func (l *Limiter) Run(ctx context.Context) error {
	ticker := time.NewTicker(CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			start := time.Now()
			removed := l.cleanup()

			log.Debug().
				Int("removed", removed).
				Dur("dur", time.Since(start)).
				Msg("limiter cleanup")
		}
	}
}
