// Copyright 2025, the Launchpod contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Launchpod is a small self-hosted podcast publishing service.
*/
package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"os/user"
	"strconv"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"codeberg.org/launchpod/launchpod/config"
	"codeberg.org/launchpod/launchpod/core/audit"
	"codeberg.org/launchpod/launchpod/core/authenticated"
	"codeberg.org/launchpod/launchpod/core/feed"
	"codeberg.org/launchpod/launchpod/core/feedcache"
	"codeberg.org/launchpod/launchpod/core/media"
	"codeberg.org/launchpod/launchpod/core/storage"
	"codeberg.org/launchpod/launchpod/core/untrusted"
	"codeberg.org/launchpod/launchpod/i18n"
	"codeberg.org/launchpod/launchpod/server/middleware/limiter"
	"codeberg.org/launchpod/launchpod/server/router"
	"codeberg.org/launchpod/launchpod/server/routes"
)

const (
	// Values for http.Server timeouts.
	// ref: gosec: G112
	//
	// Reads and writes are long enough for audio uploads and downloads.
	readHeaderTimeout time.Duration = 15 * time.Second
	readTimeout       time.Duration = 10 * time.Minute
	writeTimeout      time.Duration = 10 * time.Minute
	idleTimeout       time.Duration = 30 * time.Second

	serverShutdownDeadline time.Duration = 5 * time.Second
)

var (
	errChmodSocket = errors.New("failed to change unix socket permissions")
	errChownSocket = errors.New("failed to change unix socket ownership")
)

// main is the entry point of the application.
func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("Application failed")
	}
}

// run orchestrates the application startup and graceful shutdown.
func run() error {
	audit.SetDefaultLogger()

	if err := config.Global.LoadConfig(); err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if err := i18n.Setup(); err != nil {
		return fmt.Errorf("failed to initialize i18n engine: %w", err)
	}

	log.Info().Msg("Initialized i18n engine")

	untrusted.ForceSecure = config.Global.Session.SecureCookie

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer app.Store.Close()

	var lim *limiter.Limiter
	if config.Global.Limiter.Enabled {
		lim = limiter.New(limiter.Options{
			Rate:         config.Global.Limiter.Rate,
			Burst:        config.Global.Limiter.Burst,
			IPv4Prefix:   config.Global.Limiter.IPv4Prefix,
			IPv6Prefix:   config.Global.Limiter.IPv6Prefix,
			CheckHeaders: config.Global.Limiter.CheckHeaders,
		})
	}

	server := &http.Server{
		Handler:           router.New(router.Dependencies{App: app, Signer: app.Signer, Limiter: lim}),
		ReadHeaderTimeout: readHeaderTimeout,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
	}

	listener, err := chooseListener(ctx)
	if err != nil {
		return fmt.Errorf("failed to create listener: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}

		return nil
	})

	if lim != nil {
		g.Go(func() error { return lim.Run(gctx) })
	}

	g.Go(func() error {
		<-gctx.Done()

		log.Info().Msg("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), serverShutdownDeadline)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server forced to shutdown: %w", err)
		}

		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}

	log.Info().Msg("Server exited gracefully")

	return nil
}

// newApp opens the services handlers depend on.
func newApp(ctx context.Context) (*routes.App, error) {
	cfg := config.Global

	signer, err := authenticated.NewSigner(cfg.Basic.Secret)
	if err != nil {
		return nil, err
	}

	bucket, err := media.NewBucket(cfg.Storage.MediaDirectory)
	if err != nil {
		return nil, err
	}

	var cache *feedcache.Cache
	if cfg.Cache.Enabled {
		if cache, err = feedcache.New(cfg.Cache.Size, cfg.Cache.Compress); err != nil {
			return nil, fmt.Errorf("failed to create feed cache: %w", err)
		}
	}

	store, err := storage.Open(ctx, cfg.Storage.DatabasePath)
	if err != nil {
		return nil, err
	}

	log.Info().Str("path", cfg.Storage.DatabasePath).Msg("Opened database")

	return &routes.App{
		Store:       store,
		Cache:       cache,
		Signer:      signer,
		Bucket:      bucket,
		Transcriber: media.Unavailable{},
		Translator:  media.Unavailable{},
		Channel: feed.ChannelInfo{
			Title:    cfg.Instance.ChannelTitle,
			Link:     cfg.Instance.ChannelLink,
			Category: cfg.Instance.ChannelCategory,
		},
		PublicURL:                cfg.Instance.PublicURL,
		MaxUploadSize:            cfg.Storage.MaxUploadSize,
		PolicyTTL:                cfg.Upload.PolicyTTL,
		SessionTTL:               cfg.Session.TTL,
		FeedMaxAge:               cfg.HTTPCache.MaxAge,
		FeedStaleWhileRevalidate: cfg.HTTPCache.StaleWhileRevalidate,
	}, nil
}

func chooseListener(ctx context.Context) (net.Listener, error) {
	// Check if we should use a Unix domain socket
	if config.Global.Basic.UnixSocket != "" {
		unixAddr := config.Global.Basic.UnixSocket

		unixListener, err := (&net.ListenConfig{}).Listen(ctx, "unix", unixAddr)
		if err != nil {
			return nil, fmt.Errorf("failed to start Unix socket listener on %v: %w", unixAddr, err)
		}

		if err = setupSocket(); err != nil {
			_ = unixListener.Close()

			return nil, err
		}

		log.Info().
			Str("address", unixAddr).
			Msg("Listening on Unix domain socket")

		return unixListener, nil
	}

	addr := config.Global.ListenAddress()

	tcpListener, err := (&net.ListenConfig{}).Listen(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to start TCP listener on %v: %w", addr, err)
	}

	addr = tcpListener.Addr().String()

	_, port, err := net.SplitHostPort(addr)
	if err != nil {
		_ = tcpListener.Close()

		return nil, fmt.Errorf("failed to parse listener address %q: %w", addr, err)
	}

	log.Info().
		Str("address", addr).
		Str("url", fmt.Sprintf("http://localhost:%v/", port)).
		Msg("Listening on address")

	return tcpListener, nil
}

func setupSocket() error {
	cfg := config.Global.Basic

	uid, gid := -1, -1

	var err error

	if cfg.UnixSocketUser != "" {
		uid, err = parseUserOrGroupID(cfg.UnixSocketUser, "user")
		if err != nil {
			return err
		}
	}

	if cfg.UnixSocketGroup != "" {
		gid, err = parseUserOrGroupID(cfg.UnixSocketGroup, "group")
		if err != nil {
			return err
		}
	}

	if uid != -1 || gid != -1 {
		if err := os.Chown(cfg.UnixSocket, uid, gid); err != nil {
			return fmt.Errorf("%w: %w", errChownSocket, err)
		}
	}

	if err := os.Chmod(cfg.UnixSocket, cfg.UnixSocketPermissions); err != nil {
		return fmt.Errorf("%w: %w", errChmodSocket, err)
	}

	return nil
}

// parseUserOrGroupID accepts a numeric ID or a name to look up.
func parseUserOrGroupID(value, kind string) (int, error) {
	if id, err := strconv.Atoi(value); err == nil {
		return id, nil
	}

	var idStr string

	if kind == "user" {
		u, err := user.Lookup(value)
		if err != nil {
			return -1, fmt.Errorf("failed to lookup user %q: %w", value, err)
		}

		idStr = u.Uid
	} else {
		g, err := user.LookupGroup(value)
		if err != nil {
			return -1, fmt.Errorf("failed to lookup group %q: %w", value, err)
		}

		idStr = g.Gid
	}

	id, err := strconv.Atoi(idStr)
	if err != nil {
		return -1, fmt.Errorf("failed to parse %s ID from %q: %w", kind, value, err)
	}

	return id, nil
}
