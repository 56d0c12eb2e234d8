// Copyright 2025, the Launchpod contributors
// SPDX-License-Identifier: AGPL-3.0-only

package router

import (
	"net/http"
	"net/http/pprof"

	"codeberg.org/launchpod/launchpod/assets"
	"codeberg.org/launchpod/launchpod/config"
	"codeberg.org/launchpod/launchpod/server/middleware"
	"codeberg.org/launchpod/launchpod/server/routes"
)

// DefineRoutes registers every route served by app.
func (router *Router) DefineRoutes(app *routes.App) {
	fileServerHandler := fileServer()

	router.Handle("GET /robots.txt", fileServerHandler)
	// One segment only: /css, /css/ and deeper paths fall through to the resolver
	// instead of a directory listing or redirect.
	router.Handle("GET /css/{file}", fileServerHandler)
	router.HandleFunc("GET /css/highlight.css", middleware.CatchError(routes.HighlightCSS))

	// Feed documents and the signed upload flow
	router.HandleFunc("POST /rss-feed", middleware.CatchError(app.CreateFeed))
	router.HandleFunc("GET /rss-feed", middleware.CatchError(app.FeedAction))
	router.HandleFunc("POST /upload/{blob}", middleware.CatchError(app.Upload))
	router.HandleFunc("GET /media/{blob}", app.Media)

	// Episodes
	router.HandleFunc("POST /episodes", middleware.CatchError(app.AddLinkEpisode))
	router.HandleFunc("POST /episodes/upload", middleware.CatchError(app.UploadEpisode))

	// Session
	router.HandleFunc("GET /login-status", middleware.CatchError(app.GetLoginStatus))
	router.HandleFunc("POST /login-status", middleware.CatchError(app.DeleteFeed))
	router.HandleFunc("POST /login", middleware.CatchError(app.Login))
	router.HandleFunc("POST /logout", middleware.CatchError(routes.Logout))

	// Media processing
	router.HandleFunc("POST /transcribe", middleware.CatchError(app.Transcribe))
	router.HandleFunc("POST /translate", middleware.CatchError(app.Translate))

	if config.Global.Development.InDevelopment {
		registerDebugRoutes(router)
	}

	// Pages. Anything not matched above is resolved here, including the redirect fallback.
	router.HandleFunc("GET /{path...}", middleware.CatchError(app.Navigate))
}

// Serve static files from embedded assets.
func fileServer() http.Handler {
	fileServer := http.FileServerFS(assets.Static())

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Using a strong ETag for static files embedded via go:embed
		// ref: https://www.rfc-editor.org/rfc/rfc9110#weak.and.strong.validators
		//
		// go:embed requires rebuilding when files change, so the build revision
		// changes whenever the content can.
		w.Header().Set("ETag", `"`+config.BuildVersion+"-"+config.Global.Build.Revision()+`"`)
		fileServer.ServeHTTP(w, r)
	})
}

func registerDebugRoutes(router *Router) {
	router.HandleFunc("GET /debug/pprof/", pprof.Index)
	router.HandleFunc("GET /debug/pprof/cmdline", pprof.Cmdline)
	router.HandleFunc("GET /debug/pprof/profile", pprof.Profile)
	router.HandleFunc("GET /debug/pprof/symbol", pprof.Symbol)
	router.HandleFunc("GET /debug/pprof/trace", pprof.Trace)
}
