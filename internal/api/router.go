// Recommendarr - AI-Powered Media Recommendations for Your Media Stack
// Copyright 2026 Recommendarr Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/recommendarr/recommendarr

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Router wires the handler and middleware stack into a Chi router.
type Router struct {
	handler    *Handler
	middleware *ChiMiddleware
}

// NewRouter creates the API router.
func NewRouter(handler *Handler, mw *ChiMiddleware) *Router {
	if mw == nil {
		mw = NewChiMiddleware(nil)
	}
	return &Router{handler: handler, middleware: mw}
}

// Setup configures all HTTP routes.
func (router *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global stack, applied to all routes in order. CORS is global so
	// OPTIONS preflights are answered everywhere.
	r.Use(RequestIDWithLogging())
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(RequestLogger())
	r.Use(router.middleware.CORS())

	// Probes and metrics stay outside the authenticated surface.
	r.Get("/healthz", router.handler.HealthLive)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Use(SecurityHeaders())
		r.With(router.middleware.RateLimitLogin()).Post("/login", router.handler.Login)
		r.Post("/logout", router.handler.Logout)
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(router.middleware.RateLimit())
		r.Use(SecurityHeaders())
		r.Use(RequireAuth(router.handler.auth))

		r.Get("/health", router.handler.Health)

		r.Route("/recommendations/{mediaType}", func(r chi.Router) {
			r.Post("/", router.handler.Recommend)
			r.Post("/more", router.handler.RecommendMore)
			r.Get("/previous", router.handler.PreviousRecommendations)
			r.Delete("/previous", router.handler.ClearPreviousRecommendations)
		})

		r.Route("/preferences/{mediaType}/{list}", func(r chi.Router) {
			r.Get("/", router.handler.Preferences)
			r.Post("/", router.handler.AddPreferences)
			r.Delete("/", router.handler.RemovePreferences)
		})

		r.Route("/settings", func(r chi.Router) {
			r.Get("/", router.handler.Settings)
			r.Put("/", router.handler.SaveSettings)
			r.Delete("/", router.handler.ClearSettings)
		})

		r.Get("/library/{mediaType}", router.handler.Library)
		r.Post("/library/{mediaType}/refresh", router.handler.RefreshLibrary)
		r.Get("/history/{mediaType}", router.handler.WatchHistory)
	})

	return r
}
