// Package server assembles the HTTP routing tree.
package server

import (
	"log/slog"
	"net/http"

	sentryhttp "github.com/getsentry/sentry-go/http"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/ayush/second-brain/backend/internal/auth"
	"github.com/ayush/second-brain/backend/internal/content"
	"github.com/ayush/second-brain/backend/internal/middleware"
)

// Options configures NewRouter.
type Options struct {
	APIPrefix   string
	CORSOrigins []string
	// Sentry wraps every request in a Sentry hub. Only useful once
	// sentry.Init has run.
	Sentry bool
}

// NewRouter wires handlers and middleware into a chi router.
func NewRouter(opts Options, tokens middleware.Verifier, authH *auth.Handler, contentH *content.Handler, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(logger))
	r.Use(chimw.Recoverer)
	if opts.Sentry {
		r.Use(sentryhttp.New(sentryhttp.Options{Repanic: true}).Handle)
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", middleware.TokenHeader},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(securityHeaders)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/test", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Server is running"))
	})

	prefix := opts.APIPrefix
	if prefix == "" {
		prefix = "/api/v1"
	}
	r.Route(prefix, func(r chi.Router) {
		r.Post("/signup", authH.Signup)
		r.Post("/signin", authH.Signin)
		r.Get("/shared/{shareToken}", contentH.Shared)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth(tokens))
			r.Post("/content", contentH.Create)
			r.Get("/content", contentH.List)
			r.Delete("/content", contentH.Delete)
			r.Delete("/content/{id}", contentH.Delete)
			r.Post("/share", contentH.Share)
		})
	})

	return r
}

func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		next.ServeHTTP(w, r)
	})
}
