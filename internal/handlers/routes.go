package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/unrolled/secure"

	"github.com/vaughan-dsouza/nerv/internal/middleware"
	"github.com/vaughan-dsouza/nerv/internal/utils"
)

type RouterOptions struct {
	Log            *slog.Logger
	AllowedOrigins []string
	// AuthRateLimit is signup/login requests allowed per client IP per minute.
	AuthRateLimit int
	Production    bool
}

// NewRouter builds the full route table. gate guards everything under /api
// except signup and login.
func NewRouter(h *Handler, gate func(http.Handler) http.Handler, opts RouterOptions) http.Handler {
	secureMiddleware := secure.New(secure.Options{
		FrameDeny:             true,
		ContentTypeNosniff:    true,
		BrowserXssFilter:      true,
		ReferrerPolicy:        "strict-origin-when-cross-origin",
		ContentSecurityPolicy: "default-src 'none'",
		SSLRedirect:           opts.Production,
		SSLProxyHeaders:       map[string]string{"X-Forwarded-Proto": "https"},
		IsDevelopment:         !opts.Production,
	})

	r := chi.NewRouter()
	r.Use(
		chimw.RequestID,
		chimw.RealIP,
		middleware.RequestLogger(opts.Log),
		chimw.Recoverer,
		secureMiddleware.Handler,
		cors.Handler(cors.Options{
			AllowedOrigins:   opts.AllowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
			ExposedHeaders:   []string{"X-Request-Id"},
			AllowCredentials: false,
			MaxAge:           300,
		}),
	)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		utils.JSONError(w, http.StatusNotFound, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		utils.JSONError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	r.Get("/health", h.Health.Check)

	r.Route("/api", func(r chi.Router) {
		// Public
		r.Group(func(r chi.Router) {
			r.Use(httprate.Limit(opts.AuthRateLimit, time.Minute,
				httprate.WithKeyFuncs(httprate.KeyByIP, httprate.KeyByEndpoint),
				httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
					utils.JSONError(w, http.StatusTooManyRequests, "too many requests")
				}),
			))
			r.Post("/auth/signup", h.Auth.SignUp)
			r.Post("/auth/login", h.Auth.Login)
		})

		// Protected
		r.Group(func(r chi.Router) {
			r.Use(gate)

			r.Get("/auth/me", h.Auth.Me)

			r.Route("/courses", func(r chi.Router) {
				r.Get("/", h.Courses.List)
				r.Post("/", h.Courses.Create)
				r.Get("/{id}", h.Courses.Get)
				r.Put("/{id}", h.Courses.Update)
				r.Patch("/{id}", h.Courses.Update)
				r.Delete("/{id}", h.Courses.Delete)
			})

			r.Route("/assignments", func(r chi.Router) {
				r.Get("/", h.Assignments.List)
				r.Post("/", h.Assignments.Create)
				r.Get("/{id}", h.Assignments.Get)
				r.Put("/{id}", h.Assignments.Update)
				r.Patch("/{id}", h.Assignments.Update)
				r.Delete("/{id}", h.Assignments.Delete)
			})

			r.Route("/notes", func(r chi.Router) {
				r.Get("/", h.Notes.List)
				r.Post("/", h.Notes.Create)
				r.Get("/{id}", h.Notes.Get)
				r.Put("/{id}", h.Notes.Update)
				r.Patch("/{id}", h.Notes.Update)
				r.Delete("/{id}", h.Notes.Delete)
			})
		})
	})

	return r
}
