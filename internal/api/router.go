package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/formbay/formbay-be/internal/api/handlers"
	"github.com/formbay/formbay-be/internal/auth"
	"github.com/formbay/formbay-be/internal/config"
	"github.com/formbay/formbay-be/internal/services"
)

// NewRouter creates and configures a new Chi router.
func NewRouter(cfg *config.Config, userService services.UserServiceProvider, sessionService services.SessionServiceProvider, formService services.FormServiceProvider, responseService services.ResponseServiceProvider) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS configuration for the SPA
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Initialize handlers
	userHandler := handlers.NewUserHandler(userService)
	sessionHandler := handlers.NewSessionHandler(userService, sessionService)
	formHandler := handlers.NewFormHandler(formService)
	questionHandler := handlers.NewQuestionHandler(formService)
	responseHandler := handlers.NewResponseHandler(responseService)

	authed := auth.Middleware(sessionService)
	limited := RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	// API versioning
	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/users", func(r chi.Router) {
			r.With(limited).Post("/", userHandler.Register)
			r.Group(func(r chi.Router) {
				r.Use(authed)
				r.Get("/", userHandler.List)
				r.Get("/me", userHandler.GetMe)
				r.Put("/me", userHandler.UpdateMe)
				r.Get("/{id}", userHandler.Get)
				r.Delete("/{id}", userHandler.Delete)
			})
		})

		r.Route("/sessions", func(r chi.Router) {
			r.With(limited).Post("/", sessionHandler.Create)
			r.Group(func(r chi.Router) {
				r.Use(authed)
				r.Delete("/", sessionHandler.DeleteCurrent)
				r.Delete("/{id}", sessionHandler.Delete)
			})
		})

		r.Route("/forms", func(r chi.Router) {
			r.Use(authed)
			r.Get("/", formHandler.List)
			r.Post("/", formHandler.Create)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", formHandler.Get)
				r.Put("/", formHandler.Update)
				r.Delete("/", formHandler.Delete)

				r.Route("/questions", func(r chi.Router) {
					r.Get("/", questionHandler.List)
					r.Post("/", questionHandler.Create)
					r.Get("/{qid}", questionHandler.Get)
					r.Patch("/{qid}", questionHandler.Update)
					r.Delete("/{qid}", questionHandler.Delete)
				})

				r.Route("/responses", func(r chi.Router) {
					r.Get("/", responseHandler.List)
					r.Post("/", responseHandler.Create)
					r.Get("/{rid}", responseHandler.Get)
				})
			})
		})
	})

	return r
}
