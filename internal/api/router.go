package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/pranaysuyash/advay-learning/internal/api/handlers"
	"github.com/pranaysuyash/advay-learning/internal/api/middleware"
	"github.com/pranaysuyash/advay-learning/internal/config"
	"github.com/pranaysuyash/advay-learning/internal/service"
)

func NewRouter(services *service.Services, cfg *config.Config) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)
	r.Use(middleware.CORS)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(services.Auth, services.Token, cfg)
	profileHandler := handlers.NewProfileHandler(services.Profile)
	progressHandler := handlers.NewProgressHandler(services.Progress, services.Profile)
	gameHandler := handlers.NewGameHandler(services.Game)

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Public auth routes, strict per-IP limit against brute force
		r.Route("/auth", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(httprate.LimitByIP(cfg.AuthRateLimit, time.Minute))
				r.Post("/register", authHandler.Register)
				r.Post("/login", authHandler.Login)
				r.Post("/refresh", authHandler.Refresh)
				r.Post("/verify-email", authHandler.VerifyEmail)
				r.Post("/resend-verification", authHandler.ResendVerification)
				r.Post("/forgot-password", authHandler.ForgotPassword)
				r.Post("/reset-password", authHandler.ResetPassword)
			})

			// Protected auth routes
			r.Group(func(r chi.Router) {
				r.Use(middleware.Auth(services.Token))
				r.Get("/me", authHandler.Me)
				r.Post("/logout", authHandler.Logout)
			})
		})

		// Game catalog (public)
		r.Route("/games", func(r chi.Router) {
			r.Get("/", gameHandler.List)
			r.Get("/{slug}", gameHandler.Get)
		})

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(services.Token))
			r.Use(httprate.LimitByIP(120, time.Minute))

			r.Route("/users/me/profiles", func(r chi.Router) {
				r.Get("/", profileHandler.List)
				r.Post("/", profileHandler.Create)
				r.Get("/{profileID}", profileHandler.Get)
				r.Put("/{profileID}", profileHandler.Update)
				r.Delete("/{profileID}", profileHandler.Delete)
			})

			r.Route("/progress", func(r chi.Router) {
				r.Get("/", progressHandler.Get)
				r.Post("/", progressHandler.Create)
				r.Post("/batch", progressHandler.Batch)
				r.Get("/stats", progressHandler.Stats)
			})
		})
	})

	return r
}
