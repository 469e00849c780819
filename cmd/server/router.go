package main

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/treelinelabs/accounts-api/internal/api"
	apimiddleware "github.com/treelinelabs/accounts-api/internal/api/middleware"
	"github.com/treelinelabs/accounts-api/internal/service"
)

// newRouter configures the application router with all routes and middleware.
func newRouter(
	authService *service.AuthService,
	userService *service.UserService,
	logger *slog.Logger,
) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)

	authHandler := api.NewAuthHandler(authService, logger)
	userHandler := api.NewUserHandler(userService, logger)
	authMiddleware := apimiddleware.NewAuthMiddleware(userService, logger)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/token", authHandler.Token)
		r.Post("/refresh-token", authHandler.RefreshToken)
	})

	r.Route("/users", func(r chi.Router) {
		r.Post("/", userHandler.Create)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.RequireScopes("me"))
			r.Get("/me", userHandler.Me)
		})

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.RequireScopes("me", "items"))
			r.Get("/me/items", userHandler.MyItems)
		})
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			logger.Error("failed to write health check response", "error", err)
		}
	})

	return r
}
