package api

import (
	"net/http"

	"github.com/facilityhub/lobby-service/internal/api/handlers"
	"github.com/facilityhub/lobby-service/internal/api/middleware"
	"github.com/facilityhub/lobby-service/internal/service"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
)

func NewRouter(services *service.Services, log *logrus.Logger) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	lobbyHandler := handlers.NewLobbyHandler(services.Membership, log)

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middleware.Actor(log))

			r.Route("/lobbies", func(r chi.Router) {
				r.Post("/", lobbyHandler.Create)
				r.Get("/{id}", lobbyHandler.Get)
				r.Post("/{id}/join", lobbyHandler.Join)
				r.Post("/{id}/leave", lobbyHandler.Leave)
				r.Post("/{id}/cancel", lobbyHandler.Cancel)
			})
		})
	})

	return r
}
