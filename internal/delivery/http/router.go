package http

import (
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"evently/internal/delivery/http/controllers"
	"evently/internal/delivery/http/middleware"
	"evently/internal/domain"
)

// NewRouter initializes the HTTP router with all application routes.
// Browse/search/read endpoints are public; writes require a session token.
func NewRouter(
	eventController *controllers.EventController,
	categoryController *controllers.CategoryController,
	webhookController *controllers.WebhookController,
	verifier domain.TokenVerifier,
	logger *slog.Logger,
) *http.ServeMux {
	mux := http.NewServeMux()
	auth := middleware.RequireAuth(verifier, logger)

	// Events
	mux.HandleFunc("GET /events", eventController.Search)
	mux.HandleFunc("GET /events/{eventID}", eventController.GetByID)
	mux.HandleFunc("GET /events/{eventID}/related", eventController.Related)
	mux.HandleFunc("GET /users/{userID}/events", auth(eventController.ListByOrganizer))
	mux.HandleFunc("POST /events", auth(eventController.Create))
	mux.HandleFunc("PUT /events/{eventID}", auth(eventController.Update))
	mux.HandleFunc("DELETE /events/{eventID}", auth(eventController.Delete))

	// Categories
	mux.HandleFunc("GET /categories", categoryController.List)
	mux.HandleFunc("GET /categories/{categoryID}", categoryController.GetByID)
	mux.HandleFunc("POST /categories", auth(categoryController.Create))

	// Identity provider webhooks (HMAC-signed, no bearer token)
	mux.HandleFunc("POST /webhooks/identity", webhookController.HandleIdentity)

	// Observability
	mux.Handle("GET /metrics", promhttp.Handler())

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
