package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/pennyjar/pennyjar/internal/http/events"
	"github.com/pennyjar/pennyjar/internal/http/family"
	"github.com/pennyjar/pennyjar/internal/http/goal"
	"github.com/pennyjar/pennyjar/internal/http/ledger"
	"github.com/pennyjar/pennyjar/internal/http/request"
)

func New(
	familyV1 *family.Handler,
	ledgerV1 *ledger.Handler,
	requestsV1 *request.Handler,
	goalsV1 *goal.Handler,
	eventsV1 *events.Handler,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/family", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			familyV1.Routes(r)
		})

		r.Route("/children/{childID}", func(r chi.Router) {
			ledgerV1.Routes(r)
			requestsV1.ChildRoutes(r)
			r.Route("/goals", goalsV1.Routes)
		})

		r.Route("/requests", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			requestsV1.Routes(r)
		})

		r.Route("/events", eventsV1.Routes)
	})

	return router
}
