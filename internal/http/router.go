package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/budgie-app/budgie/internal/http/auth"
	"github.com/budgie-app/budgie/internal/http/budget"
	"github.com/budgie-app/budgie/internal/http/category"
	"github.com/budgie-app/budgie/internal/http/smartlog"
	"github.com/budgie-app/budgie/internal/http/transaction"
)

func New(
	verifier TokenVerifier,
	authV1 *auth.Handler,
	smartLogging *smartlog.Handler,
	budgetsV1 *budget.Handler,
	categoriesV1 *category.Handler,
	transactionsV1 *transaction.Handler,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}))

	router.Route("/api", func(r chi.Router) {
		r.Route("/auth", authV1.Routes)

		r.Group(func(r chi.Router) {
			r.Use(requireAuth(verifier))
			r.Use(middleware.AllowContentType("application/json"))

			r.Route("/smart-logging", smartLogging.Routes)

			r.Route("/v1", func(r chi.Router) {
				r.Route("/budgets", budgetsV1.Routes)
				r.Route("/categories", categoriesV1.Routes)
				r.Route("/transactions", transactionsV1.Routes)
			})
		})
	})

	return router
}
