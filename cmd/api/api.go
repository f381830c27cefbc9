package main

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/ivnrby/warera-dashboard/internal/analytics"
	"github.com/ivnrby/warera-dashboard/internal/calc"
	"github.com/ivnrby/warera-dashboard/internal/catalog"
	"github.com/ivnrby/warera-dashboard/internal/collect"
	"github.com/ivnrby/warera-dashboard/internal/company"
	"github.com/ivnrby/warera-dashboard/internal/logger"
	"github.com/ivnrby/warera-dashboard/internal/store"
	"github.com/ivnrby/warera-dashboard/internal/warera"
)

type application struct {
	config    config
	store     store.Storage
	log       *logger.Logger
	catalog   *catalog.Service
	companies *company.Service
	calc      *calc.Calculator
	analytics *analytics.Service
	collector *collect.Collector
}

type config struct {
	addr         string
	db           dbConfig
	warera       warera.Config
	workerFanout int
}

type dbConfig struct {
	addr         string
	maxOpenConns int
	maxIdleConns int
	maxIdleTime  string
}

func (app *application) mount() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)

	// Set a timeout value on the request context (ctx), that will signal
	// through ctx.Done() that the request has timed out and further
	// processing should be stopped.
	r.Use(middleware.Timeout(60 * time.Second))

	r.Route("/v1", func(r chi.Router) {
		r.Get("/health", app.healthCheckHandler)

		r.Route("/items", func(r chi.Router) {
			r.Get("/", app.handleGetItems)
			r.Get("/{code}", app.handleGetItem)
		})

		r.Route("/prices/{itemCode}", func(r chi.Router) {
			r.Get("/", app.handleGetPriceHistory)
			r.Get("/orders", app.handleGetOrders)
			r.Get("/summary", app.handleGetPriceSummary)
		})

		r.Route("/companies", func(r chi.Router) {
			r.Post("/fetch", app.handleFetchCompanies)
			r.Get("/user/{userId}", app.handleGetCompaniesByUser)
			r.Get("/{id}", app.handleGetCompany)
			r.Post("/{id}/refresh", app.handleRefreshCompany)
		})

		r.Route("/production", func(r chi.Router) {
			r.Get("/recipes", app.handleGetRecipes)
			r.Get("/{companyId}/metrics", app.handleGetProductionMetrics)
			r.Get("/{companyId}/profit", app.handleGetProfitScenarios)
		})

		r.Route("/analytics/{companyId}", func(r chi.Router) {
			r.Get("/", app.handleGetAnalytics)
			r.Get("/history", app.handleGetProductionHistory)
			r.Post("/track", app.handleTrackProduction)
		})

		r.Post("/collection/trigger", app.handleTriggerCollection)
	})

	return r
}

func (app *application) run(mux http.Handler) error {

	srv := &http.Server{
		Addr:         app.config.addr,
		Handler:      mux,
		WriteTimeout: time.Second * 120,
		ReadTimeout:  time.Second * 40,
		IdleTimeout:  time.Minute,
	}

	app.log.Info("API", "Server started on %s", app.config.addr)
	return srv.ListenAndServe()
}
