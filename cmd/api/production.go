package main

import (
	"errors"
	"net/http"

	"github.com/ivnrby/warera-dashboard/internal/calc"
	"github.com/ivnrby/warera-dashboard/internal/catalog"
	"github.com/ivnrby/warera-dashboard/internal/response"
	"github.com/ivnrby/warera-dashboard/internal/store"

	"github.com/go-chi/chi/v5"
)

type GetRecipesResponse = response.APIResponse[[]catalog.Recipe]
type GetMetricsResponse = response.APIResponse[calc.Metrics]
type GetProfitResponse = response.APIResponse[*calc.ScenarioPair]

func (app *application) handleGetRecipes(w http.ResponseWriter, r *http.Request) {
	recipes, err := app.catalog.Recipes(r.Context())
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to load recipes: "+err.Error())
		return
	}

	resp := &GetRecipesResponse{
		Success: true,
		Data:    recipes,
		Message: "Successfully loaded recipes",
	}
	if err := writeJSON(w, http.StatusOK, resp); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to write response")
	}
}

func (app *application) handleGetProductionMetrics(w http.ResponseWriter, r *http.Request) {
	companyID := chi.URLParam(r, "companyId")
	productionBonus := queryFloat(r, "productionBonus", 0)
	fidelityBonus := queryFloat(r, "fidelityBonus", 0)
	maxEnergy := queryFloat(r, "maxEnergy", 70)

	c, err := app.store.Companies.GetByID(r.Context(), companyID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeJSONError(w, http.StatusNotFound, "company not found")
			return
		}
		writeJSONError(w, http.StatusInternalServerError, "failed to load company: "+err.Error())
		return
	}

	metrics := calc.ProductionMetrics(c.ProductionValue, productionBonus, fidelityBonus, maxEnergy)

	resp := &GetMetricsResponse{
		Success: true,
		Data:    metrics,
		Message: "Successfully calculated production metrics",
	}
	if err := writeJSON(w, http.StatusOK, resp); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to write response")
	}
}

func (app *application) handleGetProfitScenarios(w http.ResponseWriter, r *http.Request) {
	companyID := chi.URLParam(r, "companyId")
	outputItem := r.URL.Query().Get("outputItem")
	productionBonus := queryFloat(r, "productionBonus", 0.2)

	if outputItem == "" {
		writeJSONError(w, http.StatusBadRequest, "outputItem is required")
		return
	}

	ctx := r.Context()
	c, err := app.store.Companies.GetByID(ctx, companyID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeJSONError(w, http.StatusNotFound, "company not found")
			return
		}
		writeJSONError(w, http.StatusInternalServerError, "failed to load company: "+err.Error())
		return
	}

	workers, err := app.store.Companies.GetWorkers(ctx, companyID)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to load workers: "+err.Error())
		return
	}

	recipes, err := app.catalog.Recipes(ctx)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to load recipes: "+err.Error())
		return
	}
	items, err := app.catalog.Items(ctx)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to load items: "+err.Error())
		return
	}

	pair, err := app.calc.ProfitScenarios(ctx, *c, workers, recipes, items, outputItem, productionBonus)
	if err != nil {
		if errors.Is(err, calc.ErrNoProductionData) {
			writeJSONError(w, http.StatusNotFound, err.Error())
			return
		}
		writeJSONError(w, http.StatusInternalServerError, "failed to calculate profit: "+err.Error())
		return
	}

	resp := &GetProfitResponse{
		Success: true,
		Data:    pair,
		Message: "Successfully calculated profit scenarios",
	}
	if err := writeJSON(w, http.StatusOK, resp); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to write response")
	}
}
