package main

import (
	"net/http"

	"github.com/ivnrby/warera-dashboard/internal/analytics"
	"github.com/ivnrby/warera-dashboard/internal/response"
	"github.com/ivnrby/warera-dashboard/internal/store"

	"github.com/go-chi/chi/v5"
)

type TrackProductionRequest struct {
	ActualPP   float64 `json:"actualPP"`
	ExpectedPP float64 `json:"expectedPP"`
}

type GetAnalyticsResponse = response.APIResponse[*analytics.Report]
type GetProductionHistoryResponse = response.APIResponse[[]store.ProductionRecord]

func (app *application) handleTrackProduction(w http.ResponseWriter, r *http.Request) {
	companyID := chi.URLParam(r, "companyId")

	var req TrackProductionRequest
	if err := readJSON(w, r, &req); err != nil {
		return
	}

	if err := app.analytics.TrackProduction(r.Context(), companyID, req.ActualPP, req.ExpectedPP); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to track production: "+err.Error())
		return
	}

	resp := &response.APIResponse[struct{}]{
		Success: true,
		Message: "Successfully tracked production",
	}
	if err := writeJSON(w, http.StatusCreated, resp); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to write response")
	}
}

func (app *application) handleGetAnalytics(w http.ResponseWriter, r *http.Request) {
	companyID := chi.URLParam(r, "companyId")
	days := queryInt(r, "days", 30)

	report, err := app.analytics.Analytics(r.Context(), companyID, days)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to build analytics: "+err.Error())
		return
	}

	resp := &GetAnalyticsResponse{
		Success: true,
		Data:    report,
		Message: "Successfully built production analytics",
	}
	if err := writeJSON(w, http.StatusOK, resp); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to write response")
	}
}

func (app *application) handleGetProductionHistory(w http.ResponseWriter, r *http.Request) {
	companyID := chi.URLParam(r, "companyId")
	days := queryInt(r, "days", 30)

	history, err := app.analytics.History(r.Context(), companyID, days)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to load production history: "+err.Error())
		return
	}

	resp := &GetProductionHistoryResponse{
		Success: true,
		Data:    history,
		Message: "Successfully loaded production history",
	}
	if err := writeJSON(w, http.StatusOK, resp); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to write response")
	}
}
