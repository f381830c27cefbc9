package main

import (
	"errors"
	"net/http"

	"github.com/ivnrby/warera-dashboard/internal/company"
	"github.com/ivnrby/warera-dashboard/internal/response"

	"github.com/go-chi/chi/v5"
)

type FetchCompaniesRequest struct {
	UserID string `json:"userId"`
}

type FetchCompaniesResponse = response.APIResponse[[]company.Synced]
type GetCompanyResponse = response.APIResponse[*company.View]
type GetCompaniesResponse = response.APIResponse[[]company.View]
type RefreshCompanyResponse = response.APIResponse[*company.Synced]

func (app *application) handleFetchCompanies(w http.ResponseWriter, r *http.Request) {
	var req FetchCompaniesRequest
	if err := readJSON(w, r, &req); err != nil {
		return
	}
	if req.UserID == "" {
		writeJSONError(w, http.StatusBadRequest, "userId is required")
		return
	}

	synced, err := app.companies.FetchByUserID(r.Context(), req.UserID)
	if err != nil {
		writeJSONError(w, http.StatusBadGateway, "failed to fetch companies: "+err.Error())
		return
	}

	resp := &FetchCompaniesResponse{
		Success: true,
		Data:    synced,
		Message: "Successfully fetched companies",
	}
	if err := writeJSON(w, http.StatusOK, resp); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to write response")
	}
}

func (app *application) handleGetCompaniesByUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")

	views, err := app.companies.GetByUserID(r.Context(), userID)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to load companies: "+err.Error())
		return
	}

	resp := &GetCompaniesResponse{
		Success: true,
		Data:    views,
		Message: "Successfully loaded companies",
	}
	if err := writeJSON(w, http.StatusOK, resp); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to write response")
	}
}

func (app *application) handleGetCompany(w http.ResponseWriter, r *http.Request) {
	companyID := chi.URLParam(r, "id")

	view, err := app.companies.GetByID(r.Context(), companyID)
	if err != nil {
		if errors.Is(err, company.ErrCompanyNotFound) {
			writeJSONError(w, http.StatusNotFound, "company not found")
			return
		}
		writeJSONError(w, http.StatusInternalServerError, "failed to load company: "+err.Error())
		return
	}

	resp := &GetCompanyResponse{
		Success: true,
		Data:    view,
		Message: "Successfully loaded company",
	}
	if err := writeJSON(w, http.StatusOK, resp); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to write response")
	}
}

func (app *application) handleRefreshCompany(w http.ResponseWriter, r *http.Request) {
	companyID := chi.URLParam(r, "id")

	synced, err := app.companies.Refresh(r.Context(), companyID)
	if err != nil {
		if errors.Is(err, company.ErrCompanyNotFound) {
			writeJSONError(w, http.StatusNotFound, "company not found")
			return
		}
		writeJSONError(w, http.StatusBadGateway, "failed to refresh company: "+err.Error())
		return
	}

	resp := &RefreshCompanyResponse{
		Success: true,
		Data:    synced,
		Message: "Successfully refreshed company",
	}
	if err := writeJSON(w, http.StatusOK, resp); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to write response")
	}
}
