package main

import (
	"net/http"
	"time"

	"github.com/ivnrby/warera-dashboard/internal/analytics"
	"github.com/ivnrby/warera-dashboard/internal/response"
	"github.com/ivnrby/warera-dashboard/internal/store"

	"github.com/go-chi/chi/v5"
)

type GetPriceHistoryResponse = response.APIResponse[[]store.PricePoint]
type GetOrdersResponse = response.APIResponse[[]store.TradingOrder]
type GetPriceSummaryResponse = response.APIResponse[*analytics.PriceStats]

func (app *application) handleGetPriceHistory(w http.ResponseWriter, r *http.Request) {
	itemCode := chi.URLParam(r, "itemCode")
	days := queryInt(r, "days", 30)

	since := time.Now().AddDate(0, 0, -days)
	history, err := app.store.Prices.GetHistory(r.Context(), itemCode, since)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to load price history: "+err.Error())
		return
	}

	resp := &GetPriceHistoryResponse{
		Success: true,
		Data:    history,
		Message: "Successfully loaded price history",
	}
	if err := writeJSON(w, http.StatusOK, resp); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to write response")
	}
}

func (app *application) handleGetOrders(w http.ResponseWriter, r *http.Request) {
	itemCode := chi.URLParam(r, "itemCode")

	orders, err := app.store.Orders.GetCurrent(r.Context(), itemCode)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to load orders: "+err.Error())
		return
	}

	resp := &GetOrdersResponse{
		Success: true,
		Data:    orders,
		Message: "Successfully loaded current orders",
	}
	if err := writeJSON(w, http.StatusOK, resp); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to write response")
	}
}

func (app *application) handleGetPriceSummary(w http.ResponseWriter, r *http.Request) {
	itemCode := chi.URLParam(r, "itemCode")
	days := queryInt(r, "days", 30)

	summary, err := app.analytics.PriceSummary(r.Context(), itemCode, days)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to summarize prices: "+err.Error())
		return
	}

	resp := &GetPriceSummaryResponse{
		Success: true,
		Data:    summary,
		Message: "Successfully summarized price history",
	}
	if err := writeJSON(w, http.StatusOK, resp); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to write response")
	}
}
