package main

import (
	"errors"
	"net/http"

	"github.com/ivnrby/warera-dashboard/internal/catalog"
	"github.com/ivnrby/warera-dashboard/internal/response"
	"github.com/ivnrby/warera-dashboard/internal/store"

	"github.com/go-chi/chi/v5"
)

type ItemView struct {
	store.Item
	Category     string   `json:"category"`
	CurrentPrice *float64 `json:"currentPrice,omitempty"`
}

type GetItemsResponse = response.APIResponse[[]ItemView]
type GetItemResponse = response.APIResponse[ItemView]

func (app *application) itemView(r *http.Request, item store.Item) ItemView {
	view := ItemView{Item: item, Category: catalog.Category(item.Code)}

	point, err := app.store.Prices.GetLatest(r.Context(), item.Code)
	if err == nil {
		view.CurrentPrice = &point.Price
	}
	return view
}

func (app *application) handleGetItems(w http.ResponseWriter, r *http.Request) {
	items, err := app.catalog.Items(r.Context())
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to load items: "+err.Error())
		return
	}

	views := make([]ItemView, len(items))
	for i, item := range items {
		views[i] = app.itemView(r, item)
	}

	resp := &GetItemsResponse{
		Success: true,
		Data:    views,
		Message: "Successfully loaded items",
	}
	if err := writeJSON(w, http.StatusOK, resp); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to write response")
	}
}

func (app *application) handleGetItem(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	item, err := app.catalog.ItemByCode(r.Context(), code)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeJSONError(w, http.StatusNotFound, "item not found")
			return
		}
		writeJSONError(w, http.StatusInternalServerError, "failed to load item: "+err.Error())
		return
	}

	resp := &GetItemResponse{
		Success: true,
		Data:    app.itemView(r, *item),
		Message: "Successfully loaded item",
	}
	if err := writeJSON(w, http.StatusOK, resp); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to write response")
	}
}
