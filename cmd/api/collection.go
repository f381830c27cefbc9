package main

import (
	"net/http"

	"github.com/ivnrby/warera-dashboard/internal/response"
)

func (app *application) handleTriggerCollection(w http.ResponseWriter, r *http.Request) {
	if err := app.collector.Run(r.Context()); err != nil {
		writeJSONError(w, http.StatusBadGateway, "collection cycle failed: "+err.Error())
		return
	}

	resp := &response.APIResponse[struct{}]{
		Success: true,
		Message: "Collection cycle completed",
	}
	if err := writeJSON(w, http.StatusOK, resp); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to write response")
	}
}
