package handlers

import (
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/tennis-oracle/internal/metrics"
)

// UsageStatsHandler serves GET /stats/usage with the persisted endpoint counters.
func UsageStatsHandler(usage metrics.UsageStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		counts, err := usage.GetAll()
		if err != nil {
			log.Error("Failed to get usage counters", "error", err)
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
			return
		}
		writeJSON(w, http.StatusOK, counts)
	}
}
