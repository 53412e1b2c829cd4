package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/tennis-oracle/internal/resolver"
)

// MsgNoData is returned when a query has no stored answer.
const MsgNoData = "no data available"

// queryResponse wraps a resolver result for the JSON API.
type queryResponse struct {
	Found bool `json:"found"`
	resolver.Result
}

type notFoundResponse struct {
	Found   bool   `json:"found"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// writeJSON encodes v as the response body.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("Failed to encode response to JSON", "error", err)
	}
}

// writeQueryResult maps a resolver outcome onto the HTTP response.
func writeQueryResult(w http.ResponseWriter, res resolver.Result, err error) {
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, queryResponse{Found: true, Result: res})
	case errors.Is(err, resolver.ErrNotFound):
		writeJSON(w, http.StatusOK, notFoundResponse{Found: false, Message: MsgNoData})
	case errors.Is(err, resolver.ErrInvalidArgument):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	default:
		log.Error("Query failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

// intParam reads an optional integer query parameter.
func intParam(r *http.Request, name string, fallback int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.New(name + " must be an integer")
	}
	return v, nil
}
