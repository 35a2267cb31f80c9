// Package httpapi exposes the comparison service over HTTP.
package httpapi

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"

	"pricescout/models"
)

var validate = validator.New()

// Service is the part of the aggregation engine the HTTP layer needs.
type Service interface {
	Compare(ctx context.Context, req models.CompareRequest) ([]models.ProductResult, error)
	Health() models.HealthStatus
}

// comparePayload is the wire shape of a comparison request. Struct tags
// carry the schema; models.NewCompareRequest applies the trim semantics.
type comparePayload struct {
	Market string `json:"market" validate:"required,oneof=US IN"`
	Query  string `json:"query" validate:"required,max=500"`
}

type errorResponse struct {
	Error string `json:"error"`
	Code  int    `json:"code"`
}

// RegisterRoutes wires the HTTP routes.
func RegisterRoutes(r *mux.Router, svc Service) {
	r.HandleFunc("/", rootHandler).Methods(http.MethodGet)
	r.HandleFunc("/health", healthHandler(svc)).Methods(http.MethodGet)
	r.HandleFunc("/compare", compareHandler(svc)).Methods(http.MethodPost)
}

func rootHandler(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Price Comparison API",
		"endpoints": map[string]string{
			"compare": "/compare",
			"health":  "/health",
		},
	})
}

func healthHandler(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, svc.Health())
	}
}

func compareHandler(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload comparePayload
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if err := validate.Struct(payload); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request: "+err.Error())
			return
		}

		req, err := models.NewCompareRequest(payload.Market, payload.Query)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		results, err := svc.Compare(r.Context(), req)
		if err != nil {
			// Full context goes to the log; the caller gets an opaque error.
			slog.Error("comparison failed",
				slog.String("query", req.Query),
				slog.String("market", string(req.Market)),
				slog.Any("error", err),
			)
			writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}

		writeJSON(w, http.StatusOK, models.CompareResponse{
			Results:      results,
			Query:        req.Query,
			Market:       string(req.Market),
			TotalResults: len(results),
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("encode response", slog.Any("error", err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg, Code: status})
}
