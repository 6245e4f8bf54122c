package httpapi

import (
	"encoding/json"
	"net/http"

	"triviamaster/internal/stats"
)

// ServeStats returns a handler that responds with the aggregator's
// current report in JSON.
func ServeStats(agg *stats.Aggregator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(agg.Report())
	}
}

// WithCORS allows the report to be fetched from anywhere on the LAN.
func WithCORS(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next(w, r)
	}
}
