package handler

import (
	"net/http"
	"time"
)

const version = "1.0.0"

// Health is a liveness probe; it does not touch the store.
func Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"version":   version,
	})
}
