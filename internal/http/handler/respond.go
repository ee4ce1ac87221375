package handler

import (
	"encoding/json"
	"log"
	"net/http"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"message": message})
}

// writeInternal hides store/unexpected failures behind a generic 500. The
// real error is logged; dev=true additionally surfaces it to the client.
func writeInternal(w http.ResponseWriter, err error, dev bool) {
	log.Printf("internal error: %v\n", err)
	body := map[string]any{"message": "internal server error"}
	if dev && err != nil {
		body["error"] = err.Error()
	}
	writeJSON(w, http.StatusInternalServerError, body)
}
