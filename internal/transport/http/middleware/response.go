package middleware

import (
	"encoding/json"
	"net/http"
)

// writeJSONError writes a JSON error body so middleware rejections (missing
// bearer token, throttled verification attempts) match the handlers' envelope
// shape.
func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
