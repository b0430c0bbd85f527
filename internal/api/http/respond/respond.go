// Package respond writes JSON responses.
package respond

import (
	"encoding/json"
	"net/http"

	"github.com/dtroode/userintake/internal/apierror"
)

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// JSON writes v with the given status code.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Error writes apiErr as {"error": ..., "message": ...}.
func Error(w http.ResponseWriter, apiErr *apierror.APIError) {
	JSON(w, apiErr.Status, errorBody{Error: apiErr.Code, Message: apiErr.Message})
}
