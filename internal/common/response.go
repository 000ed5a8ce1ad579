package common

import (
	"encoding/json"
	"net/http"
)

// ErrorBody is the error payload shared by every API endpoint.
type ErrorBody struct {
	Success bool     `json:"success"`
	Error   string   `json:"error"`
	Message string   `json:"message,omitempty"`
	Details []string `json:"details,omitempty"`
}

// JSON writes the provided value to the response writer as JSON.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// JSONError renders an error response using the canonical envelope.
func JSONError(w http.ResponseWriter, status int, errText, message string) {
	JSON(w, status, ErrorBody{Error: errText, Message: message})
}

// JSONValidation renders a 400 carrying field-level validation messages.
func JSONValidation(w http.ResponseWriter, details []string) {
	JSON(w, http.StatusBadRequest, ErrorBody{Error: "Validation failed", Details: details})
}
