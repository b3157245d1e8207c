package httputil

import (
	"encoding/json"
	"net/http"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

// FieldErrorResponse carries validation failures keyed by input field.
type FieldErrorResponse struct {
	Errors map[string]string `json:"errors"`
}

// WarningResponse reports a business-rule rejection: the request was
// well-formed but no mutation took place.
type WarningResponse struct {
	Warning string `json:"warning"`
}

func WriteJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func WriteError(w http.ResponseWriter, code int, msg string) {
	WriteJSON(w, code, ErrorResponse{Error: msg})
}

func WriteFieldError(w http.ResponseWriter, field, msg string) {
	WriteJSON(w, http.StatusBadRequest, FieldErrorResponse{Errors: map[string]string{field: msg}})
}

func WriteWarning(w http.ResponseWriter, reason string) {
	WriteJSON(w, http.StatusConflict, WarningResponse{Warning: reason})
}
