// Package httpx contains the JSON response helpers used by every handler.
package httpx

import (
	"encoding/json"
	"net/http"

	"github.com/ayush/second-brain/backend/internal/apperr"
)

// MessageResponse is the body of most non-data responses.
type MessageResponse struct {
	Message string              `json:"message"`
	Errors  []apperr.FieldError `json:"errors,omitempty"`
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// Message writes {"message": msg}.
func Message(w http.ResponseWriter, status int, msg string) {
	WriteJSON(w, status, MessageResponse{Message: msg})
}

// Invalid writes a 400 with the validator detail attached to err, if any.
func Invalid(w http.ResponseWriter, msg string, err error) {
	WriteJSON(w, http.StatusBadRequest, MessageResponse{Message: msg, Errors: apperr.Details(err)})
}

// MaxBodyBytes caps every JSON request body.
const MaxBodyBytes = 64 << 10

// DecodeJSON reads at most MaxBodyBytes of the request body into v.
func DecodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	return json.NewDecoder(r.Body).Decode(v)
}
