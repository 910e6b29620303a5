package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

var (
	errInvalidBody   = errors.New("Invalid request body")
	errInvalidFields = errors.New("Missing or invalid fields")
)

// decodeValid decodes a JSON body into dst and checks its validate tags.
func decodeValid(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return errInvalidBody
	}
	if err := validate.Struct(dst); err != nil {
		return errInvalidFields
	}
	return nil
}

// DetailResponse is the error payload shape.
type DetailResponse struct {
	Detail string `json:"detail"`
}

// MessageResponse is the acknowledgement payload for mutations that do
// not return a record.
type MessageResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, DetailResponse{Detail: detail})
}
