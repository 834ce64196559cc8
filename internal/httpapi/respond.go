package httpapi

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/santalucia-health/hospital-admin-service/internal/lifecycle"
	"github.com/santalucia-health/hospital-admin-service/internal/pagination"
	"github.com/santalucia-health/hospital-admin-service/internal/service"
	"github.com/santalucia-health/hospital-admin-service/internal/validate"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Record  any    `json:"record,omitempty"`
}

type ListResponse struct {
	Success    bool            `json:"success"`
	Records    any             `json:"records"`
	Pagination pagination.Meta `json:"pagination"`
}

func respondJSON(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

func respondError(w http.ResponseWriter, statusCode int, errorType, message string) {
	respondJSON(w, statusCode, ErrorResponse{
		Error:   errorType,
		Message: message,
	})
}

// respondServiceError maps the typed errors the service layer produces onto
// HTTP statuses. Anything unrecognized is a 500.
func respondServiceError(w http.ResponseWriter, err error) {
	var (
		ve *validate.ValidationError
		nf *service.NotFoundError
		de *service.DuplicateError
		ce *service.ConflictError
		te *lifecycle.TransitionError
	)
	switch {
	case errors.As(err, &ve):
		respondError(w, http.StatusBadRequest, "validation_error", ve.Error())
	case errors.As(err, &nf):
		respondError(w, http.StatusNotFound, "not_found", nf.Error())
	case errors.As(err, &de):
		respondError(w, http.StatusConflict, "duplicate", de.Error())
	case errors.As(err, &ce):
		respondError(w, http.StatusConflict, "conflict", ce.Error())
	case errors.As(err, &te):
		respondError(w, http.StatusConflict, "invalid_transition", te.Error())
	case errors.Is(err, service.ErrNoLifecycle):
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
	default:
		log.Printf("[ERROR] Request failed: %v", err)
		respondError(w, http.StatusInternalServerError, "internal_error", "An internal error occurred")
	}
}
