package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/Rogerio-17/cardapio-digital-web/internal/catalog"
	"github.com/Rogerio-17/cardapio-digital-web/internal/checkout"
	"github.com/Rogerio-17/cardapio-digital-web/internal/domain"
	"github.com/Rogerio-17/cardapio-digital-web/internal/logger"
	"github.com/Rogerio-17/cardapio-digital-web/internal/orders"
	"github.com/Rogerio-17/cardapio-digital-web/internal/postal"
	"github.com/Rogerio-17/cardapio-digital-web/internal/publisher"
)

const maxBodyBytes = 1 << 20

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logrus.WithError(err).Error("failed to encode response")
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}

func respondErrorDetails(w http.ResponseWriter, status int, code, message, details string) {
	respondJSON(w, status, ErrorResponse{
		Error:   message,
		Code:    code,
		Details: details,
	})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return false
	}
	return true
}

// handleError maps domain errors to HTTP status codes.
func handleError(w http.ResponseWriter, r *http.Request, fallback logrus.FieldLogger, err error) {
	var (
		validationErr   *checkout.ValidationError
		registrationErr *catalog.RegistrationError
		transitionErr   *domain.InvalidTransitionError
	)

	switch {
	case errors.As(err, &validationErr):
		respondErrorDetails(w, http.StatusUnprocessableEntity, "validation_failed", err.Error(),
			strings.Join(validationErr.Fields, ","))
	case errors.As(err, &registrationErr):
		respondErrorDetails(w, http.StatusUnprocessableEntity, "invalid_registration", "invalid restaurant registration",
			strings.Join(registrationErr.Messages, "; "))
	case errors.As(err, &transitionErr):
		respondError(w, http.StatusConflict, "invalid_transition", err.Error())
	case errors.Is(err, checkout.ErrEmptyCart):
		respondError(w, http.StatusBadRequest, "empty_cart", "cart is empty")
	case errors.Is(err, checkout.ErrInvalidStep), errors.Is(err, checkout.ErrNotAtSummary):
		respondError(w, http.StatusBadRequest, "invalid_step", err.Error())
	case errors.Is(err, domain.ErrUnknownVariant):
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, orders.ErrInvalidSubmission):
		respondError(w, http.StatusUnprocessableEntity, "invalid_order", err.Error())
	case errors.Is(err, orders.ErrOrderNotFound):
		respondError(w, http.StatusNotFound, "not_found", "order not found")
	case errors.Is(err, catalog.ErrRestaurantNotFound), errors.Is(err, catalog.ErrProductNotFound):
		respondError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, catalog.ErrSlugTaken):
		respondError(w, http.StatusConflict, "slug_taken", err.Error())
	case errors.Is(err, postal.ErrInvalidCode):
		respondError(w, http.StatusUnprocessableEntity, "invalid_postal_code", postal.Message(err))
	case errors.Is(err, postal.ErrNotFound):
		respondError(w, http.StatusNotFound, "postal_code_not_found", postal.Message(err))
	case errors.Is(err, postal.ErrUnavailable), errors.Is(err, publisher.ErrUnavailable):
		respondError(w, http.StatusServiceUnavailable, "service_unavailable", err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		respondError(w, http.StatusGatewayTimeout, "timeout", "request timed out")
	default:
		logger.FromContext(r.Context(), fallback).WithError(err).Error("request failed")
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}
