package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/josh-kwaku/treasury-ledger/internal/domain"
)

type APIResponse struct {
	Success bool      `json:"success"`
	Data    any       `json:"data"`
	Error   *APIError `json:"error"`
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type insufficientBalanceDetails struct {
	AccountID          string `json:"account_id"`
	Currency           string `json:"currency"`
	Available          string `json:"available"`
	Requested          string `json:"requested"`
	FormattedAvailable string `json:"formatted_available"`
	FormattedRequested string `json:"formatted_requested"`
}

func RespondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func RespondSuccess(w http.ResponseWriter, status int, data any) {
	RespondJSON(w, status, APIResponse{
		Success: true,
		Data:    data,
		Error:   nil,
	})
}

func RespondAppError(w http.ResponseWriter, appErr *AppError, details any) {
	respondError(w, appErr, appErr.Message, details)
}

func respondError(w http.ResponseWriter, appErr *AppError, message string, details any) {
	RespondJSON(w, appErr.Status, APIResponse{
		Success: false,
		Data:    nil,
		Error: &APIError{
			Code:    appErr.Code,
			Message: message,
			Details: details,
		},
	})
}

func RespondValidationError(w http.ResponseWriter, fields []FieldError) {
	RespondAppError(w, ErrValidationFailed, fields)
}

// RespondDomainError maps ledger errors onto API errors. Integrity errors
// are hidden behind INTERNAL_ERROR.
func RespondDomainError(w http.ResponseWriter, err error) {
	var ibe *domain.InsufficientBalanceError
	if errors.As(err, &ibe) {
		respondError(w, ErrInsufficientBalance, ibe.Error(), insufficientBalanceDetails{
			AccountID:          ibe.AccountID,
			Currency:           string(ibe.Currency),
			Available:          ibe.Available.String(),
			Requested:          ibe.Requested.String(),
			FormattedAvailable: ibe.FormattedAvailable,
			FormattedRequested: ibe.FormattedRequested,
		})
		return
	}

	var appErr *AppError

	switch {
	case errors.Is(err, domain.ErrMissingAccount):
		appErr = ErrMissingAccount
	case errors.Is(err, domain.ErrSameAccount):
		appErr = ErrSameAccount
	case errors.Is(err, domain.ErrInvalidAmount):
		appErr = ErrInvalidAmount
	case errors.Is(err, domain.ErrInsufficientBalance):
		appErr = ErrInsufficientBalance
	case errors.Is(err, domain.ErrUnknownCurrency):
		appErr = ErrUnknownCurrency
	case errors.Is(err, domain.ErrUnknownAccount), errors.Is(err, domain.ErrNegativeBalance):
		slog.Error("ledger integrity error", "error", err)
		appErr = ErrInternalError
	default:
		slog.Error("unhandled domain error", "error", err)
		appErr = ErrInternalError
	}

	RespondAppError(w, appErr, nil)
}
