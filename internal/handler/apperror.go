package handler

import "net/http"

type AppError struct {
	Status  int
	Code    string
	Message string
}

func (e *AppError) Error() string { return e.Message }

var (
	ErrInvalidRequest   = &AppError{http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body"}
	ErrValidationFailed = &AppError{http.StatusBadRequest, "VALIDATION_FAILED", "Validation failed"}
	ErrResourceNotFound = &AppError{http.StatusNotFound, "RESOURCE_NOT_FOUND", "Resource not found"}
	ErrInternalError    = &AppError{http.StatusInternalServerError, "INTERNAL_ERROR", "An unexpected error occurred"}
	ErrRequestAbandoned = &AppError{http.StatusServiceUnavailable, "REQUEST_ABANDONED", "Request was cancelled before processing"}

	ErrMissingAccount      = &AppError{http.StatusUnprocessableEntity, "ACCOUNT_NOT_FOUND", "Please select both source and destination accounts"}
	ErrSameAccount         = &AppError{http.StatusUnprocessableEntity, "SAME_ACCOUNT", "Source and destination accounts must be different"}
	ErrInvalidAmount       = &AppError{http.StatusBadRequest, "INVALID_AMOUNT", "Please enter a valid amount"}
	ErrInsufficientBalance = &AppError{http.StatusUnprocessableEntity, "INSUFFICIENT_BALANCE", "Insufficient balance"}
	ErrUnknownCurrency     = &AppError{http.StatusBadRequest, "UNKNOWN_CURRENCY", "Unknown currency"}
)
