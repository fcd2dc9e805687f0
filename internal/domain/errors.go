package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Validation errors. The caller can correct the input and resubmit.
var (
	ErrMissingAccount      = errors.New("source and destination accounts are required")
	ErrSameAccount         = errors.New("source and destination accounts must be different")
	ErrInvalidAmount       = errors.New("amount must be a number greater than zero")
	ErrInsufficientBalance = errors.New("insufficient balance")
)

// Integrity errors. These point at a bug or a stale reference.
var (
	ErrUnknownCurrency = errors.New("unknown currency")
	ErrUnknownAccount  = errors.New("unknown account")
	ErrNegativeBalance = errors.New("balance would become negative")
)

var ErrInvalidSeed = errors.New("invalid seed data")

// InsufficientBalanceError carries both sides of a failed balance check.
// The formatted fields are rendered in the source account's currency.
type InsufficientBalanceError struct {
	AccountID          string
	Currency           Currency
	Available          decimal.Decimal
	Requested          decimal.Decimal
	FormattedAvailable string
	FormattedRequested string
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("Insufficient balance. Available: %s, Requested: %s", e.FormattedAvailable, e.FormattedRequested)
}

func (e *InsufficientBalanceError) Is(target error) bool {
	return target == ErrInsufficientBalance
}
