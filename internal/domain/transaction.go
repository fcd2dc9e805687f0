package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransactionStatus string

const (
	TransactionStatusCompleted  TransactionStatus = "completed"
	TransactionStatusPending    TransactionStatus = "pending"
	TransactionStatusFailed     TransactionStatus = "failed"
	TransactionStatusProcessing TransactionStatus = "processing"
)

func (s TransactionStatus) IsValid() bool {
	switch s {
	case TransactionStatusCompleted, TransactionStatusPending, TransactionStatusFailed, TransactionStatusProcessing:
		return true
	default:
		return false
	}
}

// Transaction is an immutable record of a committed transfer. Currencies are
// copied from the accounts at commit time.
type Transaction struct {
	ID              string
	FromAccountID   string
	ToAccountID     string
	FromCurrency    Currency
	ToCurrency      Currency
	OriginalAmount  decimal.Decimal
	ConvertedAmount decimal.Decimal
	FXRate          decimal.Decimal
	Note            string
	Timestamp       time.Time
	Status          TransactionStatus
}
