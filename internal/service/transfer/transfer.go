package transfer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/josh-kwaku/treasury-ledger/internal/domain"
	"github.com/josh-kwaku/treasury-ledger/internal/fx"
	"github.com/josh-kwaku/treasury-ledger/internal/ledger"
	"github.com/josh-kwaku/treasury-ledger/internal/logging"
	"github.com/josh-kwaku/treasury-ledger/internal/metrics"
	"github.com/shopspring/decimal"
)

type Request struct {
	FromAccountID string
	ToAccountID   string
	Amount        string
	Note          string
}

type validated struct {
	from   domain.Account
	to     domain.Account
	amount decimal.Decimal
}

// Transfer validates req, converts the amount and commits both balances and
// the new record in one step. On any error the ledger is left untouched.
func (s *Service) Transfer(ctx context.Context, req Request) (*domain.Transaction, error) {
	log := logging.FromContext(ctx)
	start := time.Now()

	txn, err := s.execute(ctx, req)
	s.metrics.Observe(outcome(err), time.Since(start))

	if err != nil {
		attrs := []any{"error", err, "from_account", req.FromAccountID, "to_account", req.ToAccountID, "amount", req.Amount}
		if isValidationError(err) {
			log.Warn("transfer rejected", attrs...)
		} else {
			log.Error("transfer failed", attrs...)
		}
		return nil, fmt.Errorf("Transfer: %w", err)
	}

	log.Info("transfer completed",
		"transaction_id", txn.ID,
		"from_account", txn.FromAccountID,
		"to_account", txn.ToAccountID,
		"original_amount", txn.OriginalAmount,
		"from_currency", txn.FromCurrency,
		"converted_amount", txn.ConvertedAmount,
		"to_currency", txn.ToCurrency,
		"fx_rate", txn.FXRate,
	)
	return txn, nil
}

func (s *Service) execute(ctx context.Context, req Request) (*domain.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, err := s.validate(ctx, req)
	if err != nil {
		return nil, err
	}

	conv, err := s.fx.Convert(ctx, v.amount, v.from.Currency, v.to.Currency)
	if err != nil {
		return nil, fmt.Errorf("execute: %w", err)
	}

	txn := domain.Transaction{
		ID:              s.ids.NewID(),
		FromAccountID:   v.from.ID,
		ToAccountID:     v.to.ID,
		FromCurrency:    v.from.Currency,
		ToCurrency:      v.to.Currency,
		OriginalAmount:  v.amount,
		ConvertedAmount: conv.ConvertedAmount,
		FXRate:          conv.FXRate,
		Note:            strings.TrimSpace(req.Note),
		Timestamp:       s.now(),
		Status:          domain.TransactionStatusCompleted,
	}

	debit := ledger.BalanceUpdate{AccountID: v.from.ID, Balance: v.from.Balance.Sub(v.amount)}
	credit := ledger.BalanceUpdate{AccountID: v.to.ID, Balance: v.to.Balance.Add(conv.ConvertedAmount)}
	if err := s.store.Commit(ctx, debit, credit, txn); err != nil {
		return nil, fmt.Errorf("execute: %w", err)
	}

	if txn.FromCurrency != txn.ToCurrency {
		s.metrics.Converted(string(txn.FromCurrency), string(txn.ToCurrency))
	}
	return &txn, nil
}

// validate runs the checks in a fixed order; the first failure wins.
func (s *Service) validate(ctx context.Context, req Request) (*validated, error) {
	from, err := s.resolveAccount(ctx, req.FromAccountID)
	if err != nil {
		return nil, fmt.Errorf("validate: source: %w", err)
	}
	to, err := s.resolveAccount(ctx, req.ToAccountID)
	if err != nil {
		return nil, fmt.Errorf("validate: destination: %w", err)
	}

	if from.ID == to.ID {
		return nil, fmt.Errorf("validate: %w", domain.ErrSameAccount)
	}

	amount, err := parseAmount(strings.TrimSpace(req.Amount))
	if err != nil {
		return nil, fmt.Errorf("validate: %w", err)
	}

	if amount.GreaterThan(from.Balance) {
		return nil, fmt.Errorf("validate: %w", &domain.InsufficientBalanceError{
			AccountID:          from.ID,
			Currency:           from.Currency,
			Available:          from.Balance,
			Requested:          amount,
			FormattedAvailable: fx.FormatAmount(from.Balance, from.Currency),
			FormattedRequested: fx.FormatAmount(amount, from.Currency),
		})
	}

	return &validated{from: from, to: to, amount: amount}, nil
}

func (s *Service) resolveAccount(ctx context.Context, id string) (domain.Account, error) {
	if strings.TrimSpace(id) == "" {
		return domain.Account{}, domain.ErrMissingAccount
	}
	acct, err := s.store.Account(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrUnknownAccount) {
			return domain.Account{}, fmt.Errorf("%s: %w", id, domain.ErrMissingAccount)
		}
		return domain.Account{}, err
	}
	return acct, nil
}

func isValidationError(err error) bool {
	return errors.Is(err, domain.ErrMissingAccount) ||
		errors.Is(err, domain.ErrSameAccount) ||
		errors.Is(err, domain.ErrInvalidAmount) ||
		errors.Is(err, domain.ErrInsufficientBalance)
}

func outcome(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeCompleted
	case errors.Is(err, domain.ErrMissingAccount):
		return metrics.OutcomeMissingAccount
	case errors.Is(err, domain.ErrSameAccount):
		return metrics.OutcomeSameAccount
	case errors.Is(err, domain.ErrInvalidAmount):
		return metrics.OutcomeInvalidAmount
	case errors.Is(err, domain.ErrInsufficientBalance):
		return metrics.OutcomeInsufficientBalance
	default:
		return metrics.OutcomeError
	}
}
