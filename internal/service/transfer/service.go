package transfer

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/josh-kwaku/treasury-ledger/internal/domain"
	"github.com/josh-kwaku/treasury-ledger/internal/fx"
	"github.com/josh-kwaku/treasury-ledger/internal/ledger"
	"github.com/josh-kwaku/treasury-ledger/internal/metrics"
	"github.com/shopspring/decimal"
)

type ledgerStore interface {
	Account(ctx context.Context, id string) (domain.Account, error)
	Transactions(ctx context.Context) []domain.Transaction
	FilterTransactions(ctx context.Context, f ledger.TransactionFilter) []domain.Transaction
	Commit(ctx context.Context, debit, credit ledger.BalanceUpdate, txn domain.Transaction) error
}

type fxService interface {
	Convert(ctx context.Context, amount decimal.Decimal, from, to domain.Currency) (*fx.Conversion, error)
}

type idGenerator interface {
	NewID() string
}

// Service executes transfers against the ledger. It owns no ledger state;
// mu only serialises transfers so validation and commit see the same
// balances.
type Service struct {
	mu      sync.Mutex
	store   ledgerStore
	fx      fxService
	ids     idGenerator
	metrics *metrics.Transfers
	now     func() time.Time
}

type Option func(*Service)

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithMetrics(m *metrics.Transfers) Option {
	return func(s *Service) { s.metrics = m }
}

func NewService(store ledgerStore, fxSvc fxService, ids idGenerator, opts ...Option) *Service {
	s := &Service{
		store: store,
		fx:    fxSvc,
		ids:   ids,
		now:   func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) ListTransactions(ctx context.Context) []domain.Transaction {
	return s.store.Transactions(ctx)
}

func (s *Service) FilterTransactions(ctx context.Context, f ledger.TransactionFilter) []domain.Transaction {
	return s.store.FilterTransactions(ctx, f)
}

func parseAmount(raw string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parseAmount: %q: %w", raw, domain.ErrInvalidAmount)
	}
	if !amount.IsPositive() {
		return decimal.Zero, fmt.Errorf("parseAmount: %s: %w", amount, domain.ErrInvalidAmount)
	}
	return amount, nil
}
