package ledger

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/josh-kwaku/treasury-ledger/internal/domain"
	"github.com/shopspring/decimal"
)

// BalanceUpdate is the post-commit balance of one account.
type BalanceUpdate struct {
	AccountID string
	Balance   decimal.Decimal
}

// Store owns the accounts and the transaction history. History is kept in
// commit order and handed out newest first.
type Store struct {
	mu       sync.RWMutex
	order    []string
	accounts map[string]*domain.Account
	history  []domain.Transaction
}

func NewStore(accounts []domain.Account, history []domain.Transaction) (*Store, error) {
	s := &Store{
		order:    make([]string, 0, len(accounts)),
		accounts: make(map[string]*domain.Account, len(accounts)),
		history:  make([]domain.Transaction, 0, len(history)),
	}

	for _, a := range accounts {
		if a.ID == "" {
			return nil, fmt.Errorf("NewStore: account with empty id: %w", domain.ErrInvalidSeed)
		}
		if _, dup := s.accounts[a.ID]; dup {
			return nil, fmt.Errorf("NewStore: duplicate account %s: %w", a.ID, domain.ErrInvalidSeed)
		}
		if a.Balance.IsNegative() {
			return nil, fmt.Errorf("NewStore: account %s: %w", a.ID, domain.ErrNegativeBalance)
		}
		acct := a
		s.accounts[a.ID] = &acct
		s.order = append(s.order, a.ID)
	}

	for _, t := range history {
		from, ok := s.accounts[t.FromAccountID]
		if !ok {
			return nil, fmt.Errorf("NewStore: transaction %s from %s: %w", t.ID, t.FromAccountID, domain.ErrUnknownAccount)
		}
		to, ok := s.accounts[t.ToAccountID]
		if !ok {
			return nil, fmt.Errorf("NewStore: transaction %s to %s: %w", t.ID, t.ToAccountID, domain.ErrUnknownAccount)
		}
		if err := checkHistoryEntry(t, from, to); err != nil {
			return nil, fmt.Errorf("NewStore: %w", err)
		}
		s.history = append(s.history, t)
	}
	sort.SliceStable(s.history, func(i, j int) bool {
		return s.history[i].Timestamp.Before(s.history[j].Timestamp)
	})

	return s, nil
}

// checkHistoryEntry holds a seeded transaction to the same shape a
// committed transfer has.
func checkHistoryEntry(t domain.Transaction, from, to *domain.Account) error {
	switch {
	case from.ID == to.ID:
		return fmt.Errorf("transaction %s moves %s onto itself: %w", t.ID, from.ID, domain.ErrInvalidSeed)
	case t.FromCurrency != from.Currency:
		return fmt.Errorf("transaction %s from_currency %s, account %s holds %s: %w", t.ID, t.FromCurrency, from.ID, from.Currency, domain.ErrInvalidSeed)
	case t.ToCurrency != to.Currency:
		return fmt.Errorf("transaction %s to_currency %s, account %s holds %s: %w", t.ID, t.ToCurrency, to.ID, to.Currency, domain.ErrInvalidSeed)
	case !t.OriginalAmount.IsPositive():
		return fmt.Errorf("transaction %s original_amount %s: %w", t.ID, t.OriginalAmount, domain.ErrInvalidSeed)
	}
	return nil
}

func (s *Store) Accounts(_ context.Context) []domain.Account {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Account, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, *s.accounts[id])
	}
	return out
}

func (s *Store) Account(_ context.Context, id string) (domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.accounts[id]
	if !ok {
		return domain.Account{}, fmt.Errorf("Account: %s: %w", id, domain.ErrUnknownAccount)
	}
	return *a, nil
}

func (s *Store) Transactions(_ context.Context) []domain.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.newestFirst(func(domain.Transaction) bool { return true })
}

// Commit applies both balances and records txn as one step. Either both
// accounts change and txn becomes the newest entry, or nothing changes.
func (s *Store) Commit(_ context.Context, debit, credit BalanceUpdate, txn domain.Transaction) error {
	if debit.AccountID == credit.AccountID {
		return fmt.Errorf("Commit: %s: %w", debit.AccountID, domain.ErrSameAccount)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	from, ok := s.accounts[debit.AccountID]
	if !ok {
		return fmt.Errorf("Commit: debit %s: %w", debit.AccountID, domain.ErrUnknownAccount)
	}
	to, ok := s.accounts[credit.AccountID]
	if !ok {
		return fmt.Errorf("Commit: credit %s: %w", credit.AccountID, domain.ErrUnknownAccount)
	}
	if debit.Balance.IsNegative() {
		return fmt.Errorf("Commit: debit %s: %w", debit.AccountID, domain.ErrNegativeBalance)
	}
	if credit.Balance.IsNegative() {
		return fmt.Errorf("Commit: credit %s: %w", credit.AccountID, domain.ErrNegativeBalance)
	}

	from.Balance = debit.Balance
	to.Balance = credit.Balance
	s.history = append(s.history, txn)
	return nil
}

// newestFirst must be called with s.mu held.
func (s *Store) newestFirst(keep func(domain.Transaction) bool) []domain.Transaction {
	out := make([]domain.Transaction, 0, len(s.history))
	for i := len(s.history) - 1; i >= 0; i-- {
		if keep(s.history[i]) {
			out = append(out, s.history[i])
		}
	}
	return out
}
