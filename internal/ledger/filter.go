package ledger

import (
	"context"
	"strings"

	"github.com/josh-kwaku/treasury-ledger/internal/domain"
)

// TransactionFilter narrows the history. Zero-valued fields match everything.
type TransactionFilter struct {
	Search    string
	Currency  domain.Currency
	AccountID string
	Status    domain.TransactionStatus
}

func (s *Store) FilterTransactions(_ context.Context, f TransactionFilter) []domain.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()

	search := strings.ToLower(strings.TrimSpace(f.Search))
	return s.newestFirst(func(t domain.Transaction) bool {
		if search != "" && !s.matchesSearch(t, search) {
			return false
		}
		if f.Currency != "" && t.FromCurrency != f.Currency && t.ToCurrency != f.Currency {
			return false
		}
		if f.AccountID != "" && t.FromAccountID != f.AccountID && t.ToAccountID != f.AccountID {
			return false
		}
		if f.Status != "" && !strings.EqualFold(string(t.Status), string(f.Status)) {
			return false
		}
		return true
	})
}

// matchesSearch must be called with s.mu held. search is already lower-cased.
func (s *Store) matchesSearch(t domain.Transaction, search string) bool {
	if strings.Contains(strings.ToLower(t.Note), search) ||
		strings.Contains(strings.ToLower(t.ID), search) {
		return true
	}
	for _, id := range []string{t.FromAccountID, t.ToAccountID} {
		if a, ok := s.accounts[id]; ok && strings.Contains(strings.ToLower(a.Name), search) {
			return true
		}
	}
	return false
}
