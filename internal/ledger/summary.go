package ledger

import (
	"context"
	"time"

	"github.com/josh-kwaku/treasury-ledger/internal/domain"
	"github.com/shopspring/decimal"
)

type CurrencyTotal struct {
	Currency     domain.Currency
	Balance      decimal.Decimal
	AccountCount int
}

type Summary struct {
	AccountCount     int
	TransactionCount int
	TodayCount       int
	TotalsByCurrency []CurrencyTotal
	Recent           []domain.Transaction
}

// Summary aggregates the ledger for a dashboard view. Today is the calendar
// day of now in now's location. Totals follow the order in which each
// currency first appears among the accounts.
func (s *Store) Summary(_ context.Context, now time.Time, recent int) Summary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sum := Summary{
		AccountCount:     len(s.order),
		TransactionCount: len(s.history),
	}

	index := make(map[domain.Currency]int)
	for _, id := range s.order {
		a := s.accounts[id]
		i, ok := index[a.Currency]
		if !ok {
			i = len(sum.TotalsByCurrency)
			index[a.Currency] = i
			sum.TotalsByCurrency = append(sum.TotalsByCurrency, CurrencyTotal{Currency: a.Currency, Balance: decimal.Zero})
		}
		sum.TotalsByCurrency[i].Balance = sum.TotalsByCurrency[i].Balance.Add(a.Balance)
		sum.TotalsByCurrency[i].AccountCount++
	}

	y, m, d := now.Date()
	loc := now.Location()
	for _, t := range s.history {
		ty, tm, td := t.Timestamp.In(loc).Date()
		if ty == y && tm == m && td == d {
			sum.TodayCount++
		}
	}

	all := s.newestFirst(func(domain.Transaction) bool { return true })
	if recent >= 0 && recent < len(all) {
		all = all[:recent]
	}
	sum.Recent = all
	return sum
}
