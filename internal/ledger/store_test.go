package ledger

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/josh-kwaku/treasury-ledger/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func seedAccounts() []domain.Account {
	return []domain.Account{
		{ID: "mpesa_kes_1", Name: "Mpesa_KES_1", Currency: domain.CurrencyKES, Balance: dec("150000")},
		{ID: "bank_usd_1", Name: "Bank_USD_1", Currency: domain.CurrencyUSD, Balance: dec("25000")},
		{ID: "wallet_ngn_1", Name: "Wallet_NGN_1", Currency: domain.CurrencyNGN, Balance: dec("2500000")},
		{ID: "wallet_ngn_2", Name: "Wallet_NGN_2", Currency: domain.CurrencyNGN, Balance: dec("1800000")},
	}
}

func seedHistory() []domain.Transaction {
	return []domain.Transaction{
		{
			ID: "tx_001", FromAccountID: "bank_usd_1", ToAccountID: "mpesa_kes_1",
			FromCurrency: domain.CurrencyUSD, ToCurrency: domain.CurrencyKES,
			OriginalAmount: dec("1000"), ConvertedAmount: dec("129500"), FXRate: dec("129.5"),
			Note: "Initial funding for mobile payments", Status: domain.TransactionStatusCompleted,
			Timestamp: time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC),
		},
		{
			ID: "tx_002", FromAccountID: "wallet_ngn_1", ToAccountID: "wallet_ngn_2",
			FromCurrency: domain.CurrencyNGN, ToCurrency: domain.CurrencyNGN,
			OriginalAmount: dec("500000"), ConvertedAmount: dec("500000"), FXRate: dec("1"),
			Note: "Rebalancing between wallets", Status: domain.TransactionStatusCompleted,
			Timestamp: time.Date(2024, 1, 14, 14, 15, 0, 0, time.UTC),
		},
	}
}

func twoAccounts() []domain.Account {
	return []domain.Account{
		{ID: "usd", Currency: domain.CurrencyUSD, Balance: dec("10")},
		{ID: "kes", Currency: domain.CurrencyKES, Balance: dec("10")},
	}
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(seedAccounts(), seedHistory())
	require.NoError(t, err)
	return s
}

func TestNewStoreRejectsBadSeed(t *testing.T) {
	tests := []struct {
		name     string
		accounts []domain.Account
		history  []domain.Transaction
		wantErr  error
	}{
		{
			name:     "empty id",
			accounts: []domain.Account{{ID: "", Currency: domain.CurrencyUSD}},
			wantErr:  domain.ErrInvalidSeed,
		},
		{
			name: "duplicate id",
			accounts: []domain.Account{
				{ID: "a", Currency: domain.CurrencyUSD},
				{ID: "a", Currency: domain.CurrencyKES},
			},
			wantErr: domain.ErrInvalidSeed,
		},
		{
			name:     "negative balance",
			accounts: []domain.Account{{ID: "a", Currency: domain.CurrencyUSD, Balance: dec("-1")}},
			wantErr:  domain.ErrNegativeBalance,
		},
		{
			name:     "history references unknown account",
			accounts: []domain.Account{{ID: "a", Currency: domain.CurrencyUSD}},
			history:  []domain.Transaction{{ID: "tx", FromAccountID: "a", ToAccountID: "ghost"}},
			wantErr:  domain.ErrUnknownAccount,
		},
		{
			name:     "history moves an account onto itself",
			accounts: twoAccounts(),
			history: []domain.Transaction{{
				ID: "tx", FromAccountID: "usd", ToAccountID: "usd",
				FromCurrency: domain.CurrencyUSD, ToCurrency: domain.CurrencyUSD, OriginalAmount: dec("1"),
			}},
			wantErr: domain.ErrInvalidSeed,
		},
		{
			name:     "history source currency differs from account",
			accounts: twoAccounts(),
			history: []domain.Transaction{{
				ID: "tx", FromAccountID: "usd", ToAccountID: "kes",
				FromCurrency: domain.CurrencyNGN, ToCurrency: domain.CurrencyKES, OriginalAmount: dec("1"),
			}},
			wantErr: domain.ErrInvalidSeed,
		},
		{
			name:     "history destination currency differs from account",
			accounts: twoAccounts(),
			history: []domain.Transaction{{
				ID: "tx", FromAccountID: "usd", ToAccountID: "kes",
				FromCurrency: domain.CurrencyUSD, ToCurrency: domain.CurrencyUSD, OriginalAmount: dec("1"),
			}},
			wantErr: domain.ErrInvalidSeed,
		},
		{
			name:     "history amount not positive",
			accounts: twoAccounts(),
			history: []domain.Transaction{{
				ID: "tx", FromAccountID: "usd", ToAccountID: "kes",
				FromCurrency: domain.CurrencyUSD, ToCurrency: domain.CurrencyKES, OriginalAmount: dec("0"),
			}},
			wantErr: domain.ErrInvalidSeed,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewStore(tc.accounts, tc.history)
			require.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestAccountsSnapshot(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	accounts := s.Accounts(ctx)
	require.Len(t, accounts, 4)
	assert.Equal(t, "mpesa_kes_1", accounts[0].ID)
	assert.Equal(t, "wallet_ngn_2", accounts[3].ID)

	accounts[0].Balance = dec("1")
	again, err := s.Account(ctx, "mpesa_kes_1")
	require.NoError(t, err)
	assert.True(t, again.Balance.Equal(dec("150000")), "snapshot mutation leaked into store")
}

func TestAccountUnknown(t *testing.T) {
	_, err := newTestStore(t).Account(context.Background(), "nope")
	require.ErrorIs(t, err, domain.ErrUnknownAccount)
}

func TestTransactionsNewestFirst(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	txs := s.Transactions(ctx)
	require.Len(t, txs, 2)
	assert.Equal(t, "tx_001", txs[0].ID)
	assert.Equal(t, "tx_002", txs[1].ID)

	err := s.Commit(ctx,
		BalanceUpdate{AccountID: "wallet_ngn_2", Balance: dec("1799000")},
		BalanceUpdate{AccountID: "wallet_ngn_1", Balance: dec("2001000")},
		domain.Transaction{ID: "tx_003", FromAccountID: "wallet_ngn_2", ToAccountID: "wallet_ngn_1", Timestamp: time.Now()},
	)
	require.NoError(t, err)

	txs = s.Transactions(ctx)
	require.Len(t, txs, 3)
	assert.Equal(t, []string{"tx_003", "tx_001", "tx_002"}, []string{txs[0].ID, txs[1].ID, txs[2].ID})
}

func TestCommitAppliesBothSides(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	err := s.Commit(ctx,
		BalanceUpdate{AccountID: "bank_usd_1", Balance: dec("24000")},
		BalanceUpdate{AccountID: "mpesa_kes_1", Balance: dec("279500")},
		domain.Transaction{ID: "tx_new", FromAccountID: "bank_usd_1", ToAccountID: "mpesa_kes_1"},
	)
	require.NoError(t, err)

	from, _ := s.Account(ctx, "bank_usd_1")
	to, _ := s.Account(ctx, "mpesa_kes_1")
	assert.True(t, from.Balance.Equal(dec("24000")))
	assert.True(t, to.Balance.Equal(dec("279500")))
	assert.Equal(t, "tx_new", s.Transactions(ctx)[0].ID)
}

func TestCommitRejectsWithoutMutation(t *testing.T) {
	tests := []struct {
		name    string
		debit   BalanceUpdate
		credit  BalanceUpdate
		wantErr error
	}{
		{
			name:    "unknown debit account",
			debit:   BalanceUpdate{AccountID: "ghost", Balance: dec("1")},
			credit:  BalanceUpdate{AccountID: "mpesa_kes_1", Balance: dec("1")},
			wantErr: domain.ErrUnknownAccount,
		},
		{
			name:    "unknown credit account",
			debit:   BalanceUpdate{AccountID: "bank_usd_1", Balance: dec("1")},
			credit:  BalanceUpdate{AccountID: "ghost", Balance: dec("1")},
			wantErr: domain.ErrUnknownAccount,
		},
		{
			name:    "negative debit balance",
			debit:   BalanceUpdate{AccountID: "bank_usd_1", Balance: dec("-0.01")},
			credit:  BalanceUpdate{AccountID: "mpesa_kes_1", Balance: dec("1")},
			wantErr: domain.ErrNegativeBalance,
		},
		{
			name:    "same account on both sides",
			debit:   BalanceUpdate{AccountID: "bank_usd_1", Balance: dec("1")},
			credit:  BalanceUpdate{AccountID: "bank_usd_1", Balance: dec("2")},
			wantErr: domain.ErrSameAccount,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := newTestStore(t)
			ctx := context.Background()
			before := s.Accounts(ctx)

			err := s.Commit(ctx, tc.debit, tc.credit, domain.Transaction{ID: "tx_bad"})
			require.ErrorIs(t, err, tc.wantErr)

			assert.Equal(t, before, s.Accounts(ctx))
			assert.Len(t, s.Transactions(ctx), 2)
		})
	}
}

func TestReadersNeverSeeHalfCommit(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	total := dec("4300000")

	var wg sync.WaitGroup
	stop := make(chan struct{})

	wg.Add(1)
	go func() {
		defer wg.Done()
		defer close(stop)
		for i := 0; i < 500; i++ {
			a, _ := s.Account(ctx, "wallet_ngn_1")
			b, _ := s.Account(ctx, "wallet_ngn_2")
			err := s.Commit(ctx,
				BalanceUpdate{AccountID: "wallet_ngn_1", Balance: a.Balance.Sub(dec("1"))},
				BalanceUpdate{AccountID: "wallet_ngn_2", Balance: b.Balance.Add(dec("1"))},
				domain.Transaction{ID: "tx"},
			)
			if err != nil {
				t.Errorf("commit: %v", err)
				return
			}
		}
	}()

	for {
		select {
		case <-stop:
			wg.Wait()
			return
		default:
		}
		sum := decimal.Zero
		for _, a := range s.Accounts(ctx) {
			if a.Currency == domain.CurrencyNGN {
				sum = sum.Add(a.Balance)
			}
		}
		require.True(t, sum.Equal(total), "observed NGN total %s", sum)
	}
}
