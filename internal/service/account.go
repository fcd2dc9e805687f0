package service

import (
	"context"
	"fmt"
	"time"

	"github.com/josh-kwaku/treasury-ledger/internal/domain"
	"github.com/josh-kwaku/treasury-ledger/internal/ledger"
)

const defaultRecentCount = 5

type accountStore interface {
	Accounts(ctx context.Context) []domain.Account
	Account(ctx context.Context, id string) (domain.Account, error)
	Summary(ctx context.Context, now time.Time, recent int) ledger.Summary
}

// AccountService is the read side of the ledger used by the presentation
// layer.
type AccountService struct {
	accounts accountStore
	now      func() time.Time
}

func NewAccountService(accounts accountStore, now func() time.Time) *AccountService {
	if now == nil {
		now = time.Now
	}
	return &AccountService{accounts: accounts, now: now}
}

func (s *AccountService) ListAccounts(ctx context.Context) []domain.Account {
	return s.accounts.Accounts(ctx)
}

func (s *AccountService) GetAccount(ctx context.Context, id string) (*domain.Account, error) {
	a, err := s.accounts.Account(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("GetAccount: %w", err)
	}
	return &a, nil
}

func (s *AccountService) Summary(ctx context.Context) ledger.Summary {
	return s.accounts.Summary(ctx, s.now(), defaultRecentCount)
}
