package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/josh-kwaku/treasury-ledger/internal/domain"
	"github.com/josh-kwaku/treasury-ledger/internal/fx"
	"github.com/josh-kwaku/treasury-ledger/internal/ledger"
)

type accountService interface {
	ListAccounts(ctx context.Context) []domain.Account
	GetAccount(ctx context.Context, id string) (*domain.Account, error)
	Summary(ctx context.Context) ledger.Summary
}

type AccountHandler struct {
	accounts accountService
}

func NewAccountHandler(accounts accountService) *AccountHandler {
	return &AccountHandler{accounts: accounts}
}

type accountDTO struct {
	ID               string          `json:"id"`
	Name             string          `json:"name"`
	Currency         string          `json:"currency"`
	Balance          decimal.Decimal `json:"balance"`
	FormattedBalance string          `json:"formatted_balance"`
}

func toAccountDTO(a domain.Account) accountDTO {
	return accountDTO{
		ID:               a.ID,
		Name:             a.Name,
		Currency:         string(a.Currency),
		Balance:          a.Balance,
		FormattedBalance: fx.FormatAmount(a.Balance, a.Currency),
	}
}

type currencyTotalDTO struct {
	Currency       string          `json:"currency"`
	Balance        decimal.Decimal `json:"balance"`
	FormattedTotal string          `json:"formatted_total"`
	AccountCount   int             `json:"account_count"`
}

type summaryDTO struct {
	AccountCount       int                `json:"account_count"`
	TransactionCount   int                `json:"transaction_count"`
	TodayCount         int                `json:"today_count"`
	TotalsByCurrency   []currencyTotalDTO `json:"totals_by_currency"`
	RecentTransactions []transactionDTO   `json:"recent_transactions"`
	GeneratedAt        time.Time          `json:"generated_at"`
}

func (h *AccountHandler) List(w http.ResponseWriter, r *http.Request) {
	accounts := h.accounts.ListAccounts(r.Context())

	dtos := make([]accountDTO, len(accounts))
	for i := range accounts {
		dtos[i] = toAccountDTO(accounts[i])
	}

	RespondSuccess(w, http.StatusOK, dtos)
}

func (h *AccountHandler) Get(w http.ResponseWriter, r *http.Request) {
	account, err := h.accounts.GetAccount(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, domain.ErrUnknownAccount) {
			RespondAppError(w, ErrResourceNotFound, nil)
			return
		}
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, toAccountDTO(*account))
}

func (h *AccountHandler) Summary(w http.ResponseWriter, r *http.Request) {
	sum := h.accounts.Summary(r.Context())

	dto := summaryDTO{
		AccountCount:       sum.AccountCount,
		TransactionCount:   sum.TransactionCount,
		TodayCount:         sum.TodayCount,
		TotalsByCurrency:   make([]currencyTotalDTO, len(sum.TotalsByCurrency)),
		RecentTransactions: toTransactionDTOs(sum.Recent),
		GeneratedAt:        time.Now().UTC(),
	}
	for i, ct := range sum.TotalsByCurrency {
		dto.TotalsByCurrency[i] = currencyTotalDTO{
			Currency:       string(ct.Currency),
			Balance:        ct.Balance,
			FormattedTotal: fx.FormatAmount(ct.Balance, ct.Currency),
			AccountCount:   ct.AccountCount,
		}
	}

	RespondSuccess(w, http.StatusOK, dto)
}
