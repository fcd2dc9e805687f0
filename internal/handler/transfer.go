package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/josh-kwaku/treasury-ledger/internal/domain"
	"github.com/josh-kwaku/treasury-ledger/internal/ledger"
	"github.com/josh-kwaku/treasury-ledger/internal/logging"
	"github.com/josh-kwaku/treasury-ledger/internal/service/transfer"
)

const maxNoteLength = 500

type transferService interface {
	Transfer(ctx context.Context, req transfer.Request) (*domain.Transaction, error)
	ListTransactions(ctx context.Context) []domain.Transaction
	FilterTransactions(ctx context.Context, f ledger.TransactionFilter) []domain.Transaction
}

type TransferHandler struct {
	transfers transferService
	delay     time.Duration
}

// NewTransferHandler wires the transfer endpoints. A positive delay is
// waited out before the transfer starts, never in the middle of one.
func NewTransferHandler(transfers transferService, delay time.Duration) *TransferHandler {
	return &TransferHandler{transfers: transfers, delay: delay}
}

type createTransferRequest struct {
	FromAccountID string    `json:"from_account_id"`
	ToAccountID   string    `json:"to_account_id"`
	Amount        rawAmount `json:"amount"`
	Note          string    `json:"note"`
}

// rawAmount keeps the amount exactly as sent, a JSON number or string, so the
// transfer engine decides whether it is valid and in which order it is checked.
type rawAmount string

func (a *rawAmount) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*a = rawAmount(s)
		return nil
	}
	if string(data) == "null" {
		*a = ""
		return nil
	}
	*a = rawAmount(data)
	return nil
}

func (r createTransferRequest) Validate() []FieldError {
	var errs []FieldError
	if utf8.RuneCountInString(r.Note) > maxNoteLength {
		errs = append(errs, FieldError{Field: "note", Message: fmt.Sprintf("must be at most %d characters", maxNoteLength)})
	}
	return errs
}

type transactionDTO struct {
	ID              string          `json:"id"`
	FromAccount     string          `json:"from_account"`
	ToAccount       string          `json:"to_account"`
	FromCurrency    string          `json:"from_currency"`
	ToCurrency      string          `json:"to_currency"`
	OriginalAmount  decimal.Decimal `json:"original_amount"`
	ConvertedAmount decimal.Decimal `json:"converted_amount"`
	FXRate          decimal.Decimal `json:"fx_rate"`
	Note            string          `json:"note"`
	Timestamp       time.Time       `json:"timestamp"`
	Status          string          `json:"status"`
}

func toTransactionDTO(t *domain.Transaction) transactionDTO {
	return transactionDTO{
		ID:              t.ID,
		FromAccount:     t.FromAccountID,
		ToAccount:       t.ToAccountID,
		FromCurrency:    string(t.FromCurrency),
		ToCurrency:      string(t.ToCurrency),
		OriginalAmount:  t.OriginalAmount,
		ConvertedAmount: t.ConvertedAmount,
		FXRate:          t.FXRate,
		Note:            t.Note,
		Timestamp:       t.Timestamp,
		Status:          string(t.Status),
	}
}

func toTransactionDTOs(txs []domain.Transaction) []transactionDTO {
	dtos := make([]transactionDTO, len(txs))
	for i := range txs {
		dtos[i] = toTransactionDTO(&txs[i])
	}
	return dtos
}

func (h *TransferHandler) Create(w http.ResponseWriter, r *http.Request) {
	log := logging.FromContext(r.Context())

	var req createTransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}

	if fields := req.Validate(); len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	if !h.wait(r.Context()) {
		log.Info("transfer abandoned before processing", "from_account", req.FromAccountID, "to_account", req.ToAccountID)
		RespondAppError(w, ErrRequestAbandoned, nil)
		return
	}

	txn, err := h.transfers.Transfer(r.Context(), transfer.Request{
		FromAccountID: req.FromAccountID,
		ToAccountID:   req.ToAccountID,
		Amount:        string(req.Amount),
		Note:          req.Note,
	})
	if err != nil {
		RespondDomainError(w, err)
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/api/v1/transactions/%s", txn.ID))
	RespondSuccess(w, http.StatusCreated, toTransactionDTO(txn))
}

// wait reports false if ctx ends before the simulated delay elapses.
func (h *TransferHandler) wait(ctx context.Context) bool {
	if h.delay <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(h.delay)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		return false
	}
}

func (h *TransferHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := ledger.TransactionFilter{
		Search:    q.Get("search"),
		AccountID: q.Get("account_id"),
		Status:    domain.TransactionStatus(strings.ToLower(q.Get("status"))),
	}
	if c := q.Get("currency"); c != "" {
		filter.Currency = domain.ParseCurrency(c)
	}

	if fields := validateTransactionFilter(filter); len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	var txs []domain.Transaction
	if filter == (ledger.TransactionFilter{}) {
		txs = h.transfers.ListTransactions(r.Context())
	} else {
		txs = h.transfers.FilterTransactions(r.Context(), filter)
	}

	RespondSuccess(w, http.StatusOK, toTransactionDTOs(txs))
}

func validateTransactionFilter(f ledger.TransactionFilter) []FieldError {
	var errs []FieldError
	if f.Currency != "" && !f.Currency.IsValid() {
		errs = append(errs, FieldError{Field: "currency", Message: "must be a three-letter currency code"})
	}
	if f.Status != "" && !f.Status.IsValid() {
		errs = append(errs, FieldError{Field: "status", Message: "must be completed, pending, failed, or processing"})
	}
	return errs
}
