package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/josh-kwaku/treasury-ledger/internal/domain"
	"github.com/josh-kwaku/treasury-ledger/internal/fx"
	"github.com/josh-kwaku/treasury-ledger/internal/logging"
)

type fxService interface {
	GetRate(ctx context.Context, from, to domain.Currency) (*fx.Quote, error)
	Convert(ctx context.Context, amount decimal.Decimal, from, to domain.Currency) (*fx.Conversion, error)
	Currencies() []domain.Currency
}

type FXHandler struct {
	fx fxService
}

func NewFXHandler(fxSvc fxService) *FXHandler {
	return &FXHandler{fx: fxSvc}
}

type fxRateResponse struct {
	FromCurrency string `json:"from_currency"`
	ToCurrency   string `json:"to_currency"`
	Rate         string `json:"rate"`
	Timestamp    string `json:"timestamp"`

	Amount             string `json:"amount,omitempty"`
	ConvertedAmount    string `json:"converted_amount,omitempty"`
	FormattedConverted string `json:"formatted_converted,omitempty"`
}

func (h *FXHandler) GetRate(w http.ResponseWriter, r *http.Request) {
	from := domain.ParseCurrency(r.URL.Query().Get("from"))
	to := domain.ParseCurrency(r.URL.Query().Get("to"))

	if fields := validateFXRateParams(from, to); len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	quote, err := h.fx.GetRate(r.Context(), from, to)
	if err != nil {
		logging.FromContext(r.Context()).Warn("fx rate lookup failed", "error", err)
		RespondDomainError(w, err)
		return
	}

	resp := fxRateResponse{
		FromCurrency: string(quote.FromCurrency),
		ToCurrency:   string(quote.ToCurrency),
		Rate:         quote.Rate.String(),
		Timestamp:    time.Now().UTC().Format(time.RFC3339),
	}

	if raw := r.URL.Query().Get("amount"); raw != "" {
		conv, err := h.preview(r.Context(), raw, from, to)
		if err != nil {
			RespondDomainError(w, err)
			return
		}
		resp.Amount = conv.SourceAmount.String()
		resp.ConvertedAmount = conv.ConvertedAmount.String()
		resp.FormattedConverted = fx.FormatAmount(conv.ConvertedAmount, to)
	}

	RespondSuccess(w, http.StatusOK, resp)
}

// preview converts amount the same way a transfer would, without touching
// any account.
func (h *FXHandler) preview(ctx context.Context, raw string, from, to domain.Currency) (*fx.Conversion, error) {
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, fmt.Errorf("preview: %q: %w", raw, domain.ErrInvalidAmount)
	}
	conv, err := h.fx.Convert(ctx, amount, from, to)
	if err != nil {
		return nil, fmt.Errorf("preview: %w", err)
	}
	return conv, nil
}

func (h *FXHandler) Currencies(w http.ResponseWriter, r *http.Request) {
	codes := h.fx.Currencies()
	out := make([]map[string]string, len(codes))
	for i, c := range codes {
		out[i] = map[string]string{"code": string(c), "symbol": fx.Symbol(c)}
	}
	RespondSuccess(w, http.StatusOK, out)
}

func validateFXRateParams(from, to domain.Currency) []FieldError {
	var errs []FieldError

	if from == "" {
		errs = append(errs, FieldError{Field: "from", Message: "required"})
	} else if !from.IsValid() {
		errs = append(errs, FieldError{Field: "from", Message: "must be a three-letter currency code"})
	}

	if to == "" {
		errs = append(errs, FieldError{Field: "to", Message: "required"})
	} else if !to.IsValid() {
		errs = append(errs, FieldError{Field: "to", Message: "must be a three-letter currency code"})
	}

	return errs
}
