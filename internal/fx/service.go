package fx

import (
	"context"
	"fmt"
	"sort"

	"github.com/josh-kwaku/treasury-ledger/internal/domain"
	"github.com/shopspring/decimal"
)

const (
	amountPlaces = 2
	ratePlaces   = 4
)

var one = decimal.NewFromInt(1)

type Quote struct {
	FromCurrency domain.Currency
	ToCurrency   domain.Currency
	Rate         decimal.Decimal
	RawRate      decimal.Decimal
}

type Conversion struct {
	SourceAmount    decimal.Decimal
	ConvertedAmount decimal.Decimal
	FXRate          decimal.Decimal
}

// RateService converts through a static table. Each rate is the number of
// units of that currency worth one unit of the reference currency.
type RateService struct {
	rates map[domain.Currency]decimal.Decimal
}

func NewRateService(rates map[domain.Currency]decimal.Decimal) (*RateService, error) {
	if len(rates) == 0 {
		return nil, fmt.Errorf("NewRateService: empty rate table: %w", domain.ErrInvalidSeed)
	}

	table := make(map[domain.Currency]decimal.Decimal, len(rates))
	for c, r := range rates {
		if !c.IsValid() {
			return nil, fmt.Errorf("NewRateService: currency %q: %w", c, domain.ErrInvalidSeed)
		}
		if !r.IsPositive() {
			return nil, fmt.Errorf("NewRateService: rate for %s must be positive: %w", c, domain.ErrInvalidSeed)
		}
		table[c] = r
	}
	return &RateService{rates: table}, nil
}

func (s *RateService) Currencies() []domain.Currency {
	out := make([]domain.Currency, 0, len(s.rates))
	for c := range s.rates {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (s *RateService) lookup(from, to domain.Currency) (decimal.Decimal, decimal.Decimal, error) {
	fromRate, ok := s.rates[from]
	if !ok {
		return decimal.Zero, decimal.Zero, fmt.Errorf("lookup: %s: %w", from, domain.ErrUnknownCurrency)
	}
	toRate, ok := s.rates[to]
	if !ok {
		return decimal.Zero, decimal.Zero, fmt.Errorf("lookup: %s: %w", to, domain.ErrUnknownCurrency)
	}
	return fromRate, toRate, nil
}

func (s *RateService) GetRate(_ context.Context, from, to domain.Currency) (*Quote, error) {
	fromRate, toRate, err := s.lookup(from, to)
	if err != nil {
		return nil, fmt.Errorf("GetRate: %w", err)
	}

	if from == to {
		return &Quote{FromCurrency: from, ToCurrency: to, Rate: one, RawRate: one}, nil
	}

	raw := toRate.Div(fromRate)
	return &Quote{
		FromCurrency: from,
		ToCurrency:   to,
		Rate:         raw.Round(ratePlaces),
		RawRate:      raw,
	}, nil
}

// Convert rounds half away from zero. The converted amount is derived from the
// unrounded rates; only the reported FXRate is cut to four places.
func (s *RateService) Convert(_ context.Context, amount decimal.Decimal, from, to domain.Currency) (*Conversion, error) {
	if !amount.IsPositive() {
		return nil, fmt.Errorf("Convert: %w", domain.ErrInvalidAmount)
	}

	fromRate, toRate, err := s.lookup(from, to)
	if err != nil {
		return nil, fmt.Errorf("Convert: %w", err)
	}

	if from == to {
		return &Conversion{
			SourceAmount:    amount,
			ConvertedAmount: amount,
			FXRate:          one,
		}, nil
	}

	inReference := amount.Div(fromRate)
	converted := inReference.Mul(toRate).Round(amountPlaces)

	return &Conversion{
		SourceAmount:    amount,
		ConvertedAmount: converted,
		FXRate:          toRate.Div(fromRate).Round(ratePlaces),
	}, nil
}
