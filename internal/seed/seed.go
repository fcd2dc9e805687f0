// Package seed loads the static startup data: the rate table, the accounts
// and any historical transactions. The default set is compiled in.
package seed

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"github.com/josh-kwaku/treasury-ledger/internal/domain"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultSeed []byte

type Data struct {
	Rates        map[domain.Currency]decimal.Decimal
	Accounts     []domain.Account
	Transactions []domain.Transaction
}

type document struct {
	Rates        map[string]string `yaml:"rates"`
	Accounts     []accountDoc      `yaml:"accounts"`
	Transactions []transactionDoc  `yaml:"transactions"`
}

type accountDoc struct {
	ID       string `yaml:"id"`
	Name     string `yaml:"name"`
	Currency string `yaml:"currency"`
	Balance  string `yaml:"balance"`
}

type transactionDoc struct {
	ID              string    `yaml:"id"`
	FromAccount     string    `yaml:"from_account"`
	ToAccount       string    `yaml:"to_account"`
	FromCurrency    string    `yaml:"from_currency"`
	ToCurrency      string    `yaml:"to_currency"`
	OriginalAmount  string    `yaml:"original_amount"`
	ConvertedAmount string    `yaml:"converted_amount"`
	FXRate          string    `yaml:"fx_rate"`
	Note            string    `yaml:"note"`
	Timestamp       time.Time `yaml:"timestamp"`
	Status          string    `yaml:"status"`
}

func Default() (*Data, error) {
	d, err := Parse(defaultSeed)
	if err != nil {
		return nil, fmt.Errorf("Default: %w", err)
	}
	return d, nil
}

// Load reads path, or falls back to the embedded set when path is empty.
func Load(path string) (*Data, error) {
	if path == "" {
		return Default()
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("Load: %w", err)
	}
	d, err := Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("Load: %s: %w", path, err)
	}
	return d, nil
}

func Parse(raw []byte) (*Data, error) {
	var doc document
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("Parse: %v: %w", err, domain.ErrInvalidSeed)
	}

	data := &Data{Rates: make(map[domain.Currency]decimal.Decimal, len(doc.Rates))}

	for code, v := range doc.Rates {
		rate, err := parseDecimal("rate "+code, v)
		if err != nil {
			return nil, fmt.Errorf("Parse: %w", err)
		}
		data.Rates[domain.ParseCurrency(code)] = rate
	}

	for _, a := range doc.Accounts {
		balance, err := parseDecimal("account "+a.ID+" balance", a.Balance)
		if err != nil {
			return nil, fmt.Errorf("Parse: %w", err)
		}
		currency := domain.ParseCurrency(a.Currency)
		if _, ok := data.Rates[currency]; !ok {
			return nil, fmt.Errorf("Parse: account %s currency %q: %w", a.ID, a.Currency, domain.ErrUnknownCurrency)
		}
		data.Accounts = append(data.Accounts, domain.Account{
			ID:       a.ID,
			Name:     a.Name,
			Currency: currency,
			Balance:  balance,
		})
	}

	for _, t := range doc.Transactions {
		txn, err := t.toDomain()
		if err != nil {
			return nil, fmt.Errorf("Parse: transaction %s: %w", t.ID, err)
		}
		data.Transactions = append(data.Transactions, txn)
	}

	return data, nil
}

func (t transactionDoc) toDomain() (domain.Transaction, error) {
	original, err := parseDecimal("original_amount", t.OriginalAmount)
	if err != nil {
		return domain.Transaction{}, err
	}
	converted, err := parseDecimal("converted_amount", t.ConvertedAmount)
	if err != nil {
		return domain.Transaction{}, err
	}
	rate, err := parseDecimal("fx_rate", t.FXRate)
	if err != nil {
		return domain.Transaction{}, err
	}

	status := domain.TransactionStatus(t.Status)
	if status == "" {
		status = domain.TransactionStatusCompleted
	}
	if !status.IsValid() {
		return domain.Transaction{}, fmt.Errorf("status %q: %w", t.Status, domain.ErrInvalidSeed)
	}

	return domain.Transaction{
		ID:              t.ID,
		FromAccountID:   t.FromAccount,
		ToAccountID:     t.ToAccount,
		FromCurrency:    domain.ParseCurrency(t.FromCurrency),
		ToCurrency:      domain.ParseCurrency(t.ToCurrency),
		OriginalAmount:  original,
		ConvertedAmount: converted,
		FXRate:          rate,
		Note:            t.Note,
		Timestamp:       t.Timestamp,
		Status:          status,
	}, nil
}

func parseDecimal(field, v string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(v)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s %q: %w", field, v, domain.ErrInvalidSeed)
	}
	return d, nil
}
