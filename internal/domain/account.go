package domain

import "github.com/shopspring/decimal"

type Account struct {
	ID       string
	Name     string
	Currency Currency
	Balance  decimal.Decimal
}
