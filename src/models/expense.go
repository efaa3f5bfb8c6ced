package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExpenseRecord is an agency operating expense
type ExpenseRecord struct {
	ID       string          `json:"id" db:"id"`
	Category string          `json:"category" db:"category"`
	Amount   decimal.Decimal `json:"amount" db:"amount"`
	Date     time.Time       `json:"date" db:"date" validate:"required"`
}
