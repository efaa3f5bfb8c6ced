package models

import "github.com/shopspring/decimal"

// CompanyConfig holds company-wide receivables settings
type CompanyConfig struct {
	ID string `json:"id" db:"id"`

	// First period arrears are tracked from; nil tracks from each lease start
	ReceivablesCutover *CalendarPeriod `json:"receivables_cutover,omitempty" db:"receivables_cutover"`

	// Carried-forward arrears from before systematic tracking, added once per company
	RentReceivableOpeningBalance decimal.Decimal `json:"rent_receivable_opening_balance" db:"rent_receivable_opening_balance"`
	LevyReceivableOpeningBalance decimal.Decimal `json:"levy_receivable_opening_balance" db:"levy_receivable_opening_balance"`
}

// OpeningBalance returns the carried-forward balance for the liability type
func (c *CompanyConfig) OpeningBalance(kind LiabilityType) decimal.Decimal {
	if c == nil {
		return decimal.Zero
	}
	switch kind {
	case LiabilityRental:
		return c.RentReceivableOpeningBalance
	case LiabilityLevy:
		return c.LevyReceivableOpeningBalance
	}
	return decimal.Zero
}
