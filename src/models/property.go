package models

import "github.com/shopspring/decimal"

// LiabilityType is the kind of monthly charge arrears are tracked for
type LiabilityType string

const (
	LiabilityRental LiabilityType = "rental"
	LiabilityLevy   LiabilityType = "levy"
)

// Valid reports whether the liability type is known
func (t LiabilityType) Valid() bool {
	return t == LiabilityRental || t == LiabilityLevy
}

// LevyOrMunicipalType distinguishes body-corporate levies from municipal charges
type LevyOrMunicipalType string

const (
	ChargeTypeLevy      LevyOrMunicipalType = "levy"
	ChargeTypeMunicipal LevyOrMunicipalType = "municipal"
)

// PropertyRecord holds the monthly liabilities and commission rate of a managed property
type PropertyRecord struct {
	ID                    string              `json:"id" db:"id" validate:"required"`
	Name                  string              `json:"name" db:"name"`
	Rent                  decimal.Decimal     `json:"rent" db:"rent"`
	LevyOrMunicipalType   LevyOrMunicipalType `json:"levy_or_municipal_type,omitempty" db:"levy_or_municipal_type" validate:"omitempty,oneof=levy municipal"`
	LevyOrMunicipalAmount decimal.Decimal     `json:"levy_or_municipal_amount" db:"levy_or_municipal_amount"`
	Commission            decimal.Decimal     `json:"commission" db:"commission"` // percent, e.g. 10 for 10%
}

// MonthlyLiability returns the monthly amount owed for the liability type
// The second value is false when the property has no positive amount priced for it
func (p *PropertyRecord) MonthlyLiability(kind LiabilityType) (decimal.Decimal, bool) {
	var amount decimal.Decimal
	switch kind {
	case LiabilityRental:
		amount = p.Rent
	case LiabilityLevy:
		if p.LevyOrMunicipalType != ChargeTypeLevy {
			return decimal.Zero, false
		}
		amount = p.LevyOrMunicipalAmount
	default:
		return decimal.Zero, false
	}

	if amount.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, false
	}
	return amount, true
}
