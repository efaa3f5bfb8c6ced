package models

import "github.com/shopspring/decimal"

// ArrearsResult describes the unpaid months of one property for one liability type
type ArrearsResult struct {
	PropertyID       string          `json:"property_id"`
	Liability        LiabilityType   `json:"liability"`
	AsOf             CalendarPeriod  `json:"as_of"`
	MonthlyLiability decimal.Decimal `json:"monthly_liability"`

	// Months each tenant's lease left unpaid, keyed by tenant id
	MissingByTenant map[string][]CalendarPeriod `json:"missing_by_tenant"`

	// Distinct missing months across all leases of the property, oldest first
	MissingPeriods []CalendarPeriod `json:"missing_periods"`
	MissingCount   int              `json:"missing_count"`
	OwedAmount     decimal.Decimal  `json:"owed_amount"`
}

// HasArrears returns true if at least one month is unpaid
func (r *ArrearsResult) HasArrears() bool {
	return r.MissingCount > 0
}

// OldestMissing returns the earliest unpaid month
func (r *ArrearsResult) OldestMissing() (CalendarPeriod, bool) {
	if len(r.MissingPeriods) == 0 {
		return CalendarPeriod{}, false
	}
	return r.MissingPeriods[0], true
}
