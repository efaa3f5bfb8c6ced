package models

import "time"

// LeaseRecord defines the span of months a tenant is liable for a property's rent and levy
type LeaseRecord struct {
	ID         string     `json:"id" db:"id"`
	PropertyID string     `json:"property_id" db:"property_id" validate:"required"`
	TenantID   string     `json:"tenant_id" db:"tenant_id"`
	StartDate  time.Time  `json:"start_date" db:"start_date"`
	EndDate    *time.Time `json:"end_date,omitempty" db:"end_date"` // nil while the lease is ongoing
}

// IsOpenEnded returns true if the lease has no end date
func (l *LeaseRecord) IsOpenEnded() bool {
	return l.EndDate == nil || l.EndDate.IsZero()
}

// HasValidStart returns true if the start date parsed to a real date
func (l *LeaseRecord) HasValidStart() bool {
	return !l.StartDate.IsZero()
}

// Window returns the months the lease is liable for, capped at asOf
// Open-ended leases run through asOf. The end month is inclusive.
func (l *LeaseRecord) Window(asOf CalendarPeriod) (start, end CalendarPeriod) {
	start = PeriodOf(l.StartDate)
	end = asOf
	if !l.IsOpenEnded() {
		end = MinPeriod(PeriodOf(*l.EndDate), asOf)
	}
	return start, end
}
