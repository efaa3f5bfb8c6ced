package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentStatus represents the status of a payment
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"   // Captured, not yet confirmed
	PaymentStatusCompleted PaymentStatus = "completed" // Funds received, counts toward coverage
	PaymentStatusFailed    PaymentStatus = "failed"    // Declined or bounced
	PaymentStatusReversed  PaymentStatus = "reversed"  // Reversed after completion
	PaymentStatusVoided    PaymentStatus = "voided"    // Cancelled by an administrator
)

// paymentStatusSynonyms maps the spellings used by the different feeds onto one status
var paymentStatusSynonyms = map[string]PaymentStatus{
	"pending":    PaymentStatusPending,
	"processing": PaymentStatusPending,
	"completed":  PaymentStatusCompleted,
	"complete":   PaymentStatusCompleted,
	"success":    PaymentStatusCompleted,
	"successful": PaymentStatusCompleted,
	"paid":       PaymentStatusCompleted,
	"cleared":    PaymentStatusCompleted,
	"failed":     PaymentStatusFailed,
	"declined":   PaymentStatusFailed,
	"reversed":   PaymentStatusReversed,
	"refunded":   PaymentStatusReversed,
	"voided":     PaymentStatusVoided,
	"void":       PaymentStatusVoided,
	"cancelled":  PaymentStatusVoided,
	"canceled":   PaymentStatusVoided,
}

// NormalizePaymentStatus maps a raw feed status onto a PaymentStatus
// Unknown values normalize to pending so they never count as paid
func NormalizePaymentStatus(raw string) PaymentStatus {
	if status, ok := paymentStatusSynonyms[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return status
	}
	return PaymentStatusPending
}

// PaymentType represents what a payment was made for
type PaymentType string

const (
	PaymentTypeRental       PaymentType = "rental"
	PaymentTypeLevy         PaymentType = "levy"
	PaymentTypeMunicipal    PaymentType = "municipal"
	PaymentTypeSale         PaymentType = "sale"
	PaymentTypeIntroduction PaymentType = "introduction"
)

// NormalizePaymentType maps a raw feed payment type onto a PaymentType, defaulting to rental
func NormalizePaymentType(raw string) PaymentType {
	switch PaymentType(strings.ToLower(strings.TrimSpace(raw))) {
	case PaymentTypeLevy:
		return PaymentTypeLevy
	case PaymentTypeMunicipal:
		return PaymentTypeMunicipal
	case PaymentTypeSale:
		return PaymentTypeSale
	case PaymentTypeIntroduction:
		return PaymentTypeIntroduction
	default:
		return PaymentTypeRental
	}
}

// PaymentRecord is the normalized view of a payment used by the arrears and commission calculations
type PaymentRecord struct {
	ID         string `json:"id" db:"id"`
	PropertyID string `json:"property_id" db:"property_id" validate:"required"`
	TenantID   string `json:"tenant_id,omitempty" db:"tenant_id"`

	Amount      decimal.Decimal `json:"amount" db:"amount"`
	PaymentType PaymentType     `json:"payment_type" db:"payment_type" validate:"oneof=rental levy municipal sale introduction"`
	Status      PaymentStatus   `json:"status" db:"status" validate:"oneof=pending completed failed reversed voided"`

	// Single-period payments
	RentalPeriodMonth int `json:"rental_period_month,omitempty" db:"rental_period_month" validate:"min=0,max=12"`
	RentalPeriodYear  int `json:"rental_period_year,omitempty" db:"rental_period_year" validate:"min=0"`

	// Multi-month advance payments
	AdvanceMonthsPaid  int             `json:"advance_months_paid" db:"advance_months_paid" validate:"min=1"`
	AdvancePeriodStart *CalendarPeriod `json:"advance_period_start,omitempty" db:"advance_period_start"`
	AdvancePeriodEnd   *CalendarPeriod `json:"advance_period_end,omitempty" db:"advance_period_end"`

	// Copied from the linked property by the feed adapter
	CommissionPercent decimal.Decimal `json:"commission_percent" db:"commission_percent"`

	TransactionDate time.Time `json:"transaction_date" db:"transaction_date"`
}

// IsCompleted returns true if the payment counts toward coverage
func (p *PaymentRecord) IsCompleted() bool {
	return p.Status == PaymentStatusCompleted
}

// IsAdvance returns true if the payment covers more than one month and carries both range bounds
func (p *PaymentRecord) IsAdvance() bool {
	return p.AdvanceMonthsPaid > 1 && p.AdvancePeriodStart != nil && p.AdvancePeriodEnd != nil
}

// SinglePeriod returns the month a non-advance payment was recorded against
// The rental period fields win; otherwise the transaction month is used
func (p *PaymentRecord) SinglePeriod() (CalendarPeriod, bool) {
	period := CalendarPeriod{Month: p.RentalPeriodMonth, Year: p.RentalPeriodYear}
	if period.Valid() {
		return period, true
	}
	if p.TransactionDate.IsZero() {
		return CalendarPeriod{}, false
	}
	return PeriodOf(p.TransactionDate), true
}

// CoveredPeriods returns every month the payment pays for
func (p *PaymentRecord) CoveredPeriods() []CalendarPeriod {
	if p.IsAdvance() {
		return MonthsInRange(*p.AdvancePeriodStart, *p.AdvancePeriodEnd, MaxPeriodWalk)
	}
	if period, ok := p.SinglePeriod(); ok {
		return []CalendarPeriod{period}
	}
	return nil
}

// PaymentBuilder helps construct payment records
type PaymentBuilder struct {
	payment *PaymentRecord
}

// NewPaymentBuilder creates a builder for a completed single-month rental payment
func NewPaymentBuilder() *PaymentBuilder {
	return &PaymentBuilder{
		payment: &PaymentRecord{
			ID:                uuid.NewString(),
			PaymentType:       PaymentTypeRental,
			Status:            PaymentStatusCompleted,
			AdvanceMonthsPaid: 1,
			TransactionDate:   time.Now(),
		},
	}
}

// WithProperty sets the property and tenant
func (b *PaymentBuilder) WithProperty(propertyID, tenantID string) *PaymentBuilder {
	b.payment.PropertyID = propertyID
	b.payment.TenantID = tenantID
	return b
}

// WithAmount sets the payment amount
func (b *PaymentBuilder) WithAmount(amount decimal.Decimal) *PaymentBuilder {
	b.payment.Amount = amount
	return b
}

// WithType sets the payment type
func (b *PaymentBuilder) WithType(pType PaymentType) *PaymentBuilder {
	b.payment.PaymentType = pType
	return b
}

// WithStatus sets the payment status
func (b *PaymentBuilder) WithStatus(status PaymentStatus) *PaymentBuilder {
	b.payment.Status = status
	return b
}

// ForPeriod records the payment against a single month
func (b *PaymentBuilder) ForPeriod(month, year int) *PaymentBuilder {
	b.payment.RentalPeriodMonth = month
	b.payment.RentalPeriodYear = year
	return b
}

// InAdvance records the payment against months consecutive months starting at start
func (b *PaymentBuilder) InAdvance(start CalendarPeriod, months int) *PaymentBuilder {
	if months < 1 {
		months = 1
	}
	end := start.AddMonths(months - 1)
	b.payment.RentalPeriodMonth = start.Month
	b.payment.RentalPeriodYear = start.Year
	b.payment.AdvanceMonthsPaid = months
	if months > 1 {
		b.payment.AdvancePeriodStart = &start
		b.payment.AdvancePeriodEnd = &end
	}
	return b
}

// WithCommission sets the commission percentage
func (b *PaymentBuilder) WithCommission(percent decimal.Decimal) *PaymentBuilder {
	b.payment.CommissionPercent = percent
	return b
}

// OnDate sets the transaction date
func (b *PaymentBuilder) OnDate(date time.Time) *PaymentBuilder {
	b.payment.TransactionDate = date
	return b
}

// Build creates the payment
func (b *PaymentBuilder) Build() *PaymentRecord {
	return b.payment
}
