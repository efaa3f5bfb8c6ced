package services

import (
	"errors"
	"fmt"

	"github.com/livefire2015/ez-rentroll/src/models"
	"github.com/shopspring/decimal"
)

var ErrAdvanceAmountMismatch = errors.New("advance payment amount does not match months paid")

// ExceedsBalanceError is returned when a payment is larger than what is still owed for a month
type ExceedsBalanceError struct {
	Period    models.CalendarPeriod
	Remaining decimal.Decimal
	Attempted decimal.Decimal
}

func (e *ExceedsBalanceError) Error() string {
	return fmt.Sprintf("only %s remains for %s, cannot accept %s",
		e.Remaining.StringFixed(2), e.Period, e.Attempted.StringFixed(2))
}

// BalanceService checks single-month balances before a payment is accepted
type BalanceService struct{}

// NewBalanceService creates a new balance service
func NewBalanceService() *BalanceService {
	return &BalanceService{}
}

// BalanceQuery identifies one month of one tenant's liability on a property
type BalanceQuery struct {
	PropertyID       string
	TenantID         string
	Liability        models.LiabilityType
	Period           models.CalendarPeriod
	MonthlyLiability decimal.Decimal
	Payments         []models.PaymentRecord
}

// PaidForPeriod sums completed payments recorded against exactly the queried month
// Advance payments count only against the period in their own rental period fields.
func (s *BalanceService) PaidForPeriod(q BalanceQuery) decimal.Decimal {
	total := decimal.Zero
	for i := range q.Payments {
		p := &q.Payments[i]
		if !p.IsCompleted() || !countsToward(p.PaymentType, q.Liability) {
			continue
		}
		if p.PropertyID != q.PropertyID || p.TenantID != q.TenantID {
			continue
		}
		if period, ok := p.SinglePeriod(); ok && period == q.Period {
			total = total.Add(p.Amount)
		}
	}
	return total
}

// RemainingForPeriod returns what is still owed for the queried month, never below zero
func (s *BalanceService) RemainingForPeriod(q BalanceQuery) decimal.Decimal {
	remaining := q.MonthlyLiability.Sub(s.PaidForPeriod(q))
	if remaining.IsNegative() {
		return decimal.Zero
	}
	return remaining
}

// ValidatePeriodPayment rejects an amount that exceeds the month's remaining balance
func (s *BalanceService) ValidatePeriodPayment(q BalanceQuery, amount decimal.Decimal) error {
	if amount.IsNegative() {
		return ErrNegativeAmount
	}
	remaining := s.RemainingForPeriod(q)
	if amount.GreaterThan(remaining) {
		return &ExceedsBalanceError{Period: q.Period, Remaining: remaining, Attempted: amount}
	}
	return nil
}

// ValidateAdvanceAmount checks a submitted advance amount against monthly × months
func (s *BalanceService) ValidateAdvanceAmount(amount, monthly decimal.Decimal, months int) error {
	expected := ComputeAdvanceTotal(monthly, max(1, months))
	if !amount.Equal(expected) {
		return fmt.Errorf("%w: expected %s for %d months, got %s",
			ErrAdvanceAmountMismatch, expected.StringFixed(2), max(1, months), amount.StringFixed(2))
	}
	return nil
}
