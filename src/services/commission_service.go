package services

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/livefire2015/ez-rentroll/src/models"
	"github.com/shopspring/decimal"
)

var (
	ErrNegativeAmount        = errors.New("payment amount cannot be negative")
	ErrInvalidCommissionRate = errors.New("commission percent must be between 0 and 100")
	ErrInvalidStartMonth     = errors.New("advance start month must be between 1 and 12")
	ErrUnpricedLiability     = errors.New("property has no monthly amount for this liability")
)

var hundred = decimal.NewFromInt(100)

// ComputeCommission splits a payment amount into commission, PREA fee, agent and agency shares and the
// owner's remainder. Results are not rounded; rounding belongs to presentation.
func ComputeCommission(amount, commissionPercent decimal.Decimal) models.CommissionBreakdown {
	totalCommission := amount.Mul(commissionPercent).Div(hundred)
	preaFee := totalCommission.Mul(models.PREAFeeRate)
	afterFee := totalCommission.Sub(preaFee)

	return models.CommissionBreakdown{
		TotalCommission: totalCommission,
		PREAFee:         preaFee,
		AgentShare:      afterFee.Mul(models.AgentShareRate),
		AgencyShare:     afterFee.Mul(models.AgencyShareRate),
		OwnerAmount:     amount.Sub(totalCommission),
	}
}

// ComputeAdvanceEnd returns the last month covered by monthsCount consecutive months starting at
// startMonth/startYear. monthsCount below 1 is treated as 1.
func ComputeAdvanceEnd(startMonth, startYear, monthsCount int) models.CalendarPeriod {
	if monthsCount < 1 {
		monthsCount = 1
	}
	offset := startMonth - 1 + monthsCount - 1
	return models.CalendarPeriod{
		Month: offset%12 + 1,
		Year:  startYear + offset/12,
	}
}

// ComputeAdvanceTotal returns the amount due for monthsCount months
func ComputeAdvanceTotal(monthlyAmount decimal.Decimal, monthsCount int) decimal.Decimal {
	return monthlyAmount.Mul(decimal.NewFromInt(int64(monthsCount)))
}

// CommissionService applies the commission split to payment records
type CommissionService struct {
	logger *slog.Logger
}

// NewCommissionService creates a new commission service
func NewCommissionService(logger *slog.Logger) *CommissionService {
	return &CommissionService{logger: loggerOrDiscard(logger)}
}

// SplitRequest contains parameters for splitting a single payment
type SplitRequest struct {
	Payment         *models.PaymentRecord
	Property        *models.PropertyRecord
	OverridePercent *decimal.Decimal
}

// SplitResult contains the breakdown of a payment and the rate that produced it
type SplitResult struct {
	PaymentID         string                     `json:"payment_id"`
	PropertyID        string                     `json:"property_id"`
	Amount            decimal.Decimal            `json:"amount"`
	CommissionPercent decimal.Decimal            `json:"commission_percent"`
	Breakdown         models.CommissionBreakdown `json:"breakdown"`
}

// SplitPayment computes the commission breakdown of a payment
// The rate is the override if given, then the payment's own rate, then the property's commission.
func (s *CommissionService) SplitPayment(req SplitRequest) (*SplitResult, error) {
	if req.Payment == nil {
		return nil, errors.New("payment is required")
	}
	if req.Payment.Amount.IsNegative() {
		return nil, ErrNegativeAmount
	}

	percent := resolveCommissionPercent(req)
	if percent.IsNegative() || percent.GreaterThan(hundred) {
		return nil, fmt.Errorf("%w: got %s", ErrInvalidCommissionRate, percent)
	}

	breakdown := ComputeCommission(req.Payment.Amount, percent)
	s.logger.Debug("payment split",
		slog.String("payment_id", req.Payment.ID),
		slog.String("commission_percent", percent.String()),
		slog.String("total_commission", breakdown.TotalCommission.String()),
	)

	return &SplitResult{
		PaymentID:         req.Payment.ID,
		PropertyID:        req.Payment.PropertyID,
		Amount:            req.Payment.Amount,
		CommissionPercent: percent,
		Breakdown:         breakdown,
	}, nil
}

func resolveCommissionPercent(req SplitRequest) decimal.Decimal {
	if req.OverridePercent != nil {
		return *req.OverridePercent
	}
	if !req.Payment.CommissionPercent.IsZero() {
		return req.Payment.CommissionPercent
	}
	if req.Property != nil {
		return req.Property.Commission
	}
	return decimal.Zero
}

// AdvanceRequest contains parameters for planning a multi-month payment
type AdvanceRequest struct {
	Property    *models.PropertyRecord
	Liability   models.LiabilityType
	StartMonth  int
	StartYear   int
	MonthsCount int
}

// AdvancePlan is the pre-filled amount and coverage of an advance payment
type AdvancePlan struct {
	MonthlyAmount decimal.Decimal       `json:"monthly_amount"`
	MonthsCount   int                   `json:"months_count"`
	Start         models.CalendarPeriod `json:"start"`
	End           models.CalendarPeriod `json:"end"`
	Total         decimal.Decimal       `json:"total"`
}

// PlanAdvance computes the total and end period of an advance payment for a property
func (s *CommissionService) PlanAdvance(req AdvanceRequest) (*AdvancePlan, error) {
	if req.StartMonth < 1 || req.StartMonth > 12 {
		return nil, ErrInvalidStartMonth
	}
	if req.Property == nil {
		return nil, errors.New("property is required")
	}

	monthly, ok := req.Property.MonthlyLiability(req.Liability)
	if !ok {
		return nil, fmt.Errorf("%w: property %s, %s", ErrUnpricedLiability, req.Property.ID, req.Liability)
	}

	months := max(1, req.MonthsCount)
	return &AdvancePlan{
		MonthlyAmount: monthly,
		MonthsCount:   months,
		Start:         models.NewCalendarPeriod(req.StartMonth, req.StartYear),
		End:           ComputeAdvanceEnd(req.StartMonth, req.StartYear, months),
		Total:         ComputeAdvanceTotal(monthly, months),
	}, nil
}
