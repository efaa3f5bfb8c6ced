package services

import (
	"log/slog"

	"github.com/livefire2015/ez-rentroll/src/models"
	"github.com/shopspring/decimal"
)

// RevenueService aggregates collected payments and agency expenses over a range of months
type RevenueService struct {
	logger *slog.Logger
}

// NewRevenueService creates a new revenue service
func NewRevenueService(logger *slog.Logger) *RevenueService {
	return &RevenueService{logger: loggerOrDiscard(logger)}
}

// RevenueRequest contains the records and month range to summarize
type RevenueRequest struct {
	Payments   []models.PaymentRecord
	Properties []models.PropertyRecord
	Expenses   []models.ExpenseRecord
	From       models.CalendarPeriod
	To         models.CalendarPeriod
}

// RevenueSummary is the running revenue position for a range of months
type RevenueSummary struct {
	From           models.CalendarPeriod                  `json:"from"`
	To             models.CalendarPeriod                  `json:"to"`
	PaymentCount   int                                    `json:"payment_count"`
	GrossByType    map[models.PaymentType]decimal.Decimal `json:"gross_by_type"`
	GrossTotal     decimal.Decimal                        `json:"gross_total"`
	Commission     models.CommissionBreakdown             `json:"commission"`
	ExpenseTotal   decimal.Decimal                        `json:"expense_total"`
	AgencyNet      decimal.Decimal                        `json:"agency_net"` // agency share less expenses
	SkippedRecords int                                    `json:"skipped_records"`
}

// Summarize totals completed payments and expenses whose month falls in [From, To]
// Every commission figure is derived through ComputeCommission.
func (s *RevenueService) Summarize(req RevenueRequest) RevenueSummary {
	summary := RevenueSummary{
		From:         req.From,
		To:           req.To,
		GrossByType:  make(map[models.PaymentType]decimal.Decimal),
		GrossTotal:   decimal.Zero,
		ExpenseTotal: decimal.Zero,
		Commission: models.CommissionBreakdown{
			TotalCommission: decimal.Zero,
			PREAFee:         decimal.Zero,
			AgentShare:      decimal.Zero,
			AgencyShare:     decimal.Zero,
			OwnerAmount:     decimal.Zero,
		},
	}

	commissionByProperty := make(map[string]decimal.Decimal, len(req.Properties))
	for i := range req.Properties {
		commissionByProperty[req.Properties[i].ID] = req.Properties[i].Commission
	}

	for i := range req.Payments {
		p := &req.Payments[i]
		if !p.IsCompleted() {
			continue
		}
		if p.TransactionDate.IsZero() || p.Amount.IsNegative() {
			summary.SkippedRecords++
			continue
		}
		if !inRange(models.PeriodOf(p.TransactionDate), req.From, req.To) {
			continue
		}

		percent := p.CommissionPercent
		if percent.IsZero() {
			percent = commissionByProperty[p.PropertyID]
		}

		summary.PaymentCount++
		summary.GrossByType[p.PaymentType] = summary.GrossByType[p.PaymentType].Add(p.Amount)
		summary.GrossTotal = summary.GrossTotal.Add(p.Amount)
		summary.Commission = summary.Commission.Add(ComputeCommission(p.Amount, percent))
	}

	for i := range req.Expenses {
		e := &req.Expenses[i]
		if e.Date.IsZero() {
			summary.SkippedRecords++
			continue
		}
		if inRange(models.PeriodOf(e.Date), req.From, req.To) {
			summary.ExpenseTotal = summary.ExpenseTotal.Add(e.Amount)
		}
	}

	summary.AgencyNet = summary.Commission.AgencyShare.Sub(summary.ExpenseTotal)

	if summary.SkippedRecords > 0 {
		s.logger.Warn("revenue summary skipped records", slog.Int("count", summary.SkippedRecords))
	}
	return summary
}

func inRange(p, from, to models.CalendarPeriod) bool {
	return !p.Before(from) && !p.After(to)
}
