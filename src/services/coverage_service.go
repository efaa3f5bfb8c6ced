package services

import (
	"log/slog"
	"slices"
	"time"

	"github.com/livefire2015/ez-rentroll/src/models"
	"github.com/shopspring/decimal"
)

// CoverageService works out which months of rent or levy a property's leases left unpaid
type CoverageService struct {
	logger *slog.Logger
	now    func() time.Time
}

// NewCoverageService creates a new coverage service
// now is only consulted when a request does not carry an explicit AsOf period.
func NewCoverageService(logger *slog.Logger, now func() time.Time) *CoverageService {
	if now == nil {
		now = time.Now
	}
	return &CoverageService{
		logger: loggerOrDiscard(logger),
		now:    now,
	}
}

// ResolveRequest contains the snapshot needed to resolve one property's arrears
type ResolveRequest struct {
	Property  *models.PropertyRecord
	Leases    []models.LeaseRecord
	Payments  []models.PaymentRecord
	Liability models.LiabilityType

	// Months before Cutover are never owed
	Cutover *models.CalendarPeriod

	// Inclusive upper bound; nil means the current month
	AsOf *models.CalendarPeriod

	// Limits the result to one tenant's leases when set
	TenantID string
}

// PaidPeriods indexes the months covered by completed payments of the given liability, keyed by property id
func (s *CoverageService) PaidPeriods(payments []models.PaymentRecord, liability models.LiabilityType) map[string]map[models.CalendarPeriod]struct{} {
	index := make(map[string]map[models.CalendarPeriod]struct{})
	for i := range payments {
		p := &payments[i]
		if !p.IsCompleted() || !countsToward(p.PaymentType, liability) {
			continue
		}

		covered := p.CoveredPeriods()
		if len(covered) == 0 {
			s.logger.Debug("payment has no usable period", slog.String("payment_id", p.ID))
			continue
		}

		months, ok := index[p.PropertyID]
		if !ok {
			months = make(map[models.CalendarPeriod]struct{})
			index[p.PropertyID] = months
		}
		for _, period := range covered {
			months[period] = struct{}{}
		}
	}
	return index
}

// countsToward reports whether a payment type settles the given liability
func countsToward(pType models.PaymentType, liability models.LiabilityType) bool {
	switch liability {
	case models.LiabilityRental:
		return pType != models.PaymentTypeLevy &&
			pType != models.PaymentTypeMunicipal &&
			pType != models.PaymentTypeSale
	case models.LiabilityLevy:
		return pType == models.PaymentTypeLevy
	}
	return false
}

// ResolveMissingPeriods returns the unpaid months of the request's property
// The second value is false when the property has no priced monthly liability; such properties are
// excluded from arrears rather than reported as owing nothing.
func (s *CoverageService) ResolveMissingPeriods(req ResolveRequest) (models.ArrearsResult, bool) {
	if req.Property == nil {
		return models.ArrearsResult{}, false
	}
	monthly, ok := req.Property.MonthlyLiability(req.Liability)
	if !ok {
		return models.ArrearsResult{}, false
	}

	asOf := models.PeriodOf(s.now())
	if req.AsOf != nil {
		asOf = *req.AsOf
	}

	paid := s.PaidPeriods(req.Payments, req.Liability)[req.Property.ID]

	missingByTenant := make(map[string][]models.CalendarPeriod)
	distinct := make(map[models.CalendarPeriod]struct{})

	for i := range req.Leases {
		lease := &req.Leases[i]
		if lease.PropertyID != req.Property.ID {
			continue
		}
		if req.TenantID != "" && lease.TenantID != req.TenantID {
			continue
		}
		if !lease.HasValidStart() {
			s.logger.Debug("skipping lease with unparseable start", slog.String("lease_id", lease.ID))
			continue
		}

		start, end := lease.Window(asOf)
		if req.Cutover != nil {
			start = models.MaxPeriod(start, *req.Cutover)
		}
		if !start.Valid() || !end.Valid() || start.After(end) {
			continue
		}

		for cur := start; !cur.After(end); cur = cur.Next() {
			if _, ok := paid[cur]; ok {
				continue
			}
			if !slices.Contains(missingByTenant[lease.TenantID], cur) {
				missingByTenant[lease.TenantID] = append(missingByTenant[lease.TenantID], cur)
			}
			distinct[cur] = struct{}{}
		}
	}

	missing := make([]models.CalendarPeriod, 0, len(distinct))
	for period := range distinct {
		missing = append(missing, period)
	}
	slices.SortFunc(missing, models.CalendarPeriod.Compare)
	for tenantID := range missingByTenant {
		slices.SortFunc(missingByTenant[tenantID], models.CalendarPeriod.Compare)
	}

	return models.ArrearsResult{
		PropertyID:       req.Property.ID,
		Liability:        req.Liability,
		AsOf:             asOf,
		MonthlyLiability: monthly,
		MissingByTenant:  missingByTenant,
		MissingPeriods:   missing,
		MissingCount:     len(missing),
		OwedAmount:       monthly.Mul(decimal.NewFromInt(int64(len(missing)))),
	}, true
}
