package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/livefire2015/ez-rentroll/src/models"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

const defaultConcurrency = 8

// Snapshot is one normalized read of the company's feeds
type Snapshot struct {
	Company      models.CompanyConfig
	Properties   []models.PropertyRecord
	Leases       []models.LeaseRecord
	Tenants      []models.TenantRecord
	Payments     []models.PaymentRecord // rental, municipal, sale and introduction payments
	LevyPayments []models.PaymentRecord
	Expenses     []models.ExpenseRecord
}

// PaymentsFor returns the payment feed that settles the liability type
func (s *Snapshot) PaymentsFor(liability models.LiabilityType) []models.PaymentRecord {
	if liability == models.LiabilityLevy {
		return s.LevyPayments
	}
	return s.Payments
}

// TenantNames maps tenant ids to display names
func (s *Snapshot) TenantNames() map[string]string {
	names := make(map[string]string, len(s.Tenants))
	for i := range s.Tenants {
		names[s.Tenants[i].ID] = s.Tenants[i].DisplayName()
	}
	return names
}

// PropertyArrears is one property's line on the arrears dashboard
type PropertyArrears struct {
	PropertyName string               `json:"property_name"`
	Arrears      models.ArrearsResult `json:"arrears"`
	TenantLines  []TenantArrears      `json:"tenant_lines"`
}

// TenantArrears lists the months one tenant left unpaid on a property
type TenantArrears struct {
	TenantID   string                  `json:"tenant_id"`
	TenantName string                  `json:"tenant_name"`
	Missing    []models.CalendarPeriod `json:"missing"`
}

// CompanyArrearsSummary aggregates arrears across every priced property
type CompanyArrearsSummary struct {
	Liability          models.LiabilityType  `json:"liability"`
	AsOf               models.CalendarPeriod `json:"as_of"`
	Properties         []PropertyArrears     `json:"properties"`
	SkippedProperties  []string              `json:"skipped_properties"`
	TotalMissingMonths int                   `json:"total_missing_months"`
	PropertyOwed       decimal.Decimal       `json:"property_owed"`
	OpeningBalance     decimal.Decimal       `json:"opening_balance"`
	TotalOwed          decimal.Decimal       `json:"total_owed"`
}

// DashboardService aggregates property arrears for the company dashboard
type DashboardService struct {
	coverage    *CoverageService
	logger      *slog.Logger
	concurrency int
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(coverage *CoverageService, logger *slog.Logger, concurrency int) *DashboardService {
	if concurrency < 1 {
		concurrency = defaultConcurrency
	}
	return &DashboardService{
		coverage:    coverage,
		logger:      loggerOrDiscard(logger),
		concurrency: concurrency,
	}
}

// CompanyArrears resolves the arrears of every property in the snapshot
// Properties without a priced liability are listed as skipped. The opening balance is added once.
func (s *DashboardService) CompanyArrears(
	ctx context.Context,
	snap *Snapshot,
	liability models.LiabilityType,
	asOf models.CalendarPeriod,
) (*CompanyArrearsSummary, error) {
	if snap == nil {
		return nil, errors.New("snapshot is required")
	}
	if !liability.Valid() {
		return nil, fmt.Errorf("unknown liability type %q", liability)
	}
	if !asOf.Valid() {
		return nil, fmt.Errorf("invalid as-of period %s", asOf)
	}

	payments := snap.PaymentsFor(liability)
	names := snap.TenantNames()

	var (
		mu      sync.Mutex
		lines   []PropertyArrears
		skipped []string
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for i := range snap.Properties {
		property := &snap.Properties[i]
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			result, ok := s.coverage.ResolveMissingPeriods(ResolveRequest{
				Property:  property,
				Leases:    snap.Leases,
				Payments:  payments,
				Liability: liability,
				Cutover:   snap.Company.ReceivablesCutover,
				AsOf:      &asOf,
			})

			mu.Lock()
			defer mu.Unlock()
			if !ok {
				skipped = append(skipped, property.ID)
				return nil
			}
			lines = append(lines, PropertyArrears{
				PropertyName: property.Name,
				Arrears:      result,
				TenantLines:  tenantLines(result, names),
			})
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to resolve company arrears: %w", err)
	}

	slices.SortFunc(lines, func(a, b PropertyArrears) int {
		return strings.Compare(a.Arrears.PropertyID, b.Arrears.PropertyID)
	})
	slices.Sort(skipped)

	summary := &CompanyArrearsSummary{
		Liability:         liability,
		AsOf:              asOf,
		Properties:        lines,
		SkippedProperties: skipped,
		PropertyOwed:      decimal.Zero,
		OpeningBalance:    snap.Company.OpeningBalance(liability),
	}
	for _, line := range lines {
		summary.TotalMissingMonths += line.Arrears.MissingCount
		summary.PropertyOwed = summary.PropertyOwed.Add(line.Arrears.OwedAmount)
	}
	summary.TotalOwed = summary.PropertyOwed.Add(summary.OpeningBalance)

	s.logger.Info("company arrears resolved",
		slog.String("liability", string(liability)),
		slog.String("as_of", asOf.String()),
		slog.Int("properties", len(lines)),
		slog.Int("skipped", len(skipped)),
		slog.String("total_owed", summary.TotalOwed.StringFixed(2)),
	)
	return summary, nil
}

func tenantLines(result models.ArrearsResult, names map[string]string) []TenantArrears {
	out := make([]TenantArrears, 0, len(result.MissingByTenant))
	for tenantID, missing := range result.MissingByTenant {
		name := names[tenantID]
		if name == "" {
			name = tenantID
		}
		out = append(out, TenantArrears{TenantID: tenantID, TenantName: name, Missing: missing})
	}
	slices.SortFunc(out, func(a, b TenantArrears) int {
		return strings.Compare(a.TenantID, b.TenantID)
	})
	return out
}
