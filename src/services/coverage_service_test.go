package services

import (
	"testing"
	"time"

	"github.com/livefire2015/ez-rentroll/src/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedNow(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestResolveAdvanceCoverage(t *testing.T) {
	service := NewCoverageService(nil, nil)
	property := rentedProperty("p1")

	advance := *models.NewPaymentBuilder().
		WithProperty("p1", "t1").
		WithAmount(dec("3000")).
		InAdvance(period(11, 2024), 3).
		Build()
	end := date(2025, time.February, 28)

	result, ok := service.ResolveMissingPeriods(ResolveRequest{
		Property:  property,
		Leases:    []models.LeaseRecord{lease("l1", "p1", "t1", date(2024, time.October, 1), &end)},
		Payments:  []models.PaymentRecord{advance},
		Liability: models.LiabilityRental,
		AsOf:      periodPtr(6, 2025),
	})

	require.True(t, ok)
	assert.Equal(t, []models.CalendarPeriod{period(10, 2024), period(2, 2025)}, result.MissingPeriods)
	assert.Equal(t, 2, result.MissingCount)
	assertDecimal(t, "2000", result.OwedAmount)
	assert.Equal(t, result.MissingPeriods, result.MissingByTenant["t1"])
}

func TestResolveNeverReportsFutureMonths(t *testing.T) {
	service := NewCoverageService(nil, nil)
	end := date(2030, time.December, 31)
	asOf := period(3, 2025)

	result, ok := service.ResolveMissingPeriods(ResolveRequest{
		Property: rentedProperty("p1"),
		Leases: []models.LeaseRecord{
			lease("l1", "p1", "t1", date(2024, time.January, 1), &end),
			lease("l2", "p1", "t2", date(2026, time.January, 1), nil),
		},
		Liability: models.LiabilityRental,
		AsOf:      &asOf,
	})

	require.True(t, ok)
	for _, p := range result.MissingPeriods {
		assert.False(t, p.After(asOf), "period %s is after %s", p, asOf)
	}
	assert.Equal(t, 15, result.MissingCount)
	assert.NotContains(t, result.MissingByTenant, "t2")
}

func TestResolveRespectsCutover(t *testing.T) {
	service := NewCoverageService(nil, nil)
	cutover := period(6, 2024)

	result, ok := service.ResolveMissingPeriods(ResolveRequest{
		Property:  rentedProperty("p1"),
		Leases:    []models.LeaseRecord{lease("l1", "p1", "t1", date(2023, time.January, 15), nil)},
		Liability: models.LiabilityRental,
		Cutover:   &cutover,
		AsOf:      periodPtr(9, 2024),
	})

	require.True(t, ok)
	require.NotEmpty(t, result.MissingPeriods)
	assert.Equal(t, cutover, result.MissingPeriods[0])
	assert.Equal(t, 4, result.MissingCount)
}

func TestResolveExcludesUnpricedProperty(t *testing.T) {
	service := NewCoverageService(nil, nil)

	for _, property := range []*models.PropertyRecord{
		{ID: "p1"},
		{ID: "p1", Rent: dec("0")},
		{ID: "p1", Rent: dec("-10")},
	} {
		_, ok := service.ResolveMissingPeriods(ResolveRequest{
			Property:  property,
			Leases:    []models.LeaseRecord{lease("l1", "p1", "t1", date(2024, time.January, 1), nil)},
			Liability: models.LiabilityRental,
			AsOf:      periodPtr(6, 2024),
		})
		assert.False(t, ok)
	}

	_, ok := service.ResolveMissingPeriods(ResolveRequest{Liability: models.LiabilityRental})
	assert.False(t, ok)
}

func TestResolveOnlyCountsCompletedRentalPayments(t *testing.T) {
	service := NewCoverageService(nil, nil)

	failed := rentPayment("p1", "t1", 1, 2025)
	failed.Status = models.PaymentStatusFailed
	levy := rentPayment("p1", "t1", 2, 2025)
	levy.PaymentType = models.PaymentTypeLevy
	sale := rentPayment("p1", "t1", 3, 2025)
	sale.PaymentType = models.PaymentTypeSale
	intro := rentPayment("p1", "t1", 4, 2025)
	intro.PaymentType = models.PaymentTypeIntroduction
	otherProperty := rentPayment("p2", "t1", 5, 2025)

	result, ok := service.ResolveMissingPeriods(ResolveRequest{
		Property:  rentedProperty("p1"),
		Leases:    []models.LeaseRecord{lease("l1", "p1", "t1", date(2025, time.January, 1), nil)},
		Payments:  []models.PaymentRecord{failed, levy, sale, intro, otherProperty},
		Liability: models.LiabilityRental,
		AsOf:      periodPtr(5, 2025),
	})

	require.True(t, ok)
	assert.Equal(t, []models.CalendarPeriod{
		period(1, 2025), period(2, 2025), period(3, 2025), period(5, 2025),
	}, result.MissingPeriods)
}

func TestResolveLevyUsesAdvancePeriods(t *testing.T) {
	service := NewCoverageService(nil, nil)
	property := &models.PropertyRecord{
		ID:                    "p1",
		LevyOrMunicipalType:   models.ChargeTypeLevy,
		LevyOrMunicipalAmount: dec("1250"),
	}

	advance := *models.NewPaymentBuilder().
		WithProperty("p1", "t1").
		WithType(models.PaymentTypeLevy).
		InAdvance(period(1, 2025), 2).
		Build()
	rental := rentPayment("p1", "t1", 3, 2025)

	result, ok := service.ResolveMissingPeriods(ResolveRequest{
		Property:  property,
		Leases:    []models.LeaseRecord{lease("l1", "p1", "t1", date(2025, time.January, 1), nil)},
		Payments:  []models.PaymentRecord{advance, rental},
		Liability: models.LiabilityLevy,
		AsOf:      periodPtr(4, 2025),
	})

	require.True(t, ok)
	assert.Equal(t, []models.CalendarPeriod{period(3, 2025), period(4, 2025)}, result.MissingPeriods)
	assertDecimal(t, "2500", result.OwedAmount)
}

func TestResolveDeduplicatesOverlappingLeases(t *testing.T) {
	service := NewCoverageService(nil, nil)
	firstEnd := date(2025, time.March, 31)

	result, ok := service.ResolveMissingPeriods(ResolveRequest{
		Property: rentedProperty("p1"),
		Leases: []models.LeaseRecord{
			lease("l1", "p1", "t1", date(2025, time.January, 1), &firstEnd),
			lease("l2", "p1", "t2", date(2025, time.March, 1), nil),
		},
		Payments:  []models.PaymentRecord{rentPayment("p1", "t1", 1, 2025)},
		Liability: models.LiabilityRental,
		AsOf:      periodPtr(4, 2025),
	})

	require.True(t, ok)
	assert.Equal(t, []models.CalendarPeriod{period(2, 2025), period(3, 2025)}, result.MissingByTenant["t1"])
	assert.Equal(t, []models.CalendarPeriod{period(3, 2025), period(4, 2025)}, result.MissingByTenant["t2"])
	assert.Equal(t, 3, result.MissingCount)
	assertDecimal(t, "3000", result.OwedAmount)
}

func TestResolveScopesToTenant(t *testing.T) {
	service := NewCoverageService(nil, nil)

	result, ok := service.ResolveMissingPeriods(ResolveRequest{
		Property: rentedProperty("p1"),
		Leases: []models.LeaseRecord{
			lease("l1", "p1", "t1", date(2025, time.January, 1), nil),
			lease("l2", "p1", "t2", date(2025, time.January, 1), nil),
		},
		Liability: models.LiabilityRental,
		AsOf:      periodPtr(2, 2025),
		TenantID:  "t2",
	})

	require.True(t, ok)
	assert.Len(t, result.MissingByTenant, 1)
	assert.Contains(t, result.MissingByTenant, "t2")
}

func TestResolveSkipsMalformedLeases(t *testing.T) {
	service := NewCoverageService(nil, nil)
	endBeforeStart := date(2024, time.January, 1)

	result, ok := service.ResolveMissingPeriods(ResolveRequest{
		Property: rentedProperty("p1"),
		Leases: []models.LeaseRecord{
			lease("bad-start", "p1", "t1", time.Time{}, nil),
			lease("inverted", "p1", "t2", date(2024, time.June, 1), &endBeforeStart),
			lease("good", "p1", "t3", date(2025, time.January, 1), nil),
		},
		Liability: models.LiabilityRental,
		AsOf:      periodPtr(1, 2025),
	})

	require.True(t, ok)
	assert.Equal(t, 1, result.MissingCount)
	assert.Equal(t, []string{"t3"}, keys(result.MissingByTenant))
}

func TestResolveDefaultsAsOfToClock(t *testing.T) {
	service := NewCoverageService(nil, fixedNow(date(2025, time.March, 10)))

	result, ok := service.ResolveMissingPeriods(ResolveRequest{
		Property:  rentedProperty("p1"),
		Leases:    []models.LeaseRecord{lease("l1", "p1", "t1", date(2025, time.January, 1), nil)},
		Liability: models.LiabilityRental,
	})

	require.True(t, ok)
	assert.Equal(t, period(3, 2025), result.AsOf)
	assert.Equal(t, 3, result.MissingCount)
}

func TestResolveIsIdempotent(t *testing.T) {
	service := NewCoverageService(nil, nil)
	leases := []models.LeaseRecord{
		lease("l1", "p1", "t1", date(2024, time.March, 1), nil),
		lease("l2", "p1", "t2", date(2024, time.August, 1), nil),
	}
	payments := []models.PaymentRecord{
		rentPayment("p1", "t1", 4, 2024),
		rentPayment("p1", "t2", 9, 2024),
	}
	req := ResolveRequest{
		Property:  rentedProperty("p1"),
		Leases:    leases,
		Payments:  payments,
		Liability: models.LiabilityRental,
		AsOf:      periodPtr(12, 2024),
	}

	first, ok1 := service.ResolveMissingPeriods(req)
	second, ok2 := service.ResolveMissingPeriods(req)

	assert.True(t, ok1 && ok2)
	assert.Equal(t, first, second)
	assert.Len(t, leases, 2)
	assert.Equal(t, 4, payments[0].RentalPeriodMonth)
}

func TestPaidPeriodsIndexesByProperty(t *testing.T) {
	service := NewCoverageService(nil, nil)
	index := service.PaidPeriods([]models.PaymentRecord{
		rentPayment("p1", "t1", 1, 2025),
		rentPayment("p2", "t2", 2, 2025),
	}, models.LiabilityRental)

	assert.Contains(t, index["p1"], period(1, 2025))
	assert.NotContains(t, index["p1"], period(2, 2025))
	assert.Contains(t, index["p2"], period(2, 2025))
}

func keys(m map[string][]models.CalendarPeriod) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
