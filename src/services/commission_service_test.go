package services

import (
	"errors"
	"testing"

	"github.com/livefire2015/ez-rentroll/src/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeCommission(t *testing.T) {
	b := ComputeCommission(dec("8500"), dec("10"))

	assertDecimal(t, "850", b.TotalCommission)
	assertDecimal(t, "25.5", b.PREAFee)
	assertDecimal(t, "494.7", b.AgentShare)
	assertDecimal(t, "329.8", b.AgencyShare)
	assertDecimal(t, "7650", b.OwnerAmount)
}

func TestComputeCommissionZeroRate(t *testing.T) {
	b := ComputeCommission(dec("1000"), decimal.Zero)

	assertDecimal(t, "0", b.TotalCommission)
	assertDecimal(t, "0", b.PREAFee)
	assertDecimal(t, "0", b.AgentShare)
	assertDecimal(t, "0", b.AgencyShare)
	assertDecimal(t, "1000", b.OwnerAmount)
}

func TestComputeCommissionSplitsAddUp(t *testing.T) {
	amounts := []string{"0", "0.01", "1", "999.99", "8500", "123456.78"}
	rates := []string{"0", "0.5", "7.5", "10", "12.25", "33.3333", "100"}

	for _, a := range amounts {
		for _, r := range rates {
			amount := dec(a)
			b := ComputeCommission(amount, dec(r))

			shares := b.AgentShare.Add(b.AgencyShare).Add(b.PREAFee)
			assert.True(t, shares.Equal(b.TotalCommission), "amount %s rate %s: shares %s != commission %s", a, r, shares, b.TotalCommission)
			assert.True(t, b.OwnerAmount.Add(b.TotalCommission).Equal(amount), "amount %s rate %s: owner + commission != amount", a, r)
		}
	}
}

func TestComputeCommissionIsReproducible(t *testing.T) {
	first := ComputeCommission(dec("4321.09"), dec("8.75"))
	second := ComputeCommission(dec("4321.09"), dec("8.75"))
	assert.Equal(t, first, second)
}

func TestComputeAdvanceEnd(t *testing.T) {
	tests := []struct {
		name                string
		month, year, months int
		want                models.CalendarPeriod
	}{
		{"wraps year", 11, 2024, 4, period(2, 2025)},
		{"full calendar year", 1, 2024, 12, period(12, 2024)},
		{"single month", 6, 2024, 1, period(6, 2024)},
		{"two years", 12, 2024, 25, period(12, 2026)},
		{"clamps zero months", 5, 2024, 0, period(5, 2024)},
		{"clamps negative months", 5, 2024, -3, period(5, 2024)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ComputeAdvanceEnd(tt.month, tt.year, tt.months))
		})
	}
}

func TestComputeAdvanceTotal(t *testing.T) {
	assertDecimal(t, "34000", ComputeAdvanceTotal(dec("8500"), 4))
	assertDecimal(t, "1250.5", ComputeAdvanceTotal(dec("1250.5"), 1))
}

func TestSplitPaymentRatePrecedence(t *testing.T) {
	service := NewCommissionService(nil)
	property := &models.PropertyRecord{ID: "p1", Commission: dec("10")}

	plain := models.NewPaymentBuilder().WithProperty("p1", "t1").WithAmount(dec("1000")).Build()
	res, err := service.SplitPayment(SplitRequest{Payment: plain, Property: property})
	require.NoError(t, err)
	assertDecimal(t, "10", res.CommissionPercent)
	assertDecimal(t, "100", res.Breakdown.TotalCommission)

	ownRate := models.NewPaymentBuilder().WithProperty("p1", "t1").WithAmount(dec("1000")).WithCommission(dec("8")).Build()
	res, err = service.SplitPayment(SplitRequest{Payment: ownRate, Property: property})
	require.NoError(t, err)
	assertDecimal(t, "80", res.Breakdown.TotalCommission)

	override := dec("0")
	res, err = service.SplitPayment(SplitRequest{Payment: ownRate, Property: property, OverridePercent: &override})
	require.NoError(t, err)
	assertDecimal(t, "1000", res.Breakdown.OwnerAmount)
}

func TestSplitPaymentRejectsInvalidInput(t *testing.T) {
	service := NewCommissionService(nil)

	negative := models.NewPaymentBuilder().WithAmount(dec("-5")).Build()
	_, err := service.SplitPayment(SplitRequest{Payment: negative})
	assert.ErrorIs(t, err, ErrNegativeAmount)

	tooHigh := dec("150")
	payment := models.NewPaymentBuilder().WithAmount(dec("5")).Build()
	_, err = service.SplitPayment(SplitRequest{Payment: payment, OverridePercent: &tooHigh})
	assert.True(t, errors.Is(err, ErrInvalidCommissionRate))

	_, err = service.SplitPayment(SplitRequest{})
	assert.Error(t, err)
}

func TestPlanAdvance(t *testing.T) {
	service := NewCommissionService(nil)
	property := &models.PropertyRecord{
		ID:                    "p1",
		Rent:                  dec("8500"),
		LevyOrMunicipalType:   models.ChargeTypeLevy,
		LevyOrMunicipalAmount: dec("1250"),
	}

	plan, err := service.PlanAdvance(AdvanceRequest{Property: property, Liability: models.LiabilityRental, StartMonth: 11, StartYear: 2024, MonthsCount: 4})
	require.NoError(t, err)
	assert.Equal(t, period(11, 2024), plan.Start)
	assert.Equal(t, period(2, 2025), plan.End)
	assertDecimal(t, "34000", plan.Total)

	plan, err = service.PlanAdvance(AdvanceRequest{Property: property, Liability: models.LiabilityLevy, StartMonth: 3, StartYear: 2025, MonthsCount: 0})
	require.NoError(t, err)
	assert.Equal(t, 1, plan.MonthsCount)
	assertDecimal(t, "1250", plan.Total)

	_, err = service.PlanAdvance(AdvanceRequest{Property: property, Liability: models.LiabilityRental, StartMonth: 13, StartYear: 2025, MonthsCount: 2})
	assert.ErrorIs(t, err, ErrInvalidStartMonth)

	unpriced := &models.PropertyRecord{ID: "p2"}
	_, err = service.PlanAdvance(AdvanceRequest{Property: unpriced, Liability: models.LiabilityRental, StartMonth: 1, StartYear: 2025, MonthsCount: 2})
	assert.ErrorIs(t, err, ErrUnpricedLiability)
}
