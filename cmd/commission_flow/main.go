package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/livefire2015/ez-rentroll/src/models"
	"github.com/livefire2015/ez-rentroll/src/services"
	"github.com/shopspring/decimal"
)

// This example walks through the payment-entry calculations:
// 1. Split a rental payment into commission, PREA fee, agent/agency shares and owner amount
// 2. Plan a four-month advance payment that crosses a year end
// 3. Resolve which months a lease still owes after the advance
// 4. Check a part payment against the remaining balance for a month

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	property := &models.PropertyRecord{
		ID:                    "prop-14",
		Name:                  "14 Jacaranda Street",
		Rent:                  decimal.NewFromInt(8500),
		LevyOrMunicipalType:   models.ChargeTypeLevy,
		LevyOrMunicipalAmount: decimal.NewFromInt(1250),
		Commission:            decimal.NewFromInt(10),
	}
	tenantID := "tenant-7"

	commission := services.NewCommissionService(logger)
	coverage := services.NewCoverageService(logger, nil)
	balances := services.NewBalanceService()

	fmt.Println("=== Rent Roll - Commission Flow Example ===")
	fmt.Println()

	// Step 1
	fmt.Println("Step 1: Splitting a rental payment")
	fmt.Println("----------------------------------")
	october := models.NewPaymentBuilder().
		WithProperty(property.ID, tenantID).
		WithAmount(property.Rent).
		ForPeriod(10, 2024).
		OnDate(time.Date(2024, 10, 3, 0, 0, 0, 0, time.UTC)).
		Build()

	split, err := commission.SplitPayment(services.SplitRequest{Payment: october, Property: property})
	if err != nil {
		fail(err)
	}
	b := split.Breakdown
	fmt.Printf("  Amount:           R%s at %s%%\n", split.Amount.StringFixed(2), split.CommissionPercent)
	fmt.Printf("  Total commission: R%s\n", b.TotalCommission.StringFixed(2))
	fmt.Printf("  PREA fee:         R%s\n", b.PREAFee.StringFixed(2))
	fmt.Printf("  Agent share:      R%s\n", b.AgentShare.StringFixed(2))
	fmt.Printf("  Agency share:     R%s\n", b.AgencyShare.StringFixed(2))
	fmt.Printf("  Owner amount:     R%s\n\n", b.OwnerAmount.StringFixed(2))

	// Step 2
	fmt.Println("Step 2: Planning an advance payment")
	fmt.Println("-----------------------------------")
	plan, err := commission.PlanAdvance(services.AdvanceRequest{
		Property:    property,
		Liability:   models.LiabilityRental,
		StartMonth:  11,
		StartYear:   2024,
		MonthsCount: 4,
	})
	if err != nil {
		fail(err)
	}
	fmt.Printf("  %d months from %s to %s: R%s\n\n", plan.MonthsCount, plan.Start, plan.End, plan.Total.StringFixed(2))

	advance := models.NewPaymentBuilder().
		WithProperty(property.ID, tenantID).
		WithAmount(plan.Total).
		InAdvance(plan.Start, plan.MonthsCount).
		OnDate(time.Date(2024, 11, 1, 0, 0, 0, 0, time.UTC)).
		Build()
	if err := balances.ValidateAdvanceAmount(advance.Amount, plan.MonthlyAmount, plan.MonthsCount); err != nil {
		fail(err)
	}

	// Step 3
	fmt.Println("Step 3: Resolving missing months")
	fmt.Println("--------------------------------")
	asOf := models.NewCalendarPeriod(4, 2025)
	lease := models.LeaseRecord{
		ID:         "lease-3",
		PropertyID: property.ID,
		TenantID:   tenantID,
		StartDate:  time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC),
	}
	result, ok := coverage.ResolveMissingPeriods(services.ResolveRequest{
		Property:  property,
		Leases:    []models.LeaseRecord{lease},
		Payments:  []models.PaymentRecord{*october, *advance},
		Liability: models.LiabilityRental,
		AsOf:      &asOf,
	})
	if !ok {
		fail(errors.New("property is not priced for rent"))
	}
	for _, period := range result.MissingPeriods {
		fmt.Printf("  Missing: %s\n", period)
	}
	fmt.Printf("  Owed: R%s\n\n", result.OwedAmount.StringFixed(2))

	// Step 4
	fmt.Println("Step 4: Checking a part payment")
	fmt.Println("-------------------------------")
	march := models.NewPaymentBuilder().
		WithProperty(property.ID, tenantID).
		WithAmount(decimal.NewFromInt(5000)).
		ForPeriod(3, 2025).
		Build()
	query := services.BalanceQuery{
		PropertyID:       property.ID,
		TenantID:         tenantID,
		Liability:        models.LiabilityRental,
		Period:           models.NewCalendarPeriod(3, 2025),
		MonthlyLiability: property.Rent,
		Payments:         []models.PaymentRecord{*march},
	}
	fmt.Printf("  Remaining for %s: R%s\n", query.Period, balances.RemainingForPeriod(query).StringFixed(2))
	if err := balances.ValidatePeriodPayment(query, decimal.NewFromInt(4000)); err != nil {
		var exceeds *services.ExceedsBalanceError
		if errors.As(err, &exceeds) {
			fmt.Printf("  ✗ Rejected: %v\n", err)
		} else {
			fail(err)
		}
	}

	fmt.Println("\n=== Example Complete ===")
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
