package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/livefire2015/ez-rentroll/src/config"
	"github.com/livefire2015/ez-rentroll/src/feeds"
	"github.com/livefire2015/ez-rentroll/src/models"
	"github.com/livefire2015/ez-rentroll/src/services"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Prints the arrears dashboard for every property of a company.
//
//	SNAPSHOT_FILE=snapshot.json LIABILITY=rental AS_OF=2025-02 go run ./cmd/arrears_report
//	PG_DSN=postgres://localhost/rentroll COMPANY_ID=acme LIABILITY=levy go run ./cmd/arrears_report

func main() {
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(2)
	}
	logger := config.NewLogger(cfg, os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, cfg, logger, os.Stdout); err != nil {
		logger.Error("arrears report failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger, out io.Writer) error {
	var source feeds.Source
	if cfg.UsesPostgres() {
		db, err := feeds.OpenPostgres(ctx, cfg.PGDSN)
		if err != nil {
			return err
		}
		defer db.Close()
		source = feeds.NewPostgresSource(db, cfg.CompanyID, cfg.PropertyIDs...)
	} else {
		source = feeds.NewFileSource(cfg.SnapshotFile)
	}

	snap, err := feeds.LoadSnapshot(ctx, source, logger)
	if err != nil {
		return err
	}

	// wall-clock time enters here and nowhere else
	asOf, ok := cfg.AsOfPeriod()
	if !ok {
		asOf = models.PeriodOf(time.Now())
	}

	coverage := services.NewCoverageService(logger, nil)
	dashboard := services.NewDashboardService(coverage, logger, cfg.Concurrency)

	summary, err := dashboard.CompanyArrears(ctx, snap, cfg.LiabilityType(), asOf)
	if err != nil {
		return err
	}

	revenue := services.NewRevenueService(logger).Summarize(services.RevenueRequest{
		Payments:   append(append([]models.PaymentRecord{}, snap.Payments...), snap.LevyPayments...),
		Properties: snap.Properties,
		Expenses:   snap.Expenses,
		From:       models.NewCalendarPeriod(1, asOf.Year),
		To:         asOf,
	})

	printSummary(out, summary)
	printRevenue(out, revenue)
	return nil
}

func printSummary(out io.Writer, s *services.CompanyArrearsSummary) {
	p := message.NewPrinter(language.English)

	p.Fprintf(out, "=== %s arrears as of %s ===\n\n", strings.ToUpper(string(s.Liability)), s.AsOf)
	for _, line := range s.Properties {
		a := line.Arrears
		p.Fprintf(out, "%s (%s)\n", line.PropertyName, a.PropertyID)
		p.Fprintf(out, "  Monthly: %s  Missing months: %d  Owed: %s\n",
			money(p, a.MonthlyLiability), a.MissingCount, money(p, a.OwedAmount))
		for _, t := range line.TenantLines {
			p.Fprintf(out, "    %s: %s\n", t.TenantName, joinPeriods(t.Missing))
		}
	}

	if len(s.SkippedProperties) > 0 {
		p.Fprintf(out, "\nNot priced for %s: %s\n", s.Liability, strings.Join(s.SkippedProperties, ", "))
	}

	p.Fprintf(out, "\nProperty arrears: %s\n", money(p, s.PropertyOwed))
	p.Fprintf(out, "Opening balance:  %s\n", money(p, s.OpeningBalance))
	p.Fprintf(out, "Total owed:       %s (%d months)\n", money(p, s.TotalOwed), s.TotalMissingMonths)
}

func printRevenue(out io.Writer, r services.RevenueSummary) {
	p := message.NewPrinter(language.English)

	p.Fprintf(out, "\n=== Revenue %s to %s ===\n", r.From, r.To)
	p.Fprintf(out, "Collected:  %s (%d payments)\n", money(p, r.GrossTotal), r.PaymentCount)
	p.Fprintf(out, "Commission: %s  PREA: %s  Agent: %s  Agency: %s\n",
		money(p, r.Commission.TotalCommission), money(p, r.Commission.PREAFee),
		money(p, r.Commission.AgentShare), money(p, r.Commission.AgencyShare))
	p.Fprintf(out, "Expenses:   %s\n", money(p, r.ExpenseTotal))
	p.Fprintf(out, "Agency net: %s\n", money(p, r.AgencyNet))
}

func money(p *message.Printer, d decimal.Decimal) string {
	return p.Sprintf("%.2f", d.Round(2).InexactFloat64())
}

func joinPeriods(periods []models.CalendarPeriod) string {
	parts := make([]string, len(periods))
	for i, period := range periods {
		parts[i] = period.String()
	}
	return strings.Join(parts, ", ")
}
