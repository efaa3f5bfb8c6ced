package feeds

import (
	"io"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/livefire2015/ez-rentroll/src/models"
	"github.com/livefire2015/ez-rentroll/src/services"
	"github.com/shopspring/decimal"
)

// Normalizer converts raw feed documents into models, dropping records that fail validation
type Normalizer struct {
	validate *validator.Validate
	logger   *slog.Logger
}

// NewNormalizer creates a new normalizer
func NewNormalizer(logger *slog.Logger) *Normalizer {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Normalizer{
		validate: validator.New(),
		logger:   logger,
	}
}

// Normalize converts a raw snapshot
// Invalid records are logged and skipped; the call itself never fails.
func (n *Normalizer) Normalize(raw *RawSnapshot) *services.Snapshot {
	for _, r := range raw.Rejected {
		n.skip(r.Feed, r.Key, r.Err)
	}

	snap := &services.Snapshot{
		Company: n.company(raw.Company),
	}

	commission := make(map[string]decimal.Decimal, len(raw.Properties))
	for _, rp := range raw.Properties {
		p := n.property(rp)
		if !n.valid("property", p.ID, p) {
			continue
		}
		commission[p.ID] = p.Commission
		snap.Properties = append(snap.Properties, p)
	}

	for _, rl := range raw.Leases {
		l := n.lease(rl)
		if !n.valid("lease", l.ID, l) {
			continue
		}
		snap.Leases = append(snap.Leases, l)
	}

	for _, rt := range raw.Tenants {
		t := n.tenant(rt)
		if !n.valid("tenant", t.ID, t) {
			continue
		}
		snap.Tenants = append(snap.Tenants, t)
	}

	for _, rp := range raw.Payments {
		p := n.payment(rp, false, commission)
		if !n.valid("payment", p.ID, p) {
			continue
		}
		snap.Payments = append(snap.Payments, p)
	}

	for _, rp := range raw.LevyPayments {
		p := n.payment(rp, true, commission)
		if !n.valid("levy payment", p.ID, p) {
			continue
		}
		snap.LevyPayments = append(snap.LevyPayments, p)
	}

	for _, re := range raw.Expenses {
		e := models.ExpenseRecord{
			ID:       re.ID,
			Category: re.Category,
			Amount:   re.Amount,
			Date:     re.Date.Time,
		}
		if !n.valid("expense", e.ID, e) {
			continue
		}
		snap.Expenses = append(snap.Expenses, e)
	}

	n.logger.Debug("snapshot normalized",
		slog.Int("properties", len(snap.Properties)),
		slog.Int("leases", len(snap.Leases)),
		slog.Int("payments", len(snap.Payments)),
		slog.Int("levy_payments", len(snap.LevyPayments)),
		slog.Int("rejected", len(raw.Rejected)),
	)
	return snap
}

func (n *Normalizer) valid(kind, id string, record any) bool {
	if err := n.validate.Struct(record); err != nil {
		n.skip(kind, id, err.Error())
		return false
	}
	return true
}

func (n *Normalizer) skip(kind, id, reason string) {
	n.logger.Warn("skipping invalid record",
		slog.String("kind", kind),
		slog.String("id", id),
		slog.String("error", reason),
	)
}

func (n *Normalizer) company(rc RawCompany) models.CompanyConfig {
	cfg := models.CompanyConfig{
		ID:                           rc.ID,
		RentReceivableOpeningBalance: rc.RentReceivableOpeningBalance,
		LevyReceivableOpeningBalance: rc.LevyReceivableOpeningBalance,
	}
	cutover := models.NewCalendarPeriod(int(rc.ReceivablesCutoverMonth), int(rc.ReceivablesCutoverYear))
	if cutover.Valid() {
		cfg.ReceivablesCutover = &cutover
	} else if !cutover.IsZero() {
		n.logger.Warn("ignoring invalid receivables cutover", slog.String("cutover", cutover.String()))
	}
	return cfg
}

func (n *Normalizer) property(rp RawProperty) models.PropertyRecord {
	name := rp.Name
	if name == "" {
		name = rp.Address
	}
	return models.PropertyRecord{
		ID:                    firstNonEmpty(rp.ID, rp.AltID),
		Name:                  name,
		Rent:                  rp.Rent,
		LevyOrMunicipalType:   models.LevyOrMunicipalType(strings.ToLower(strings.TrimSpace(rp.LevyOrMunicipalType))),
		LevyOrMunicipalAmount: rp.LevyOrMunicipalAmount,
		Commission:            rp.Commission,
	}
}

func (n *Normalizer) lease(rl RawLease) models.LeaseRecord {
	lease := models.LeaseRecord{
		ID:         firstNonEmpty(rl.ID, rl.AltID),
		PropertyID: string(rl.PropertyID),
		TenantID:   string(rl.TenantID),
		StartDate:  rl.StartDate.Time,
	}
	if rl.StartDate.IsZero() {
		n.logger.Warn("lease start date unparseable",
			slog.String("lease_id", lease.ID),
			slog.String("raw", rl.StartDate.Raw),
		)
	}
	if rl.EndDate != nil && !rl.EndDate.IsZero() {
		end := rl.EndDate.Time
		lease.EndDate = &end
	}
	return lease
}

func (n *Normalizer) tenant(rt RawTenant) models.TenantRecord {
	return models.TenantRecord{
		ID:    firstNonEmpty(rt.ID, rt.AltID),
		Name:  strings.TrimSpace(rt.FirstName + " " + rt.LastName),
		Email: strings.TrimSpace(rt.Email),
		Phone: rt.Phone,
	}
}

func (n *Normalizer) payment(rp RawPayment, levyFeed bool, commission map[string]decimal.Decimal) models.PaymentRecord {
	p := models.PaymentRecord{
		ID:                firstNonEmpty(rp.ID, rp.AltID),
		PropertyID:        string(rp.PropertyID),
		TenantID:          string(rp.TenantID),
		Amount:            rp.Amount,
		PaymentType:       models.NormalizePaymentType(rp.PaymentType),
		Status:            models.NormalizePaymentStatus(rp.Status),
		RentalPeriodMonth: int(rp.RentalPeriodMonth),
		RentalPeriodYear:  int(rp.RentalPeriodYear),
		AdvanceMonthsPaid: max(1, int(rp.AdvanceMonthsPaid)),
		TransactionDate:   rp.PaymentDate.Time,
	}
	if p.TransactionDate.IsZero() {
		p.TransactionDate = rp.CreatedAt.Time
	}

	if levyFeed {
		p.PaymentType = models.PaymentTypeLevy
		if rp.LevyPeriodMonth != 0 {
			p.RentalPeriodMonth = int(rp.LevyPeriodMonth)
			p.RentalPeriodYear = int(rp.LevyPeriodYear)
		}
	}

	if rp.AdvancePeriodStart != nil && rp.AdvancePeriodEnd != nil {
		start := models.NewCalendarPeriod(int(rp.AdvancePeriodStart.Month), int(rp.AdvancePeriodStart.Year))
		end := models.NewCalendarPeriod(int(rp.AdvancePeriodEnd.Month), int(rp.AdvancePeriodEnd.Year))
		if start.Valid() && end.Valid() {
			p.AdvancePeriodStart = &start
			p.AdvancePeriodEnd = &end
		}
	}

	if rp.CommissionPercent != nil {
		p.CommissionPercent = *rp.CommissionPercent
	} else {
		p.CommissionPercent = commission[p.PropertyID]
	}
	return p
}
