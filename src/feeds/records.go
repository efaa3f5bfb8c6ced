// Package feeds turns the loosely shaped records returned by the payments, properties, leases, tenants and
// company-config feeds into the strict models the calculations use.
package feeds

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Ref is a reference that feeds send either as a bare id string or as an embedded document
type Ref string

// UnmarshalJSON accepts "abc", {"_id": "abc"} or {"id": "abc"}
func (r *Ref) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*r = ""
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*r = Ref(strings.TrimSpace(s))
		return nil
	}

	var doc struct {
		MongoID string `json:"_id"`
		ID      string `json:"id"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("reference is neither an id nor a document: %w", err)
	}
	if doc.MongoID != "" {
		*r = Ref(doc.MongoID)
	} else {
		*r = Ref(doc.ID)
	}
	return nil
}

// Date is a feed date that tolerates several layouts
// Values that cannot be parsed decode to the zero time instead of failing the whole document.
type Date struct {
	time.Time
	Raw string
}

var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
	"2006/01/02",
	"02/01/2006",
}

// ParseDate parses s with the first matching known layout
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// UnmarshalJSON implements json.Unmarshaler
func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		// numbers, objects and null all count as unparseable
		*d = Date{Raw: string(data)}
		return nil
	}
	t, _ := ParseDate(s)
	*d = Date{Time: t, Raw: s}
	return nil
}

// Int is an integer that feeds send either as a JSON number or a numeric string
type Int int

// UnmarshalJSON implements json.Unmarshaler
func (n *Int) UnmarshalJSON(data []byte) error {
	data = bytes.Trim(bytes.TrimSpace(data), `"`)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*n = 0
		return nil
	}
	d, err := decimal.NewFromString(string(data))
	if err != nil {
		return fmt.Errorf("invalid integer %q: %w", data, err)
	}
	*n = Int(d.IntPart())
	return nil
}

// RawPeriod is a {month, year} pair as sent by the payments feed
type RawPeriod struct {
	Month Int `json:"month"`
	Year  Int `json:"year"`
}

// RawPayment is a payment document from the payments or levy-payments feed
type RawPayment struct {
	ID                 string           `json:"_id"`
	AltID              string           `json:"id"`
	PropertyID         Ref              `json:"propertyId"`
	TenantID           Ref              `json:"tenantId"`
	Amount             decimal.Decimal  `json:"amount"`
	PaymentType        string           `json:"paymentType"`
	Status             string           `json:"status"`
	RentalPeriodMonth  Int              `json:"rentalPeriodMonth"`
	RentalPeriodYear   Int              `json:"rentalPeriodYear"`
	LevyPeriodMonth    Int              `json:"levyPeriodMonth"`
	LevyPeriodYear     Int              `json:"levyPeriodYear"`
	AdvanceMonthsPaid  Int              `json:"advanceMonthsPaid"`
	AdvancePeriodStart *RawPeriod       `json:"advancePeriodStart"`
	AdvancePeriodEnd   *RawPeriod       `json:"advancePeriodEnd"`
	CommissionPercent  *decimal.Decimal `json:"commissionPercent"`
	PaymentDate        Date             `json:"paymentDate"`
	CreatedAt          Date             `json:"createdAt"`
}

// RawProperty is a property document from the properties feed
type RawProperty struct {
	ID                    string          `json:"_id"`
	AltID                 string          `json:"id"`
	Name                  string          `json:"name"`
	Address               string          `json:"address"`
	Rent                  decimal.Decimal `json:"rent"`
	LevyOrMunicipalType   string          `json:"levyOrMunicipalType"`
	LevyOrMunicipalAmount decimal.Decimal `json:"levyOrMunicipalAmount"`
	Commission            decimal.Decimal `json:"commission"`
}

// RawLease is a lease document from the leases feed
type RawLease struct {
	ID         string `json:"_id"`
	AltID      string `json:"id"`
	PropertyID Ref    `json:"propertyId"`
	TenantID   Ref    `json:"tenantId"`
	StartDate  Date   `json:"startDate"`
	EndDate    *Date  `json:"endDate"`
}

// RawTenant is a tenant document from the tenants feed
type RawTenant struct {
	ID        string `json:"_id"`
	AltID     string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

// RawCompany is the company-config document
type RawCompany struct {
	ID                           string          `json:"_id"`
	ReceivablesCutoverYear       Int             `json:"receivablesCutoverYear"`
	ReceivablesCutoverMonth      Int             `json:"receivablesCutoverMonth"`
	RentReceivableOpeningBalance decimal.Decimal `json:"rentReceivableOpeningBalance"`
	LevyReceivableOpeningBalance decimal.Decimal `json:"levyReceivableOpeningBalance"`
}

// RawExpense is an expense document from the expenses feed
type RawExpense struct {
	ID       string          `json:"_id"`
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
	Date     Date            `json:"date"`
}

// RawSnapshot is the unnormalized content of every feed
type RawSnapshot struct {
	Company      RawCompany    `json:"company"`
	Properties   []RawProperty `json:"properties"`
	Leases       []RawLease    `json:"leases"`
	Tenants      []RawTenant   `json:"tenants"`
	Payments     []RawPayment  `json:"payments"`
	LevyPayments []RawPayment  `json:"levyPayments"`
	Expenses     []RawExpense  `json:"expenses"`

	Rejected []Rejection `json:"-"`
}

// Rejection is a feed record that could not be decoded, such as an amount of "N/A"
type Rejection struct {
	Feed string
	Key  string // "#index" in a snapshot file, the row id in Postgres
	Err  string
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
