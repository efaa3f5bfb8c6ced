package services

import (
	"testing"
	"time"

	"github.com/livefire2015/ez-rentroll/src/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, got.Equal(dec(want)), "want %s, got %s", want, got.String())
}

func period(month, year int) models.CalendarPeriod {
	return models.NewCalendarPeriod(month, year)
}

func periodPtr(month, year int) *models.CalendarPeriod {
	p := period(month, year)
	return &p
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func lease(id, propertyID, tenantID string, start time.Time, end *time.Time) models.LeaseRecord {
	return models.LeaseRecord{ID: id, PropertyID: propertyID, TenantID: tenantID, StartDate: start, EndDate: end}
}

func rentPayment(propertyID, tenantID string, month, year int) models.PaymentRecord {
	return *models.NewPaymentBuilder().
		WithProperty(propertyID, tenantID).
		WithAmount(dec("1000")).
		ForPeriod(month, year).
		Build()
}

func rentedProperty(id string) *models.PropertyRecord {
	return &models.PropertyRecord{ID: id, Name: "Property " + id, Rent: dec("1000"), Commission: dec("10")}
}
