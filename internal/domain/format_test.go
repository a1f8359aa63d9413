package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatCurrency(t *testing.T) {
	assert.Equal(t, "₹1,234.50", FormatCurrency(1234.5))
	assert.Equal(t, "₹0.00", FormatCurrency(0))
	assert.Equal(t, "₹99.90", FormatCurrency(99.9))
}

func TestFormatPhoneNumber(t *testing.T) {
	assert.Equal(t, "98765 43210", FormatPhoneNumber("9876543210"))
	// separators are stripped before grouping
	assert.Equal(t, "98765 43210", FormatPhoneNumber("98765-43210"))
	// a 9 digit input is returned unchanged
	assert.Equal(t, "987654321", FormatPhoneNumber("987654321"))
	assert.Equal(t, "", FormatPhoneNumber(""))
}

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "15 Aug 2024", FormatDate("2024-08-15T10:30:00"))
	// garbage passes through
	assert.Equal(t, "not-a-date", FormatDate("not-a-date"))
}

func TestISODateString(t *testing.T) {
	ts := time.Date(2024, 1, 31, 10, 30, 45, 123456789, time.UTC)
	assert.Equal(t, "2024-01-31T10:30:45", ISODateString(ts))
	assert.Equal(t, "2024-01-31", ISODate(ts))
}

func TestEnumValidity(t *testing.T) {
	assert.True(t, OrderDelivered.Valid())
	assert.False(t, OrderStatus("SHIPPED").Valid())
	assert.True(t, PaymentPaid.Valid())
	assert.False(t, PaymentStatus("REFUNDED").Valid())
	assert.Equal(t, "Cash on Delivery", PaymentCashOnDelivery.Label())
}
