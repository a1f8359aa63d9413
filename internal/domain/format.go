package domain

import (
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var inr = message.NewPrinter(language.MustParse("en-IN"))

// FormatCurrency renders an INR amount with locale grouping and two fixed
// decimal places, e.g. 1234.5 -> "₹1,234.50".
func FormatCurrency(amount float64) string {
	return inr.Sprintf("₹%v", number.Decimal(amount,
		number.MinFractionDigits(2), number.MaxFractionDigits(2)))
}

// FormatPhoneNumber groups a 10 digit Indian mobile number as "98765 43210".
// Inputs that do not clean to exactly 10 digits are returned unchanged.
func FormatPhoneNumber(phone string) string {
	if phone == "" {
		return ""
	}
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	cleaned := b.String()
	if len(cleaned) != 10 {
		return phone
	}
	return cleaned[:5] + " " + cleaned[5:]
}

// ParseTime parses an upstream timestamp. The backend emits zone-less ISO
// strings, so lean on dateparse instead of a fixed layout.
func ParseTime(value string) (time.Time, error) {
	return dateparse.ParseAny(value)
}

// FormatDate renders an upstream timestamp as a short date, "2 Jan 2006".
// Unparseable values pass through untouched so a bad row never hides data.
func FormatDate(value string) string {
	t, err := ParseTime(value)
	if err != nil {
		return value
	}
	return t.Format("2 Jan 2006")
}

// FormatDateTime renders an upstream timestamp with time of day.
func FormatDateTime(value string) string {
	t, err := ParseTime(value)
	if err != nil {
		return value
	}
	return t.Format("2 Jan 2006 15:04")
}

// ISODateString renders a time the way the upstream date-range endpoints
// expect, seconds precision without zone or milliseconds.
func ISODateString(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05")
}

// ISODate renders the calendar date only, used for export filenames and the
// trailing revenue series.
func ISODate(t time.Time) string {
	return t.Format("2006-01-02")
}
