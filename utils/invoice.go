package utils

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
)

// InvoiceNoPrefix prefixes every human-readable invoice number.
const InvoiceNoPrefix = "INV"

// NewInvoiceNo generates a human-readable invoice number:
// INV-<yyyymmdd>-<6 random digits>. Uniqueness is enforced by the unique
// index on enrollment_orders.invoice_no, not by this generator.
func NewInvoiceNo(now time.Time) string {
	return fmt.Sprintf("%s-%s-%06d", InvoiceNoPrefix, now.Format("20060102"), rand.Intn(1000000))
}

// NewInvoiceLink generates the opaque public lookup token for an invoice.
// The internal record id is never exposed.
func NewInvoiceLink() string {
	return uuid.NewString()
}

// DOBInput accepts a date of birth as either a structured day/month/year
// form or a plain date string.
type DOBInput struct {
	Day   int    `json:"day,omitempty"`
	Month int    `json:"month,omitempty"`
	Year  int    `json:"year,omitempty"`
	Date  string `json:"date,omitempty"`
}

// ParseDOB resolves a DOBInput to a time.Time. The structured form wins
// when both are present.
func ParseDOB(in DOBInput) (time.Time, error) {
	if in.Day != 0 || in.Month != 0 || in.Year != 0 {
		if in.Day < 1 || in.Day > 31 || in.Month < 1 || in.Month > 12 || in.Year < 1900 {
			return time.Time{}, fmt.Errorf("invalid date of birth: %d-%d-%d", in.Year, in.Month, in.Day)
		}
		t := time.Date(in.Year, time.Month(in.Month), in.Day, 0, 0, 0, 0, time.UTC)
		// time.Date normalizes overflow (e.g. Feb 30 -> Mar 2); reject that
		if t.Day() != in.Day || int(t.Month()) != in.Month {
			return time.Time{}, fmt.Errorf("invalid date of birth: %d-%d-%d", in.Year, in.Month, in.Day)
		}
		return t, nil
	}

	if in.Date == "" {
		return time.Time{}, fmt.Errorf("date of birth is required")
	}

	for _, layout := range []string{"2006-01-02", "02/01/2006", "02-01-2006"} {
		if t, err := time.Parse(layout, in.Date); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable date of birth: %s", in.Date)
}
