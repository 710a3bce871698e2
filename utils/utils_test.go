package utils

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewInvoiceNo_Format(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	pattern := regexp.MustCompile(`^INV-20260830-\d{6}$`)

	for i := 0; i < 10; i++ {
		no := NewInvoiceNo(now)
		assert.Regexp(t, pattern, no)
	}
}

func TestNewInvoiceLink_IsOpaqueAndUnique(t *testing.T) {
	a := NewInvoiceLink()
	b := NewInvoiceLink()
	assert.NotEqual(t, a, b)
	assert.Len(t, a, 36)
}

func TestParseDOB_StructuredForm(t *testing.T) {
	got, err := ParseDOB(DOBInput{Day: 12, Month: 4, Year: 1998})
	require.NoError(t, err)
	assert.Equal(t, time.Date(1998, 4, 12, 0, 0, 0, 0, time.UTC), got)
}

func TestParseDOB_StructuredWinsOverString(t *testing.T) {
	got, err := ParseDOB(DOBInput{Day: 1, Month: 1, Year: 2000, Date: "1999-12-31"})
	require.NoError(t, err)
	assert.Equal(t, 2000, got.Year())
}

func TestParseDOB_RejectsNormalizedOverflow(t *testing.T) {
	_, err := ParseDOB(DOBInput{Day: 30, Month: 2, Year: 1998}) // Feb 30
	assert.Error(t, err)

	_, err = ParseDOB(DOBInput{Day: 31, Month: 4, Year: 1998}) // Apr 31
	assert.Error(t, err)
}

func TestParseDOB_RejectsOutOfRangeFields(t *testing.T) {
	for _, in := range []DOBInput{
		{Day: 0, Month: 4, Year: 1998, Date: "x"},
		{Day: 12, Month: 13, Year: 1998},
		{Day: 12, Month: 4, Year: 1800},
	} {
		_, err := ParseDOB(in)
		assert.Error(t, err, "%+v", in)
	}
}

func TestParseDOB_StringLayouts(t *testing.T) {
	want := time.Date(1998, 4, 12, 0, 0, 0, 0, time.UTC)
	for _, s := range []string{"1998-04-12", "12/04/1998", "12-04-1998"} {
		got, err := ParseDOB(DOBInput{Date: s})
		require.NoError(t, err, s)
		assert.Equal(t, want, got, s)
	}
}

func TestParseDOB_EmptyAndUnparseable(t *testing.T) {
	_, err := ParseDOB(DOBInput{})
	assert.Error(t, err)

	_, err = ParseDOB(DOBInput{Date: "April 12th"})
	assert.Error(t, err)
}

func TestToPaise_RoundsNotTruncates(t *testing.T) {
	assert.Equal(t, int64(300000), ToPaise(3000))
	assert.Equal(t, int64(10050), ToPaise(100.50))
	// 99.999 truncation would give 9999
	assert.Equal(t, int64(10000), ToPaise(99.999))
	// float64 repr of 0.1+0.2 still rounds to 30
	assert.Equal(t, int64(30), ToPaise(0.1+0.2))
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 2542.37, Round2(2542.372881))
	assert.Equal(t, 0.01, Round2(0.005))
	assert.Equal(t, 100.0, Round2(100))
}

func TestSplitInclusive(t *testing.T) {
	excl, gst := SplitInclusive(118, 18)
	assert.Equal(t, 100.0, excl)
	assert.Equal(t, 18.0, gst)

	excl, gst = SplitInclusive(3000, 18)
	assert.Equal(t, 2542.37, excl)
	assert.Equal(t, 457.63, gst)
	assert.InDelta(t, 3000.0, excl+gst, 0.001)

	// Zero rate: nothing to split out
	excl, gst = SplitInclusive(500, 0)
	assert.Equal(t, 500.0, excl)
	assert.Equal(t, 0.0, gst)
}

func TestValidateEmail(t *testing.T) {
	assert.NoError(t, ValidateEmail("asha@example.com"))
	assert.Error(t, ValidateEmail(""))
	assert.Error(t, ValidateEmail("not-an-email"))
	assert.Error(t, ValidateEmail("a@b"))
}

func TestValidatePhone(t *testing.T) {
	assert.NoError(t, ValidatePhone("+919876543210"))
	assert.NoError(t, ValidatePhone("919876543210"))
	assert.Error(t, ValidatePhone(""))
	assert.Error(t, ValidatePhone("0123"))
	assert.Error(t, ValidatePhone("98-76"))
}
