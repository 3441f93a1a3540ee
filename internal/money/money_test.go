package money

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseMinor(t *testing.T) {
	cases := []struct {
		input   string
		want    int64
		wantErr error
	}{
		{"1000", 100000, nil},
		{"1000.00", 100000, nil},
		{"10.5", 1050, nil},
		{"0.07", 7, nil},
		{"-25.25", -2525, nil},
		{" 12.00 ", 1200, nil},
		{"", 0, ErrInvalidAmount},
		{"abc", 0, ErrInvalidAmount},
		{"1.234", 0, ErrTooManyDecimals},
	}
	for _, tc := range cases {
		got, err := ParseMinor(tc.input)
		if err != tc.wantErr {
			t.Fatalf("ParseMinor(%q) error = %v, want %v", tc.input, err, tc.wantErr)
		}
		if got != tc.want {
			t.Fatalf("ParseMinor(%q) = %d, want %d", tc.input, got, tc.want)
		}
	}
}

func TestFormatMinor(t *testing.T) {
	if got := FormatMinor(110000); got != "1100.00" {
		t.Fatalf("FormatMinor(110000) = %q", got)
	}
	if got := FormatMinor(-7); got != "-0.07" {
		t.Fatalf("FormatMinor(-7) = %q", got)
	}
}

func TestInterest(t *testing.T) {
	// principal 1000.00 at 10% -> 100.00 interest
	rate := decimal.NewFromInt(10)
	if got := Interest(100000, rate); got != 10000 {
		t.Fatalf("Interest(100000, 10) = %d, want 10000", got)
	}
	// zero rate, zero principal
	if got := Interest(0, rate); got != 0 {
		t.Fatalf("Interest(0, 10) = %d", got)
	}
	if got := Interest(100000, decimal.Zero); got != 0 {
		t.Fatalf("Interest(100000, 0) = %d", got)
	}
	// fractional rate: 12.5% of 800.00 = 100.00
	halfRate, _ := decimal.NewFromString("12.5")
	if got := Interest(80000, halfRate); got != 10000 {
		t.Fatalf("Interest(80000, 12.5) = %d, want 10000", got)
	}
}

func TestParseRate(t *testing.T) {
	if _, err := ParseRate("-1"); err != ErrInvalidRate {
		t.Fatalf("expected ErrInvalidRate for negative rate, got %v", err)
	}
	if _, err := ParseRate("ten"); err != ErrInvalidRate {
		t.Fatalf("expected ErrInvalidRate for garbage, got %v", err)
	}
	rate, err := ParseRate("12.5")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rate.String() != "12.5" {
		t.Fatalf("ParseRate(12.5) = %s", rate)
	}
}
