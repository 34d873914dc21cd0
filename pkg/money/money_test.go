package money

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestFormat_TwoDecimals(t *testing.T) {
	cases := map[string]string{
		"0":       "0.00",
		"125":     "125.00",
		"2.5":     "2.50",
		"1234.5":  "1234.50",
		"-500":    "-500.00",
		"0.005":   "0.01",
		"1999.99": "1999.99",
	}

	for in, want := range cases {
		amount := decimal.RequireFromString(in)
		if got := Format(amount); got != want {
			t.Errorf("Format(%s) = %q, want %q", in, got, want)
		}
	}
}

func TestInterest(t *testing.T) {
	balance := decimal.NewFromInt(5000)
	rate := decimal.RequireFromString("2.5")

	got := Interest(balance, rate)

	if !got.Equal(decimal.NewFromInt(125)) {
		t.Errorf("expected interest 125, got %s", got)
	}
}

func TestInterest_ZeroRate(t *testing.T) {
	got := Interest(decimal.NewFromInt(10000), decimal.Zero)

	if !got.IsZero() {
		t.Errorf("expected zero interest, got %s", got)
	}
}

func TestWithinOverdraft(t *testing.T) {
	balance := decimal.NewFromInt(300)
	overdraft := decimal.NewFromInt(500)

	if !WithinOverdraft(balance, overdraft, decimal.NewFromInt(800)) {
		t.Error("withdrawal of exactly balance+overdraft should be allowed")
	}
	if WithinOverdraft(balance, overdraft, decimal.NewFromInt(801)) {
		t.Error("withdrawal beyond balance+overdraft should be refused")
	}
}
