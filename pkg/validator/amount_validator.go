package validator

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrMalformedAmount = errors.New("malformed amount")
	ErrNonFiniteAmount = errors.New("amount is not finite")
	ErrAmountTooLarge  = errors.New("amount exceeds maximum")
)

// maxAmount caps raw input at the boundary so a typo cannot create an
// absurd balance. The core itself never enforces limits.
var maxAmount = decimal.New(1, 9) // 1,000,000,000

// AmountValidator sanitizes raw user input before it reaches the ledger.
// The core accepts any decimal amount; sign and magnitude policy live here.
type AmountValidator struct {
	amountRegex *regexp.Regexp
}

func NewAmountValidator() *AmountValidator {
	return &AmountValidator{
		amountRegex: regexp.MustCompile(`^-?\d+(\.\d+)?$`),
	}
}

// Parse converts a raw text amount ("1500", "$1,500.25") into a decimal.
func (v *AmountValidator) Parse(raw string) (decimal.Decimal, error) {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimPrefix(cleaned, "$")
	cleaned = strings.ReplaceAll(cleaned, ",", "")

	if !v.amountRegex.MatchString(cleaned) {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrMalformedAmount, raw)
	}

	amount, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrMalformedAmount, raw)
	}

	return amount, v.checkMagnitude(amount)
}

// FromFloat converts an amount received as a float (JSON payloads) into a
// decimal, rejecting NaN and infinities the core cannot represent.
func (v *AmountValidator) FromFloat(f float64) (decimal.Decimal, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Zero, fmt.Errorf("%w: %v", ErrNonFiniteAmount, f)
	}

	amount := decimal.NewFromFloat(f)
	return amount, v.checkMagnitude(amount)
}

func (v *AmountValidator) checkMagnitude(amount decimal.Decimal) error {
	if amount.Abs().GreaterThan(maxAmount) {
		return fmt.Errorf("%w: limit %s", ErrAmountTooLarge, maxAmount)
	}
	return nil
}
