package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// New builds an account of the given kind. The extra argument is the
// kind-specific limit: interest rate percent for savings, overdraft
// allowance for checking.
func New(kind Kind, owner string, balance, extra decimal.Decimal) (Account, error) {
	switch kind {
	case KindSavings:
		return NewSavingsAccount(owner, balance, extra), nil
	case KindChecking:
		return NewCheckingAccount(owner, balance, extra), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAccountKind, kind)
	}
}
