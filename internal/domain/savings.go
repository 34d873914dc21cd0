package domain

import (
	"fmt"

	"github.com/shopspring/decimal"

	"bank_ledger/pkg/money"
)

// SavingsAccount never goes negative and earns interest on demand.
type SavingsAccount struct {
	ledger
	rate decimal.Decimal
}

var _ Account = (*SavingsAccount)(nil)
var _ InterestBearing = (*SavingsAccount)(nil)

func NewSavingsAccount(owner string, balance, rate decimal.Decimal) *SavingsAccount {
	return &SavingsAccount{
		ledger: newLedger(owner, balance),
		rate:   rate,
	}
}

func (a *SavingsAccount) Kind() Kind { return KindSavings }

func (a *SavingsAccount) InterestRate() decimal.Decimal { return a.rate }

func (a *SavingsAccount) Deposit(amount decimal.Decimal) {
	a.credit(amount)
}

func (a *SavingsAccount) Withdraw(amount decimal.Decimal) error {
	if amount.GreaterThan(a.balance) {
		return ErrInsufficientFunds
	}
	a.debit(amount)
	return nil
}

func (a *SavingsAccount) ApplyInterest() decimal.Decimal {
	interest := money.Interest(a.balance, a.rate)
	a.Deposit(interest)
	a.record("Interest Applied: $" + money.Format(interest))
	return interest
}

func (a *SavingsAccount) Display() string {
	return fmt.Sprintf("Savings Account: %s | Balance: $%s | Interest Rate: %s%%",
		a.owner, money.Format(a.balance), a.rate.String())
}
