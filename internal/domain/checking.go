package domain

import (
	"fmt"

	"github.com/shopspring/decimal"

	"bank_ledger/pkg/money"
)

// CheckingAccount may go negative up to its overdraft allowance. It does not
// bear interest.
type CheckingAccount struct {
	ledger
	overdraft decimal.Decimal
}

var _ Account = (*CheckingAccount)(nil)

func NewCheckingAccount(owner string, balance, overdraft decimal.Decimal) *CheckingAccount {
	return &CheckingAccount{
		ledger:    newLedger(owner, balance),
		overdraft: overdraft,
	}
}

func (a *CheckingAccount) Kind() Kind { return KindChecking }

func (a *CheckingAccount) OverdraftLimit() decimal.Decimal { return a.overdraft }

func (a *CheckingAccount) Deposit(amount decimal.Decimal) {
	a.credit(amount)
}

func (a *CheckingAccount) Withdraw(amount decimal.Decimal) error {
	if !money.WithinOverdraft(a.balance, a.overdraft, amount) {
		return ErrOverdraftExceeded
	}
	a.debit(amount)
	return nil
}

func (a *CheckingAccount) Display() string {
	return fmt.Sprintf("Checking Account: %s | Balance: $%s | Overdraft Limit: $%s",
		a.owner, money.Format(a.balance), money.Format(a.overdraft))
}
