package domain

import (
	"slices"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"bank_ledger/pkg/money"
)

type Kind string

const (
	KindSavings  Kind = "savings"
	KindChecking Kind = "checking"
)

// Account is a bank account holding a balance and an append-only transaction
// narrative under one owner name. Concrete kinds differ only in their
// withdrawal rule and kind-specific limit.
type Account interface {
	ID() uuid.UUID
	Owner() string
	Kind() Kind
	Balance() decimal.Decimal

	// Deposit credits the balance and records one narrative entry.
	// It never fails; sign policy is the boundary layer's concern.
	Deposit(amount decimal.Decimal)

	// Withdraw debits the balance under the kind's withdrawal rule.
	// On failure the balance and narrative are left untouched.
	Withdraw(amount decimal.Decimal) error

	// Display renders a one-line summary: kind, owner, balance and the
	// kind-specific limit.
	Display() string

	// TransactionHistory returns the narrative entries in insertion order.
	// The returned slice is a copy; mutating it does not affect the account.
	TransactionHistory() []string
}

// InterestBearing is the capability exposed by account kinds that accrue
// interest on demand. Callers test for it with an interface assertion
// instead of switching on the concrete kind.
type InterestBearing interface {
	// ApplyInterest deposits balance*rate/100 and records a second entry
	// for the interest application itself. Returns the interest amount.
	ApplyInterest() decimal.Decimal
}

// ledger carries the bookkeeping shared by every account kind. Only the
// account itself appends to the narrative.
type ledger struct {
	id      uuid.UUID
	owner   string
	balance decimal.Decimal
	history []string
}

func newLedger(owner string, balance decimal.Decimal) ledger {
	return ledger{
		id:      uuid.New(),
		owner:   owner,
		balance: balance,
	}
}

func (l *ledger) ID() uuid.UUID            { return l.id }
func (l *ledger) Owner() string            { return l.owner }
func (l *ledger) Balance() decimal.Decimal { return l.balance }

func (l *ledger) TransactionHistory() []string {
	return slices.Clone(l.history)
}

func (l *ledger) record(entry string) {
	l.history = append(l.history, entry)
}

func (l *ledger) credit(amount decimal.Decimal) {
	l.balance = l.balance.Add(amount)
	l.record("Deposited: $" + money.Format(amount))
}

func (l *ledger) debit(amount decimal.Decimal) {
	l.balance = l.balance.Sub(amount)
	l.record("Withdrawn: $" + money.Format(amount))
}
