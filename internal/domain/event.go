package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type OperationType string

const (
	OpOpen     OperationType = "open"
	OpClose    OperationType = "close"
	OpDeposit  OperationType = "deposit"
	OpWithdraw OperationType = "withdraw"
	OpInterest OperationType = "interest"
)

// OperationEvent records one attempted mutation for the audit trail.
type OperationEvent struct {
	AccountID uuid.UUID
	Owner     string
	Kind      Kind
	Operation OperationType
	Amount    decimal.Decimal
	Balance   decimal.Decimal
	Succeeded bool
	Reason    string
	Timestamp time.Time
}
