package domain

import "errors"

var (
	// ErrInsufficientFunds means a savings withdrawal exceeded the balance.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrOverdraftExceeded means a checking withdrawal exceeded the balance
	// plus the overdraft allowance.
	ErrOverdraftExceeded = errors.New("overdraft limit exceeded")

	// ErrUnknownAccountKind means the factory was asked for a kind it does
	// not know how to build.
	ErrUnknownAccountKind = errors.New("unknown account kind")
)
