package repository

import (
	"context"
	"errors"

	"bank_ledger/internal/domain"
)

// AccountCollection owns every account it holds; removing an account from
// the collection is its sole destruction path. Duplicate owner names are
// legal and create independently addressable accounts; Find and Remove
// resolve to the first match in traversal order, which is most-recent-first.
type AccountCollection interface {
	Add(ctx context.Context, account domain.Account) error
	Find(ctx context.Context, owner string) (domain.Account, error)
	Remove(ctx context.Context, owner string) bool
	ListAll(ctx context.Context) []domain.Account
	Len(ctx context.Context) int
}

var (
	ErrNotFound   = errors.New("account not found")
	ErrNilAccount = errors.New("nil account")
)
