package memory

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"bank_ledger/internal/domain"
	"bank_ledger/internal/repository"
)

// AccountCollection is an in-memory, most-recent-first account container.
// New accounts are inserted at the front, so traversal (and therefore
// first-match lookup under duplicate names) visits the newest account first.
type AccountCollection struct {
	mu       sync.RWMutex
	accounts []domain.Account
}

func NewAccountCollection() *AccountCollection {
	return &AccountCollection{}
}

func (c *AccountCollection) Add(ctx context.Context, account domain.Account) error {
	if account == nil {
		return repository.ErrNilAccount
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.accounts = slices.Insert(c.accounts, 0, account)
	return nil
}

func (c *AccountCollection) Find(ctx context.Context, owner string) (domain.Account, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, account := range c.accounts {
		if account.Owner() == owner {
			return account, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", repository.ErrNotFound, owner)
}

// Remove deletes the first account whose owner matches and reports whether a
// match was found. With duplicate names only one account is removed per call.
func (c *AccountCollection) Remove(ctx context.Context, owner string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, account := range c.accounts {
		if account.Owner() == owner {
			c.accounts = slices.Delete(c.accounts, i, i+1)
			return true
		}
	}
	return false
}

// ListAll returns a snapshot of the held accounts in traversal order.
func (c *AccountCollection) ListAll(ctx context.Context) []domain.Account {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return slices.Clone(c.accounts)
}

func (c *AccountCollection) Len(ctx context.Context) int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.accounts)
}
