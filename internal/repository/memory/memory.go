package memory

import (
	"bank_ledger/internal/repository"
)

var _ repository.AccountCollection = (*AccountCollection)(nil)
