package processor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"bank_ledger/internal/domain"
	"bank_ledger/internal/repository"
)

// ErrUnsupportedCapability means interest application was requested on an
// account kind that does not bear interest.
var ErrUnsupportedCapability = errors.New("account does not support interest")

// AuditRecorder receives one event per attempted mutation.
type AuditRecorder interface {
	Record(ctx context.Context, event domain.OperationEvent) error
}

// OperationProcessor drives the account collection through the ledger
// operations. It owns no state beyond the collection handle; all balance and
// narrative mutation happens inside the accounts themselves.
type OperationProcessor struct {
	accounts  repository.AccountCollection
	audit     AuditRecorder
	mu        sync.RWMutex
	metricsMu sync.RWMutex
	metrics   map[string]int
	logger    *slog.Logger
}

func NewOperationProcessor(
	accounts repository.AccountCollection,
	audit AuditRecorder,
	logger *slog.Logger,
) *OperationProcessor {
	if logger == nil {
		logger = slog.Default()
	}

	return &OperationProcessor{
		accounts: accounts,
		audit:    audit,
		metrics:  make(map[string]int),
		logger:   logger,
	}
}

type OperationResult struct {
	AccountID uuid.UUID
	Owner     string
	Kind      domain.Kind
	Balance   decimal.Decimal
}

func resultFor(account domain.Account) *OperationResult {
	return &OperationResult{
		AccountID: account.ID(),
		Owner:     account.Owner(),
		Kind:      account.Kind(),
		Balance:   account.Balance(),
	}
}

func (p *OperationProcessor) OpenAccount(
	ctx context.Context,
	kind domain.Kind,
	owner string,
	balance, extra decimal.Decimal,
) (domain.Account, error) {
	account, err := domain.New(kind, owner, balance, extra)
	if err != nil {
		p.recordMetric("accounts_open_failed", 1)
		return nil, err
	}

	if err := p.accounts.Add(ctx, account); err != nil {
		return nil, fmt.Errorf("add account: %w", err)
	}

	p.recordMetric("accounts_opened", 1)
	p.emit(ctx, account, domain.OpOpen, balance, nil)
	p.logger.InfoContext(ctx, "Account opened",
		slog.String("owner", owner),
		slog.String("kind", string(kind)))
	return account, nil
}

func (p *OperationProcessor) CloseAccount(ctx context.Context, owner string) (*OperationResult, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	account, err := p.accounts.Find(ctx, owner)
	if err != nil {
		return nil, err
	}

	p.accounts.Remove(ctx, owner)
	p.recordMetric("accounts_closed", 1)
	p.emit(ctx, account, domain.OpClose, decimal.Zero, nil)
	p.logger.InfoContext(ctx, "Account closed", slog.String("owner", owner))
	return resultFor(account), nil
}

func (p *OperationProcessor) Deposit(
	ctx context.Context,
	owner string,
	amount decimal.Decimal,
) (*OperationResult, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	account, err := p.accounts.Find(ctx, owner)
	if err != nil {
		return nil, err
	}

	account.Deposit(amount)
	p.recordMetric("deposits", 1)
	p.emit(ctx, account, domain.OpDeposit, amount, nil)
	return resultFor(account), nil
}

func (p *OperationProcessor) Withdraw(
	ctx context.Context,
	owner string,
	amount decimal.Decimal,
) (*OperationResult, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	account, err := p.accounts.Find(ctx, owner)
	if err != nil {
		return nil, err
	}

	if err := account.Withdraw(amount); err != nil {
		p.recordMetric("withdrawals_refused", 1)
		p.emit(ctx, account, domain.OpWithdraw, amount, err)
		return nil, err
	}

	p.recordMetric("withdrawals", 1)
	p.emit(ctx, account, domain.OpWithdraw, amount, nil)
	return resultFor(account), nil
}

// ApplyInterest performs the capability check for the caller: accounts that
// do not implement domain.InterestBearing are refused here, never inside the
// account itself.
func (p *OperationProcessor) ApplyInterest(
	ctx context.Context,
	owner string,
) (*OperationResult, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	account, err := p.accounts.Find(ctx, owner)
	if err != nil {
		return nil, err
	}

	bearing, ok := account.(domain.InterestBearing)
	if !ok {
		p.recordMetric("interest_refused", 1)
		p.emit(ctx, account, domain.OpInterest, decimal.Zero, ErrUnsupportedCapability)
		return nil, fmt.Errorf("%w: %s account %s", ErrUnsupportedCapability, account.Kind(), owner)
	}

	interest := bearing.ApplyInterest()
	p.recordMetric("interest_applied", 1)
	p.emit(ctx, account, domain.OpInterest, interest, nil)
	return resultFor(account), nil
}

func (p *OperationProcessor) Display(ctx context.Context, owner string) (string, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	account, err := p.accounts.Find(ctx, owner)
	if err != nil {
		return "", err
	}
	return account.Display(), nil
}

func (p *OperationProcessor) History(ctx context.Context, owner string) ([]string, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	account, err := p.accounts.Find(ctx, owner)
	if err != nil {
		return nil, err
	}
	return account.TransactionHistory(), nil
}

// DisplayAll returns one summary line per held account in traversal order.
func (p *OperationProcessor) DisplayAll(ctx context.Context) []string {
	p.mu.RLock()
	defer p.mu.RUnlock()

	accounts := p.accounts.ListAll(ctx)
	lines := make([]string, 0, len(accounts))
	for _, account := range accounts {
		lines = append(lines, account.Display())
	}
	return lines
}

func (p *OperationProcessor) AccountsHeld(ctx context.Context) int {
	return p.accounts.Len(ctx)
}

func (p *OperationProcessor) GetMetrics() map[string]int {
	p.metricsMu.RLock()
	defer p.metricsMu.RUnlock()

	snapshot := make(map[string]int, len(p.metrics))
	for k, v := range p.metrics {
		snapshot[k] = v
	}
	return snapshot
}

func (p *OperationProcessor) recordMetric(key string, value int) {
	p.metricsMu.Lock()
	defer p.metricsMu.Unlock()
	p.metrics[key] += value
}

func (p *OperationProcessor) emit(
	ctx context.Context,
	account domain.Account,
	op domain.OperationType,
	amount decimal.Decimal,
	opErr error,
) {
	if p.audit == nil {
		return
	}

	event := domain.OperationEvent{
		AccountID: account.ID(),
		Owner:     account.Owner(),
		Kind:      account.Kind(),
		Operation: op,
		Amount:    amount,
		Balance:   account.Balance(),
		Succeeded: opErr == nil,
		Timestamp: time.Now(),
	}
	if opErr != nil {
		event.Reason = opErr.Error()
	}

	if err := p.audit.Record(ctx, event); err != nil {
		p.logger.WarnContext(ctx, "Audit record failed",
			slog.String("owner", account.Owner()),
			slog.String("operation", string(op)),
			slog.String("error", err.Error()))
	}
}
