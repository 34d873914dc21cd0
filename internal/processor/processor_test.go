package processor

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"

	"bank_ledger/internal/domain"
	"bank_ledger/internal/repository"
	"bank_ledger/internal/repository/memory"
)

type recordingAudit struct {
	mu     sync.Mutex
	events []domain.OperationEvent
}

func (r *recordingAudit) Record(ctx context.Context, event domain.OperationEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

func (r *recordingAudit) all() []domain.OperationEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.OperationEvent(nil), r.events...)
}

func newProcessor(t *testing.T) (*OperationProcessor, *recordingAudit) {
	t.Helper()
	audit := &recordingAudit{}
	proc := NewOperationProcessor(memory.NewAccountCollection(), audit, nil)
	return proc, audit
}

func mustOpen(t *testing.T, proc *OperationProcessor, kind domain.Kind, owner string, balance, extra int64) {
	t.Helper()
	_, err := proc.OpenAccount(context.Background(), kind, owner,
		decimal.NewFromInt(balance), decimal.NewFromInt(extra))
	if err != nil {
		t.Fatalf("open account failed: %v", err)
	}
}

func TestOperationProcessor_DepositAndWithdraw(t *testing.T) {
	ctx := context.Background()
	proc, _ := newProcessor(t)
	mustOpen(t, proc, domain.KindSavings, "Laurie", 5000, 2)

	res, err := proc.Deposit(ctx, "Laurie", decimal.NewFromInt(1000))
	if err != nil {
		t.Fatalf("unexpected error on Deposit: %v", err)
	}
	if !res.Balance.Equal(decimal.NewFromInt(6000)) {
		t.Errorf("expected balance 6000, got %s", res.Balance)
	}

	res, err = proc.Withdraw(ctx, "Laurie", decimal.NewFromInt(2000))
	if err != nil {
		t.Fatalf("unexpected error on Withdraw: %v", err)
	}
	if !res.Balance.Equal(decimal.NewFromInt(4000)) {
		t.Errorf("expected balance 4000, got %s", res.Balance)
	}
}

func TestOperationProcessor_WithdrawInsufficientFunds(t *testing.T) {
	ctx := context.Background()
	proc, _ := newProcessor(t)
	mustOpen(t, proc, domain.KindSavings, "Laurie", 4000, 2)

	_, err := proc.Withdraw(ctx, "Laurie", decimal.NewFromInt(5000))

	if !errors.Is(err, domain.ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}
	history, _ := proc.History(ctx, "Laurie")
	if len(history) != 0 {
		t.Errorf("failed withdrawal must not append to the narrative, got %v", history)
	}
}

func TestOperationProcessor_AccountNotFound(t *testing.T) {
	ctx := context.Background()
	proc, _ := newProcessor(t)

	if _, err := proc.Deposit(ctx, "nobody", decimal.NewFromInt(1)); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("Deposit: expected ErrNotFound, got %v", err)
	}
	if _, err := proc.Display(ctx, "nobody"); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("Display: expected ErrNotFound, got %v", err)
	}
	if _, err := proc.CloseAccount(ctx, "nobody"); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("CloseAccount: expected ErrNotFound, got %v", err)
	}
}

func TestOperationProcessor_ApplyInterest(t *testing.T) {
	ctx := context.Background()
	proc, _ := newProcessor(t)
	mustOpen(t, proc, domain.KindSavings, "David", 10000, 2)

	res, err := proc.ApplyInterest(ctx, "David")
	if err != nil {
		t.Fatalf("unexpected error on ApplyInterest: %v", err)
	}
	if !res.Balance.Equal(decimal.NewFromInt(10200)) {
		t.Errorf("expected balance 10200, got %s", res.Balance)
	}

	history, _ := proc.History(ctx, "David")
	if len(history) != 2 {
		t.Fatalf("interest application should append two entries, got %d", len(history))
	}
}

func TestOperationProcessor_InterestUnsupported(t *testing.T) {
	ctx := context.Background()
	proc, audit := newProcessor(t)
	mustOpen(t, proc, domain.KindChecking, "Larry", 1000, 500)

	_, err := proc.ApplyInterest(ctx, "Larry")

	if !errors.Is(err, ErrUnsupportedCapability) {
		t.Fatalf("expected ErrUnsupportedCapability, got %v", err)
	}
	history, _ := proc.History(ctx, "Larry")
	if len(history) != 0 {
		t.Errorf("refused interest must not touch the narrative")
	}

	events := audit.all()
	last := events[len(events)-1]
	if last.Succeeded || last.Operation != domain.OpInterest {
		t.Errorf("expected failed interest audit event, got %+v", last)
	}
}

func TestOperationProcessor_UnknownKind(t *testing.T) {
	ctx := context.Background()
	proc, _ := newProcessor(t)

	_, err := proc.OpenAccount(ctx, domain.Kind("money_market"), "X", decimal.Zero, decimal.Zero)

	if !errors.Is(err, domain.ErrUnknownAccountKind) {
		t.Fatalf("expected ErrUnknownAccountKind, got %v", err)
	}
}

func TestOperationProcessor_DisplayAllOrder(t *testing.T) {
	ctx := context.Background()
	proc, _ := newProcessor(t)
	mustOpen(t, proc, domain.KindSavings, "Laurie", 5000, 2)
	mustOpen(t, proc, domain.KindChecking, "Larry", 1000, 500)

	lines := proc.DisplayAll(ctx)

	if len(lines) != 2 {
		t.Fatalf("expected 2 summaries, got %d", len(lines))
	}
	if lines[0] != "Checking Account: Larry | Balance: $1000.00 | Overdraft Limit: $500.00" {
		t.Errorf("most recently opened account should display first, got %q", lines[0])
	}
}

func TestOperationProcessor_AuditEvents(t *testing.T) {
	ctx := context.Background()
	proc, audit := newProcessor(t)
	mustOpen(t, proc, domain.KindSavings, "Laurie", 5000, 2)

	_, _ = proc.Deposit(ctx, "Laurie", decimal.NewFromInt(100))
	_, _ = proc.Withdraw(ctx, "Laurie", decimal.NewFromInt(50))

	events := audit.all()
	if len(events) != 3 {
		t.Fatalf("expected 3 audit events (open, deposit, withdraw), got %d", len(events))
	}
	ops := []domain.OperationType{domain.OpOpen, domain.OpDeposit, domain.OpWithdraw}
	for i, want := range ops {
		if events[i].Operation != want {
			t.Errorf("event %d: expected %s, got %s", i, want, events[i].Operation)
		}
		if !events[i].Succeeded {
			t.Errorf("event %d should be marked successful", i)
		}
	}
}

func TestOperationProcessor_Metrics(t *testing.T) {
	ctx := context.Background()
	proc, _ := newProcessor(t)
	mustOpen(t, proc, domain.KindSavings, "Laurie", 100, 2)

	_, _ = proc.Deposit(ctx, "Laurie", decimal.NewFromInt(10))
	_, _ = proc.Withdraw(ctx, "Laurie", decimal.NewFromInt(5000))

	m := proc.GetMetrics()
	if m["accounts_opened"] != 1 || m["deposits"] != 1 || m["withdrawals_refused"] != 1 {
		t.Errorf("unexpected metrics snapshot: %v", m)
	}
}
