package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"bank_ledger/internal/domain"
)

func TestAuditTrail_RecordAndDrain(t *testing.T) {
	sink := &MemorySink{}
	trail := NewAuditTrail(2, nil, sink)

	event := domain.OperationEvent{
		AccountID: uuid.New(),
		Owner:     "Laurie",
		Kind:      domain.KindSavings,
		Operation: domain.OpDeposit,
		Amount:    decimal.NewFromInt(100),
		Balance:   decimal.NewFromInt(5100),
		Succeeded: true,
		Timestamp: time.Now(),
	}
	if err := trail.Record(context.Background(), event); err != nil {
		t.Fatalf("unexpected error on Record: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := trail.Shutdown(ctx); err != nil {
		t.Fatalf("shutdown failed: %v", err)
	}

	lines := sink.Lines()
	if len(lines) != 1 {
		t.Fatalf("expected 1 journaled line, got %d", len(lines))
	}
	if !strings.Contains(lines[0], "Laurie deposit amount=100.00 balance=5100.00 [ok]") {
		t.Errorf("unexpected journal line: %q", lines[0])
	}
}

func TestAuditTrail_RefusedOperationLine(t *testing.T) {
	sink := &MemorySink{}
	trail := NewAuditTrail(1, nil, sink)

	event := domain.OperationEvent{
		AccountID: uuid.New(),
		Owner:     "Larry",
		Kind:      domain.KindChecking,
		Operation: domain.OpWithdraw,
		Amount:    decimal.NewFromInt(9000),
		Balance:   decimal.NewFromInt(300),
		Succeeded: false,
		Reason:    "overdraft limit exceeded",
		Timestamp: time.Now(),
	}
	_ = trail.Record(context.Background(), event)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := trail.Shutdown(ctx); err != nil {
		t.Fatalf("shutdown failed: %v", err)
	}

	lines := sink.Lines()
	if len(lines) != 1 {
		t.Fatalf("expected 1 journaled line, got %d", len(lines))
	}
	if !strings.Contains(lines[0], "[refused: overdraft limit exceeded]") {
		t.Errorf("expected refusal reason in line, got %q", lines[0])
	}
}
