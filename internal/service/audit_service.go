package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"bank_ledger/internal/domain"
)

// AuditSink receives formatted audit lines. Implementations must tolerate
// concurrent calls from multiple workers.
type AuditSink interface {
	Write(line string, event domain.OperationEvent) error
}

// AuditTrail journals operation events off the hot path. Events are queued
// on a buffered channel and drained by a small worker pool; the ledger
// operations themselves never block on a slow sink.
type AuditTrail struct {
	sinks        []AuditSink
	eventQueue   chan domain.OperationEvent
	workers      int
	shutdownChan chan struct{}
	shutdownOnce sync.Once
	wg           sync.WaitGroup
	logger       *slog.Logger
}

func NewAuditTrail(workers int, logger *slog.Logger, sinks ...AuditSink) *AuditTrail {
	if logger == nil {
		logger = slog.Default()
	}
	if workers < 1 {
		workers = 1
	}

	trail := &AuditTrail{
		sinks:        sinks,
		eventQueue:   make(chan domain.OperationEvent, 1000),
		workers:      workers,
		shutdownChan: make(chan struct{}),
		logger:       logger,
	}

	trail.startWorkers()

	return trail
}

// Record queues an event for journaling. It blocks only when the queue is
// full, and respects ctx cancellation while waiting.
func (t *AuditTrail) Record(ctx context.Context, event domain.OperationEvent) error {
	select {
	case t.eventQueue <- event:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (t *AuditTrail) startWorkers() {
	for i := 0; i < t.workers; i++ {
		t.wg.Add(1)
		go t.worker(i)
	}
}

func (t *AuditTrail) worker(id int) {
	defer t.wg.Done()

	t.logger.Info("Audit worker started", slog.Int("worker_id", id))

	for {
		select {
		case event := <-t.eventQueue:
			t.processEvent(event, id)
		case <-t.shutdownChan:
			t.logger.Info("Audit worker stopping", slog.Int("worker_id", id))
			return
		}
	}
}

func (t *AuditTrail) processEvent(event domain.OperationEvent, workerID int) {
	line := formatAuditLine(event)

	for _, sink := range t.sinks {
		if err := sink.Write(line, event); err != nil {
			t.logger.Error("Audit sink write failed",
				slog.String("owner", event.Owner),
				slog.String("operation", string(event.Operation)),
				slog.String("error", err.Error()),
				slog.Int("worker_id", workerID))
		}
	}

	t.logger.Info("Operation journaled",
		slog.String("owner", event.Owner),
		slog.String("kind", string(event.Kind)),
		slog.String("operation", string(event.Operation)),
		slog.String("amount", event.Amount.String()),
		slog.String("balance", event.Balance.String()),
		slog.Bool("succeeded", event.Succeeded),
		slog.Int("worker_id", workerID))
}

func formatAuditLine(event domain.OperationEvent) string {
	outcome := "ok"
	if !event.Succeeded {
		outcome = "refused: " + event.Reason
	}
	return fmt.Sprintf("%s %s %s %s amount=%s balance=%s [%s]",
		event.Timestamp.Format(time.RFC3339),
		event.AccountID,
		event.Owner,
		event.Operation,
		event.Amount.StringFixed(2),
		event.Balance.StringFixed(2),
		outcome)
}

// Shutdown stops the workers after the queue drains or ctx expires. It is
// safe to call more than once.
func (t *AuditTrail) Shutdown(ctx context.Context) error {
	// Let workers finish what is already queued before signalling stop.
	for len(t.eventQueue) > 0 {
		select {
		case <-ctx.Done():
			t.shutdownOnce.Do(func() { close(t.shutdownChan) })
			return ctx.Err()
		case <-time.After(10 * time.Millisecond):
		}
	}

	t.shutdownOnce.Do(func() { close(t.shutdownChan) })

	done := make(chan struct{})
	go func() {
		t.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		t.logger.Info("Audit trail shutdown complete")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// MemorySink keeps journaled lines in memory, primarily for tests and the
// REPL's session journal.
type MemorySink struct {
	mu    sync.Mutex
	lines []string
}

func (s *MemorySink) Write(line string, _ domain.OperationEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines = append(s.lines, line)
	return nil
}

func (s *MemorySink) Lines() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.lines...)
}
