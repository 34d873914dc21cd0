// Package repl implements the interactive text menu over the operation
// processor. It owns all prompting and printing; the processor only ever
// returns values and errors.
package repl

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	"bank_ledger/internal/processor"
	"bank_ledger/internal/repository"
	"bank_ledger/pkg/validator"
)

const menu = "\nChoose operation: \nD - Deposit\nW - Withdraw\nS - Show Account\nH - Show Transaction History\nA - Show All Accounts\nI - Apply Interest\nE - Exit\nChoice: "

type Loop struct {
	processor *processor.OperationProcessor
	validator *validator.AmountValidator
	in        *bufio.Scanner
	out       io.Writer
	logger    *slog.Logger
}

func NewLoop(proc *processor.OperationProcessor, in io.Reader, out io.Writer, logger *slog.Logger) *Loop {
	if logger == nil {
		logger = slog.Default()
	}

	scanner := bufio.NewScanner(in)
	scanner.Split(bufio.ScanWords)

	return &Loop{
		processor: proc,
		validator: validator.NewAmountValidator(),
		in:        scanner,
		out:       out,
		logger:    logger,
	}
}

// Run drives the menu until the user exits, input runs dry, or ctx is
// cancelled. Each iteration resolves one owner name and performs one
// operation against it.
func (l *Loop) Run(ctx context.Context) error {
	l.logger.Info("Interactive session started")
	defer l.logger.Info("Interactive session ended")

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		fmt.Fprint(l.out, "\nEnter account owner name (or 'exit' to quit): ")
		name, ok := l.next()
		if !ok || name == "exit" {
			return nil
		}

		if _, err := l.processor.Display(ctx, name); err != nil {
			fmt.Fprintln(l.out, "Account not found.")
			continue
		}

		fmt.Fprint(l.out, menu)
		choice, ok := l.next()
		if !ok {
			return nil
		}

		if done := l.dispatch(ctx, name, choice); done {
			return nil
		}
	}
}

// dispatch runs one menu choice and reports whether the loop should end.
func (l *Loop) dispatch(ctx context.Context, name, choice string) bool {
	switch strings.ToUpper(choice) {
	case "D":
		amount, ok := l.readAmount("Enter deposit amount: ")
		if !ok {
			return false
		}
		if _, err := l.processor.Deposit(ctx, name, amount); err != nil {
			fmt.Fprintf(l.out, "Error: %v\n", err)
			return false
		}
		fmt.Fprintln(l.out, "Deposit successful.")

	case "W":
		amount, ok := l.readAmount("Enter withdrawal amount: ")
		if !ok {
			return false
		}
		if _, err := l.processor.Withdraw(ctx, name, amount); err != nil {
			fmt.Fprintf(l.out, "Error: %v\n", err)
			return false
		}
		fmt.Fprintln(l.out, "Withdrawal successful.")

	case "S":
		summary, err := l.processor.Display(ctx, name)
		if err != nil {
			fmt.Fprintln(l.out, "Account not found.")
			return false
		}
		fmt.Fprintln(l.out, summary)

	case "H":
		entries, err := l.processor.History(ctx, name)
		if err != nil {
			fmt.Fprintln(l.out, "Account not found.")
			return false
		}
		fmt.Fprintf(l.out, "Transaction History for %s:\n", name)
		for _, entry := range entries {
			fmt.Fprintln(l.out, entry)
		}

	case "A":
		for _, line := range l.processor.DisplayAll(ctx) {
			fmt.Fprintln(l.out, line)
		}

	case "I":
		_, err := l.processor.ApplyInterest(ctx, name)
		switch {
		case err == nil:
			fmt.Fprintln(l.out, "Interest applied.")
		case errors.Is(err, processor.ErrUnsupportedCapability):
			fmt.Fprintln(l.out, "This account does not support interest calculation.")
		case errors.Is(err, repository.ErrNotFound):
			fmt.Fprintln(l.out, "Account not found.")
		default:
			fmt.Fprintf(l.out, "Error: %v\n", err)
		}

	case "E":
		return true

	default:
		fmt.Fprintln(l.out, "Invalid choice.")
	}

	return false
}

func (l *Loop) readAmount(prompt string) (decimal.Decimal, bool) {
	fmt.Fprint(l.out, prompt)
	raw, ok := l.next()
	if !ok {
		return decimal.Zero, false
	}

	parsed, err := l.validator.Parse(raw)
	if err != nil {
		fmt.Fprintln(l.out, "Invalid amount.")
		return decimal.Zero, false
	}
	return parsed, true
}

func (l *Loop) next() (string, bool) {
	if !l.in.Scan() {
		return "", false
	}
	return l.in.Text(), true
}
