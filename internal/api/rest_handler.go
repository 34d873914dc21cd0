package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"bank_ledger/internal/domain"
	"bank_ledger/internal/processor"
	"bank_ledger/internal/repository"
	"bank_ledger/pkg/crypto"
	"bank_ledger/pkg/metrics"
	"bank_ledger/pkg/validator"
)

type APIHandler struct {
	processor      *processor.OperationProcessor
	metrics        *metrics.MetricsCollector
	signer         *crypto.Signer
	validator      *validator.AmountValidator
	logger         *slog.Logger
	requestTimeout time.Duration
}

func NewAPIHandler(
	proc *processor.OperationProcessor,
	metricsCollector *metrics.MetricsCollector,
	signer *crypto.Signer,
	logger *slog.Logger,
) *APIHandler {
	if logger == nil {
		logger = slog.Default()
	}

	return &APIHandler{
		processor:      proc,
		metrics:        metricsCollector,
		signer:         signer,
		validator:      validator.NewAmountValidator(),
		logger:         logger,
		requestTimeout: 30 * time.Second,
	}
}

type OpenAccountRequest struct {
	Kind    domain.Kind `json:"kind"`
	Owner   string      `json:"owner"`
	Balance float64     `json:"balance"`
	// Limit is the interest rate percent for savings, the overdraft
	// allowance for checking.
	Limit float64 `json:"limit"`
}

type AmountRequest struct {
	Amount float64 `json:"amount"`
}

type AccountResponse struct {
	ID      string `json:"id,omitempty"`
	Owner   string `json:"owner"`
	Kind    string `json:"kind,omitempty"`
	Balance string `json:"balance,omitempty"`
	Summary string `json:"summary,omitempty"`
	Message string `json:"message,omitempty"`
}

type HistoryResponse struct {
	Owner     string   `json:"owner"`
	Entries   []string `json:"entries"`
	Signature string   `json:"signature"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func (h *APIHandler) OpenAccountHandler(w http.ResponseWriter, r *http.Request) {
	startTime := time.Now()

	ctx, cancel := context.WithTimeout(r.Context(), h.requestTimeout)
	defer cancel()

	var req OpenAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.sendError(w, "Invalid request body", http.StatusBadRequest, "INVALID_REQUEST")
		return
	}
	if req.Owner == "" {
		h.sendError(w, "owner is required", http.StatusBadRequest, "VALIDATION_ERROR")
		return
	}

	balance, err := h.validator.FromFloat(req.Balance)
	if err != nil {
		h.sendError(w, err.Error(), http.StatusBadRequest, "VALIDATION_ERROR")
		return
	}
	limit, err := h.validator.FromFloat(req.Limit)
	if err != nil {
		h.sendError(w, err.Error(), http.StatusBadRequest, "VALIDATION_ERROR")
		return
	}
	if limit.IsNegative() {
		h.sendError(w, "limit must be non-negative", http.StatusBadRequest, "VALIDATION_ERROR")
		return
	}

	account, err := h.processor.OpenAccount(ctx, req.Kind, req.Owner, balance, limit)
	h.recordOperation(startTime, err == nil)
	if err != nil {
		h.handleProcessorError(w, err)
		return
	}

	h.publishBalance(account.Owner(), string(account.Kind()), account.Balance())
	if h.metrics != nil {
		h.metrics.SetAccountsHeld(h.processor.AccountsHeld(ctx))
	}
	h.sendJSON(w, AccountResponse{
		ID:      account.ID().String(),
		Owner:   account.Owner(),
		Kind:    string(account.Kind()),
		Balance: account.Balance().StringFixed(2),
		Message: "Account opened successfully",
	}, http.StatusCreated)
}

func (h *APIHandler) CloseAccountHandler(w http.ResponseWriter, r *http.Request) {
	startTime := time.Now()
	owner := r.PathValue("owner")

	ctx, cancel := context.WithTimeout(r.Context(), h.requestTimeout)
	defer cancel()

	result, err := h.processor.CloseAccount(ctx, owner)
	h.recordOperation(startTime, err == nil)
	if err != nil {
		h.handleProcessorError(w, err)
		return
	}

	if h.metrics != nil {
		h.metrics.RemoveAccountBalance(result.Owner, string(result.Kind))
		h.metrics.SetAccountsHeld(h.processor.AccountsHeld(ctx))
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *APIHandler) DepositHandler(w http.ResponseWriter, r *http.Request) {
	h.mutateBalance(w, r, "deposit")
}

func (h *APIHandler) WithdrawHandler(w http.ResponseWriter, r *http.Request) {
	h.mutateBalance(w, r, "withdraw")
}

func (h *APIHandler) mutateBalance(w http.ResponseWriter, r *http.Request, op string) {
	startTime := time.Now()
	owner := r.PathValue("owner")

	ctx, cancel := context.WithTimeout(r.Context(), h.requestTimeout)
	defer cancel()

	var req AmountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.sendError(w, "Invalid request body", http.StatusBadRequest, "INVALID_REQUEST")
		return
	}

	amount, err := h.validator.FromFloat(req.Amount)
	if err != nil {
		h.sendError(w, err.Error(), http.StatusBadRequest, "VALIDATION_ERROR")
		return
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		h.sendError(w, "amount must be positive", http.StatusBadRequest, "VALIDATION_ERROR")
		return
	}

	var result *processor.OperationResult
	if op == "deposit" {
		result, err = h.processor.Deposit(ctx, owner, amount)
	} else {
		result, err = h.processor.Withdraw(ctx, owner, amount)
	}
	h.recordOperation(startTime, err == nil)
	if err != nil {
		h.handleProcessorError(w, err)
		return
	}

	h.publishBalance(result.Owner, string(result.Kind), result.Balance)
	h.sendJSON(w, AccountResponse{
		ID:      result.AccountID.String(),
		Owner:   result.Owner,
		Kind:    string(result.Kind),
		Balance: result.Balance.StringFixed(2),
		Message: fmt.Sprintf("%s successful", op),
	}, http.StatusOK)
}

func (h *APIHandler) ApplyInterestHandler(w http.ResponseWriter, r *http.Request) {
	startTime := time.Now()
	owner := r.PathValue("owner")

	ctx, cancel := context.WithTimeout(r.Context(), h.requestTimeout)
	defer cancel()

	result, err := h.processor.ApplyInterest(ctx, owner)
	h.recordOperation(startTime, err == nil)
	if err != nil {
		h.handleProcessorError(w, err)
		return
	}

	h.publishBalance(result.Owner, string(result.Kind), result.Balance)
	h.sendJSON(w, AccountResponse{
		ID:      result.AccountID.String(),
		Owner:   result.Owner,
		Kind:    string(result.Kind),
		Balance: result.Balance.StringFixed(2),
		Message: "interest applied",
	}, http.StatusOK)
}

func (h *APIHandler) GetAccountHandler(w http.ResponseWriter, r *http.Request) {
	owner := r.PathValue("owner")

	ctx, cancel := context.WithTimeout(r.Context(), h.requestTimeout)
	defer cancel()

	summary, err := h.processor.Display(ctx, owner)
	if err != nil {
		h.handleProcessorError(w, err)
		return
	}

	h.sendJSON(w, AccountResponse{Owner: owner, Summary: summary}, http.StatusOK)
}

func (h *APIHandler) ListAccountsHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.requestTimeout)
	defer cancel()

	h.sendJSON(w, map[string][]string{"accounts": h.processor.DisplayAll(ctx)}, http.StatusOK)
}

func (h *APIHandler) GetHistoryHandler(w http.ResponseWriter, r *http.Request) {
	owner := r.PathValue("owner")

	ctx, cancel := context.WithTimeout(r.Context(), h.requestTimeout)
	defer cancel()

	entries, err := h.processor.History(ctx, owner)
	if err != nil {
		h.handleProcessorError(w, err)
		return
	}

	h.sendJSON(w, HistoryResponse{
		Owner:     owner,
		Entries:   entries,
		Signature: h.signer.SignStatement(owner, entries),
	}, http.StatusOK)
}

func (h *APIHandler) HealthCheckHandler(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC(),
		"version":   "1.0.0",
	}
	h.sendJSON(w, response, http.StatusOK)
}

func (h *APIHandler) handleProcessorError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		h.sendError(w, "Account not found", http.StatusNotFound, "NOT_FOUND")
	case errors.Is(err, domain.ErrInsufficientFunds):
		h.sendError(w, err.Error(), http.StatusConflict, "INSUFFICIENT_FUNDS")
	case errors.Is(err, domain.ErrOverdraftExceeded):
		h.sendError(w, err.Error(), http.StatusConflict, "OVERDRAFT_EXCEEDED")
	case errors.Is(err, processor.ErrUnsupportedCapability):
		h.sendError(w, err.Error(), http.StatusBadRequest, "UNSUPPORTED_CAPABILITY")
	case errors.Is(err, domain.ErrUnknownAccountKind):
		h.sendError(w, err.Error(), http.StatusBadRequest, "UNKNOWN_KIND")
	default:
		h.logger.Error("Operation failed", slog.String("error", err.Error()))
		h.sendError(w, "Operation failed", http.StatusInternalServerError, "PROCESSING_ERROR")
	}
}

func (h *APIHandler) recordOperation(startTime time.Time, success bool) {
	if h.metrics != nil {
		h.metrics.RecordOperation(time.Since(startTime), success)
	}
}

func (h *APIHandler) publishBalance(owner, kind string, balance decimal.Decimal) {
	if h.metrics != nil {
		bal, _ := balance.Float64()
		h.metrics.UpdateAccountBalance(owner, kind, bal)
	}
}

func (h *APIHandler) sendJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("Failed to encode JSON response", slog.String("error", err.Error()))
	}
}

func (h *APIHandler) sendError(w http.ResponseWriter, message string, statusCode int, code string) {
	errorResponse := ErrorResponse{
		Error: message,
		Code:  code,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(errorResponse)

	h.logger.Warn("API error response",
		slog.String("message", message),
		slog.String("code", code),
		slog.Int("status", statusCode))
}

func (h *APIHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/v1/accounts", h.OpenAccountHandler)
	mux.HandleFunc("GET /api/v1/accounts", h.ListAccountsHandler)
	mux.HandleFunc("GET /api/v1/accounts/{owner}", h.GetAccountHandler)
	mux.HandleFunc("DELETE /api/v1/accounts/{owner}", h.CloseAccountHandler)
	mux.HandleFunc("POST /api/v1/accounts/{owner}/deposits", h.DepositHandler)
	mux.HandleFunc("POST /api/v1/accounts/{owner}/withdrawals", h.WithdrawHandler)
	mux.HandleFunc("POST /api/v1/accounts/{owner}/interest", h.ApplyInterestHandler)
	mux.HandleFunc("GET /api/v1/accounts/{owner}/history", h.GetHistoryHandler)
	mux.HandleFunc("GET /api/health", h.HealthCheckHandler)
}
