package metrics

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type MetricsCollector struct {
	registry            *prometheus.Registry
	operationsProcessed prometheus.Counter
	operationsFailed    prometheus.Counter
	operationDuration   prometheus.Histogram
	accountBalance      *prometheus.GaugeVec
	accountsHeld        prometheus.Gauge
	mu                  sync.RWMutex
	logger              *slog.Logger
}

func NewMetricsCollector(logger *slog.Logger) *MetricsCollector {
	if logger == nil {
		logger = slog.Default()
	}

	registry := prometheus.NewRegistry()

	collector := &MetricsCollector{
		registry: registry,
		operationsProcessed: promauto.With(registry).NewCounter(prometheus.CounterOpts{
			Name: "ledger_operations_total",
			Help: "Total number of completed ledger operations",
		}),
		operationsFailed: promauto.With(registry).NewCounter(prometheus.CounterOpts{
			Name: "ledger_operations_failed_total",
			Help: "Total number of failed ledger operations",
		}),
		operationDuration: promauto.With(registry).NewHistogram(prometheus.HistogramOpts{
			Name:    "ledger_operation_duration_seconds",
			Help:    "Time taken to complete a ledger operation",
			Buckets: prometheus.DefBuckets,
		}),
		accountBalance: promauto.With(registry).NewGaugeVec(prometheus.GaugeOpts{
			Name: "ledger_account_balance",
			Help: "Current account balance",
		}, []string{"owner", "kind"}),
		accountsHeld: promauto.With(registry).NewGauge(prometheus.GaugeOpts{
			Name: "ledger_accounts_held",
			Help: "Number of accounts currently held in the collection",
		}),
		logger: logger,
	}

	return collector
}

func (m *MetricsCollector) RecordOperation(duration time.Duration, success bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if success {
		m.operationsProcessed.Inc()
	} else {
		m.operationsFailed.Inc()
	}

	m.operationDuration.Observe(duration.Seconds())
}

func (m *MetricsCollector) UpdateAccountBalance(owner, kind string, balance float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accountBalance.WithLabelValues(owner, kind).Set(balance)
}

func (m *MetricsCollector) RemoveAccountBalance(owner, kind string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accountBalance.DeleteLabelValues(owner, kind)
}

func (m *MetricsCollector) SetAccountsHeld(count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accountsHeld.Set(float64(count))
}

func (m *MetricsCollector) GetHandler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *MetricsCollector) StartMetricsServer(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.GetHandler())

	server := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	go func() {
		m.logger.Info("Starting metrics server", slog.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			m.logger.Error("Metrics server failed", slog.String("error", err.Error()))
		}
	}()

	return server
}

func (m *MetricsCollector) Shutdown(ctx context.Context) error {
	m.logger.Info("Metrics collector shutdown complete")
	return nil
}
