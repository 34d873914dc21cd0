package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server ServerConfig
	Audit  AuditConfig
	Ledger LedgerConfig
}

type ServerConfig struct {
	HTTPAddr        string
	MetricsAddr     string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

type AuditConfig struct {
	Workers int
}

type LedgerConfig struct {
	SeedDemoAccounts bool
	StatementSecret  string
}

// Load reads configuration from the environment, after loading a .env file
// if one is present. Every value has a working default so the binary runs
// with no configuration at all.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			HTTPAddr:        getEnv("LEDGER_HTTP_ADDR", ":8080"),
			MetricsAddr:     getEnv("LEDGER_METRICS_ADDR", ":9090"),
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 30 * time.Second,
		},
		Audit: AuditConfig{
			Workers: 3,
		},
		Ledger: LedgerConfig{
			SeedDemoAccounts: true,
			StatementSecret:  getEnv("LEDGER_STATEMENT_SECRET", "dev-statement-secret"),
		},
	}

	if raw := os.Getenv("LEDGER_AUDIT_WORKERS"); raw != "" {
		workers, err := strconv.Atoi(raw)
		if err != nil || workers < 1 {
			return nil, fmt.Errorf("invalid LEDGER_AUDIT_WORKERS %q", raw)
		}
		cfg.Audit.Workers = workers
	}

	if raw := os.Getenv("LEDGER_SEED_DEMO_ACCOUNTS"); raw != "" {
		seed, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid LEDGER_SEED_DEMO_ACCOUNTS %q", raw)
		}
		cfg.Ledger.SeedDemoAccounts = seed
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
