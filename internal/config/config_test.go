package config

import "testing"

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.HTTPAddr != ":8080" {
		t.Errorf("expected default HTTP addr :8080, got %s", cfg.Server.HTTPAddr)
	}
	if cfg.Server.MetricsAddr != ":9090" {
		t.Errorf("expected default metrics addr :9090, got %s", cfg.Server.MetricsAddr)
	}
	if cfg.Audit.Workers != 3 {
		t.Errorf("expected 3 audit workers, got %d", cfg.Audit.Workers)
	}
	if !cfg.Ledger.SeedDemoAccounts {
		t.Error("expected demo accounts seeded by default")
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("LEDGER_HTTP_ADDR", ":9999")
	t.Setenv("LEDGER_AUDIT_WORKERS", "5")
	t.Setenv("LEDGER_SEED_DEMO_ACCOUNTS", "false")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.HTTPAddr != ":9999" {
		t.Errorf("expected :9999, got %s", cfg.Server.HTTPAddr)
	}
	if cfg.Audit.Workers != 5 {
		t.Errorf("expected 5 workers, got %d", cfg.Audit.Workers)
	}
	if cfg.Ledger.SeedDemoAccounts {
		t.Error("expected seeding disabled")
	}
}

func TestLoad_InvalidWorkers(t *testing.T) {
	t.Setenv("LEDGER_AUDIT_WORKERS", "zero")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for invalid worker count")
	}
}
