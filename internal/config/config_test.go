package config

import (
	"os"
	"strings"
	"testing"
	"time"
)

// clearEnv unsets every variable the config reads, restoring on cleanup.
func clearEnv(t *testing.T) {
	t.Helper()
	keys := []string{
		"PORT", "STATEMENTS_DIR", "RULES_PATH", "DATA_BACKEND", "SQLITE_DB_PATH",
		"AMQP_URL", "AMQP_EXCHANGE", "AMQP_QUEUE",
		"REPORT_OUT_DIR", "GOOGLE_SPREADSHEET_ID", "GOOGLE_SHEET_NAME",
		"GOLD_HISTORY_PATH", "GOLD_FETCH_LIMIT", "HTTP_TIMEOUT",
	}
	for _, k := range keys {
		old, had := os.LookupEnv(k)
		os.Unsetenv(k)
		if had {
			t.Cleanup(func() { os.Setenv(k, old) })
		}
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	cfg := Load()

	if cfg.Port != "8081" {
		t.Errorf("Port = %q, want 8081", cfg.Port)
	}
	if cfg.DataBackend != "csv" {
		t.Errorf("DataBackend = %q, want csv", cfg.DataBackend)
	}
	if cfg.StatementsDir != "./expense_reports" {
		t.Errorf("StatementsDir = %q", cfg.StatementsDir)
	}
	if cfg.HTTPTimeout != 15*time.Second {
		t.Errorf("HTTPTimeout = %v", cfg.HTTPTimeout)
	}
	if cfg.GoldFetchLimit != 4 {
		t.Errorf("GoldFetchLimit = %d", cfg.GoldFetchLimit)
	}
}

func TestLoadFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9000")
	t.Setenv("DATA_BACKEND", "sqlite")
	t.Setenv("HTTP_TIMEOUT", "30s")
	t.Setenv("GOLD_FETCH_LIMIT", "8")

	cfg := Load()
	if cfg.Port != "9000" {
		t.Errorf("Port = %q, want 9000", cfg.Port)
	}
	if cfg.DataBackend != "sqlite" {
		t.Errorf("DataBackend = %q, want sqlite", cfg.DataBackend)
	}
	if cfg.HTTPTimeout != 30*time.Second {
		t.Errorf("HTTPTimeout = %v, want 30s", cfg.HTTPTimeout)
	}
	if cfg.GoldFetchLimit != 8 {
		t.Errorf("GoldFetchLimit = %d, want 8", cfg.GoldFetchLimit)
	}
}

func TestValidateOK(t *testing.T) {
	clearEnv(t)
	cfg := Load()
	cfg.SQLiteDBPath = t.TempDir() + "/finance.db"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected valid default config, got: %v", err)
	}
}

func TestValidateCollectsAllProblems(t *testing.T) {
	clearEnv(t)
	cfg := Load()
	cfg.Port = "notaport"
	cfg.DataBackend = "redis"
	cfg.AMQPURL = "http://wrong-scheme"
	cfg.GoldFetchLimit = 0

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	msg := err.Error()
	for _, want := range []string{"invalid port", "invalid data backend", "invalid AMQP URL scheme", "gold fetch limit"} {
		if !strings.Contains(msg, want) {
			t.Errorf("error message missing %q:\n%s", want, msg)
		}
	}
}

func TestValidateAMQPNames(t *testing.T) {
	clearEnv(t)
	cfg := Load()
	cfg.AMQPExchange = ""
	cfg.AMQPQueue = ""

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(err.Error(), "exchange name") || !strings.Contains(err.Error(), "queue name") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestValidateMissingRuleset(t *testing.T) {
	clearEnv(t)
	cfg := Load()
	cfg.RulesPath = "/nonexistent/rules.json"

	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "ruleset file does not exist") {
		t.Fatalf("expected ruleset error, got: %v", err)
	}
}
