package config

import (
	"testing"
	"time"
)

func TestLoad_AppEnvValidation(t *testing.T) {
	t.Setenv("APP_ENV", "invalid")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid APP_ENV")
	}
}

func TestLoad_UptraceRequiresDSNWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when UPTRACE_ENABLED=true without UPTRACE_DSN")
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.HTTPAddr != ":8080" {
		t.Fatalf("unexpected HTTPAddr: %q", cfg.HTTPAddr)
	}
	if cfg.ServiceName != "fightlink-api" {
		t.Fatalf("unexpected ServiceName: %q", cfg.ServiceName)
	}
	if cfg.RingsideIntrospectPath != "/v1/auth/introspect" {
		t.Fatalf("unexpected RingsideIntrospectPath: %q", cfg.RingsideIntrospectPath)
	}
	if cfg.RecordWriteWorkers != 4 {
		t.Fatalf("unexpected RecordWriteWorkers: %d", cfg.RecordWriteWorkers)
	}
	if cfg.SessionFailClosed {
		t.Fatalf("expected SessionFailClosed=false by default")
	}
	if cfg.SessionAPIBaseURL != "http://localhost:8080" {
		t.Fatalf("unexpected SessionAPIBaseURL: %q", cfg.SessionAPIBaseURL)
	}
	if cfg.SessionPollInterval != 2*time.Second {
		t.Fatalf("unexpected SessionPollInterval: %s", cfg.SessionPollInterval)
	}
	if !cfg.CacheEnabled || cfg.CacheTTL != 60*time.Second {
		t.Fatalf("unexpected cache config: enabled=%t ttl=%s", cfg.CacheEnabled, cfg.CacheTTL)
	}
}

func TestLoad_RingsideCircuitParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("RINGSIDE_CIRCUIT_ENABLED", "true")
	t.Setenv("RINGSIDE_CIRCUIT_FAILURE_COUNT", "7")
	t.Setenv("RINGSIDE_CIRCUIT_OPEN_TIMEOUT", "30s")
	t.Setenv("RINGSIDE_CIRCUIT_HALF_OPEN_MAX_REQ", "3")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.RingsideCircuitFailureCount != 7 {
		t.Fatalf("unexpected RingsideCircuitFailureCount: %d", cfg.RingsideCircuitFailureCount)
	}
	if cfg.RingsideCircuitOpenTimeout != 30*time.Second {
		t.Fatalf("unexpected RingsideCircuitOpenTimeout: %s", cfg.RingsideCircuitOpenTimeout)
	}
	if cfg.RingsideCircuitHalfOpenMax != 3 {
		t.Fatalf("unexpected RingsideCircuitHalfOpenMax: %d", cfg.RingsideCircuitHalfOpenMax)
	}
}

func TestLoad_SessionParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("SESSION_FAIL_CLOSED", "true")
	t.Setenv("SESSION_API_BASE_URL", "https://api.fightlink.io")
	t.Setenv("SESSION_TOKEN", "restored-token")
	t.Setenv("SESSION_POLL_INTERVAL", "5s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if !cfg.SessionFailClosed {
		t.Fatalf("expected SessionFailClosed=true")
	}
	if cfg.SessionAPIBaseURL != "https://api.fightlink.io" {
		t.Fatalf("unexpected SessionAPIBaseURL: %q", cfg.SessionAPIBaseURL)
	}
	if cfg.SessionToken != "restored-token" {
		t.Fatalf("unexpected SessionToken: %q", cfg.SessionToken)
	}
	if cfg.SessionPollInterval != 5*time.Second {
		t.Fatalf("unexpected SessionPollInterval: %s", cfg.SessionPollInterval)
	}

	t.Setenv("SESSION_POLL_INTERVAL", "0s")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for zero session poll interval")
	}
}

func TestLoad_InvalidWorkerCount(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("ONBOARDING_RECORD_WRITE_WORKERS", "0")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for zero record write workers")
	}
}
