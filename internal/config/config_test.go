package config

import (
	"strings"
	"testing"
	"time"

	"github.com/j-evans1/CPR/internal/domain/sheet"
	"github.com/j-evans1/CPR/internal/platform/cell"
	"github.com/j-evans1/CPR/internal/platform/logging"
)

func setMemoryMode(t *testing.T) {
	t.Helper()
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("SHEETS_MODE", SheetsModeMemory)
}

func setRemoteURLs(t *testing.T) {
	t.Helper()
	for _, key := range sheetURLEnv {
		t.Setenv(key, "https://docs.example.com/"+strings.ToLower(key)+"/pub?output=csv")
	}
}

func TestLoad_Defaults(t *testing.T) {
	setMemoryMode(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.HTTPAddr != ":8080" || cfg.ServiceName != "cpr-fantasy-api" {
		t.Fatalf("unexpected server defaults: %q %q", cfg.HTTPAddr, cfg.ServiceName)
	}
	if cfg.ReadTimeout != 10*time.Second || cfg.WriteTimeout != 15*time.Second {
		t.Fatalf("unexpected timeouts: %s %s", cfg.ReadTimeout, cfg.WriteTimeout)
	}
	if !cfg.CacheEnabled || cfg.CacheTTL != 60*time.Second {
		t.Fatalf("unexpected cache defaults: %v %s", cfg.CacheEnabled, cfg.CacheTTL)
	}
	if cfg.SheetsMaxBodyBytes != 8388608 || cfg.SheetsFetchTimeout != 20*time.Second {
		t.Fatalf("unexpected fetch defaults: %d %s", cfg.SheetsMaxBodyBytes, cfg.SheetsFetchTimeout)
	}
	if cfg.SeasonFee != 30 || cfg.SeasonFeeThreshold != 5 || cfg.RegularFineMax != 5 {
		t.Fatalf("unexpected fee defaults: %v %d %v", cfg.SeasonFee, cfg.SeasonFeeThreshold, cfg.RegularFineMax)
	}
	if cfg.PaymentStartDate != (cell.DateKey{Year: 2025, Month: 8, Day: 1}) {
		t.Fatalf("unexpected payment start: %v", cfg.PaymentStartDate)
	}
	if cfg.MatchColumns != sheet.DefaultMatchColumns() || cfg.BankColumns != sheet.DefaultBankColumns() || cfg.FineColumns != sheet.DefaultFineColumns() {
		t.Fatalf("expected default column maps")
	}
	if strings.Join(cfg.TeamTokens, ",") != "CPRA,CPR" {
		t.Fatalf("unexpected team tokens: %v", cfg.TeamTokens)
	}
	if cfg.LogLevel != logging.LevelInfo || cfg.WarmWorkers != 4 || !cfg.MetricsEnabled {
		t.Fatalf("unexpected misc defaults: %v %d %v", cfg.LogLevel, cfg.WarmWorkers, cfg.MetricsEnabled)
	}
	if !cfg.SheetsBreaker || cfg.SheetsBreakerFails != 5 || cfg.SheetsBreakerOpen != 15*time.Second {
		t.Fatalf("unexpected breaker defaults: %v %d %s", cfg.SheetsBreaker, cfg.SheetsBreakerFails, cfg.SheetsBreakerOpen)
	}
	if cfg.PyroscopeAppName != cfg.ServiceName {
		t.Fatalf("expected pyroscope app name to default to service name, got %q", cfg.PyroscopeAppName)
	}
}

func TestLoad_AppEnvValidation(t *testing.T) {
	setMemoryMode(t)
	t.Setenv("APP_ENV", "invalid")

	_, err := Load()
	if err == nil || !strings.Contains(err.Error(), "APP_ENV") {
		t.Fatalf("expected APP_ENV error, got %v", err)
	}
}

func TestLoad_RemoteModeRequiresURLs(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("SHEETS_MODE", SheetsModeRemote)
	setRemoteURLs(t)
	t.Setenv("SHEET_URL_FINES", "")

	_, err := Load()
	if err == nil || !strings.Contains(err.Error(), "SHEET_URL_FINES") {
		t.Fatalf("expected missing SHEET_URL_FINES error, got %v", err)
	}
}

func TestLoad_RemoteModeURLs(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("SHEETS_MODE", "REMOTE")
	setRemoteURLs(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if len(cfg.SheetURLs) != len(sheet.AllSources()) {
		t.Fatalf("expected a URL per source, got %v", cfg.SheetURLs)
	}
}

func TestLoad_RejectsMalformedSheetURL(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("SHEETS_MODE", SheetsModeRemote)
	setRemoteURLs(t)
	t.Setenv("SHEET_URL_PLAYER_DATA", "not a url")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for malformed sheet URL")
	}
}

func TestLoad_ColumnMaps(t *testing.T) {
	setMemoryMode(t)
	t.Setenv("BANK_COLUMN_MAP", "credit:4, player:7")
	t.Setenv("MATCH_COLUMN_MAP", "total_points:30")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.BankColumns.Credit != 4 || cfg.BankColumns.Player != 7 || cfg.BankColumns.Date != 0 {
		t.Fatalf("unexpected bank columns: %+v", cfg.BankColumns)
	}
	if cfg.MatchColumns.TotalPoints != 30 || cfg.MatchColumns.Player != 4 {
		t.Fatalf("unexpected match columns: %+v", cfg.MatchColumns)
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{name: "unknown column", key: "FINES_COLUMN_MAP", val: "amount:2"},
		{name: "negative column", key: "BANK_COLUMN_MAP", val: "credit:-1"},
		{name: "malformed column item", key: "MATCH_COLUMN_MAP", val: "date=0"},
		{name: "bad payment start", key: "PAYMENT_START_DATE", val: "31/02/2025"},
		{name: "bad season fee", key: "SEASON_FEE", val: "thirty"},
		{name: "negative season fee", key: "SEASON_FEE", val: "-1"},
		{name: "zero regular max", key: "FINES_REGULAR_MAX", val: "0"},
		{name: "zero workers", key: "WARM_WORKERS", val: "0"},
		{name: "zero breaker failures", key: "SHEETS_BREAKER_FAILURES", val: "0"},
		{name: "bad breaker timeout", key: "SHEETS_BREAKER_OPEN_TIMEOUT", val: "later"},
		{name: "bad cache ttl", key: "CACHE_TTL", val: "soon"},
		{name: "zero cache ttl", key: "CACHE_TTL", val: "0s"},
		{name: "bad bool", key: "METRICS_ENABLED", val: "maybe"},
		{name: "bad log level", key: "APP_LOG_LEVEL", val: "loud"},
		{name: "bad sheets mode", key: "SHEETS_MODE", val: "disk"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			setMemoryMode(t)
			t.Setenv(tc.key, tc.val)

			_, err := Load()
			if err == nil {
				t.Fatalf("expected error for %s=%q", tc.key, tc.val)
			}
			if !strings.Contains(err.Error(), tc.key) {
				t.Fatalf("expected error to name %s, got %v", tc.key, err)
			}
		})
	}
}

func TestLoad_UptraceRequiresDSNWhenEnabled(t *testing.T) {
	setMemoryMode(t)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", "")

	_, err := Load()
	if err == nil || !strings.Contains(err.Error(), "UPTRACE_DSN") {
		t.Fatalf("expected UPTRACE_DSN error, got %v", err)
	}
}

func TestLoad_UptraceDSNFromOTLPHeaders(t *testing.T) {
	setMemoryMode(t)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", "x-other=1, uptrace-dsn=\"https://token@api.uptrace.dev/1\"")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.UptraceDSN != "https://token@api.uptrace.dev/1" {
		t.Fatalf("unexpected UptraceDSN: %q", cfg.UptraceDSN)
	}
}

func TestLoad_ProfilersRequireAddress(t *testing.T) {
	t.Run("pyroscope", func(t *testing.T) {
		setMemoryMode(t)
		t.Setenv("PYROSCOPE_ENABLED", "true")
		t.Setenv("PYROSCOPE_SERVER_ADDRESS", "")

		if _, err := Load(); err == nil {
			t.Fatalf("expected error when PYROSCOPE_ENABLED=true without PYROSCOPE_SERVER_ADDRESS")
		}
	})

	t.Run("pprof", func(t *testing.T) {
		setMemoryMode(t)
		t.Setenv("PPROF_ENABLED", "true")
		t.Setenv("PPROF_ADDR", " ")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("blank PPROF_ADDR falls back to default, got %v", err)
		}
		if cfg.PprofAddr != ":6060" {
			t.Fatalf("unexpected PprofAddr: %q", cfg.PprofAddr)
		}
	})
}

func TestParseColumnMap(t *testing.T) {
	t.Parallel()

	got, err := parseColumnMap(" Date:1 ,fee:2,,")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(got) != 2 || got["date"] != 1 || got["fee"] != 2 {
		t.Fatalf("unexpected map: %v", got)
	}

	if _, err := parseColumnMap(":3"); err == nil {
		t.Fatalf("expected error for empty column name")
	}
	if _, err := parseColumnMap("date:x"); err == nil {
		t.Fatalf("expected error for non-numeric index")
	}
}
