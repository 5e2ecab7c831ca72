package app

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/j-evans1/CPR/internal/config"
	"github.com/j-evans1/CPR/internal/domain/sheet"
	"github.com/j-evans1/CPR/internal/infrastructure/repository/cache"
	"github.com/j-evans1/CPR/internal/infrastructure/repository/sheets"
	"github.com/j-evans1/CPR/internal/platform/cell"
	"github.com/j-evans1/CPR/internal/platform/logging"
)

func memoryConfig() config.Config {
	return config.Config{
		AppEnv:             config.EnvDev,
		HTTPAddr:           ":0",
		ReadTimeout:        time.Second,
		WriteTimeout:       time.Second,
		CORSAllowedOrigins: []string{"*"},
		SheetsMode:         config.SheetsModeMemory,
		CacheEnabled:       true,
		CacheTTL:           time.Minute,
		MatchColumns:       sheet.DefaultMatchColumns(),
		BankColumns:        sheet.DefaultBankColumns(),
		FineColumns:        sheet.DefaultFineColumns(),
		SeasonFee:          30,
		SeasonFeeThreshold: 5,
		PaymentStartDate:   cell.DateKey{Year: 2025, Month: 8, Day: 1},
		RegularFineMax:     5,
		TeamTokens:         []string{"CPRA", "CPR"},
		WarmWorkers:        2,
		MetricsEnabled:     true,
	}
}

func TestNewServices_RepositoryStack(t *testing.T) {
	t.Parallel()

	cfg := memoryConfig()
	services, err := NewServices(cfg, logging.NewNop(), nil)
	if err != nil {
		t.Fatalf("build services: %v", err)
	}
	if _, ok := services.Repo.(*cache.SheetRepository); !ok {
		t.Fatalf("expected cached repository, got %T", services.Repo)
	}
	if services.Validation == nil || services.Snapshot == nil {
		t.Fatalf("expected composite services to be wired")
	}

	cfg.CacheEnabled = false
	cfg.SheetsMode = config.SheetsModeRemote
	cfg.SheetURLs = map[sheet.Source]string{
		sheet.SourceFines: "https://docs.google.com/spreadsheets/d/abc/edit#gid=3",
	}
	services, err = NewServices(cfg, logging.NewNop(), nil)
	if err != nil {
		t.Fatalf("build services: %v", err)
	}
	remote, ok := services.Repo.(*sheets.Repository)
	if !ok {
		t.Fatalf("expected remote repository, got %T", services.Repo)
	}
	if got := remote.SourceURL(sheet.SourceFines); got != "https://docs.google.com/spreadsheets/d/abc/export?format=csv&gid=3" {
		t.Fatalf("expected normalized export url, got %q", got)
	}
}

func TestNewServices_RejectsUnknownMode(t *testing.T) {
	t.Parallel()

	cfg := memoryConfig()
	cfg.SheetsMode = "disk"
	if _, err := NewServices(cfg, logging.NewNop(), nil); err == nil {
		t.Fatalf("expected error for unknown sheets mode")
	}
}

func TestNewHTTPServer_ServesSeededSheets(t *testing.T) {
	t.Parallel()

	srv, err := NewHTTPServer(memoryConfig(), logging.NewNop())
	if err != nil {
		t.Fatalf("build server: %v", err)
	}

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/fantasy/teams", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
	}

	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected metrics 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `cpr_sheet_cache_lookups_total{result="hit",source="team_selection"} 1`) {
		t.Fatalf("expected one cache hit for team_selection, got:\n%s", rec.Body.String())
	}
}

func TestNewHTTPServer_MetricsDisabled(t *testing.T) {
	t.Parallel()

	cfg := memoryConfig()
	cfg.MetricsEnabled = false
	srv, err := NewHTTPServer(cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("build server: %v", err)
	}

	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 without metrics, got %d", rec.Code)
	}
}

func TestPipelineConfig(t *testing.T) {
	t.Parallel()

	cfg := memoryConfig()
	cfg.SeasonFee = 40
	pipeline := PipelineConfig(cfg)
	if pipeline.Ledger.SeasonFee != 40 || pipeline.Ledger.SeasonFeeThreshold != 5 {
		t.Fatalf("unexpected ledger settings: %+v", pipeline.Ledger)
	}
	if pipeline.Ledger.PaymentStart != cfg.PaymentStartDate {
		t.Fatalf("unexpected payment start: %v", pipeline.Ledger.PaymentStart)
	}

	cfg.TeamTokens[0] = "X"
	if pipeline.TeamTokens[0] != "CPRA" {
		t.Fatalf("team tokens must be copied")
	}
}
