package app

import (
	"fmt"
	"net/http"

	"github.com/j-evans1/CPR/external/gsheets"
	"github.com/j-evans1/CPR/internal/config"
	"github.com/j-evans1/CPR/internal/domain/ledger"
	"github.com/j-evans1/CPR/internal/domain/sheet"
	"github.com/j-evans1/CPR/internal/infrastructure/repository/cache"
	"github.com/j-evans1/CPR/internal/infrastructure/repository/memory"
	"github.com/j-evans1/CPR/internal/infrastructure/repository/sheets"
	"github.com/j-evans1/CPR/internal/interfaces/httpapi"
	"github.com/j-evans1/CPR/internal/observability"
	basecache "github.com/j-evans1/CPR/internal/platform/cache"
	"github.com/j-evans1/CPR/internal/platform/logging"
	"github.com/j-evans1/CPR/internal/platform/resilience"
	"github.com/j-evans1/CPR/internal/platform/tabular"
	"github.com/j-evans1/CPR/internal/usecase"
)

// Services are the aggregation services over one sheet repository.
type Services struct {
	Repo        sheet.Repository
	PlayerStats *usecase.PlayerStatsService
	Fantasy     *usecase.FantasyLeagueService
	Matches     *usecase.MatchService
	Payments    *usecase.PaymentService
	Fines       *usecase.FineService
	Snapshot    *usecase.SnapshotService
	Validation  *usecase.ValidationService
	CacheWarm   *usecase.CacheWarmService
}

// PipelineConfig maps the loaded settings onto the aggregation rules.
func PipelineConfig(cfg config.Config) usecase.PipelineConfig {
	return usecase.PipelineConfig{
		MatchColumns: cfg.MatchColumns,
		BankColumns:  cfg.BankColumns,
		FineColumns:  cfg.FineColumns,
		Ledger: ledger.Settings{
			SeasonFee:          cfg.SeasonFee,
			SeasonFeeThreshold: cfg.SeasonFeeThreshold,
			PaymentStart:       cfg.PaymentStartDate,
		},
		TeamTokens:     append([]string(nil), cfg.TeamTokens...),
		RegularFineMax: cfg.RegularFineMax,
	}
}

// NewServices wires the sheet repository stack and the services on top of
// it. metrics may be nil.
func NewServices(cfg config.Config, logger *logging.Logger, metrics *observability.SheetMetrics) (Services, error) {
	if logger == nil {
		logger = logging.Default()
	}

	repo, err := newSheetRepository(cfg, logger, metrics)
	if err != nil {
		return Services{}, err
	}

	pipeline := PipelineConfig(cfg)
	stats := usecase.NewPlayerStatsService(repo, pipeline.MatchColumns, logger)
	fantasy := usecase.NewFantasyLeagueService(repo, logger)
	matches, err := usecase.NewMatchService(repo, pipeline.MatchColumns, pipeline.TeamTokens, logger)
	if err != nil {
		return Services{}, fmt.Errorf("build match service: %w", err)
	}
	payments := usecase.NewPaymentService(repo, pipeline, logger)

	return Services{
		Repo:        repo,
		PlayerStats: stats,
		Fantasy:     fantasy,
		Matches:     matches,
		Payments:    payments,
		Fines:       usecase.NewFineService(repo, pipeline.FineColumns, pipeline.RegularFineMax, logger),
		Snapshot:    usecase.NewSnapshotService(stats, fantasy, matches, payments),
		Validation:  usecase.NewValidationService(repo, stats, payments, logger),
		CacheWarm:   usecase.NewCacheWarmService(repo, cfg.WarmWorkers, logger),
	}, nil
}

func newSheetRepository(cfg config.Config, logger *logging.Logger, metrics *observability.SheetMetrics) (sheet.Repository, error) {
	var (
		fetchObserver sheets.FetchObserver
		cacheObserver cache.CacheObserver
		onBreaker     func(from, to resilience.CircuitState)
	)
	if metrics != nil {
		fetchObserver = metrics
		cacheObserver = metrics
		onBreaker = metrics.ObserveBreaker
	}

	var repo sheet.Repository
	switch cfg.SheetsMode {
	case config.SheetsModeMemory:
		logger.Info("serving seeded sample sheets", "sheets_mode", cfg.SheetsMode)
		repo = memory.NewSheetRepository(memory.SeedSheets())
	case config.SheetsModeRemote:
		urls := make(map[sheet.Source]string, len(cfg.SheetURLs))
		for source, raw := range cfg.SheetURLs {
			urls[source] = normalizeSheetURL(raw)
			logger.Info("sheet source configured",
				"source", source,
				"spreadsheet_id", spreadsheetIDFromURL(raw),
			)
		}

		client := gsheets.NewClient(gsheets.ClientConfig{
			Timeout:      cfg.SheetsFetchTimeout,
			MaxBodyBytes: cfg.SheetsMaxBodyBytes,
			Logger:       logger,
			CircuitBreaker: resilience.CircuitBreakerConfig{
				Enabled:          cfg.SheetsBreaker,
				FailureThreshold: cfg.SheetsBreakerFails,
				OpenTimeout:      cfg.SheetsBreakerOpen,
				OnStateChange:    onBreaker,
			},
		})
		repo = sheets.NewRepository(client, urls, fetchObserver, logger)
	default:
		return nil, fmt.Errorf("unsupported sheets mode %q", cfg.SheetsMode)
	}

	if !cfg.CacheEnabled {
		return repo, nil
	}
	store := basecache.NewStore[[]tabular.Row](cfg.CacheTTL)
	return cache.NewSheetRepository(repo, store, cacheObserver, logger), nil
}

func NewHTTPServer(cfg config.Config, logger *logging.Logger) (*http.Server, error) {
	if logger == nil {
		logger = logging.Default()
	}

	var (
		metrics        *observability.SheetMetrics
		metricsHandler http.Handler
	)
	if cfg.MetricsEnabled {
		metrics = observability.NewSheetMetrics()
		metricsHandler = metrics.Handler()
	}

	services, err := NewServices(cfg, logger, metrics)
	if err != nil {
		return nil, err
	}

	handler := httpapi.NewHandler(
		services.PlayerStats,
		services.Fantasy,
		services.Matches,
		services.Payments,
		services.Fines,
		services.Snapshot,
		services.Validation,
		services.CacheWarm,
		logger,
	)
	router := httpapi.NewRouter(handler, logger, httpapi.RouterConfig{
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		InternalJobToken:   cfg.InternalJobToken,
		Metrics:            metricsHandler,
	})

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if server.Addr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	return server, nil
}
