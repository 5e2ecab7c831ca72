package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/j-evans1/CPR/internal/domain/sheet"
	"github.com/j-evans1/CPR/internal/platform/logging"
	"github.com/panjf2000/ants/v2"
)

const (
	warmStatusSuccess = "success"
	warmStatusFailed  = "failed"
)

type CacheWarmInput struct {
	Sources    []string
	MaxWorkers int
}

type CacheWarmResult struct {
	SourceCount  int
	SuccessCount int
	FailedCount  int
	WorkerCount  int
	Sources      []CacheWarmSourceResult
}

type CacheWarmSourceResult struct {
	Source     string
	Status     string
	Rows       int
	DurationMs int64
	Message    string
}

// CacheWarmService refetches sheet sources so page views hit a fresh cache.
type CacheWarmService struct {
	repo           sheet.Repository
	defaultWorkers int
	logger         *logging.Logger
}

func NewCacheWarmService(repo sheet.Repository, defaultWorkers int, logger *logging.Logger) *CacheWarmService {
	if logger == nil {
		logger = logging.Default()
	}
	if defaultWorkers <= 0 {
		defaultWorkers = 1
	}

	return &CacheWarmService{
		repo:           repo,
		defaultWorkers: defaultWorkers,
		logger:         logger,
	}
}

// Warm invalidates and reloads the requested sources (all when none are
// given). Individual source failures are reported, not returned.
func (s *CacheWarmService) Warm(ctx context.Context, input CacheWarmInput) (CacheWarmResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.CacheWarmService.Warm")
	defer span.End()

	if s.repo == nil {
		return CacheWarmResult{}, fmt.Errorf("%w: sheet repository is not configured", ErrDependencyUnavailable)
	}

	sources, err := normalizeWarmSources(input.Sources)
	if err != nil {
		return CacheWarmResult{}, err
	}

	workerCount := input.MaxWorkers
	if workerCount <= 0 {
		workerCount = s.defaultWorkers
	}
	if workerCount > len(sources) {
		workerCount = len(sources)
	}

	result := CacheWarmResult{
		SourceCount: len(sources),
		WorkerCount: workerCount,
		Sources:     make([]CacheWarmSourceResult, 0, len(sources)),
	}

	pool, err := ants.NewPool(workerCount)
	if err != nil {
		return CacheWarmResult{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	results := make(chan CacheWarmSourceResult, len(sources))
	var successCount atomic.Int32
	var failedCount atomic.Int32

	var workers sync.WaitGroup
	for _, source := range sources {
		source := source
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()

			row := s.warmSource(ctx, source)
			if row.Status == warmStatusSuccess {
				successCount.Add(1)
			} else {
				failedCount.Add(1)
			}
			results <- row
		}); err != nil {
			workers.Done()
			return CacheWarmResult{}, fmt.Errorf("submit task to worker pool: %w", err)
		}
	}

	workers.Wait()
	close(results)

	for row := range results {
		result.Sources = append(result.Sources, row)
	}

	order := make(map[string]int, len(sources))
	for i, source := range sources {
		order[source.String()] = i
	}
	sort.SliceStable(result.Sources, func(i, j int) bool {
		return order[result.Sources[i].Source] < order[result.Sources[j].Source]
	})

	result.SuccessCount = int(successCount.Load())
	result.FailedCount = int(failedCount.Load())
	return result, nil
}

func (s *CacheWarmService) warmSource(ctx context.Context, source sheet.Source) CacheWarmSourceResult {
	start := time.Now()
	row := CacheWarmSourceResult{Source: source.String()}

	if invalidator, ok := s.repo.(sheet.Invalidator); ok {
		invalidator.Invalidate(ctx, source)
	}

	rows, err := s.repo.Rows(ctx, source)
	row.DurationMs = time.Since(start).Milliseconds()
	if err != nil {
		s.logger.WarnContext(ctx, "warm sheet source failed", "source", source, "error", err)
		row.Status = warmStatusFailed
		row.Message = err.Error()
		return row
	}

	row.Status = warmStatusSuccess
	row.Rows = len(rows)
	return row
}

func normalizeWarmSources(raw []string) ([]sheet.Source, error) {
	if len(raw) == 0 {
		return sheet.AllSources(), nil
	}

	seen := make(map[sheet.Source]struct{}, len(raw))
	out := make([]sheet.Source, 0, len(raw))
	for _, item := range raw {
		source, err := sheet.ParseSource(item)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		if _, dup := seen[source]; dup {
			continue
		}
		seen[source] = struct{}{}
		out = append(out, source)
	}
	return out, nil
}
