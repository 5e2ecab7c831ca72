// Package sheets reads sheet sources from their published export URLs.
package sheets

import (
	"context"
	"fmt"
	"time"

	"github.com/j-evans1/CPR/internal/domain/sheet"
	"github.com/j-evans1/CPR/internal/platform/logging"
	"github.com/j-evans1/CPR/internal/platform/tabular"
	"github.com/j-evans1/CPR/internal/usecase"
)

// Fetcher downloads a raw export.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// FetchObserver receives one observation per fetch attempt.
type FetchObserver interface {
	ObserveFetch(source string, duration time.Duration, err error)
}

type Repository struct {
	fetcher  Fetcher
	urls     map[sheet.Source]string
	observer FetchObserver
	logger   *logging.Logger
}

func NewRepository(fetcher Fetcher, urls map[sheet.Source]string, observer FetchObserver, logger *logging.Logger) *Repository {
	if logger == nil {
		logger = logging.Default()
	}

	copied := make(map[sheet.Source]string, len(urls))
	for source, url := range urls {
		copied[source] = url
	}

	return &Repository{
		fetcher:  fetcher,
		urls:     copied,
		observer: observer,
		logger:   logger,
	}
}

// SourceURL returns the configured export URL of source.
func (r *Repository) SourceURL(source sheet.Source) string {
	return r.urls[source]
}

func (r *Repository) Rows(ctx context.Context, source sheet.Source) ([]tabular.Row, error) {
	url := r.urls[source]
	if url == "" {
		return nil, fmt.Errorf("%w: no url configured for sheet %s", usecase.ErrDependencyUnavailable, source)
	}

	start := time.Now()
	payload, err := r.fetcher.Fetch(ctx, url)
	if r.observer != nil {
		r.observer.ObserveFetch(source.String(), time.Since(start), err)
	}
	if err != nil {
		return nil, fmt.Errorf("fetch sheet %s: %w", source, err)
	}

	rows, err := tabular.Read(payload, source.ReadOptions())
	if err != nil {
		return nil, fmt.Errorf("%w: decode sheet %s: %v", usecase.ErrDependencyUnavailable, source, err)
	}

	r.logger.DebugContext(ctx, "sheet rows loaded", "source", source, "rows", len(rows), "bytes", len(payload))
	return rows, nil
}
