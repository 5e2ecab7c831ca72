package cache

import (
	"context"
	"time"

	"github.com/j-evans1/CPR/internal/domain/sheet"
	basecache "github.com/j-evans1/CPR/internal/platform/cache"
	"github.com/j-evans1/CPR/internal/platform/logging"
	"github.com/j-evans1/CPR/internal/platform/tabular"
)

const keyPrefix = "sheet"

// CacheObserver is told whether each read was served from the cache.
type CacheObserver interface {
	ObserveCache(source string, hit bool)
}

// sourceLocator is implemented by repositories that know where a source
// lives; the location becomes part of the cache key.
type sourceLocator interface {
	SourceURL(source sheet.Source) string
}

// SheetRepository memoizes rows of the wrapped repository for the store's
// TTL. Failed loads are not remembered.
type SheetRepository struct {
	next     sheet.Repository
	cache    *basecache.Store[[]tabular.Row]
	observer CacheObserver
	logger   *logging.Logger
}

func NewSheetRepository(next sheet.Repository, cache *basecache.Store[[]tabular.Row], observer CacheObserver, logger *logging.Logger) *SheetRepository {
	if logger == nil {
		logger = logging.Default()
	}
	return &SheetRepository{next: next, cache: cache, observer: observer, logger: logger}
}

func (r *SheetRepository) Rows(ctx context.Context, source sheet.Source) ([]tabular.Row, error) {
	entry, hit, err := r.cache.GetOrLoad(ctx, r.key(source), func(ctx context.Context) ([]tabular.Row, error) {
		return r.next.Rows(ctx, source)
	})
	if r.observer != nil && err == nil {
		r.observer.ObserveCache(source.String(), hit)
	}
	if err != nil {
		return nil, err
	}

	if hit {
		r.logger.DebugContext(ctx, "sheet cache hit", "source", source, "age", entry.Age(time.Now()).String())
	}
	return append([]tabular.Row(nil), entry.Value...), nil
}

// Invalidate forgets every cached read of source.
func (r *SheetRepository) Invalidate(ctx context.Context, source sheet.Source) {
	r.cache.DeletePrefix(ctx, basecache.Key(keyPrefix, source.String())+"|")
}

func (r *SheetRepository) key(source sheet.Source) string {
	location := source.String()
	if locator, ok := r.next.(sourceLocator); ok {
		if url := locator.SourceURL(source); url != "" {
			location = url
		}
	}

	opts := source.ReadOptions()
	return basecache.Key(keyPrefix, source.String(), location, opts.SkipRows, opts.NamedHeaders, string(opts.Format))
}
