package sheet

import (
	"context"

	"github.com/j-evans1/CPR/internal/platform/tabular"
)

// Repository returns the current rows of a source, already shaped by the
// source's ReadOptions.
type Repository interface {
	Rows(ctx context.Context, source Source) ([]tabular.Row, error)
}

// Invalidator is implemented by repositories that keep rows between calls.
type Invalidator interface {
	Invalidate(ctx context.Context, source Source)
}
