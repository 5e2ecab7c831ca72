package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/j-evans1/CPR/internal/domain/sheet"
	"github.com/j-evans1/CPR/internal/platform/tabular"
	"github.com/j-evans1/CPR/internal/usecase"
)

// SheetRepository serves sheet payloads held in memory. Payloads are decoded
// on every read, the same way a fetched export would be.
type SheetRepository struct {
	mu       sync.RWMutex
	payloads map[sheet.Source][]byte
}

func NewSheetRepository(payloads map[sheet.Source][]byte) *SheetRepository {
	copied := make(map[sheet.Source][]byte, len(payloads))
	for source, payload := range payloads {
		copied[source] = append([]byte(nil), payload...)
	}

	return &SheetRepository{payloads: copied}
}

func (r *SheetRepository) Rows(_ context.Context, source sheet.Source) ([]tabular.Row, error) {
	r.mu.RLock()
	payload, ok := r.payloads[source]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: no payload for sheet %s", usecase.ErrDependencyUnavailable, source)
	}

	rows, err := tabular.Read(payload, source.ReadOptions())
	if err != nil {
		return nil, fmt.Errorf("%w: decode sheet %s: %w", usecase.ErrDependencyUnavailable, source, err)
	}
	return rows, nil
}

// SetPayload replaces the payload of source.
func (r *SheetRepository) SetPayload(source sheet.Source, payload []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.payloads[source] = append([]byte(nil), payload...)
}

func (r *SheetRepository) SourceURL(source sheet.Source) string {
	return "memory://" + source.String()
}
