package tabular

import (
	"strconv"
	"strings"
)

// Header maps column labels to positions. Positional reads share the same
// type with synthetic labels _1, _2, ... so callers never care which mode
// produced a row.
type Header struct {
	labels []string
	index  map[string]int
}

func newHeader(labels []string) *Header {
	h := &Header{
		labels: make([]string, len(labels)),
		index:  make(map[string]int, len(labels)),
	}
	for i, raw := range labels {
		label := strings.TrimSpace(raw)
		if label == "" {
			label = SyntheticLabel(i)
		}
		h.labels[i] = label
		// first occurrence wins for duplicated labels
		if _, exists := h.index[label]; !exists {
			h.index[label] = i
		}
	}
	return h
}

// SyntheticLabel returns the 1-based label used for column position i.
func SyntheticLabel(i int) string {
	return "_" + strconv.Itoa(i+1)
}

// Labels returns a copy of the header labels.
func (h *Header) Labels() []string {
	if h == nil {
		return nil
	}
	out := make([]string, len(h.labels))
	copy(out, h.labels)
	return out
}

func (h *Header) lookup(label string) (int, bool) {
	if h != nil {
		if i, ok := h.index[label]; ok {
			return i, true
		}
	}
	if !strings.HasPrefix(label, "_") {
		return 0, false
	}
	n, err := strconv.Atoi(label[1:])
	if err != nil || n < 1 {
		return 0, false
	}
	return n - 1, true
}

// Row is one record of a sheet. Out-of-range access yields "".
type Row struct {
	cells  []string
	header *Header
	line   int
}

// NewRow builds a positional row. It is mostly useful to tests and seeded
// repositories.
func NewRow(cells ...string) Row {
	out := make([]string, len(cells))
	copy(out, cells)
	return Row{cells: out}
}

// Cell returns the raw value at position i.
func (r Row) Cell(i int) string {
	if i < 0 || i >= len(r.cells) {
		return ""
	}
	return r.cells[i]
}

// Get returns the value under a header label. Synthetic labels resolve to
// their position even when the row carries no header.
func (r Row) Get(label string) string {
	i, ok := r.header.lookup(label)
	if !ok {
		return ""
	}
	return r.Cell(i)
}

// Len is the number of cells physically present in the row.
func (r Row) Len() int {
	return len(r.cells)
}

// Line is the 1-based record number in the payload, counting
// skipped and header rows.
func (r Row) Line() int {
	return r.line
}

// Header returns the header shared by all rows of one read.
func (r Row) Header() *Header {
	return r.header
}

// Values returns a copy of the row cells.
func (r Row) Values() []string {
	out := make([]string, len(r.cells))
	copy(out, r.cells)
	return out
}
