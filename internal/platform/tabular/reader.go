// Package tabular turns raw sheet exports into row sequences.
package tabular

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

var (
	ErrEmptyPayload = errors.New("tabular: empty payload")
	ErrNoWorksheet  = errors.New("tabular: workbook has no worksheet")
)

// Format identifies the payload encoding.
type Format string

const (
	FormatAuto Format = ""
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// Options controls how a payload is interpreted.
type Options struct {
	SkipRows     int
	NamedHeaders bool
	Format       Format
}

var (
	utf8BOM  = []byte{0xEF, 0xBB, 0xBF}
	zipMagic = []byte{'P', 'K', 0x03, 0x04}
)

// DetectFormat sniffs the payload. XLSX workbooks are zip archives.
func DetectFormat(payload []byte) Format {
	if bytes.HasPrefix(payload, zipMagic) {
		return FormatXLSX
	}
	return FormatCSV
}

// Read decodes payload and applies opts. A payload that cannot be decoded at
// all is an error; short or ragged rows never are.
func Read(payload []byte, opts Options) ([]Row, error) {
	if len(payload) == 0 {
		return nil, ErrEmptyPayload
	}

	format := opts.Format
	if format == FormatAuto {
		format = DetectFormat(payload)
	}

	var (
		records [][]string
		err     error
	)
	switch format {
	case FormatCSV:
		records, err = readCSV(payload)
	case FormatXLSX:
		records, err = readXLSX(payload)
	default:
		return nil, fmt.Errorf("tabular: unsupported format %q", format)
	}
	if err != nil {
		return nil, err
	}

	return buildRows(records, opts), nil
}

func readCSV(payload []byte) ([][]string, error) {
	reader := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(payload, utf8BOM)))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.ReuseRecord = false

	var records [][]string
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return records, nil
		}
		if err != nil {
			return nil, fmt.Errorf("tabular: decode csv: %w", err)
		}
		records = append(records, record)
	}
}

func readXLSX(payload []byte) ([][]string, error) {
	book, err := excelize.OpenReader(bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("tabular: open workbook: %w", err)
	}
	defer func() { _ = book.Close() }()

	sheets := book.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrNoWorksheet
	}

	records, err := book.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("tabular: read worksheet %q: %w", sheets[0], err)
	}
	return records, nil
}

func buildRows(records [][]string, opts Options) []Row {
	skip := opts.SkipRows
	if skip < 0 {
		skip = 0
	}
	if skip >= len(records) {
		return []Row{}
	}

	line := skip
	records = records[skip:]

	var header *Header
	if opts.NamedHeaders {
		header = newHeader(records[0])
		records = records[1:]
		line++
	} else {
		header = newHeader(nil)
	}

	rows := make([]Row, 0, len(records))
	for _, record := range records {
		line++
		rows = append(rows, Row{cells: record, header: header, line: line})
	}
	return rows
}
