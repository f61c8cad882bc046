package loader

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/David-Botos/csv-ingress/pkg/model"
)

// ErrMalformedCSV is returned when the input cannot be parsed as CSV
var ErrMalformedCSV = errors.New("malformed csv")

// DefaultNATokens are the cell contents read as missing values
var DefaultNATokens = []string{
	"", "NA", "N/A", "n/a", "NaN", "nan", "-NaN", "-nan",
	"NULL", "null", "None", "#N/A", "#N/A N/A", "#NA", "<NA>",
	"-1.#IND", "-1.#QNAN", "1.#IND", "1.#QNAN",
}

// Options controls CSV parsing
type Options struct {
	Delimiter rune
	NATokens  []string
}

// DefaultOptions returns comma-delimited parsing with the default NA tokens
func DefaultOptions() Options {
	return Options{
		Delimiter: ',',
		NATokens:  DefaultNATokens,
	}
}

// Loader reads a CSV file into a dataset shaped by a Mapping
type Loader struct {
	logger *zap.Logger
	opts   Options
	na     map[string]struct{}
}

// NewLoader creates a Loader; a zero delimiter means comma
func NewLoader(logger *zap.Logger, opts Options) *Loader {
	if opts.Delimiter == 0 {
		opts.Delimiter = ','
	}
	na := make(map[string]struct{}, len(opts.NATokens))
	for _, tok := range opts.NATokens {
		na[tok] = struct{}{}
	}
	return &Loader{
		logger: logger,
		opts:   opts,
		na:     na,
	}
}

// Load opens path and reads it with Read
func (l *Loader) Load(ctx context.Context, path string, mapping Mapping) (*model.Dataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open csv file: %w", err)
	}
	defer f.Close()

	ds, err := l.Read(f, mapping)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	l.logger.Info("Loaded csv file",
		zap.String("path", path),
		zap.Int("rows", ds.Len()),
		zap.Int("columns", len(ds.Columns)))

	return ds, nil
}

// Read parses CSV content and returns a dataset whose columns are exactly
// mapping.Columns, renamed. Unlisted source columns are dropped; listed
// columns absent from the header become all-missing float columns.
func (l *Loader) Read(r io.Reader, mapping Mapping) (*model.Dataset, error) {
	if err := mapping.Validate(); err != nil {
		return nil, err
	}

	reader := csv.NewReader(r)
	reader.Comma = l.opts.Delimiter

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedCSV, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: missing header row", ErrMalformedCSV)
	}

	header := records[0]
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	body := records[1:]

	headerIndex := make(map[string]int, len(header))
	for i, name := range header {
		if _, dup := headerIndex[name]; !dup {
			headerIndex[name] = i
		}
	}

	ds := &model.Dataset{
		Columns: make([]model.Column, len(mapping.Columns)),
		Rows:    make([]model.Row, len(body)),
	}
	for i := range ds.Rows {
		ds.Rows[i] = make(model.Row, len(mapping.Columns))
	}

	for c, src := range mapping.Columns {
		col := model.Column{
			Name:       mapping.TargetName(src),
			SourceName: src,
		}

		idx, ok := headerIndex[src]
		if !ok {
			l.logger.Warn("Column missing from csv, filling with NULL",
				zap.String("column", src))
			col.Kind = model.KindFloat
			ds.Columns[c] = col
			continue
		}

		cells := make([]string, len(body))
		for r, record := range body {
			cells[r] = record[idx]
		}

		col.Kind = l.inferKind(cells)
		for r, cell := range cells {
			ds.Rows[r][c] = l.parseCell(cell, col.Kind)
		}
		ds.Columns[c] = col
	}

	for _, name := range header {
		if !containsString(mapping.Columns, name) {
			l.logger.Debug("Dropping unmapped csv column", zap.String("column", name))
		}
	}

	return ds, nil
}

// isMissing reports whether a raw cell is one of the NA tokens
func (l *Loader) isMissing(cell string) bool {
	_, ok := l.na[cell]
	return ok
}

// inferKind picks the narrowest kind that fits every present cell.
// Integer columns with gaps become float, as do all-missing columns.
func (l *Loader) inferKind(cells []string) model.Kind {
	allInt, allFloat := true, true
	present, missing := 0, 0

	for _, cell := range cells {
		if l.isMissing(cell) {
			missing++
			continue
		}
		present++

		trimmed := strings.TrimSpace(cell)
		if allInt {
			if _, err := strconv.ParseInt(trimmed, 10, 64); err != nil {
				allInt = false
			}
		}
		if allFloat {
			if _, err := strconv.ParseFloat(trimmed, 64); err != nil {
				allFloat = false
			}
		}
		if !allInt && !allFloat {
			return model.KindText
		}
	}

	switch {
	case present == 0:
		return model.KindFloat
	case allInt && missing == 0:
		return model.KindInteger
	case allFloat:
		return model.KindFloat
	default:
		return model.KindText
	}
}

// parseCell converts a raw cell into a value of the column kind
func (l *Loader) parseCell(cell string, kind model.Kind) model.Value {
	if l.isMissing(cell) {
		return model.Missing()
	}

	switch kind {
	case model.KindInteger:
		v, err := strconv.ParseInt(strings.TrimSpace(cell), 10, 64)
		if err != nil {
			return model.Missing()
		}
		return model.Int(v)
	case model.KindFloat:
		v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
		if err != nil {
			return model.Missing()
		}
		return model.Float(v)
	default:
		return model.Text(cell)
	}
}

func containsString(values []string, s string) bool {
	for _, v := range values {
		if v == s {
			return true
		}
	}
	return false
}
