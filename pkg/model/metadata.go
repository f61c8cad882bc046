// pkg/model/metadata.go
package model

import (
	"fmt"
	"strings"
)

// Kind is the scalar type shared by every value of a column
type Kind int

const (
	KindUnknown Kind = iota
	KindInteger
	KindFloat
	KindText
)

// String returns the name of the kind
func (k Kind) String() string {
	switch k {
	case KindInteger:
		return "integer"
	case KindFloat:
		return "float"
	case KindText:
		return "text"
	default:
		return fmt.Sprintf("unknown(%d)", int(k))
	}
}

// Column represents a dataset column and its target mapping
type Column struct {
	Name       string // Target column name (after rename)
	SourceName string // Header name in the CSV file
	Kind       Kind   // Inferred scalar kind
	SQLType    string // Mapped SQL type, set by the converter
}

// Row holds one value per dataset column, in column order
type Row []Value

// Dataset is the tabular data loaded from the CSV file.
// Column order and names are fixed once the loader has produced it.
type Dataset struct {
	Columns []Column
	Rows    []Row
}

// Len returns the number of rows
func (d *Dataset) Len() int {
	return len(d.Rows)
}

// ColumnNames returns the target column names in order
func (d *Dataset) ColumnNames() []string {
	names := make([]string, len(d.Columns))
	for i, col := range d.Columns {
		names[i] = col.Name
	}
	return names
}

// GetColumnBySource returns a column by its CSV header name (case-insensitive)
func (d *Dataset) GetColumnBySource(name string) *Column {
	normalizedName := normalizeColumnName(name)
	for i, col := range d.Columns {
		if normalizeColumnName(col.SourceName) == normalizedName {
			return &d.Columns[i]
		}
	}
	return nil
}

// PresentCounts returns, per column, how many rows hold a non-missing value
func (d *Dataset) PresentCounts() []int64 {
	counts := make([]int64, len(d.Columns))
	for _, row := range d.Rows {
		for i, v := range row {
			if !v.IsMissing() {
				counts[i]++
			}
		}
	}
	return counts
}

func normalizeColumnName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
