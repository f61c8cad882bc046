// Package statement builds the per-row INSERT statements sent to the destination.
package statement

import (
	"errors"
	"fmt"
	"strings"

	"github.com/David-Botos/csv-ingress/pkg/converter"
	"github.com/David-Botos/csv-ingress/pkg/model"
)

// ErrRowWidth is returned when a row does not have one value per column
var ErrRowWidth = errors.New("row width does not match column count")

// Builder turns one dataset row into an executable statement
type Builder interface {
	// Insert returns the statement text and its bound arguments (nil when
	// values are inlined)
	Insert(table string, columns []model.Column, row model.Row) (string, []interface{}, error)
}

// LiteralBuilder inlines every value as a SQL literal.
// Renderers are resolved once per column kind and cached.
type LiteralBuilder struct {
	renderers map[model.Kind]converter.LiteralFunc
}

// NewLiteralBuilder creates a LiteralBuilder
func NewLiteralBuilder() *LiteralBuilder {
	return &LiteralBuilder{renderers: make(map[model.Kind]converter.LiteralFunc)}
}

// Insert builds INSERT INTO table (cols) VALUES (literals);
func (b *LiteralBuilder) Insert(table string, columns []model.Column, row model.Row) (string, []interface{}, error) {
	if len(row) != len(columns) {
		return "", nil, fmt.Errorf("%w: %d values for %d columns", ErrRowWidth, len(row), len(columns))
	}

	values := make([]string, len(columns))
	for i, col := range columns {
		render, err := b.renderer(col.Kind)
		if err != nil {
			return "", nil, fmt.Errorf("column %s: %w", col.Name, err)
		}
		values[i] = render(row[i])
	}

	return insertPrefix(table, columns) + strings.Join(values, ", ") + ");", nil, nil
}

func (b *LiteralBuilder) renderer(kind model.Kind) (converter.LiteralFunc, error) {
	if render, ok := b.renderers[kind]; ok {
		return render, nil
	}
	render, err := converter.LiteralFuncFor(kind)
	if err != nil {
		return nil, err
	}
	b.renderers[kind] = render
	return render, nil
}

// PlaceholderStyle selects how bind parameters are written
type PlaceholderStyle int

const (
	// Dollar writes $1, $2, ... (PostgreSQL)
	Dollar PlaceholderStyle = iota
	// Question writes ? for every parameter (Snowflake)
	Question
)

// ParameterizedBuilder sends values as bound arguments instead of literals
type ParameterizedBuilder struct {
	style PlaceholderStyle
}

// NewParameterizedBuilder creates a ParameterizedBuilder
func NewParameterizedBuilder(style PlaceholderStyle) *ParameterizedBuilder {
	return &ParameterizedBuilder{style: style}
}

// Insert builds INSERT INTO table (cols) VALUES (placeholders); with one
// argument per column. Missing values bind as nil.
func (b *ParameterizedBuilder) Insert(table string, columns []model.Column, row model.Row) (string, []interface{}, error) {
	if len(row) != len(columns) {
		return "", nil, fmt.Errorf("%w: %d values for %d columns", ErrRowWidth, len(row), len(columns))
	}

	placeholders := make([]string, len(columns))
	args := make([]interface{}, len(columns))
	for i := range columns {
		placeholders[i] = b.placeholder(i + 1)
		args[i] = row[i].Interface()
	}

	return insertPrefix(table, columns) + strings.Join(placeholders, ", ") + ");", args, nil
}

func (b *ParameterizedBuilder) placeholder(n int) string {
	if b.style == Question {
		return "?"
	}
	return fmt.Sprintf("$%d", n)
}

func insertPrefix(table string, columns []model.Column) string {
	names := make([]string, len(columns))
	for i, col := range columns {
		names[i] = col.Name
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (", table, strings.Join(names, ", "))
}
