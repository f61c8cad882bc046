// pkg/converter/values.go
package converter

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/David-Botos/csv-ingress/pkg/model"
)

// NullLiteral is the SQL text written for missing values
const NullLiteral = "NULL"

// LiteralFunc renders one value of a column as SQL text
type LiteralFunc func(model.Value) string

// LiteralFuncFor returns the renderer for a column kind
func LiteralFuncFor(kind model.Kind) (LiteralFunc, error) {
	switch kind {
	case model.KindInteger:
		return integerLiteral, nil
	case model.KindFloat:
		return floatLiteral, nil
	case model.KindText:
		return textLiteral, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnmappedKind, kind)
	}
}

// QuoteText wraps s in single quotes, doubling embedded quotes
func QuoteText(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

func integerLiteral(v model.Value) string {
	if v.IsMissing() {
		return NullLiteral
	}
	return strconv.FormatInt(v.Int64(), 10)
}

func floatLiteral(v model.Value) string {
	if v.IsMissing() {
		return NullLiteral
	}
	f := v.Float64()
	switch {
	case math.IsNaN(f):
		return NullLiteral
	case math.IsInf(f, 1):
		return "'Infinity'"
	case math.IsInf(f, -1):
		return "'-Infinity'"
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func textLiteral(v model.Value) string {
	if v.IsMissing() {
		return NullLiteral
	}
	return QuoteText(v.Str())
}
