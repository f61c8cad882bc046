// pkg/converter/mapping.go
package converter

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/David-Botos/csv-ingress/pkg/model"
)

// ErrUnmappedKind is returned for a column kind with no SQL type
var ErrUnmappedKind = errors.New("unmapped column kind")

// DefaultTypeMap returns the kind to SQL type mapping
func DefaultTypeMap() map[model.Kind]string {
	return map[model.Kind]string{
		model.KindInteger: "INT",
		model.KindFloat:   "FLOAT",
		model.KindText:    "TEXT",
	}
}

// MapKind converts a column kind to its SQL type keyword
func (c *TypeConverter) MapKind(kind model.Kind) (string, error) {
	sqlType, ok := c.config.TypeMap[kind]
	if !ok || sqlType == "" {
		c.logger.Warn("Unknown column kind encountered",
			zap.String("kind", kind.String()))
		return "", fmt.Errorf("%w: %s", ErrUnmappedKind, kind)
	}
	return sqlType, nil
}
