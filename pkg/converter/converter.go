// pkg/converter/converter.go
package converter

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/David-Botos/csv-ingress/pkg/loader"
	"github.com/David-Botos/csv-ingress/pkg/model"
)

// TimestampType is the SQL type forced onto timestamp override columns
const TimestampType = "TIMESTAMP"

// TypeConverter maps dataset column kinds to SQL column types
type TypeConverter struct {
	logger *zap.Logger
	// Configuration options
	config TypeConverterConfig
}

// TypeConverterConfig provides configuration options for type conversion
type TypeConverterConfig struct {
	// Kind to SQL keyword mapping
	TypeMap map[model.Kind]string
	// Source column names always typed TIMESTAMP, whatever their inferred kind
	TimestampColumns []string
}

// DefaultConfig returns the default configuration
func DefaultConfig() TypeConverterConfig {
	return TypeConverterConfig{
		TypeMap:          DefaultTypeMap(),
		TimestampColumns: []string{loader.PurchaseDateColumn},
	}
}

// NewTypeConverter creates a new TypeConverter with default configuration
func NewTypeConverter(logger *zap.Logger) *TypeConverter {
	return NewTypeConverterWithConfig(logger, DefaultConfig())
}

// NewTypeConverterWithConfig creates a TypeConverter with custom configuration
func NewTypeConverterWithConfig(logger *zap.Logger, config TypeConverterConfig) *TypeConverter {
	if config.TypeMap == nil {
		config.TypeMap = DefaultTypeMap()
	}
	return &TypeConverter{
		logger: logger,
		config: config,
	}
}

// ColumnType returns the SQL type of a single column
func (c *TypeConverter) ColumnType(col model.Column) (string, error) {
	if c.isTimestampColumn(col.SourceName) {
		if col.Kind != model.KindText {
			c.logger.Debug("Forcing timestamp type on non-text column",
				zap.String("column", col.Name),
				zap.String("kind", col.Kind.String()))
		}
		return TimestampType, nil
	}

	sqlType, err := c.MapKind(col.Kind)
	if err != nil {
		return "", fmt.Errorf("column %s: %w", col.Name, err)
	}
	return sqlType, nil
}

// ResolveColumns sets SQLType on every dataset column.
// Nothing is modified if any column cannot be mapped.
func (c *TypeConverter) ResolveColumns(ds *model.Dataset) error {
	types := make([]string, len(ds.Columns))
	for i, col := range ds.Columns {
		sqlType, err := c.ColumnType(col)
		if err != nil {
			return err
		}
		types[i] = sqlType
	}

	for i := range ds.Columns {
		ds.Columns[i].SQLType = types[i]
	}

	for _, name := range c.config.TimestampColumns {
		if ds.GetColumnBySource(name) == nil {
			c.logger.Warn("Timestamp column not in dataset", zap.String("column", name))
		}
	}
	return nil
}

// GenerateColumnDefinitions creates "name TYPE" definitions in column order
func (c *TypeConverter) GenerateColumnDefinitions(ds *model.Dataset) ([]string, error) {
	definitions := make([]string, 0, len(ds.Columns))

	for _, col := range ds.Columns {
		sqlType := col.SQLType
		if sqlType == "" {
			var err error
			sqlType, err = c.ColumnType(col)
			if err != nil {
				return nil, err
			}
		}
		definitions = append(definitions, fmt.Sprintf("%s %s", col.Name, sqlType))
	}

	return definitions, nil
}

func (c *TypeConverter) isTimestampColumn(sourceName string) bool {
	for _, name := range c.config.TimestampColumns {
		if strings.EqualFold(name, sourceName) {
			return true
		}
	}
	return false
}
