// pkg/converter/ddl.go
package converter

import (
	"fmt"
	"strings"

	"github.com/David-Botos/csv-ingress/pkg/model"
)

// DropTableStatement drops the table and every object depending on it
func DropTableStatement(table string) string {
	return fmt.Sprintf("DROP TABLE IF EXISTS %s CASCADE;", table)
}

// CreateTableStatement builds a CREATE TABLE from column definitions
func CreateTableStatement(table string, columnDefs []string) string {
	return fmt.Sprintf("CREATE TABLE %s (%s);", table, strings.Join(columnDefs, ", "))
}

// TableDDL returns the DROP and CREATE statements for the dataset, in execution order
func (c *TypeConverter) TableDDL(table string, ds *model.Dataset) ([]string, error) {
	columnDefs, err := c.GenerateColumnDefinitions(ds)
	if err != nil {
		return nil, fmt.Errorf("failed to generate column definitions: %w", err)
	}

	return []string{
		DropTableStatement(table),
		CreateTableStatement(table, columnDefs),
	}, nil
}
