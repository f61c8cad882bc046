package loader

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// PurchaseDateColumn is the source header of the purchase timestamp
const PurchaseDateColumn = "data_compra"

// Mapping describes which CSV columns are kept, in which order, and how they are renamed
type Mapping struct {
	Columns          []string          `yaml:"columns"`           // Expected source names, in target order
	Rename           map[string]string `yaml:"rename"`            // Source name -> target name
	TimestampColumns []string          `yaml:"timestamp_columns"` // Source names always typed TIMESTAMP
}

// DefaultMapping returns the mapping of the fraud classification dataset
func DefaultMapping() Mapping {
	return Mapping{
		Columns: []string{
			"pais", "entrega_doc_1", "entrega_doc_2", "entrega_doc_3", "produto", "categoria_produto",
			"data_compra", "valor_compra",
			"score_1", "score_2", "score_3", "score_4", "score_5",
			"score_6", "score_7", "score_8", "score_9", "score_10",
			"fraude", "score_fraude_modelo",
		},
		Rename: map[string]string{
			"data_compra":         "purchase_date",
			"entrega_doc_1":       "doc_sent_1",
			"entrega_doc_2":       "doc_sent_2",
			"entrega_doc_3":       "doc_sent_3",
			"pais":                "country",
			"categoria_produto":   "product_category",
			"produto":             "product",
			"valor_compra":        "purchase_value",
			"fraude":              "fraud",
			"score_fraude_modelo": "score_fraud_model",
		},
		TimestampColumns: []string{PurchaseDateColumn},
	}
}

// LoadMapping reads a mapping from a YAML file
func LoadMapping(path string) (Mapping, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Mapping{}, fmt.Errorf("failed to read mapping file: %w", err)
	}

	var m Mapping
	if err := yaml.Unmarshal(data, &m); err != nil {
		return Mapping{}, fmt.Errorf("failed to parse mapping file %s: %w", path, err)
	}

	if err := m.Validate(); err != nil {
		return Mapping{}, err
	}
	return m, nil
}

// TargetName returns the renamed column name for a source column
func (m Mapping) TargetName(source string) string {
	if renamed, ok := m.Rename[source]; ok && renamed != "" {
		return renamed
	}
	return source
}

// Validate checks that the mapping yields a usable column list
func (m Mapping) Validate() error {
	if len(m.Columns) == 0 {
		return errors.New("mapping must list at least one column")
	}

	seenSource := make(map[string]bool, len(m.Columns))
	seenTarget := make(map[string]string, len(m.Columns))
	for _, src := range m.Columns {
		if src == "" {
			return errors.New("mapping contains an empty column name")
		}
		if seenSource[src] {
			return fmt.Errorf("column %q listed twice", src)
		}
		seenSource[src] = true

		target := m.TargetName(src)
		if prev, ok := seenTarget[target]; ok {
			return fmt.Errorf("columns %q and %q both map to %q", prev, src, target)
		}
		seenTarget[target] = src
	}

	return nil
}
