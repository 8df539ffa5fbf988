package profiling

import (
	"time"

	"datalens/domain/core"
	"datalens/domain/dataset"
)

// dateLayouts is the fixed set of date/timestamp string formats the
// inferencer recognizes. A column is a date column only when every non-null
// value matches at least one layout.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"01/02/2006",
}

// SchemaInferencer assigns each column a type tag from its values.
type SchemaInferencer struct{}

// NewSchemaInferencer creates a new schema inferencer
func NewSchemaInferencer() *SchemaInferencer {
	return &SchemaInferencer{}
}

// Infer scans the dataset once and classifies every declared column.
// An empty dataset is a reportable condition, not an empty result.
func (si *SchemaInferencer) Infer(ds dataset.Dataset) (map[string]dataset.ColumnProfile, error) {
	if len(ds.Rows) == 0 {
		return nil, core.ErrEmptyDataset
	}

	profiles := make(map[string]dataset.ColumnProfile, len(ds.Columns))
	for _, column := range ds.Columns {
		profiles[column] = dataset.ColumnProfile{
			Name: column,
			Type: si.classify(ds.ColumnValues(column)),
		}
	}
	return profiles, nil
}

// classify applies the decision table: numeric if every non-null value reads
// as a number, else date if every non-null value matches a known layout,
// else categorical. All-null columns default to categorical. Booleans are
// never numeric; aggregating over them is not meaningful here.
func (si *SchemaInferencer) classify(values []dataset.Value) dataset.ColumnType {
	present := make([]dataset.Value, 0, len(values))
	for _, v := range values {
		if !v.IsMissing() {
			present = append(present, v)
		}
	}
	if len(present) == 0 {
		return dataset.TypeCategorical
	}

	numeric := true
	for _, v := range present {
		if _, ok := v.AsFloat(); !ok {
			numeric = false
			break
		}
	}
	if numeric {
		return dataset.TypeNumeric
	}

	// Only attempted once the numeric test has failed.
	date := true
	for _, v := range present {
		if !isDate(v) {
			date = false
			break
		}
	}
	if date {
		return dataset.TypeDate
	}

	return dataset.TypeCategorical
}

func isDate(v dataset.Value) bool {
	if v.Kind != dataset.KindString {
		return false
	}
	for _, layout := range dateLayouts {
		if _, err := time.Parse(layout, v.Str); err == nil {
			return true
		}
	}
	return false
}
