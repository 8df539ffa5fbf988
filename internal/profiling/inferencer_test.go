package profiling

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"datalens/domain/core"
	"datalens/domain/dataset"
)

func rowsFromColumn(name string, values []dataset.Value) dataset.Dataset {
	rows := make([]dataset.Record, len(values))
	for i, v := range values {
		rows[i] = dataset.Record{name: v}
	}
	return dataset.Dataset{Columns: []string{name}, Rows: rows}
}

func TestInferColumnTypes(t *testing.T) {
	tests := []struct {
		name     string
		values   []dataset.Value
		expected dataset.ColumnType
	}{
		{
			name: "all numbers should be numeric",
			values: []dataset.Value{
				dataset.NumberValue(1), dataset.NumberValue(2.5), dataset.NumberValue(-3),
			},
			expected: dataset.TypeNumeric,
		},
		{
			name: "numeric strings should be numeric",
			values: []dataset.Value{
				dataset.StringValue("25"), dataset.StringValue("34.5"), dataset.StringValue("-7"),
			},
			expected: dataset.TypeNumeric,
		},
		{
			name: "one non-numeric value disqualifies numeric",
			values: []dataset.Value{
				dataset.NumberValue(1), dataset.NumberValue(2), dataset.StringValue("n/a"),
			},
			expected: dataset.TypeCategorical,
		},
		{
			name: "nulls are ignored for numeric inference",
			values: []dataset.Value{
				dataset.NumberValue(1), dataset.NullValue(), dataset.NumberValue(2),
			},
			expected: dataset.TypeNumeric,
		},
		{
			name: "iso dates should be date",
			values: []dataset.Value{
				dataset.StringValue("2024-01-15"), dataset.StringValue("2024-02-01"),
			},
			expected: dataset.TypeDate,
		},
		{
			name: "rfc3339 timestamps should be date",
			values: []dataset.Value{
				dataset.StringValue("2024-01-15T10:30:00Z"), dataset.StringValue("2024-06-01T00:00:00Z"),
			},
			expected: dataset.TypeDate,
		},
		{
			name: "us-style dates should be date",
			values: []dataset.Value{
				dataset.StringValue("01/15/2024"), dataset.StringValue("12/31/2023"),
			},
			expected: dataset.TypeDate,
		},
		{
			name: "one non-date value disqualifies date",
			values: []dataset.Value{
				dataset.StringValue("2024-01-15"), dataset.StringValue("not a date"),
			},
			expected: dataset.TypeCategorical,
		},
		{
			name: "booleans are categorical",
			values: []dataset.Value{
				dataset.BoolValue(true), dataset.BoolValue(false),
			},
			expected: dataset.TypeCategorical,
		},
		{
			name: "text values are categorical",
			values: []dataset.Value{
				dataset.StringValue("North"), dataset.StringValue("South"),
			},
			expected: dataset.TypeCategorical,
		},
		{
			name: "all nulls default to categorical",
			values: []dataset.Value{
				dataset.NullValue(), dataset.NullValue(),
			},
			expected: dataset.TypeCategorical,
		},
		{
			name: "whitespace strings count as missing",
			values: []dataset.Value{
				dataset.StringValue("  "), dataset.NumberValue(4),
			},
			expected: dataset.TypeNumeric,
		},
		{
			name: "single numeric value",
			values: []dataset.Value{
				dataset.NumberValue(42),
			},
			expected: dataset.TypeNumeric,
		},
	}

	inferencer := NewSchemaInferencer()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds := rowsFromColumn("col", tt.values)
			profiles, err := inferencer.Infer(ds)
			require.NoError(t, err)
			require.Contains(t, profiles, "col")
			assert.Equal(t, tt.expected, profiles["col"].Type)
		})
	}
}

func TestInferEmptyDataset(t *testing.T) {
	inferencer := NewSchemaInferencer()
	_, err := inferencer.Infer(dataset.Dataset{Columns: []string{"a"}})
	require.ErrorIs(t, err, core.ErrEmptyDataset)
}

func TestInferNumericBeatsDate(t *testing.T) {
	// Values parseable as both numbers and dates classify as numeric.
	inferencer := NewSchemaInferencer()
	ds := rowsFromColumn("year", []dataset.Value{
		dataset.StringValue("2023"), dataset.StringValue("2024"),
	})
	profiles, err := inferencer.Infer(ds)
	require.NoError(t, err)
	assert.Equal(t, dataset.TypeNumeric, profiles["year"].Type)
}

func TestInferClassifiesEveryColumn(t *testing.T) {
	inferencer := NewSchemaInferencer()
	ds := dataset.Dataset{
		Columns: []string{"amount", "city", "when"},
		Rows: []dataset.Record{
			{
				"amount": dataset.NumberValue(10),
				"city":   dataset.StringValue("Oslo"),
				"when":   dataset.StringValue("2024-03-01"),
			},
			{
				"amount": dataset.NumberValue(20),
				"city":   dataset.StringValue("Bergen"),
				"when":   dataset.StringValue("2024-03-02"),
			},
		},
	}

	profiles, err := inferencer.Infer(ds)
	require.NoError(t, err)
	require.Len(t, profiles, 3)
	assert.Equal(t, dataset.TypeNumeric, profiles["amount"].Type)
	assert.Equal(t, dataset.TypeCategorical, profiles["city"].Type)
	assert.Equal(t, dataset.TypeDate, profiles["when"].Type)
}
