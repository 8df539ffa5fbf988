package dataset

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"datalens/domain/core"
)

// ValueKind enumerates the JSON-typed cell variants the profiler understands.
type ValueKind int

const (
	KindNull ValueKind = iota
	KindBool
	KindNumber
	KindString
)

// Value is a tagged union over the JSON scalar types. Nested objects and
// arrays are collapsed to their compact JSON text and carried as strings,
// since the profiler treats them as opaque.
type Value struct {
	Kind   ValueKind
	Bool   bool
	Number float64
	Str    string
}

// NullValue returns the null cell value.
func NullValue() Value { return Value{Kind: KindNull} }

// BoolValue wraps a boolean cell.
func BoolValue(b bool) Value { return Value{Kind: KindBool, Bool: b} }

// NumberValue wraps a numeric cell.
func NumberValue(f float64) Value { return Value{Kind: KindNumber, Number: f} }

// StringValue wraps a string cell.
func StringValue(s string) Value { return Value{Kind: KindString, Str: s} }

// IsMissing reports whether the cell carries no usable data. Empty and
// whitespace-only strings count as missing, matching ingestion behavior for
// spreadsheet-shaped sources.
func (v Value) IsMissing() bool {
	if v.Kind == KindNull {
		return true
	}
	if v.Kind == KindString && strings.TrimSpace(v.Str) == "" {
		return true
	}
	return false
}

// AsFloat attempts a numeric reading of the cell. Booleans never qualify.
func (v Value) AsFloat() (float64, bool) {
	switch v.Kind {
	case KindNumber:
		return v.Number, true
	case KindString:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.Str), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// Text returns the cell's textual form used for categorical bucketing.
// Strings keep their original text; dates therefore bucket on their source
// representation rather than a re-parsed one.
func (v Value) Text() string {
	switch v.Kind {
	case KindBool:
		return strconv.FormatBool(v.Bool)
	case KindNumber:
		return strconv.FormatFloat(v.Number, 'g', -1, 64)
	default:
		return v.Str
	}
}

// MarshalJSON emits the underlying JSON scalar.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case KindBool:
		return json.Marshal(v.Bool)
	case KindNumber:
		return json.Marshal(v.Number)
	case KindString:
		return json.Marshal(v.Str)
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON classifies an arbitrary JSON value into the union by
// exhaustive case match on its leading token.
func (v *Value) UnmarshalJSON(data []byte) error {
	d := bytes.TrimSpace(data)
	if len(d) == 0 || bytes.Equal(d, []byte("null")) {
		*v = Value{Kind: KindNull}
		return nil
	}

	switch d[0] {
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(d, &b); err != nil {
			return err
		}
		*v = Value{Kind: KindBool, Bool: b}
	case '"':
		var s string
		if err := json.Unmarshal(d, &s); err != nil {
			return err
		}
		*v = Value{Kind: KindString, Str: s}
	case '{', '[':
		// Nested structure: keep the compact JSON text as an opaque string.
		var buf bytes.Buffer
		if err := json.Compact(&buf, d); err != nil {
			return err
		}
		*v = Value{Kind: KindString, Str: buf.String()}
	default:
		var f float64
		if err := json.Unmarshal(d, &f); err != nil {
			return err
		}
		*v = Value{Kind: KindNumber, Number: f}
	}
	return nil
}

// Record is one row: a mapping from column name to cell value. Columns
// missing from a record read as null.
type Record map[string]Value

// Get returns the cell for a column, null when absent.
func (r Record) Get(column string) Value {
	if v, ok := r[column]; ok {
		return v
	}
	return NullValue()
}

// Dataset is an ordered sequence of records sharing a declared column set.
type Dataset struct {
	Columns []string `json:"columns"`
	Rows    []Record `json:"rows"`
}

// HasColumn reports whether the column belongs to the declared schema.
func (d Dataset) HasColumn(name string) bool {
	for _, c := range d.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// ColumnValues returns the column's cells in record order, including missing
// ones, so callers can preserve row indices.
func (d Dataset) ColumnValues(name string) []Value {
	values := make([]Value, len(d.Rows))
	for i, row := range d.Rows {
		values[i] = row.Get(name)
	}
	return values
}

// ColumnType classifies a column for analysis purposes.
type ColumnType string

const (
	TypeNumeric     ColumnType = "numeric"
	TypeDate        ColumnType = "date"
	TypeCategorical ColumnType = "categorical"
)

// ColumnProfile is the inferred classification for one column, computed once
// per dataset at ingestion time and read-only afterwards.
type ColumnProfile struct {
	Name string     `json:"name"`
	Type ColumnType `json:"type"`
}

// DataSession is an ingested dataset plus everything computed for it,
// keyed by an opaque session identifier.
type DataSession struct {
	ID              core.SessionID        `json:"id"`
	URL             string                `json:"url"`
	Rows            []Record              `json:"data"`
	Columns         []string              `json:"columns"`
	ColumnTypes     map[string]ColumnType `json:"column_types"`
	RowCount        int                   `json:"row_count"`
	Analytics       []ColumnAnalytics     `json:"analytics,omitempty"`
	AnalyzedColumns []string              `json:"analyzed_columns,omitempty"`
	CreatedAt       core.Timestamp        `json:"created_at"`
}

// NewDataSession creates a session for a freshly ingested dataset.
func NewDataSession(url string, ds Dataset, types map[string]ColumnType) *DataSession {
	return &DataSession{
		ID:          core.SessionID(core.NewID()),
		URL:         url,
		Rows:        ds.Rows,
		Columns:     ds.Columns,
		ColumnTypes: types,
		RowCount:    len(ds.Rows),
		CreatedAt:   core.Now(),
	}
}

// Dataset reconstructs the in-memory dataset from the stored session.
func (s *DataSession) Dataset() Dataset {
	return Dataset{Columns: s.Columns, Rows: s.Rows}
}

// StatusCheck is a liveness ping recorded by clients.
type StatusCheck struct {
	ID         core.ID        `json:"id"`
	ClientName string         `json:"client_name"`
	Timestamp  core.Timestamp `json:"timestamp"`
}

// NewStatusCheck creates a status check for a client.
func NewStatusCheck(clientName string) *StatusCheck {
	return &StatusCheck{
		ID:         core.NewID(),
		ClientName: clientName,
		Timestamp:  core.Now(),
	}
}
