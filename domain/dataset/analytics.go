package dataset

import (
	"encoding/json"
	"fmt"
)

// BucketKind distinguishes the two distribution bucket wire shapes.
type BucketKind int

const (
	// BucketRange is a numeric histogram bin, serialized as {range, count}.
	BucketRange BucketKind = iota
	// BucketCategory is a categorical frequency entry, serialized as {name, value}.
	BucketCategory
)

// DistributionBucket is one entry of a chart-ready distribution. The field
// naming on the wire ({range, count} for numeric bins, {name, value} for
// categorical entries) is a contract with the presentation layer.
type DistributionBucket struct {
	Kind  BucketKind
	Label string
	Count int
}

type rangeBucket struct {
	Range string `json:"range"`
	Count int    `json:"count"`
}

type categoryBucket struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

func (b DistributionBucket) MarshalJSON() ([]byte, error) {
	if b.Kind == BucketCategory {
		return json.Marshal(categoryBucket{Name: b.Label, Value: b.Count})
	}
	return json.Marshal(rangeBucket{Range: b.Label, Count: b.Count})
}

func (b *DistributionBucket) UnmarshalJSON(data []byte) error {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return err
	}
	if _, ok := probe["name"]; ok {
		var cb categoryBucket
		if err := json.Unmarshal(data, &cb); err != nil {
			return err
		}
		*b = DistributionBucket{Kind: BucketCategory, Label: cb.Name, Count: cb.Value}
		return nil
	}
	if _, ok := probe["range"]; ok {
		var rb rangeBucket
		if err := json.Unmarshal(data, &rb); err != nil {
			return err
		}
		*b = DistributionBucket{Kind: BucketRange, Label: rb.Range, Count: rb.Count}
		return nil
	}
	return fmt.Errorf("distribution bucket has neither range nor name field")
}

// TrendPoint pairs a row index with a numeric value for line charts.
type TrendPoint struct {
	Index int     `json:"index"`
	Value float64 `json:"value"`
}

// DistributionShape carries distribution-shape diagnostics for numeric
// columns (supplementary to the summary statistics).
type DistributionShape struct {
	Skewness float64 `json:"skewness"`
	Kurtosis float64 `json:"kurtosis"`
	IsNormal bool    `json:"is_normal"`
	NormalP  float64 `json:"normal_p"`
}

// ColumnAnalytics is the full analysis output for one column. Numeric
// statistics are pointers so that a column with no non-null values reports
// explicit nulls rather than zeros; zero is a valid data value and must never
// be conflated with "no data".
type ColumnAnalytics struct {
	Column   string     `json:"column"`
	DataType ColumnType `json:"data_type"`
	// Count is the number of non-null values that entered the analysis.
	Count int `json:"count"`

	// Numeric statistics
	Sum      *float64 `json:"sum,omitempty"`
	Mean     *float64 `json:"mean,omitempty"`
	Median   *float64 `json:"median,omitempty"`
	MinVal   *float64 `json:"min_val,omitempty"`
	MaxVal   *float64 `json:"max_val,omitempty"`
	StdDev   *float64 `json:"std_dev,omitempty"`
	Variance *float64 `json:"variance,omitempty"`
	P25      *float64 `json:"p25,omitempty"`
	P50      *float64 `json:"p50,omitempty"`
	P75      *float64 `json:"p75,omitempty"`
	P90      *float64 `json:"p90,omitempty"`

	// Categorical statistics (dates bucket as categoricals)
	UniqueCount *int           `json:"unique_count,omitempty"`
	Mode        *string        `json:"mode,omitempty"`
	ValueCounts map[string]int `json:"value_counts,omitempty"`

	Distribution []DistributionBucket `json:"distribution"`

	// Supplementary chart data
	TrendData []TrendPoint       `json:"trend_data,omitempty"`
	Shape     *DistributionShape `json:"shape,omitempty"`
}

// ColumnError reports a per-column analysis failure inside a batch request.
type ColumnError struct {
	Column  string `json:"column"`
	Message string `json:"message"`
}
