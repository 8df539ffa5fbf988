package profiling

import (
	"math"
	"sort"

	"datalens/domain/core"
	"datalens/domain/dataset"

	"github.com/montanaflynn/stats"
)

// ColumnAnalyzer computes per-column statistics and chart-ready
// distributions. It is pure and stateless: every call rescans the column,
// so repeated invocations on unchanged data are bit-identical.
type ColumnAnalyzer struct {
	maxBins       int
	topCategories int
	trendPoints   int
}

const (
	defaultMaxBins       = 10
	defaultTopCategories = 8
	defaultTrendPoints   = 500
)

// NewColumnAnalyzer creates an analyzer with default bucketing parameters.
func NewColumnAnalyzer() *ColumnAnalyzer {
	return &ColumnAnalyzer{
		maxBins:       defaultMaxBins,
		topCategories: defaultTopCategories,
		trendPoints:   defaultTrendPoints,
	}
}

// NewColumnAnalyzerWith creates an analyzer with explicit bucketing
// parameters; non-positive arguments fall back to the defaults.
func NewColumnAnalyzerWith(maxBins, topCategories, trendPoints int) *ColumnAnalyzer {
	ca := NewColumnAnalyzer()
	if maxBins > 0 {
		ca.maxBins = maxBins
	}
	if topCategories > 0 {
		ca.topCategories = topCategories
	}
	if trendPoints > 0 {
		ca.trendPoints = trendPoints
	}
	return ca
}

// Analyze computes the analytics record for one column according to its
// inferred profile. Date columns are bucketed as categoricals on their
// original textual form.
func (ca *ColumnAnalyzer) Analyze(ds dataset.Dataset, column string, profile dataset.ColumnProfile) (dataset.ColumnAnalytics, error) {
	if !ds.HasColumn(column) {
		return dataset.ColumnAnalytics{}, core.NewUnknownColumnError(column)
	}

	values := ds.ColumnValues(column)
	if profile.Type == dataset.TypeNumeric {
		return ca.analyzeNumeric(column, values), nil
	}
	return ca.analyzeCategorical(column, profile.Type, values), nil
}

// analyzeNumeric computes the numeric statistic set. Population variance
// (denominator n, not n-1) is used throughout; a single-value column has
// variance and std_dev 0.
func (ca *ColumnAnalyzer) analyzeNumeric(column string, values []dataset.Value) dataset.ColumnAnalytics {
	parsed := make([]float64, 0, len(values))
	trend := make([]dataset.TrendPoint, 0, len(values))
	for i, v := range values {
		if v.IsMissing() {
			continue
		}
		f, ok := v.AsFloat()
		if !ok {
			continue
		}
		parsed = append(parsed, f)
		if len(trend) < ca.trendPoints {
			trend = append(trend, dataset.TrendPoint{Index: i, Value: f})
		}
	}

	analytics := dataset.ColumnAnalytics{
		Column:       column,
		DataType:     dataset.TypeNumeric,
		Count:        len(parsed),
		Distribution: []dataset.DistributionBucket{},
	}
	if len(parsed) == 0 {
		// No data is not zero data: all statistics stay null.
		return analytics
	}

	sum, _ := stats.Sum(parsed)
	mean, _ := stats.Mean(parsed)
	median, _ := stats.Median(parsed)
	minVal, _ := stats.Min(parsed)
	maxVal, _ := stats.Max(parsed)
	variance, _ := stats.PopulationVariance(parsed)
	stdDev, _ := stats.StdDevP(parsed)

	sorted := make([]float64, len(parsed))
	copy(sorted, parsed)
	sort.Float64s(sorted)

	analytics.Sum = ptr(sum)
	analytics.Mean = ptr(mean)
	analytics.Median = ptr(median)
	analytics.MinVal = ptr(minVal)
	analytics.MaxVal = ptr(maxVal)
	analytics.Variance = ptr(variance)
	analytics.StdDev = ptr(stdDev)
	analytics.P25 = ptr(percentile(sorted, 25))
	analytics.P50 = ptr(percentile(sorted, 50))
	analytics.P75 = ptr(percentile(sorted, 75))
	analytics.P90 = ptr(percentile(sorted, 90))

	analytics.Distribution = histogram(parsed, minVal, maxVal, ca.maxBins)
	analytics.TrendData = trend
	analytics.Shape = computeShape(parsed, mean, stdDev)
	return analytics
}

// analyzeCategorical computes frequencies, mode and the top-N distribution.
// Mode ties break by first occurrence order in the dataset.
func (ca *ColumnAnalyzer) analyzeCategorical(column string, colType dataset.ColumnType, values []dataset.Value) dataset.ColumnAnalytics {
	counts := make(map[string]int)
	order := make([]string, 0)
	for _, v := range values {
		if v.IsMissing() {
			continue
		}
		text := v.Text()
		if counts[text] == 0 {
			order = append(order, text)
		}
		counts[text]++
	}

	count := 0
	for _, c := range counts {
		count += c
	}

	analytics := dataset.ColumnAnalytics{
		Column:       column,
		DataType:     colType,
		Count:        count,
		UniqueCount:  ptr(len(counts)),
		ValueCounts:  counts,
		Distribution: topCategories(counts, order, ca.topCategories),
	}
	if count == 0 {
		return analytics
	}

	mode := order[0]
	for _, v := range order[1:] {
		if counts[v] > counts[mode] {
			mode = v
		}
	}
	analytics.Mode = ptr(mode)
	return analytics
}

// percentile computes the p-th percentile of ascending-sorted values by
// linear interpolation between the two nearest ranks (rank = p/100*(n-1)),
// the "linear" method of the common statistical packages.
func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 1 {
		return sorted[0]
	}
	rank := p / 100 * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return sorted[lo]
	}
	frac := rank - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}

func ptr[T any](v T) *T { return &v }
