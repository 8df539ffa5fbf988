package profiling

import (
	"math"

	"datalens/domain/dataset"

	"gonum.org/v1/gonum/stat/distuv"
)

// computeShape derives distribution-shape diagnostics for a numeric column.
// Too-small samples report neutral values rather than failing.
func computeShape(data []float64, mean, stdDev float64) *dataset.DistributionShape {
	shape := &dataset.DistributionShape{
		Kurtosis: 3.0,
		NormalP:  1.0,
	}
	if len(data) < 3 || stdDev == 0 {
		return shape
	}

	shape.Skewness = calculateSkewness(data, mean, stdDev)
	shape.Kurtosis = calculateKurtosis(data, mean, stdDev)
	shape.IsNormal, shape.NormalP = testNormality(shape.Skewness, shape.Kurtosis)
	return shape
}

// calculateSkewness computes sample skewness using the adjusted
// Fisher-Pearson coefficient.
func calculateSkewness(data []float64, mean, stdDev float64) float64 {
	if len(data) < 3 {
		return 0
	}

	n := float64(len(data))
	sumCubedDeviations := 0.0
	for _, x := range data {
		deviation := (x - mean) / stdDev
		sumCubedDeviations += deviation * deviation * deviation
	}

	skewness := sumCubedDeviations / n
	correction := math.Sqrt(n*(n-1)) / (n - 2)
	return skewness * correction
}

// calculateKurtosis computes sample kurtosis (total, not excess).
func calculateKurtosis(data []float64, mean, stdDev float64) float64 {
	if len(data) < 4 {
		return 3.0
	}

	n := float64(len(data))
	sumFourthDeviations := 0.0
	for _, x := range data {
		deviation := (x - mean) / stdDev
		sumFourthDeviations += deviation * deviation * deviation * deviation
	}

	kurtosis := sumFourthDeviations / n
	if n > 3 {
		correction := (n - 1) / ((n - 2) * (n - 3))
		kurtosis = kurtosis*correction + 6/(n+1)
	}
	return kurtosis + 3
}

// testNormality approximates a normality test from skewness and excess
// kurtosis via a chi-square tail. It is a screening heuristic, not a
// substitute for a proper Shapiro-Wilk test.
func testNormality(skewness, kurtosis float64) (isNormal bool, pValue float64) {
	testStat := math.Abs(skewness) + math.Abs(kurtosis-3)/2

	chiDist := distuv.ChiSquared{K: 2}
	pValue = 1 - chiDist.CDF(testStat*testStat)
	isNormal = pValue > 0.05
	return isNormal, pValue
}
