package profiling

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/montanaflynn/stats"
)

func TestComputeShapeNeutralForSmallSamples(t *testing.T) {
	shape := computeShape([]float64{1, 2}, 1.5, 0.5)
	require.NotNil(t, shape)
	assert.Zero(t, shape.Skewness)
	assert.Equal(t, 3.0, shape.Kurtosis)
	assert.Equal(t, 1.0, shape.NormalP)
}

func TestComputeShapeNeutralForConstantData(t *testing.T) {
	shape := computeShape([]float64{5, 5, 5, 5}, 5, 0)
	require.NotNil(t, shape)
	assert.Zero(t, shape.Skewness)
	assert.Equal(t, 3.0, shape.Kurtosis)
}

func TestComputeShapeSymmetricData(t *testing.T) {
	data := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9}
	mean, _ := stats.Mean(data)
	stdDev, _ := stats.StdDevP(data)

	shape := computeShape(data, mean, stdDev)
	require.NotNil(t, shape)
	assert.InDelta(t, 0.0, shape.Skewness, 1e-9)
	assert.True(t, shape.IsNormal)
}

func TestComputeShapeSkewedData(t *testing.T) {
	data := []float64{1, 1, 1, 1, 1, 1, 1, 1, 1, 100}
	mean, _ := stats.Mean(data)
	stdDev, _ := stats.StdDevP(data)

	shape := computeShape(data, mean, stdDev)
	require.NotNil(t, shape)
	assert.Greater(t, shape.Skewness, 1.0)
	assert.False(t, shape.IsNormal)
}
