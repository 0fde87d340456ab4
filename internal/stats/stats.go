// Package stats provides the small set of descriptive statistics the
// retrieval and analysis stages share.
package stats

import (
	"math"
	"sort"
)

// Mean returns the arithmetic mean, or 0 for an empty slice.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// PopulationStd returns the population standard deviation (N divisor),
// or 0 for an empty slice.
func PopulationStd(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	mean := Mean(values)
	var sum float64
	for _, v := range values {
		d := v - mean
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(values)))
}

// PercentageChange returns ((new-old)/|old|)*100, or nil when the old value
// is zero and the change is undefined.
func PercentageChange(oldValue, newValue float64) *float64 {
	if oldValue == 0 {
		return nil
	}
	change := ((newValue - oldValue) / math.Abs(oldValue)) * 100
	return &change
}

// VarianceStats summarizes the spread of a series.
type VarianceStats struct {
	Mean                   float64 `json:"mean"`
	Median                 float64 `json:"median"`
	Std                    float64 `json:"std"`
	Variance               float64 `json:"variance"`
	Min                    float64 `json:"min"`
	Max                    float64 `json:"max"`
	Range                  float64 `json:"range"`
	CoefficientOfVariation float64 `json:"coefficient_of_variation"`
}

// Describe computes VarianceStats for a series of at least two values.
// Returns nil for shorter input.
func Describe(values []float64) *VarianceStats {
	if len(values) < 2 {
		return nil
	}

	mean := Mean(values)
	std := PopulationStd(values)
	min, max := values[0], values[0]
	for _, v := range values[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}

	var cv float64
	if mean != 0 {
		cv = std / mean
	}

	return &VarianceStats{
		Mean:                   mean,
		Median:                 median(values),
		Std:                    std,
		Variance:               std * std,
		Min:                    min,
		Max:                    max,
		Range:                  max - min,
		CoefficientOfVariation: cv,
	}
}

func median(values []float64) float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}

// PearsonCorrelation returns the correlation coefficient between two series
// of equal-truncated length. The second return is false when either series
// has fewer than three points or no variance.
func PearsonCorrelation(a, b []float64) (float64, bool) {
	if len(a) < 3 || len(b) < 3 {
		return 0, false
	}
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	a, b = a[:n], b[:n]

	meanA, meanB := Mean(a), Mean(b)
	var cov, varA, varB float64
	for i := 0; i < n; i++ {
		da := a[i] - meanA
		db := b[i] - meanB
		cov += da * db
		varA += da * da
		varB += db * db
	}
	if varA == 0 || varB == 0 {
		return 0, false
	}
	return cov / math.Sqrt(varA*varB), true
}
