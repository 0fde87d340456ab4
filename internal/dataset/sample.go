package dataset

import (
	"math"
	"math/rand"
	"time"
)

const sampleSeed = 42

// SampleRows generates the built-in demo dataset: 90 days of observations
// for five metrics across four segments, from a fixed seed so every run
// produces the same data.
func SampleRows() []MetricRow {
	rng := rand.New(rand.NewSource(sampleSeed))

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	metrics := []string{"revenue", "users", "engagement", "retention", "conversion"}
	segments := []string{"enterprise", "consumer", "premium", "free"}

	var rows []MetricRow
	for day := 0; day < 90; day++ {
		date := start.AddDate(0, 0, day).Format("2006-01-02")
		for _, metric := range metrics {
			for _, segment := range segments {
				value := sampleValue(rng, metric, segment)
				rows = append(rows, MetricRow{
					Date:    date,
					Metric:  metric,
					Segment: segment,
					Value:   math.Round(value*100) / 100,
				})
			}
		}
	}
	return rows
}

func sampleValue(rng *rand.Rand, metric, segment string) float64 {
	highValue := segment == "enterprise" || segment == "premium"

	switch metric {
	case "revenue":
		base := 5000.0
		if highValue {
			base = 10000.0
		}
		return base + rng.NormFloat64()*base*0.1
	case "users":
		base := 5000.0
		if highValue {
			base = 1000.0
		}
		return base + rng.NormFloat64()*base*0.05
	case "engagement", "retention", "conversion":
		base := 0.65
		if highValue {
			base = 0.75
		}
		return clamp01(base + rng.NormFloat64()*0.05)
	default:
		return rng.Float64() * 100
	}
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
