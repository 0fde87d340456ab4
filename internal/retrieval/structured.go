package retrieval

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/sahoo-tech/RAG/internal/dataset"
	"github.com/sahoo-tech/RAG/internal/models"
	"github.com/sahoo-tech/RAG/internal/stats"
)

const structuredConfidence = 0.9

// StructuredRetriever aggregates metric observations from a MetricStore into
// evidence objects, one per requested time window.
type StructuredRetriever struct {
	store  dataset.MetricStore
	logger *zerolog.Logger
}

func NewStructuredRetriever(store dataset.MetricStore, logger *zerolog.Logger) *StructuredRetriever {
	return &StructuredRetriever{store: store, logger: logger}
}

// Retrieve builds aggregates for every metric and segment combination the
// sub-question names.
func (r *StructuredRetriever) Retrieve(ctx context.Context, subQuestion models.SubQuestion) ([]models.EvidenceObject, error) {
	start := time.Now()

	var evidence []models.EvidenceObject
	for _, metric := range subQuestion.RequiredMetrics {
		for _, segment := range subQuestion.RequiredSegments {
			objects, err := r.retrieveMetricSegment(ctx, metric, segment, subQuestion.TimeWindows)
			if err != nil {
				return nil, err
			}
			evidence = append(evidence, objects...)
		}
	}

	r.logger.Info().
		Str("query", truncate(subQuestion.Question, 50)).
		Int("retrieved", len(evidence)).
		Int64("time_ms", time.Since(start).Milliseconds()).
		Msg("Structured retrieval complete")

	return evidence, nil
}

func (r *StructuredRetriever) retrieveMetricSegment(ctx context.Context, metric, segment string, timeWindows []string) ([]models.EvidenceObject, error) {
	// Segment "all" means no segment filter.
	filterSegment := segment
	if filterSegment == "all" {
		filterSegment = ""
	}

	rows, err := r.store.Filter(ctx, metric, filterSegment)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	values := make([]float64, len(rows))
	for i, row := range rows {
		values[i] = row.Value
	}

	evidence := make([]models.EvidenceObject, 0, len(timeWindows))
	for _, window := range timeWindows {
		evidence = append(evidence, aggregateEvidence(values, metric, segment, window))
	}
	return evidence, nil
}

// aggregateEvidence summarizes a value series as its mean, with the change
// computed between the means of the first and second halves of the series.
func aggregateEvidence(values []float64, metric, segment, timeWindow string) models.EvidenceObject {
	currentValue := stats.Mean(values)

	var change *float64
	if len(values) > 1 {
		mid := len(values) / 2
		change = stats.PercentageChange(stats.Mean(values[:mid]), stats.Mean(values[mid:]))
	}

	support := fmt.Sprintf("%s for %s segment: current value %.2f", capitalize(metric), segment, currentValue)
	if change != nil {
		support += fmt.Sprintf(", %+.1f%% change from previous period", *change)
	}

	return models.EvidenceObject{
		Metric:     metric,
		Segment:    segment,
		TimeWindow: timeWindow,
		Value:      currentValue,
		Change:     change,
		Support:    support,
		Source:     models.SourceStructured,
		Confidence: structuredConfidence,
	}
}

// CohortBreakdown returns one mean-value evidence object per distinct segment
// present in the store for the given metric.
func (r *StructuredRetriever) CohortBreakdown(ctx context.Context, metric string) ([]models.EvidenceObject, error) {
	rows, err := r.store.Filter(ctx, metric, "")
	if err != nil {
		return nil, err
	}

	grouped := make(map[string][]float64)
	var order []string
	for _, row := range rows {
		if _, ok := grouped[row.Segment]; !ok {
			order = append(order, row.Segment)
		}
		grouped[row.Segment] = append(grouped[row.Segment], row.Value)
	}

	evidence := make([]models.EvidenceObject, 0, len(order))
	for _, segment := range order {
		value := stats.Mean(grouped[segment])
		evidence = append(evidence, models.EvidenceObject{
			Metric:     metric,
			Segment:    segment,
			TimeWindow: "all",
			Value:      value,
			Support:    fmt.Sprintf("%s for %s: %.2f", metric, segment, value),
			Source:     models.SourceStructured,
			Confidence: structuredConfidence,
		})
	}
	return evidence, nil
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}
