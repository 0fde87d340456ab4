package retrieval

import (
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"
	"github.com/sahoo-tech/RAG/internal/config"
	"github.com/sahoo-tech/RAG/internal/models"
	"github.com/sahoo-tech/RAG/internal/stats"
)

const (
	trendConfidence   = 0.85
	anomalyConfidence = 0.8
)

// StatisticalAnalyzer derives trend and anomaly evidence from evidence
// collected by the other retrieval paths.
type StatisticalAnalyzer struct {
	minSampleSize int
	zScoreCutoff  float64
	logger        *zerolog.Logger
}

func NewStatisticalAnalyzer(cfg config.StatisticsConfig, logger *zerolog.Logger) *StatisticalAnalyzer {
	return &StatisticalAnalyzer{
		minSampleSize: cfg.MinSampleSize,
		zScoreCutoff:  cfg.ZScoreCutoff,
		logger:        logger,
	}
}

// Analyze groups evidence by metric and segment, then emits a trend object
// per qualifying group followed by its anomaly objects. Groups are visited in
// first-seen order.
func (a *StatisticalAnalyzer) Analyze(evidence []models.EvidenceObject) []models.EvidenceObject {
	start := time.Now()

	groups, order := groupEvidence(evidence)

	var statistical []models.EvidenceObject
	for _, key := range order {
		group := groups[key]
		if trend := a.computeTrend(group, key.metric, key.segment); trend != nil {
			statistical = append(statistical, *trend)
		}
		statistical = append(statistical, a.detectAnomalies(group, key.metric, key.segment)...)
	}

	a.logger.Info().
		Int("input_evidence", len(evidence)).
		Int("output_evidence", len(statistical)).
		Int64("time_ms", time.Since(start).Milliseconds()).
		Msg("Statistical analysis complete")

	return statistical
}

type groupKey struct {
	metric  string
	segment string
}

func groupEvidence(evidence []models.EvidenceObject) (map[groupKey][]models.EvidenceObject, []groupKey) {
	groups := make(map[groupKey][]models.EvidenceObject)
	var order []groupKey
	for _, e := range evidence {
		key := groupKey{metric: e.Metric, segment: e.Segment}
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], e)
	}
	return groups, order
}

// computeTrend averages the group's values and changes. It needs at least two
// members and at least one non-nil change; otherwise no trend is emitted.
func (a *StatisticalAnalyzer) computeTrend(group []models.EvidenceObject, metric, segment string) *models.EvidenceObject {
	if len(group) < 2 {
		return nil
	}

	values := make([]float64, len(group))
	var changes []float64
	for i, e := range group {
		values[i] = e.Value
		if e.Change != nil {
			changes = append(changes, *e.Change)
		}
	}
	if len(changes) == 0 {
		return nil
	}

	meanValue := stats.Mean(values)
	stdValue := stats.PopulationStd(values)
	meanChange := stats.Mean(changes)

	direction := "decreasing"
	if meanChange > 0 {
		direction = "increasing"
	}

	support := fmt.Sprintf(
		"Trend analysis for %s in %s: average value %.2f (±%.2f), %s trend with average change of %+.1f%%",
		metric, segment, meanValue, stdValue, direction, meanChange)

	change := meanChange
	return &models.EvidenceObject{
		Metric:     metric,
		Segment:    segment,
		TimeWindow: "aggregated",
		Value:      meanValue,
		Change:     &change,
		Support:    support,
		Source:     models.SourceStatistical,
		Confidence: trendConfidence,
	}
}

// detectAnomalies flags group members whose value lies beyond the z-score
// cutoff. Groups below the minimum sample size, or with zero variance, yield
// nothing.
func (a *StatisticalAnalyzer) detectAnomalies(group []models.EvidenceObject, metric, segment string) []models.EvidenceObject {
	if len(group) < a.minSampleSize {
		return nil
	}

	values := make([]float64, len(group))
	for i, e := range group {
		values[i] = e.Value
	}

	mean := stats.Mean(values)
	std := stats.PopulationStd(values)
	if std == 0 {
		return nil
	}

	var anomalies []models.EvidenceObject
	for _, e := range group {
		z := math.Abs((e.Value - mean) / std)
		if z <= a.zScoreCutoff {
			continue
		}
		support := fmt.Sprintf(
			"Anomaly detected in %s for %s: value %.2f is %.1f standard deviations from mean %.2f",
			metric, segment, e.Value, z, mean)
		anomalies = append(anomalies, models.EvidenceObject{
			Metric:     metric,
			Segment:    segment,
			TimeWindow: e.TimeWindow,
			Value:      e.Value,
			Change:     e.Change,
			Support:    support,
			Source:     models.SourceStatistical,
			Confidence: anomalyConfidence,
		})
	}
	return anomalies
}
