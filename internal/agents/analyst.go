package agents

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/sahoo-tech/RAG/internal/models"
	"github.com/sahoo-tech/RAG/internal/stats"
)

const (
	analystAgentName = "AnalystAgent"
	analystAgentRole = "Perform comparisons and identify analytical patterns"
)

// AnalystAgent derives per-metric insights, pairwise segment comparisons,
// and corpus-level patterns from deduplicated evidence.
type AnalystAgent struct {
	logger *zerolog.Logger
}

func NewAnalystAgent(logger *zerolog.Logger) *AnalystAgent {
	return &AnalystAgent{logger: logger}
}

// Process analyzes the evidence. The intent is recorded for observability;
// the analysis itself is intent-independent.
func (a *AnalystAgent) Process(evidence []models.EvidenceObject, intent models.AnalyticalIntent) (AnalysisOutput, models.AgentResponse) {
	start := time.Now()

	a.logger.Info().
		Int("count", len(evidence)).
		Str("intent", string(intent)).
		Msg("AnalystAgent: Analyzing evidence")

	output := AnalysisOutput{
		Insights:    generateInsights(evidence),
		Comparisons: performComparisons(evidence),
		Patterns:    identifyPatterns(evidence),
	}

	a.logger.Info().
		Int("insights", len(output.Insights)).
		Int("comparisons", len(output.Comparisons)).
		Int("patterns", len(output.Patterns)).
		Msg("AnalystAgent: Analysis complete")

	return output, stageResponse(analystAgentName, analystAgentRole, output, time.Since(start))
}

// generateInsights summarizes each metric: its average value, and the
// average change with direction when any member carries a change. Metrics
// are visited in first-seen order.
func generateInsights(evidence []models.EvidenceObject) []string {
	groups := make(map[string][]models.EvidenceObject)
	var order []string
	for _, e := range evidence {
		if _, ok := groups[e.Metric]; !ok {
			order = append(order, e.Metric)
		}
		groups[e.Metric] = append(groups[e.Metric], e)
	}

	var insights []string
	for _, metric := range order {
		members := groups[metric]

		values := make([]float64, len(members))
		for i, e := range members {
			values[i] = e.Value
		}
		insights = append(insights, fmt.Sprintf("Average %s: %.2f", metric, stats.Mean(values)))

		var changes []float64
		for _, e := range members {
			if e.Change != nil {
				changes = append(changes, *e.Change)
			}
		}
		if len(changes) > 0 {
			avgChange := stats.Mean(changes)
			direction := "decreasing"
			if avgChange > 0 {
				direction = "increasing"
			}
			insights = append(insights, fmt.Sprintf(
				"%s is %s with average change of %+.1f%%",
				capitalize(metric), direction, avgChange,
			))
		}
	}
	return insights
}

// performComparisons compares every pair of segments within each metric by
// their mean values. Metrics and segments keep first-seen order so the
// output is deterministic for a given evidence order.
func performComparisons(evidence []models.EvidenceObject) []Comparison {
	type segmentGroup struct {
		segments map[string][]float64
		order    []string
	}

	groups := make(map[string]*segmentGroup)
	var metricOrder []string
	for _, e := range evidence {
		group, ok := groups[e.Metric]
		if !ok {
			group = &segmentGroup{segments: make(map[string][]float64)}
			groups[e.Metric] = group
			metricOrder = append(metricOrder, e.Metric)
		}
		if _, ok := group.segments[e.Segment]; !ok {
			group.order = append(group.order, e.Segment)
		}
		group.segments[e.Segment] = append(group.segments[e.Segment], e.Value)
	}

	var comparisons []Comparison
	for _, metric := range metricOrder {
		group := groups[metric]
		if len(group.order) < 2 {
			continue
		}
		for i := 0; i < len(group.order); i++ {
			for j := i + 1; j < len(group.order); j++ {
				seg1, seg2 := group.order[i], group.order[j]
				val1 := stats.Mean(group.segments[seg1])
				val2 := stats.Mean(group.segments[seg2])
				comparisons = append(comparisons, Comparison{
					Metric:        metric,
					Segment1:      seg1,
					Segment2:      seg2,
					Value1:        val1,
					Value2:        val2,
					DifferencePct: stats.PercentageChange(val1, val2),
				})
			}
		}
	}
	return comparisons
}

// identifyPatterns reports corpus-level observations: the dominant change
// direction when more than 70% of changes agree, and whether most evidence
// is high confidence.
func identifyPatterns(evidence []models.EvidenceObject) []string {
	var patterns []string

	var changes []float64
	for _, e := range evidence {
		if e.Change != nil {
			changes = append(changes, *e.Change)
		}
	}
	if len(changes) > 0 {
		var positive, negative int
		for _, c := range changes {
			switch {
			case c > 0:
				positive++
			case c < 0:
				negative++
			}
		}
		switch {
		case float64(positive) > float64(len(changes))*0.7:
			patterns = append(patterns, "Strong upward trend across most metrics")
		case float64(negative) > float64(len(changes))*0.7:
			patterns = append(patterns, "Strong downward trend across most metrics")
		default:
			patterns = append(patterns, "Mixed trends across metrics")
		}
	}

	highConfidence := 0
	for _, e := range evidence {
		if e.Confidence > 0.8 {
			highConfidence++
		}
	}
	if float64(highConfidence) > float64(len(evidence))*0.7 {
		patterns = append(patterns, "High confidence in most evidence")
	}

	return patterns
}
