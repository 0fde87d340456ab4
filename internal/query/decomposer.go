package query

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/rs/zerolog"
	"github.com/sahoo-tech/RAG/internal/models"
)

// Decomposer expands a classified query into ordered sub-questions, each
// naming the metrics, segments and time windows it needs.
type Decomposer struct {
	logger *zerolog.Logger
}

func NewDecomposer(logger *zerolog.Logger) *Decomposer {
	return &Decomposer{logger: logger}
}

var metricPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b(revenue|sales|profit|cost|price|margin)\b`),
	regexp.MustCompile(`\b(users?|customers?|accounts?|subscribers?)\b`),
	regexp.MustCompile(`\b(engagement|retention|churn|conversion)\b`),
	regexp.MustCompile(`\b(traffic|visits?|sessions?|pageviews?)\b`),
	regexp.MustCompile(`\b(orders?|transactions?|purchases?)\b`),
	regexp.MustCompile(`\b(growth|rate|percentage|ratio)\b`),
}

var segmentPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b(segment|cohort|group|category)\s+(\w+)`),
	regexp.MustCompile(`\b(enterprise|small business|consumer|individual)\b`),
	regexp.MustCompile(`\b(mobile|desktop|web|app)\b`),
	regexp.MustCompile(`\b(new|existing|returning|churned)\b`),
	regexp.MustCompile(`\b(premium|free|trial|paid)\b`),
}

var (
	lastWindowPattern = regexp.MustCompile(`last\s+(\d+)\s+(day|week|month|quarter|year)s?`)
	quarterPattern    = regexp.MustCompile(`q([1-4])\s+(\d{4})`)
	yearPattern       = regexp.MustCompile(`\b(20\d{2})\b`)
)

// Decompose builds the sub-question list for the given intent. The priority
// order is the identity permutation; construction validates it against the
// sub-question count.
func (d *Decomposer) Decompose(query string, intent models.AnalyticalIntent) (*models.QueryDecomposition, error) {
	metrics := extractMetrics(query)
	segments := extractSegments(query)
	timeWindows := extractTimeWindows(query)

	subQuestions := generateSubQuestions(intent, metrics, segments, timeWindows)

	priorityOrder := make([]int, len(subQuestions))
	for i := range priorityOrder {
		priorityOrder[i] = i
	}

	decomposition, err := models.NewQueryDecomposition(query, intent, subQuestions, priorityOrder)
	if err != nil {
		return nil, err
	}

	d.logger.Info().
		Str("query", truncate(query, 100)).
		Str("intent", string(intent)).
		Int("sub_questions", len(subQuestions)).
		Strs("metrics", metrics).
		Strs("segments", segments).
		Msg("Query decomposed")

	return decomposition, nil
}

func extractMetrics(query string) []string {
	queryLower := strings.ToLower(query)

	var metrics []string
	seen := make(map[string]bool)
	for _, pattern := range metricPatterns {
		for _, match := range pattern.FindAllString(queryLower, -1) {
			if !seen[match] {
				seen[match] = true
				metrics = append(metrics, match)
			}
		}
	}

	if len(metrics) == 0 {
		metrics = append(metrics, "value")
	}
	return metrics
}

func extractSegments(query string) []string {
	queryLower := strings.ToLower(query)

	var segments []string
	seen := make(map[string]bool)
	for _, pattern := range segmentPatterns {
		for _, match := range pattern.FindAllStringSubmatch(queryLower, -1) {
			name := match[1]
			if name == "" && len(match) > 2 {
				name = match[2]
			}
			if name != "" && !seen[name] {
				seen[name] = true
				segments = append(segments, name)
			}
		}
	}

	if len(segments) == 0 {
		segments = append(segments, "all")
	}
	return segments
}

func extractTimeWindows(query string) []string {
	queryLower := strings.ToLower(query)

	var windows []string
	for _, match := range lastWindowPattern.FindAllStringSubmatch(queryLower, -1) {
		windows = append(windows, fmt.Sprintf("last_%s_%ss", match[1], match[2]))
	}
	for _, match := range quarterPattern.FindAllStringSubmatch(queryLower, -1) {
		windows = append(windows, fmt.Sprintf("Q%s_%s", match[1], match[2]))
	}
	for _, match := range yearPattern.FindAllStringSubmatch(queryLower, -1) {
		windows = append(windows, match[1])
	}

	if len(windows) == 0 {
		windows = append(windows, "last_7_days")
	}
	return windows
}

func generateSubQuestions(intent models.AnalyticalIntent, metrics, segments, timeWindows []string) []models.SubQuestion {
	switch intent {
	case models.IntentTrendAnalysis:
		return trendQuestions(metrics, segments, timeWindows)
	case models.IntentSegmentation:
		return segmentationQuestions(metrics, segments, timeWindows)
	case models.IntentComparison:
		return comparisonQuestions(metrics, segments, timeWindows)
	case models.IntentAnomalyExplanation:
		return anomalyQuestions(metrics, segments, timeWindows)
	case models.IntentDescriptiveSummary:
		return summaryQuestions(metrics, segments, timeWindows)
	default:
		return nil
	}
}

func trendQuestions(metrics, segments, timeWindows []string) []models.SubQuestion {
	var questions []models.SubQuestion
	for _, metric := range metrics {
		questions = append(questions, models.SubQuestion{
			Question:            fmt.Sprintf("What is the current value of %s?", metric),
			RequiredMetrics:     []string{metric},
			RequiredSegments:    segments,
			TimeWindows:         timeWindows[:1],
			ContributingFactors: []string{},
		})
		questions = append(questions, models.SubQuestion{
			Question:            fmt.Sprintf("How has %s changed over %s?", metric, timeWindows[0]),
			RequiredMetrics:     []string{metric},
			RequiredSegments:    segments,
			TimeWindows:         timeWindows,
			ContributingFactors: []string{"time", "seasonality"},
		})
	}
	return questions
}

func segmentationQuestions(metrics, segments, timeWindows []string) []models.SubQuestion {
	var questions []models.SubQuestion
	for _, metric := range metrics {
		questions = append(questions, models.SubQuestion{
			Question:            fmt.Sprintf("What is the distribution of %s across segments?", metric),
			RequiredMetrics:     []string{metric},
			RequiredSegments:    segments,
			TimeWindows:         timeWindows[:1],
			ContributingFactors: []string{"segment_characteristics"},
		})
	}
	return questions
}

func comparisonQuestions(metrics, segments, timeWindows []string) []models.SubQuestion {
	var questions []models.SubQuestion
	for _, metric := range metrics {
		questions = append(questions, models.SubQuestion{
			Question:            fmt.Sprintf("What are the values of %s for each segment?", metric),
			RequiredMetrics:     []string{metric},
			RequiredSegments:    segments,
			TimeWindows:         timeWindows[:1],
			ContributingFactors: []string{},
		})
		if len(segments) >= 2 {
			questions = append(questions, models.SubQuestion{
				Question:            fmt.Sprintf("What is the difference in %s between segments?", metric),
				RequiredMetrics:     []string{metric},
				RequiredSegments:    segments,
				TimeWindows:         timeWindows[:1],
				ContributingFactors: []string{"segment_differences"},
			})
		}
	}
	return questions
}

func anomalyQuestions(metrics, segments, timeWindows []string) []models.SubQuestion {
	var questions []models.SubQuestion
	for _, metric := range metrics {
		questions = append(questions, models.SubQuestion{
			Question:            fmt.Sprintf("What is the baseline value of %s?", metric),
			RequiredMetrics:     []string{metric},
			RequiredSegments:    segments,
			TimeWindows:         timeWindows,
			ContributingFactors: []string{},
		})
		questions = append(questions, models.SubQuestion{
			Question:            fmt.Sprintf("What factors might have influenced %s?", metric),
			RequiredMetrics:     []string{metric},
			RequiredSegments:    segments,
			TimeWindows:         timeWindows,
			ContributingFactors: []string{"external_events", "seasonality", "segment_changes"},
		})
	}
	return questions
}

func summaryQuestions(metrics, segments, timeWindows []string) []models.SubQuestion {
	var questions []models.SubQuestion
	for _, metric := range metrics {
		questions = append(questions, models.SubQuestion{
			Question:            fmt.Sprintf("What are the key statistics for %s?", metric),
			RequiredMetrics:     []string{metric},
			RequiredSegments:    segments,
			TimeWindows:         timeWindows[:1],
			ContributingFactors: []string{},
		})
	}
	return questions
}
