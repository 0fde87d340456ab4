package query

import (
	"regexp"
	"strings"

	"github.com/rs/zerolog"
	"github.com/sahoo-tech/RAG/internal/models"
)

// Classifier maps free-text queries to one of the five analytical intents
// using keyword and pattern scoring. Stateless and deterministic.
type Classifier struct {
	logger *zerolog.Logger
}

func NewClassifier(logger *zerolog.Logger) *Classifier {
	return &Classifier{logger: logger}
}

// Ties resolve in this order.
var intentOrder = []models.AnalyticalIntent{
	models.IntentTrendAnalysis,
	models.IntentSegmentation,
	models.IntentComparison,
	models.IntentAnomalyExplanation,
	models.IntentDescriptiveSummary,
}

var intentKeywords = map[models.AnalyticalIntent][]string{
	models.IntentTrendAnalysis: {
		"trend", "over time", "growth", "decline", "increase", "decrease",
		"change", "evolution", "progression", "trajectory", "pattern",
		"last", "past", "historical", "time series",
	},
	models.IntentSegmentation: {
		"segment", "group", "cohort", "category", "breakdown", "split",
		"by", "across", "distribution", "demographics", "types",
	},
	models.IntentComparison: {
		"compare", "comparison", "versus", "vs", "difference", "between",
		"against", "relative to", "better", "worse", "higher", "lower",
		"than", "contrast",
	},
	models.IntentAnomalyExplanation: {
		"why", "explain", "reason", "cause", "anomaly", "spike", "drop",
		"unusual", "unexpected", "outlier", "abnormal", "strange",
		"sudden", "what happened", "what caused",
	},
	models.IntentDescriptiveSummary: {
		"what", "summary", "overview", "describe", "show", "tell",
		"current", "status", "state", "snapshot", "report", "total",
		"average", "mean", "median",
	},
}

var timePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\blast\s+\d+\s+(day|week|month|year|quarter)`),
	regexp.MustCompile(`\bq[1-4]\s+\d{4}`),
	regexp.MustCompile(`\b\d{4}`),
	regexp.MustCompile(`\bmonthly\b`),
	regexp.MustCompile(`\bweekly\b`),
	regexp.MustCompile(`\bdaily\b`),
}

// Classify scores each intent by keyword matches plus pattern bonuses and
// returns the highest. All-zero scores default to a descriptive summary.
func (c *Classifier) Classify(query string) models.AnalyticalIntent {
	queryLower := strings.ToLower(query)

	scores := make(map[models.AnalyticalIntent]int, len(intentOrder))
	for intent, keywords := range intentKeywords {
		for _, keyword := range keywords {
			if strings.Contains(queryLower, keyword) {
				scores[intent]++
			}
		}
	}

	applyPatternRules(queryLower, scores)

	best := models.IntentTrendAnalysis
	bestScore := -1
	for _, intent := range intentOrder {
		if scores[intent] > bestScore {
			best = intent
			bestScore = scores[intent]
		}
	}

	if bestScore == 0 {
		best = models.IntentDescriptiveSummary
	}

	c.logger.Info().
		Str("query", truncate(query, 100)).
		Str("intent", string(best)).
		Msg("Query classified")

	return best
}

func applyPatternRules(query string, scores map[models.AnalyticalIntent]int) {
	// Time expressions suggest trend analysis.
	for _, pattern := range timePatterns {
		if pattern.MatchString(query) {
			scores[models.IntentTrendAnalysis] += 2
		}
	}

	if strings.HasPrefix(query, "why") || strings.HasPrefix(query, "what caused") {
		scores[models.IntentAnomalyExplanation] += 3
	}

	if strings.HasPrefix(query, "compare") || strings.Contains(query, " vs ") || strings.Contains(query, " versus ") {
		scores[models.IntentComparison] += 3
	}

	if strings.Contains(query, " by ") || strings.Contains(query, " across ") {
		scores[models.IntentSegmentation] += 2
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
