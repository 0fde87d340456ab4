package retrieval

import "context"

type seedEntry struct {
	text string
	meta KnowledgeMeta
}

var sampleKnowledge = []seedEntry{
	{
		text: "Revenue increased by 15.5% in Q1 2024 compared to Q4 2023 for enterprise customers",
		meta: KnowledgeMeta{
			Metric:     "revenue",
			Segment:    "enterprise",
			TimeWindow: "Q1_2024",
			Value:      125000.0,
			Change:     changePtr(15.5),
		},
	},
	{
		text: "User engagement dropped by 8% in the mobile app during last week",
		meta: KnowledgeMeta{
			Metric:     "engagement",
			Segment:    "mobile",
			TimeWindow: "last_7_days",
			Value:      0.72,
			Change:     changePtr(-8.0),
		},
	},
	{
		text: "Customer retention rate for premium users is 92% over the last month",
		meta: KnowledgeMeta{
			Metric:     "retention",
			Segment:    "premium",
			TimeWindow: "last_30_days",
			Value:      0.92,
			Change:     changePtr(2.5),
		},
	},
	{
		text: "Average order value increased from $45 to $52 for returning customers",
		meta: KnowledgeMeta{
			Metric:     "average_order_value",
			Segment:    "returning",
			TimeWindow: "last_30_days",
			Value:      52.0,
			Change:     changePtr(15.6),
		},
	},
	{
		text: "Conversion rate for free trial users is 18% across all segments",
		meta: KnowledgeMeta{
			Metric:     "conversion",
			Segment:    "trial",
			TimeWindow: "last_30_days",
			Value:      0.18,
		},
	},
}

// KnowledgeSink accepts knowledge entries.
type KnowledgeSink interface {
	AddKnowledge(ctx context.Context, text string, meta KnowledgeMeta) error
}

// SeedSampleKnowledge loads the built-in analytical knowledge entries into
// the sink. Both the in-memory retriever and the pgvector store qualify.
func SeedSampleKnowledge(ctx context.Context, sink KnowledgeSink) error {
	for _, item := range sampleKnowledge {
		if err := sink.AddKnowledge(ctx, item.text, item.meta); err != nil {
			return err
		}
	}

	return nil
}

// SampleKnowledgeCount reports how many built-in entries the seed carries.
func SampleKnowledgeCount() int {
	return len(sampleKnowledge)
}

func changePtr(v float64) *float64 {
	return &v
}
