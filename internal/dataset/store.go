package dataset

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// MetricRow is one observation in the tabular source.
type MetricRow struct {
	Date    string  `json:"date,omitempty"`
	Metric  string  `json:"metric"`
	Segment string  `json:"segment"`
	Value   float64 `json:"value"`
}

// MetricStore is the read-only query surface the structured retriever
// consumes. Both filters are case-insensitive substring matches; an empty
// filter matches every row.
type MetricStore interface {
	Filter(ctx context.Context, metric, segment string) ([]MetricRow, error)
}

// MemoryStore serves filters from a slice loaded once at startup. It never
// mutates the rows, so concurrent reads need no locking.
type MemoryStore struct {
	rows []MetricRow
}

func NewMemoryStore(rows []MetricRow) *MemoryStore {
	return &MemoryStore{rows: rows}
}

func (s *MemoryStore) Filter(_ context.Context, metric, segment string) ([]MetricRow, error) {
	metric = strings.ToLower(metric)
	segment = strings.ToLower(segment)

	var matched []MetricRow
	for _, row := range s.rows {
		if metric != "" && !strings.Contains(strings.ToLower(row.Metric), metric) {
			continue
		}
		if segment != "" && !strings.Contains(strings.ToLower(row.Segment), segment) {
			continue
		}
		matched = append(matched, row)
	}
	return matched, nil
}

// LoadCSV reads rows from a CSV file with a date,metric,segment,value header.
// The date column is optional.
func LoadCSV(path string) ([]MetricRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read dataset: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	columns := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{"metric", "segment", "value"} {
		if _, ok := columns[required]; !ok {
			return nil, fmt.Errorf("dataset missing column %q", required)
		}
	}

	rows := make([]MetricRow, 0, len(records)-1)
	for i, record := range records[1:] {
		value, err := strconv.ParseFloat(strings.TrimSpace(record[columns["value"]]), 64)
		if err != nil {
			return nil, fmt.Errorf("dataset row %d: bad value: %w", i+2, err)
		}
		row := MetricRow{
			Metric:  strings.TrimSpace(record[columns["metric"]]),
			Segment: strings.TrimSpace(record[columns["segment"]]),
			Value:   value,
		}
		if dateCol, ok := columns["date"]; ok {
			row.Date = strings.TrimSpace(record[dateCol])
		}
		rows = append(rows, row)
	}
	return rows, nil
}
