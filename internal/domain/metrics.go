package domain

import "time"

// Observation holds the PR counts for one agent at one instant.
// Merged is always a subset of Total.
type Observation struct {
	Total  int
	Merged int
}

// MergeRate returns the merged percentage in [0, 100]. A zero total yields
// 0 rather than a division error; it means the agent has no PRs yet.
func (o Observation) MergeRate() float64 {
	if o.Total <= 0 {
		return 0
	}
	return float64(o.Merged) / float64(o.Total) * 100
}

// MetricRow is one timestamped observation covering every agent,
// keyed by agent slug.
type MetricRow struct {
	Timestamp time.Time
	Counts    map[string]Observation
}

// Series is an ordered sequence of metric rows, oldest first, together
// with the agent registry the rows were recorded against.
type Series struct {
	Agents []Agent
	Rows   []MetricRow
}

// Latest returns the most recent row. The series loader guarantees at
// least one row, so calling Latest on a loaded series is always valid.
func (s *Series) Latest() MetricRow {
	return s.Rows[len(s.Rows)-1]
}

// MergeRates returns the per-row merge percentage for one agent, aligned
// to Rows.
func (s *Series) MergeRates(slug string) []float64 {
	rates := make([]float64, len(s.Rows))
	for i, row := range s.Rows {
		rates[i] = row.Counts[slug].MergeRate()
	}
	return rates
}
