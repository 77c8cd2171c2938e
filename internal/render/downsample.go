// Package render turns a loaded series into the output artifacts: the
// static chart image, the interactive chart document, and the templated
// report and page documents.
package render

import (
	"math"

	"github.com/prwatch/prwatch/internal/domain"
)

// SampleIndices selects at most max indices spread evenly from 0 to n-1
// inclusive, by linear interpolation rounded to the nearest index. The
// result is deduplicated and ascending; for n <= max every index is
// returned.
func SampleIndices(n, max int) []int {
	if n <= 0 {
		return nil
	}
	if max <= 0 || n <= max {
		indices := make([]int, n)
		for i := range indices {
			indices[i] = i
		}
		return indices
	}

	step := float64(n-1) / float64(max-1)
	indices := make([]int, 0, max)
	last := -1
	for i := range max {
		idx := int(math.Round(float64(i) * step))
		if idx != last {
			indices = append(indices, idx)
			last = idx
		}
	}
	return indices
}

// Downsample caps a series at max display points. Series at or under the
// cap are returned unchanged; longer series keep evenly spaced
// representative rows so bar clusters stay readable.
func Downsample(s *domain.Series, max int) *domain.Series {
	if max <= 0 || len(s.Rows) <= max {
		return s
	}
	indices := SampleIndices(len(s.Rows), max)
	rows := make([]domain.MetricRow, len(indices))
	for i, idx := range indices {
		rows[i] = s.Rows[idx]
	}
	return &domain.Series{Agents: s.Agents, Rows: rows}
}
