package render

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prwatch/prwatch/internal/domain"
)

func chartTestSeries(n int) *domain.Series {
	agents := []domain.Agent{
		{Slug: "alpha", Name: "Alpha", Colors: domain.StylePack{Total: "#87CEEB", Merged: "#4682B4", Line: "#000080"}},
		{Slug: "beta", Name: "Beta", Colors: domain.StylePack{Total: "#FFA07A", Merged: "#CD5C5C", Line: "#8B0000"}},
	}
	rows := make([]domain.MetricRow, n)
	base := time.Date(2025, 8, 1, 6, 0, 0, 0, time.UTC)
	for i := range rows {
		rows[i] = domain.MetricRow{
			Timestamp: base.Add(time.Duration(i) * 12 * time.Hour),
			Counts: map[string]domain.Observation{
				"alpha": {Total: 100 + 50*i, Merged: 40 + 30*i},
				"beta":  {Total: 2_000_000, Merged: 1_500_000},
			},
		}
	}
	return &domain.Series{Agents: agents, Rows: rows}
}

func TestWriteChart(t *testing.T) {
	for _, n := range []int{1, 3, 8} {
		path := filepath.Join(t.TempDir(), "chart.png")
		require.NoError(t, WriteChart(chartTestSeries(n), path), "n=%d", n)

		info, err := os.Stat(path)
		require.NoError(t, err, "n=%d", n)
		assert.Positive(t, info.Size(), "n=%d", n)

		// PNG signature.
		content, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, content[:4])
	}
}

func TestChartGeometry(t *testing.T) {
	testCases := []struct {
		points        int
		width, height int
		dpi           float64
	}{
		{points: 1, width: 1200, height: 800, dpi: 150},
		{points: 3, width: 1200, height: 800, dpi: 150},
		{points: 4, width: 1600, height: 1000, dpi: 150},
		{points: 6, width: 1600, height: 1000, dpi: 300},
		{points: 8, width: 1600, height: 1000, dpi: 300},
	}
	for _, tc := range testCases {
		w, h, dpi := chartGeometry(tc.points)
		assert.Equal(t, tc.width, w, "points=%d", tc.points)
		assert.Equal(t, tc.height, h, "points=%d", tc.points)
		assert.Equal(t, tc.dpi, dpi, "points=%d", tc.points)
	}
}

func TestFormatCount(t *testing.T) {
	testCases := []struct {
		value    int
		expected string
	}{
		{value: 0, expected: "0"},
		{value: 999, expected: "999"},
		{value: 9_999, expected: "9999"},
		{value: 10_000, expected: "10.0k"},
		{value: 123_456, expected: "123.5k"},
		{value: 2_500_000, expected: "2.5M"},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.expected, formatCount(tc.value), "value=%d", tc.value)
	}
}

func TestRateAnnotations(t *testing.T) {
	// A zero rate means the agent has no meaningful history at that
	// point; it gets no label. Non-zero points are labeled with the
	// agent's vertical stagger applied, clamped to the axis.
	labels := rateAnnotations([]float64{0, 40, 0, 99}, 0)
	require.Len(t, labels, 2)

	assert.Equal(t, 1.0, labels[0].XValue)
	assert.Equal(t, 44.0, labels[0].YValue)
	assert.Equal(t, "40.0%", labels[0].Label)

	assert.Equal(t, 3.0, labels[1].XValue)
	assert.Equal(t, 100.0, labels[1].YValue)
	assert.Equal(t, "99.0%", labels[1].Label)

	assert.Empty(t, rateAnnotations([]float64{0, 0, 0}, 1))
}

func TestRateLabelOffset(t *testing.T) {
	// First agent annotates above the line, the rest fan out below.
	assert.Equal(t, 4.0, rateLabelOffset(0))
	assert.Equal(t, -6.0, rateLabelOffset(1))
	assert.Equal(t, -10.0, rateLabelOffset(2))
	assert.Less(t, rateLabelOffset(4), rateLabelOffset(3))
}
