package render

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prwatch/prwatch/internal/domain"
)

func exportTestSeries(totals, merged []int) *domain.Series {
	rows := make([]domain.MetricRow, len(totals))
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	for i := range totals {
		rows[i] = domain.MetricRow{
			Timestamp: base.Add(time.Duration(i) * 24 * time.Hour),
			Counts:    map[string]domain.Observation{"alpha": {Total: totals[i], Merged: merged[i]}},
		}
	}
	return &domain.Series{
		Agents: []domain.Agent{{
			Slug: "alpha", Name: "Alpha",
			Colors: domain.StylePack{Total: "#111111", Merged: "#222222", Line: "#333333"},
		}},
		Rows: rows,
	}
}

func TestBuildChartDocument_LeadingZeroSuppression(t *testing.T) {
	// Merged values at the leading positions are deliberately non-zero:
	// suppression keys off totals alone.
	series := exportTestSeries([]int{0, 0, 5, 6}, []int{1, 2, 3, 4})
	doc := BuildChartDocument(series)

	require.Len(t, doc.Datasets, 3)
	for _, ds := range doc.Datasets {
		require.Len(t, ds.Data, 4, ds.Label)
		assert.Nil(t, ds.Data[0], ds.Label)
		assert.Nil(t, ds.Data[1], ds.Label)
		assert.NotNil(t, ds.Data[2], ds.Label)
		assert.NotNil(t, ds.Data[3], ds.Label)
	}

	assert.Equal(t, 5.0, *doc.Datasets[0].Data[2])
	assert.Equal(t, 3.0, *doc.Datasets[1].Data[2])
	assert.Equal(t, 60.0, *doc.Datasets[2].Data[2])
}

func TestBuildChartDocument_AllZeroTotalsStayNumeric(t *testing.T) {
	// Suppression marks rows before the first non-zero total as absent.
	// With no non-zero total at all there is nothing to suppress: an
	// agent with a recorded all-zero history keeps its zeros.
	series := exportTestSeries([]int{0, 0, 0}, []int{0, 0, 0})
	doc := BuildChartDocument(series)

	require.Len(t, doc.Datasets, 3)
	for _, ds := range doc.Datasets {
		require.Len(t, ds.Data, 3, ds.Label)
		for i, v := range ds.Data {
			require.NotNil(t, v, "%s index %d", ds.Label, i)
			assert.Equal(t, 0.0, *v, "%s index %d", ds.Label, i)
		}
	}
}

func TestBuildChartDocument_Shape(t *testing.T) {
	series := exportTestSeries([]int{10, 20}, []int{5, 10})
	doc := BuildChartDocument(series)

	assert.Equal(t, []string{"06/01 12:00", "06/02 12:00"}, doc.Labels)
	require.Len(t, doc.Datasets, 3)

	total, merged, rate := doc.Datasets[0], doc.Datasets[1], doc.Datasets[2]
	assert.Equal(t, "Alpha Total", total.Label)
	assert.Equal(t, "bar", total.Type)
	assert.Equal(t, "y", total.YAxisID)
	assert.Equal(t, 2, total.Order)
	assert.Equal(t, "#111111", total.BackgroundColor)

	assert.Equal(t, "Alpha Merged", merged.Label)
	assert.Equal(t, "#222222", merged.BackgroundColor)

	assert.Equal(t, "Alpha Success %", rate.Label)
	assert.Equal(t, "line", rate.Type)
	assert.Equal(t, "y1", rate.YAxisID)
	assert.Equal(t, 1, rate.Order)
	assert.Equal(t, "#333333", rate.BorderColor)
	require.NotNil(t, rate.Fill)
	assert.False(t, *rate.Fill)
	assert.Equal(t, []float64{50, 50}, []float64{*rate.Data[0], *rate.Data[1]})
}

func TestWriteChartData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chart-data.json")
	series := exportTestSeries([]int{0, 4}, []int{0, 2})
	require.NoError(t, WriteChartData(series, path))

	content, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(content, &doc))
	assert.Contains(t, doc, "labels")
	assert.Contains(t, doc, "datasets")

	// Absent points must serialize as JSON null, not zero.
	datasets := doc["datasets"].([]any)
	first := datasets[0].(map[string]any)["data"].([]any)
	assert.Nil(t, first[0])
	assert.Equal(t, 4.0, first[1])
}
