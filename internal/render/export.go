package render

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/prwatch/prwatch/internal/domain"
)

// exportLabelLayout is the short timestamp format used for interactive
// chart labels.
const exportLabelLayout = "01/02 15:04"

// ChartDocument is a renderer-agnostic chart description consumed by the
// browser-side Chart.js renderer.
type ChartDocument struct {
	Labels   []string  `json:"labels"`
	Datasets []Dataset `json:"datasets"`
}

// Dataset is one bar or line series with its presentation hints. Data
// entries are pointers so a not-yet-tracked point serializes as null
// rather than zero.
type Dataset struct {
	Label            string     `json:"label"`
	Type             string     `json:"type"`
	Data             []*float64 `json:"data"`
	BackgroundColor  string     `json:"backgroundColor"`
	BorderColor      string     `json:"borderColor"`
	BorderWidth      int        `json:"borderWidth"`
	PointRadius      int        `json:"pointRadius,omitempty"`
	PointHoverRadius int        `json:"pointHoverRadius,omitempty"`
	Fill             *bool      `json:"fill,omitempty"`
	YAxisID          string     `json:"yAxisID"`
	Order            int        `json:"order"`
}

// BuildChartDocument converts the full, non-downsampled series into a
// ChartDocument: one label per row and three datasets per agent (total
// bar, merged bar, merge-rate line). For each agent, rows before its
// first non-zero total are marked absent in all three datasets; the agent
// was not tracked yet, which is different from zero activity. An agent
// with no non-zero total at all keeps its numeric zeros.
func BuildChartDocument(series *domain.Series) ChartDocument {
	doc := ChartDocument{
		Labels:   make([]string, 0, len(series.Rows)),
		Datasets: make([]Dataset, 0, 3*len(series.Agents)),
	}
	for _, row := range series.Rows {
		doc.Labels = append(doc.Labels, row.Timestamp.Format(exportLabelLayout))
	}

	for _, agent := range series.Agents {
		totals := make([]*float64, len(series.Rows))
		merged := make([]*float64, len(series.Rows))
		rates := make([]*float64, len(series.Rows))

		firstTracked := 0
		for i, row := range series.Rows {
			if row.Counts[agent.Slug].Total > 0 {
				firstTracked = i
				break
			}
		}
		for i, row := range series.Rows {
			if i < firstTracked {
				continue
			}
			obs := row.Counts[agent.Slug]
			totals[i] = floatPtr(float64(obs.Total))
			merged[i] = floatPtr(float64(obs.Merged))
			rates[i] = floatPtr(obs.MergeRate())
		}

		doc.Datasets = append(doc.Datasets,
			Dataset{
				Label:           agent.Name + " Total",
				Type:            "bar",
				Data:            totals,
				BackgroundColor: agent.Colors.Total,
				BorderColor:     agent.Colors.Total,
				BorderWidth:     1,
				YAxisID:         "y",
				Order:           2,
			},
			Dataset{
				Label:           agent.Name + " Merged",
				Type:            "bar",
				Data:            merged,
				BackgroundColor: agent.Colors.Merged,
				BorderColor:     agent.Colors.Merged,
				BorderWidth:     1,
				YAxisID:         "y",
				Order:           2,
			},
			Dataset{
				Label:            agent.Name + " Success %",
				Type:             "line",
				Data:             rates,
				BackgroundColor:  "rgba(255, 255, 255, 0.8)",
				BorderColor:      agent.Colors.Line,
				BorderWidth:      3,
				PointRadius:      3,
				PointHoverRadius: 5,
				Fill:             boolPtr(false),
				YAxisID:          "y1",
				Order:            1,
			},
		)
	}
	return doc
}

// WriteChartData serializes the chart document as indented JSON.
func WriteChartData(series *domain.Series, path string) error {
	doc := BuildChartDocument(series)
	encoded, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal chart data: %w", err)
	}
	if err := os.WriteFile(path, append(encoded, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to write chart data: %w", err)
	}
	return nil
}

func floatPtr(v float64) *float64 { return &v }

func boolPtr(v bool) *bool { return &v }
