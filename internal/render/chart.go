package render

import (
	"fmt"
	"math"
	"os"
	"strings"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/prwatch/prwatch/internal/domain"
)

// chartLabelLayout is the short timestamp format used for category axis
// labels on the static chart.
const chartLabelLayout = "01-02 15:04"

// WriteChart renders the (downsampled) series as one PNG combo chart:
// per agent two grouped bars on the left count axis and a merge-rate line
// on the right 0-100 axis, over a shared category axis of timestamps.
func WriteChart(series *domain.Series, path string) error {
	n := len(series.Rows)
	width, height, dpi := chartGeometry(n)

	// Bar group width in category units shrinks as points are added so
	// adjacent clusters never overlap.
	barWidth := math.Min(0.16, 0.8/math.Max(1, float64(n)*0.6))
	barPx := barStrokeWidth(width, n, barWidth)

	var seriesList []chart.Series
	var valueLabels []chart.Value2
	var rateLabels []chart.Value2

	for agentIdx, agent := range series.Agents {
		offset := float64(agentIdx-len(series.Agents)/2) * barWidth
		totalColor := hexColor(agent.Colors.Total)
		mergedColor := hexColor(agent.Colors.Merged)
		// The total bar shows through under the merged overlay.
		totalColor.A = 180

		for i, row := range series.Rows {
			obs := row.Counts[agent.Slug]
			x := float64(i) + offset
			seriesList = append(seriesList,
				verticalBar(x, float64(obs.Total), barPx, totalColor),
				verticalBar(x, float64(obs.Merged), barPx, mergedColor),
			)
			if obs.Total > 0 {
				valueLabels = append(valueLabels, chart.Value2{
					XValue: x, YValue: float64(obs.Total), Label: formatCount(obs.Total),
				})
			}
			if obs.Merged > 0 {
				valueLabels = append(valueLabels, chart.Value2{
					XValue: x, YValue: float64(obs.Merged), Label: formatCount(obs.Merged),
				})
			}
		}

		lineColor := hexColor(agent.Colors.Line)
		xs := make([]float64, n)
		rates := series.MergeRates(agent.Slug)
		for i := range xs {
			xs[i] = float64(i)
		}
		if n == 1 {
			// go-chart needs two x values to draw a line series.
			xs = append(xs, 0.25)
			rates = append(rates, rates[0])
		}
		seriesList = append(seriesList, chart.ContinuousSeries{
			Name:    agent.Name + " Success %",
			YAxis:   chart.YAxisSecondary,
			XValues: xs,
			YValues: rates,
			Style: chart.Style{
				StrokeWidth: 3,
				StrokeColor: lineColor,
				DotWidth:    5,
				DotColor:    lineColor,
			},
		})
		rateLabels = append(rateLabels, rateAnnotations(rates[:n], agentIdx)...)
	}

	seriesList = append(seriesList,
		chart.AnnotationSeries{
			Annotations: valueLabels,
			Style:       chart.Style{FontSize: 8},
		},
		chart.AnnotationSeries{
			YAxis:       chart.YAxisSecondary,
			Annotations: rateLabels,
			Style:       chart.Style{FontSize: 10},
		},
	)

	ticks := make([]chart.Tick, n)
	for i, row := range series.Rows {
		ticks[i] = chart.Tick{Value: float64(i), Label: row.Timestamp.Format(chartLabelLayout)}
	}

	ch := chart.Chart{
		Title:  "PR Analytics: Volume vs Success Rate Comparison",
		Width:  width,
		Height: height,
		DPI:    dpi,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 25, Right: 25, Bottom: 50},
		},
		XAxis: chart.XAxis{
			Name:  "Data Points",
			Ticks: ticks,
			Range: &chart.ContinuousRange{Min: -0.5, Max: float64(n) - 0.5},
			Style: chart.Style{TextRotationDegrees: 45},
		},
		YAxis: chart.YAxis{
			Name: "PR Counts (Total & Merged)",
		},
		YAxisSecondary: chart.YAxis{
			Name:  "Merge Success Rate (%)",
			Range: &chart.ContinuousRange{Min: 0, Max: 100},
		},
		Series: seriesList,
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create chart file %s: %w", path, err)
	}
	if err := ch.Render(chart.PNG, f); err != nil {
		f.Close()
		return fmt.Errorf("failed to render chart: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close chart file: %w", err)
	}
	return nil
}

// verticalBar draws one bar as a two-point vertical stroke from the
// baseline; go-chart has no grouped bar series, so bars are emulated with
// wide strokes.
func verticalBar(x, value, strokePx float64, color drawing.Color) chart.ContinuousSeries {
	return chart.ContinuousSeries{
		XValues: []float64{x, x},
		YValues: []float64{0, value},
		Style: chart.Style{
			StrokeWidth: strokePx,
			StrokeColor: color,
		},
	}
}

// chartGeometry scales the canvas with point count: compact for up to
// three points, wide beyond that, with print resolution only once enough
// points justify it.
func chartGeometry(n int) (width, height int, dpi float64) {
	if n <= 3 {
		width, height = 1200, 800
	} else {
		width, height = 1600, 1000
	}
	dpi = 300
	if n <= 5 {
		dpi = 150
	}
	return width, height, dpi
}

// barStrokeWidth converts a bar width in category units to pixels.
func barStrokeWidth(canvasWidth, n int, barWidth float64) float64 {
	const axisMargins = 150
	perUnit := float64(canvasWidth-axisMargins) / math.Max(1, float64(n))
	return math.Max(2, barWidth*perUnit*0.95)
}

// formatCount abbreviates large counts so bar labels do not overflow.
func formatCount(v int) string {
	switch {
	case v >= 1_000_000:
		return fmt.Sprintf("%.1fM", float64(v)/1_000_000)
	case v >= 10_000:
		return fmt.Sprintf("%.1fk", float64(v)/1_000)
	default:
		return fmt.Sprintf("%d", v)
	}
}

// rateAnnotations builds the percentage labels for one agent's merge-rate
// line. An exact zero means "not yet meaningful", not zero success, so
// those points get no label.
func rateAnnotations(rates []float64, agentIdx int) []chart.Value2 {
	var labels []chart.Value2
	for i, rate := range rates {
		if rate <= 0 {
			continue
		}
		labels = append(labels, chart.Value2{
			XValue: float64(i),
			YValue: clamp(rate+rateLabelOffset(agentIdx), 0, 100),
			Label:  fmt.Sprintf("%.1f%%", rate),
		})
	}
	return labels
}

// rateLabelOffset staggers percentage labels vertically per agent so
// annotations at similar rates do not overlap. Offsets are in percentage
// points: the first agent's labels sit above the line, the rest fan out
// below it.
func rateLabelOffset(agentIdx int) float64 {
	if agentIdx == 0 {
		return 4
	}
	return -6 - float64(agentIdx-1)*4
}

func clamp(v, min, max float64) float64 {
	return math.Min(max, math.Max(min, v))
}

func hexColor(s string) drawing.Color {
	return drawing.ColorFromHex(strings.TrimPrefix(s, "#"))
}
