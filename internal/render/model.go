package render

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/montanaflynn/stats"

	"github.com/prwatch/prwatch/internal/domain"
)

// StampLayout formats the last-updated instant embedded in the rendered
// documents.
const StampLayout = "January 02, 2006 15:04 UTC"

// Model maps placeholder names to ready-to-embed text fragments. It is
// computed once per render run and shared by the report and page
// renderers.
type Model map[string]string

// Pick returns the subset of the model a single renderer consumes. A
// requested key missing from the model is a placeholder mismatch.
func (m Model) Pick(keys ...string) (Model, error) {
	sub := make(Model, len(keys))
	for _, key := range keys {
		value, ok := m[key]
		if !ok {
			return nil, fmt.Errorf("%w: model has no value for %q", ErrPlaceholder, key)
		}
		sub[key] = value
	}
	return sub, nil
}

// BuildModel computes every substitution fragment from the latest row,
// the full series history and the agent registry.
func BuildModel(series *domain.Series, now time.Time) Model {
	latest := series.Latest()
	return Model{
		"DATA_SOURCES":     buildSourceList(series.Agents),
		"STATS_ROWS":       buildStatsRows(series.Agents, latest),
		"AGENT_TABLE_ROWS": buildPageRows(series.Agents, latest),
		"AGENT_TOGGLES":    buildToggleButtons(series.Agents),
		"AGENT_LIST_JS":    buildSlugList(series.Agents),
		"AGENT_REGEX":      buildSlugAlternation(series.Agents),
		"AVG_MERGE_RATE":   buildHistoricalRate(series),
		"LAST_UPDATED":     now.Format(StampLayout),
	}
}

// buildSourceList renders the markdown link list pointing at the live
// GitHub search for each tracked query.
func buildSourceList(agents []domain.Agent) string {
	lines := make([]string, 0, 2*len(agents))
	for _, a := range agents {
		lines = append(lines,
			fmt.Sprintf("- **All %s PRs**: [%s](%s)", a.Name, a.Queries.Total, a.Queries.Total.WebURL()),
			fmt.Sprintf("- **Merged %s PRs**: [%s](%s)", a.Name, a.Queries.Merged, a.Queries.Merged.WebURL()),
		)
	}
	return strings.Join(lines, "\n")
}

// buildStatsRows renders the markdown statistics table body from the
// latest observation.
func buildStatsRows(agents []domain.Agent, latest domain.MetricRow) string {
	rows := make([]string, 0, len(agents))
	for _, a := range agents {
		obs := latest.Counts[a.Slug]
		rows = append(rows, fmt.Sprintf("| %s | %s | %s | %.2f%% |",
			a.Name,
			humanize.Comma(int64(obs.Total)),
			humanize.Comma(int64(obs.Merged)),
			obs.MergeRate()))
	}
	return strings.Join(rows, "\n")
}

// buildPageRows renders the HTML statistics table body, linking each
// metric back to its GitHub search.
func buildPageRows(agents []domain.Agent, latest domain.MetricRow) string {
	rows := make([]string, 0, len(agents))
	for _, a := range agents {
		obs := latest.Counts[a.Slug]
		rows = append(rows, fmt.Sprintf(
			`<tr data-agent="%s">`+
				`<td class="agent-cell"><div class="agent-info">`+
				`<span class="agent-icon" style="background-color: %s"></span>`+
				`<a href="%s" target="_blank" class="agent-link">%s</a>`+
				`</div></td>`+
				`<td class="metric-cell"><a href="%s" target="_blank" class="metric-link"><span id="%s-total">%s</span></a></td>`+
				`<td class="metric-cell"><a href="%s" target="_blank" class="metric-link"><span id="%s-merged">%s</span></a></td>`+
				`<td class="rate-cell"><span id="%s-rate">%.2f%%</span></td>`+
				`</tr>`,
			a.Slug,
			a.Colors.Icon,
			a.Link, a.Display,
			a.Queries.Total.WebURL(), a.Slug, humanize.Comma(int64(obs.Total)),
			a.Queries.Merged.WebURL(), a.Slug, humanize.Comma(int64(obs.Merged)),
			a.Slug, obs.MergeRate()))
	}
	return strings.Join(rows, "\n")
}

// buildToggleButtons renders one show/hide button per agent for the
// interactive chart.
func buildToggleButtons(agents []domain.Agent) string {
	buttons := make([]string, 0, len(agents))
	for _, a := range agents {
		id := "toggle" + strings.ReplaceAll(a.Name, " ", "")
		buttons = append(buttons, fmt.Sprintf(
			`<button id="%s" class="toggle-btn active" data-agent="%s">`+
				`<span class="toggle-icon" style="background-color: %s"></span>%s</button>`,
			id, a.Slug, a.Colors.Icon, a.Display))
	}
	return strings.Join(buttons, "\n")
}

// buildSlugList renders the agent slugs as a JSON array for the page
// script.
func buildSlugList(agents []domain.Agent) string {
	slugs := make([]string, len(agents))
	for i, a := range agents {
		slugs[i] = a.Slug
	}
	encoded, _ := json.Marshal(slugs)
	return string(encoded)
}

// buildSlugAlternation renders a regex alternation of agent slugs.
func buildSlugAlternation(agents []domain.Agent) string {
	slugs := make([]string, len(agents))
	for i, a := range agents {
		slugs[i] = a.Slug
	}
	return strings.Join(slugs, "|")
}

// buildHistoricalRate computes the mean of the per-row overall merge
// rates across the full history.
func buildHistoricalRate(series *domain.Series) string {
	rates := make([]float64, 0, len(series.Rows))
	for _, row := range series.Rows {
		var total, merged int
		for _, a := range series.Agents {
			obs := row.Counts[a.Slug]
			total += obs.Total
			merged += obs.Merged
		}
		rates = append(rates, domain.Observation{Total: total, Merged: merged}.MergeRate())
	}
	mean, err := stats.Mean(stats.Float64Data(rates))
	if err != nil {
		mean = 0
	}
	return fmt.Sprintf("%.2f%%", mean)
}
