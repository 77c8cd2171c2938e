// Package domain contains the core data structures and domain logic for the application.
package domain

import "strings"

// Query is a GitHub pull request search query, stored with plain spaces
// between qualifiers.
type Query string

// WebURL returns the github.com search page for the query.
func (q Query) WebURL() string {
	return "https://github.com/search?q=" + strings.ReplaceAll(string(q), " ", "+") + "&type=pullrequests"
}

// QuerySpec pairs the two search queries tracked per agent: every PR the
// agent has authored, and the merged subset.
type QuerySpec struct {
	Total  Query
	Merged Query
}

// StylePack holds the presentation colors for one agent as "#RRGGBB" hex
// strings. Total and Merged color the grouped bars, Line colors the
// merge-rate trend line, Icon colors the page legend dot.
type StylePack struct {
	Total  string
	Merged string
	Line   string
	Icon   string
}

// Agent describes one tracked automated PR author. Agents are plain
// records defined once at startup; all behavior is keyed off these fields
// rather than per-agent types.
type Agent struct {
	Slug    string
	Name    string
	Display string
	Link    string
	Queries QuerySpec
	Colors  StylePack
}

// registry is the ordered list of tracked agents. Order is significant:
// it fixes the CSV column layout, bar offsets, legend order and table row
// order. Do not reorder without starting a new data table.
var registry = []Agent{
	{
		Slug:    "copilot",
		Name:    "Copilot",
		Display: "GitHub Copilot",
		Link:    "https://docs.github.com/en/copilot/using-github-copilot/coding-agent/using-copilot-to-work-on-an-issue",
		Queries: QuerySpec{
			Total:  "is:pr head:copilot/",
			Merged: "is:pr head:copilot/ is:merged",
		},
		Colors: StylePack{Total: "#87CEEB", Merged: "#4682B4", Line: "#000080", Icon: "#87ceeb"},
	},
	{
		Slug:    "codex",
		Name:    "Codex",
		Display: "OpenAI Codex",
		Link:    "https://openai.com/index/introducing-codex/",
		Queries: QuerySpec{
			Total:  "is:pr head:codex/",
			Merged: "is:pr head:codex/ is:merged",
		},
		Colors: StylePack{Total: "#FFA07A", Merged: "#CD5C5C", Line: "#8B0000", Icon: "#ff6b6b"},
	},
	{
		Slug:    "cursor",
		Name:    "Cursor",
		Display: "Cursor Agents",
		Link:    "https://docs.cursor.com/background-agent",
		Queries: QuerySpec{
			Total:  "is:pr head:cursor/",
			Merged: "is:pr head:cursor/ is:merged",
		},
		Colors: StylePack{Total: "#DDA0DD", Merged: "#9370DB", Line: "#800080", Icon: "#9b59b6"},
	},
	{
		Slug:    "devin",
		Name:    "Devin",
		Display: "Devin",
		Link:    "https://devin.ai/pricing",
		Queries: QuerySpec{
			Total:  "author:devin-ai-integration[bot]",
			Merged: "author:devin-ai-integration[bot] is:merged",
		},
		Colors: StylePack{Total: "#98FB98", Merged: "#228B22", Line: "#006400", Icon: "#52c41a"},
	},
	{
		Slug:    "codegen",
		Name:    "Codegen",
		Display: "Codegen",
		Link:    "https://codegen.com/",
		Queries: QuerySpec{
			Total:  "author:codegen-sh[bot]",
			Merged: "author:codegen-sh[bot] is:merged",
		},
		Colors: StylePack{Total: "#FFE4B5", Merged: "#DAA520", Line: "#B8860B", Icon: "#daa520"},
	},
}

// Registry returns the ordered list of tracked agents.
func Registry() []Agent {
	return registry
}
