// Package usecase contains the business logic of the application.
package usecase

import (
	"context"
	"fmt"
	"log"
	"os"
	"regexp"
	"time"

	"github.com/prwatch/prwatch/internal/domain"
	"github.com/prwatch/prwatch/internal/gateway"
	"github.com/prwatch/prwatch/internal/render"
	"github.com/prwatch/prwatch/internal/storage"
)

// lastUpdatedSpan matches the stamp element the page template embeds.
var lastUpdatedSpan = regexp.MustCompile(`<span id="last-updated">[^<]*</span>`)

// Collector is the use case for one collection run: count every
// configured query, assemble one metric row, and append it to the durable
// table.
type Collector struct {
	counter  gateway.Counter
	table    *storage.Table
	agents   []domain.Agent
	delay    time.Duration
	pagePath string
	logger   *log.Logger
}

// NewCollector creates a new Collector instance.
func NewCollector(counter gateway.Counter, table *storage.Table, agents []domain.Agent, delay time.Duration, pagePath string, logger *log.Logger) *Collector {
	return &Collector{
		counter:  counter,
		table:    table,
		agents:   agents,
		delay:    delay,
		pagePath: pagePath,
		logger:   logger,
	}
}

// Run performs one collection pass and returns the table location. Counts
// are fetched sequentially with a fixed minimum delay between requests as
// a rate-limit courtesy. Any failed request aborts the whole run before
// anything is written: the table never gains a row with missing agent
// data.
func (c *Collector) Run(ctx context.Context) (string, error) {
	c.logger.Println("Usecase: Starting collection run...")

	counts := make(map[string]domain.Observation, len(c.agents))
	first := true
	for _, agent := range c.agents {
		total, err := c.count(ctx, agent.Queries.Total, &first)
		if err != nil {
			return "", err
		}
		merged, err := c.count(ctx, agent.Queries.Merged, &first)
		if err != nil {
			return "", err
		}
		counts[agent.Slug] = domain.Observation{Total: total, Merged: merged}
		c.logger.Printf("  %s: total=%d merged=%d", agent.Slug, total, merged)
	}

	row := domain.MetricRow{Timestamp: time.Now().UTC(), Counts: counts}
	if err := c.table.Append(row); err != nil {
		return "", err
	}
	c.logger.Printf("Usecase: Appended one row to %s.", c.table.Path())

	c.refreshPageStamp(row.Timestamp)
	return c.table.Path(), nil
}

// count paces consecutive requests and fetches one query's match count.
func (c *Collector) count(ctx context.Context, query domain.Query, first *bool) (int, error) {
	if !*first && c.delay > 0 {
		select {
		case <-time.After(c.delay):
		case <-ctx.Done():
			return 0, ctx.Err()
		}
	}
	*first = false
	return c.counter.CountPullRequests(ctx, string(query))
}

// refreshPageStamp rewrites the last-updated stamp of an already rendered
// page document so the published page reflects the collection instant. A
// missing page is not an error; the render run will regenerate it anyway.
func (c *Collector) refreshPageStamp(now time.Time) {
	content, err := os.ReadFile(c.pagePath)
	if err != nil {
		c.logger.Printf("Page document not found, skipping stamp refresh: %v", err)
		return
	}
	stamp := fmt.Sprintf(`<span id="last-updated">%s</span>`, now.Format(render.StampLayout))
	updated := lastUpdatedSpan.ReplaceAll(content, []byte(stamp))
	if err := os.WriteFile(c.pagePath, updated, 0o644); err != nil {
		c.logger.Printf("Failed to refresh page stamp: %v", err)
	}
}
