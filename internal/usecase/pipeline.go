package usecase

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/prwatch/prwatch/internal/config"
	"github.com/prwatch/prwatch/internal/render"
	"github.com/prwatch/prwatch/internal/storage"
)

// Pipeline is the use case for one render run: load the series and fan it
// out to the chart, export, report and page renderers.
type Pipeline struct {
	table  *storage.Table
	cfg    config.Config
	logger *log.Logger
}

// NewPipeline creates a new Pipeline instance.
func NewPipeline(table *storage.Table, cfg config.Config, logger *log.Logger) *Pipeline {
	return &Pipeline{table: table, cfg: cfg, logger: logger}
}

// Run re-reads the durable table and regenerates every output artifact.
// A missing or empty table aborts the whole run with no artifacts
// produced. Renderer failures are independent: each renderer runs
// regardless of the others, and their errors are reported together.
func (p *Pipeline) Run() error {
	series, err := p.table.Load()
	if err != nil {
		return err
	}
	p.logger.Printf("Usecase: Loaded %d rows from %s.", len(series.Rows), p.table.Path())

	if err := os.MkdirAll(p.cfg.DocsDir, 0o755); err != nil {
		return fmt.Errorf("failed to create docs directory: %w", err)
	}

	var errs []error
	report := func(name string, err error) {
		if err != nil {
			p.logger.Printf("Renderer %s failed: %v", name, err)
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
		}
	}

	display := render.Downsample(series, p.cfg.MaxChartPoints)
	if len(display.Rows) < len(series.Rows) {
		p.logger.Printf("Limited chart to %d of %d data points.", len(display.Rows), len(series.Rows))
	}
	report("chart", render.WriteChart(display, p.cfg.ChartFile()))

	// The interactive export always receives the full series so
	// browser-side zoom stays meaningful.
	report("chart-data", render.WriteChartData(series, p.cfg.ExportFile()))

	model := render.BuildModel(series, time.Now().UTC())
	report("report", render.WriteReport(model, p.cfg.ReportTemplate(), p.cfg.ReportFile))
	report("page", render.WritePage(model, p.cfg.PageTemplate(), p.cfg.PageFile()))

	return errors.Join(errs...)
}
