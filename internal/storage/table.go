// Package storage persists metric rows in an append-only CSV table.
package storage

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/prwatch/prwatch/internal/domain"
)

var (
	// ErrTableNotFound indicates the data table file does not exist yet.
	ErrTableNotFound = errors.New("storage: data table not found")
	// ErrTableEmpty indicates the table holds a header but no observations.
	ErrTableEmpty = errors.New("storage: data table has no observations")
)

// timestampLayout is the on-disk timestamp format, UTC with second precision.
const timestampLayout = "2006-01-02 15:04:05"

// dashGlyphs maps the Unicode dash variants found in historical data files
// to the ASCII hyphen the timestamp layout expects.
var dashGlyphs = strings.NewReplacer(
	"‐", "-", // hyphen
	"‑", "-", // non-breaking hyphen
	"‒", "-", // figure dash
	"–", "-", // en dash
	"−", "-", // minus sign
)

// Table is the durable append-only CSV table holding one metric row per
// collection run. The column layout is fixed by the agent registry the
// table was created with; rows are never rewritten or reordered.
type Table struct {
	path   string
	agents []domain.Agent
}

// NewTable returns a table bound to the given file path and agent registry.
func NewTable(path string, agents []domain.Agent) *Table {
	return &Table{path: path, agents: agents}
}

// Path returns the table's file location.
func (t *Table) Path() string {
	return t.path
}

// Header returns the expected column layout: a timestamp column followed
// by a total/merged pair per agent in registry order.
func (t *Table) Header() []string {
	header := make([]string, 0, 1+2*len(t.agents))
	header = append(header, "timestamp")
	for _, a := range t.agents {
		header = append(header, a.Slug+"_total", a.Slug+"_merged")
	}
	return header
}

// Append adds exactly one row to the table, creating the file with its
// header row first if it does not exist yet. Prior rows are never touched.
func (t *Table) Append(row domain.MetricRow) error {
	// A pre-existing zero-byte file needs the header just like a fresh one.
	info, statErr := os.Stat(t.path)
	isNewFile := errors.Is(statErr, fs.ErrNotExist) || (statErr == nil && info.Size() == 0)

	f, err := os.OpenFile(t.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open data table %s: %w", t.path, err)
	}

	w := csv.NewWriter(f)
	if isNewFile {
		if err := w.Write(t.Header()); err != nil {
			f.Close()
			return fmt.Errorf("failed to write data table header: %w", err)
		}
	}

	record := make([]string, 0, 1+2*len(t.agents))
	record = append(record, row.Timestamp.UTC().Format(timestampLayout))
	for _, a := range t.agents {
		obs := row.Counts[a.Slug]
		record = append(record, strconv.Itoa(obs.Total), strconv.Itoa(obs.Merged))
	}
	if err := w.Write(record); err != nil {
		f.Close()
		return fmt.Errorf("failed to append data row: %w", err)
	}

	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return fmt.Errorf("failed to flush data table: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close data table: %w", err)
	}
	return nil
}

// Load reads the whole table back into an ordered series, oldest first.
// Timestamps are dash-normalized before parsing so rows written with
// Unicode dash glyphs still round-trip.
func (t *Table) Load() (*domain.Series, error) {
	f, err := os.Open(t.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrTableNotFound, t.path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open data table %s: %w", t.path, err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read data table %s: %w", t.path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrTableEmpty, t.path)
	}
	if !slices.Equal(records[0], t.Header()) {
		return nil, fmt.Errorf("data table header %v does not match configured agents", records[0])
	}
	if len(records) == 1 {
		return nil, fmt.Errorf("%w: %s", ErrTableEmpty, t.path)
	}

	rows := make([]domain.MetricRow, 0, len(records)-1)
	for i, record := range records[1:] {
		row, err := t.parseRow(record)
		if err != nil {
			return nil, fmt.Errorf("failed to parse data row %d: %w", i+1, err)
		}
		rows = append(rows, row)
	}
	return &domain.Series{Agents: t.agents, Rows: rows}, nil
}

func (t *Table) parseRow(record []string) (domain.MetricRow, error) {
	if len(record) != 1+2*len(t.agents) {
		return domain.MetricRow{}, fmt.Errorf("expected %d columns, got %d", 1+2*len(t.agents), len(record))
	}
	ts, err := time.Parse(timestampLayout, dashGlyphs.Replace(record[0]))
	if err != nil {
		return domain.MetricRow{}, fmt.Errorf("invalid timestamp %q: %w", record[0], err)
	}

	counts := make(map[string]domain.Observation, len(t.agents))
	for i, a := range t.agents {
		total, err := strconv.Atoi(record[1+2*i])
		if err != nil {
			return domain.MetricRow{}, fmt.Errorf("invalid %s_total %q: %w", a.Slug, record[1+2*i], err)
		}
		merged, err := strconv.Atoi(record[2+2*i])
		if err != nil {
			return domain.MetricRow{}, fmt.Errorf("invalid %s_merged %q: %w", a.Slug, record[2+2*i], err)
		}
		counts[a.Slug] = domain.Observation{Total: total, Merged: merged}
	}
	return domain.MetricRow{Timestamp: ts, Counts: counts}, nil
}
