// Package etl orchestrates import and export runs: read a table file, detect
// its entity type, transform its rows, load them through the store, and the
// reverse for export. It logs and records metrics but never prints; the CLI
// renders the results.
package etl

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/VikaRzyankina/CorpIS/internal/metrics"
	"github.com/VikaRzyankina/CorpIS/internal/parser"
	"github.com/VikaRzyankina/CorpIS/internal/schema"
	"github.com/VikaRzyankina/CorpIS/internal/storage"
	"github.com/VikaRzyankina/CorpIS/internal/transformer"
)

// Runner carries what every run needs.
type Runner struct {
	Store storage.Store

	// Job labels metrics; empty means "corpis".
	Job string

	// Files configures the table readers and writers.
	Files parser.Options

	// ExportWorkers bounds concurrent table exports; values below 1 mean 1.
	ExportWorkers int
}

// New returns a Runner with default reader options.
func New(s storage.Store) *Runner {
	return &Runner{Store: s, Job: "corpis", Files: parser.DefaultOptions, ExportWorkers: 4}
}

func (r *Runner) job() string {
	if r.Job == "" {
		return "corpis"
	}
	return r.Job
}

// ImportResult describes one imported file.
type ImportResult struct {
	RunID   string
	Path    string
	Entity  *schema.EntityType
	Columns int

	// Read is the number of data rows in the file.
	Read int

	// Rejected holds rows that failed transformation, by source row.
	Rejected []transformer.RowError

	// Outcome covers the rows that reached the loader.
	Outcome storage.Outcome
}

// OK reports whether every row of the file was stored.
func (r ImportResult) OK() bool {
	return len(r.Rejected) == 0 && r.Outcome.Failed == 0
}

// ImportFile reads path and loads it into the store. When table is empty the
// entity type is detected from the header. Unreadable files, unknown tables
// and undetectable headers abort the import; bad rows are reported in the
// result.
func (r *Runner) ImportFile(ctx context.Context, path, table string) (ImportResult, error) {
	res := ImportResult{RunID: uuid.NewString(), Path: path}

	start := time.Now()
	t, err := r.Files.Read(ctx, path)
	metrics.RecordStep(r.job(), "extract", err, time.Since(start))
	if err != nil {
		return res, err
	}
	res.Columns = len(t.Columns)
	res.Read = len(t.Rows)
	log.Printf("import: run=%s file=%s rows=%d columns=%d", res.RunID, path, res.Read, res.Columns)

	et, err := resolve(table, t.Columns)
	if err != nil {
		return res, err
	}
	res.Entity = et

	start = time.Now()
	tr := transformer.New(et).Batch(t.Rows)
	metrics.RecordStep(r.job(), "transform", nil, time.Since(start))
	metrics.RecordRow(r.job(), et.Label, "processed", len(t.Rows))
	metrics.RecordRow(r.job(), et.Label, "transform_rejected", len(tr.Errors))
	res.Rejected = tr.Errors
	for _, e := range tr.Errors {
		log.Printf("transform: run=%s table=%s %v", res.RunID, et.Label, e)
	}

	start = time.Now()
	out, err := storage.LoadRows(ctx, r.Store, et, tr.Rows, tr.Ordinals)
	metrics.RecordStep(r.job(), "load", err, time.Since(start))
	metrics.RecordRow(r.job(), et.Label, "inserted", out.Success)
	metrics.RecordRow(r.job(), et.Label, "load_failed", out.Failed)
	res.Outcome = out

	if err == nil && !res.OK() {
		metrics.RecordTable(r.job(), "import", et.Label, errRowsFailed)
	} else {
		metrics.RecordTable(r.job(), "import", et.Label, err)
	}
	if err != nil {
		return res, fmt.Errorf("load %s: %w", et.Label, err)
	}
	log.Printf("import: run=%s table=%s validated=%d/%d stored=%d", res.RunID, et.Label, len(tr.Rows), res.Read, out.Success)
	return res, nil
}

var errRowsFailed = errors.New("rows failed")

func resolve(table string, columns []string) (*schema.EntityType, error) {
	if table != "" {
		return schema.Lookup(table)
	}
	return schema.Detect(columns)
}
