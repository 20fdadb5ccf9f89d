package etl

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/VikaRzyankina/CorpIS/internal/metrics"
	"github.com/VikaRzyankina/CorpIS/internal/schema"
	"github.com/VikaRzyankina/CorpIS/internal/storage"
	"github.com/VikaRzyankina/CorpIS/pkg/records"
)

// ExportResult describes one exported table.
type ExportResult struct {
	Entity *schema.EntityType
	Path   string

	// Rows is the number of rows written; zero means the table was empty and
	// no file was created.
	Rows int

	// Err is set by ExportAll for a table that failed.
	Err error
}

// Empty reports whether the table had no rows.
func (r ExportResult) Empty() bool { return r.Err == nil && r.Rows == 0 }

// ExportTable writes every row of table to path, in column declaration order.
// The file format follows the extension of path. An empty table writes
// nothing.
func (r *Runner) ExportTable(ctx context.Context, table, path string) (ExportResult, error) {
	et, err := schema.Lookup(table)
	if err != nil {
		return ExportResult{Path: path}, err
	}
	res := ExportResult{Entity: et, Path: path}

	start := time.Now()
	var ents []schema.Entity
	err = storage.WithUnitOfWork(ctx, r.Store, func(uow storage.UnitOfWork) error {
		var err error
		ents, err = uow.FetchAll(ctx, et)
		return err
	})
	metrics.RecordStep(r.job(), "fetch", err, time.Since(start))
	if err != nil {
		metrics.RecordTable(r.job(), "export", et.Label, err)
		return res, fmt.Errorf("fetch %s: %w", et.Label, err)
	}
	if len(ents) == 0 {
		log.Printf("export: table=%s empty", et.Label)
		metrics.RecordTable(r.job(), "export", et.Label, nil)
		return res, nil
	}

	t := records.Table{Columns: et.ColumnNames(), Rows: make([]records.Record, 0, len(ents))}
	for _, e := range ents {
		t.Rows = append(t.Rows, records.Record(schema.Record(e)))
	}

	start = time.Now()
	err = r.Files.Write(path, t)
	metrics.RecordStep(r.job(), "write", err, time.Since(start))
	metrics.RecordTable(r.job(), "export", et.Label, err)
	if err != nil {
		return res, err
	}
	res.Rows = len(t.Rows)
	metrics.RecordRow(r.job(), et.Label, "exported", res.Rows)
	log.Printf("export: table=%s rows=%d path=%s", et.Label, res.Rows, path)
	return res, nil
}

// ExportAll exports every registered table to dir/<table>.<format>, running
// up to ExportWorkers exports at once. Results come back in table name order;
// a failing table is reported through its Err and does not stop the others.
func (r *Runner) ExportAll(ctx context.Context, dir, format string) ([]ExportResult, error) {
	tables := schema.Tables()
	out := make([]ExportResult, len(tables))

	var g errgroup.Group
	g.SetLimit(max(r.ExportWorkers, 1))
	for i, table := range tables {
		i, table := i, table
		g.Go(func() error {
			path := filepath.Join(dir, table+"."+format)
			res, err := r.ExportTable(ctx, table, path)
			res.Err = err
			out[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return out, err
	}
	return out, ctx.Err()
}
