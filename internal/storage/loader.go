package storage

import (
	"context"
	"fmt"
	"log"

	"github.com/VikaRzyankina/CorpIS/internal/schema"
)

// Outcome summarises a batch load. Each entry of Errors reads
// "Row <ordinal>: <cause>".
type Outcome struct {
	Total   int
	Success int
	Failed  int
	Errors  []string
}

// Load persists rows as entities of et within a single unit of work. Row i is
// reported with ordinal i+1.
func Load(ctx context.Context, s Store, et *schema.EntityType, rows []schema.Fields) (Outcome, error) {
	return LoadRows(ctx, s, et, rows, nil)
}

// LoadRows is Load with explicit ordinals, used when rows were filtered before
// loading and failures must point at their source positions. A nil ordinals
// slice numbers rows 1..n.
//
// Every row is attempted exactly once. Construction failures and store
// rejections, cancellation included, are row-scoped: they are counted in the
// Outcome and never stop the batch. The returned error is reserved for
// failures of the unit of work itself, in which case every row is reported
// failed with that cause.
func LoadRows(ctx context.Context, s Store, et *schema.EntityType, rows []schema.Fields, ordinals []int) (Outcome, error) {
	if ordinals != nil && len(ordinals) != len(rows) {
		return Outcome{}, fmt.Errorf("loader: %d ordinals for %d rows", len(ordinals), len(rows))
	}
	out := Outcome{Total: len(rows)}

	err := WithUnitOfWork(ctx, s, func(uow UnitOfWork) error {
		for i, fields := range rows {
			if err := createRow(ctx, uow, et, fields); err != nil {
				out.Failed++
				out.Errors = append(out.Errors, fmt.Sprintf("Row %d: %v", ordinal(ordinals, i), err))
				continue
			}
			out.Success++
		}
		return nil
	})
	if err != nil {
		log.Printf("loader: table=%s aborted err=%v", et.Label, err)
		return aborted(rows, ordinals, err), err
	}
	log.Printf("loader: table=%s total=%d success=%d failed=%d", et.Label, out.Total, out.Success, out.Failed)
	return out, nil
}

func createRow(ctx context.Context, uow UnitOfWork, et *schema.EntityType, fields schema.Fields) error {
	e, err := schema.Build(et, fields)
	if err != nil {
		return Reject(et.Label, err)
	}
	return Reject(et.Label, uow.Create(ctx, e))
}

func ordinal(ordinals []int, i int) int {
	if ordinals != nil {
		return ordinals[i]
	}
	return i + 1
}

func aborted(rows []schema.Fields, ordinals []int, err error) Outcome {
	out := Outcome{Total: len(rows), Failed: len(rows), Errors: make([]string, len(rows))}
	for i := range rows {
		out.Errors[i] = fmt.Sprintf("Row %d: %v", ordinal(ordinals, i), err)
	}
	return out
}
