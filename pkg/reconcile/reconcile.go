// Package reconcile decides, per date, whether a record lands as an
// in-place row update or an append, and keeps the date index current as
// rows are added.
package reconcile

import (
	"context"
	"fmt"

	shared "github.com/fitglue/garmin-daily/pkg"
	"github.com/fitglue/garmin-daily/pkg/record"
	"github.com/fitglue/garmin-daily/pkg/schema"
)

// Action reports which write path an upsert took.
type Action int

const (
	Updated Action = iota
	Appended
)

func (a Action) String() string {
	if a == Appended {
		return "appended"
	}
	return "updated"
}

// Index maps date keys to 1-based row positions. It is built once from the
// key column and maintained in memory as appends happen, so a run never
// appends the same date twice.
type Index struct {
	rows map[string]int
}

// NewIndex builds the index from the key column as returned by
// RowStore.KeyColumn. The first cell is the header and is skipped; blank
// cells are skipped but still occupy their row.
func NewIndex(keyColumn []string) *Index {
	rows := make(map[string]int, len(keyColumn))
	for i, key := range keyColumn {
		if i == 0 || key == "" {
			continue
		}
		if _, exists := rows[key]; !exists {
			rows[key] = i + 1
		}
	}
	return &Index{rows: rows}
}

func (x *Index) Row(date string) (int, bool) {
	row, ok := x.rows[date]
	return row, ok
}

func (x *Index) Add(date string, row int) {
	x.rows[date] = row
}

func (x *Index) Len() int { return len(x.rows) }

// Reconciler writes records through a RowStore. Every write covers the full
// field range; on updates, volatile fields absent from the record keep the
// cell already stored, so a provider that computes a value late never has
// it erased by a refetch.
type Reconciler struct {
	Store    shared.RowStore
	Fields   []schema.Field
	Volatile map[string]bool
	Index    *Index
}

// Upsert writes one date's record, updating the existing row when the date
// is already indexed and appending otherwise.
func (r *Reconciler) Upsert(ctx context.Context, date string, rec record.Record) (Action, error) {
	values := r.rowValues(rec)

	row, exists := r.Index.Row(date)
	if !exists {
		newRow, err := r.Store.AppendRow(ctx, values)
		if err != nil {
			return Appended, fmt.Errorf("append row for %s: %w", date, err)
		}
		r.Index.Add(date, newRow)
		return Appended, nil
	}

	if err := r.preserveVolatile(ctx, row, rec, values); err != nil {
		return Updated, fmt.Errorf("read row %d for %s: %w", row, date, err)
	}
	if err := r.Store.UpdateRow(ctx, row, values); err != nil {
		return Updated, fmt.Errorf("update row %d for %s: %w", row, date, err)
	}
	return Updated, nil
}

// rowValues lays the record out in field order; absent fields become empty
// cells.
func (r *Reconciler) rowValues(rec record.Record) []any {
	values := make([]any, len(r.Fields))
	for i, f := range r.Fields {
		if v, ok := rec[f.Key]; ok {
			values[i] = v
		} else {
			values[i] = ""
		}
	}
	return values
}

// preserveVolatile carries stored cells forward for volatile fields the
// record does not set. Non-volatile absences still blank the cell.
func (r *Reconciler) preserveVolatile(ctx context.Context, row int, rec record.Record, values []any) error {
	needed := false
	for _, f := range r.Fields {
		if r.Volatile[f.Key] {
			if _, ok := rec[f.Key]; !ok {
				needed = true
				break
			}
		}
	}
	if !needed {
		return nil
	}

	existing, err := r.Store.ReadRow(ctx, row)
	if err != nil {
		return err
	}
	for i, f := range r.Fields {
		if !r.Volatile[f.Key] {
			continue
		}
		if _, ok := rec[f.Key]; ok {
			continue
		}
		if i < len(existing) && existing[i] != nil && existing[i] != "" {
			values[i] = existing[i]
		}
	}
	return nil
}
