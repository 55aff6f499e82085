package engine

import (
	"golang.org/x/sync/errgroup"

	"github.com/shardtable/shardtable/internal/util"
)

// Table is 256 shards plus a monotonic row-id counter (spec.md §3).
// All operations take column positions, never names — name resolution
// is the parser's job.
type Table struct {
	shards  [ShardCount]*shardPage
	counter util.PaddedAtomicInt64

	dataDir string
	monitor *HeapMonitor
	metrics Metrics
}

// newTable constructs an empty table backed by dataDir for spill files
// and monitor for the heap-pressure decision at shard-lock release.
func newTable(dataDir string, monitor *HeapMonitor, metrics Metrics) *Table {
	t := &Table{dataDir: dataDir, monitor: monitor, metrics: metrics}
	for i := range t.shards {
		t.shards[i] = &shardPage{}
	}
	return t
}

// project copies the columns at positions out of row, in order.
func project(row Row, positions []int) Row {
	out := make(Row, len(positions))
	for i, pos := range positions {
		out[i] = row[pos]
	}
	return out
}

// Insert obtains the next row id from the table counter, substitutes
// it for every KindNullID slot in row, stores the row in
// shard=id&0xFF, and returns the assigned id.
func (t *Table) Insert(row Row) (int64, error) {
	id := t.counter.Add(1) - 1
	assigned := make(Row, len(row))
	copy(assigned, row)
	for i, v := range assigned {
		if v.Kind() == KindNullID {
			assigned[i] = IDValue(id)
		}
	}

	h, err := t.shards[shardIndex(id)].lock(t.dataDir, t.monitor, t.metrics)
	if err != nil {
		return 0, err
	}
	h.Rows()[id] = assigned.Clone()
	if err := h.Release(); err != nil {
		return 0, err
	}
	t.metrics.Insert()
	return id, nil
}

// GetByID is a single-shard lookup. An absent key returns an empty
// slice; otherwise one row with the selected columns, in order.
func (t *Table) GetByID(id int64, projection []int) ([]Row, error) {
	h, err := t.shards[shardIndex(id)].lock(t.dataDir, t.monitor, t.metrics)
	if err != nil {
		return nil, err
	}
	var out []Row
	if row, ok := h.Rows()[id]; ok {
		out = []Row{project(row, projection)}
	}
	if err := h.Release(); err != nil {
		return nil, err
	}
	t.metrics.Select(len(out))
	return out, nil
}

// DeleteByID is a single-shard removal. An absent key is a no-op.
func (t *Table) DeleteByID(id int64) error {
	h, err := t.shards[shardIndex(id)].lock(t.dataDir, t.monitor, t.metrics)
	if err != nil {
		return err
	}
	removed := 0
	if _, ok := h.Rows()[id]; ok {
		delete(h.Rows(), id)
		removed = 1
	}
	if err := h.Release(); err != nil {
		return err
	}
	t.metrics.Delete(removed)
	return nil
}

// Scan fans out to all 256 shards in parallel (one goroutine per
// shard via errgroup), each filtering by predicate(row[colPos]) and
// projecting the selected columns. Results are concatenated in shard-
// index order regardless of goroutine completion order; no ordering
// across shards is guaranteed beyond that. A shard I/O failure aborts
// the whole scan and the remaining shards still run to completion
// (errgroup without a context does not cancel siblings), matching
// spec.md §5's "tasks run to completion" rule.
func (t *Table) Scan(colPos int, cmp Comparison, projection []int) ([]Row, error) {
	perShard := make([][]Row, ShardCount)

	var g errgroup.Group
	for i := 0; i < ShardCount; i++ {
		i := i
		g.Go(func() error {
			h, err := t.shards[i].lock(t.dataDir, t.monitor, t.metrics)
			if err != nil {
				return err
			}
			var local []Row
			for _, row := range h.Rows() {
				if cmp.Match(row[colPos]) {
					local = append(local, project(row, projection))
				}
			}
			if err := h.Release(); err != nil {
				return err
			}
			perShard[i] = local
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var out []Row
	for i := 0; i < ShardCount; i++ {
		out = append(out, perShard[i]...)
	}
	t.metrics.Select(len(out))
	return out, nil
}

// ScanDelete is Scan's symmetric counterpart: it fans out to all
// 256 shards in parallel and, within each, retains only rows for which
// predicate(row[colPos]) is false.
func (t *Table) ScanDelete(colPos int, cmp Comparison) error {
	removed := make([]int, ShardCount)

	var g errgroup.Group
	for i := 0; i < ShardCount; i++ {
		i := i
		g.Go(func() error {
			h, err := t.shards[i].lock(t.dataDir, t.monitor, t.metrics)
			if err != nil {
				return err
			}
			n := 0
			rows := h.Rows()
			for id, row := range rows {
				if cmp.Match(row[colPos]) {
					delete(rows, id)
					n++
				}
			}
			if err := h.Release(); err != nil {
				return err
			}
			removed[i] = n
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	total := 0
	for _, n := range removed {
		total += n
	}
	t.metrics.Delete(total)
	return nil
}

// dropSpillFiles removes every shard's backing spill file, if any
// (spec.md §3 invariant 6: removed on table drop).
func (t *Table) dropSpillFiles() error {
	for _, s := range t.shards {
		if path := s.spillPathUnlocked(); path != "" {
			if err := removeSpillFile(path); err != nil {
				return wrapInternal(err)
			}
		}
	}
	return nil
}
