package engine

import "sync"

// ShardCount is the fixed number of shards per table (spec.md §3:
// "256 shards + a monotonic row-id counter"). shardIndex masks with
// the literal 0xFF, so it assumes the count stays exactly 256.
const ShardCount = 256

// shardIndex maps a row id to its shard, using the low 8 bits of the
// unsigned representation (spec.md §3 invariant 2). This is
// deliberately trivial: ids are monotonic, so id&0xFF distributes
// evenly across any contiguous id range and makes the primary-key
// shortcut a constant-time shard pick (spec.md §9).
func shardIndex(id int64) int {
	return int(uint64(id) & 0xFF)
}

// shardPage holds one shard's rows in memory, or owns a spill file
// when evicted. It is either Resident (spillFile == "", rows != nil)
// or Evicted (spillFile != ""); the file is authoritative for an
// evicted shard's contents, and rows is cleared while evicted.
//
// State transitions happen only while mu is held (spec.md §3
// invariant 4/5).
type shardPage struct {
	mu        sync.Mutex
	rows      map[int64]Row
	spillFile string
}

// ShardHandle gives mutable access to a shard's resident row map for
// its lifetime, loading the shard from disk on acquisition if
// necessary. Callers MUST call Release (typically via defer) exactly
// once; Release performs the residency decision described in
// spec.md §4.B before unlocking the shard.
type ShardHandle struct {
	page     *shardPage
	dataDir  string
	monitor  *HeapMonitor
	metrics  Metrics
	released bool
}

// lock acquires the shard's lock and ensures residency: an evicted
// shard is deserialized from its spill file before the handle is
// returned. The spill file path is retained until Release decides
// whether to keep, rewrite, or delete it.
func (s *shardPage) lock(dataDir string, monitor *HeapMonitor, metrics Metrics) (*ShardHandle, error) {
	s.mu.Lock()
	if s.spillFile != "" {
		rows, err := readSpillFile(s.spillFile)
		if err != nil {
			s.mu.Unlock()
			return nil, wrapInternal(err)
		}
		s.rows = rows
		metrics.ShardLoaded()
	} else if s.rows == nil {
		s.rows = make(map[int64]Row)
	}
	return &ShardHandle{page: s, dataDir: dataDir, monitor: monitor, metrics: metrics}, nil
}

// Rows exposes the shard's resident row map. Callers may read and
// mutate it freely for the handle's lifetime; the shard lock is held
// throughout.
func (h *ShardHandle) Rows() map[int64]Row { return h.page.rows }

// Release performs the heap-pressure residency decision and unlocks
// the shard:
//
//   - over budget: serialize the map to a spill file (reusing the
//     retained path, or allocating one if none exists) and clear the
//     in-memory map.
//   - under budget, was evicted: delete the spill file and keep the
//     map resident.
//   - under budget, was resident: no change.
//
// An I/O failure aborts the state transition (the shard is left as it
// was before Release) and is returned as an internal error to the
// caller that triggered it, per spec.md §4.B's failure semantics.
func (h *ShardHandle) Release() error {
	if h.released {
		return nil
	}
	h.released = true
	defer h.page.mu.Unlock()

	page := h.page
	switch {
	case h.monitor.OverBudget():
		path := page.spillFile
		if path == "" {
			var err error
			path, err = spillPath(h.dataDir)
			if err != nil {
				return wrapInternal(err)
			}
		}
		if err := writeSpillFile(path, page.rows); err != nil {
			return wrapInternal(err)
		}
		wasResident := page.spillFile == ""
		page.spillFile = path
		page.rows = nil
		if wasResident {
			h.metrics.ShardSpilled()
		}
	case page.spillFile != "":
		if err := removeSpillFile(page.spillFile); err != nil {
			return wrapInternal(err)
		}
		page.spillFile = ""
	}
	return nil
}

// spillPathUnlocked returns the shard's current spill file path ("" when
// resident), taking the shard lock to read it. Used by DropTable cleanup.
func (s *shardPage) spillPathUnlocked() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.spillFile
}
