package engine

import "runtime/metrics"

// DefaultMemoryLimit is the heap ceiling used when no configuration
// overrides it (spec.md §6, MEMORY_LIMIT default).
const DefaultMemoryLimit = 16_000_000

// heapSample is the runtime/metrics key read on every OverBudget call.
// It tracks bytes of allocated heap objects and is maintained by the
// runtime allocator itself, not by any code path in this package —
// the same "instrument the allocator, not the code paths" contract
// spec.md §9 asks for. Unlike runtime.ReadMemStats, reading a single
// runtime/metrics sample does not stop the world, which keeps the
// monitor's read lock-free in spirit.
const heapSample = "/memory/classes/heap/objects:bytes"

// HeapMonitor reports whether resident heap usage exceeds a configured
// ceiling. It is advisory only: sampled at shard-lock release, never
// enforced against allocation itself (spec.md §4.A).
type HeapMonitor struct {
	limitBytes uint64
}

// NewHeapMonitor constructs a monitor with the given ceiling in bytes.
// A non-positive limit falls back to DefaultMemoryLimit.
func NewHeapMonitor(limitBytes int64) *HeapMonitor {
	if limitBytes <= 0 {
		limitBytes = DefaultMemoryLimit
	}
	return &HeapMonitor{limitBytes: uint64(limitBytes)}
}

// OverBudget reports whether the process's current heap-object byte
// count exceeds the configured ceiling.
func (m *HeapMonitor) OverBudget() bool {
	return m.sampleHeapBytes() > m.limitBytes
}

func (m *HeapMonitor) sampleHeapBytes() uint64 {
	samples := []metrics.Sample{{Name: heapSample}}
	metrics.Read(samples)
	if samples[0].Value.Kind() != metrics.KindUint64 {
		return 0
	}
	return samples[0].Value.Uint64()
}
