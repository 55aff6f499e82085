package engine

// Metrics exposes observability hooks for the table engine. A
// NoopMetrics implementation is used by default; plug in
// metrics/prom.Adapter to export these as Prometheus series.
type Metrics interface {
	// Insert records a successful row insert.
	Insert()
	// Delete records a delete operation (count of rows actually removed).
	Delete(rowsRemoved int)
	// Select records a select operation's result size.
	Select(rowsReturned int)
	// ShardSpilled records a shard moving from resident to evicted.
	ShardSpilled()
	// ShardLoaded records a shard moving from evicted to resident.
	ShardLoaded()
}

// NoopMetrics discards every signal. It is the default when no
// Metrics is configured.
type NoopMetrics struct{}

func (NoopMetrics) Insert()       {}
func (NoopMetrics) Delete(int)    {}
func (NoopMetrics) Select(int)    {}
func (NoopMetrics) ShardSpilled() {}
func (NoopMetrics) ShardLoaded() {}
