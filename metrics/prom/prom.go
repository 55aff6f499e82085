// Package prom adapts engine.Metrics to Prometheus counters.
package prom

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/shardtable/shardtable/engine"
)

// Adapter implements engine.Metrics and exports Prometheus counters.
// Safe for concurrent use; all Prometheus metric types are
// goroutine-safe.
type Adapter struct {
	inserts      prometheus.Counter
	deletes      prometheus.Counter
	rowsDeleted  prometheus.Counter
	selects      prometheus.Counter
	rowsReturned prometheus.Counter
	shardSpills  prometheus.Counter
	shardLoads   prometheus.Counter
}

// New constructs a Prometheus metrics adapter.
//   - reg:         registry to register metrics with (nil => prometheus.DefaultRegisterer)
//   - ns, sub:     Prometheus namespace and subsystem
//   - constLabels: static labels applied to all metrics (may be nil)
func New(reg prometheus.Registerer, ns, sub string, constLabels prometheus.Labels) *Adapter {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	a := &Adapter{
		inserts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   ns,
			Subsystem:   sub,
			Name:        "inserts_total",
			Help:        "Rows inserted",
			ConstLabels: constLabels,
		}),
		deletes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   ns,
			Subsystem:   sub,
			Name:        "deletes_total",
			Help:        "Delete operations",
			ConstLabels: constLabels,
		}),
		rowsDeleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   ns,
			Subsystem:   sub,
			Name:        "rows_deleted_total",
			Help:        "Rows removed by delete operations",
			ConstLabels: constLabels,
		}),
		selects: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   ns,
			Subsystem:   sub,
			Name:        "selects_total",
			Help:        "Select operations",
			ConstLabels: constLabels,
		}),
		rowsReturned: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   ns,
			Subsystem:   sub,
			Name:        "rows_returned_total",
			Help:        "Rows returned by select operations",
			ConstLabels: constLabels,
		}),
		shardSpills: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   ns,
			Subsystem:   sub,
			Name:        "shard_spills_total",
			Help:        "Shards moved from resident to evicted",
			ConstLabels: constLabels,
		}),
		shardLoads: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   ns,
			Subsystem:   sub,
			Name:        "shard_loads_total",
			Help:        "Shards moved from evicted to resident",
			ConstLabels: constLabels,
		}),
	}
	reg.MustRegister(a.inserts, a.deletes, a.rowsDeleted, a.selects, a.rowsReturned, a.shardSpills, a.shardLoads)
	return a
}

func (a *Adapter) Insert() { a.inserts.Inc() }

func (a *Adapter) Delete(rowsRemoved int) {
	a.deletes.Inc()
	a.rowsDeleted.Add(float64(rowsRemoved))
}

func (a *Adapter) Select(rowsReturned int) {
	a.selects.Inc()
	a.rowsReturned.Add(float64(rowsReturned))
}

func (a *Adapter) ShardSpilled() { a.shardSpills.Inc() }
func (a *Adapter) ShardLoaded()  { a.shardLoads.Inc() }

// Compile-time check: ensure Adapter implements engine.Metrics.
var _ engine.Metrics = (*Adapter)(nil)
