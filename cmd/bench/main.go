// Command bench runs a synthetic workload against the table engine
// and exposes a Prometheus metrics endpoint plus an optional pprof one.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	_ "net/http/pprof" // registers /debug/pprof/* on DefaultServeMux
	"runtime"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shardtable/shardtable/engine"
	pmet "github.com/shardtable/shardtable/metrics/prom"
)

func main() {
	var (
		preload     = flag.Int("preload", 100_000, "rows inserted before the benchmark starts")
		workers     = flag.Int("workers", 2*runtime.GOMAXPROCS(0), "number of worker goroutines")
		duration    = flag.Duration("duration", 10*time.Second, "benchmark duration")
		selectPct   = flag.Int("selects", 80, "select percentage [0..100], remainder split insert/delete")
		memoryLimit = flag.Int64("memory_limit", 16_000_000, "heap ceiling triggering shard spill, in bytes")
		seed        = flag.Int64("seed", time.Now().UnixNano(), "random seed")

		pprofAddr   = flag.String("pprof", "", "serve pprof at addr (e.g. :6060); empty = disabled")
		metricsAddr = flag.String("http", ":8080", "serve Prometheus metrics at addr")
	)
	flag.Parse()

	if *pprofAddr != "" {
		go func() {
			log.Printf("pprof: serving at %s", *pprofAddr)
			log.Println(http.ListenAndServe(*pprofAddr, nil))
		}()
	}

	metrics := pmet.New(nil, "shardtable", "bench", nil)
	http.Handle("/metrics", promhttp.Handler())
	go func() {
		log.Printf("metrics: serving at %s", *metricsAddr)
		log.Println(http.ListenAndServe(*metricsAddr, nil))
	}()

	db := engine.New(engine.Options{MemoryLimitBytes: *memoryLimit, Metrics: metrics})
	schema := engine.Schema{
		{Name: "id", Kind: engine.ColumnID},
		{Name: "value", Kind: engine.ColumnString},
	}
	if _, err := db.CreateTable("bench", schema); err != nil {
		log.Fatal(err)
	}

	var highWaterID int64
	for i := 0; i < *preload; i++ {
		resp, err := db.Insert("bench", engine.Row{engine.NullID(), engine.StringValue("v" + strconv.Itoa(i))})
		if err != nil {
			log.Fatal(err)
		}
		highWaterID = resp.ID
	}

	var inserts, selects, deletes, total uint64
	idCounter := highWaterID
	seedBase := *seed
	workersN := *workers
	if workersN <= 0 {
		workersN = 1
	}
	selectPctVal := *selectPct

	ctx, cancel := context.WithTimeout(context.Background(), *duration)
	defer cancel()

	start := time.Now()
	var wg sync.WaitGroup
	wg.Add(workersN)
	for w := 0; w < workersN; w++ {
		go func(id int) {
			defer wg.Done()
			localR := rand.New(rand.NewSource(seedBase + int64(id)*9973))

			for {
				select {
				case <-ctx.Done():
					return
				default:
				}

				atomic.AddUint64(&total, 1)
				roll := localR.Intn(100)
				switch {
				case roll < selectPctVal:
					atomic.AddUint64(&selects, 1)
					target := localR.Int63n(atomic.LoadInt64(&idCounter) + 1)
					_, _ = db.Select("bench", 0, engine.Comparison{Op: engine.Equal, Operand: engine.IDValue(target)}, []int{0, 1})
				case roll < selectPctVal+(100-selectPctVal)/2:
					atomic.AddUint64(&inserts, 1)
					resp, err := db.Insert("bench", engine.Row{engine.NullID(), engine.StringValue("v")})
					if err == nil {
						atomic.StoreInt64(&idCounter, resp.ID)
					}
				default:
					atomic.AddUint64(&deletes, 1)
					target := localR.Int63n(atomic.LoadInt64(&idCounter) + 1)
					_, _ = db.Delete("bench", 0, engine.Comparison{Op: engine.Equal, Operand: engine.IDValue(target)})
				}
			}
		}(w)
	}
	wg.Wait()
	elapsed := time.Since(start)

	ops := atomic.LoadUint64(&total)
	fmt.Printf("preload=%d workers=%d dur=%v seed=%d\n", *preload, workersN, elapsed, seedBase)
	fmt.Printf("ops=%d (%.0f ops/s)  selects=%d  inserts=%d  deletes=%d\n",
		ops, float64(ops)/elapsed.Seconds(), atomic.LoadUint64(&selects), atomic.LoadUint64(&inserts), atomic.LoadUint64(&deletes))
}
