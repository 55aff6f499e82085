package engine

import (
	"math/rand"
	"runtime"
	"sync"
	"testing"
	"time"
)

// A mixed workload of concurrent Insert/Select/Delete against one
// table. Should pass under -race without detector reports.
func TestRace_MixedWorkload(t *testing.T) {
	db := New(Options{})
	if _, err := db.CreateTable("t", Schema{
		{Name: "id", Kind: ColumnID},
		{Name: "n", Kind: ColumnNumber},
	}); err != nil {
		t.Fatalf("create: %v", err)
	}

	workers := 4 * runtime.GOMAXPROCS(0)
	deadline := time.Now().Add(500 * time.Millisecond)

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func(id int) {
			defer wg.Done()
			r := rand.New(rand.NewSource(time.Now().UnixNano() + int64(id)*9973))
			var lastID int64
			for time.Now().Before(deadline) {
				switch r.Intn(3) {
				case 0:
					resp, err := db.Insert("t", Row{NullID(), NumberValue(r.Int63n(1000))})
					if err != nil {
						t.Errorf("insert: %v", err)
						return
					}
					lastID = resp.ID
				case 1:
					if _, err := db.Select("t", 0, Comparison{Op: Equal, Operand: IDValue(lastID)}, []int{0, 1}); err != nil {
						t.Errorf("select: %v", err)
						return
					}
				default:
					if _, err := db.Delete("t", 1, Comparison{Op: Less, Operand: NumberValue(500)}); err != nil {
						t.Errorf("delete: %v", err)
						return
					}
				}
			}
		}(w)
	}
	wg.Wait()
}
