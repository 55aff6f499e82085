package engine

import (
	"errors"
	"os"
	"testing"
)

func peopleSchema() Schema {
	return Schema{
		{Name: "id", Kind: ColumnID},
		{Name: "name", Kind: ColumnString},
		{Name: "age", Kind: ColumnNumber},
		{Name: "data", Kind: ColumnBlob},
	}
}

// CreateTable fails on a duplicate name and DropTable is a silent
// no-op on an absent one.
func TestCreateDropTable(t *testing.T) {
	t.Parallel()
	db := New(Options{})

	if _, err := db.CreateTable("people", peopleSchema()); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := db.CreateTable("people", peopleSchema()); !errors.Is(err, ErrTableExists) {
		t.Fatalf("err = %v, want ErrTableExists", err)
	}
	if _, err := db.DropTable("people"); err != nil {
		t.Fatalf("drop: %v", err)
	}
	if _, err := db.DropTable("people"); err != nil {
		t.Fatalf("drop absent table must be a no-op, got %v", err)
	}
}

// Scenario 1 (spec.md §8): insert a row with NullId/blob placeholders,
// then select it back by id.
func TestInsertThenSelectById(t *testing.T) {
	t.Parallel()
	db := New(Options{})
	if _, err := db.CreateTable("people", peopleSchema()); err != nil {
		t.Fatalf("create: %v", err)
	}

	row := Row{NullID(), StringValue("John Smith"), NumberValue(32), BlobValue(nil)}
	resp, err := db.Insert("people", row)
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if resp.Kind != RespID || resp.ID != 0 {
		t.Fatalf("insert response = %+v, want Id(0)", resp)
	}

	sel, err := db.Select("people", 0, Comparison{Op: Equal, Operand: IDValue(0)}, []int{0, 1, 2, 3})
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if len(sel.Rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(sel.Rows))
	}
	got := sel.Rows[0]
	if got[0].Kind() != KindID || got[0].Int() != 0 {
		t.Errorf("row[0] = %#v, want Id(0)", got[0])
	}
	if got[1].Str() != "John Smith" || got[2].Int() != 32 {
		t.Errorf("row = %#v", got)
	}
}

// Scenario 2 (spec.md §8): delete by a non-Id column removes the row
// from both the by-id and the full-table views.
func TestDeleteByNonIdColumn(t *testing.T) {
	t.Parallel()
	db := New(Options{})
	if _, err := db.CreateTable("people", peopleSchema()); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := db.Insert("people", Row{NullID(), StringValue("John Smith"), NumberValue(32), BlobValue(nil)}); err != nil {
		t.Fatalf("insert: %v", err)
	}

	if _, err := db.Delete("people", 1, Comparison{Op: Equal, Operand: StringValue("John Smith")}); err != nil {
		t.Fatalf("delete: %v", err)
	}

	byID, err := db.Select("people", 0, Comparison{Op: Equal, Operand: IDValue(0)}, []int{0})
	if err != nil {
		t.Fatalf("select by id: %v", err)
	}
	if len(byID.Rows) != 0 {
		t.Fatalf("expected no rows by id after delete, got %d", len(byID.Rows))
	}

	all, err := db.Select("people", 0, Comparison{Op: All}, []int{0})
	if err != nil {
		t.Fatalf("select all: %v", err)
	}
	if len(all.Rows) != 0 {
		t.Fatalf("expected empty table after delete, got %d rows", len(all.Rows))
	}
}

// Scenario 3 (spec.md §8): an empty string is a normal, distinct
// value, not treated as absent.
func TestEmptyStringValue(t *testing.T) {
	t.Parallel()
	db := New(Options{})
	if _, err := db.CreateTable("people", peopleSchema()); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := db.Insert("people", Row{NullID(), StringValue(""), NumberValue(123), BlobValue(nil)}); err != nil {
		t.Fatalf("insert: %v", err)
	}

	resp, err := db.Select("people", 1, Comparison{Op: Equal, Operand: StringValue("")}, []int{1, 2, 3})
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if len(resp.Rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(resp.Rows))
	}
	if resp.Rows[0][0].Str() != "" || resp.Rows[0][1].Int() != 123 {
		t.Errorf("row = %#v", resp.Rows[0])
	}
}

// Scenario 5 (spec.md §8): dropping a table removes every spill file
// it forced onto disk.
func TestDropTableRemovesSpillFiles(t *testing.T) {
	t.Parallel()
	dataDir := t.TempDir()
	db := New(Options{MemoryLimitBytes: 1, DataDir: dataDir})

	if _, err := db.CreateTable("people", peopleSchema()); err != nil {
		t.Fatalf("create: %v", err)
	}
	for i := 0; i < 500; i++ {
		if _, err := db.Insert("people", Row{NullID(), StringValue("x"), NumberValue(int64(i)), BlobValue(nil)}); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}
	if _, err := db.DropTable("people"); err != nil {
		t.Fatalf("drop: %v", err)
	}

	entries, err := os.ReadDir(dataDir)
	if err != nil {
		t.Fatalf("read data dir: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected no leftover spill files, found %v", entries)
	}
}

// (P1) Ids form the strictly increasing sequence 0..n-1.
func TestInsertIDsAreStrictlyIncreasing(t *testing.T) {
	t.Parallel()
	db := New(Options{})
	if _, err := db.CreateTable("t", Schema{{Name: "id", Kind: ColumnID}}); err != nil {
		t.Fatalf("create: %v", err)
	}
	for i := int64(0); i < 1000; i++ {
		resp, err := db.Insert("t", Row{NullID()})
		if err != nil {
			t.Fatalf("insert: %v", err)
		}
		if resp.ID != i {
			t.Fatalf("insert %d returned id %d", i, resp.ID)
		}
	}
}

// (P4) select(c, All, [n]) returns one projected row per row in the table.
func TestSelectAllReturnsEveryRow(t *testing.T) {
	t.Parallel()
	db := New(Options{})
	schema := Schema{{Name: "id", Kind: ColumnID}, {Name: "n", Kind: ColumnNumber}}
	if _, err := db.CreateTable("t", schema); err != nil {
		t.Fatalf("create: %v", err)
	}
	const n = 2000
	for i := 0; i < n; i++ {
		if _, err := db.Insert("t", Row{NullID(), NumberValue(int64(i))}); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}
	resp, err := db.Select("t", 1, Comparison{Op: All}, []int{1})
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if len(resp.Rows) != n {
		t.Fatalf("got %d rows, want %d", len(resp.Rows), n)
	}
}

func TestListAndDescribeTables(t *testing.T) {
	t.Parallel()
	db := New(Options{})
	if _, err := db.CreateTable("people", peopleSchema()); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := db.CreateTable("widgets", Schema{{Name: "id", Kind: ColumnID}}); err != nil {
		t.Fatalf("create: %v", err)
	}

	list, err := db.ListTables()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list.Names) != 2 {
		t.Fatalf("names = %v, want 2 entries", list.Names)
	}

	describe, err := db.DescribeTable("people")
	if err != nil {
		t.Fatalf("describe: %v", err)
	}
	want := []string{"id", "name", "age", "data"}
	if len(describe.Names) != len(want) {
		t.Fatalf("describe = %v, want %v", describe.Names, want)
	}
	for i, name := range want {
		if describe.Names[i] != name {
			t.Errorf("describe[%d] = %q, want %q", i, describe.Names[i], name)
		}
	}

	if _, err := db.DescribeTable("ghosts"); !errors.Is(err, ErrTableDoesNotExist) {
		t.Fatalf("err = %v, want ErrTableDoesNotExist", err)
	}
}
