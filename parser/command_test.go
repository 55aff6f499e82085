package parser

import (
	"errors"
	"testing"

	"github.com/shardtable/shardtable/engine"
)

func peopleSchema() engine.Schema {
	return engine.Schema{
		{Name: "id", Kind: engine.ColumnID},
		{Name: "name", Kind: engine.ColumnString},
		{Name: "age", Kind: engine.ColumnNumber},
		{Name: "data", Kind: engine.ColumnBlob},
	}
}

func fixedLookup(schema engine.Schema) SchemaLookup {
	return func(name string) (engine.Schema, bool) {
		if name != "people" {
			return nil, false
		}
		return schema, true
	}
}

func TestParseCreateTable(t *testing.T) {
	cmd, err := Parse(`CREATE TABLE people (id INT PRIMARY KEY, name TEXT, age INT, data BLOB)`, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cmd.Kind != CreateTable || cmd.TableName != "people" {
		t.Fatalf("unexpected command: %+v", cmd)
	}
	want := peopleSchema()
	if len(cmd.Schema) != len(want) {
		t.Fatalf("schema length = %d, want %d", len(cmd.Schema), len(want))
	}
	for i, col := range want {
		if cmd.Schema[i] != col {
			t.Errorf("column %d = %+v, want %+v", i, cmd.Schema[i], col)
		}
	}
}

func TestParseCreateTablePrimaryKeyNotInteger(t *testing.T) {
	_, err := Parse(`create table t (name text primary key)`, nil)
	if !errors.Is(err, ErrPrimaryKeyNotInteger) {
		t.Fatalf("err = %v, want ErrPrimaryKeyNotInteger", err)
	}
}

func TestParseCreateIndexUnnamedAndNamed(t *testing.T) {
	cmd, err := Parse(`CREATE INDEX ON people (name)`, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cmd.Kind != CreateIndex || cmd.TableName != "people" {
		t.Fatalf("unexpected command: %+v", cmd)
	}

	cmd, err = Parse(`CREATE INDEX by_name ON people (name, age)`, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cmd.Kind != CreateIndex || cmd.TableName != "people" {
		t.Fatalf("unexpected command: %+v", cmd)
	}
}

func TestParseInsert(t *testing.T) {
	lookup := fixedLookup(peopleSchema())
	cmd, err := Parse(`INSERT INTO people VALUES (NULL, 'John Smith', 32, NULL)`, lookup)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cmd.Kind != Insert {
		t.Fatalf("kind = %v, want Insert", cmd.Kind)
	}
	if cmd.Row[0].Kind() != engine.KindNullID {
		t.Errorf("row[0] kind = %v, want NullID", cmd.Row[0].Kind())
	}
	if cmd.Row[1].Kind() != engine.KindString || cmd.Row[1].Str() != "John Smith" {
		t.Errorf("row[1] = %#v", cmd.Row[1])
	}
	if cmd.Row[2].Kind() != engine.KindNumber || cmd.Row[2].Int() != 32 {
		t.Errorf("row[2] = %#v", cmd.Row[2])
	}
	if cmd.Row[3].Kind() != engine.KindBlob || len(cmd.Row[3].Bytes()) != 0 {
		t.Errorf("row[3] = %#v, want empty Blob", cmd.Row[3])
	}
}

func TestParseInsertTooManyValues(t *testing.T) {
	lookup := fixedLookup(peopleSchema())
	_, err := Parse(`INSERT INTO people VALUES (NULL, 'a', 1, NULL, 'extra')`, lookup)
	if !errors.Is(err, ErrTooManyValues) {
		t.Fatalf("err = %v, want ErrTooManyValues", err)
	}
}

func TestParseInsertNoSuchTable(t *testing.T) {
	lookup := fixedLookup(peopleSchema())
	_, err := Parse(`INSERT INTO ghosts VALUES (NULL)`, lookup)
	if !errors.Is(err, ErrNoSuchTable) {
		t.Fatalf("err = %v, want ErrNoSuchTable", err)
	}
}

func TestParseSelectStar(t *testing.T) {
	lookup := fixedLookup(peopleSchema())
	cmd, err := Parse(`SELECT * FROM people WHERE id = 0`, lookup)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cmd.Kind != Select || cmd.ColPos != 0 {
		t.Fatalf("unexpected command: %+v", cmd)
	}
	if cmd.Comparison.Op != engine.Equal || cmd.Comparison.Operand.Kind() != engine.KindID {
		t.Errorf("comparison = %+v, want Id equality", cmd.Comparison)
	}
	if len(cmd.Projection) != 4 {
		t.Errorf("projection = %v, want all 4 columns", cmd.Projection)
	}
}

func TestParseSelectWithoutWhere(t *testing.T) {
	lookup := fixedLookup(peopleSchema())
	cmd, err := Parse(`SELECT name, age FROM people`, lookup)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cmd.Comparison.Op != engine.All {
		t.Errorf("comparison op = %v, want All", cmd.Comparison.Op)
	}
	if len(cmd.Projection) != 2 || cmd.Projection[0] != 1 || cmd.Projection[1] != 2 {
		t.Errorf("projection = %v, want [1 2]", cmd.Projection)
	}
}

func TestParseSelectMirroredComparison(t *testing.T) {
	lookup := fixedLookup(peopleSchema())
	cmd, err := Parse(`SELECT * FROM people WHERE 32 <= age`, lookup)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cmd.ColPos != 2 {
		t.Fatalf("colPos = %d, want 2 (age)", cmd.ColPos)
	}
	if cmd.Comparison.Op != engine.GreaterOrEqual || cmd.Comparison.Operand.Int() != 32 {
		t.Errorf("comparison = %+v, want age >= 32", cmd.Comparison)
	}
}

func TestParseSelectUnsupportedComparison(t *testing.T) {
	lookup := fixedLookup(peopleSchema())
	_, err := Parse(`SELECT * FROM people WHERE name = age`, lookup)
	if !errors.Is(err, ErrUnsupportedComparison) {
		t.Fatalf("err = %v, want ErrUnsupportedComparison", err)
	}
}

func TestParseSelectNoSuchColumn(t *testing.T) {
	lookup := fixedLookup(peopleSchema())
	_, err := Parse(`SELECT ghost FROM people`, lookup)
	if !errors.Is(err, ErrNoSuchColumn) {
		t.Fatalf("err = %v, want ErrNoSuchColumn", err)
	}
}

func TestParseDelete(t *testing.T) {
	lookup := fixedLookup(peopleSchema())
	cmd, err := Parse(`DELETE FROM people WHERE name = 'John Smith'`, lookup)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cmd.Kind != Delete || cmd.ColPos != 1 {
		t.Fatalf("unexpected command: %+v", cmd)
	}
	if cmd.Comparison.Op != engine.Equal || cmd.Comparison.Operand.Str() != "John Smith" {
		t.Errorf("comparison = %+v", cmd.Comparison)
	}
}

func TestParseDropTable(t *testing.T) {
	cmd, err := Parse(`DROP TABLE people`, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cmd.Kind != DropTable || cmd.TableName != "people" {
		t.Fatalf("unexpected command: %+v", cmd)
	}
}

func TestParseCaseInsensitiveKeywordsRoundTrip(t *testing.T) {
	lookup := fixedLookup(peopleSchema())
	a, err := Parse(`select * from people where id = 0`, lookup)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := Parse(`   SELECT   *   FROM   people   WHERE   id=0  `, lookup)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.Kind != b.Kind || a.TableName != b.TableName || a.ColPos != b.ColPos {
		t.Fatalf("statements diverged: %+v vs %+v", a, b)
	}
	if a.Comparison.Op != b.Comparison.Op || !a.Comparison.Operand.Equal(b.Comparison.Operand) {
		t.Fatalf("comparisons diverged: %+v vs %+v", a.Comparison, b.Comparison)
	}
}

func TestParseSyntaxError(t *testing.T) {
	_, err := Parse(`SELECT FROM WHERE`, nil)
	if !errors.Is(err, ErrSyntax) {
		t.Fatalf("err = %v, want ErrSyntax", err)
	}
}
