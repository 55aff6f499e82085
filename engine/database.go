package engine

import "sync"

// ResponseKind tags the Response variant, mirroring the wire tags
// from spec.md §6 (Nothing | Id(n) | Data([...]) | Names([...])).
type ResponseKind uint8

const (
	RespNothing ResponseKind = iota
	RespID
	RespData
	RespNames
)

// Response is the tagged result of every Database operation.
type Response struct {
	Kind  ResponseKind
	ID    int64
	Rows  []Row
	Names []string
}

func nothing() Response                     { return Response{Kind: RespNothing} }
func idResponse(id int64) Response          { return Response{Kind: RespID, ID: id} }
func dataResponse(rows []Row) Response      { return Response{Kind: RespData, Rows: rows} }
func namesResponse(names []string) Response { return Response{Kind: RespNames, Names: names} }

// Database is the top-level façade: create/drop/insert/delete/select/
// list, routing primary-key equality to a single shard (spec.md §4.E).
// Lock order is always schema registry -> data map -> shard
// (spec.md §5), never varying and never upgraded.
type Database struct {
	schema *SchemaRegistry

	dataMu sync.RWMutex
	tables map[string]*Table

	opt Options
}

// New constructs an empty Database with the given Options.
func New(opt Options) *Database {
	if opt.Metrics == nil {
		opt.Metrics = NoopMetrics{}
	}
	if opt.DataDir == "" {
		opt.DataDir = DefaultDataDir
	}
	return &Database{
		schema: newSchemaRegistry(),
		tables: make(map[string]*Table),
		opt:    opt,
	}
}

// CreateTable registers name with the given schema. Fails with
// ErrTableExists if name is already registered.
func (d *Database) CreateTable(name string, schema Schema) (Response, error) {
	d.schema.mu.Lock()
	defer d.schema.mu.Unlock()
	d.dataMu.Lock()
	defer d.dataMu.Unlock()

	if _, exists := d.schema.schemas[name]; exists {
		return Response{}, ErrTableExists
	}
	monitor := NewHeapMonitor(d.opt.MemoryLimitBytes)
	d.schema.schemas[name] = schema
	d.tables[name] = newTable(d.opt.DataDir, monitor, d.opt.Metrics)
	return nothing(), nil
}

// DropTable removes name and its table, deleting every spill file the
// table owns. An absent table is a silent no-op (spec.md §4.E).
func (d *Database) DropTable(name string) (Response, error) {
	d.schema.mu.Lock()
	defer d.schema.mu.Unlock()
	d.dataMu.Lock()
	defer d.dataMu.Unlock()

	table, ok := d.tables[name]
	if !ok {
		return nothing(), nil
	}
	delete(d.schema.schemas, name)
	delete(d.tables, name)
	if err := table.dropSpillFiles(); err != nil {
		return Response{}, err
	}
	return nothing(), nil
}

// Insert stores row in table name, returning the assigned id.
func (d *Database) Insert(name string, row Row) (Response, error) {
	table, ok := d.lookupTable(name)
	if !ok {
		return Response{}, ErrTableDoesNotExist
	}
	id, err := table.Insert(row)
	if err != nil {
		return Response{}, err
	}
	return idResponse(id), nil
}

// Delete removes every row in table name whose value at colPos
// matches comparison. An equality test against the Id column is
// routed to a single-shard delete rather than a 256-way fan-out
// (spec.md §4.C's primary-key shortcut).
func (d *Database) Delete(name string, colPos int, comparison Comparison) (Response, error) {
	table, ok := d.lookupTable(name)
	if !ok {
		return Response{}, ErrTableDoesNotExist
	}
	if d.isIDColumn(name, colPos) && comparison.IsEquality() && comparison.Operand.Kind() == KindID {
		if err := table.DeleteByID(comparison.Operand.Int()); err != nil {
			return Response{}, err
		}
		return nothing(), nil
	}
	if err := table.ScanDelete(colPos, comparison); err != nil {
		return Response{}, err
	}
	return nothing(), nil
}

// Select returns every row in table name whose value at colPos
// matches comparison, projected to the given column positions. Same
// primary-key shortcut as Delete.
func (d *Database) Select(name string, colPos int, comparison Comparison, projection []int) (Response, error) {
	table, ok := d.lookupTable(name)
	if !ok {
		return Response{}, ErrTableDoesNotExist
	}
	if d.isIDColumn(name, colPos) && comparison.IsEquality() && comparison.Operand.Kind() == KindID {
		rows, err := table.GetByID(comparison.Operand.Int(), projection)
		if err != nil {
			return Response{}, err
		}
		return dataResponse(rows), nil
	}
	rows, err := table.Scan(colPos, comparison, projection)
	if err != nil {
		return Response{}, err
	}
	return dataResponse(rows), nil
}

// Schema returns the registered schema for name and whether it
// exists. Exposed for the command parser's column-name resolution.
func (d *Database) Schema(name string) (Schema, bool) {
	return d.schema.Lookup(name)
}

// ListTables returns every registered table name.
func (d *Database) ListTables() (Response, error) {
	return namesResponse(d.schema.Names()), nil
}

// DescribeTable returns the column names of table name, in schema order.
func (d *Database) DescribeTable(name string) (Response, error) {
	schema, ok := d.schema.Lookup(name)
	if !ok {
		return Response{}, ErrTableDoesNotExist
	}
	return namesResponse(schema.Names()), nil
}

func (d *Database) lookupTable(name string) (*Table, bool) {
	d.dataMu.RLock()
	defer d.dataMu.RUnlock()
	t, ok := d.tables[name]
	return t, ok
}

// isIDColumn reports whether colPos is the Id column of table name.
// The schema registry is only read-locked for this purpose, per
// spec.md §4.E.
func (d *Database) isIDColumn(name string, colPos int) bool {
	schema, ok := d.schema.Lookup(name)
	if !ok {
		return false
	}
	if colPos < 0 || colPos >= len(schema) {
		return false
	}
	return schema[colPos].Kind == ColumnID
}
