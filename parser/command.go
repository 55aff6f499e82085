package parser

import (
	"strconv"

	"github.com/shardtable/shardtable/engine"
)

// CommandKind tags which of the seven statement shapes a Command holds.
type CommandKind uint8

const (
	CreateTable CommandKind = iota
	CreateIndex
	Insert
	Select
	Delete
	DropTable
)

// Command is the typed result of parsing one statement. Only the
// fields relevant to Kind are populated.
type Command struct {
	Kind CommandKind

	TableName string

	// CreateTable
	Schema engine.Schema

	// Insert
	Row engine.Row

	// Select / Delete
	ColPos     int
	Comparison engine.Comparison

	// Select
	Projection []int
}

// SchemaLookup resolves a table name to its registered schema, used to
// turn column names into positions. It is the only hook the parser
// needs into the live database state.
type SchemaLookup func(tableName string) (engine.Schema, bool)

// Parse tokenizes input and matches it against the seven accepted
// statement shapes (spec.md §4.F). CREATE INDEX is recognized and
// returned as a Command but carries no further meaning: the façade
// treats it as a no-op.
func Parse(input string, lookup SchemaLookup) (Command, error) {
	tokens, err := tokenize(input)
	if err != nil {
		return Command{}, err
	}
	p := &parseState{tokens: tokens, lookup: lookup}

	switch {
	case p.peekKeyword("CREATE"):
		p.pos++
		switch {
		case p.peekKeyword("TABLE"):
			p.pos++
			return p.parseCreateTable()
		case p.peekKeyword("INDEX"):
			p.pos++
			return p.parseCreateIndex()
		}
		return Command{}, ErrSyntax
	case p.peekKeyword("INSERT"):
		p.pos++
		return p.parseInsert()
	case p.peekKeyword("SELECT"):
		p.pos++
		return p.parseSelect()
	case p.peekKeyword("DELETE"):
		p.pos++
		return p.parseDelete()
	case p.peekKeyword("DROP"):
		p.pos++
		if !p.consumeKeyword("TABLE") {
			return Command{}, ErrSyntax
		}
		name, ok := p.consumeName()
		if !ok || !p.atEnd() {
			return Command{}, ErrSyntax
		}
		return Command{Kind: DropTable, TableName: name}, nil
	}
	return Command{}, ErrSyntax
}

// parseState is a cursor over a token slice. All parseX methods return
// ErrSyntax (or a more specific user error) on malformed input, never
// panicking on a short token slice.
type parseState struct {
	tokens []token
	pos    int
	lookup SchemaLookup
}

func (p *parseState) atEnd() bool { return p.pos >= len(p.tokens) }

func (p *parseState) peek() (token, bool) {
	if p.atEnd() {
		return token{}, false
	}
	return p.tokens[p.pos], true
}

func (p *parseState) peekKeyword(kw string) bool {
	t, ok := p.peek()
	return ok && t.keyword(kw)
}

func (p *parseState) consumeKeyword(kw string) bool {
	if !p.peekKeyword(kw) {
		return false
	}
	p.pos++
	return true
}

func (p *parseState) consumePunct(s string) bool {
	t, ok := p.peek()
	if !ok || t.kind != tokPunct || t.text != s {
		return false
	}
	p.pos++
	return true
}

func (p *parseState) consumeName() (string, bool) {
	t, ok := p.peek()
	if !ok {
		return "", false
	}
	name, isName := t.name()
	if !isName {
		return "", false
	}
	p.pos++
	return name, true
}

// --- CREATE TABLE ---

func (p *parseState) parseCreateTable() (Command, error) {
	name, ok := p.consumeName()
	if !ok || !p.consumePunct("(") {
		return Command{}, ErrSyntax
	}
	var schema engine.Schema
	for {
		col, err := p.parseColDef()
		if err != nil {
			return Command{}, err
		}
		schema = append(schema, col)
		if p.consumePunct(",") {
			if p.consumePunct(")") {
				break
			}
			continue
		}
		if p.consumePunct(")") {
			break
		}
		return Command{}, ErrSyntax
	}
	if !p.atEnd() {
		return Command{}, ErrSyntax
	}
	return Command{Kind: CreateTable, TableName: name, Schema: schema}, nil
}

func (p *parseState) parseColDef() (engine.Column, error) {
	name, ok := p.consumeName()
	if !ok {
		return engine.Column{}, ErrSyntax
	}
	isInt := false
	var kind engine.ColumnKind
	switch {
	case p.consumeKeyword("INT"), p.consumeKeyword("INTEGER"):
		isInt = true
		kind = engine.ColumnNumber
	case p.consumeKeyword("STRING"), p.consumeKeyword("TEXT"), p.consumeKeyword("VARCHAR"):
		kind = engine.ColumnString
	case p.consumeKeyword("DATA"), p.consumeKeyword("BLOB"):
		kind = engine.ColumnBlob
	default:
		return engine.Column{}, ErrSyntax
	}
	if p.peekKeyword("PRIMARY") {
		save := p.pos
		p.pos++
		if !p.consumeKeyword("KEY") {
			p.pos = save
			return engine.Column{}, ErrSyntax
		}
		if !isInt {
			return engine.Column{}, ErrPrimaryKeyNotInteger
		}
		kind = engine.ColumnID
	}
	return engine.Column{Name: name, Kind: kind}, nil
}

// --- CREATE INDEX (no-op) ---

func (p *parseState) parseCreateIndex() (Command, error) {
	if !p.peekKeyword("ON") {
		if _, ok := p.consumeName(); !ok {
			return Command{}, ErrSyntax
		}
	}
	if !p.consumeKeyword("ON") {
		return Command{}, ErrSyntax
	}
	table, ok := p.consumeName()
	if !ok || !p.consumePunct("(") {
		return Command{}, ErrSyntax
	}
	for {
		if _, ok := p.consumeName(); !ok {
			return Command{}, ErrSyntax
		}
		if p.consumePunct(",") {
			continue
		}
		if p.consumePunct(")") {
			break
		}
		return Command{}, ErrSyntax
	}
	if !p.atEnd() {
		return Command{}, ErrSyntax
	}
	return Command{Kind: CreateIndex, TableName: table}, nil
}

// --- INSERT ---

func (p *parseState) parseInsert() (Command, error) {
	if !p.consumeKeyword("INTO") {
		return Command{}, ErrSyntax
	}
	name, ok := p.consumeName()
	if !ok {
		return Command{}, ErrSyntax
	}
	if !p.consumeKeyword("VALUES") || !p.consumePunct("(") {
		return Command{}, ErrSyntax
	}
	var rawValues []token
	for {
		t, ok := p.peek()
		if !ok {
			return Command{}, ErrSyntax
		}
		rawValues = append(rawValues, t)
		p.pos++
		if p.consumePunct(",") {
			continue
		}
		if p.consumePunct(")") {
			break
		}
		return Command{}, ErrSyntax
	}
	if !p.atEnd() {
		return Command{}, ErrSyntax
	}
	schema, ok := p.lookup(name)
	if !ok {
		return Command{}, ErrNoSuchTable
	}
	row, err := buildInsertRow(rawValues, schema)
	if err != nil {
		return Command{}, err
	}
	return Command{Kind: Insert, TableName: name, Row: row}, nil
}

// buildInsertRow converts the raw value tokens of an INSERT into a
// Row aligned to schema. Supplying more values than columns is
// ErrTooManyValues; supplying fewer leaves the trailing columns at
// their kind's zero value, matching the NULL handling below.
func buildInsertRow(values []token, schema engine.Schema) (engine.Row, error) {
	if len(values) > len(schema) {
		return nil, ErrTooManyValues
	}
	row := make(engine.Row, len(schema))
	for i, col := range schema {
		if i >= len(values) {
			row[i] = zeroValue(col.Kind)
			continue
		}
		v, err := valueForColumn(values[i], col.Kind)
		if err != nil {
			return nil, err
		}
		row[i] = v
	}
	return row, nil
}

// zeroValue is the value substituted for NULL (or an omitted
// trailing value) in a non-Id column: scenario 1 of spec.md §8 feeds
// NULL into a Blob column and accepts either "empty or literal" as the
// result, so an empty/zero payload is always a valid rendering.
func zeroValue(kind engine.ColumnKind) engine.Value {
	switch kind {
	case engine.ColumnID:
		return engine.NullID()
	case engine.ColumnNumber:
		return engine.NumberValue(0)
	case engine.ColumnBlob:
		return engine.BlobValue([]byte{})
	default:
		return engine.StringValue("")
	}
}

func valueForColumn(t token, kind engine.ColumnKind) (engine.Value, error) {
	if t.keyword("NULL") {
		return zeroValue(kind), nil
	}
	switch kind {
	case engine.ColumnID:
		n, err := parseInt(t)
		if err != nil {
			return engine.Value{}, ErrBadIntegerLiteral
		}
		return engine.IDValue(n), nil
	case engine.ColumnNumber:
		n, err := parseInt(t)
		if err != nil {
			return engine.Value{}, ErrBadIntegerLiteral
		}
		return engine.NumberValue(n), nil
	case engine.ColumnString:
		if t.kind != tokString {
			return engine.Value{}, ErrSyntax
		}
		return engine.StringValue(t.text), nil
	case engine.ColumnBlob:
		// No dedicated blob literal syntax exists (spec.md §9): a
		// string literal supplies the blob's raw bytes.
		if t.kind != tokString {
			return engine.Value{}, ErrSyntax
		}
		return engine.BlobValue([]byte(t.text)), nil
	default:
		return engine.Value{}, ErrSyntax
	}
}

func parseInt(t token) (int64, error) {
	if t.kind != tokInt {
		return 0, ErrBadIntegerLiteral
	}
	return strconv.ParseInt(t.text, 10, 64)
}

// --- SELECT ---

func (p *parseState) parseSelect() (Command, error) {
	cols, err := p.parseProjectionNames()
	if err != nil {
		return Command{}, err
	}
	if !p.consumeKeyword("FROM") {
		return Command{}, ErrSyntax
	}
	name, ok := p.consumeName()
	if !ok {
		return Command{}, ErrSyntax
	}
	schema, ok := p.lookup(name)
	if !ok {
		return Command{}, ErrNoSuchTable
	}
	projection, err := resolveProjection(cols, schema)
	if err != nil {
		return Command{}, err
	}
	colPos, comparison := 0, engine.Comparison{Op: engine.All, Operand: engine.Null()}
	if p.consumeKeyword("WHERE") {
		colPos, comparison, err = p.parseComparison(schema)
		if err != nil {
			return Command{}, err
		}
	}
	if !p.atEnd() {
		return Command{}, ErrSyntax
	}
	return Command{
		Kind:       Select,
		TableName:  name,
		ColPos:     colPos,
		Comparison: comparison,
		Projection: projection,
	}, nil
}

// parseProjectionNames reads "*" or a comma-separated identifier list,
// returning nil for "*" (resolved against the schema afterwards).
func (p *parseState) parseProjectionNames() ([]string, error) {
	if p.consumePunct("*") {
		return nil, nil
	}
	var names []string
	for {
		name, ok := p.consumeName()
		if !ok {
			return nil, ErrSyntax
		}
		names = append(names, name)
		if p.consumePunct(",") {
			continue
		}
		break
	}
	return names, nil
}

func resolveProjection(cols []string, schema engine.Schema) ([]int, error) {
	if cols == nil {
		out := make([]int, len(schema))
		for i := range schema {
			out[i] = i
		}
		return out, nil
	}
	out := make([]int, len(cols))
	for i, name := range cols {
		pos, ok := schema.Position(name)
		if !ok {
			return nil, ErrNoSuchColumn
		}
		out[i] = pos
	}
	return out, nil
}

// --- DELETE ---

func (p *parseState) parseDelete() (Command, error) {
	if !p.consumeKeyword("FROM") {
		return Command{}, ErrSyntax
	}
	name, ok := p.consumeName()
	if !ok {
		return Command{}, ErrSyntax
	}
	schema, ok := p.lookup(name)
	if !ok {
		return Command{}, ErrNoSuchTable
	}
	if !p.consumeKeyword("WHERE") {
		return Command{}, ErrSyntax
	}
	colPos, comparison, err := p.parseComparison(schema)
	if err != nil {
		return Command{}, err
	}
	if !p.atEnd() {
		return Command{}, ErrSyntax
	}
	return Command{Kind: Delete, TableName: name, ColPos: colPos, Comparison: comparison}, nil
}

// --- shared WHERE-clause comparison parsing ---

// term classifies one comparison operand: either a column reference
// (plain or quoted identifier, excluding NULL) or a literal Value.
type term struct {
	isColumn bool
	column   string
	literal  engine.Value
}

func (p *parseState) parseTerm() (term, error) {
	t, ok := p.peek()
	if !ok {
		return term{}, ErrSyntax
	}
	switch {
	case t.kind == tokString:
		p.pos++
		return term{literal: engine.StringValue(t.text)}, nil
	case t.kind == tokInt:
		p.pos++
		n, err := strconv.ParseInt(t.text, 10, 64)
		if err != nil {
			return term{}, ErrBadIntegerLiteral
		}
		return term{literal: engine.NumberValue(n)}, nil
	case t.keyword("NULL"):
		p.pos++
		// NULL as a comparison operand denotes "no value", distinct
		// from the NullId insert placeholder (spec.md §3).
		return term{literal: engine.Null()}, nil
	case t.kind == tokQuotedIdent:
		p.pos++
		return term{isColumn: true, column: t.text}, nil
	case t.kind == tokIdent:
		p.pos++
		return term{isColumn: true, column: t.text}, nil
	}
	return term{}, ErrSyntax
}

func (p *parseState) parseOperator() (string, bool) {
	t, ok := p.peek()
	if !ok || t.kind != tokPunct {
		return "", false
	}
	switch t.text {
	case "=", "<", ">", "<=", ">=", "!=", "<>":
		p.pos++
		return t.text, true
	}
	return "", false
}

// parseComparison parses "<term> <op> <term>" and resolves it against
// schema, applying the column/literal normalization and operator
// mirroring from spec.md §4.F.
func (p *parseState) parseComparison(schema engine.Schema) (int, engine.Comparison, error) {
	lhs, err := p.parseTerm()
	if err != nil {
		return 0, engine.Comparison{}, err
	}
	op, ok := p.parseOperator()
	if !ok {
		return 0, engine.Comparison{}, ErrSyntax
	}
	rhs, err := p.parseTerm()
	if err != nil {
		return 0, engine.Comparison{}, err
	}

	var colName string
	var literal engine.Value
	var mirror bool
	switch {
	case lhs.isColumn && !rhs.isColumn:
		colName, literal = lhs.column, rhs.literal
	case rhs.isColumn && !lhs.isColumn:
		colName, literal, mirror = rhs.column, lhs.literal, true
	default:
		return 0, engine.Comparison{}, ErrUnsupportedComparison
	}

	pos, ok := schema.Position(colName)
	if !ok {
		return 0, engine.Comparison{}, ErrNoSuchColumn
	}
	if schema[pos].Kind == engine.ColumnID && literal.Kind() == engine.KindNumber {
		literal = engine.IDValue(literal.Int())
	}
	comparator, err := comparatorFor(op, mirror)
	if err != nil {
		return 0, engine.Comparison{}, err
	}
	return pos, engine.Comparison{Op: comparator, Operand: literal}, nil
}

func comparatorFor(op string, mirror bool) (engine.Comparator, error) {
	if mirror {
		switch op {
		case "<":
			op = ">"
		case ">":
			op = "<"
		case "<=":
			op = ">="
		case ">=":
			op = "<="
		}
	}
	switch op {
	case "=":
		return engine.Equal, nil
	case "!=", "<>":
		return engine.NotEqual, nil
	case ">":
		return engine.Greater, nil
	case ">=":
		return engine.GreaterOrEqual, nil
	case "<":
		return engine.Less, nil
	case "<=":
		return engine.LessOrEqual, nil
	}
	return 0, ErrSyntax
}
