// Package parser tokenizes and matches the fixed set of statement
// patterns described in spec.md §4.F and produces a typed Command
// value. It is reentrant and free of hidden mutable state beyond a
// compiled regexp cache (package-level, read-only after init).
package parser

import "errors"

// User-facing parse errors (spec.md §4.F, §7). Callers compare with
// errors.Is. The server renders every one except ErrSyntax on the wire
// as Other("<message>").
var (
	// ErrSyntax means no statement pattern matched the input.
	ErrSyntax = errors.New("SyntaxError")
	// ErrNoSuchTable means the statement names an unregistered table.
	ErrNoSuchTable = errors.New("No such table")
	// ErrNoSuchColumn means a named column was not found in the schema.
	ErrNoSuchColumn = errors.New("Column not found")
	// ErrTooManyValues means an INSERT supplied more values than columns.
	ErrTooManyValues = errors.New("Too many values")
	// ErrUnsupportedComparison means the WHERE clause isn't a plain
	// column-against-literal comparison.
	ErrUnsupportedComparison = errors.New("Only single column against literal comparisons supported")
	// ErrPrimaryKeyNotInteger means a PRIMARY KEY column was declared
	// with a non-integer type.
	ErrPrimaryKeyNotInteger = errors.New("Only integers supported for primary keys")
	// ErrBadIntegerLiteral means an integer literal failed to parse.
	ErrBadIntegerLiteral = errors.New("bad integer literal")
)
