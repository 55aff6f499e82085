package server

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/shardtable/shardtable/engine"
	"github.com/shardtable/shardtable/parser"
)

// formatResponse renders a Response in the tagged textual form from
// spec.md §6: Nothing | Id(n) | Data([...]) | Names([...]).
// Byte-for-byte compatibility with any prior client is a non-goal;
// the tags and field order are what's preserved.
func formatResponse(r engine.Response) string {
	switch r.Kind {
	case engine.RespNothing:
		return "Nothing"
	case engine.RespID:
		return fmt.Sprintf("Id(%d)", r.ID)
	case engine.RespData:
		rows := make([]string, len(r.Rows))
		for i, row := range r.Rows {
			rows[i] = formatRow(row)
		}
		return fmt.Sprintf("Data([%s])", strings.Join(rows, ", "))
	case engine.RespNames:
		names := make([]string, len(r.Names))
		for i, n := range r.Names {
			names[i] = strconv.Quote(n)
		}
		return fmt.Sprintf("Names([%s])", strings.Join(names, ", "))
	default:
		return "Nothing"
	}
}

func formatRow(row engine.Row) string {
	values := make([]string, len(row))
	for i, v := range row {
		values[i] = v.GoString()
	}
	return fmt.Sprintf("[%s]", strings.Join(values, ", "))
}

// formatError renders a user-facing error in the same tagged style as
// the parser's own grammar comments (spec.md §4.F, §7): named
// sentinels get their bare tag, everything else not recognized here
// is an internal error and is never turned into wire text by the
// caller (the connection is closed instead).
func formatError(err error) (string, bool) {
	switch {
	case errors.Is(err, parser.ErrSyntax):
		return "SyntaxError", true
	case errors.Is(err, parser.ErrNoSuchTable):
		return `Other("No such table")`, true
	case errors.Is(err, parser.ErrNoSuchColumn):
		return `Other("Column not found")`, true
	case errors.Is(err, parser.ErrTooManyValues):
		return `Other("Too many values")`, true
	case errors.Is(err, parser.ErrUnsupportedComparison):
		return `Other("Only single column against literal comparisons supported")`, true
	case errors.Is(err, parser.ErrPrimaryKeyNotInteger):
		return `Other("Only integers supported for primary keys")`, true
	case errors.Is(err, parser.ErrBadIntegerLiteral):
		return `Other("bad integer literal")`, true
	case errors.Is(err, engine.ErrTableExists):
		return "TableExists", true
	case errors.Is(err, engine.ErrTableDoesNotExist):
		return "TableDoesNotExist", true
	default:
		return "", false
	}
}
