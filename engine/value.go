// Package engine implements the concurrent, memory-pressure-aware
// sharded table storage engine: the hard core of the system. It holds
// tables in memory, spills cold shards to disk under a configurable
// heap budget, and fans out scans across shards in parallel.
package engine

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Kind tags the variant held by a Value.
type Kind uint8

const (
	// KindNull is the sentinel for "no comparison value".
	KindNull Kind = iota
	// KindNullID is a placeholder in inserts meaning "assign one".
	KindNullID
	// KindString holds UTF-8 text.
	KindString
	// KindNumber holds a plain i64.
	KindNumber
	// KindID holds an engine-assigned primary key.
	KindID
	// KindBlob holds raw bytes.
	KindBlob
)

// String returns a human-readable tag name, used in wire responses.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "Null"
	case KindNullID:
		return "NullId"
	case KindString:
		return "String"
	case KindNumber:
		return "Number"
	case KindID:
		return "Id"
	case KindBlob:
		return "Blob"
	default:
		return "Unknown"
	}
}

// Value is the tagged union stored in every Row cell.
// The zero Value is Null.
type Value struct {
	kind Kind
	str  string
	num  int64
	blob []byte
}

// Null returns the sentinel "no comparison value".
func Null() Value { return Value{kind: KindNull} }

// NullID returns the insert-time placeholder meaning "assign one".
func NullID() Value { return Value{kind: KindNullID} }

// StringValue wraps a string value.
func StringValue(s string) Value { return Value{kind: KindString, str: s} }

// NumberValue wraps a plain numeric value.
func NumberValue(n int64) Value { return Value{kind: KindNumber, num: n} }

// IDValue wraps an engine-assigned primary key.
func IDValue(n int64) Value { return Value{kind: KindID, num: n} }

// BlobValue wraps raw bytes. The slice is retained, not copied.
func BlobValue(b []byte) Value { return Value{kind: KindBlob, blob: b} }

// Kind reports the variant tag.
func (v Value) Kind() Kind { return v.kind }

// Int returns the numeric payload for KindNumber/KindID values.
func (v Value) Int() int64 { return v.num }

// Str returns the text payload for KindString values.
func (v Value) Str() string { return v.str }

// Bytes returns the byte payload for KindBlob values.
func (v Value) Bytes() []byte { return v.blob }

// Equal reports whether two values have the same tag and payload.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindString:
		return v.str == o.str
	case KindNumber, KindID:
		return v.num == o.num
	case KindBlob:
		return bytes.Equal(v.blob, o.blob)
	default:
		return true
	}
}

// Compare orders two values of the same tag. The ordering across
// different tags is implementation-defined but total (never panics):
// values are first ordered by Kind, then by payload within a Kind.
// This satisfies spec.md §4.C's requirement that predicates be total
// on pairs of well-typed values for the same column, while staying
// safe on the mixed-tag inputs a malformed command could produce.
func Compare(a, b Value) int {
	if a.kind != b.kind {
		if a.kind < b.kind {
			return -1
		}
		return 1
	}
	switch a.kind {
	case KindString:
		switch {
		case a.str < b.str:
			return -1
		case a.str > b.str:
			return 1
		default:
			return 0
		}
	case KindNumber, KindID:
		switch {
		case a.num < b.num:
			return -1
		case a.num > b.num:
			return 1
		default:
			return 0
		}
	case KindBlob:
		return bytes.Compare(a.blob, b.blob)
	default:
		return 0
	}
}

// GoString renders a Value the way a debug dump in the wire response
// does: Kind(payload) for tagged variants, bare tag name otherwise.
func (v Value) GoString() string {
	switch v.kind {
	case KindString:
		return fmt.Sprintf("String(%q)", v.str)
	case KindNumber:
		return fmt.Sprintf("Number(%d)", v.num)
	case KindID:
		return fmt.Sprintf("Id(%d)", v.num)
	case KindBlob:
		return fmt.Sprintf("Blob(%v)", v.blob)
	default:
		return v.kind.String()
	}
}

// wireValue is the JSON-on-disk shape of a Value: an object holding the
// kind tag under "k" and the payload under "s", "n" or "b" (zero-valued
// payload fields are omitted). This is the spill file format from spec.md
// §6 — implementation-internal, not a stable interface.
type wireValue struct {
	Kind Kind   `json:"k"`
	Str  string `json:"s,omitempty"`
	Num  int64  `json:"n,omitempty"`
	Blob []byte `json:"b,omitempty"`
}

// MarshalJSON implements json.Marshaler for the spill file format.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(wireValue{Kind: v.kind, Str: v.str, Num: v.num, Blob: v.blob})
}

// UnmarshalJSON implements json.Unmarshaler for the spill file format.
func (v *Value) UnmarshalJSON(data []byte) error {
	var w wireValue
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	v.kind, v.str, v.num, v.blob = w.Kind, w.Str, w.Num, w.Blob
	return nil
}

// Row is an ordered sequence of Values; its length equals the table's
// column count and positions align with the table's Schema.
type Row []Value

// Clone returns a deep-enough copy of the row (Blob payloads are
// copied so callers can't mutate stored data through a returned slice).
func (r Row) Clone() Row {
	out := make(Row, len(r))
	for i, v := range r {
		if v.kind == KindBlob && v.blob != nil {
			b := make([]byte, len(v.blob))
			copy(b, v.blob)
			v.blob = b
		}
		out[i] = v
	}
	return out
}

// ColumnKind enumerates the declared types a Column may have.
type ColumnKind uint8

const (
	// ColumnID marks the table's single engine-assigned primary key.
	ColumnID ColumnKind = iota
	ColumnNumber
	ColumnString
	ColumnBlob
)

// Column is one schema entry: a name and declared kind.
type Column struct {
	Name string
	Kind ColumnKind
}

// Schema is an ordered sequence of Columns. Column position is the
// identity used by every engine operation; names are resolved to
// positions only by the parser.
type Schema []Column

// IDColumn returns the position of the schema's Id column and true,
// or (0, false) if none is declared.
func (s Schema) IDColumn() (int, bool) {
	for i, c := range s {
		if c.Kind == ColumnID {
			return i, true
		}
	}
	return 0, false
}

// Position returns the column position for name, or (0, false).
func (s Schema) Position(name string) (int, bool) {
	for i, c := range s {
		if c.Name == name {
			return i, true
		}
	}
	return 0, false
}

// Names returns the schema's column names in order.
func (s Schema) Names() []string {
	names := make([]string, len(s))
	for i, c := range s {
		names[i] = c.Name
	}
	return names
}
