package engine

// Comparator enumerates the six comparisons plus the All tautology
// from spec.md §4.C.
type Comparator uint8

const (
	// All matches every row regardless of operand; the conventional
	// operand for it is Null.
	All Comparator = iota
	Greater
	GreaterOrEqual
	Less
	LessOrEqual
	Equal
	NotEqual
)

// Comparison pairs a Comparator with its operand Value.
type Comparison struct {
	Op      Comparator
	Operand Value
}

// Match evaluates the comparison against a row's value at the
// predicate column. Comparison is total on pairs of well-typed values
// for the same column per Compare's ordering; it never panics.
func (c Comparison) Match(v Value) bool {
	if c.Op == All {
		return true
	}
	cmp := Compare(v, c.Operand)
	switch c.Op {
	case Greater:
		return cmp > 0
	case GreaterOrEqual:
		return cmp >= 0
	case Less:
		return cmp < 0
	case LessOrEqual:
		return cmp <= 0
	case Equal:
		return cmp == 0
	case NotEqual:
		return cmp != 0
	default:
		return false
	}
}

// IsEquality reports whether the comparison is a plain equality test,
// the only shape eligible for the primary-key shortcut in
// Database.Select/Delete (spec.md §4.C).
func (c Comparison) IsEquality() bool { return c.Op == Equal }
