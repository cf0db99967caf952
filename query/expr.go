package query

import (
	"fmt"

	"github.com/cyp0633/libcalseries/calendar"
)

// Field is a calendar component of a day a filter compares against.
type Field string

const (
	FieldDay   Field = "day"
	FieldMonth Field = "month"
	FieldYear  Field = "year"
)

func (f Field) of(d calendar.Date) int {
	switch f {
	case FieldDay:
		return d.Day()
	case FieldMonth:
		return int(d.Month())
	default:
		return d.Year()
	}
}

type node interface {
	match(d calendar.Date) bool
	String() string
}

// comparison is "field op value" once operands are put in field-first
// order; flipped remembers a literal written on the left.
type comparison struct {
	field   Field
	op      string
	value   int
	flipped bool
}

func (c *comparison) match(d calendar.Date) bool {
	a, b := c.field.of(d), c.value
	if c.flipped {
		a, b = b, a
	}
	switch c.op {
	case "==":
		return a == b
	case "!=":
		return a != b
	case ">":
		return a > b
	case ">=":
		return a >= b
	case "<":
		return a < b
	default:
		return a <= b
	}
}

func (c *comparison) String() string {
	if c.flipped {
		return fmt.Sprintf("%d %s %s", c.value, c.op, c.field)
	}
	return fmt.Sprintf("%s %s %d", c.field, c.op, c.value)
}

type negation struct {
	operand node
}

func (n *negation) match(d calendar.Date) bool { return !n.operand.match(d) }
func (n *negation) String() string              { return fmt.Sprintf("not (%s)", n.operand) }

type binary struct {
	op          string
	left, right node
}

func (b *binary) match(d calendar.Date) bool {
	l, r := b.left.match(d), b.right.match(d)
	switch b.op {
	case "&", "and":
		return l && r
	case "|", "or":
		return l || r
	default:
		return l != r
	}
}

func (b *binary) String() string {
	return fmt.Sprintf("(%s) %s (%s)", b.left, b.op, b.right)
}

// Expr is a compiled filter over days. It is immutable and safe for
// concurrent use.
type Expr struct {
	source string
	root   node
}

// Match reports whether d satisfies the expression.
func (e *Expr) Match(d calendar.Date) bool {
	return e.root.match(d)
}

// String returns the source text the expression was compiled from.
func (e *Expr) String() string {
	return e.source
}

// Canonical returns the fully parenthesized form of the expression with
// arithmetic folded.
func (e *Expr) Canonical() string {
	return e.root.String()
}
