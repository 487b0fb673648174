package query

import (
	"fmt"
	"math"

	"github.com/roach88/wavescan/internal/logic"
	"github.com/roach88/wavescan/internal/trace"
)

const (
	// Forever is the forward hint of a result that never changes again.
	Forever int64 = math.MaxInt64

	// Never is the backward hint of a result that has never changed.
	Never int64 = math.MinInt64
)

// Hint bounds where an evaluation result could next differ.
//
// Next is the earliest time after the query time at which the result could
// differ (Forever if it cannot). Prev is the latest time before the query
// time at which it could differ (Never if it cannot).
type Hint struct {
	Next int64
	Prev int64
}

// steady is the hint of a result that holds for all time.
var steady = Hint{Next: Forever, Prev: Never}

// nearest returns the hint closest to the query time in each direction.
func nearest(a, b Hint) Hint {
	return Hint{Next: min(a.Next, b.Next), Prev: max(a.Prev, b.Prev)}
}

// farthest returns the hint farthest from the query time in each direction.
func farthest(a, b Hint) Hint {
	return Hint{Next: max(a.Next, b.Next), Prev: min(a.Prev, b.Prev)}
}

// Node is an expression tree node.
//
// This is a sealed interface: the node kinds are Constant, NetRef,
// Comparison and Logical, and no others can be added outside this package.
type Node interface {
	fmt.Stringer
	exprNode()
}

// ValueNode is a node that evaluates to a four-valued vector.
type ValueNode interface {
	Node
	Eval(ts int64) (logic.Value, Hint)
	Width() int
}

// BoolNode is a node that evaluates to a truth value.
type BoolNode interface {
	Node
	Eval(ts int64) (bool, Hint)
}

// Constant is a literal value.
type Constant struct {
	Value logic.Value
	Radix int // radix the literal was written in, used for rendering
}

func (*Constant) exprNode() {}

// Eval returns the constant, which never changes.
func (c *Constant) Eval(int64) (logic.Value, Hint) {
	return c.Value, steady
}

// Width returns the literal's bit width.
func (c *Constant) Width() int {
	return c.Value.Width()
}

func (c *Constant) String() string {
	switch c.Radix {
	case 2:
		return "'b" + c.Value.Format(2)
	case 8:
		return "'o" + c.Value.Format(8)
	case 16:
		return "'h" + c.Value.Format(16)
	default:
		return c.Value.Format(10)
	}
}

// NetRef reads a net's value, optionally restricted to bits [Low, High].
type NetRef struct {
	Net       trace.Net
	Sliced    bool
	High      int
	Low       int
	SingleBit bool // written as net[i] rather than net[h:l]
}

func (*NetRef) exprNode() {}

// Eval returns the net's value at ts. The hint spans the transition in
// effect at ts.
func (n *NetRef) Eval(ts int64) (logic.Value, Hint) {
	s := n.Net.Series
	sp := s.SpanAt(ts)

	var v logic.Value
	if sp.Index < 0 {
		v = logic.Filled(s.Width(), logic.X)
	} else {
		v = s.At(sp.Index).Value
	}
	if n.Sliced {
		// Indices were range-checked at parse time.
		v, _ = v.Slice(n.Low, n.High)
	}

	h := steady
	if sp.HasEnd {
		h.Next = sp.End
	}
	if sp.HasStart {
		h.Prev = sp.Start - 1
	}
	return v, h
}

// Width returns the width of the referenced bits.
func (n *NetRef) Width() int {
	if n.Sliced {
		return n.High - n.Low + 1
	}
	return n.Net.Width
}

func (n *NetRef) String() string {
	switch {
	case !n.Sliced:
		return n.Net.Name
	case n.SingleBit:
		return fmt.Sprintf("%s[%d]", n.Net.Name, n.Low)
	default:
		return fmt.Sprintf("%s[%d:%d]", n.Net.Name, n.High, n.Low)
	}
}

// CompareOp is a relational operator.
type CompareOp int

const (
	OpEq CompareOp = iota
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe
)

func (op CompareOp) String() string {
	switch op {
	case OpEq:
		return "="
	case OpNe:
		return "!="
	case OpLt:
		return "<"
	case OpLe:
		return "<="
	case OpGt:
		return ">"
	case OpGe:
		return ">="
	default:
		return fmt.Sprintf("CompareOp(%d)", int(op))
	}
}

// holds applies the operator to a three-way comparison result.
func (op CompareOp) holds(c int) bool {
	switch op {
	case OpEq:
		return c == 0
	case OpNe:
		return c != 0
	case OpLt:
		return c < 0
	case OpLe:
		return c <= 0
	case OpGt:
		return c > 0
	case OpGe:
		return c >= 0
	default:
		panic(fmt.Sprintf("query: unknown comparison %d", int(op)))
	}
}

// Comparison compares two values. X and Z bits act as wildcards.
type Comparison struct {
	Op    CompareOp
	Left  ValueNode
	Right ValueNode
}

func (*Comparison) exprNode() {}

// Eval compares the operands at ts. The result can only change when either
// operand changes, so the hint is the nearer of the two in each direction.
func (c *Comparison) Eval(ts int64) (bool, Hint) {
	lv, lh := c.Left.Eval(ts)
	rv, rh := c.Right.Eval(ts)
	return c.Op.holds(lv.Compare(rv)), nearest(lh, rh)
}

func (c *Comparison) String() string {
	return fmt.Sprintf("(%s %s %s)", c.Op, c.Left, c.Right)
}

// LogicalOp is a boolean connective.
type LogicalOp int

const (
	OpAnd LogicalOp = iota
	OpOr
)

func (op LogicalOp) String() string {
	switch op {
	case OpAnd:
		return "and"
	case OpOr:
		return "or"
	default:
		return fmt.Sprintf("LogicalOp(%d)", int(op))
	}
}

// Logical combines two boolean nodes.
type Logical struct {
	Op    LogicalOp
	Left  BoolNode
	Right BoolNode
}

func (*Logical) exprNode() {}

// Eval evaluates both children at ts and combines their hints according to
// which side must change for the result to change.
func (l *Logical) Eval(ts int64) (bool, Hint) {
	lv, lh := l.Left.Eval(ts)
	rv, rh := l.Right.Eval(ts)
	return combine(l.Op, lv, rv, lh, rh)
}

func combine(op LogicalOp, lv, rv bool, lh, rh Hint) (bool, Hint) {
	var result bool
	if op == OpAnd {
		result = lv && rv
	} else {
		result = lv || rv
	}

	if lv != rv {
		// AND waits on its false side, OR on its true side.
		if lv == (op == OpOr) {
			return result, lh
		}
		return result, rh
	}
	// AND of two trues ends when either flips; OR of two falses starts
	// when either flips. The other two cases need both sides to flip.
	if lv == (op == OpAnd) {
		return result, nearest(lh, rh)
	}
	return result, farthest(lh, rh)
}

func (l *Logical) String() string {
	return fmt.Sprintf("(%s %s %s)", l.Op, l.Left, l.Right)
}
