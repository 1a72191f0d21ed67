package lifter

import (
	"fmt"

	"github.com/mna/neodec/decompile/ir"
)

// stackState is the symbolic evaluation stack simulated across one basic
// block (§4.3.3). It resets to empty at every block boundary except for
// the synthetic exception push on a catch entry (§4.3.6); stack contents
// are never assumed to survive a block transition.
type stackState struct {
	items []ir.Expression
	alt   []ir.Expression
	depth int
}

func (s *stackState) push(e ir.Expression) {
	s.items = append(s.items, e)
	if len(s.items) > s.depth {
		s.depth = len(s.items)
	}
}

func (s *stackState) pop() (ir.Expression, bool) {
	if len(s.items) == 0 {
		return nil, false
	}
	n := len(s.items) - 1
	e := s.items[n]
	s.items = s.items[:n]
	return e, true
}

func (s *stackState) peekAt(fromTop int) (ir.Expression, bool) {
	idx := len(s.items) - 1 - fromTop
	if idx < 0 || idx >= len(s.items) {
		return nil, false
	}
	return s.items[idx], true
}

func (s *stackState) removeAt(fromTop int) (ir.Expression, bool) {
	idx := len(s.items) - 1 - fromTop
	if idx < 0 || idx >= len(s.items) {
		return nil, false
	}
	e := s.items[idx]
	s.items = append(s.items[:idx], s.items[idx+1:]...)
	return e, true
}

// varKey interns locals, parameters and statics by (kind, slot), so every
// reference to the same slot resolves to the same *ir.Variable.
type varKey struct {
	kind ir.VarKind
	slot int
}

// ptrMarkerFunc marks an expression shape produced by PUSHA: a pointer literal
// carrying the byte offset its call target begins at. It lets CALLA's
// pointer-provenance resolution (§4.3.3) recognize "a value just pushed
// by PUSHA" without adding a dedicated Expression variant to decompile/ir.
const ptrMarkerFunc = "$ptr"

func makePointerExpr(targetOffset uint32) *ir.CallExpr {
	return &ir.CallExpr{Function: ptrMarkerFunc, Args: []ir.Expression{ir.IntLiteral(int64(targetOffset))}}
}

func pointerTarget(e ir.Expression) (uint32, bool) {
	c, ok := e.(*ir.CallExpr)
	if !ok || c.Function != ptrMarkerFunc || len(c.Args) != 1 {
		return 0, false
	}
	lit, ok := c.Args[0].(*ir.LiteralExpr)
	if !ok {
		return 0, false
	}
	return uint32(lit.Int), true
}

// funcState is the lifter's working state for one function: variable
// interning, id allocation, the slot-pointer provenance table used by
// CALLA, and the accumulated error list.
type funcState struct {
	fn   *ir.Function
	opts Options

	vars  map[varKey]*ir.Variable
	idSeq uint32

	// slotPtr records, for a Local/Static slot last assigned a PUSHA
	// pointer, that pointer's target offset (§4.3.3 second provenance
	// rule: "or by a LDLOC/LDSFLD of a slot that was last assigned such a
	// pointer").
	slotPtr map[varKey]uint32

	errs []*Error
}

func newFuncState(fn *ir.Function, opts Options) *funcState {
	return &funcState{
		fn:      fn,
		opts:    opts,
		vars:    make(map[varKey]*ir.Variable),
		slotPtr: make(map[varKey]uint32),
	}
}

func (fs *funcState) addErr(kind ErrorKind, offset uint32, detail string) {
	e := &Error{Kind: kind, Offset: offset, Detail: detail}
	fs.errs = append(fs.errs, e)
	fs.fn.Errors = append(fs.fn.Errors, e.Error())
}

func (fs *funcState) warn(offset uint32, format string, args ...interface{}) {
	fs.fn.Errors = append(fs.fn.Errors, fmt.Sprintf("warning: offset %d: %s", offset, fmt.Sprintf(format, args...)))
}

func (fs *funcState) nextID() uint32 {
	id := fs.idSeq
	fs.idSeq++
	return id
}

func (fs *funcState) variable(kind ir.VarKind, slot int) *ir.Variable {
	key := varKey{kind, slot}
	if v, ok := fs.vars[key]; ok {
		return v
	}
	v := ir.NewVariable(fs.nextID(), kind, slot)
	fs.vars[key] = v
	if kind == ir.Parameter {
		fs.fn.Params = append(fs.fn.Params, v)
	} else {
		fs.fn.Locals = append(fs.fn.Locals, v)
	}
	return v
}

func (fs *funcState) newTemp() *ir.Variable {
	id := fs.nextID()
	v := ir.NewVariable(id, ir.Temporary, int(id))
	return v
}

// pop pops one value, recording a StackUnderflow error and substituting a
// zero placeholder when the stack is empty so lifting of the rest of the
// block can continue.
func (fs *funcState) pop(st *stackState, offset uint32) ir.Expression {
	e, ok := st.pop()
	if !ok {
		fs.addErr(StackUnderflow, offset, "")
		return ir.IntLiteral(0)
	}
	return e
}

// popLenient is used for store-family opcodes participating in the
// INITSLOT prologue / helper-method entry synthesis described in
// §4.3.5: an empty stack there is expected (arguments never flowed
// through the symbolic stack to begin with), so it synthesizes an
// entry-parameter placeholder instead of reporting an error.
func (fs *funcState) popLenient(st *stackState, offset uint32, placeholderSlot int) ir.Expression {
	e, ok := st.pop()
	if ok {
		return e
	}
	v := fs.variable(ir.Parameter, placeholderSlot)
	return ir.Ref(v)
}

func (fs *funcState) popN(st *stackState, n int, offset uint32) []ir.Expression {
	out := make([]ir.Expression, n)
	// pop in reverse so out ends up in original (source) argument order.
	for i := n - 1; i >= 0; i-- {
		out[i] = fs.pop(st, offset)
	}
	return out
}
