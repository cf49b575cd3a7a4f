package eval

import (
	"strconv"

	"github.com/kjhall/minilisp/internal/diag"
	"github.com/kjhall/minilisp/internal/environment"
	"github.com/kjhall/minilisp/internal/heap"
	"github.com/kjhall/minilisp/internal/value"
)

// bindCall creates a fresh frame enclosed by proc's captured environment
// and binds its formal parameters to args, raising ArityMismatch if the
// argument count doesn't match.
func (m *Machine) bindCall(proc value.Value, args []value.Value) (*environment.Frame, error) {
	params, rest, _, closureEnv := m.Heap.CompoundParts(proc)

	if rest == nil && len(args) != len(params) {
		return nil, diag.ArityMismatch(nil, m.Heap.ProcedureName(proc), strconv.Itoa(len(params)), len(args))
	}
	if rest != nil && len(args) < len(params) {
		return nil, diag.ArityMismatch(nil, m.Heap.ProcedureName(proc), "at least "+strconv.Itoa(len(params)), len(args))
	}

	frame := environment.NewChild(closureEnv)
	for i, p := range params {
		frame.Define(p, args[i])
	}
	if rest != nil {
		tail, err := m.listToPairs(args[len(params):])
		if err != nil {
			return nil, err
		}
		frame.Define(rest, tail)
	}
	return frame, nil
}

// listToPairs builds a proper list Value out of vs, allocating pairs on
// the heap.
func (m *Machine) listToPairs(vs []value.Value) (value.Value, error) {
	result := value.Nil()
	for i := len(vs) - 1; i >= 0; i-- {
		p, err := m.Heap.AllocPair(vs[i], result, nil)
		if err != nil {
			return value.Value{}, err
		}
		result = p
	}
	return result, nil
}

// prepareBody implements the internal-define rule: any (define ...) forms
// at the start of a procedure body are pre-bound to Unspecified in frame
// (so mutually recursive definitions can close over each other), then
// evaluated in order to replace the placeholder with the real value.
// The forms after the leading defines are then evaluated in order, except
// the last form of the body, which is returned unevaluated for the caller's
// trampoline loop to continue in tail position.
func (m *Machine) prepareBody(body []value.Value, frame *environment.Frame) (value.Value, error) {
	if len(body) == 0 {
		return value.Value{}, diag.SyntaxError(nil, "lambda", diag.ErrMsgEmptyBody)
	}

	i := 0
	var names []*value.Symbol
	for i < len(body)-1 {
		if !isDefineForm(m.Heap, body[i]) {
			break
		}
		rest := m.Heap.Cdr(body[i])
		target := m.Heap.Car(rest)
		var name *value.Symbol
		if target.IsSymbol() {
			name = target.Symbol()
		} else if target.IsPair() {
			name = m.Heap.Car(target).Symbol()
		} else {
			break
		}
		frame.Define(name, value.Unspecified())
		names = append(names, name)
		i++
	}

	for j := 0; j < i; j++ {
		if _, err := m.evalDefine(body[j], frame); err != nil {
			return value.Value{}, err
		}
	}

	remaining := body[i:]
	next, done, result, err := m.evalSequenceTail(remaining, frame)
	if err != nil {
		return value.Value{}, err
	}
	if done {
		// Empty remaining body after leading defines: there is nothing left
		// to put in tail position, so surface the unspecified result by
		// wrapping it back as a self-evaluating quote so the caller's loop
		// still has something to continue on.
		return quoteLiteral(m.Heap, result)
	}
	return next, nil
}

func isDefineForm(h *heap.Heap, v value.Value) bool {
	if !v.IsPair() {
		return false
	}
	head := h.Car(v)
	return head.IsSymbol() && head.Symbol() == symDefine
}

// quoteLiteral wraps v as (quote v) so it can be handed back into the
// trampoline loop as a self-evaluating tail expression.
func quoteLiteral(h *heap.Heap, v value.Value) (value.Value, error) {
	tail, err := h.AllocPair(v, value.Nil(), nil)
	if err != nil {
		return value.Value{}, err
	}
	return h.AllocPair(value.NewSymbol(symQuote), tail, nil)
}

// Apply invokes proc with already-evaluated args. Used by the apply
// primitive, which is not reached through Eval's trampoline loop, so a
// compound call here recurses into Eval rather than looping — apply is not
// required to preserve tail calls into proc.
func (m *Machine) Apply(proc value.Value, args []value.Value) (value.Value, error) {
	if !proc.IsProcedure() {
		return value.Value{}, diag.Newf(diag.KindTypeError, nil, "", diag.ErrMsgNotApplicable, displayValue(m.Heap, proc))
	}
	if m.Heap.ProcedureKind(proc) == heap.ProcPrimitive {
		return m.Heap.CallPrimitive(proc, args, nil)
	}

	frame, err := m.bindCall(proc, args)
	if err != nil {
		return value.Value{}, err
	}
	m.callDepth++
	defer func() { m.callDepth-- }()

	_, _, body, _ := m.Heap.CompoundParts(proc)
	tail, err := m.prepareBody(body, frame)
	if err != nil {
		return value.Value{}, err
	}
	return m.Eval(tail, frame)
}

