package primitives

import (
	"github.com/kjhall/minilisp/internal/diag"
	"github.com/kjhall/minilisp/internal/eval"
	"github.com/kjhall/minilisp/internal/heap"
	"github.com/kjhall/minilisp/internal/printer"
	"github.com/kjhall/minilisp/internal/token"
	"github.com/kjhall/minilisp/internal/value"
)

func runtimePrimitives(m *eval.Machine) []entry {
	return []entry{
		{"gc", gcPrimitive(m)},
		{"stats", statsPrimitive(m)},
		{"assert", assertPrimitive(m)},
	}
}

// gcPrimitive implements (gc): runs a full collection rooted at the
// machine's global frame, plus whatever operator/operand Values are still
// in flight in an enclosing application (e.g. the already-evaluated first
// argument of (list (cons 1 2) (gc))) — see Machine.PendingRoots. It is
// only legal at top level — calling it from inside a procedure body (even a
// procedure called from a procedure called from top level) raises
// CannotCollectHere, since a collection running mid-call could free a Value
// an in-flight Go call frame still holds outside of any root the collector
// walks.
func gcPrimitive(m *eval.Machine) heap.Primitive {
	return func(h *heap.Heap, args []value.Value, pos *token.Position) (value.Value, error) {
		if !m.AtTopLevel() {
			return value.Value{}, diag.CannotCollectHere(pos)
		}
		h.Collect(m.Global, m.PendingRoots()...)
		return value.Unspecified(), nil
	}
}

// statsPrimitive implements (stats): returns a list of the heap's live
// pair and procedure counts and its lifetime allocation/collection
// totals, as (pair-live proc-live pair-allocs proc-allocs collections).
func statsPrimitive(m *eval.Machine) heap.Primitive {
	return func(h *heap.Heap, args []value.Value, pos *token.Position) (value.Value, error) {
		vals := []value.Value{
			value.NewNumber(float64(h.Stats.PairLive.Load())),
			value.NewNumber(float64(h.Stats.ProcLive.Load())),
			value.NewNumber(float64(h.Stats.PairAllocs.Load())),
			value.NewNumber(float64(h.Stats.ProcAllocs.Load())),
			value.NewNumber(float64(h.Stats.Collections.Load())),
		}
		return list(h, vals, pos)
	}
}

// assertPrimitive implements (assert v [message]): raises AssertionFailed
// when v is falsy.
func assertPrimitive(m *eval.Machine) heap.Primitive {
	return func(h *heap.Heap, args []value.Value, pos *token.Position) (value.Value, error) {
		if len(args) == 0 || len(args) > 2 {
			return value.Value{}, diag.ArityMismatch(pos, "assert", "1 or 2", len(args))
		}
		if value.Truthy(args[0]) {
			return value.Unspecified(), nil
		}
		msg := "assertion failed"
		if len(args) == 2 {
			msg = printer.Display(h, args[1])
		}
		return value.Value{}, diag.AssertionFailed(pos, "assert", msg)
	}
}
