package primitives

import (
	"github.com/kjhall/minilisp/internal/diag"
	"github.com/kjhall/minilisp/internal/eval"
	"github.com/kjhall/minilisp/internal/heap"
	"github.com/kjhall/minilisp/internal/token"
	"github.com/kjhall/minilisp/internal/value"
)

func listPrimitives(m *eval.Machine) []entry {
	return []entry{
		{"cons", cons},
		{"car", car},
		{"cdr", cdr},
		{"set-car!", setCar},
		{"set-cdr!", setCdr},
		{"list", list},
		{"apply", applyPrimitive(m)},
	}
}

func cons(h *heap.Heap, args []value.Value, pos *token.Position) (value.Value, error) {
	if len(args) != 2 {
		return value.Value{}, diag.ArityMismatch(pos, "cons", "2", len(args))
	}
	return h.AllocPair(args[0], args[1], pos)
}

func car(h *heap.Heap, args []value.Value, pos *token.Position) (value.Value, error) {
	if len(args) != 1 {
		return value.Value{}, diag.ArityMismatch(pos, "car", "1", len(args))
	}
	if !args[0].IsPair() {
		return value.Value{}, diag.TypeError(pos, "car", "pair", args[0].Kind())
	}
	return h.Car(args[0]), nil
}

func cdr(h *heap.Heap, args []value.Value, pos *token.Position) (value.Value, error) {
	if len(args) != 1 {
		return value.Value{}, diag.ArityMismatch(pos, "cdr", "1", len(args))
	}
	if !args[0].IsPair() {
		return value.Value{}, diag.TypeError(pos, "cdr", "pair", args[0].Kind())
	}
	return h.Cdr(args[0]), nil
}

func setCar(h *heap.Heap, args []value.Value, pos *token.Position) (value.Value, error) {
	if len(args) != 2 {
		return value.Value{}, diag.ArityMismatch(pos, "set-car!", "2", len(args))
	}
	if !args[0].IsPair() {
		return value.Value{}, diag.TypeError(pos, "set-car!", "pair", args[0].Kind())
	}
	h.SetCar(args[0], args[1])
	return value.Unspecified(), nil
}

// setCdr implements (set-cdr! pair v). This is the mutation that lets user
// code build a cycle — (define p (list 1)) (set-cdr! p p) — which only the
// heap's mark-sweep collector, not a refcounting scheme, can reclaim once p
// becomes otherwise unreachable.
func setCdr(h *heap.Heap, args []value.Value, pos *token.Position) (value.Value, error) {
	if len(args) != 2 {
		return value.Value{}, diag.ArityMismatch(pos, "set-cdr!", "2", len(args))
	}
	if !args[0].IsPair() {
		return value.Value{}, diag.TypeError(pos, "set-cdr!", "pair", args[0].Kind())
	}
	h.SetCdr(args[0], args[1])
	return value.Unspecified(), nil
}

func list(h *heap.Heap, args []value.Value, pos *token.Position) (value.Value, error) {
	result := value.Nil()
	for i := len(args) - 1; i >= 0; i-- {
		p, err := h.AllocPair(args[i], result, pos)
		if err != nil {
			return value.Value{}, err
		}
		result = p
	}
	return result, nil
}

// applyPrimitive implements (apply proc arg1 ... argn list): the final
// argument must be a list, and is appended to the preceding arguments to
// form proc's full argument list.
func applyPrimitive(m *eval.Machine) heap.Primitive {
	return func(h *heap.Heap, args []value.Value, pos *token.Position) (value.Value, error) {
		if len(args) < 2 {
			return value.Value{}, diag.ArityMismatch(pos, "apply", "at least 2", len(args))
		}
		proc := args[0]
		last := args[len(args)-1]
		if !last.IsPair() && !last.IsNil() {
			return value.Value{}, diag.TypeError(pos, "apply", "list", last.Kind())
		}
		full := append([]value.Value{}, args[1:len(args)-1]...)
		for cur := last; cur.IsPair(); cur = h.Cdr(cur) {
			full = append(full, h.Car(cur))
		}
		return m.Apply(proc, full)
	}
}
