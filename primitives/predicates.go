package primitives

import (
	"github.com/kjhall/minilisp/internal/diag"
	"github.com/kjhall/minilisp/internal/heap"
	"github.com/kjhall/minilisp/internal/token"
	"github.com/kjhall/minilisp/internal/value"
)

func predicatePrimitives() []entry {
	return []entry{
		{"eq?", eqPredicate},
		{"pair?", pairPredicate},
		{"null?", nullPredicate},
		{"not", notPredicate},
		{"number?", kindPredicate(value.KindNumber)},
		{"string?", kindPredicate(value.KindString)},
		{"symbol?", kindPredicate(value.KindSymbol)},
		{"boolean?", kindPredicate(value.KindBool)},
		{"procedure?", kindPredicate(value.KindProcedure)},
	}
}

func eqPredicate(h *heap.Heap, args []value.Value, pos *token.Position) (value.Value, error) {
	if len(args) != 2 {
		return value.Value{}, diag.ArityMismatch(pos, "eq?", "2", len(args))
	}
	return value.NewBool(value.Eq(args[0], args[1])), nil
}

func pairPredicate(h *heap.Heap, args []value.Value, pos *token.Position) (value.Value, error) {
	if len(args) != 1 {
		return value.Value{}, diag.ArityMismatch(pos, "pair?", "1", len(args))
	}
	return value.NewBool(args[0].IsPair()), nil
}

func nullPredicate(h *heap.Heap, args []value.Value, pos *token.Position) (value.Value, error) {
	if len(args) != 1 {
		return value.Value{}, diag.ArityMismatch(pos, "null?", "1", len(args))
	}
	return value.NewBool(args[0].IsNil()), nil
}

// notPredicate implements (not x): #t exactly when x is #f, since #f is
// the only false value in this language.
func notPredicate(h *heap.Heap, args []value.Value, pos *token.Position) (value.Value, error) {
	if len(args) != 1 {
		return value.Value{}, diag.ArityMismatch(pos, "not", "1", len(args))
	}
	return value.NewBool(!value.Truthy(args[0])), nil
}

func kindPredicate(kind value.Kind) heap.Primitive {
	return func(h *heap.Heap, args []value.Value, pos *token.Position) (value.Value, error) {
		if len(args) != 1 {
			return value.Value{}, diag.ArityMismatch(pos, kind.String()+"?", "1", len(args))
		}
		return value.NewBool(args[0].Kind() == kind), nil
	}
}
