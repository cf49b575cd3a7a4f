package primitives

import (
	"github.com/kjhall/minilisp/internal/diag"
	"github.com/kjhall/minilisp/internal/heap"
	"github.com/kjhall/minilisp/internal/token"
	"github.com/kjhall/minilisp/internal/value"
)

func arithmeticPrimitives() []entry {
	return []entry{
		{"+", plus},
		{"-", minus},
		{"*", times},
		{"/", divide},
		{"remainder", remainder},
		{"=", numEq},
		{"<", lessThan},
		{">", greaterThan},
	}
}

func requireNumbers(name string, args []value.Value, pos *token.Position) error {
	for _, a := range args {
		if !a.IsNumber() {
			return diag.TypeError(pos, name, "number", a.Kind())
		}
	}
	return nil
}

// plus implements (+ n ...), returning 0 for no arguments.
func plus(h *heap.Heap, args []value.Value, pos *token.Position) (value.Value, error) {
	if err := requireNumbers("+", args, pos); err != nil {
		return value.Value{}, err
	}
	sum := 0.0
	for _, a := range args {
		sum += a.Number()
	}
	return value.NewNumber(sum), nil
}

// minus implements (- n) as negation and (- n1 n2 ...) as left-to-right
// subtraction.
func minus(h *heap.Heap, args []value.Value, pos *token.Position) (value.Value, error) {
	if len(args) == 0 {
		return value.Value{}, diag.ArityMismatch(pos, "-", "at least 1", 0)
	}
	if err := requireNumbers("-", args, pos); err != nil {
		return value.Value{}, err
	}
	if len(args) == 1 {
		return value.NewNumber(-args[0].Number()), nil
	}
	r := args[0].Number()
	for _, a := range args[1:] {
		r -= a.Number()
	}
	return value.NewNumber(r), nil
}

// times implements (* n ...), returning 1 for no arguments.
func times(h *heap.Heap, args []value.Value, pos *token.Position) (value.Value, error) {
	if err := requireNumbers("*", args, pos); err != nil {
		return value.Value{}, err
	}
	p := 1.0
	for _, a := range args {
		p *= a.Number()
	}
	return value.NewNumber(p), nil
}

// divide implements (/ n1 n2 ...), raising division-by-zero as a
// diagnostic rather than producing Inf/NaN silently.
func divide(h *heap.Heap, args []value.Value, pos *token.Position) (value.Value, error) {
	if len(args) == 0 {
		return value.Value{}, diag.ArityMismatch(pos, "/", "at least 1", 0)
	}
	if err := requireNumbers("/", args, pos); err != nil {
		return value.Value{}, err
	}
	if len(args) == 1 {
		if args[0].Number() == 0 {
			return value.Value{}, diag.New(diag.KindTypeError, pos, "/", diag.ErrMsgDivisionByZero)
		}
		return value.NewNumber(1 / args[0].Number()), nil
	}
	r := args[0].Number()
	for _, a := range args[1:] {
		if a.Number() == 0 {
			return value.Value{}, diag.New(diag.KindTypeError, pos, "/", diag.ErrMsgDivisionByZero)
		}
		r /= a.Number()
	}
	return value.NewNumber(r), nil
}

// remainder implements (remainder n1 n2) as truncated (Go %-style)
// remainder, matching R5RS's remainder (as opposed to modulo).
func remainder(h *heap.Heap, args []value.Value, pos *token.Position) (value.Value, error) {
	if len(args) != 2 {
		return value.Value{}, diag.ArityMismatch(pos, "remainder", "2", len(args))
	}
	if err := requireNumbers("remainder", args, pos); err != nil {
		return value.Value{}, err
	}
	if args[1].Number() == 0 {
		return value.Value{}, diag.New(diag.KindTypeError, pos, "remainder", diag.ErrMsgDivisionByZero)
	}
	a, b := int64(args[0].Number()), int64(args[1].Number())
	return value.NewNumber(float64(a % b)), nil
}

func numEq(h *heap.Heap, args []value.Value, pos *token.Position) (value.Value, error) {
	if len(args) != 2 {
		return value.Value{}, diag.ArityMismatch(pos, "=", "2", len(args))
	}
	if err := requireNumbers("=", args, pos); err != nil {
		return value.Value{}, err
	}
	return value.NewBool(value.NumEq(args[0], args[1])), nil
}

func lessThan(h *heap.Heap, args []value.Value, pos *token.Position) (value.Value, error) {
	if len(args) != 2 {
		return value.Value{}, diag.ArityMismatch(pos, "<", "2", len(args))
	}
	if err := requireNumbers("<", args, pos); err != nil {
		return value.Value{}, err
	}
	return value.NewBool(args[0].Number() < args[1].Number()), nil
}

func greaterThan(h *heap.Heap, args []value.Value, pos *token.Position) (value.Value, error) {
	if len(args) != 2 {
		return value.Value{}, diag.ArityMismatch(pos, ">", "2", len(args))
	}
	if err := requireNumbers(">", args, pos); err != nil {
		return value.Value{}, err
	}
	return value.NewBool(args[0].Number() > args[1].Number()), nil
}
