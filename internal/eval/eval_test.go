package eval

import (
	"testing"

	"github.com/kjhall/minilisp/internal/diag"
	"github.com/kjhall/minilisp/internal/heap"
	"github.com/kjhall/minilisp/internal/reader"
	"github.com/kjhall/minilisp/internal/token"
	"github.com/kjhall/minilisp/internal/value"
	"github.com/sirupsen/logrus"
)

// newTestMachine builds a Machine with just enough arithmetic primitives
// installed to exercise the evaluator without depending on the primitives
// package (which itself depends on eval's Machine type for apply/map-style
// primitives, so a direct import here would cycle).
func newTestMachine() *Machine {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	m := New(heap.New(0), log)

	def := func(name string, fn heap.Primitive) {
		m.Global.Define(value.Intern(name), m.Heap.AllocPrimitive(name, fn))
	}
	def("+", func(h *heap.Heap, args []value.Value, pos *token.Position) (value.Value, error) {
		sum := 0.0
		for _, a := range args {
			sum += a.Number()
		}
		return value.NewNumber(sum), nil
	})
	def("-", func(h *heap.Heap, args []value.Value, pos *token.Position) (value.Value, error) {
		if len(args) == 1 {
			return value.NewNumber(-args[0].Number()), nil
		}
		r := args[0].Number()
		for _, a := range args[1:] {
			r -= a.Number()
		}
		return value.NewNumber(r), nil
	})
	def("*", func(h *heap.Heap, args []value.Value, pos *token.Position) (value.Value, error) {
		p := 1.0
		for _, a := range args {
			p *= a.Number()
		}
		return value.NewNumber(p), nil
	})
	def("=", func(h *heap.Heap, args []value.Value, pos *token.Position) (value.Value, error) {
		return value.NewBool(value.NumEq(args[0], args[1])), nil
	})
	def("<", func(h *heap.Heap, args []value.Value, pos *token.Position) (value.Value, error) {
		return value.NewBool(args[0].Number() < args[1].Number()), nil
	})
	def("cons", func(h *heap.Heap, args []value.Value, pos *token.Position) (value.Value, error) {
		return h.AllocPair(args[0], args[1], pos)
	})
	def("car", func(h *heap.Heap, args []value.Value, pos *token.Position) (value.Value, error) {
		if !args[0].IsPair() {
			return value.Value{}, diag.TypeError(pos, "car", "pair", args[0].Kind())
		}
		return h.Car(args[0]), nil
	})
	def("cdr", func(h *heap.Heap, args []value.Value, pos *token.Position) (value.Value, error) {
		if !args[0].IsPair() {
			return value.Value{}, diag.TypeError(pos, "cdr", "pair", args[0].Kind())
		}
		return h.Cdr(args[0]), nil
	})
	def("set-cdr!", func(h *heap.Heap, args []value.Value, pos *token.Position) (value.Value, error) {
		h.SetCdr(args[0], args[1])
		return value.Unspecified(), nil
	})
	def("gc", func(h *heap.Heap, args []value.Value, pos *token.Position) (value.Value, error) {
		return value.Value{}, nil // overridden per-test where needed
	})

	return m
}

func evalSrc(t *testing.T, m *Machine, src string) value.Value {
	t.Helper()
	datums, err := reader.ReadAll(src, m.Heap)
	if err != nil {
		t.Fatalf("ReadAll(%q): %v", src, err)
	}
	var result value.Value
	for _, d := range datums {
		v, err := m.Eval(d, m.Global)
		if err != nil {
			t.Fatalf("Eval(%q): %v", src, err)
		}
		result = v
	}
	return result
}

func TestSelfEvaluating(t *testing.T) {
	m := newTestMachine()
	if v := evalSrc(t, m, "42"); v.Number() != 42 {
		t.Fatalf("got %v, want 42", v)
	}
	if v := evalSrc(t, m, `"hi"`); v.Str() != "hi" {
		t.Fatalf("got %v, want hi", v)
	}
	if v := evalSrc(t, m, "#t"); v.Bool() != true {
		t.Fatalf("got %v, want #t", v)
	}
}

func TestQuote(t *testing.T) {
	m := newTestMachine()
	v := evalSrc(t, m, "(quote (1 2 3))")
	if !v.IsPair() || m.Heap.Car(v).Number() != 1 {
		t.Fatalf("quote did not return the literal list: %v", v)
	}
	v2 := evalSrc(t, m, "'(a b)")
	if !v2.IsPair() {
		t.Fatalf("'x sugar did not produce a pair")
	}
}

func TestArithmeticAndApplication(t *testing.T) {
	m := newTestMachine()
	if v := evalSrc(t, m, "(+ 1 2 3)"); v.Number() != 6 {
		t.Fatalf("(+ 1 2 3) = %v, want 6", v.Number())
	}
	if v := evalSrc(t, m, "(* (+ 1 2) (- 5 2))"); v.Number() != 9 {
		t.Fatalf("nested application = %v, want 9", v.Number())
	}
}

func TestIfBranches(t *testing.T) {
	m := newTestMachine()
	if v := evalSrc(t, m, "(if #t 1 2)"); v.Number() != 1 {
		t.Fatalf("if #t = %v, want 1", v.Number())
	}
	if v := evalSrc(t, m, "(if #f 1 2)"); v.Number() != 2 {
		t.Fatalf("if #f = %v, want 2", v.Number())
	}
	if v := evalSrc(t, m, "(if #f 1)"); !v.IsUnspecified() {
		t.Fatalf("if #f with no alternate = %v, want unspecified", v)
	}
}

func TestDefineAndLookup(t *testing.T) {
	m := newTestMachine()
	evalSrc(t, m, "(define x 10)")
	if v := evalSrc(t, m, "x"); v.Number() != 10 {
		t.Fatalf("x = %v, want 10", v.Number())
	}
}

func TestDefineProcedureShorthand(t *testing.T) {
	m := newTestMachine()
	evalSrc(t, m, "(define (square x) (* x x))")
	if v := evalSrc(t, m, "(square 7)"); v.Number() != 49 {
		t.Fatalf("(square 7) = %v, want 49", v.Number())
	}
}

func TestLambdaClosureCapture(t *testing.T) {
	m := newTestMachine()
	evalSrc(t, m, "(define (make-adder n) (lambda (x) (+ x n)))")
	evalSrc(t, m, "(define add5 (make-adder 5))")
	if v := evalSrc(t, m, "(add5 10)"); v.Number() != 15 {
		t.Fatalf("(add5 10) = %v, want 15 (closure must capture n=5)", v.Number())
	}
}

func TestSetBangMutatesEnclosingScope(t *testing.T) {
	m := newTestMachine()
	evalSrc(t, m, "(define counter 0)")
	evalSrc(t, m, "(define (bump) (set! counter (+ counter 1)))")
	evalSrc(t, m, "(bump)")
	evalSrc(t, m, "(bump)")
	if v := evalSrc(t, m, "counter"); v.Number() != 2 {
		t.Fatalf("counter = %v, want 2", v.Number())
	}
}

func TestRestParameter(t *testing.T) {
	m := newTestMachine()
	evalSrc(t, m, "(define (first-of . args) (car args))")
	if v := evalSrc(t, m, "(first-of 1 2 3)"); v.Number() != 1 {
		t.Fatalf("first-of = %v, want 1", v.Number())
	}
}

func TestCondWithElse(t *testing.T) {
	m := newTestMachine()
	src := `(cond (#f 1) (#f 2) (else 3))`
	if v := evalSrc(t, m, src); v.Number() != 3 {
		t.Fatalf("cond = %v, want 3", v.Number())
	}
}

func TestCondFirstMatchWins(t *testing.T) {
	m := newTestMachine()
	src := `(cond (#t 1) (#t 2))`
	if v := evalSrc(t, m, src); v.Number() != 1 {
		t.Fatalf("cond = %v, want 1 (first matching clause)", v.Number())
	}
}

func TestAndShortCircuits(t *testing.T) {
	m := newTestMachine()
	if v := evalSrc(t, m, "(and 1 #f 3)"); v.Bool() != false {
		t.Fatalf("(and 1 #f 3) = %v, want #f", v)
	}
	if v := evalSrc(t, m, "(and 1 2 3)"); v.Number() != 3 {
		t.Fatalf("(and 1 2 3) = %v, want 3 (value of last expr)", v.Number())
	}
}

func TestOrShortCircuits(t *testing.T) {
	m := newTestMachine()
	if v := evalSrc(t, m, "(or #f 2 3)"); v.Number() != 2 {
		t.Fatalf("(or #f 2 3) = %v, want 2", v.Number())
	}
	if v := evalSrc(t, m, "(or #f #f)"); v.Bool() != false {
		t.Fatalf("(or #f #f) = %v, want #f", v)
	}
}

func TestInternalDefinesMutualRecursion(t *testing.T) {
	m := newTestMachine()
	evalSrc(t, m, `
		(define (f n)
		  (define (even? k) (if (= k 0) #t (odd? (- k 1))))
		  (define (odd? k) (if (= k 0) #f (even? (- k 1))))
		  (even? n))
	`)
	if v := evalSrc(t, m, "(f 10)"); v.Bool() != true {
		t.Fatalf("(f 10) = %v, want #t", v)
	}
	if v := evalSrc(t, m, "(f 7)"); v.Bool() != false {
		t.Fatalf("(f 7) = %v, want #f", v)
	}
}

func TestDeepTailRecursionDoesNotOverflow(t *testing.T) {
	m := newTestMachine()
	evalSrc(t, m, "(define (loop n) (if (= n 0) 'done (loop (- n 1))))")
	v := evalSrc(t, m, "(loop 1000000)")
	if !v.IsSymbol() || v.Symbol().Name != "done" {
		t.Fatalf("deep tail loop = %v, want the symbol done", v)
	}
}

func TestUnboundVariableIsError(t *testing.T) {
	m := newTestMachine()
	_, err := m.Eval(mustReadOne(t, m, "nonesuch"), m.Global)
	if err == nil {
		t.Fatalf("expected an UnboundVariable error")
	}
	de, ok := err.(*diag.Error)
	if !ok || de.Kind != diag.KindUnboundVariable {
		t.Fatalf("got %v, want a diag.Error of kind UnboundVariable", err)
	}
}

func TestArityMismatchIsError(t *testing.T) {
	m := newTestMachine()
	evalSrc(t, m, "(define (one-arg x) x)")
	_, err := m.Eval(mustReadOne(t, m, "(one-arg 1 2)"), m.Global)
	if err == nil {
		t.Fatalf("expected an ArityMismatch error")
	}
}

func TestApplyPrimitive(t *testing.T) {
	m := newTestMachine()
	plus, _ := m.Global.Get(value.Intern("+"), nil)
	result, err := m.Apply(plus, []value.Value{value.NewNumber(1), value.NewNumber(2)})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if result.Number() != 3 {
		t.Fatalf("Apply(+, 1, 2) = %v, want 3", result.Number())
	}
}

func TestApplyCompound(t *testing.T) {
	m := newTestMachine()
	evalSrc(t, m, "(define (double x) (* x 2))")
	double, _ := m.Global.Get(value.Intern("double"), nil)
	result, err := m.Apply(double, []value.Value{value.NewNumber(21)})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if result.Number() != 42 {
		t.Fatalf("Apply(double, 21) = %v, want 42", result.Number())
	}
}

func TestCannotCollectHereInsideProcedureCall(t *testing.T) {
	m := newTestMachine()
	var sawDepthNonZero bool
	m.Global.Define(value.Intern("probe"), m.Heap.AllocPrimitive("probe", func(h *heap.Heap, args []value.Value, pos *token.Position) (value.Value, error) {
		sawDepthNonZero = !m.AtTopLevel()
		return value.Unspecified(), nil
	}))
	if !m.AtTopLevel() {
		t.Fatalf("machine should start at top level")
	}
	evalSrc(t, m, "(define (f) (probe))")
	evalSrc(t, m, "(f)")
	if !sawDepthNonZero {
		t.Fatalf("AtTopLevel() was true while inside a compound procedure call")
	}
	if !m.AtTopLevel() {
		t.Fatalf("machine did not return to top level after the call completed")
	}
}

func TestAtTopLevelThroughoutTailRecursion(t *testing.T) {
	m := newTestMachine()
	var sawEscape bool
	m.Global.Define(value.Intern("check"), m.Heap.AllocPrimitive("check", func(h *heap.Heap, args []value.Value, pos *token.Position) (value.Value, error) {
		if m.AtTopLevel() {
			sawEscape = true
		}
		return value.Unspecified(), nil
	}))
	evalSrc(t, m, "(define (loop n) (check) (if (= n 0) 'done (loop (- n 1))))")
	evalSrc(t, m, "(loop 100)")
	if sawEscape {
		t.Fatalf("AtTopLevel() was true during a tail-recursive loop body — depth bookkeeping leaked across tail hops")
	}
}

// TestPendingRootsSurviveSiblingGC verifies that an already-evaluated
// argument of an in-progress application survives a (gc) triggered by
// evaluating a later sibling argument: in (list (cons 1 2) (gc)), the pair
// from (cons 1 2) is not yet bound anywhere when (gc) runs, so it must be
// rooted via Machine.PendingRoots rather than only the global frame.
func TestPendingRootsSurviveSiblingGC(t *testing.T) {
	m := newTestMachine()
	m.Global.Define(value.Intern("list"), m.Heap.AllocPrimitive("list", func(h *heap.Heap, args []value.Value, pos *token.Position) (value.Value, error) {
		result := value.Nil()
		for i := len(args) - 1; i >= 0; i-- {
			p, err := h.AllocPair(args[i], result, pos)
			if err != nil {
				return value.Value{}, err
			}
			result = p
		}
		return result, nil
	}))
	m.Global.Define(value.Intern("gc"), m.Heap.AllocPrimitive("gc", func(h *heap.Heap, args []value.Value, pos *token.Position) (value.Value, error) {
		h.Collect(m.Global, m.PendingRoots()...)
		return value.Unspecified(), nil
	}))

	result := evalSrc(t, m, "(list (cons 1 2) (gc))")

	first := m.Heap.Car(result)
	if !first.IsPair() {
		t.Fatalf("first element of result was swept during the second argument's (gc): got kind %s", first.Kind())
	}
	if m.Heap.Car(first).Number() != 1 || m.Heap.Cdr(first).Number() != 2 {
		t.Fatalf("(cons 1 2) came back corrupted after sibling (gc): got (%v . %v)", m.Heap.Car(first), m.Heap.Cdr(first))
	}
}

func mustReadOne(t *testing.T, m *Machine, src string) value.Value {
	t.Helper()
	vs, err := reader.ReadAll(src, m.Heap)
	if err != nil {
		t.Fatalf("ReadAll(%q): %v", src, err)
	}
	return vs[0]
}
