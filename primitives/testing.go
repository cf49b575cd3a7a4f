package primitives

import (
	"fmt"

	"github.com/kjhall/minilisp/internal/diag"
	"github.com/kjhall/minilisp/internal/eval"
	"github.com/kjhall/minilisp/internal/heap"
	"github.com/kjhall/minilisp/internal/printer"
	"github.com/kjhall/minilisp/internal/token"
	"github.com/kjhall/minilisp/internal/value"
)

func testingPrimitives(m *eval.Machine) []entry {
	return []entry{
		{"test-eq", testEq(m)},
		{"test-repr", testRepr(m)},
	}
}

// testEq implements (test-eq actual expected): a reporter, not an
// assertion. It compares actual and expected with eq? and writes a
// pass/fail line to the machine's output, the way assert (the only
// primitive that raises AssertionFailed) does not — a failing test-eq
// does not abort evaluation of the rest of the program.
func testEq(m *eval.Machine) heap.Primitive {
	return func(h *heap.Heap, args []value.Value, pos *token.Position) (value.Value, error) {
		if len(args) != 2 {
			return value.Value{}, diag.ArityMismatch(pos, "test-eq", "2", len(args))
		}
		if value.Eq(args[0], args[1]) {
			fmt.Fprintf(m.Output, "pass: %s\n", printer.Write(h, args[0]))
			return value.NewBool(true), nil
		}
		fmt.Fprintf(m.Output, "fail: expected %s, got %s\n", printer.Write(h, args[1]), printer.Write(h, args[0]))
		return value.NewBool(false), nil
	}
}

// testRepr implements (test-repr actual expected-string): a reporter
// comparing actual's write-representation against a literal string,
// useful for asserting the printed form of compound data without a deep
// equality primitive. Like test-eq, it reports pass/fail to the machine's
// output rather than raising AssertionFailed.
func testRepr(m *eval.Machine) heap.Primitive {
	return func(h *heap.Heap, args []value.Value, pos *token.Position) (value.Value, error) {
		if len(args) != 2 {
			return value.Value{}, diag.ArityMismatch(pos, "test-repr", "2", len(args))
		}
		if !args[1].IsString() {
			return value.Value{}, diag.TypeError(pos, "test-repr", "string", args[1].Kind())
		}
		got := printer.Write(h, args[0])
		if got == args[1].Str() {
			fmt.Fprintf(m.Output, "pass: %s\n", got)
			return value.NewBool(true), nil
		}
		fmt.Fprintf(m.Output, "fail: expected %s, got %s\n", args[1].Str(), got)
		return value.NewBool(false), nil
	}
}
