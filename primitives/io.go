package primitives

import (
	"fmt"

	"github.com/kjhall/minilisp/internal/eval"
	"github.com/kjhall/minilisp/internal/heap"
	"github.com/kjhall/minilisp/internal/printer"
	"github.com/kjhall/minilisp/internal/token"
	"github.com/kjhall/minilisp/internal/value"
)

func ioPrimitives(m *eval.Machine) []entry {
	return []entry{
		{"display", displayPrimitive(m)},
		{"newline", newlinePrimitive(m)},
	}
}

// displayPrimitive implements (display v ...), writing each argument's
// human-readable (unquoted) representation to the machine's output.
func displayPrimitive(m *eval.Machine) heap.Primitive {
	return func(h *heap.Heap, args []value.Value, pos *token.Position) (value.Value, error) {
		for _, a := range args {
			fmt.Fprint(m.Output, printer.Display(h, a))
		}
		return value.Unspecified(), nil
	}
}

// newlinePrimitive implements (newline), writing a single line break.
func newlinePrimitive(m *eval.Machine) heap.Primitive {
	return func(h *heap.Heap, args []value.Value, pos *token.Position) (value.Value, error) {
		fmt.Fprintln(m.Output)
		return value.Unspecified(), nil
	}
}
