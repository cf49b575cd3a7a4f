// Package primitives installs the built-in procedure set named in the
// language specification into a Machine's global environment: arithmetic,
// predicates, pair/list operations, I/O, and the runtime-introspection
// procedures (gc, stats, assert) that exercise the heap's collector
// directly. Each primitive is a plain Go function registered by name,
// following the category-registry convention of the interpreter's own
// built-in function table, simplified here to a flat name -> implementation
// map since this language has no overloading to disambiguate.
package primitives

import (
	"github.com/kjhall/minilisp/internal/eval"
	"github.com/kjhall/minilisp/internal/heap"
	"github.com/kjhall/minilisp/internal/value"
)

// entry pairs a primitive's name with its implementation, for readable,
// table-driven registration.
type entry struct {
	name string
	fn   heap.Primitive
}

// InstallAll defines every built-in procedure in m's global environment.
func InstallAll(m *eval.Machine) {
	install(m, arithmeticPrimitives())
	install(m, predicatePrimitives())
	install(m, listPrimitives(m))
	install(m, ioPrimitives(m))
	install(m, runtimePrimitives(m))
	install(m, testingPrimitives(m))
}

func install(m *eval.Machine, entries []entry) {
	for _, e := range entries {
		proc := m.Heap.AllocPrimitive(e.name, e.fn)
		m.Global.Define(value.Intern(e.name), proc)
	}
}
