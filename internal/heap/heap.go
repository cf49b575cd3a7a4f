// Package heap owns the mark-and-sweep garbage-collected storage for pairs
// and compound/primitive procedures. Every pair and procedure Value is a
// handle (plain int) into one of this package's slot arenas rather than a Go
// pointer, so the collector can replace garbage slots and reuse their index
// without any Value elsewhere in the program going stale: a Value's handle
// stays valid until that slot is actually collected, and only reachable
// slots survive a Collect.
//
// The collector is a two-phase mark-sweep, not reference counting: pairs can
// form cycles via set-car!/set-cdr!, and a refcount never reaches zero for a
// cycle that has become otherwise unreachable. Mark-sweep reclaims those
// cycles because reachability, not local refcount, decides survival.
package heap

import (
	"sync/atomic"

	"github.com/kjhall/minilisp/internal/diag"
	"github.com/kjhall/minilisp/internal/environment"
	"github.com/kjhall/minilisp/internal/token"
	"github.com/kjhall/minilisp/internal/value"
)

type pairSlot struct {
	car, cdr value.Value
	marked   bool
	live     bool
}

// ProcKind distinguishes the two kinds of callable stored in the procedure
// arena.
type ProcKind int

const (
	ProcPrimitive ProcKind = iota
	ProcCompound
)

// Primitive is a Go-implemented procedure. h gives the primitive access to
// heap allocation (e.g. cons) and pos is the call-site position for error
// reporting.
type Primitive func(h *Heap, args []value.Value, pos *token.Position) (value.Value, error)

type procSlot struct {
	kind ProcKind
	name string // primitive name, or compound procedure's bound name if any

	// ProcPrimitive
	fn Primitive

	// ProcCompound
	params []*value.Symbol // fixed parameters
	rest   *value.Symbol   // rest parameter, nil if the formal list is proper
	body   []value.Value   // body expressions
	env    *environment.Frame

	marked bool
	live   bool
}

// Stats reports heap occupancy, refreshed after every Collect.
type Stats struct {
	PairAllocs atomic.Uint64
	PairLive   atomic.Int64
	ProcAllocs atomic.Uint64
	ProcLive   atomic.Int64
	Collections atomic.Uint64
}

// Heap is the collected store of pairs and procedures plus the free lists
// used to reuse slots vacated by a Collect.
type Heap struct {
	pairs     []pairSlot
	pairFree  []value.Handle
	procs     []procSlot
	procFree  []value.Handle

	Stats Stats

	// MaxPairs bounds allocation; zero means unbounded. Exceeding it raises
	// diag.OutOfMemory rather than growing forever, matching spec.md's
	// requirement that the heap be a finite, observable resource.
	MaxPairs int
}

// New creates an empty heap. maxPairs of zero means no bound.
func New(maxPairs int) *Heap {
	return &Heap{MaxPairs: maxPairs}
}

// AllocPair allocates a new cons cell holding (car . cdr) and returns it as
// a Value of KindPair.
func (h *Heap) AllocPair(car, cdr value.Value, pos *token.Position) (value.Value, error) {
	idx, err := h.allocPairSlot(pos)
	if err != nil {
		return value.Value{}, err
	}
	h.pairs[idx] = pairSlot{car: car, cdr: cdr, live: true}
	h.Stats.PairAllocs.Add(1)
	h.Stats.PairLive.Add(1)
	return value.NewPair(value.Handle(idx)), nil
}

func (h *Heap) allocPairSlot(pos *token.Position) (value.Handle, error) {
	if n := len(h.pairFree); n > 0 {
		idx := h.pairFree[n-1]
		h.pairFree = h.pairFree[:n-1]
		return idx, nil
	}
	if h.MaxPairs > 0 && len(h.pairs) >= h.MaxPairs {
		return 0, diag.OutOfMemory(pos)
	}
	h.pairs = append(h.pairs, pairSlot{})
	return value.Handle(len(h.pairs) - 1), nil
}

func (h *Heap) pair(v value.Value) *pairSlot {
	return &h.pairs[int(v.Handle())]
}

// Car returns the car of a pair Value.
func (h *Heap) Car(v value.Value) value.Value { return h.pair(v).car }

// Cdr returns the cdr of a pair Value.
func (h *Heap) Cdr(v value.Value) value.Value { return h.pair(v).cdr }

// SetCar mutates the car of a pair Value in place, which is how set-car!
// can create a cycle that only a mark-sweep collector can reclaim.
func (h *Heap) SetCar(v, car value.Value) { h.pair(v).car = car }

// SetCdr mutates the cdr of a pair Value in place.
func (h *Heap) SetCdr(v, cdr value.Value) { h.pair(v).cdr = cdr }

// AllocPrimitive installs a Go-implemented procedure and returns its handle
// as a Value.
func (h *Heap) AllocPrimitive(name string, fn Primitive) value.Value {
	idx := h.allocProcSlot()
	h.procs[idx] = procSlot{kind: ProcPrimitive, name: name, fn: fn, live: true}
	h.Stats.ProcAllocs.Add(1)
	h.Stats.ProcLive.Add(1)
	return value.NewProcedure(value.Handle(idx))
}

// AllocCompound installs a user-defined lambda closure and returns its
// handle as a Value.
func (h *Heap) AllocCompound(name string, params []*value.Symbol, rest *value.Symbol, body []value.Value, env *environment.Frame) value.Value {
	idx := h.allocProcSlot()
	h.procs[idx] = procSlot{
		kind: ProcCompound, name: name,
		params: params, rest: rest, body: body, env: env,
		live: true,
	}
	h.Stats.ProcAllocs.Add(1)
	h.Stats.ProcLive.Add(1)
	return value.NewProcedure(value.Handle(idx))
}

func (h *Heap) allocProcSlot() value.Handle {
	if n := len(h.procFree); n > 0 {
		idx := h.procFree[n-1]
		h.procFree = h.procFree[:n-1]
		return idx
	}
	h.procs = append(h.procs, procSlot{})
	return value.Handle(len(h.procs) - 1)
}

func (h *Heap) proc(v value.Value) *procSlot {
	return &h.procs[int(v.Handle())]
}

// ProcedureKind reports whether v is a primitive or compound procedure.
func (h *Heap) ProcedureKind(v value.Value) ProcKind { return h.proc(v).kind }

// ProcedureName returns the procedure's bound name, used in error messages
// and (display proc) output. May be empty for an anonymous lambda.
func (h *Heap) ProcedureName(v value.Value) string { return h.proc(v).name }

// CallPrimitive invokes a primitive procedure Value directly.
func (h *Heap) CallPrimitive(v value.Value, args []value.Value, pos *token.Position) (value.Value, error) {
	return h.proc(v).fn(h, args, pos)
}

// CompoundParts exposes a compound procedure's parameter list, rest
// parameter, body, and captured environment, for the evaluator to bind a
// fresh call frame against.
func (h *Heap) CompoundParts(v value.Value) (params []*value.Symbol, rest *value.Symbol, body []value.Value, env *environment.Frame) {
	p := h.proc(v)
	return p.params, p.rest, p.body, p.env
}
