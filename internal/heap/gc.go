package heap

import (
	"github.com/kjhall/minilisp/internal/environment"
	"github.com/kjhall/minilisp/internal/value"
)

// Collect runs a full mark-and-sweep pass: every pair and procedure slot
// reachable from root (by walking up its outer-frame chain) or from one of
// extraRoots (values live on the evaluator's operand stack at the moment of
// collection, e.g. arguments already evaluated but not yet applied) survives;
// everything else is freed and its slot reused by a future allocation.
//
// Collect must only be called when no compound procedure call is in
// progress (see the evaluator's CannotCollectHere guard) — not because
// marking itself is unsafe mid-call, but because a collection that runs
// while a procedure's partially-evaluated arguments are sitting outside any
// root the collector walks would free a value still about to be used.
func (h *Heap) Collect(root *environment.Frame, extraRoots ...value.Value) {
	h.clearMarks()

	for frame := root; frame != nil; frame = frame.Outer() {
		frame.ForEach(func(_ *value.Symbol, v value.Value) {
			h.mark(v)
		})
	}
	for _, v := range extraRoots {
		h.mark(v)
	}

	h.sweep()
	h.Stats.Collections.Add(1)
}

func (h *Heap) clearMarks() {
	for i := range h.pairs {
		h.pairs[i].marked = false
	}
	for i := range h.procs {
		h.procs[i].marked = false
	}
}

func (h *Heap) mark(v value.Value) {
	switch v.Kind() {
	case value.KindPair:
		idx := int(v.Handle())
		if h.pairs[idx].marked {
			return
		}
		h.pairs[idx].marked = true
		h.mark(h.pairs[idx].car)
		h.mark(h.pairs[idx].cdr)
	case value.KindProcedure:
		idx := int(v.Handle())
		if h.procs[idx].marked {
			return
		}
		h.procs[idx].marked = true
		p := &h.procs[idx]
		if p.kind == ProcCompound {
			for frame := p.env; frame != nil; frame = frame.Outer() {
				frame.ForEach(func(_ *value.Symbol, bound value.Value) {
					h.mark(bound)
				})
			}
			for _, expr := range p.body {
				h.mark(expr)
			}
		}
	}
}

func (h *Heap) sweep() {
	h.Stats.PairLive.Store(0)
	for i := range h.pairs {
		if !h.pairs[i].live {
			continue
		}
		if h.pairs[i].marked {
			h.Stats.PairLive.Add(1)
			continue
		}
		h.pairs[i] = pairSlot{}
		h.pairFree = append(h.pairFree, value.Handle(i))
	}

	h.Stats.ProcLive.Store(0)
	for i := range h.procs {
		if !h.procs[i].live {
			continue
		}
		if h.procs[i].marked {
			h.Stats.ProcLive.Add(1)
			continue
		}
		h.procs[i] = procSlot{}
		h.procFree = append(h.procFree, value.Handle(i))
	}
}
