// Package eval implements the tree-walking evaluator: a trampoline over
// Values that performs tail calls as loop iterations rather than recursive
// Go calls, so that proper tail recursion runs in constant host stack.
package eval

import (
	"io"
	"os"

	"github.com/kjhall/minilisp/internal/diag"
	"github.com/kjhall/minilisp/internal/environment"
	"github.com/kjhall/minilisp/internal/heap"
	"github.com/kjhall/minilisp/internal/printer"
	"github.com/kjhall/minilisp/internal/value"
	"github.com/sirupsen/logrus"
)

// Machine holds the interpreter's mutable state across a session: the heap,
// the global environment, and bookkeeping needed to forbid (gc) from
// running in the middle of a procedure call.
type Machine struct {
	Heap   *heap.Heap
	Global *environment.Frame
	Log    *logrus.Logger
	Output io.Writer

	// callDepth counts how many compound-procedure calls are currently on
	// the Go call stack. It is not the same as Scheme recursion depth: a
	// tail call reuses the same Eval invocation and does not increment it
	// again, which is exactly what lets (gc) distinguish "nothing is
	// executing" from "something is", regardless of how many tail hops
	// brought execution there.
	callDepth int

	// pendingRoots holds operator/operand Values that have already been
	// evaluated as part of an in-progress application but aren't yet
	// reachable from any environment frame (e.g. the first argument of
	// (list (cons 1 2) (gc)) while the second argument is still being
	// evaluated). Collect must treat these as roots too, or a (gc) nested
	// inside a later argument can sweep an earlier argument's freshly
	// allocated pair out from under it. Each operator/operand Value is
	// pushed as soon as it has been evaluated, and the entries are popped
	// again as soon as that application has been dispatched, so the slice
	// only holds values genuinely in flight, not accumulated across tail
	// calls.
	pendingRoots []value.Value
}

// New creates a Machine with a fresh global frame, writing (display)/
// (newline) output to os.Stdout by default; set Output to redirect it.
func New(h *heap.Heap, log *logrus.Logger) *Machine {
	return &Machine{
		Heap:   h,
		Global: environment.New(),
		Log:    log,
		Output: os.Stdout,
	}
}

// AtTopLevel reports whether no compound procedure call is currently in
// progress, i.e. whether (gc) may run.
func (m *Machine) AtTopLevel() bool {
	return m.callDepth == 0
}

// PendingRoots returns the operator/operand Values of applications that are
// still being evaluated and so aren't yet reachable from any environment
// frame. (gc) must root these in addition to Global; see the field comment
// on Machine.pendingRoots.
func (m *Machine) PendingRoots() []value.Value {
	return m.pendingRoots
}

var (
	symQuote  = value.Intern("quote")
	symIf     = value.Intern("if")
	symDefine = value.Intern("define")
	symSetBang = value.Intern("set!")
	symLambda = value.Intern("lambda")
	symBegin  = value.Intern("begin")
	symCond   = value.Intern("cond")
	symAnd    = value.Intern("and")
	symOr     = value.Intern("or")
	symElse   = value.Intern("else")
)

// Eval evaluates expr in env and returns its value. Tail calls (the
// consequent of an if, the last form of begin/cond/and/or, and the last
// form of a procedure body) are performed by looping rather than
// recursing, so (define (loop n) (if (= n 0) 'done (loop (- n 1)))) runs
// in O(1) Go stack regardless of n.
func (m *Machine) Eval(expr value.Value, env *environment.Frame) (value.Value, error) {
	entered := false
	defer func() {
		if entered {
			m.callDepth--
		}
	}()

	for {
		if m.Log != nil && m.Log.IsLevelEnabled(logrus.DebugLevel) {
			m.Log.WithField("callDepth", m.callDepth).Debugf("eval %s", printer.Write(m.Heap, expr))
		}

		switch expr.Kind() {
		case value.KindNumber, value.KindBool, value.KindString, value.KindNil, value.KindUnspecified, value.KindProcedure:
			return expr, nil

		case value.KindSymbol:
			return env.Get(expr.Symbol(), nil)

		case value.KindPair:
			head := m.Heap.Car(expr)
			if head.IsSymbol() {
				switch head.Symbol() {
				case symQuote:
					return m.evalQuote(expr)
				case symIf:
					next, nextEnv, done, result, err := m.evalIf(expr, env)
					if err != nil || done {
						return result, err
					}
					expr, env = next, nextEnv
					continue
				case symDefine:
					return m.evalDefine(expr, env)
				case symSetBang:
					return m.evalSetBang(expr, env)
				case symLambda:
					return m.evalLambda(expr, env, "")
				case symBegin:
					next, done, result, err := m.evalSequenceTail(m.listSlice(m.Heap.Cdr(expr)), env)
					if err != nil || done {
						return result, err
					}
					expr = next
					continue
				case symCond:
					next, done, result, err := m.evalCond(expr, env)
					if err != nil || done {
						return result, err
					}
					expr = next
					continue
				case symAnd:
					next, done, result, err := m.evalAnd(expr, env)
					if err != nil || done {
						return result, err
					}
					expr = next
					continue
				case symOr:
					next, done, result, err := m.evalOr(expr, env)
					if err != nil || done {
						return result, err
					}
					expr = next
					continue
				}
			}

			// Application: evaluate operator and operands (non-tail — these
			// recurse into Eval), then apply. Each evaluated operator/operand
			// is pushed onto pendingRoots so a (gc) nested inside a later
			// operand can't sweep an earlier one before it's bound into a
			// frame; the mark is popped as soon as this application has been
			// dispatched, on every exit path.
			rootMark := len(m.pendingRoots)
			procVal, err := m.Eval(head, env)
			if err != nil {
				return value.Value{}, err
			}
			m.pendingRoots = append(m.pendingRoots, procVal)

			argExprs := m.listSlice(m.Heap.Cdr(expr))
			args := make([]value.Value, len(argExprs))
			for i, ae := range argExprs {
				av, err := m.Eval(ae, env)
				if err != nil {
					m.pendingRoots = m.pendingRoots[:rootMark]
					return value.Value{}, err
				}
				args[i] = av
				m.pendingRoots = append(m.pendingRoots, av)
			}

			if !procVal.IsProcedure() {
				m.pendingRoots = m.pendingRoots[:rootMark]
				return value.Value{}, diag.Newf(diag.KindTypeError, nil, "", diag.ErrMsgNotAProcedure, displayValue(m.Heap, procVal))
			}

			if m.Heap.ProcedureKind(procVal) == heap.ProcPrimitive {
				result, err := m.Heap.CallPrimitive(procVal, args, nil)
				m.pendingRoots = m.pendingRoots[:rootMark]
				return result, err
			}

			// Compound procedure applied in tail position: bind a fresh frame
			// and loop, rather than recursing.
			if !entered {
				m.callDepth++
				entered = true
			}
			frame, err := m.bindCall(procVal, args)
			m.pendingRoots = m.pendingRoots[:rootMark]
			if err != nil {
				return value.Value{}, err
			}
			_, _, body, _ := m.Heap.CompoundParts(procVal)
			tail, err := m.prepareBody(body, frame)
			if err != nil {
				return value.Value{}, err
			}
			expr, env = tail, frame
			continue

		default:
			return value.Value{}, diag.Newf(diag.KindSyntaxError, nil, "", "cannot evaluate value of kind %s", expr.Kind())
		}
	}
}

// listSlice converts a proper-list Value chain into a Go slice of its
// elements. Used for operand lists and special-form bodies, which are
// always proper lists by construction of the reader.
func (m *Machine) listSlice(v value.Value) []value.Value {
	var out []value.Value
	for v.IsPair() {
		out = append(out, m.Heap.Car(v))
		v = m.Heap.Cdr(v)
	}
	return out
}

func displayValue(h *heap.Heap, v value.Value) string {
	// A minimal local renderer for error messages: it names most values by
	// kind rather than printing them in full.
	switch v.Kind() {
	case value.KindNumber:
		return "number"
	case value.KindString:
		return "string " + v.Str()
	case value.KindSymbol:
		return v.Symbol().Name
	case value.KindBool:
		if v.Bool() {
			return "#t"
		}
		return "#f"
	case value.KindPair:
		return "a pair"
	case value.KindNil:
		return "()"
	default:
		return v.Kind().String()
	}
}
