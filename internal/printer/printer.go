// Package printer renders Values as text, in the two registers R5RS
// distinguishes: Display (human-readable, strings unquoted) and Write
// (re-readable, strings quoted and escaped).
package printer

import (
	"strconv"
	"strings"

	"github.com/kjhall/minilisp/internal/heap"
	"github.com/kjhall/minilisp/internal/value"
)

// Display renders v the way (display v) does: strings print raw, with no
// surrounding quotes or escapes.
func Display(h *heap.Heap, v value.Value) string {
	var sb strings.Builder
	render(&sb, h, v, false)
	return sb.String()
}

// Write renders v the way (write v) does: strings print quoted and
// escaped, so the result can be read back in as the same datum.
func Write(h *heap.Heap, v value.Value) string {
	var sb strings.Builder
	render(&sb, h, v, true)
	return sb.String()
}

func render(sb *strings.Builder, h *heap.Heap, v value.Value, quoted bool) {
	switch v.Kind() {
	case value.KindNil:
		sb.WriteString("()")
	case value.KindUnspecified:
		// Unspecified values are never printed by user code reaching (display),
		// but the REPL may echo one; render it visibly rather than as "".
		sb.WriteString("#<unspecified>")
	case value.KindBool:
		if v.Bool() {
			sb.WriteString("#t")
		} else {
			sb.WriteString("#f")
		}
	case value.KindNumber:
		sb.WriteString(formatNumber(v.Number()))
	case value.KindString:
		if quoted {
			sb.WriteString(strconv.Quote(v.Str()))
		} else {
			sb.WriteString(v.Str())
		}
	case value.KindSymbol:
		sb.WriteString(v.Symbol().Name)
	case value.KindPair:
		renderPair(sb, h, v, quoted)
	case value.KindProcedure:
		name := h.ProcedureName(v)
		if name == "" {
			sb.WriteString("#<procedure>")
		} else {
			sb.WriteString("#<procedure " + name + ">")
		}
	default:
		sb.WriteString("#<unknown>")
	}
}

// formatNumber prints integral float64s without a trailing ".0", and
// everything else with Go's shortest round-tripping representation.
func formatNumber(n float64) string {
	if n == float64(int64(n)) {
		return strconv.FormatInt(int64(n), 10)
	}
	return strconv.FormatFloat(n, 'g', -1, 64)
}

// renderPair collapses a proper-list chain into "(a b c)" and falls back to
// dotted notation "(a b . c)" the moment the chain stops being a proper
// list.
func renderPair(sb *strings.Builder, h *heap.Heap, v value.Value, quoted bool) {
	sb.WriteString("(")
	first := true
	cur := v
	for {
		if !first {
			sb.WriteString(" ")
		}
		first = false
		render(sb, h, h.Car(cur), quoted)

		rest := h.Cdr(cur)
		switch {
		case rest.IsNil():
			sb.WriteString(")")
			return
		case rest.IsPair():
			cur = rest
		default:
			sb.WriteString(" . ")
			render(sb, h, rest, quoted)
			sb.WriteString(")")
			return
		}
	}
}
