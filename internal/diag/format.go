package diag

import (
	"fmt"
	"strings"
)

// Format renders err against the original source text, producing a
// three-line diagnostic: a "Kind at line N, column M: message" header, the
// offending source line, and a caret under the offending column. Without a
// usable position it falls back to err.Error().
func Format(err *Error, source string) string {
	if err.Pos == nil || err.Pos.IsZero() {
		return err.Error()
	}

	lines := strings.Split(source, "\n")
	lineIdx := err.Pos.Line - 1
	if lineIdx < 0 || lineIdx >= len(lines) {
		return err.Error()
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s at line %d, column %d: %s\n", err.Kind, err.Pos.Line, err.Pos.Column, err.Message)
	sb.WriteString(lines[lineIdx])
	sb.WriteString("\n")
	col := err.Pos.Column
	if col < 1 {
		col = 1
	}
	sb.WriteString(strings.Repeat(" ", col-1))
	sb.WriteString("^")
	return sb.String()
}
