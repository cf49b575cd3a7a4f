package diag

import (
	"strings"
	"testing"

	"github.com/kjhall/minilisp/internal/token"
)

func TestUnboundVariable(t *testing.T) {
	pos := &token.Position{Line: 3, Column: 7}
	err := UnboundVariable(pos, "frobnicate")

	if err.Kind != KindUnboundVariable {
		t.Errorf("Kind = %v, want %v", err.Kind, KindUnboundVariable)
	}
	if !strings.Contains(err.Message, "frobnicate") {
		t.Errorf("Message %q does not mention the offending name", err.Message)
	}
	if err.Pos != pos {
		t.Errorf("Pos = %v, want %v", err.Pos, pos)
	}
}

func TestErrorStringIncludesPosition(t *testing.T) {
	err := TypeError(&token.Position{Line: 1, Column: 1}, "(+ 1 \"x\")", "number", "string")
	got := err.Error()
	if !strings.Contains(got, "1:1") {
		t.Errorf("Error() = %q, want it to mention position 1:1", got)
	}
}

func TestErrorStringWithoutPosition(t *testing.T) {
	err := OutOfMemory(nil)
	if strings.Contains(err.Error(), "at ") {
		t.Errorf("Error() = %q, should not mention a position when none is set", err.Error())
	}
}

func TestFormatRendersCaret(t *testing.T) {
	source := "(+ 1 foo)"
	err := UnboundVariable(&token.Position{Line: 1, Column: 6}, "foo")
	out := Format(err, source)

	lines := strings.Split(out, "\n")
	if len(lines) != 3 {
		t.Fatalf("Format produced %d lines, want 3 (message, source, caret)", len(lines))
	}
	if lines[1] != source {
		t.Errorf("source line = %q, want %q", lines[1], source)
	}
	caretCol := strings.Index(lines[2], "^")
	if caretCol != 5 {
		t.Errorf("caret at column %d, want 5 (0-indexed) to line up with 'foo'", caretCol)
	}
}

func TestArityMismatch(t *testing.T) {
	err := ArityMismatch(nil, "(car)", "1", 0)
	if err.Kind != KindArityMismatch {
		t.Errorf("Kind = %v, want %v", err.Kind, KindArityMismatch)
	}
}
