package lexer

import "testing"

func TestNext(t *testing.T) {
	input := `(define (add-n n)
  (lambda (x) (+ x n))) ; comment
'(1 2 . 3) #t #f "hi\n"`

	tests := []struct {
		kind    Kind
		literal string
	}{
		{LPAREN, "("},
		{IDENT, "define"},
		{LPAREN, "("},
		{IDENT, "add-n"},
		{IDENT, "n"},
		{RPAREN, ")"},
		{LPAREN, "("},
		{IDENT, "lambda"},
		{LPAREN, "("},
		{IDENT, "x"},
		{RPAREN, ")"},
		{LPAREN, "("},
		{IDENT, "+"},
		{IDENT, "x"},
		{IDENT, "n"},
		{RPAREN, ")"},
		{RPAREN, ")"},
		{RPAREN, ")"},
		{QUOTE, "'"},
		{LPAREN, "("},
		{NUMBER, "1"},
		{NUMBER, "2"},
		{DOT, "."},
		{NUMBER, "3"},
		{RPAREN, ")"},
		{BOOL, "#t"},
		{BOOL, "#f"},
		{STRING, "hi\n"},
		{EOF, ""},
	}

	l := New(input)
	for i, tt := range tests {
		tok := l.Next()
		if tok.Kind != tt.kind {
			t.Fatalf("tests[%d]: kind = %s, want %s (literal=%q)", i, tok.Kind, tt.kind, tok.Literal)
		}
		if tok.Literal != tt.literal {
			t.Fatalf("tests[%d]: literal = %q, want %q", i, tok.Literal, tt.literal)
		}
	}
}

func TestNextNegativeAndFloat(t *testing.T) {
	l := New("-3.5 +2 .25 1e10")
	want := []string{"-3.5", "+2", ".25", "1e10"}
	for i, w := range want {
		tok := l.Next()
		if tok.Kind != NUMBER || tok.Literal != w {
			t.Fatalf("token %d = %v %q, want NUMBER %q", i, tok.Kind, tok.Literal, w)
		}
	}
}

func TestNextMalformedNumberStaysNumberKind(t *testing.T) {
	l := New("1.2.3")
	tok := l.Next()
	if tok.Kind != NUMBER {
		t.Fatalf("kind = %v, want NUMBER (reader must reject this as InvalidNumber)", tok.Kind)
	}
	if LooksNumeric(tok.Literal) {
		t.Fatalf("LooksNumeric(%q) = true, want false", tok.Literal)
	}
}

func TestNextEOFRepeats(t *testing.T) {
	l := New("")
	for i := 0; i < 3; i++ {
		if tok := l.Next(); tok.Kind != EOF {
			t.Fatalf("call %d: kind = %v, want EOF", i, tok.Kind)
		}
	}
}

func TestNextUnclosedStringIsUnterminated(t *testing.T) {
	l := New(`"abc`)
	tok := l.Next()
	if tok.Kind != UNTERMINATED {
		t.Fatalf("kind = %v, want UNTERMINATED", tok.Kind)
	}
	if tok.Literal != "abc" {
		t.Fatalf("literal = %q, want %q (the partial string content read before EOF)", tok.Literal, "abc")
	}
}
