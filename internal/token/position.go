// Package token defines the small set of source-position types shared by
// the lexer, reader, and diagnostic formatter.
package token

import "fmt"

// Position identifies a location in source text by line and column, both
// 1-based. Columns count runes, not bytes, so multi-byte UTF-8 sequences
// each count as a single column.
type Position struct {
	Line   int
	Column int
}

// String renders a position as "line:column".
func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// IsZero reports whether the position was never set.
func (p Position) IsZero() bool {
	return p.Line == 0 && p.Column == 0
}
