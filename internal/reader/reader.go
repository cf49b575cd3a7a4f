// Package reader implements the recursive-descent parser that turns a
// token stream into Values: since this interpreter is homoiconic, there is
// no separate AST type. A parsed list is just a chain of heap-allocated
// Pairs, the same Pairs list primitives like car and cdr operate on.
package reader

import (
	"strconv"

	"github.com/kjhall/minilisp/internal/diag"
	"github.com/kjhall/minilisp/internal/heap"
	"github.com/kjhall/minilisp/internal/lexer"
	"github.com/kjhall/minilisp/internal/token"
	"github.com/kjhall/minilisp/internal/value"
)

// quoteSymbol is the symbol substituted for the ' reader macro: 'x reads as
// (quote x).
var quoteSymbol = value.Intern("quote")

// Reader parses successive datums from a single source string.
type Reader struct {
	lex  *lexer.Lexer
	h    *heap.Heap
	cur  lexer.Token
	peek lexer.Token
}

// New creates a Reader over source, backed by h for pair allocation.
func New(source string, h *heap.Heap) *Reader {
	r := &Reader{lex: lexer.New(source), h: h}
	r.cur = r.lex.Next()
	r.peek = r.lex.Next()
	return r
}

func (r *Reader) advance() {
	r.cur = r.peek
	r.peek = r.lex.Next()
}

// AtEOF reports whether every datum in the source has been consumed.
func (r *Reader) AtEOF() bool {
	return r.cur.Kind == lexer.EOF
}

// ReadAll parses every top-level datum in the source in order.
func ReadAll(source string, h *heap.Heap) ([]value.Value, error) {
	r := New(source, h)
	var out []value.Value
	for !r.AtEOF() {
		v, err := r.Read()
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// Read parses and returns a single datum.
func (r *Reader) Read() (value.Value, error) {
	switch r.cur.Kind {
	case lexer.EOF:
		return value.Value{}, diag.New(diag.KindReaderError, r.pos(), "", diag.ErrMsgUnexpectedEOF)
	case lexer.LPAREN:
		return r.readList()
	case lexer.RPAREN:
		return value.Value{}, diag.New(diag.KindReaderError, r.pos(), r.cur.Literal, diag.ErrMsgUnexpectedRParen)
	case lexer.QUOTE:
		r.advance()
		inner, err := r.Read()
		if err != nil {
			return value.Value{}, err
		}
		tail, err := r.h.AllocPair(inner, value.Nil(), r.pos())
		if err != nil {
			return value.Value{}, err
		}
		return r.h.AllocPair(value.NewSymbol(quoteSymbol), tail, r.pos())
	case lexer.NUMBER:
		return r.readNumber()
	case lexer.STRING:
		lit := r.cur.Literal
		r.advance()
		return value.NewString(lit), nil
	case lexer.BOOL:
		lit := r.cur.Literal
		r.advance()
		return value.NewBool(lit == "#t"), nil
	case lexer.IDENT:
		lit := r.cur.Literal
		r.advance()
		return value.NewSymbol(value.Intern(lit)), nil
	case lexer.DOT:
		return value.Value{}, diag.New(diag.KindReaderError, r.pos(), r.cur.Literal, diag.ErrMsgMalformedDot)
	case lexer.UNTERMINATED:
		return value.Value{}, diag.New(diag.KindReaderError, r.pos(), r.cur.Literal, diag.ErrMsgUnterminatedString)
	case lexer.ILLEGAL:
		return value.Value{}, diag.Newf(diag.KindReaderError, r.pos(), r.cur.Literal, "illegal token: %q", r.cur.Literal)
	default:
		return value.Value{}, diag.Newf(diag.KindReaderError, r.pos(), r.cur.Literal, "unexpected token %s", r.cur.Kind)
	}
}

func (r *Reader) readNumber() (value.Value, error) {
	lit := r.cur.Literal
	pos := r.pos()
	n, err := strconv.ParseFloat(lit, 64)
	if err != nil || !lexer.LooksNumeric(lit) {
		return value.Value{}, diag.Newf(diag.KindReaderError, pos, lit, diag.ErrMsgInvalidNumber, lit)
	}
	r.advance()
	return value.NewNumber(n), nil
}

// readList parses "(" datum* ["." datum] ")". The opening paren has not
// been consumed yet when this is called.
func (r *Reader) readList() (value.Value, error) {
	openPos := r.pos()
	r.advance() // consume (

	if r.cur.Kind == lexer.RPAREN {
		r.advance()
		return value.Nil(), nil
	}

	var items []value.Value
	tail := value.Nil()

	for {
		if r.cur.Kind == lexer.EOF {
			return value.Value{}, diag.New(diag.KindReaderError, openPos, "(", diag.ErrMsgUnclosedList)
		}
		if r.cur.Kind == lexer.RPAREN {
			r.advance()
			break
		}
		if r.cur.Kind == lexer.DOT {
			r.advance()
			d, err := r.Read()
			if err != nil {
				return value.Value{}, err
			}
			tail = d
			if r.cur.Kind != lexer.RPAREN {
				return value.Value{}, diag.New(diag.KindReaderError, r.pos(), ".", diag.ErrMsgMalformedDot)
			}
			r.advance()
			break
		}
		item, err := r.Read()
		if err != nil {
			return value.Value{}, err
		}
		items = append(items, item)
	}

	result := tail
	for i := len(items) - 1; i >= 0; i-- {
		p, err := r.h.AllocPair(items[i], result, openPos)
		if err != nil {
			return value.Value{}, err
		}
		result = p
	}
	return result, nil
}

func (r *Reader) pos() *token.Position {
	p := r.cur.Position
	return &p
}
