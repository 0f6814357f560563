package reader

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/npillmayer/cellar"
	"github.com/npillmayer/cellar/heap"
)

// ErrSyntax is the error kind of all reader errors. ErrIncomplete is a
// syntax error for input ending inside an expression; more input may
// complete it.
var (
	ErrSyntax     = errors.New("syntax error")
	ErrIncomplete = fmt.Errorf("%w: incomplete expression", ErrSyntax)
)

// Kind discriminates data.
type Kind int

// Kinds of data.
const (
	ListDatum Kind = iota
	NumberDatum
	SymbolDatum
)

// Datum is an expression as read from text. Lists hold their elements in
// Items; an empty list denotes NIL.
type Datum struct {
	Kind   Kind
	Number float64
	Name   string
	Items  []*Datum
	Span   cellar.Span
}

func (d *Datum) String() string {
	switch d.Kind {
	case NumberDatum:
		return strconv.FormatFloat(d.Number, 'g', -1, 64)
	case SymbolDatum:
		return d.Name
	}
	if len(d.Items) == 0 {
		return "NIL"
	}
	s := make([]string, len(d.Items))
	for i, item := range d.Items {
		s[i] = item.String()
	}
	return "(" + strings.Join(s, " ") + ")"
}

// Symbol creates a symbol datum, normalizing the name.
func Symbol(name string) *Datum {
	return &Datum{Kind: SymbolDatum, Name: normalize(name)}
}

// List creates a list datum.
func List(items ...*Datum) *Datum {
	return &Datum{Kind: ListDatum, Items: items}
}

// normalize upper-cases name and truncates it to the heap's name length.
func normalize(name string) string {
	name = strings.ToUpper(name)
	if len(name) >= heap.NameLength {
		name = name[:heap.NameLength-1]
	}
	return name
}

// Read parses all expressions in input.
func Read(input string) ([]*Datum, error) {
	sc, err := newScanner(input)
	if err != nil {
		return nil, err
	}
	p := &parser{sc: sc}
	p.advance()
	var data []*Datum
	for p.tok.toktype != EOF {
		d, err := p.datum()
		if err != nil {
			return nil, err
		}
		data = append(data, d)
	}
	if sc.err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSyntax, sc.err)
	}
	tracer().Debugf("read %d expressions", len(data))
	return data, nil
}

type parser struct {
	sc  *scanner
	tok token
}

func (p *parser) advance() {
	p.tok = p.sc.next()
}

// datum parses one expression, starting at the current token.
func (p *parser) datum() (*Datum, error) {
	tok := p.tok
	switch tok.toktype {
	case Number:
		p.advance()
		x, ok := tok.Value().(float64)
		if !ok {
			return nil, fmt.Errorf("%w: malformed number %s", ErrSyntax, tok)
		}
		return &Datum{Kind: NumberDatum, Number: x, Span: tok.span}, nil
	case Ident:
		p.advance()
		d := Symbol(tok.lexeme)
		d.Span = tok.span
		if d.Name == "NIL" {
			return &Datum{Kind: ListDatum, Span: tok.span}, nil
		}
		return d, nil
	case Quote:
		p.advance()
		if p.tok.toktype == EOF {
			return nil, fmt.Errorf("%w: quote at end of input", ErrIncomplete)
		}
		d, err := p.datum()
		if err != nil {
			return nil, err
		}
		q := List(Symbol("QUOTE"), d)
		q.Span = tok.span.Extend(d.Span)
		return q, nil
	case LParen:
		p.advance()
		list := &Datum{Kind: ListDatum, Span: tok.span}
		for p.tok.toktype != RParen {
			if p.tok.toktype == EOF {
				return nil, fmt.Errorf("%w: unclosed list opened at %s", ErrIncomplete, tok)
			}
			d, err := p.datum()
			if err != nil {
				return nil, err
			}
			list.Items = append(list.Items, d)
		}
		list.Span = list.Span.Extend(p.tok.span)
		p.advance()
		return list, nil
	}
	return nil, fmt.Errorf("%w: unexpected %s", ErrSyntax, tok)
}
