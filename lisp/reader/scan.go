package reader

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/npillmayer/cellar"
	"github.com/timtadh/lexmachine"
	"github.com/timtadh/lexmachine/machines"
)

// Token types.
const (
	EOF    cellar.TokType = -1
	Number cellar.TokType = -2
	Ident  cellar.TokType = -3
	LParen cellar.TokType = '('
	RParen cellar.TokType = ')'
	Quote  cellar.TokType = '\''
)

// The tokens representing literal one-char lexemes
var literals = []string{"'", "(", ")"}

var symchars = `[\+\-\*\/<>=!\?&_\.\^\#]`

var (
	lexer     *lexmachine.Lexer
	lexerErr  error
	lexerOnce sync.Once
)

// compiledLexer returns the DFA-based lexer shared by all scanners.
func compiledLexer() (*lexmachine.Lexer, error) {
	lexerOnce.Do(func() {
		lexer = lexmachine.NewLexer()
		lexer.Add([]byte(`;[^\n]*\n?`), skip)
		lexer.Add([]byte(`( |\t|\n|\r)+`), skip)
		// numbers take precedence over symbols of equal length, as in "-5"
		lexer.Add([]byte(`[\+\-]?[0-9]+(\.[0-9]+)?([eE][\+\-]?[0-9]+)?`), makeToken(Number))
		lexer.Add([]byte(`([a-z]|[A-Z]|`+symchars+`)([a-z]|[A-Z]|[0-9]|`+symchars+`)*`), makeToken(Ident))
		for _, lit := range literals {
			r := "\\" + strings.Join(strings.Split(lit, ""), "\\")
			lexer.Add([]byte(r), makeToken(cellar.TokType(lit[0])))
		}
		if lexerErr = lexer.Compile(); lexerErr != nil {
			tracer().Errorf("error compiling DFA: %v", lexerErr)
		}
	})
	return lexer, lexerErr
}

// skip is an action which ignores the scanned match.
func skip(*lexmachine.Scanner, *machines.Match) (interface{}, error) {
	return nil, nil
}

// makeToken is an action which wraps a scanned match into a token.
func makeToken(t cellar.TokType) lexmachine.Action {
	return func(s *lexmachine.Scanner, m *machines.Match) (interface{}, error) {
		return s.Token(int(t), string(m.Bytes), m), nil
	}
}

// token is the cellar.Token produced by the scanner.
type token struct {
	toktype cellar.TokType
	lexeme  string
	value   interface{}
	line    int
	column  int
	span    cellar.Span
}

var _ cellar.Token = token{}

func (t token) TokType() cellar.TokType {
	return t.toktype
}

func (t token) Lexeme() string {
	return t.lexeme
}

// Value is the float64 value of a number token and nil otherwise.
func (t token) Value() interface{} {
	return t.value
}

func (t token) Span() cellar.Span {
	return t.span
}

func (t token) String() string {
	if t.toktype == EOF {
		return "end of input"
	}
	return fmt.Sprintf("%q at line %d, column %d", t.lexeme, t.line, t.column)
}

// scanner wraps a lexmachine scanner. Unconsumable input is skipped; the
// first such error is remembered.
type scanner struct {
	s   *lexmachine.Scanner
	err error
}

func newScanner(input string) (*scanner, error) {
	lx, err := compiledLexer()
	if err != nil {
		return nil, err
	}
	s, err := lx.Scanner([]byte(input))
	if err != nil {
		return nil, err
	}
	return &scanner{s: s}, nil
}

func (sc *scanner) next() token {
	tok, err, eof := sc.s.Next()
	for err != nil {
		tracer().Errorf("scanner error: %v", err)
		if sc.err == nil {
			sc.err = err
		}
		if ui, is := err.(*machines.UnconsumedInput); is {
			sc.s.TC = ui.FailTC
		}
		tok, err, eof = sc.s.Next()
	}
	if eof {
		return token{toktype: EOF}
	}
	t := tok.(*lexmachine.Token)
	tk := token{
		toktype: cellar.TokType(t.Type),
		lexeme:  string(t.Lexeme),
		line:    t.StartLine,
		column:  t.StartColumn,
		span:    cellar.Span{uint64(t.TC), uint64(t.TC + len(t.Lexeme))},
	}
	if tk.toktype == Number {
		if x, err := strconv.ParseFloat(tk.lexeme, 64); err == nil {
			tk.value = x
		}
	}
	return tk
}
