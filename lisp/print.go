package lisp

import (
	"math"
	"strconv"
	"strings"

	"github.com/npillmayer/cellar/heap"
)

// Sprint returns the printed representation of a value. Closures print
// their body only, so cycles through captured environments are never
// followed.
func (in *Interpreter) Sprint(r heap.Ref) string {
	var b strings.Builder
	limit := in.heap.Capacity()
	in.print(&b, r, &limit)
	return b.String()
}

func (in *Interpreter) print(b *strings.Builder, r heap.Ref, limit *int) {
	h := in.heap
	if *limit--; *limit < 0 {
		b.WriteString("...")
		return
	}
	if r == heap.Nil {
		b.WriteString("NIL")
		return
	}
	switch h.Type(r) {
	case heap.Number:
		b.WriteString(formatNumber(h.NumberValue(r)))
	case heap.Symbol:
		b.WriteString(h.Resolve(h.SymbolValue(r)))
	case heap.Text:
		b.WriteString(strconv.Quote(h.TextValue(r)))
	case heap.Native:
		_, arity := h.NativeValue(r)
		b.WriteString("#<BUILTIN/")
		if arity == heap.Variadic {
			b.WriteString("n>")
		} else {
			b.WriteString(strconv.Itoa(arity) + ">")
		}
	case heap.Closure:
		b.WriteString("#<LAMBDA ")
		in.print(b, h.Left(r), limit)
		b.WriteByte('>')
	case heap.Pair:
		b.WriteByte('(')
		in.print(b, h.Left(r), limit)
		for r = h.Right(r); r != heap.Nil; r = h.Right(r) {
			if h.Type(r) != heap.Pair {
				b.WriteString(" . ")
				in.print(b, r, limit)
				break
			}
			if *limit <= 0 {
				b.WriteString(" ...")
				break
			}
			b.WriteByte(' ')
			in.print(b, h.Left(r), limit)
		}
		b.WriteByte(')')
	default:
		b.WriteString("#<" + h.Type(r).String() + ">")
	}
}

// formatNumber prints integral values without an exponent.
func formatNumber(x float64) string {
	if x == math.Trunc(x) && math.Abs(x) < 1e15 {
		return strconv.FormatFloat(x, 'f', -1, 64)
	}
	return strconv.FormatFloat(x, 'g', -1, 64)
}
