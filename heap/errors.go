package heap

import (
	"errors"
	"fmt"
)

// Error kinds of the heap. ErrOutOfCells, ErrSymbolTableFull and
// ErrInvariant are fatal: they are raised as a panic carrying a *FatalError.
// ErrUnbound is recoverable and returned as an *UnboundError.
var (
	ErrOutOfCells      = errors.New("out of cell memory")
	ErrSymbolTableFull = errors.New("out of symbol memory")
	ErrInvariant       = errors.New("heap invariant violated")
	ErrUnbound         = errors.New("unbound symbol")
)

// FatalError is the panic value for conditions the heap cannot continue
// from. Clients which want to terminate gracefully may recover it.
type FatalError struct {
	Kind error
	Msg  string
}

func (e *FatalError) Error() string {
	if e.Msg == "" {
		return e.Kind.Error()
	}
	return e.Kind.Error() + ": " + e.Msg
}

func (e *FatalError) Unwrap() error {
	return e.Kind
}

func fatalf(kind error, format string, args ...interface{}) *FatalError {
	e := &FatalError{Kind: kind, Msg: fmt.Sprintf(format, args...)}
	tracer().Errorf("fatal: %s", e.Error())
	return e
}

// UnboundError is returned by Lookup for a symbol without a binding in the
// searched environment.
type UnboundError struct {
	Symbol SymbolID
	Name   string
}

func (e *UnboundError) Error() string {
	return fmt.Sprintf("unbound symbol %s", e.Name)
}

func (e *UnboundError) Unwrap() error {
	return ErrUnbound
}

// Recover converts a fatal heap panic into an error. It is meant to be
// deferred at the outermost level of a client:
//
//	defer heap.Recover(&err)
//
// Panics not originating from the heap are re-raised.
func Recover(errp *error) {
	if r := recover(); r != nil {
		if fe, ok := r.(*FatalError); ok {
			*errp = fe
			return
		}
		panic(r)
	}
}
