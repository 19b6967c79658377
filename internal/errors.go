package internal

import (
	"errors"
	"fmt"
)

var (
	ErrNoScope          = errors.New("signalctx: computation created outside of a scope")
	ErrNotCallable      = errors.New("signalctx: value is not callable")
	ErrContextDestroyed = errors.New("signalctx: signal context destroyed")
	ErrRuntimeGone      = errors.New("signalctx: host runtime is gone")
	ErrReentrant        = errors.New("signalctx: computation re-entered its own invoke")
)

// PanicError wraps a value recovered from a panicking host closure.
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}
