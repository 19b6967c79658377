// Package signalctx is a fine-grained synchronous reactive graph: signals,
// memos and computations owned by scopes, updated in two-tier transactions.
//
// Every goroutine gets its own graph.
package signalctx

import (
	"errors"

	"github.com/AnatoleLucet/signalctx/internal"
)

var (
	ErrNoScope          = internal.ErrNoScope
	ErrNotCallable      = internal.ErrNotCallable
	ErrContextDestroyed = internal.ErrContextDestroyed
)

type (
	Option   = internal.Option
	Observer = internal.Observer
	Kind     = internal.ScopeKind
	Equality = internal.EqualityMode
)

const (
	EqualDeep   = internal.EqualDeep
	EqualStrict = internal.EqualStrict
)

var (
	WithLogger          = internal.WithLogger
	WithObserver        = internal.WithObserver
	WithHost            = internal.WithHost
	WithDefaultEquality = internal.WithDefaultEquality
)

func as[T any](v any) T {
	if v == nil {
		var zero T
		return zero
	}

	return v.(T)
}

func current() *internal.Context {
	return internal.GetContext()
}

// Configure applies options to the current goroutine's graph.
func Configure(opts ...Option) {
	current().Configure(opts...)
}

type Signal[T any] struct {
	signal *internal.Signal
}

// NewSignal creates your tipical read/write signal.
func NewSignal[T any](initial T) *Signal[T] {
	return &Signal[T]{
		internal.NewSignal(current(), initial),
	}
}

// Read the current value of the signal, tracking the dependency if within a computation.
func (s *Signal[T]) Read() T {
	return as[T](s.signal.GetValue())
}

// Peek reads the current value without tracking.
func (s *Signal[T]) Peek() T {
	return as[T](s.signal.Peek())
}

// Write a new value to the signal, updating its dependents before returning
// unless a transaction is already open.
func (s *Signal[T]) Write(v T) {
	s.signal.Context().RunUpdates(func() {
		s.signal.SetValue(v)
	})
}

func (s *Signal[T]) Update(fn func(prev T) T) {
	s.Write(fn(s.Peek()))
}

// SetEquality switches between deep and strict comparison of written values.
func (s *Signal[T]) SetEquality(mode Equality) *Signal[T] {
	s.signal.SetEqualityMode(mode)
	return s
}

// WithEquals replaces the equality check; writes for which equals returns
// true do not notify dependents.
func (s *Signal[T]) WithEquals(equals func(a, b T) bool) *Signal[T] {
	s.signal.SetCustomEqualityFn(func(a, b internal.Value) bool {
		return equals(as[T](a), as[T](b))
	})
	return s
}

// MarkSkipCompare makes the next write notify dependents even if the value did not change.
func (s *Signal[T]) MarkSkipCompare(skip bool) {
	s.signal.MarkSkipCompare(skip)
}

func (s *Signal[T]) Dispose() {
	s.signal.Dispose()
}

type Memo[T any] struct {
	memo *internal.Memo
}

// NewMemo creates a derived signal. fn receives its previous value, seed on the first run.
func NewMemo[T any](fn func(prev T) T, seed T) (*Memo[T], error) {
	m := internal.NewMemo(current(), seed)

	err := m.InitComputation(func(prev internal.Value) internal.Value {
		return fn(as[T](prev))
	})
	if err != nil {
		return nil, err
	}

	return &Memo[T]{m}, nil
}

// NewComputed creates a memo that ignores its previous value.
func NewComputed[T any](compute func() T) (*Memo[T], error) {
	return NewMemo(func(T) T { return compute() }, *new(T))
}

// Read the current value of the memo, tracking the dependency if within a computation.
func (m *Memo[T]) Read() T {
	return as[T](m.memo.GetValue())
}

func (m *Memo[T]) Peek() T {
	return as[T](m.memo.Peek())
}

func (m *Memo[T]) SetEquality(mode Equality) *Memo[T] {
	m.memo.SetEqualityMode(mode)
	return m
}

func (m *Memo[T]) CleanUp() { m.memo.CleanUp() }

func (m *Memo[T]) Dispose() { m.memo.Dispose() }

func (m *Memo[T]) OnCleanup(fn func()) { m.memo.OnCleanUp(fn) }

type Computation[T any] struct {
	computation *internal.Computation
}

// Effect is a computation in the pure tier: it runs after every memo of a transaction settled.
type Effect = Computation[struct{}]

// NewComputation creates a computation that runs now and again whenever what
// it read changes. It belongs to the memo tier, so it runs before effects.
func NewComputation[T any](fn func(prev T) T, seed T) (*Computation[T], error) {
	c, err := internal.NewComputation(current(), func(prev internal.Value) internal.Value {
		return fn(as[T](prev))
	}, seed, false, nil)
	if err != nil {
		return nil, err
	}

	return &Computation[T]{c}, nil
}

// NewEffect creates a reactive effect that runs the given function
// whenever its dependencies change.
func NewEffect(fn func()) (*Effect, error) {
	c, err := internal.NewComputation(current(), fn, nil, true, nil)
	if err != nil {
		return nil, err
	}

	return &Effect{c}, nil
}

// Value is what the last run returned.
func (c *Computation[T]) Value() T {
	return as[T](c.computation.Value())
}

func (c *Computation[T]) CleanUp() { c.computation.CleanUp() }

func (c *Computation[T]) Dispose() { c.computation.Dispose() }

func (c *Computation[T]) OnCleanup(fn func()) { c.computation.OnCleanUp(fn) }

func (c *Computation[T]) Scope() *Scope {
	return &Scope{&c.computation.Scope}
}

// Batch runs fn in a single transaction: dependents update once, after fn returns.
func Batch(fn func()) {
	current().RunUpdates(fn)
}

// Untrack runs the given function without tracking any reactive dependencies.
func Untrack[T any](fn func() T) T {
	var result T
	current().Untrack(func() { result = fn() })
	return result
}

// OnCleanup registers a function to be called when the current scope is cleaned up.
func OnCleanup(fn func()) {
	ctx := current()
	if s := ctx.TopScope(); s != nil {
		s.OnCleanUp(fn)
		return
	}
	ctx.Logger().Warning().Err(ErrNoScope).Log("cleanup ignored")
}

// OnError registers a handler for panics and errors raised by closures under the current scope.
func OnError(fn func(error)) {
	ctx := current()
	if s := ctx.TopScope(); s != nil {
		s.OnError(fn)
		return
	}
	ctx.Logger().Warning().Err(ErrNoScope).Log("error handler ignored")
}

// OnSettled runs fn once the current (or next) outermost transaction is fully drained.
func OnSettled(fn func()) {
	current().OnSettled(fn)
}

// Destroy tears down every root of the current goroutine's graph and forgets it.
func Destroy() {
	current().WillDestroy()
	internal.ReleaseContext()
}

// IsPanic reports whether err wraps a recovered panic, returning its value.
func IsPanic(err error) (any, bool) {
	var perr *internal.PanicError
	if errors.As(err, &perr) {
		return perr.Value, true
	}
	return nil, false
}
