package signalctx

import "github.com/AnatoleLucet/signalctx/internal"

// Scope owns the computations created while it is current and the cleanups
// registered on it.
type Scope struct {
	scope *internal.Scope
}

// NewRoot creates a root scope and runs fn inside it. Effects created by fn
// first run as they are created, then once more after fn returns if a write
// made by fn invalidated them.
func NewRoot(fn func(s *Scope)) *Scope {
	r := internal.NewRootScope(current(), func(v internal.Value) internal.Value {
		fn(&Scope{&v.(*internal.RootScope).Scope})
		return nil
	})
	return &Scope{&r.Scope}
}

// NewScope is NewRoot for closures that produce a value.
func NewScope[T any](fn func(s *Scope) T) T {
	r := internal.NewRootScope(current(), func(v internal.Value) internal.Value {
		return fn(&Scope{&v.(*internal.RootScope).Scope})
	})
	return as[T](r.ObtainResult())
}

// CurrentScope returns the scope on top of the stack, or nil.
func CurrentScope() *Scope {
	s := current().TopScope()
	if s == nil {
		return nil
	}
	return &Scope{s}
}

// Run a function within this scope.
// Each computation created within the function will be owned by this scope,
// and will be disposed when the scope is cleaned up.
func (s *Scope) Run(fn func() error) error {
	var err error
	s.scope.Context().RunInScope(s.scope, func() { err = fn() })
	return err
}

// Add a cleanup function to be called when the scope is cleaned up.
func (s *Scope) OnCleanup(fn func()) { s.scope.OnCleanUp(fn) }

// Add a function to be called when a closure run under this scope fails.
// Without a handler, failures are logged.
func (s *Scope) OnError(fn func(error)) { s.scope.OnError(fn) }

// CleanUp disposes the owned computations and runs the cleanups. The scope stays usable.
func (s *Scope) CleanUp() { s.scope.CleanUp() }

// Dispose this scope and all its children for good.
func (s *Scope) Dispose() {
	switch h := s.scope.Handle().(type) {
	case *internal.RootScope:
		h.Destroy()
	case *internal.Computation:
		h.Dispose()
	case *internal.Memo:
		h.Dispose()
	default:
		s.scope.CleanUp()
	}
}

// Owner returns the parent scope, or nil for a top level root.
func (s *Scope) Owner() *Scope {
	if o := s.scope.Owner(); o != nil {
		return &Scope{o}
	}
	return nil
}

type Context[T any] struct {
	initial T
}

// NewContext creates a new scoped value with a default.
func NewContext[T any](initial T) *Context[T] {
	return &Context[T]{initial: initial}
}

// Value retrieves the value set on the current scope or its owners,
// or the default if there is none.
func (c *Context[T]) Value() T {
	if s := current().TopScope(); s != nil {
		if v, ok := s.ContextValue(c); ok {
			return as[T](v)
		}
	}
	return c.initial
}

// Set a new value for the context in the current scope.
func (c *Context[T]) Set(value T) {
	ctx := current()
	if s := ctx.TopScope(); s != nil {
		s.SetContextValue(c, value)
		return
	}
	ctx.Logger().Debug().Err(ErrNoScope).Log("context value dropped")
}
