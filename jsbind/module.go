package jsbind

import (
	"github.com/AnatoleLucet/signalctx/internal"
	"github.com/dop251/goja"
	"github.com/joeycumines/logiface"
)

// Module binds one reactive graph to a [goja.Runtime]. A Module is not
// safe for concurrent use, it follows the runtime's own threading rules.
type Module struct {
	runtime *goja.Runtime
	ctx     *internal.Context
	logger  *logiface.Logger[logiface.Event]
	closed  bool
}

// handle is what scripts hold for a signal, memo, computation or scope.
// It has no visible properties.
type handle struct {
	module *Module
	target any
}

// bound is implemented by every engine object a handle can point at. The
// handle is stored on the object itself and is collected with it.
type bound interface {
	HostValue() internal.Value
	SetHostValue(internal.Value)
}

// New creates a new [Module] bound to the given runtime.
// Panics if runtime is nil.
func New(runtime *goja.Runtime, opts ...Option) (*Module, error) {
	if runtime == nil {
		panic("jsbind: runtime must not be nil")
	}
	cfg, err := resolveOptions(opts)
	if err != nil {
		return nil, err
	}

	m := &Module{
		runtime: runtime,
		logger:  cfg.logger,
	}
	m.ctx = internal.NewContext(
		internal.WithHost(&host{module: m}),
		internal.WithLogger(cfg.logger),
		internal.WithObserver(cfg.observers...),
		internal.WithDefaultEquality(cfg.equality),
	)
	return m, nil
}

// Runtime returns the [goja.Runtime] this module is bound to.
func (m *Module) Runtime() *goja.Runtime {
	return m.runtime
}

// SetupExports populates exports with the module's functions, for use
// outside of a require registry.
func (m *Module) SetupExports(exports *goja.Object) {
	m.setupExports(exports)
}

// Close destroys every live scope, running their cleanups. Afterwards
// the graph rejects all work and script closures are no longer called.
func (m *Module) Close() {
	if m.closed {
		return
	}
	m.ctx.WillDestroy()
	m.closed = true
}

// wrap returns the script-side handle for an engine object, the same
// value every time for the same object.
func (m *Module) wrap(target bound) goja.Value {
	if v, ok := target.HostValue().(goja.Value); ok {
		return v
	}
	v := m.runtime.ToValue(&handle{module: m, target: target})
	target.SetHostValue(v)
	return v
}

// unwrap returns the engine object behind a handle, or nil.
func (m *Module) unwrap(v goja.Value) any {
	if v == nil {
		return nil
	}
	h, ok := v.Export().(*handle)
	if !ok || h.module != m {
		return nil
	}
	return h.target
}

// toJS converts an engine value to what scripts see.
func (m *Module) toJS(v internal.Value) goja.Value {
	switch v := v.(type) {
	case nil:
		return goja.Undefined()
	case goja.Value:
		return v
	case *internal.Signal, *internal.Memo, *internal.Computation, *internal.RootScope:
		return m.wrap(v.(bound))
	case *internal.Scope:
		if h, ok := v.Handle().(bound); ok {
			return m.wrap(h)
		}
		return goja.Undefined()
	case *goja.Exception:
		return v.Value()
	case error:
		return m.runtime.NewGoError(v)
	default:
		return m.runtime.ToValue(v)
	}
}
