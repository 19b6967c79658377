package jsbind

import (
	"strconv"

	"github.com/AnatoleLucet/signalctx/internal"
	"github.com/dop251/goja"
)

func (m *Module) setupExports(exports *goja.Object) {
	for name, fn := range map[string]func(goja.FunctionCall) goja.Value{
		"createSignal":      m.jsCreateSignal,
		"readSignal":        m.jsReadSignal,
		"writeSignal":       m.jsWriteSignal,
		"createComputation": m.jsCreateComputation,
		"createMemo":        m.jsCreateMemo,
		"untrack":           m.jsUntrack,
		"createScope":       m.jsCreateScope,
		"getScope":          m.jsGetScope,
		"cleanUp":           m.jsCleanUp,
		"onCleanUp":         m.jsOnCleanUp,
		"runUpdates":        m.jsRunUpdates,
		"setEqualityMode":   m.jsSetEqualityMode,
		"markSkipCompare":   m.jsMarkSkipCompare,
		"onError":           m.jsOnError,
		"onSettled":         m.jsOnSettled,
		"destroyScope":      m.jsDestroyScope,
	} {
		_ = exports.Set(name, m.runtime.ToValue(fn))
	}
}

// invalid logs a misuse of op. Callers return undefined.
func (m *Module) invalid(op string, reason string) goja.Value {
	m.logger.Warning().Str("op", op).Log(reason)
	return goja.Undefined()
}

// rethrow surfaces a closure error to the calling script.
func (m *Module) rethrow(err error) {
	if ex, ok := err.(*goja.Exception); ok {
		panic(ex.Value())
	}
	panic(m.runtime.NewGoError(err))
}

func (m *Module) callable(v goja.Value) bool {
	_, ok := goja.AssertFunction(v)
	return ok
}

// createSignal(initial)
func (m *Module) jsCreateSignal(call goja.FunctionCall) goja.Value {
	return m.wrap(internal.NewSignal(m.ctx, call.Argument(0)))
}

// readSignal(signalOrMemo)
func (m *Module) jsReadSignal(call goja.FunctionCall) goja.Value {
	switch t := m.unwrap(call.Argument(0)).(type) {
	case *internal.Signal:
		return m.toJS(t.GetValue())
	case *internal.Memo:
		return m.toJS(t.GetValue())
	default:
		return m.invalid("readSignal", "argument is not a signal or memo")
	}
}

// writeSignal(signal, value) or writeSignal([s1, s2], [v1, v2])
func (m *Module) jsWriteSignal(call goja.FunctionCall) goja.Value {
	target, value := call.Argument(0), call.Argument(1)

	if s, ok := m.unwrap(target).(*internal.Signal); ok {
		m.ctx.RunUpdates(func() { s.SetValue(value) })
		return goja.Undefined()
	}

	signals, ok := m.array(target)
	if !ok {
		return m.invalid("writeSignal", "argument is not a signal or an array of signals")
	}
	values, _ := m.array(value)

	m.ctx.RunUpdates(func() {
		for i, v := range signals {
			s, ok := m.unwrap(v).(*internal.Signal)
			if !ok {
				m.logger.Warning().Str("op", "writeSignal").Int("index", i).Log("array element is not a signal")
				continue
			}
			next := goja.Undefined()
			if i < len(values) {
				next = values[i]
			}
			s.SetValue(next)
		}
	})
	return goja.Undefined()
}

// array returns the elements of a script array.
func (m *Module) array(v goja.Value) ([]goja.Value, bool) {
	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return nil, false
	}
	obj, ok := v.(*goja.Object)
	if !ok || obj.ClassName() != "Array" {
		return nil, false
	}
	n := int(obj.Get("length").ToInteger())
	out := make([]goja.Value, n)
	for i := range out {
		out[i] = obj.Get(strconv.Itoa(i))
	}
	return out, true
}

// createComputation(fn, seed, pure)
func (m *Module) jsCreateComputation(call goja.FunctionCall) goja.Value {
	fn := call.Argument(0)
	if !m.callable(fn) {
		return m.invalid("createComputation", "closure is not callable")
	}
	c, err := internal.NewComputation(m.ctx, fn, call.Argument(1), call.Argument(2).ToBoolean(), nil)
	if err != nil {
		return goja.Undefined()
	}
	return m.wrap(c)
}

// createMemo(fn, initial)
func (m *Module) jsCreateMemo(call goja.FunctionCall) goja.Value {
	fn := call.Argument(0)
	if !m.callable(fn) {
		return m.invalid("createMemo", "closure is not callable")
	}
	memo := internal.NewMemo(m.ctx, call.Argument(1))
	if err := memo.InitComputation(fn); err != nil {
		return goja.Undefined()
	}
	return m.wrap(memo)
}

// untrack(fn) returns what fn returns. Reads made by fn never subscribe.
func (m *Module) jsUntrack(call goja.FunctionCall) goja.Value {
	fn := call.Argument(0)
	if !m.callable(fn) {
		return m.invalid("untrack", "closure is not callable")
	}
	var (
		result internal.Value
		err    error
	)
	m.ctx.Untrack(func() {
		result, err = m.ctx.Host().Call(fn)
	})
	if err != nil {
		m.rethrow(err)
	}
	return m.toJS(result)
}

// createScope(fn) calls fn with the new scope and returns its result.
func (m *Module) jsCreateScope(call goja.FunctionCall) goja.Value {
	fn := call.Argument(0)
	if !m.callable(fn) {
		return m.invalid("createScope", "closure is not callable")
	}
	r := internal.NewRootScope(m.ctx, fn)
	return m.toJS(r.ObtainResult())
}

// getScope() returns the innermost scope, computation or memo.
func (m *Module) jsGetScope(goja.FunctionCall) goja.Value {
	top := m.ctx.TopScope()
	if top == nil {
		return goja.Undefined()
	}
	return m.toJS(top)
}

// cleanUp(scope)
func (m *Module) jsCleanUp(call goja.FunctionCall) goja.Value {
	switch t := m.unwrap(call.Argument(0)).(type) {
	case *internal.RootScope:
		t.CleanUp()
	case *internal.Computation:
		t.CleanUp()
	case *internal.Memo:
		t.CleanUp()
	default:
		return m.invalid("cleanUp", "argument is not a scope")
	}
	return goja.Undefined()
}

// onCleanUp(scope, fn)
func (m *Module) jsOnCleanUp(call goja.FunctionCall) goja.Value {
	fn := call.Argument(1)
	if !m.callable(fn) {
		return m.invalid("onCleanUp", "closure is not callable")
	}
	switch t := m.unwrap(call.Argument(0)).(type) {
	case *internal.RootScope:
		t.OnCleanUp(fn)
	case *internal.Computation:
		t.OnCleanUp(fn)
	case *internal.Memo:
		t.OnCleanUp(fn)
	default:
		return m.invalid("onCleanUp", "argument is not a scope")
	}
	return goja.Undefined()
}

// runUpdates(fn) batches every write made by fn into one transaction.
func (m *Module) jsRunUpdates(call goja.FunctionCall) goja.Value {
	fn := call.Argument(0)
	if !m.callable(fn) {
		return m.invalid("runUpdates", "closure is not callable")
	}
	var (
		result internal.Value
		err    error
	)
	m.ctx.RunUpdates(func() {
		result, err = m.ctx.Host().Call(fn)
	})
	if err != nil {
		m.rethrow(err)
	}
	return m.toJS(result)
}

// signal accepts a signal or a memo, both carry a value and equality.
func (m *Module) signal(v goja.Value) *internal.Signal {
	switch t := m.unwrap(v).(type) {
	case *internal.Signal:
		return t
	case *internal.Memo:
		return &t.Signal
	}
	return nil
}

// setEqualityMode(signal, "deep" | "strict" | fn)
func (m *Module) jsSetEqualityMode(call goja.FunctionCall) goja.Value {
	s := m.signal(call.Argument(0))
	if s == nil {
		return m.invalid("setEqualityMode", "argument is not a signal or memo")
	}

	mode := call.Argument(1)
	if m.callable(mode) {
		s.SetCustomEqualityFn(mode)
		return goja.Undefined()
	}

	parsed, err := internal.ParseEqualityMode(mode.String())
	if err != nil || parsed == internal.EqualCustom {
		return m.invalid("setEqualityMode", "unknown equality mode")
	}
	s.SetEqualityMode(parsed)
	return goja.Undefined()
}

// markSkipCompare(signal) makes the next write propagate even if equal.
func (m *Module) jsMarkSkipCompare(call goja.FunctionCall) goja.Value {
	s := m.signal(call.Argument(0))
	if s == nil {
		return m.invalid("markSkipCompare", "argument is not a signal or memo")
	}
	s.MarkSkipCompare(true)
	return goja.Undefined()
}

// onError(fn) catches errors thrown by closures under the current scope.
func (m *Module) jsOnError(call goja.FunctionCall) goja.Value {
	fn := call.Argument(0)
	if !m.callable(fn) {
		return m.invalid("onError", "closure is not callable")
	}
	top := m.ctx.TopScope()
	if top == nil {
		return m.invalid("onError", "no current scope")
	}
	top.OnError(fn)
	return goja.Undefined()
}

// onSettled(fn) runs fn once the outermost transaction completes.
func (m *Module) jsOnSettled(call goja.FunctionCall) goja.Value {
	fn := call.Argument(0)
	if !m.callable(fn) {
		return m.invalid("onSettled", "closure is not callable")
	}
	m.ctx.OnSettled(func() {
		if _, err := m.ctx.Host().Call(fn); err != nil {
			m.logger.Err().Err(err).Log("settled callback failed")
		}
	})
	return goja.Undefined()
}

// destroyScope(handle) destroys a scope or disposes anything else.
func (m *Module) jsDestroyScope(call goja.FunctionCall) goja.Value {
	switch t := m.unwrap(call.Argument(0)).(type) {
	case *internal.RootScope:
		t.Destroy()
	case *internal.Computation:
		t.Dispose()
	case *internal.Memo:
		t.Dispose()
	case *internal.Signal:
		t.Dispose()
	default:
		return m.invalid("destroyScope", "argument is not a handle")
	}
	return goja.Undefined()
}
