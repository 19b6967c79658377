package jsbind

import (
	"fmt"

	"github.com/AnatoleLucet/signalctx/internal"
	"github.com/dop251/goja"
	"github.com/google/go-cmp/cmp"
)

// host lets the engine call script closures and compare script values.
type host struct {
	module *Module
}

var _ internal.Host = (*host)(nil)

var handleIdentity = cmp.Comparer(func(a, b *handle) bool { return a == b })

func (h *host) Call(fn internal.Value, args ...internal.Value) (result internal.Value, err error) {
	m := h.module
	if m.closed {
		return nil, internal.ErrRuntimeGone
	}

	value, ok := fn.(goja.Value)
	if !ok {
		return nil, fmt.Errorf("%w: %T", internal.ErrNotCallable, fn)
	}
	callable, ok := goja.AssertFunction(value)
	if !ok {
		return nil, fmt.Errorf("%w: %s", internal.ErrNotCallable, value.String())
	}

	defer func() {
		if r := recover(); r != nil {
			result, err = nil, &internal.PanicError{Value: r}
		}
	}()

	jsArgs := make([]goja.Value, len(args))
	for i, arg := range args {
		jsArgs[i] = m.toJS(arg)
	}

	v, err := callable(goja.Undefined(), jsArgs...)
	if err != nil {
		return nil, err
	}
	return v, nil
}

func (h *host) Equal(mode internal.EqualityMode, a, b internal.Value) bool {
	av, bv := h.module.toJS(a), h.module.toJS(b)
	if av.StrictEquals(bv) {
		return true
	}
	if mode == internal.EqualStrict {
		return false
	}
	return internal.DeepEqual(av.Export(), bv.Export(), handleIdentity)
}

func (h *host) Truthy(v internal.Value) (bool, bool) {
	jv := h.module.toJS(v)
	_, isBool := jv.Export().(bool)
	return jv.ToBoolean(), isBool
}
