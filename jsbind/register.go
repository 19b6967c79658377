package jsbind

import (
	"github.com/dop251/goja"
	"github.com/dop251/goja_nodejs/require"
)

// Require returns a [require.ModuleLoader] that initialises the signal
// module when loaded by a [goja.Runtime]:
//
//	registry := require.NewRegistry()
//	registry.RegisterNativeModule("signal", jsbind.Require())
//	registry.Enable(runtime)
//
// The provided options are captured and applied each time a new
// runtime calls require for this module.
func Require(opts ...Option) require.ModuleLoader {
	return func(runtime *goja.Runtime, module *goja.Object) {
		m, err := New(runtime, opts...)
		if err != nil {
			panic(runtime.NewGoError(err))
		}
		exports := module.Get("exports").(*goja.Object)
		m.setupExports(exports)
	}
}

// Loader is [Require] for a module that already exists, so the caller
// keeps hold of it (to [Module.Close] it, typically).
func (m *Module) Loader() require.ModuleLoader {
	return func(runtime *goja.Runtime, module *goja.Object) {
		if runtime != m.runtime {
			panic(runtime.NewTypeError("jsbind: module is bound to another runtime"))
		}
		exports := module.Get("exports").(*goja.Object)
		m.setupExports(exports)
	}
}
