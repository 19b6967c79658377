// Package jsbind exposes the reactive graph to JavaScript running in a
// [goja.Runtime].
//
// Each [Module] owns one graph. Signals, memos, computations and scopes are
// handed to scripts as opaque handle objects; passing anything else where a
// handle is expected logs a warning and the operation returns undefined.
//
//	registry := require.NewRegistry()
//	registry.RegisterNativeModule("signal", jsbind.Require())
//	registry.Enable(runtime)
//
//	const { createScope, createSignal, readSignal, writeSignal, createMemo, createComputation } = require('signal');
//
//	createScope(s => {
//	  const a = createSignal(1), b = createSignal(2);
//	  const sum = createMemo(() => readSignal(a) + readSignal(b), 0);
//	  createComputation(() => console.log(readSignal(sum)), null, false);
//	  writeSignal([a, b], [10, 20]);
//	});
package jsbind
