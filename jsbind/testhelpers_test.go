package jsbind

import (
	"bytes"
	"testing"

	"github.com/dop251/goja"
	"github.com/joeycumines/logiface"
	"github.com/joeycumines/stumpy"
	"github.com/stretchr/testify/require"
)

// signalTestEnv is a runtime with the module installed as the global
// `signal`, and every export also available as a global.
type signalTestEnv struct {
	runtime *goja.Runtime
	module  *Module
	logs    *bytes.Buffer
}

func newSignalTestEnv(t *testing.T, opts ...Option) *signalTestEnv {
	t.Helper()

	var logs bytes.Buffer
	logger := stumpy.L.New(
		stumpy.L.WithStumpy(stumpy.WithWriter(&logs), stumpy.WithTimeField(``)),
		stumpy.L.WithLevel(logiface.LevelDebug),
	).Logger()

	runtime := goja.New()
	m, err := New(runtime, append([]Option{WithLogger(logger)}, opts...)...)
	require.NoError(t, err)

	exports := runtime.NewObject()
	m.SetupExports(exports)
	require.NoError(t, runtime.Set("signal", exports))
	_, err = runtime.RunString(`
		var { createSignal, readSignal, writeSignal, createComputation, createMemo,
			untrack, createScope, getScope, cleanUp, onCleanUp, runUpdates,
			setEqualityMode, markSkipCompare, onError, onSettled, destroyScope } = signal;
		var log = [];
	`)
	require.NoError(t, err)

	return &signalTestEnv{runtime: runtime, module: m, logs: &logs}
}

func (env *signalTestEnv) run(t *testing.T, code string) goja.Value {
	t.Helper()
	v, err := env.runtime.RunString(code)
	require.NoError(t, err)
	return v
}

// log returns the script's global log array as JSON.
func (env *signalTestEnv) log(t *testing.T) string {
	t.Helper()
	return env.run(t, `JSON.stringify(log)`).String()
}

func (env *signalTestEnv) shutdown() {
	env.module.Close()
}
