package internal

import (
	"bytes"
	"testing"

	"github.com/joeycumines/logiface"
	"github.com/joeycumines/stumpy"
	"github.com/stretchr/testify/assert"
)

func newTestContext(t *testing.T, opts ...Option) (*Context, *bytes.Buffer) {
	t.Helper()

	var buf bytes.Buffer
	logger := stumpy.L.New(
		stumpy.L.WithStumpy(stumpy.WithWriter(&buf), stumpy.WithTimeField(``)),
		stumpy.L.WithLevel(logiface.LevelDebug),
	).Logger()

	return NewContext(append([]Option{WithLogger(logger)}, opts...)...), &buf
}

// write mirrors the host writeSignal op.
func write(ctx *Context, s *Signal, v Value) {
	ctx.RunUpdates(func() { s.SetValue(v) })
}

func mustComputation(t *testing.T, ctx *Context, fn Value, seed Value, pure bool) *Computation {
	t.Helper()

	c, err := NewComputation(ctx, fn, seed, pure, nil)
	if err != nil {
		t.Fatalf("new computation: %v", err)
	}
	return c
}

func mustMemo(t *testing.T, ctx *Context, seed Value, fn Value) *Memo {
	t.Helper()

	m := NewMemo(ctx, seed)
	if err := m.InitComputation(fn); err != nil {
		t.Fatalf("init memo: %v", err)
	}
	return m
}

func assertSymmetric(t *testing.T, signals []*Signal, computations []*Computation) {
	t.Helper()

	for _, s := range signals {
		for _, c := range computations {
			assert.Equal(t,
				containsComputation(s.Dependents(), c),
				containsSignal(c.ReadSet(), s),
				"signal/computation links out of sync",
			)
		}
	}
}

func containsComputation(list []*Computation, c *Computation) bool {
	for _, v := range list {
		if v == c {
			return true
		}
	}
	return false
}

func containsSignal(list []*Signal, s *Signal) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
