package telemetry

import (
	"testing"

	"github.com/AnatoleLucet/signalctx/internal"
)

// newGraph builds a root holding one signal read by one effect. The effect
// panics once the signal goes above limit.
func newGraph(t *testing.T, observer internal.Observer, limit int) (*internal.Context, *internal.Signal) {
	t.Helper()

	ctx := internal.NewContext(internal.WithObserver(observer))
	t.Cleanup(ctx.WillDestroy)

	var s *internal.Signal
	internal.NewRootScope(ctx, func(internal.Value) {
		s = internal.NewSignal(ctx, 1)
		_, err := internal.NewComputation(ctx, func(internal.Value) internal.Value {
			if v := s.GetValue().(int); v > limit {
				panic("over the limit")
			}
			return nil
		}, nil, true, nil)
		if err != nil {
			t.Fatal(err)
		}
	})
	return ctx, s
}

func write(ctx *internal.Context, s *internal.Signal, v internal.Value) {
	ctx.RunUpdates(func() { s.SetValue(v) })
}
