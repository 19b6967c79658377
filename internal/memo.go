package internal

import "slices"

// Memo is a Signal whose value is produced by a single Computation.
type Memo struct {
	Signal

	computation *Computation
}

func NewMemo(ctx *Context, initial Value) *Memo {
	m := &Memo{
		Signal: Signal{
			ctx:   ctx,
			value: initial,
			mode:  ctx.equality,
		},
	}
	m.Signal.memo = m
	return m
}

// InitComputation creates the computation backing m and runs it once.
func (m *Memo) InitComputation(fn Value) error {
	if m.computation != nil {
		return nil
	}
	_, err := NewComputation(m.ctx, fn, m.value, false, m)
	return err
}

func (m *Memo) Computation() *Computation { return m.computation }

func (m *Memo) CleanUp() {
	if m.computation != nil {
		m.computation.CleanUp()
	}
}

func (m *Memo) OnCleanUp(fn Value) {
	if m.computation != nil {
		m.computation.OnCleanUp(fn)
	}
}

func (m *Memo) OnInvoked(v Value) {
	m.Signal.SetValue(v)
}

// MarkDownstream marks the whole subgraph below m as pending.
func (m *Memo) MarkDownstream() {
	for _, c := range slices.Clone(m.dependents) {
		if c.state != StateNone {
			continue
		}

		c.state = StatePending
		m.ctx.EnqueueComputation(c)
		c.MarkDownstream()
	}
}

func (m *Memo) LookUpstream(ignore *Computation) {
	if m.computation != nil {
		m.computation.LookUpstream(ignore)
	}
}

// refresh re-derives m before a read when its computation is behind.
func (m *Memo) refresh() {
	c := m.computation
	if c == nil || c.running || c.disposed {
		return
	}

	if c.state == StatePending {
		c.LookUpstream(c)
	}
	if c.state == StateStale {
		m.ctx.RunComputation(c)
	}
}

// Dispose stops the backing computation and unlinks every reader.
func (m *Memo) Dispose() {
	if m.computation != nil {
		m.computation.Dispose()
	}
	m.Signal.Dispose()
}
