package internal

import "slices"

type Signal struct {
	ctx   *Context
	value Value

	// back-pointers, kept symmetric with each computation's read set
	dependents []*Computation

	mode        EqualityMode
	equalFn     Value
	skipCompare bool

	// set when this signal is the value side of a Memo
	memo *Memo

	hostValue Value
}

func NewSignal(ctx *Context, initial Value) *Signal {
	return &Signal{
		ctx:   ctx,
		value: initial,
		mode:  ctx.equality,
	}
}

func (s *Signal) Context() *Context { return s.ctx }

// HostValue is what the host keeps for this object, so its representation
// lives exactly as long as the object does.
func (s *Signal) HostValue() Value     { return s.hostValue }
func (s *Signal) SetHostValue(v Value) { s.hostValue = v }

// GetValue returns the current value, subscribing the running computation.
func (s *Signal) GetValue() Value {
	if !s.ctx.usable("getValue") {
		return s.value
	}

	if s.memo != nil {
		s.memo.refresh()
	}

	if c := s.ctx.TopComputation(); c != nil {
		s.link(c)
	}

	return s.value
}

// Peek returns the current value without subscribing.
func (s *Signal) Peek() Value {
	return s.value
}

func (s *Signal) link(c *Computation) {
	if c.memo != nil && &c.memo.Signal == s {
		return
	}
	if slices.Contains(c.readSet, s) {
		return
	}

	c.PushSignal(s)
	s.dependents = append(s.dependents, c)
}

func (s *Signal) SetValue(v Value) {
	if !s.ctx.usable("setValue") {
		return
	}

	if len(s.dependents) == 0 {
		s.value = v
		s.skipCompare = false
		return
	}

	if !s.skipCompare && s.equal(s.value, v) {
		s.value = v
		return
	}

	s.value = v
	skip := s.skipCompare
	s.skipCompare = false

	dependents := slices.Clone(s.dependents)
	s.ctx.RunUpdates(func() {
		for _, c := range dependents {
			if c.state == StateNone {
				s.ctx.EnqueueComputation(c)
				if c.kind == KindMemoBacking {
					c.MarkDownstream()
				}
			}

			c.state = StateStale

			if c.memo != nil {
				c.memo.MarkSkipCompare(skip)
			}
		}
	})
}

func (s *Signal) equal(a, b Value) bool {
	if s.mode != EqualCustom || s.equalFn == nil {
		return s.ctx.host.Equal(s.mode, a, b)
	}

	res, err := s.ctx.host.Call(s.equalFn, a, b)
	if err != nil {
		s.ctx.logger.Warning().Err(err).Log("custom equality failed, treating values as different")
		return false
	}

	truth, isBool := s.ctx.host.Truthy(res)
	if !isBool {
		s.ctx.logger.Warning().Bool("coerced", truth).Log("custom equality returned a non-boolean")
	}
	return truth
}

func (s *Signal) EqualityMode() EqualityMode { return s.mode }

func (s *Signal) SetEqualityMode(mode EqualityMode) {
	if mode == EqualCustom && s.equalFn == nil {
		s.ctx.logger.Warning().Log("custom equality mode without an equality function, using deep")
		mode = EqualDeep
	}
	s.mode = mode
}

func (s *Signal) SetCustomEqualityFn(fn Value) {
	s.equalFn = fn
	s.mode = EqualCustom
}

// MarkSkipCompare arms (or disarms) the one-shot suppression of the next equality check.
func (s *Signal) MarkSkipCompare(skip bool) {
	s.skipCompare = skip
}

func (s *Signal) SkipCompare() bool { return s.skipCompare }

func (s *Signal) Dependents() []*Computation {
	return slices.Clone(s.dependents)
}

func (s *Signal) UnlinkComputation(c *Computation) {
	if i := slices.Index(s.dependents, c); i >= 0 {
		s.dependents = slices.Delete(s.dependents, i, i+1)
	}
}

// Dispose unlinks every dependent on both sides.
func (s *Signal) Dispose() {
	if len(s.dependents) > 0 {
		s.ctx.logger.Warning().Int("dependents", len(s.dependents)).Log("signal disposed while still read by computations")
	}

	for _, c := range s.dependents {
		c.UnlinkSignal(s)
	}
	s.dependents = nil
}
