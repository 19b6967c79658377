package internal

import (
	"slices"
	"time"
)

type Computation struct {
	Scope

	fn    Value
	value Value

	kind        ScopeKind
	state       State
	updatedTime uint64

	// signals read during the last run, kept symmetric with their dependents
	readSet []*Signal

	memo *Memo

	running  bool
	disposed bool
}

// NewComputation creates a computation owned by the top scope and runs it once.
func NewComputation(ctx *Context, fn Value, seed Value, pure bool, memo *Memo) (*Computation, error) {
	if !ctx.usable("createComputation") {
		return nil, ErrContextDestroyed
	}

	owner := ctx.TopScope()
	if owner == nil {
		ctx.logger.Err().Err(ErrNoScope).Log("computation not created")
		return nil, ErrNoScope
	}

	c := &Computation{
		fn:    fn,
		value: seed,
		memo:  memo,
		kind:  KindMemoBacking,
		state: StateStale,
	}
	c.Scope.init(ctx, RefComputation)
	c.Scope.computation = c

	if pure && memo == nil {
		c.kind = KindPureEffect
	}
	if memo != nil {
		c.state = StateNone
		c.ref = RefMemo
		memo.computation = c
	}

	owner.AdoptComputation(c)
	ctx.UpdateComputation(c)

	return c, nil
}

func (c *Computation) Kind() ScopeKind     { return c.kind }
func (c *Computation) State() State        { return c.state }
func (c *Computation) UpdatedTime() uint64 { return c.updatedTime }
func (c *Computation) Value() Value        { return c.value }
func (c *Computation) Memo() *Memo         { return c.memo }
func (c *Computation) Disposed() bool      { return c.disposed }

func (c *Computation) ReadSet() []*Signal {
	return slices.Clone(c.readSet)
}

func (c *Computation) PushSignal(s *Signal) {
	c.readSet = append(c.readSet, s)
}

func (c *Computation) UnlinkSignal(s *Signal) {
	if i := slices.Index(c.readSet, s); i >= 0 {
		c.readSet = slices.Delete(c.readSet, i, i+1)
	}
}

// CleanUp unlinks c from its sources and tears down everything it owns.
func (c *Computation) CleanUp() {
	for _, s := range c.readSet {
		s.UnlinkComputation(c)
	}
	c.readSet = nil

	c.Scope.CleanUp()
	c.state = StateNone
}

// Dispose cleans c up for good; it never runs again.
func (c *Computation) Dispose() {
	c.CleanUp()
	c.disposed = true
}

func (c *Computation) MarkDownstream() {
	if c.memo != nil {
		c.memo.MarkDownstream()
	}
}

// LookUpstream settles the memos c read before deciding whether c must run.
// The state is cleared first so an upstream memo that does change re-enqueues c.
func (c *Computation) LookUpstream(ignore *Computation) {
	c.state = StateNone

	for _, s := range slices.Clone(c.readSet) {
		if s.memo == nil || s.memo.computation == nil {
			continue
		}

		source := s.memo.computation
		switch source.state {
		case StateStale:
			if source != ignore {
				c.ctx.RunComputation(source)
			}
		case StatePending:
			source.LookUpstream(ignore)
		}
	}
}

func (c *Computation) invoke(tx uint64) {
	if c.disposed {
		return
	}
	if c.running {
		c.ctx.logger.Warning().Err(ErrReentrant).Uint64("tx", tx).Log("invoke ignored")
		return
	}

	c.running = true
	start := time.Now()
	v, err := c.ctx.host.Call(c.fn, c.value)
	c.running = false
	c.ctx.observer.ComputationInvoked(c.kind, time.Since(start), err)

	if err != nil {
		c.ctx.handleError(&c.Scope, err)
		return
	}

	c.value = v

	if c.updatedTime <= tx {
		if c.memo != nil {
			c.memo.OnInvoked(v)
		}
		c.updatedTime = tx
	}
}
