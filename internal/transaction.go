package internal

import (
	"fmt"
	"time"
)

// RunUpdates calls fn inside an update transaction and drains the pending
// tiers once the outermost transaction at each tier completes.
func (c *Context) RunUpdates(fn func()) {
	c.runUpdates(fn, false)
}

// runUpdates with init set only opens the pure tier, so every write made by
// fn settles its memos straight away while effects wait for fn to return.
// Root scopes are created this way.
func (c *Context) runUpdates(fn func(), init bool) {
	if !c.usable("runUpdates") {
		return
	}

	if c.memoQueue != nil {
		fn()
		return
	}

	if !init {
		c.memoQueue = NewComputationQueue()
	}

	wait := c.pureQueue != nil
	if !wait {
		c.pureQueue = NewComputationQueue()
	}

	c.depth++
	c.clock++
	tx := c.clock
	start := time.Now()
	c.observer.TransactionStarted(tx)

	defer func() {
		if r := recover(); r != nil {
			err := &PanicError{Value: r}
			c.logger.Err().Err(err).Uint64("tx", tx).Log("update aborted")
			c.handleError(c.TopScope(), err)
			c.abortUpdates(tx, wait)
		}

		c.depth--
		c.observer.TransactionCompleted(tx, time.Since(start))

		if c.depth == 0 {
			c.settled.Run()
		}
	}()

	fn()
	c.completeUpdates(wait)
}

func (c *Context) completeUpdates(wait bool) {
	// drained in place: memos appended while draining join the same pass
	if q := c.memoQueue; q != nil {
		for comp, ok := q.Pop(); ok; comp, ok = q.Pop() {
			c.RunComputation(comp)
		}
		c.memoQueue = nil
	}

	if wait {
		return
	}

	list := c.pureQueue
	c.pureQueue = nil

	if list.Len() > 0 {
		c.runUpdates(func() { c.runComputationList(list) }, false)
	}
}

// abortUpdates drains what an aborted transaction had queued, so writes made
// before the panic still reach their dependents. Anything that can not be
// drained goes back to StateNone and is picked up by the next write.
func (c *Context) abortUpdates(tx uint64, wait bool) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Err().Err(&PanicError{Value: r}).Uint64("tx", tx).Log("aborted update not drained")
			c.memoQueue.reset()
			c.memoQueue = nil
			if !wait {
				c.pureQueue.reset()
				c.pureQueue = nil
			}
		}
	}()

	c.completeUpdates(wait)
}

func (c *Context) EnqueueComputation(comp *Computation) {
	q := &c.memoQueue
	if comp.kind == KindPureEffect {
		q = &c.pureQueue
	}

	if *q == nil {
		c.logger.Debug().Stringer("kind", comp.kind).Log("pending queue created outside of a transaction")
		*q = NewComputationQueue()
	}

	if (*q).Enqueue(comp) {
		c.observer.ComputationEnqueued(comp.kind)
	}
}

// RunComputation brings comp up to date, running its stale owners first.
func (c *Context) RunComputation(comp *Computation) {
	switch comp.state {
	case StateNone:
		return
	case StatePending:
		comp.LookUpstream(comp)
		return
	}

	ancestors := []*Computation{comp}
	for s := comp.owner; s != nil; s = s.owner {
		a := s.computation
		if a == nil {
			continue
		}
		if a.updatedTime >= c.clock {
			break
		}
		if a.state != StateNone {
			ancestors = append(ancestors, a)
		}
	}

	for i := len(ancestors) - 1; i >= 0; i-- {
		a := ancestors[i]

		switch a.state {
		case StateStale:
			c.UpdateComputation(a)
		case StatePending:
			queue := c.memoQueue
			c.memoQueue = nil
			c.RunUpdates(func() { a.LookUpstream(comp) })
			c.memoQueue = queue
		}
	}
}

func (c *Context) UpdateComputation(comp *Computation) {
	comp.CleanUp()
	c.runWithScope(&comp.Scope, comp, func() {
		comp.invoke(c.clock)
	})
}

func (c *Context) runComputationList(list *ComputationQueue) {
	defer list.reset()
	for comp, ok := list.Pop(); ok; comp, ok = list.Pop() {
		c.RunComputation(comp)
	}
}

// OnSettled registers fn to run once the outermost transaction has fully
// drained. Outside of a transaction it waits for the next one.
func (c *Context) OnSettled(fn func()) {
	c.settled.Enqueue(fn)
}

// handleError routes err to the nearest scope error handler starting at s,
// logging it when nothing handles it.
func (c *Context) handleError(s *Scope, err error) {
	for o := s; o != nil; o = o.owner {
		if len(o.catchers) == 0 {
			continue
		}

		for _, catcher := range o.catchers {
			if _, cerr := c.host.Call(catcher, err); cerr != nil {
				c.logger.Err().Err(cerr).Log("error handler failed")
			}
		}
		return
	}

	ref := "none"
	if s != nil {
		ref = s.ref.String()
	}
	c.logger.Err().Err(err).Str("scope", ref).Log(fmt.Sprintf("unhandled error in %s closure", ref))
}
