package internal

func (c *Context) PushScope(s *Scope) {
	c.scopes = append(c.scopes, s)
}

func (c *Context) PopScope() *Scope {
	if len(c.scopes) == 0 {
		return nil
	}
	s := c.scopes[len(c.scopes)-1]
	c.scopes = c.scopes[:len(c.scopes)-1]
	return s
}

func (c *Context) TopScope() *Scope {
	if len(c.scopes) == 0 {
		return nil
	}
	return c.scopes[len(c.scopes)-1]
}

func (c *Context) PushComputation(comp *Computation) {
	c.computations = append(c.computations, comp)
}

func (c *Context) PopComputation() *Computation {
	if len(c.computations) == 0 {
		return nil
	}
	comp := c.computations[len(c.computations)-1]
	c.computations = c.computations[:len(c.computations)-1]
	return comp
}

// TopComputation is the computation reads should subscribe, or nil when
// reads are untracked.
func (c *Context) TopComputation() *Computation {
	if c.untracked || len(c.computations) == 0 {
		return nil
	}
	return c.computations[len(c.computations)-1]
}

func (c *Context) MarkUnTrack(untracked bool) {
	c.untracked = untracked
}

func (c *Context) Untracked() bool {
	return c.untracked
}

func (c *Context) Untrack(fn func()) {
	prev := c.untracked
	c.untracked = true
	defer func() { c.untracked = prev }()

	fn()
}

// runWithScope runs fn with s and comp on top of the stacks. Tracking is
// always on inside, whatever the caller's untracked flag was.
func (c *Context) runWithScope(s *Scope, comp *Computation, fn func()) {
	c.PushScope(s)
	c.PushComputation(comp)

	prev := c.untracked
	c.untracked = false

	defer func() {
		c.untracked = prev
		c.PopComputation()
		c.PopScope()
	}()

	fn()
}

// RunInScope runs fn with s as the owner of anything it creates. Reads made
// by fn itself do not subscribe.
func (c *Context) RunInScope(s *Scope, fn func()) {
	c.runWithScope(s, nil, fn)
}
