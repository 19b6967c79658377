package internal

import "slices"

type Scope struct {
	ctx *Context
	ref RefType

	owner *Scope

	// strongly owned, torn down in reverse order
	computations []*Computation
	children     []*RootScope

	cleanups []Value
	catchers []Value

	// values inherited by nested scopes
	values map[any]Value

	// the concrete object this scope belongs to, if any
	computation *Computation
	root        *RootScope

	hostValue Value
}

func (s *Scope) init(ctx *Context, ref RefType) {
	s.ctx = ctx
	s.ref = ref
}

func (s *Scope) Context() *Context { return s.ctx }
func (s *Scope) Ref() RefType      { return s.ref }
func (s *Scope) Owner() *Scope     { return s.owner }

// HostValue is what the host keeps for this scope, see Signal.HostValue.
func (s *Scope) HostValue() Value     { return s.hostValue }
func (s *Scope) SetHostValue(v Value) { s.hostValue = v }

// Handle returns the most derived object behind s: a *Memo, *Computation or *RootScope.
func (s *Scope) Handle() any {
	switch {
	case s.computation != nil && s.computation.memo != nil:
		return s.computation.memo
	case s.computation != nil:
		return s.computation
	case s.root != nil:
		return s.root
	default:
		return s
	}
}

func (s *Scope) AdoptComputation(c *Computation) {
	s.computations = append(s.computations, c)
	c.owner = s
}

func (s *Scope) Computations() []*Computation {
	return slices.Clone(s.computations)
}

func (s *Scope) OnCleanUp(fn Value) {
	s.cleanups = append(s.cleanups, fn)
}

// OnError registers a handler for errors raised by closures run under s.
func (s *Scope) OnError(fn Value) {
	s.catchers = append(s.catchers, fn)
}

// CleanUp tears down owned computations, then nested roots, then runs the
// cleanup closures. All three go in reverse order.
func (s *Scope) CleanUp() {
	computations := s.computations
	s.computations = nil
	for i := len(computations) - 1; i >= 0; i-- {
		computations[i].Dispose()
	}

	children := s.children
	s.children = nil
	for i := len(children) - 1; i >= 0; i-- {
		children[i].Destroy()
	}

	cleanups := s.cleanups
	s.cleanups = nil
	for i := len(cleanups) - 1; i >= 0; i-- {
		if _, err := s.ctx.host.Call(cleanups[i]); err != nil {
			s.ctx.handleError(s, err)
		}
	}
}

func (s *Scope) SetContextValue(key any, v Value) {
	if s.values == nil {
		s.values = make(map[any]Value)
	}
	s.values[key] = v
}

// ContextValue looks key up on s and then on its owners.
func (s *Scope) ContextValue(key any) (Value, bool) {
	for o := s; o != nil; o = o.owner {
		if v, ok := o.values[key]; ok {
			return v, true
		}
	}
	return nil, false
}

func (s *Scope) removeChild(r *RootScope) {
	if i := slices.Index(s.children, r); i >= 0 {
		s.children = slices.Delete(s.children, i, i+1)
	}
}

// RootScope is a top level scope handed back to the host with a one-shot result.
type RootScope struct {
	Scope

	result    Value
	hasResult bool

	willDestroy bool
	destroyed   bool
}

// NewRootScope creates a root under the current scope (if any), calls fn
// with it and records it as live. Reads made by fn itself never subscribe.
func NewRootScope(ctx *Context, fn Value) *RootScope {
	r := &RootScope{}
	r.Scope.init(ctx, RefScope)
	r.Scope.root = r

	if !ctx.usable("createScope") {
		return r
	}

	if parent := ctx.TopScope(); parent != nil {
		r.owner = parent
		parent.children = append(parent.children, r)
	}

	ctx.runWithScope(&r.Scope, nil, func() {
		ctx.runUpdates(func() {
			v, err := ctx.host.Call(fn, r)
			if err != nil {
				ctx.handleError(&r.Scope, err)
				return
			}
			r.result = v
			r.hasResult = true
		}, true)
	})

	ctx.RecordScope(r)
	return r
}

// ObtainResult returns the stored result and forgets it.
func (r *RootScope) ObtainResult() Value {
	v := r.result
	r.result = nil
	r.hasResult = false
	return v
}

func (r *RootScope) HasResult() bool { return r.hasResult }
func (r *RootScope) Destroyed() bool { return r.destroyed }

func (r *RootScope) Destroy() {
	if r.destroyed {
		return
	}
	r.destroyed = true

	r.CleanUp()

	if r.owner != nil {
		r.owner.removeChild(r)
	}
	if !r.willDestroy {
		r.ctx.EraseScope(r)
	}
}
