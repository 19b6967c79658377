package internal

import (
	"slices"

	"github.com/joeycumines/logiface"
)

// Context is the SignalContext: it coordinates the evaluation stacks,
// the two pending tiers and the set of live root scopes.
type Context struct {
	host     Host
	logger   *logiface.Logger[logiface.Event]
	observer Observer
	equality EqualityMode

	scopes       []*Scope
	computations []*Computation
	untracked    bool

	// nil outside of a transaction at their tier
	pureQueue *ComputationQueue
	memoQueue *ComputationQueue

	clock   uint64
	depth   int
	settled *SettledQueue

	roots     []*RootScope
	destroyed bool
}

type Option func(*Context)

func WithHost(host Host) Option {
	return func(c *Context) {
		if host != nil {
			c.host = host
		}
	}
}

// WithLogger sets the logger used for misuse warnings and unhandled closure errors.
// A nil logger disables logging.
func WithLogger(logger *logiface.Logger[logiface.Event]) Option {
	return func(c *Context) {
		c.logger = logger
	}
}

func WithObserver(observers ...Observer) Option {
	return func(c *Context) {
		c.observer = MultiObserver(observers...)
	}
}

// WithDefaultEquality sets the equality mode of signals created after it is applied.
func WithDefaultEquality(mode EqualityMode) Option {
	return func(c *Context) {
		c.equality = mode
	}
}

func NewContext(opts ...Option) *Context {
	c := &Context{
		host:     NewGoHost(),
		observer: nopObserver{},
		equality: EqualDeep,
		settled:  NewSettledQueue(),
	}
	c.Configure(opts...)
	return c
}

func (c *Context) Configure(opts ...Option) {
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
}

func (c *Context) Host() Host { return c.host }

func (c *Context) Logger() *logiface.Logger[logiface.Event] { return c.logger }

// Time is the transaction counter.
func (c *Context) Time() uint64 { return c.clock }

func (c *Context) Destroyed() bool { return c.destroyed }

// InTransaction reports whether an update is currently open at either tier.
func (c *Context) InTransaction() bool {
	return c.memoQueue != nil || c.pureQueue != nil
}

func (c *Context) Roots() []*RootScope {
	return slices.Clone(c.roots)
}

func (c *Context) RecordScope(r *RootScope) {
	if !slices.Contains(c.roots, r) {
		c.roots = append(c.roots, r)
	}
}

func (c *Context) EraseScope(r *RootScope) {
	if i := slices.Index(c.roots, r); i >= 0 {
		c.roots = slices.Delete(c.roots, i, i+1)
	}
}

// WillDestroy tears down every live root, newest first. Roots are not erased
// one by one; the active set is dropped once the sweep is done.
func (c *Context) WillDestroy() {
	if c.destroyed {
		return
	}

	roots := slices.Clone(c.roots)
	for _, r := range roots {
		r.willDestroy = true
	}
	for i := len(roots) - 1; i >= 0; i-- {
		roots[i].Destroy()
	}

	c.roots = nil
	c.destroyed = true

	c.logger.Debug().Int("roots", len(roots)).Log("signal context destroyed")
}

// usable logs and reports false when the context was torn down.
func (c *Context) usable(op string) bool {
	if !c.destroyed {
		return true
	}
	c.logger.Warning().Err(ErrContextDestroyed).Str("op", op).Log("operation ignored")
	return false
}
