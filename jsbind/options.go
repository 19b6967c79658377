package jsbind

import (
	"errors"

	"github.com/AnatoleLucet/signalctx/internal"
	"github.com/joeycumines/logiface"
)

// moduleOptions holds configuration for a [Module] instance.
type moduleOptions struct {
	logger    *logiface.Logger[logiface.Event]
	observers []internal.Observer
	equality  internal.EqualityMode
}

// Option configures a [Module] instance. Options are applied during
// module construction.
type Option interface {
	applyOption(*moduleOptions) error
}

// optionFunc implements [Option] via a closure.
type optionFunc struct {
	fn func(*moduleOptions) error
}

func (o *optionFunc) applyOption(opts *moduleOptions) error {
	return o.fn(opts)
}

// WithLogger configures the logger receiving misuse warnings and
// unhandled script errors. Logging is disabled by default.
func WithLogger(logger *logiface.Logger[logiface.Event]) Option {
	return &optionFunc{fn: func(opts *moduleOptions) error {
		opts.logger = logger
		return nil
	}}
}

// WithObserver adds an observer of the graph's transactions and
// computation runs, see the telemetry package.
func WithObserver(observer internal.Observer) Option {
	return &optionFunc{fn: func(opts *moduleOptions) error {
		if observer == nil {
			return errors.New("jsbind: observer must not be nil")
		}
		opts.observers = append(opts.observers, observer)
		return nil
	}}
}

// WithEquality sets the equality mode new signals start with. Custom
// equality needs a function and can only be set per signal.
func WithEquality(mode internal.EqualityMode) Option {
	return &optionFunc{fn: func(opts *moduleOptions) error {
		if mode == internal.EqualCustom {
			return errors.New("jsbind: custom equality can not be a default")
		}
		opts.equality = mode
		return nil
	}}
}

// resolveOptions applies the given options to a default [moduleOptions].
func resolveOptions(opts []Option) (*moduleOptions, error) {
	cfg := &moduleOptions{
		equality: internal.EqualDeep,
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt.applyOption(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}
