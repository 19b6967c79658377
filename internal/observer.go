package internal

import "time"

// Observer receives engine events. Implementations must not touch the graph.
type Observer interface {
	TransactionStarted(tx uint64)
	TransactionCompleted(tx uint64, elapsed time.Duration)
	ComputationEnqueued(kind ScopeKind)
	ComputationInvoked(kind ScopeKind, elapsed time.Duration, err error)
}

type nopObserver struct{}

func (nopObserver) TransactionStarted(uint64)                          {}
func (nopObserver) TransactionCompleted(uint64, time.Duration)         {}
func (nopObserver) ComputationEnqueued(ScopeKind)                      {}
func (nopObserver) ComputationInvoked(ScopeKind, time.Duration, error) {}

type multiObserver []Observer

// MultiObserver fans events out to every non-nil observer, in order.
func MultiObserver(observers ...Observer) Observer {
	var m multiObserver
	for _, o := range observers {
		if o != nil {
			m = append(m, o)
		}
	}
	switch len(m) {
	case 0:
		return nopObserver{}
	case 1:
		return m[0]
	}
	return m
}

func (m multiObserver) TransactionStarted(tx uint64) {
	for _, o := range m {
		o.TransactionStarted(tx)
	}
}

func (m multiObserver) TransactionCompleted(tx uint64, elapsed time.Duration) {
	for _, o := range m {
		o.TransactionCompleted(tx, elapsed)
	}
}

func (m multiObserver) ComputationEnqueued(kind ScopeKind) {
	for _, o := range m {
		o.ComputationEnqueued(kind)
	}
}

func (m multiObserver) ComputationInvoked(kind ScopeKind, elapsed time.Duration, err error) {
	for _, o := range m {
		o.ComputationInvoked(kind, elapsed, err)
	}
}
