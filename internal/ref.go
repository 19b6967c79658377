package internal

// RefType tags the objects the engine hands to a host, so it can downcast safely.
type RefType int

const (
	RefSignal RefType = iota
	RefMemo
	RefComputation
	RefScope
)

func (r RefType) String() string {
	switch r {
	case RefSignal:
		return "signal"
	case RefMemo:
		return "memo"
	case RefComputation:
		return "computation"
	case RefScope:
		return "scope"
	default:
		return "unknown"
	}
}

// Ref returns the tag of a handle produced by the engine, or false if v is not one.
func Ref(v any) (RefType, bool) {
	switch v.(type) {
	case *Signal:
		return RefSignal, true
	case *Memo:
		return RefMemo, true
	case *Computation:
		return RefComputation, true
	case *Scope, *RootScope:
		return RefScope, true
	default:
		return 0, false
	}
}

type ScopeKind int

const (
	KindPureEffect ScopeKind = iota
	KindMemoBacking
)

func (k ScopeKind) String() string {
	if k == KindPureEffect {
		return "pure"
	}
	return "memo"
}

type State int

const (
	StateNone State = iota
	StateStale
	StatePending
)

func (s State) String() string {
	switch s {
	case StateStale:
		return "stale"
	case StatePending:
		return "pending"
	default:
		return "none"
	}
}
