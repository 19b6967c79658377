package internal

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/google/go-cmp/cmp"
)

type EqualityMode int

const (
	EqualDeep EqualityMode = iota
	EqualStrict
	EqualCustom
)

func (m EqualityMode) String() string {
	switch m {
	case EqualStrict:
		return "strict"
	case EqualCustom:
		return "custom"
	default:
		return "deep"
	}
}

func ParseEqualityMode(s string) (EqualityMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "deep":
		return EqualDeep, nil
	case "strict":
		return EqualStrict, nil
	case "custom":
		return EqualCustom, nil
	default:
		return EqualDeep, fmt.Errorf("signalctx: unknown equality mode %q", s)
	}
}

// handles are compared by identity, never by walking into the graph behind them
var equalOptions = []cmp.Option{
	cmp.Exporter(func(reflect.Type) bool { return true }),
	cmp.Comparer(func(a, b *Signal) bool { return a == b }),
	cmp.Comparer(func(a, b *Memo) bool { return a == b }),
	cmp.Comparer(func(a, b *Computation) bool { return a == b }),
	cmp.Comparer(func(a, b *Scope) bool { return a == b }),
	cmp.Comparer(func(a, b *RootScope) bool { return a == b }),
}

// DeepEqual compares values structurally.
func DeepEqual(a, b Value, opts ...cmp.Option) bool {
	if len(opts) == 0 {
		return cmp.Equal(a, b, equalOptions...)
	}
	all := make([]cmp.Option, 0, len(equalOptions)+len(opts))
	all = append(all, equalOptions...)
	all = append(all, opts...)
	return cmp.Equal(a, b, all...)
}

// StrictEqual compares reference kinds by identity and everything else structurally.
func StrictEqual(a, b Value, opts ...cmp.Option) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if va.Type() != vb.Type() {
		return false
	}

	switch va.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Chan, reflect.Func, reflect.UnsafePointer:
		return va.Pointer() == vb.Pointer()
	case reflect.Slice:
		return va.Pointer() == vb.Pointer() && va.Len() == vb.Len()
	}

	return DeepEqual(a, b, opts...)
}
