package internal

import (
	"fmt"
	"reflect"

	"github.com/google/go-cmp/cmp"
)

type Value = any

// Func is the generic closure shape understood by GoHost.
type Func func(args ...Value) Value

// Host is what the engine needs from the script runtime it is embedded in:
// invoking closures, comparing values and coercing results to booleans.
type Host interface {
	Call(fn Value, args ...Value) (Value, error)
	Equal(mode EqualityMode, a, b Value) bool
	Truthy(v Value) (truth bool, isBool bool)
}

// GoHost runs plain Go closures.
type GoHost struct {
	options []cmp.Option
}

// NewGoHost returns a host whose deep equality is extended with the given cmp options.
func NewGoHost(opts ...cmp.Option) *GoHost {
	return &GoHost{options: opts}
}

func (h *GoHost) Call(fn Value, args ...Value) (result Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			result, err = nil, &PanicError{Value: r}
		}
	}()

	arg := func(i int) Value {
		if i < len(args) {
			return args[i]
		}
		return nil
	}

	switch f := fn.(type) {
	case Func:
		return f(args...), nil
	case func(...Value) Value:
		return f(args...), nil
	case func():
		f()
		return nil, nil
	case func() Value:
		return f(), nil
	case func(Value):
		f(arg(0))
		return nil, nil
	case func(Value) Value:
		return f(arg(0)), nil
	case func(Value, Value) bool:
		return f(arg(0), arg(1)), nil
	case func(error):
		e, _ := arg(0).(error)
		f(e)
		return nil, nil
	case nil:
		return nil, ErrNotCallable
	default:
		return nil, fmt.Errorf("%w: %T", ErrNotCallable, fn)
	}
}

func (h *GoHost) Equal(mode EqualityMode, a, b Value) bool {
	if mode == EqualStrict {
		return StrictEqual(a, b, h.options...)
	}
	return DeepEqual(a, b, h.options...)
}

func (h *GoHost) Truthy(v Value) (bool, bool) {
	if b, ok := v.(bool); ok {
		return b, true
	}
	if v == nil {
		return false, false
	}
	return !reflect.ValueOf(v).IsZero(), false
}
