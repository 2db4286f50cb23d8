package socketio

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"

	"github.com/vango-dev/socketio/internal/errors"
)

// Handler handles one inbound event. args are the positional arguments
// exactly as received.
type Handler interface {
	Handle(ctx context.Context, args []json.RawMessage) error
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, args []json.RawMessage) error

// Handle calls f.
func (f HandlerFunc) Handle(ctx context.Context, args []json.RawMessage) error {
	return f(ctx, args)
}

var (
	contextType = reflect.TypeOf((*context.Context)(nil)).Elem()
	errorType   = reflect.TypeOf((*error)(nil)).Elem()
)

// HandlerOf adapts fn to a Handler. fn is either a Handler, a HandlerFunc
// shaped function, or any function of the form
//
//	func([ctx context.Context,] a A, b B, ...) [error]
//
// Each positional argument is JSON-decoded into the matching parameter.
// Missing arguments leave the parameter at its zero value and extra
// arguments are ignored. A variadic final parameter receives every
// remaining argument.
func HandlerOf(fn any) (Handler, error) {
	switch h := fn.(type) {
	case nil:
		return nil, errors.New("E301").WithDetail("handler is nil")
	case Handler:
		return h, nil
	case func(context.Context, []json.RawMessage) error:
		return HandlerFunc(h), nil
	}

	v := reflect.ValueOf(fn)
	t := v.Type()
	if t.Kind() != reflect.Func {
		return nil, errors.New("E301").WithDetail(fmt.Sprintf("%T is not a function", fn))
	}
	if v.IsNil() {
		return nil, errors.New("E301").WithDetail("handler is a nil " + t.String())
	}

	switch {
	case t.NumOut() == 0:
	case t.NumOut() == 1 && t.Out(0) == errorType:
	default:
		return nil, errors.New("E301").
			WithDetail(t.String() + " must return nothing or a single error")
	}

	rh := &reflectHandler{fn: v, typ: t}
	if t.NumIn() > 0 && t.In(0) == contextType {
		rh.takesCtx = true
	}
	return rh, nil
}

type reflectHandler struct {
	fn       reflect.Value
	typ      reflect.Type
	takesCtx bool
}

func (h *reflectHandler) Handle(ctx context.Context, args []json.RawMessage) error {
	t := h.typ
	in := make([]reflect.Value, 0, t.NumIn())

	first := 0
	if h.takesCtx {
		in = append(in, reflect.ValueOf(&ctx).Elem())
		first = 1
	}

	argIndex := 0
	for i := first; i < t.NumIn(); i++ {
		pt := t.In(i)

		if t.IsVariadic() && i == t.NumIn()-1 {
			elem := pt.Elem()
			rest := reflect.MakeSlice(pt, 0, max(len(args)-argIndex, 0))
			for ; argIndex < len(args); argIndex++ {
				v, err := decodeArg(args[argIndex], elem, argIndex)
				if err != nil {
					return err
				}
				rest = reflect.Append(rest, v)
			}
			in = append(in, rest)
			return callResult(h.fn.CallSlice(in))
		}

		var raw json.RawMessage
		if argIndex < len(args) {
			raw = args[argIndex]
		}
		v, err := decodeArg(raw, pt, argIndex)
		if err != nil {
			return err
		}
		in = append(in, v)
		argIndex++
	}

	return callResult(h.fn.Call(in))
}

func decodeArg(raw json.RawMessage, typ reflect.Type, index int) (reflect.Value, error) {
	ptr := reflect.New(typ)
	if len(raw) == 0 {
		return ptr.Elem(), nil
	}
	if err := json.Unmarshal(raw, ptr.Interface()); err != nil {
		return reflect.Value{}, errors.New("E321").
			WithDetail("argument " + strconv.Itoa(index) + " is not a valid " + typ.String()).
			Wrap(err)
	}
	return ptr.Elem(), nil
}

func callResult(out []reflect.Value) error {
	if len(out) == 0 || out[0].IsNil() {
		return nil
	}
	return out[0].Interface().(error)
}
