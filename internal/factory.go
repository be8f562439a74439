package internal

import (
	"errors"
	"fmt"
	"maps"
	"reflect"
	"slices"
	"strconv"
	"time"

	"github.com/dmitrymomot/anvil/pkg/container"
	"github.com/dmitrymomot/anvil/pkg/middleware"
)

var (
	handlerType    = reflect.TypeFor[MiddlewareHandler]()
	middlewareType = reflect.TypeFor[Middleware]()
	funcType       = reflect.TypeFor[MiddlewareFunc]()
	errorType      = reflect.TypeFor[error]()
	argsType       = reflect.TypeFor[middleware.Args]()
	containerType  = reflect.TypeFor[*container.Container]()
	durationType   = reflect.TypeFor[time.Duration]()
)

// ErrInvalidConstructor is returned by Factory.Register for values that are
// neither a middleware handler nor a function returning one.
var ErrInvalidConstructor = errors.New("anvil: invalid middleware constructor")

// Factory turns middleware specs into handlers.
//
// A constructor is a function whose first result is a MiddlewareHandler (or
// a Middleware / MiddlewareFunc compatible func) and whose optional second
// result is an error. Its parameters are filled in order:
//
//   - scalar parameters (string, bool, integers, floats, time.Duration) take
//     Spec.Args positionally, falling back to the container by type
//     once the arguments run out;
//   - a middleware.Args parameter or a variadic scalar takes all remaining
//     arguments;
//   - any other parameter is resolved from the container by type, and
//     *container.Container receives the container itself.
//
// Example:
//
//	f.Register("throttle", func(store ratelimit.Store, max int, window time.Duration) anvil.MiddlewareHandler {
//	    ...
//	})
//	// "throttle:60,1m" -> store from container, max=60, window=time.Minute
type Factory struct {
	container    *container.Container
	constructors map[string]reflect.Value
}

// NewFactory creates a factory resolving services from c.
func NewFactory(c *container.Container) *Factory {
	if c == nil {
		c = container.New()
	}
	return &Factory{
		container:    c,
		constructors: make(map[string]reflect.Value),
	}
}

// Register associates a middleware identifier with a constructor or a ready
// handler. Registering the same name again replaces the constructor.
func (f *Factory) Register(name string, constructor any) error {
	if name == "" || constructor == nil {
		return fmt.Errorf("%w: empty name or nil constructor", ErrInvalidConstructor)
	}

	if h, ok := asHandler(constructor); ok {
		f.constructors[name] = reflect.ValueOf(func() MiddlewareHandler { return h })
		return nil
	}

	v := reflect.ValueOf(constructor)
	t := v.Type()
	if t.Kind() != reflect.Func {
		return fmt.Errorf("%w: [%s] is %T", ErrInvalidConstructor, name, constructor)
	}
	if t.NumOut() == 0 || t.NumOut() > 2 || !returnsHandler(t.Out(0)) {
		return fmt.Errorf("%w: [%s] must return a middleware handler", ErrInvalidConstructor, name)
	}
	if t.NumOut() == 2 && t.Out(1) != errorType {
		return fmt.Errorf("%w: [%s] second result must be error", ErrInvalidConstructor, name)
	}

	f.constructors[name] = v
	return nil
}

// Names returns every registered identifier in sorted order.
func (f *Factory) Names() []string {
	return slices.Sorted(maps.Keys(f.constructors))
}

// Has reports whether a constructor is registered under name.
func (f *Factory) Has(name string) bool {
	_, ok := f.constructors[name]
	return ok
}

// Create builds the handler for one spec.
//
// Inline specs return their callable. A named spec without arguments is
// taken from the container when it holds an entry under that name;
// otherwise the registered constructor is called.
func (f *Factory) Create(spec middleware.Spec) (MiddlewareHandler, error) {
	if spec.IsInline() {
		h, ok := asHandler(spec.Inline)
		if !ok {
			return nil, &MiddlewareInstantiationError{
				Name:   spec.String(),
				Reason: fmt.Sprintf("inline value of type %T is not a middleware handler", spec.Inline),
			}
		}
		return h, nil
	}

	if len(spec.Args) == 0 && f.container.Has(spec.Name) {
		v, err := f.container.Get(spec.Name)
		if err != nil {
			return nil, &MiddlewareInstantiationError{Name: spec.Name, Reason: "container resolution failed", Err: err}
		}
		h, ok := asHandler(v)
		if !ok {
			return nil, &MiddlewareInstantiationError{
				Name:   spec.Name,
				Reason: fmt.Sprintf("container entry of type %T is not a middleware handler", v),
			}
		}
		return h, nil
	}

	ctor, ok := f.constructors[spec.Name]
	if !ok {
		return nil, &MiddlewareInstantiationError{Name: spec.Name, Reason: "no constructor registered"}
	}

	in, err := f.arguments(spec, ctor.Type())
	if err != nil {
		return nil, err
	}

	out, err := call(spec.Name, ctor, in)
	if err != nil {
		return nil, err
	}
	if len(out) == 2 && !out[1].IsNil() {
		return nil, &MiddlewareInstantiationError{
			Name:   spec.Name,
			Reason: "constructor failed",
			Err:    out[1].Interface().(error),
		}
	}

	h, ok := asHandler(out[0].Interface())
	if !ok {
		return nil, &MiddlewareInstantiationError{Name: spec.Name, Reason: "constructor returned nil"}
	}
	return h, nil
}

// call runs a constructor, turning a panic into an instantiation error.
func call(name string, ctor reflect.Value, in []reflect.Value) (out []reflect.Value, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = &MiddlewareInstantiationError{
				Name:   name,
				Reason: "constructor panicked",
				Err:    fmt.Errorf("%v", rec),
			}
		}
	}()
	return ctor.Call(in), nil
}

// CreateAll builds handlers for specs in order, stopping at the first error.
func (f *Factory) CreateAll(specs []middleware.Spec) ([]MiddlewareHandler, error) {
	handlers := make([]MiddlewareHandler, 0, len(specs))
	for _, spec := range specs {
		h, err := f.Create(spec)
		if err != nil {
			return nil, err
		}
		handlers = append(handlers, h)
	}
	return handlers, nil
}

// arguments builds the constructor call arguments for spec.
func (f *Factory) arguments(spec middleware.Spec, t reflect.Type) ([]reflect.Value, error) {
	args := spec.Args
	next := 0
	in := make([]reflect.Value, 0, t.NumIn()+len(args))

	fail := func(pos int, reason string, err error) error {
		return &MiddlewareInstantiationError{
			Name:   spec.Name,
			Reason: fmt.Sprintf("parameter %d: %s", pos+1, reason),
			Err:    err,
		}
	}

	for i := range t.NumIn() {
		pt := t.In(i)

		switch {
		case pt == argsType:
			in = append(in, reflect.ValueOf(slices.Clone(args[next:])))
			next = len(args)

		case t.IsVariadic() && i == t.NumIn()-1:
			elem := pt.Elem()
			if !isScalar(elem) {
				continue
			}
			for ; next < len(args); next++ {
				v, err := convertScalar(args[next], elem)
				if err != nil {
					return nil, fail(i, fmt.Sprintf("invalid %s argument %q", elem, args[next]), err)
				}
				in = append(in, v)
			}

		case pt == containerType:
			in = append(in, reflect.ValueOf(f.container))

		case isScalar(pt) && next < len(args):
			v, err := convertScalar(args[next], pt)
			if err != nil {
				return nil, fail(i, fmt.Sprintf("invalid %s argument %q", pt, args[next]), err)
			}
			in = append(in, v)
			next++

		default:
			v, err := f.resolve(pt)
			if err != nil {
				reason := fmt.Sprintf("cannot resolve %s", pt)
				if isScalar(pt) {
					reason = fmt.Sprintf("missing %s argument", pt)
				}
				return nil, fail(i, reason, err)
			}
			in = append(in, v)
		}
	}

	if next < len(args) {
		return nil, &MiddlewareInstantiationError{
			Name:   spec.Name,
			Reason: fmt.Sprintf("%d unused argument(s) %q", len(args)-next, args[next:]),
		}
	}
	return in, nil
}

// resolve fetches a parameter value from the container by type.
func (f *Factory) resolve(t reflect.Type) (reflect.Value, error) {
	v, err := f.container.Get(container.KeyOf(t))
	if err != nil {
		return reflect.Value{}, err
	}

	if v == nil {
		return reflect.Value{}, fmt.Errorf("%w: %s resolved to nil", container.ErrNotFound, t)
	}

	rv := reflect.ValueOf(v)
	switch {
	case rv.Type().AssignableTo(t):
		out := reflect.New(t).Elem()
		out.Set(rv)
		return out, nil
	case rv.Type().ConvertibleTo(t):
		return rv.Convert(t), nil
	default:
		return reflect.Value{}, fmt.Errorf("%w: have %s, want %s", container.ErrTypeMismatch, rv.Type(), t)
	}
}

// asHandler converts v to a MiddlewareHandler when possible.
func asHandler(v any) (MiddlewareHandler, bool) {
	if v == nil {
		return nil, false
	}
	if h, ok := v.(MiddlewareHandler); ok {
		rv := reflect.ValueOf(v)
		if isNilable(rv.Kind()) && rv.IsNil() {
			return nil, false
		}
		return h, true
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Func && rv.IsNil() {
		return nil, false
	}
	switch t := rv.Type(); {
	case t.ConvertibleTo(middlewareType):
		return rv.Convert(middlewareType).Interface().(Middleware), true
	case t.ConvertibleTo(funcType):
		return rv.Convert(funcType).Interface().(MiddlewareFunc), true
	}
	return nil, false
}

func returnsHandler(t reflect.Type) bool {
	return t.Implements(handlerType) || t.ConvertibleTo(middlewareType) || t.ConvertibleTo(funcType)
}

func isNilable(k reflect.Kind) bool {
	switch k {
	case reflect.Pointer, reflect.Func, reflect.Map, reflect.Slice, reflect.Interface, reflect.Chan:
		return true
	}
	return false
}

func isScalar(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.String, reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

// convertScalar parses s into a value of scalar type t.
func convertScalar(s string, t reflect.Type) (reflect.Value, error) {
	v := reflect.New(t).Elem()

	switch t.Kind() {
	case reflect.String:
		v.SetString(s)
	case reflect.Bool:
		b, err := strconv.ParseBool(s)
		if err != nil {
			return v, err
		}
		v.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if t == durationType {
			d, err := time.ParseDuration(s)
			if err != nil {
				return v, err
			}
			v.SetInt(int64(d))
			break
		}
		n, err := strconv.ParseInt(s, 10, t.Bits())
		if err != nil {
			return v, err
		}
		v.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(s, 10, t.Bits())
		if err != nil {
			return v, err
		}
		v.SetUint(n)
	case reflect.Float32, reflect.Float64:
		n, err := strconv.ParseFloat(s, t.Bits())
		if err != nil {
			return v, err
		}
		v.SetFloat(n)
	}
	return v, nil
}
