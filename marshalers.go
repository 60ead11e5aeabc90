package structargs

import (
	"fmt"
	"net"
	"net/url"
	"reflect"
	"strings"
	"time"
)

// Marshaler is implemented by field types that parse themselves from a
// command-line token.
type Marshaler interface {
	Marshal(in string) error
	// Whether the flag must be given as --flag=value rather than toggled or
	// split across tokens.
	RequiresExplicitValue() bool
}

type marshaler interface {
	Marshal(reflect.Value, string) error
	RequiresExplicitValue() bool
}

// Adapts a field value whose pointer implements Marshaler.
type selfMarshaler struct{}

func (selfMarshaler) Marshal(v reflect.Value, s string) error {
	return v.Addr().Interface().(Marshaler).Marshal(s)
}

func (selfMarshaler) RequiresExplicitValue() bool {
	return false
}

type dynamicMarshaler struct {
	explicitValueRequired bool
	marshal               func(reflect.Value, string) error
}

func (me dynamicMarshaler) Marshal(v reflect.Value, s string) error {
	return me.marshal(v, s)
}

func (me dynamicMarshaler) RequiresExplicitValue() bool {
	return me.explicitValueRequired
}

// The fallback marshaler, attempting fmt.Sscan into the field's address. It
// covers strings, all the integer and float kinds, and anything else Sscan
// understands.
type defaultMarshaler struct{}

func (defaultMarshaler) Marshal(v reflect.Value, s string) error {
	// Strings take the token as-is. Sscan would stop at whitespace.
	if v.Kind() == reflect.String {
		v.SetString(s)
		return nil
	}
	n, err := fmt.Sscan(s, v.Addr().Interface())
	if err != nil {
		return fmt.Errorf("error parsing %q: %s", s, err)
	}
	if n != 1 {
		panic(n)
	}
	return nil
}

func (defaultMarshaler) RequiresExplicitValue() bool {
	return false
}

// Booleans take a case-insensitive non-empty prefix of "true" or "false", or
// a literal "1" or "0".
type boolMarshaler struct{}

func parseBoolToken(s string) (bool, error) {
	switch s {
	case "1":
		return true, nil
	case "0":
		return false, nil
	}
	l := strings.ToLower(s)
	if l != "" && strings.HasPrefix("true", l) {
		return true, nil
	}
	if l != "" && strings.HasPrefix("false", l) {
		return false, nil
	}
	return false, fmt.Errorf("invalid boolean %q (want a prefix of true or false, or 1/0)", s)
}

func (boolMarshaler) Marshal(v reflect.Value, s string) error {
	b, err := parseBoolToken(s)
	if err != nil {
		return err
	}
	v.SetBool(b)
	return nil
}

func (boolMarshaler) RequiresExplicitValue() bool {
	return false
}

var typeMarshalFuncs = map[reflect.Type]marshaler{}

func addMarshalFunc(f interface{}, explicitValueRequired bool) {
	fv := reflect.ValueOf(f)
	setType := fv.Type().Out(0)
	typeMarshalFuncs[setType] = dynamicMarshaler{
		explicitValueRequired: explicitValueRequired,
		marshal: func(settee reflect.Value, arg string) error {
			out := fv.Call([]reflect.Value{reflect.ValueOf(arg)})
			settee.Set(out[0])
			if len(out) > 1 {
				i := out[1].Interface()
				if i != nil {
					return i.(error)
				}
			}
			return nil
		},
	}
}

// RegisterMarshaler adds a parsing rule for the return type of f, which must
// look like func(string) T or func(string) (T, error). Fields of type T, or
// containers of it, then parse with f. This is the escape hatch the parser
// suggests when it meets a field type it has no rule for.
func RegisterMarshaler(f interface{}, explicitValueRequired bool) {
	t := reflect.TypeOf(f)
	if t.Kind() != reflect.Func || t.NumIn() != 1 || t.In(0).Kind() != reflect.String || t.NumOut() < 1 || t.NumOut() > 2 {
		panic(fmt.Sprintf("bad marshal func type: %s", t))
	}
	addMarshalFunc(f, explicitValueRequired)
}

// Returns the marshaler for a single value of v's type, or nil if the type
// has no rule of its own and isn't a plain scannable kind.
func scalarMarshaler(v reflect.Value) marshaler {
	if v.CanAddr() {
		if _, ok := v.Addr().Interface().(Marshaler); ok {
			return selfMarshaler{}
		}
	}
	if m, ok := typeMarshalFuncs[v.Type()]; ok {
		return m
	}
	if v.Kind() == reflect.Bool {
		return boolMarshaler{}
	}
	switch v.Kind() {
	case reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return defaultMarshaler{}
	}
	return nil
}

func typeHasMarshaler(t reflect.Type) bool {
	if _, ok := typeMarshalFuncs[t]; ok {
		return true
	}
	return reflect.PtrTo(t).Implements(reflect.TypeOf((*Marshaler)(nil)).Elem())
}

func init() {
	addMarshalFunc(func(urlStr string) (*url.URL, error) {
		return url.Parse(urlStr)
	}, false)
	addMarshalFunc(func(s string) (*net.TCPAddr, error) {
		return net.ResolveTCPAddr("tcp", s)
	}, true)
	addMarshalFunc(func(s string) (time.Duration, error) {
		return time.ParseDuration(s)
	}, false)
	addMarshalFunc(func(s string) net.IP {
		return net.ParseIP(s)
	}, false)
}
