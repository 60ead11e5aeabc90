package structargs

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"
)

const infArity = 1000

type arity struct {
	min, max int
}

type containerKind int

const (
	kindScalar containerKind = iota
	kindSlice
	kindSet
	kindTuple
)

// typeDesc is what a field's declared type resolves to: how to coerce one
// token, how many tokens the field consumes, and whether a container wraps
// the elements.
type typeDesc struct {
	elem      marshaler
	arity     arity
	container containerKind
	// Pointer-boxed: the field stays nil until a value is given.
	optional bool
	// The element type is a plain bool, which flags toggle rather than take
	// a token for.
	boolLike bool
	// The marshaler insists on --flag=value.
	explicit bool
	typeName string
}

func unsupportedTypeError(fieldName string, t reflect.Type) error {
	shown := t.String()
	if t.Name() != "" && t.PkgPath() != "" {
		shown = fullTypeName(t)
	}
	return configErrorf(
		"field %q has type %s with no parsing rule; register one with "+
			"structargs.RegisterMarshaler(func(s string) (%s, error) { ... }, false)",
		fieldName, shown, t)
}

// resolveType maps a field's type to its descriptor. Boxed types (pointer,
// slice, set-map, array) are unwrapped exactly one level; anything nested
// deeper needs a registered marshaler for the whole type.
func resolveType(t reflect.Type, fieldName string, tag reflect.StructTag) (*typeDesc, error) {
	d := &typeDesc{
		arity:    arity{1, 1},
		typeName: shortTypeName(t),
	}
	// Whole-type rules win, including over pointer unwrapping, so that types
	// like *net.TCPAddr parse as one value.
	if typeHasMarshaler(t) {
		m := elemMarshalerFor(t)
		d.elem = m
		d.explicit = m.RequiresExplicitValue()
		return applyArityTag(d, tag)
	}
	inner := t
	if t.Kind() == reflect.Ptr {
		d.optional = true
		inner = t.Elem()
		if inner.Kind() == reflect.Ptr {
			return nil, unsupportedTypeError(fieldName, t)
		}
	}
	switch inner.Kind() {
	case reflect.Slice:
		d.container = kindSlice
		d.arity = arity{0, infArity}
		et := inner.Elem()
		d.elem = elemMarshalerFor(et)
		d.boolLike = d.elem != nil && et.Kind() == reflect.Bool && !typeHasMarshaler(et)
	case reflect.Array:
		if inner.Len() == 0 {
			return nil, configErrorf("field %q has empty fixed-size tuple type %s: no tokens to parse", fieldName, t)
		}
		d.container = kindTuple
		d.arity = arity{inner.Len(), inner.Len()}
		d.elem = elemMarshalerFor(inner.Elem())
	case reflect.Map:
		if !isSetType(inner) {
			return nil, unsupportedTypeError(fieldName, t)
		}
		d.container = kindSet
		d.arity = arity{0, infArity}
		d.elem = elemMarshalerFor(inner.Key())
	case reflect.Bool:
		d.elem = boolMarshaler{}
		d.boolLike = true
	default:
		d.elem = elemMarshalerFor(inner)
	}
	if d.elem == nil {
		return nil, unsupportedTypeError(fieldName, t)
	}
	if !d.explicit {
		d.explicit = d.elem.RequiresExplicitValue()
	}
	return applyArityTag(d, tag)
}

func applyArityTag(d *typeDesc, tag reflect.StructTag) (*typeDesc, error) {
	switch tag.Get("arity") {
	case "":
	case "?":
		d.arity.min = 0
		if d.arity.max < 1 {
			d.arity.max = 1
		}
	case "*":
		d.arity.min = 0
		d.arity.max = infArity
	case "+":
		d.arity.min = 1
		d.arity.max = infArity
	default:
		return nil, configErrorf("unhandled arity tag: %q", tag.Get("arity"))
	}
	return d, nil
}

func elemMarshalerFor(t reflect.Type) marshaler {
	return scalarMarshaler(reflect.New(t).Elem())
}

// Sets are maps from a coercible key to struct{} or bool.
func isSetType(t reflect.Type) bool {
	switch t.Elem().Kind() {
	case reflect.Struct:
		if t.Elem().NumField() != 0 {
			return false
		}
	case reflect.Bool:
	default:
		return false
	}
	return elemMarshalerFor(t.Key()) != nil
}

// parseChoices validates and splits a choices tag: only primitive element
// types may enumerate choices, and every choice's string form must be
// unique.
func parseChoices(tag string, fieldName string, elemType reflect.Type) ([]string, error) {
	if tag == "" {
		return nil, nil
	}
	switch elemType.Kind() {
	case reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
	default:
		return nil, configErrorf("field %q: choices require a primitive value type, not %s", fieldName, elemType)
	}
	choices := strings.Split(tag, ",")
	seen := make(map[string]struct{}, len(choices))
	for i, c := range choices {
		c = strings.TrimSpace(c)
		choices[i] = c
		if _, ok := seen[c]; ok {
			return nil, configErrorf("field %q: duplicate choice %q", fieldName, c)
		}
		seen[c] = struct{}{}
	}
	return choices, nil
}

// The element type a container field coerces tokens into, after one level of
// unwrapping.
func containerElemType(t reflect.Type) reflect.Type {
	if t.Kind() == reflect.Ptr && !typeHasMarshaler(t) {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.Slice, reflect.Array:
		return t.Elem()
	case reflect.Map:
		return t.Key()
	}
	return t
}

var typeQualifierRe = regexp.MustCompile(`[A-Za-z_][A-Za-z0-9_./]*\.`)

// shortTypeName renders a type without package qualification, so help text
// reads []int rather than a fully qualified form.
func shortTypeName(t reflect.Type) string {
	return typeQualifierRe.ReplaceAllString(t.String(), "")
}

func fullTypeName(t reflect.Type) string {
	if t.PkgPath() == "" {
		return t.Name()
	}
	return fmt.Sprintf(`"%s".%s`, t.PkgPath(), t.Name())
}
