package structargs

import (
	"fmt"
	"reflect"
)

// AsMap returns one entry per registered field, flag name to value. A chosen
// subcommand branch is merged in flat, the child winning any name collision
// with the parent. Container values are copies, so mutating the map never
// reaches back into the command struct.
func (p *Parser) AsMap() map[string]interface{} {
	ret := make(map[string]interface{}, len(p.order))
	for _, a := range p.order {
		ret[a.name] = copyValue(a.value.Interface())
	}
	if _, child, ok := p.Chosen(); ok {
		for k, v := range child.AsMap() {
			ret[k] = v
		}
	}
	return ret
}

// LoadMap populates the command struct from a map as produced by AsMap,
// bypassing token parsing, and leaves the parser in its parsed state. A key
// with no corresponding settable field is an error.
func (p *Parser) LoadMap(m map[string]interface{}) error {
	if p.state == stateParsed {
		return logicError{"already parsed: parse may only be called once"}
	}
	for k, x := range m {
		a := p.lookup(k)
		if a == nil {
			return logicError{fmt.Sprintf("no settable field %q", k)}
		}
		if err := setFieldValue(a.value, x); err != nil {
			return logicError{fmt.Sprintf("field %q: %s", k, err)}
		}
	}
	p.state = stateParsed
	return nil
}

func (p *Parser) lookup(name string) *argSpec {
	if a, ok := p.flags[name]; ok {
		return a
	}
	for _, a := range p.posArgs {
		if a.name == name {
			return a
		}
	}
	return nil
}

// setFieldValue assigns x onto the field, converting where needed and
// defensively copying containers so the field never aliases caller-owned
// storage.
func setFieldValue(v reflect.Value, x interface{}) error {
	xv := reflect.ValueOf(x)
	if !xv.IsValid() {
		v.Set(reflect.Zero(v.Type()))
		return nil
	}
	if !xv.Type().AssignableTo(v.Type()) {
		if !xv.Type().ConvertibleTo(v.Type()) {
			return fmt.Errorf("cannot assign %s to %s", xv.Type(), v.Type())
		}
		xv = xv.Convert(v.Type())
	}
	v.Set(reflect.ValueOf(copyValue(xv.Interface())))
	return nil
}

// copyValue returns x, with slices, maps, and pointers (the kinds through
// which a map holder could mutate the field) copied one level deep.
func copyValue(x interface{}) interface{} {
	v := reflect.ValueOf(x)
	switch v.Kind() {
	case reflect.Ptr:
		if v.IsNil() {
			return x
		}
		c := reflect.New(v.Type().Elem())
		c.Elem().Set(v.Elem())
		return c.Interface()
	case reflect.Slice:
		if v.IsNil() {
			return x
		}
		c := reflect.MakeSlice(v.Type(), v.Len(), v.Len())
		reflect.Copy(c, v)
		return c.Interface()
	case reflect.Map:
		if v.IsNil() {
			return x
		}
		c := reflect.MakeMap(v.Type())
		for _, k := range v.MapKeys() {
			c.SetMapIndex(k, v.MapIndex(k))
		}
		return c.Interface()
	}
	return x
}
