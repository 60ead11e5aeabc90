package structargs

import (
	"fmt"
	"reflect"
	"strings"
)

// Argument is a manual registration, buffered from ConfigureArgs. Whatever
// the caller leaves unset is back-filled from the field's inferred spec.
type Argument struct {
	Name     string
	Help     string
	Default  interface{}
	Required bool
	Choices  []string
	// Coerce parses one token into the field's type, overriding the
	// inferred rule.
	Coerce func(string) (interface{}, error)
}

// argSpec is the fully resolved registration record for one field: the
// settable destination, the coercion rule, and everything help rendering
// needs. Immutable once the parser is finalized.
type argSpec struct {
	name     string
	value    reflect.Value
	desc     *typeDesc
	choices  []string
	required bool
	// Plain booleans register as toggles: present on the command line they
	// flip to the opposite of their default, consuming no value token.
	toggle bool
	flipTo bool
	help   string
	pos    bool

	seen    bool
	ntokens int
}

func (a *argSpec) hasZeroValue() bool {
	return reflect.DeepEqual(
		reflect.Zero(a.value.Type()).Interface(),
		a.value.Interface())
}

// target returns the settable value one pointer-unwrap in, allocating the
// box on first use.
func (a *argSpec) target() reflect.Value {
	v := a.value
	if a.desc.optional && v.Kind() == reflect.Ptr {
		if v.IsNil() {
			v.Set(reflect.New(v.Type().Elem()))
		}
		return v.Elem()
	}
	return v
}

func (a *argSpec) checkChoice(s string) error {
	if len(a.choices) == 0 {
		return nil
	}
	for _, c := range a.choices {
		if s == c {
			return nil
		}
	}
	return userError{msg: fmt.Sprintf(
		"argument --%s: invalid choice: %q (choose from %s)",
		a.name, s, renderChoices(a.choices))}
}

func renderChoices(choices []string) string {
	quoted := make([]string, 0, len(choices))
	for _, c := range choices {
		quoted = append(quoted, fmt.Sprintf("%q", c))
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}

// marshal coerces one token into the field, honoring its container
// semantics: lists append, sets insert, tuples fill the next slot.
func (a *argSpec) marshal(s string) error {
	if err := a.checkChoice(s); err != nil {
		return err
	}
	wrap := func(err error) error {
		if err == nil {
			return nil
		}
		if _, ok := err.(userError); ok {
			return err
		}
		return userError{msg: fmt.Sprintf("argument --%s: %s", a.name, err)}
	}
	v := a.target()
	switch a.desc.container {
	case kindSlice:
		n := reflect.New(v.Type().Elem()).Elem()
		if err := a.desc.elem.Marshal(n, s); err != nil {
			return wrap(err)
		}
		v.Set(reflect.Append(v, n))
	case kindSet:
		k := reflect.New(v.Type().Key()).Elem()
		if err := a.desc.elem.Marshal(k, s); err != nil {
			return wrap(err)
		}
		if v.IsNil() {
			a.target().Set(reflect.MakeMap(v.Type()))
			v = a.target()
		}
		v.SetMapIndex(k, reflect.Zero(v.Type().Elem()))
	case kindTuple:
		if a.ntokens >= v.Len() {
			return userError{msg: fmt.Sprintf(
				"argument --%s: expected %d values", a.name, v.Len())}
		}
		if err := a.desc.elem.Marshal(v.Index(a.ntokens), s); err != nil {
			return wrap(err)
		}
	default:
		if err := a.desc.elem.Marshal(v, s); err != nil {
			return wrap(err)
		}
	}
	a.ntokens++
	a.seen = true
	return nil
}

// setToggle records a toggle flag's presence, or an explicit =value.
func (a *argSpec) setToggle(explicitValue string, hasExplicit bool) error {
	a.seen = true
	if hasExplicit {
		b, err := parseBoolToken(explicitValue)
		if err != nil {
			return userError{msg: fmt.Sprintf("argument --%s: %s", a.name, err)}
		}
		a.target().SetBool(b)
		return nil
	}
	a.target().SetBool(a.flipTo)
	return nil
}

// finish runs after token consumption: a partially filled tuple is a user
// error, everything else is already normalized in place.
func (a *argSpec) finish() error {
	if a.desc.container == kindTuple && a.seen && a.ntokens != a.desc.arity.max {
		return userError{msg: fmt.Sprintf(
			"argument --%s: expected %d values, got %d", a.name, a.desc.arity.max, a.ntokens)}
	}
	return nil
}

// synthesize builds the registration record for one collected field,
// merging in any manual Argument buffered under the same name.
func (p *Parser) synthesize(f field, manual *Argument) (*argSpec, error) {
	d, err := resolveType(f.sf.Type, f.name, f.sf.Tag)
	if err != nil {
		return nil, err
	}
	a := &argSpec{
		name:     f.name,
		value:    f.value,
		desc:     d,
		required: f.required,
		pos:      f.pos,
	}
	a.choices, err = parseChoices(f.sf.Tag.Get("choices"), f.name, containerElemType(f.sf.Type))
	if err != nil {
		return nil, err
	}
	// Booleans toggle unless something forces a value token: the explicit
	// tag, or pointer boxing. An explicit boolean keeps the token rule's
	// prefix matching, so its choice set is display-only.
	if d.boolLike && d.container == kindScalar && !(f.explicit || d.optional || d.explicit) {
		a.toggle = true
		a.flipTo = !f.value.Bool()
	}
	help := f.sf.Tag.Get("help")
	if help == "" {
		help = p.docAttrs[f.goName]
	}
	if help == "" {
		help = p.docAttrs[f.name]
	}
	if manual != nil {
		if manual.Required {
			a.required = true
		}
		if manual.Choices != nil {
			a.choices = manual.Choices
		}
		if manual.Coerce != nil {
			a.desc.elem = coerceMarshaler{manual.Coerce}
			a.toggle = false
		}
		if manual.Default != nil {
			if err := setFieldValue(a.value, manual.Default); err != nil {
				return nil, configErrorf("argument %q: bad manual default: %s", a.name, err)
			}
			a.required = manual.Required
			if a.toggle {
				a.flipTo = !f.value.Bool()
			}
		}
		if manual.Help != "" {
			help = manual.Help
		}
	}
	a.help = renderHelp(a, help)
	return a, nil
}

type coerceMarshaler struct {
	f func(string) (interface{}, error)
}

func (me coerceMarshaler) Marshal(v reflect.Value, s string) error {
	x, err := me.f(s)
	if err != nil {
		return err
	}
	xv := reflect.ValueOf(x)
	if !xv.Type().AssignableTo(v.Type()) {
		if !xv.Type().ConvertibleTo(v.Type()) {
			return fmt.Errorf("coercion returned %s, want %s", xv.Type(), v.Type())
		}
		xv = xv.Convert(v.Type())
	}
	v.Set(xv)
	return nil
}

func (coerceMarshaler) RequiresExplicitValue() bool {
	return false
}

// renderHelp produces the "(type, required)"-style prefix followed by the
// field's description.
func renderHelp(a *argSpec, description string) string {
	typeName := a.desc.typeName
	if a.desc.boolLike && a.desc.container == kindScalar && !a.toggle {
		typeName = "bool{true|false}"
	}
	var meta string
	if a.required {
		meta = fmt.Sprintf("(%s, required)", typeName)
	} else {
		meta = fmt.Sprintf("(%s, default=%s)", typeName, renderDefault(a.value))
	}
	if description == "" {
		return meta
	}
	return meta + " " + description
}

func renderDefault(v reflect.Value) string {
	if v.Kind() == reflect.Ptr && v.IsNil() {
		return "None"
	}
	return fmt.Sprintf("%v", v.Interface())
}
