package structargs

import (
	"reflect"
	"strings"

	"github.com/bradfitz/iter"
)

// Struct fields after this one are considered positional arguments.
type StartPos struct{}

var startPosType = reflect.TypeOf(StartPos{})

// One declared script parameter: a struct field plus everything the parser
// inferred about it before synthesis.
type field struct {
	name    string
	goName  string
	value   reflect.Value
	sf      reflect.StructField
	pos     bool
	ignored bool
	// From the arg tag.
	required bool
	// Boolean fields marked explicit take a true/false token instead of
	// toggling.
	explicit bool
}

type argTag struct {
	ignored  bool
	required bool
	explicit bool
}

func parseArgTag(tag string) (ret argTag, err error) {
	if tag == "" {
		return
	}
	for _, part := range strings.Split(tag, ",") {
		switch part {
		case "-":
			ret.ignored = true
		case "required":
			ret.required = true
		case "explicit":
			ret.explicit = true
		default:
			err = configErrorf("unhandled arg tag value: %q", part)
			return
		}
	}
	return
}

func structFieldFlag(sf reflect.StructField, naming func(string) string) string {
	if name := sf.Tag.Get("name"); name != "" {
		return name
	}
	return naming(sf.Name)
}

func foreachStructField(_struct reflect.Value, f func(fv reflect.Value, sf reflect.StructField) (stop bool)) {
	t := _struct.Type()
	for i := range iter.N(t.NumField()) {
		sf := t.Field(i)
		fv := _struct.Field(i)
		if f(fv, sf) {
			break
		}
	}
}

// collectFields walks the struct and its embedded structs breadth-first,
// each visited once, emitting fields in first-declaration order. The
// outermost declaration of a flag name wins: once a name is recorded, the
// same name in an embedded struct is ignored. That also lets a subclass
// redeclare a field to drop or restore the `arg:"-"` marker of its parent's
// declaration.
func collectFields(root reflect.Value, naming func(string) string) (ret []field, err error) {
	type level struct {
		st    reflect.Value
		depth int
	}
	queue := []level{{root, 0}}
	visited := map[reflect.Type]struct{}{root.Type(): {}}
	firstDepth := map[string]int{}
	for len(queue) != 0 {
		l := queue[0]
		queue = queue[1:]
		posStarted := false
		foreachStructField(l.st, func(fv reflect.Value, sf reflect.StructField) (stop bool) {
			if sf.Type == startPosType {
				posStarted = true
				return false
			}
			// Embedded structs recurse before the export check: an anonymous
			// field of unexported type is the usual embedding shape, and its
			// own exported fields are still settable.
			if sf.Anonymous && fv.Kind() == reflect.Struct && !typeHasMarshaler(sf.Type) {
				if _, ok := visited[sf.Type]; !ok {
					visited[sf.Type] = struct{}{}
					queue = append(queue, level{fv, l.depth + 1})
				}
				return false
			}
			if sf.PkgPath != "" {
				// Unexported.
				return false
			}
			tag, tagErr := parseArgTag(sf.Tag.Get("arg"))
			if tagErr != nil {
				err = tagErr
				return true
			}
			name := structFieldFlag(sf, naming)
			if d, ok := firstDepth[name]; ok {
				if d == l.depth {
					err = configErrorf("flag %q defined more than once", name)
					return true
				}
				// Shadowed by a more derived declaration.
				return false
			}
			firstDepth[name] = l.depth
			ret = append(ret, field{
				name:     name,
				goName:   sf.Name,
				value:    fv,
				sf:       sf,
				pos:      posStarted,
				ignored:  tag.ignored,
				required: tag.required,
				explicit: tag.explicit,
			})
			return false
		})
		if err != nil {
			return nil, err
		}
	}
	return
}
