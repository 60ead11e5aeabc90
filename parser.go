package structargs

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/pkg/errors"
)

// The parser moves forward through these and never back; in particular there
// is no transition out of stateParsed.
type parseState int

const (
	stateConstructed parseState = iota
	stateConfigured
	stateRegistered
	stateParsed
)

// Configurer lets a command struct buffer manual arguments and declare
// subcommands before registration finalizes.
type Configurer interface {
	ConfigureArgs(p *Parser)
}

// PostParser runs after a successful parse and copy-back, for cross-field
// validation. Its error is returned to the caller as an ordinary error, never
// as a process exit.
type PostParser interface {
	PostParse() error
}

// Docer supplies the documentation string a command struct is described by.
type Docer interface {
	Doc() string
}

// Parser owns the synthesized argument specs for one command struct and, once
// parsed, is the namespace the results live in (the struct's own fields).
type Parser struct {
	cmd           interface{}
	program       string
	description   string
	doc           string
	docAttrs      map[string]string
	naming        func(string) string
	noDefaultHelp bool
	lenient       bool

	fields   []field
	buffered map[string]*Argument
	flags    map[string]*argSpec
	order    []*argSpec
	posArgs  []*argSpec
	subs     *subGroup

	state     parseState
	numPos    int
	configErr error

	// Unrecognized tokens, collected instead of failing when the ParseKnown
	// option is set.
	ExtraArgs []string
}

// New builds a fully registered parser for cmd, which must be a pointer to a
// struct (or nil for an empty parser). Construction runs the whole
// pre-parse pipeline: field inventory, doc extraction, the ConfigureArgs
// hook, argument synthesis, then subcommand attachment. Configuration
// problems surface here, before any tokens are seen.
func New(cmd interface{}, opts ...parseOpt) (*Parser, error) {
	p := &Parser{
		cmd:      cmd,
		program:  "program",
		naming:   fieldFlagName,
		buffered: make(map[string]*Argument),
		flags:    make(map[string]*argSpec),
	}
	for _, opt := range opts {
		opt(p)
	}
	if cmd != nil {
		v := reflect.ValueOf(cmd)
		if v.Kind() != reflect.Ptr || v.Elem().Kind() != reflect.Struct {
			return nil, configErrorf("expected pointer to struct, got %s", v.Type())
		}
		if p.doc == "" {
			if d, ok := cmd.(Docer); ok {
				p.doc = d.Doc()
			}
		}
		general, attrs, err := parseDoc(p.doc)
		if err != nil {
			return nil, err
		}
		if p.description == "" {
			p.description = general
		}
		p.docAttrs = attrs
		p.fields, err = collectFields(v.Elem(), p.naming)
		if err != nil {
			return nil, err
		}
	}
	if c, ok := cmd.(Configurer); ok {
		p.state = stateConfigured
		c.ConfigureArgs(p)
	}
	if p.configErr != nil {
		return nil, p.configErr
	}
	if err := p.register(); err != nil {
		return nil, err
	}
	return p, nil
}

// AddArgument buffers a manual registration for the named field, overriding
// whatever would be inferred for it. Call it from ConfigureArgs; once the
// parser is finalized it is an error.
func (p *Parser) AddArgument(a Argument) error {
	if p.state >= stateRegistered {
		err := logicError{"cannot add arguments after initialization"}
		return err
	}
	if a.Name == "" {
		err := configErrorf("manual argument needs a name")
		p.stashConfigErr(err)
		return err
	}
	a2 := a
	p.buffered[a.Name] = &a2
	return nil
}

func (p *Parser) stashConfigErr(err error) {
	if p.configErr == nil {
		p.configErr = err
	}
}

// register synthesizes one argSpec per surviving inventory field, in
// declaration order, then attaches subcommands. Ignored fields keep their
// in-struct defaults and are never registered.
func (p *Parser) register() error {
	for i := range p.fields {
		f := &p.fields[i]
		if f.ignored {
			continue
		}
		manual := p.buffered[f.name]
		delete(p.buffered, f.name)
		a, err := p.synthesize(*f, manual)
		if err != nil {
			return err
		}
		if f.pos {
			p.posArgs = append(p.posArgs, a)
		} else {
			if _, ok := p.flags[a.name]; ok {
				return configErrorf("flag %q defined more than once", a.name)
			}
			p.flags[a.name] = a
		}
		p.order = append(p.order, a)
	}
	for name := range p.buffered {
		return configErrorf("manual argument %q has no matching field", name)
	}
	if err := p.finalizeSubcommands(); err != nil {
		return err
	}
	p.state = stateRegistered
	return nil
}

// Parse consumes the token list, coerces values onto the command struct,
// runs the PostParse hook, and moves the parser to its terminal state. A
// second call is a usage error.
func (p *Parser) Parse(args []string) error {
	if p.state == stateParsed {
		return logicError{"already parsed: parse may only be called once"}
	}
	if p.state != stateRegistered {
		return logicError{"parser not initialized"}
	}
	if err := p.consume(args); err != nil {
		return err
	}
	if err := p.assertRequired(); err != nil {
		return err
	}
	for _, a := range p.order {
		if err := a.finish(); err != nil {
			return err
		}
	}
	p.state = stateParsed
	if pp, ok := p.cmd.(PostParser); ok {
		if err := pp.PostParse(); err != nil {
			return errors.Wrap(err, "post-parse")
		}
	}
	return nil
}

func isFlagToken(s string) bool {
	return len(s) > 1 && strings.HasPrefix(s, "-") && s != "--"
}

// divertRecoverable moves tok into ExtraArgs if lenient mode applies to err.
func (p *Parser) divertRecoverable(err error, tok string) bool {
	if !p.lenient {
		return false
	}
	ue, ok := err.(userError)
	if !ok || !ue.recoverable {
		return false
	}
	p.ExtraArgs = append(p.ExtraArgs, tok)
	return true
}

func (p *Parser) consume(args []string) (err error) {
	for len(args) != 0 {
		a := args[0]
		args = args[1:]
		if a == "--" {
			for _, s := range args {
				if err = p.parsePos(s); err != nil {
					if p.divertRecoverable(err, s) {
						err = nil
						continue
					}
					return
				}
			}
			return
		}
		if isFlagToken(a) {
			args, err = p.parseFlag(a, args)
		} else if p.subs != nil {
			if child, ok := p.subs.children[a]; ok {
				// The child recovers its own tokens; its errors are never
				// attributable to the trigger token.
				p.subs.chosenName = a
				if err = child.Parse(args); err != nil {
					return
				}
				p.ExtraArgs = append(p.ExtraArgs, child.ExtraArgs...)
				return
			} else if p.indexPosArg(p.numPos) != nil {
				err = p.parsePos(a)
			} else {
				err = userError{msg: fmt.Sprintf(
					"invalid command: %q (choose from %s)", a, renderChoices(p.subs.order))}
			}
		} else {
			err = p.parsePos(a)
		}
		if err != nil {
			if p.divertRecoverable(err, a) {
				err = nil
				continue
			}
			return
		}
	}
	return
}

// parseFlag handles one flag token, consuming value tokens from rest
// according to the flag's arity. Both -name and --name forms are accepted,
// values either inline after = or as following tokens.
func (p *Parser) parseFlag(tok string, rest []string) ([]string, error) {
	s := strings.TrimPrefix(tok, "-")
	s = strings.TrimPrefix(s, "-")
	k := s
	v := ""
	hasV := false
	if i := strings.IndexByte(s, '='); i != -1 {
		k = s[:i]
		v = s[i+1:]
		hasV = true
	}
	a, ok := p.flags[k]
	if !ok {
		if (k == "help" || k == "h") && !p.noDefaultHelp {
			return rest, ErrDefaultHelp
		}
		return rest, userError{msg: fmt.Sprintf("unknown flag: %q", k), recoverable: true}
	}
	if a.toggle {
		return rest, a.setToggle(v, hasV)
	}
	if hasV {
		return rest, a.marshal(v)
	}
	if a.desc.explicit {
		return rest, userError{msg: fmt.Sprintf("explicit value required (--%s=VALUE)", a.name)}
	}
	switch {
	case a.desc.container == kindTuple:
		n := a.desc.arity.max
		if len(rest) < n {
			return rest, userError{msg: fmt.Sprintf("argument --%s: expected %d values", a.name, n)}
		}
		for i := 0; i < n; i++ {
			if err := a.marshal(rest[i]); err != nil {
				return rest, err
			}
		}
		return rest[n:], nil
	case a.desc.arity.max > 1:
		// Zero or more: eat tokens up to the next flag or subcommand.
		for len(rest) != 0 && !isFlagToken(rest[0]) && !p.isSubcommand(rest[0]) {
			if err := a.marshal(rest[0]); err != nil {
				return rest, err
			}
			rest = rest[1:]
		}
		a.seen = true
		return rest, nil
	default:
		if len(rest) == 0 {
			return rest, userError{msg: fmt.Sprintf("argument --%s: expected one value", a.name)}
		}
		err := a.marshal(rest[0])
		return rest[1:], err
	}
}

func (p *Parser) isSubcommand(tok string) bool {
	if p.subs == nil {
		return false
	}
	_, ok := p.subs.children[tok]
	return ok
}

func (p *Parser) indexPosArg(i int) *argSpec {
	for _, a := range p.posArgs {
		if i < a.desc.arity.max {
			return a
		}
		i -= a.desc.arity.max
	}
	return nil
}

func (p *Parser) parsePos(s string) error {
	a := p.indexPosArg(p.numPos)
	if a == nil {
		return userError{msg: fmt.Sprintf("excess argument: %q", s), recoverable: true}
	}
	if err := a.marshal(s); err != nil {
		return err
	}
	p.numPos++
	return nil
}

func (p *Parser) minPos() (min int) {
	for _, a := range p.posArgs {
		min += a.desc.arity.min
	}
	return
}

// assertRequired reports every required flag that never appeared, and the
// first missing positional.
func (p *Parser) assertRequired() error {
	var missing []string
	for _, a := range p.order {
		if !a.pos && a.required && !a.seen {
			missing = append(missing, "--"+a.name)
		}
	}
	if len(missing) != 0 {
		return userError{msg: fmt.Sprintf(
			"the following arguments are required: %s", strings.Join(missing, ", "))}
	}
	if p.numPos < p.minPos() {
		return userError{msg: fmt.Sprintf(
			"missing argument: %q", strings.ToUpper(p.indexPosArg(p.numPos).name))}
	}
	return nil
}
