package structargs

// subGroup is a parser's single set of mutually exclusive subcommand
// branches. Each branch is a full Parser over its own command struct,
// inheriting the parent's flag-naming convention.
type subGroup struct {
	order    []string
	specs    map[string]*subcommandSpec
	children map[string]*Parser

	chosenName string
}

type subcommandSpec struct {
	name string
	cmd  interface{}
	opts []parseOpt
}

// AddSubparsers declares the parser's subcommand group. A parser gets at
// most one; a second declaration is a configuration error.
func (p *Parser) AddSubparsers() error {
	if p.state >= stateRegistered {
		return logicError{"cannot add arguments after initialization"}
	}
	if p.subs != nil {
		err := configErrorf("subcommand group already declared")
		p.stashConfigErr(err)
		return err
	}
	p.subs = &subGroup{
		specs: make(map[string]*subcommandSpec),
	}
	return nil
}

// AddSubcommand declares a branch triggered by name, parsing the remaining
// tokens into cmd. The group is created implicitly on first use. Declaring
// the same trigger again replaces the earlier branch.
func (p *Parser) AddSubcommand(name string, cmd interface{}, opts ...parseOpt) error {
	if p.state >= stateRegistered {
		return logicError{"cannot add arguments after initialization"}
	}
	if p.subs == nil {
		if err := p.AddSubparsers(); err != nil {
			return err
		}
	}
	if _, ok := p.subs.specs[name]; !ok {
		p.subs.order = append(p.subs.order, name)
	}
	p.subs.specs[name] = &subcommandSpec{name: name, cmd: cmd, opts: opts}
	return nil
}

// Branch registration is deferred to the parent's own registration, so a
// replaced trigger never builds its stale child.
func (p *Parser) finalizeSubcommands() error {
	if p.subs == nil {
		return nil
	}
	p.subs.children = make(map[string]*Parser, len(p.subs.specs))
	for _, name := range p.subs.order {
		spec := p.subs.specs[name]
		opts := []parseOpt{
			Program(p.program + " " + name),
			withNaming(p.naming),
		}
		if p.lenient {
			opts = append(opts, ParseKnown())
		}
		opts = append(opts, spec.opts...)
		child, err := New(spec.cmd, opts...)
		if err != nil {
			return err
		}
		p.subs.children[name] = child
	}
	return nil
}

// Chosen reports which subcommand branch the parse took, if any, and its
// parser.
func (p *Parser) Chosen() (name string, child *Parser, ok bool) {
	if p.subs == nil || p.subs.chosenName == "" {
		return
	}
	return p.subs.chosenName, p.subs.children[p.subs.chosenName], true
}
