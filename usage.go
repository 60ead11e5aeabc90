package structargs

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/anacrolix/missinggo"
)

func newUsageTabwriter(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 8, 2, 3, ' ', 0)
}

func posUsageName(a *argSpec) string {
	name := strings.ToUpper(a.name)
	switch {
	case a.desc.arity.min >= 1 && a.desc.arity.max == 1:
		return fmt.Sprintf("<%s>", name)
	case a.desc.arity.min == 0 && a.desc.arity.max == 1:
		return fmt.Sprintf("[%s]", name)
	case a.desc.arity.min >= 1:
		return fmt.Sprintf("%s...", name)
	default:
		return fmt.Sprintf("[%s...]", name)
	}
}

// usageTarget is the parser the help flag refers to: the deepest chosen
// subcommand branch, or the parser itself when no branch was taken.
func (p *Parser) usageTarget() *Parser {
	for {
		_, child, ok := p.Chosen()
		if !ok {
			return p
		}
		p = child
	}
}

// WriteUsage renders the usage line, the description, and one help line per
// argument and subcommand.
func (p *Parser) WriteUsage(w io.Writer) {
	fmt.Fprintf(w, "Usage:\n  %s", p.program)
	if len(p.flags) != 0 {
		fmt.Fprintf(w, " [OPTIONS...]")
	}
	if p.subs != nil {
		fmt.Fprintf(w, " COMMAND")
	}
	for _, a := range p.posArgs {
		fmt.Fprintf(w, " %s", posUsageName(a))
	}
	fmt.Fprintf(w, "\n")
	if p.description != "" {
		fmt.Fprintf(w, "\n%s\n", missinggo.Unchomp(p.description))
	}
	if len(p.posArgs) != 0 {
		fmt.Fprintf(w, "Arguments:\n")
		tw := newUsageTabwriter(w)
		for _, a := range p.posArgs {
			fmt.Fprintf(tw, "  %s\t%s\n", strings.ToUpper(a.name), a.help)
		}
		tw.Flush()
	}
	if len(p.flags) != 0 {
		fmt.Fprintf(w, "Options:\n")
		tw := newUsageTabwriter(w)
		for _, a := range p.order {
			if a.pos {
				continue
			}
			fmt.Fprintf(tw, "  --%s\t%s\n", a.name, a.help)
		}
		tw.Flush()
	}
	if p.subs != nil && len(p.subs.order) != 0 {
		fmt.Fprintf(w, "Commands:\n")
		tw := newUsageTabwriter(w)
		for _, name := range p.subs.order {
			child := p.subs.children[name]
			desc := ""
			if child != nil {
				desc = child.description
			}
			fmt.Fprintf(tw, "  %s\t%s\n", name, desc)
		}
		tw.Flush()
	}
}
