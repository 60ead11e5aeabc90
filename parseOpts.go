package structargs

import (
	"strings"

	"github.com/huandu/xstrings"
)

type parseOpt func(p *Parser)

// Sets the program name normally presumed to be the first argument shown in usage.
func Program(program string) parseOpt {
	return func(p *Parser) {
		p.program = program
	}
}

// Writes program description between usage and option help.
func Description(desc string) parseOpt {
	return func(p *Parser) {
		p.description = desc
	}
}

// Doc supplies the documentation string, overriding the command struct's
// Doc method.
func Doc(doc string) parseOpt {
	return func(p *Parser) {
		p.doc = doc
	}
}

// Don't add -h, and --help flags that print usage.
func NoDefaultHelp() parseOpt {
	return func(p *Parser) {
		p.noDefaultHelp = true
	}
}

// ParseKnown collects unrecognized flags and excess positionals into
// ExtraArgs instead of failing on them.
func ParseKnown() parseOpt {
	return func(p *Parser) {
		p.lenient = true
	}
}

// DashedNames derives flag names with dashes (listen-addr) instead of the
// default underscores (listen_addr). Subcommand branches inherit it.
func DashedNames() parseOpt {
	return withNaming(func(fieldName string) string {
		return strings.Replace(xstrings.ToSnakeCase(fieldName), "_", "-", -1)
	})
}

func withNaming(naming func(string) string) parseOpt {
	return func(p *Parser) {
		p.naming = naming
	}
}

// Turn a struct field name into a flag name.
func fieldFlagName(fieldName string) string {
	return xstrings.ToSnakeCase(fieldName)
}
