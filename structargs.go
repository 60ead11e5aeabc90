package structargs

import (
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/xerrors"
)

// ParseErr builds a parser for cmd and parses args, returning any error
// rather than exiting. ErrDefaultHelp is returned if the help flag was hit.
func ParseErr(cmd interface{}, args []string, opts ...parseOpt) error {
	p, err := New(cmd, opts...)
	if err != nil {
		return err
	}
	return p.Parse(args)
}

// Parse parses the process arguments into cmd. Help prints to stdout and
// exits 0; bad input prints to stderr and exits 2; a bad command struct or
// API misuse exits 1.
func Parse(cmd interface{}, opts ...parseOpt) *Parser {
	p, err := New(cmd, append([]parseOpt{Program(filepath.Base(os.Args[0]))}, opts...)...)
	if err == nil {
		err = p.Parse(os.Args[1:])
	}
	if xerrors.Is(err, ErrDefaultHelp) {
		p.usageTarget().WriteUsage(os.Stdout)
		os.Exit(0)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "structargs: %s\n", err)
		var ue userError
		if xerrors.As(err, &ue) {
			os.Exit(2)
		}
		os.Exit(1)
	}
	return p
}
