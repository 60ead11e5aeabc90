package structargs

import (
	"errors"
	"fmt"
)

// Returned when the default -h/--help flag is hit. Parse handles it by
// printing usage and exiting; ParseErr surfaces it to the caller.
var ErrDefaultHelp = errors.New("help flag")

// A userError is the fault of whoever typed the command line: bad token for a
// type, unknown flag, missing required argument. Parse exits 2 for these.
// Recoverable ones (unknown flag, excess argument) become ExtraArgs in
// lenient mode instead of failing.
type userError struct {
	msg         string
	recoverable bool
}

func (ue userError) Error() string {
	return ue.msg
}

// A configError means the command struct itself is bad: a field type with no
// parsing rule, an empty fixed-size tuple, duplicate choices. These are
// raised when the parser is built, before any tokens are looked at.
type configError struct {
	msg string
}

func (ce configError) Error() string {
	return ce.msg
}

func configErrorf(format string, args ...interface{}) configError {
	return configError{fmt.Sprintf(format, args...)}
}

// A logicError is API misuse at runtime: parsing twice, adding arguments
// after the parser is finalized, loading a map with an unknown key.
type logicError struct {
	msg string
}

func (le logicError) Error() string {
	return le.msg
}

// DocFormatError reports a non-empty Doc string with no recognizable
// Attributes section.
type DocFormatError struct {
	msg string
}

func (de DocFormatError) Error() string {
	return de.msg
}
