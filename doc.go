// Package structargs derives a command-line argument parser from the fields
// of a struct: field names become flags, field types choose the parsing rule,
// initial field values become defaults, and an optional documentation string
// supplies per-flag help.
//
// For example:
//  type args struct {
//      Name     string `arg:"required" help:"your name"`
//      Stars    int    `arg:"required"`
//      Language string
//  }
//  a := args{Language: "Go"}
//  structargs.Parse(&a)
//
// Embedded structs contribute inherited fields; an outer field with the same
// flag name shadows the embedded one. Supported tags include:
//  arg: "required" to make the flag mandatory, "explicit" for booleans that
//       take a true/false token instead of toggling, "-" to hide the field
//       from the parser entirely
//  name: an override for the flag name derived from the field name
//  help: a line of text to show after the flag, overriding any description
//        extracted from the Doc string
//  choices: a comma-separated set of permitted values
//  arity: "?", "+" or "*" for positional fields
//
// Slices accumulate repeated values, maps with struct{} values act as sets,
// fixed-size arrays consume exactly their length in tokens, and pointers make
// a field nullable. Types implementing Marshaler, or registered with
// RegisterMarshaler, parse themselves.
package structargs
