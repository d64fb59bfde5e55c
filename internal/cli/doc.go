// Package cli implements the apobfuscate command.
//
// Configuration comes from APOBFUSCATE_* environment variables, overridden
// by flags. The first positional argument is the input profile and the
// second the output path; either defaults to "-" for standard input and
// output.
package cli
