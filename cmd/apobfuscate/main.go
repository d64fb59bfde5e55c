// Package main provides the CLI entrypoint for apobfuscate.
//
// apobfuscate rewrites an Archipelago player profile so that it generates
// the same way while hiding its contents from casual reading:
//   - Weighted options are moved behind randomly named trigger chains
//   - String values are written as unicode escapes
//   - Optional whitespace is removed from the output
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"apobfuscate/internal/cli"
)

func main() {
	cfg, err := cli.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		cli.Exitf("Error: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.Run(ctx, cfg, os.Stdin, os.Stdout, os.Stderr); err != nil {
		cli.Exitf("Error: %v", err)
	}
}
