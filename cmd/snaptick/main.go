// Package main is the entry point for snaptick. With no subcommand it starts
// the TUI; subcommands drive the same view model from the shell.
package main

import (
	"fmt"
	"os"
)

// Version information, set at build time with -ldflags "-X main.version=...".
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
