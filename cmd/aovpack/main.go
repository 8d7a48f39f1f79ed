package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"aovpack/internal/services"
)

func main() {
	cmd := newRootCommand()
	if err := cmd.Execute(); err != nil {
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(exitCode(err))
	}
}

// exitCode distinguishes failures that aborted the whole run (bad
// invocation, broken codec, contended lock) from runs that completed with
// per-frame errors.
func exitCode(err error) int {
	if services.Fatal(err) {
		return 2
	}
	return 1
}
