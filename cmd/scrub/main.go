// Package main is the entry point for the scrub CLI.
package main

import (
	"os"

	"github.com/scrub-data/scrub/internal/cli"
)

func main() {
	app := &cli.App{
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		Dir:    ".",
	}

	// Resolve working directory
	if wd, err := os.Getwd(); err == nil {
		app.Dir = wd
	}

	os.Exit(app.Run(os.Args))
}
