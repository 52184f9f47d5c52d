// Package cli implements the scrub command-line interface.
package cli

import (
	"fmt"
	"io"
)

// App is the scrub CLI application. Stdout, Stderr and Dir are injected so
// tests can run commands against temp directories and capture output.
type App struct {
	Stdout io.Writer
	Stderr io.Writer
	Dir    string

	fc FormatConfig
}

// Run parses args and dispatches the subcommand.
// args[0] is the program name (e.g., "scrub").
// Returns the process exit code.
func (a *App) Run(args []string) int {
	subcmd, cmdArgs := a.parseGlobalFlags(args[1:])

	// TTY detection for default output format (only if no format flag was set).
	if a.fc.Format == "" {
		if DetectTTY(a.Stdout) {
			a.fc.Format = FormatPretty
		} else {
			a.fc.Format = FormatToon
		}
	}
	if a.fc.Verbose {
		a.fc.Logger = NewVerboseLogger(a.Stderr)
	}

	var err error
	switch subcmd {
	case "", "help":
		a.printUsage()
		return 0
	case "init":
		err = a.runInit()
	case "check":
		// check owns its exit code: warnings pass, errors fail.
		return a.runCheck()
	case "normalize":
		err = a.runNormalize()
	case "dedupe":
		err = a.runDedupe(cmdArgs)
	case "clean":
		err = a.runClean(cmdArgs)
	case "stats":
		err = a.runStats(cmdArgs)
	case "rebuild":
		err = a.runRebuild()
	default:
		fmt.Fprintf(a.Stderr, "Error: Unknown command '%s'. Run 'scrub help' for usage.\n", subcmd)
		return 1
	}

	if err != nil {
		fmt.Fprintf(a.Stderr, "Error: %s\n", err)
		return 1
	}
	return 0
}

// parseGlobalFlags parses global flags from args and returns the subcommand
// name and remaining arguments after the subcommand.
func (a *App) parseGlobalFlags(args []string) (string, []string) {
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--quiet", "-q":
			a.fc.Quiet = true
		case "--verbose", "-v":
			a.fc.Verbose = true
		case "--toon":
			a.fc.Format = FormatToon
		case "--pretty":
			a.fc.Format = FormatPretty
		case "--json":
			a.fc.Format = FormatJSON
		default:
			// First non-flag argument is the subcommand; rest are command args.
			return args[i], args[i+1:]
		}
	}
	return "", nil
}

// printUsage prints basic usage information.
func (a *App) printUsage() {
	usage := `Usage: scrub <command> [options]

Commands:
  init       Initialize a .scrub/ project directory
  check      Audit the dataset (sequence ids, duplicate keys, references)
  normalize  Apply categorical value corrections from scrub.yaml
  dedupe     Remove duplicate rows, keeping the smallest sequence id per key
  clean      Normalize then dedupe in one pass
  stats      Grouped aggregates (--by COL [--sum COL]... [--avg COL]...)
  rebuild    Force rebuild of the SQLite cache

Global flags:
  -q, --quiet     Suppress non-essential output
  -v, --verbose   More detail for debugging
  --toon          Force TOON output format
  --pretty        Force human-readable output format
  --json          Force JSON output format
`
	fmt.Fprint(a.Stdout, usage)
}
