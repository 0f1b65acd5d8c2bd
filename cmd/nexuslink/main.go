// Command nexuslink is the host binary described in spec §6: a minimal
// flag.FlagSet router over the three programmatic surfaces (resolver,
// automaton, pipeline/pass manager), in the same posture golang/dep's own
// main.go takes - a small command interface, no argument-pattern parsing
// framework, dispatch by first argument.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
)

// Exit codes, spec §6.
const (
	exitSuccess            = 0
	exitInvalidArgs        = 1
	exitInputNotFound      = 2
	exitParseFailure       = 3
	exitValidationFailed   = 4
	exitResolutionConflict = 5
	exitInternal           = 6
)

type command interface {
	Name() string
	Args() string
	ShortHelp() string
	Register(fs *flag.FlagSet)
	Run(args []string) int
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	commands := []command{
		&resolveCommand{},
		&minimizeCommand{},
		&pipelineCommand{},
	}

	usage := func() {
		fmt.Fprintln(os.Stderr, "Usage: nexuslink <command> [arguments]")
		fmt.Fprintln(os.Stderr)
		fmt.Fprintln(os.Stderr, "Commands:")
		w := tabwriter.NewWriter(os.Stderr, 0, 4, 2, ' ', 0)
		for _, c := range commands {
			fmt.Fprintf(w, "\t%s %s\t%s\n", c.Name(), c.Args(), c.ShortHelp())
		}
		w.Flush()
	}

	if len(args) == 0 || strings.ToLower(args[0]) == "-h" || strings.ToLower(args[0]) == "help" {
		usage()
		return exitInvalidArgs
	}

	for _, c := range commands {
		if c.Name() != args[0] {
			continue
		}
		fs := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
		c.Register(fs)
		flagged := false
		fs.VisitAll(func(*flag.Flag) { flagged = true })
		if err := fs.Parse(args[1:]); err != nil {
			return exitInvalidArgs
		}
		// Flags may also follow positional arguments, as in the usage lines.
		var positional []string
		for flagged && fs.NArg() > 0 {
			positional = append(positional, fs.Arg(0))
			if err := fs.Parse(fs.Args()[1:]); err != nil {
				return exitInvalidArgs
			}
		}
		return c.Run(append(positional, fs.Args()...))
	}

	fmt.Fprintf(os.Stderr, "nexuslink: unknown command %q\n", args[0])
	usage()
	return exitInvalidArgs
}
