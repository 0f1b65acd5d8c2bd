package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/nexuslink/nexuslink/automaton"
	"github.com/nexuslink/nexuslink/metricslog"
)

type minimizeCommand struct {
	level       int
	withMetrics bool
}

func (c *minimizeCommand) Name() string { return "minimize" }
func (c *minimizeCommand) Args() string { return "<component-path> [--level 0..3] [--metrics]" }
func (c *minimizeCommand) ShortHelp() string {
	return "Minimize the automaton loaded from component-path"
}

func (c *minimizeCommand) Register(fs *flag.FlagSet) {
	fs.IntVar(&c.level, "level", int(automaton.STANDARD), "minimization level: 0=none 1=basic 2=standard 3=aggressive")
	fs.BoolVar(&c.withMetrics, "metrics", false, "append a run record to nexuslink-metrics.toml")
}

func (c *minimizeCommand) Run(args []string) int {
	if len(args) != 1 {
		fmt.Println("minimize: exactly one <component-path> argument is required")
		return exitInvalidArgs
	}
	if c.level < 0 || c.level > int(automaton.AGGRESSIVE) {
		fmt.Println("minimize: --level must be between 0 and 3")
		return exitInvalidArgs
	}

	a, err := loadAutomaton(args[0])
	if err != nil {
		fmt.Println(err)
		if _, ok := err.(*parseError); ok {
			return exitParseFailure
		}
		if _, ok := err.(*os.PathError); ok {
			return exitInputNotFound
		}
		return exitCodeFor(err)
	}

	level := automaton.Level(c.level)
	out, metrics := a.Minimize(level)

	fmt.Printf("level=%s states=%d->%d boolean_reduction=%t elapsed=%s\n",
		level, metrics.OriginalStates, metrics.MinimizedStates, metrics.BooleanReduced, metrics.Elapsed)
	_ = out

	if c.withMetrics {
		rec := metricslog.Record{
			ComponentPath:    args[0],
			Type:             "automaton",
			Level:            level.String(),
			OriginalCount:    metrics.OriginalStates,
			MinimizedCount:   metrics.MinimizedStates,
			OriginalBytes:    metrics.OriginalBytes,
			MinimizedBytes:   metrics.MinimizedBytes,
			ElapsedMS:        float64(metrics.Elapsed.Microseconds()) / 1000,
			BooleanReduction: metrics.BooleanReduced,
		}
		if err := metricslog.Append("nexuslink-metrics.toml", rec); err != nil {
			fmt.Println(err)
			return exitInternal
		}
	}
	return exitSuccess
}
