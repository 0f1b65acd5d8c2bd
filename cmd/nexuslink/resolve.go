package main

import (
	"flag"
	"fmt"

	"github.com/nexuslink/nexuslink/component"
	"github.com/nexuslink/nexuslink/internal/diag"
	"github.com/nexuslink/nexuslink/nexus"
	"github.com/nexuslink/nexuslink/resolver"
)

type resolveCommand struct {
	constraint string
	from       string
	dir        string
}

func (c *resolveCommand) Name() string      { return "resolve" }
func (c *resolveCommand) Args() string      { return "<name> [--version <constraint>] [--from <component>]" }
func (c *resolveCommand) ShortHelp() string { return "Resolve a symbol name against the loaded components" }

func (c *resolveCommand) Register(fs *flag.FlagSet) {
	fs.StringVar(&c.constraint, "version", "", "version constraint on the resolved symbol")
	fs.StringVar(&c.from, "from", "", "requesting component id")
	fs.StringVar(&c.dir, "dir", ".", "directory of *.component.json documents to load")
}

func (c *resolveCommand) Run(args []string) int {
	if len(args) != 1 {
		fmt.Println("resolve: exactly one <name> argument is required")
		return exitInvalidArgs
	}
	name := args[0]

	available, err := loadComponents(c.dir)
	if err != nil {
		fmt.Println(err)
		return exitInputNotFound
	}

	requester := c.from
	if requester == "" {
		requester = firstComponentID(available)
	}
	if requester == "" {
		fmt.Println("resolve: no components loaded; nothing to resolve from")
		return exitInputNotFound
	}

	sys, err := nexus.New(requester, available, nil)
	if err != nil {
		fmt.Println(err)
		return exitCodeFor(err)
	}
	sys.LoadExports(available)

	sym, err := sys.Resolve(name, requester, resolver.Options{Constraint: c.constraint})
	if err != nil {
		fmt.Println(err)
		return exitCodeFor(err)
	}

	fmt.Printf("%s@%s (component=%s, kind=%d)\n", sym.Name, sym.Version, sym.ComponentID, sym.Kind)

	if conflicts := sys.Resolver.DetectConflicts(requester); len(conflicts) > 0 {
		for _, conf := range conflicts {
			fmt.Printf("conflict: %s versions=%v providers=%v\n", conf.Name, conf.Versions, conf.Providers)
		}
		return exitResolutionConflict
	}
	return exitSuccess
}

func firstComponentID(available component.ByID) string {
	for id := range available {
		return id
	}
	return ""
}

// exitCodeFor maps a diag.Error's Kind onto the exit codes spec §6 defines.
func exitCodeFor(err error) int {
	switch diag.KindOf(err) {
	case diag.InvalidInput:
		return exitInvalidArgs
	case diag.UnknownReference:
		return exitInputNotFound
	case diag.Unresolved, diag.KindMismatch:
		return exitValidationFailed
	case diag.VersionConflict:
		return exitResolutionConflict
	default:
		return exitInternal
	}
}
