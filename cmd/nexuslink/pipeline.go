package main

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/nexuslink/nexuslink/internal/diag"
	"github.com/nexuslink/nexuslink/passmanager"
	"github.com/nexuslink/nexuslink/pipeline"
)

// pipelineCommand itself has three verbs (create, add-stage, execute),
// each a separate process invocation sharing state through
// nexuslink-pipeline.json. It registers no top-level flags of its own -
// each verb parses its own flag.FlagSet, the same one-FlagSet-per-verb
// shape the outer router uses for top-level commands.
type pipelineCommand struct{}

func (c *pipelineCommand) Name() string { return "pipeline" }
func (c *pipelineCommand) Args() string {
	return "create [--mode auto|single|multi] [--optimization on|off] | add-stage <name> | execute"
}
func (c *pipelineCommand) ShortHelp() string { return "Assemble and run a pipeline" }
func (c *pipelineCommand) Register(fs *flag.FlagSet) {}

func (c *pipelineCommand) Run(args []string) int {
	if len(args) == 0 {
		fmt.Println("pipeline: one of create, add-stage, execute is required")
		return exitInvalidArgs
	}

	switch args[0] {
	case "create":
		return c.runCreate(args[1:])
	case "add-stage":
		return c.runAddStage(args[1:])
	case "execute":
		return c.runExecute(args[1:])
	default:
		fmt.Printf("pipeline: unknown verb %q\n", args[0])
		return exitInvalidArgs
	}
}

func (c *pipelineCommand) runCreate(args []string) int {
	fs := flag.NewFlagSet("pipeline create", flag.ContinueOnError)
	mode := fs.String("mode", "auto", "auto, single, or multi")
	optimization := fs.String("optimization", "off", "on or off")
	if err := fs.Parse(args); err != nil {
		return exitInvalidArgs
	}

	m := strings.ToLower(*mode)
	if m != "auto" && m != "single" && m != "multi" {
		fmt.Println("pipeline create: --mode must be auto, single, or multi")
		return exitInvalidArgs
	}
	opt := strings.ToLower(*optimization)
	if opt != "on" && opt != "off" {
		fmt.Println("pipeline create: --optimization must be on or off")
		return exitInvalidArgs
	}

	st := &pipelineState{Mode: m, Optimization: opt == "on"}
	if err := savePipelineState(st); err != nil {
		fmt.Println(err)
		return exitInternal
	}
	fmt.Printf("pipeline created: mode=%s optimization=%s\n", m, opt)
	return exitSuccess
}

func (c *pipelineCommand) runAddStage(args []string) int {
	if len(args) != 1 {
		fmt.Println("pipeline add-stage: exactly one <name> argument is required")
		return exitInvalidArgs
	}
	name := args[0]
	if _, ok := builtinStages[name]; !ok {
		fmt.Printf("pipeline add-stage: unknown stage %q (known: upper, lower, reverse, trim)\n", name)
		return exitInvalidArgs
	}

	st, err := loadPipelineState()
	if err != nil {
		fmt.Println("pipeline add-stage: no pipeline created yet; run \"pipeline create\" first")
		return exitInputNotFound
	}
	st.Stages = append(st.Stages, name)
	if err := savePipelineState(st); err != nil {
		fmt.Println(err)
		return exitInternal
	}
	fmt.Printf("stage added: %s (%d total)\n", name, len(st.Stages))
	return exitSuccess
}

func (c *pipelineCommand) runExecute(args []string) int {
	fs := flag.NewFlagSet("pipeline execute", flag.ContinueOnError)
	input := fs.String("input", "", "input text to run through the pipeline")
	bufferSize := fs.Int("buffer-size", 4096, "stage buffer size in bytes")
	maxIterations := fs.Int("max-iterations", 10, "maximum multi-pass iterations")
	if err := fs.Parse(args); err != nil {
		return exitInvalidArgs
	}

	st, err := loadPipelineState()
	if err != nil {
		fmt.Println("pipeline execute: no pipeline created yet; run \"pipeline create\" first")
		return exitInputNotFound
	}

	pl := pipeline.New()
	for _, name := range st.Stages {
		pl.AddStage(name, builtinStages[name], nil)
	}

	mgr := passmanager.New()
	mgr.AddPass("dependency-analysis", passmanager.Analysis, passmanager.DependencyAnalysisPass)
	mgr.AddPass("validator", passmanager.Analysis, passmanager.ValidatorPass)
	if st.Optimization {
		mgr.AddPass("optimizer", passmanager.Optimization, passmanager.OptimizerPass)
	}
	if _, err := mgr.Run(pl); err != nil {
		fmt.Println(err)
		return exitValidationFailed
	}

	var mode pipeline.Mode
	switch st.Mode {
	case "single":
		mode = pipeline.Single
	case "multi":
		mode = pipeline.Multi
	default:
		mode = pipeline.Auto
	}

	out, err := pl.Execute(context.Background(), []byte(*input), pipeline.Config{
		Mode:          mode,
		BufferSize:    *bufferSize,
		MaxIterations: *maxIterations,
	})
	if err != nil {
		fmt.Println(err)
		if diag.KindOf(err) == diag.PassFailed {
			return exitValidationFailed
		}
		return exitInternal
	}

	stats := pl.GetStats()
	fmt.Printf("output=%q iterations=%d converged=%t", string(out), stats.Iterations, stats.Converged)
	if stats.Warning != "" {
		fmt.Printf(" warning=%q", stats.Warning)
	}
	fmt.Println()
	return exitSuccess
}
