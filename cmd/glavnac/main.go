// Command glavnac drives the front-end pipeline: load source, lex,
// parse, and hand the AST off to whichever downstream stage --stop-after
// names. It is a thin collaborator over pkg/lexer, pkg/parser, and
// pkg/diag — the pipeline itself is specified, not this wiring.
package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/aledsdavies/glavnac/pkg/ast"
	"github.com/aledsdavies/glavnac/pkg/codegen"
	"github.com/aledsdavies/glavnac/pkg/diag"
	"github.com/aledsdavies/glavnac/pkg/ir"
	"github.com/aledsdavies/glavnac/pkg/lexer"
	"github.com/aledsdavies/glavnac/pkg/parser"
	"github.com/aledsdavies/glavnac/pkg/semantic"
	"github.com/aledsdavies/glavnac/pkg/target"
	"github.com/aledsdavies/glavnac/pkg/token"
)

// config holds one invocation's flag values. Building a fresh config and
// command per call (rather than package-level flag vars) keeps repeated
// Execute() calls in tests independent of each other.
type config struct {
	outputPath   string
	assemblyOnly bool
	targetName   string
	optLevel     optLevelFlag
	verbose      bool
	generateLog  bool
	stopAfter    string
}

// optLevelFlag implements pflag.Value so `-O0`..`-O3` parses as the
// fused shorthand+value form GCC-style tools use.
type optLevelFlag int

func (o *optLevelFlag) String() string { return strconv.Itoa(int(*o)) }
func (o *optLevelFlag) Type() string   { return "level" }
func (o *optLevelFlag) Set(s string) error {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 || n > 3 {
		return fmt.Errorf("optimization level must be 0-3, got %q", s)
	}
	*o = optLevelFlag(n)
	return nil
}

var errExitStatus = fmt.Errorf("compilation reported errors")

// newRootCmd builds the command tree. Flags bind to a config local to
// this call, so concurrent or repeated Execute() calls never share
// mutable flag state.
func newRootCmd() *cobra.Command {
	cfg := &config{targetName: "x86-64"}

	cmd := &cobra.Command{
		Use:   "glavnac <input>",
		Short: "Front-end compiler for the главна source language",
		Long: `glavnac lexes and parses главна source (Serbian-Cyrillic keywords,
angle-bracket blocks, colon array syntax) into a typed AST, reporting
structured diagnostics along the way. Semantic analysis, IR, and code
generation are present only as stub hand-off stages.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cfg, args[0])
		},

		// Diagnostics already render every failure via pkg/diag; cobra's
		// own error/usage printing would just echo noise on top of it.
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	cmd.Flags().StringVarP(&cfg.outputPath, "output", "o", "", "output file path")
	cmd.Flags().BoolVarP(&cfg.assemblyOnly, "assembly-only", "S", false, "stop after producing assembly")
	cmd.Flags().StringVar(&cfg.targetName, "target", "x86-64", "target architecture: x86 or x86-64")
	cmd.Flags().VarP(&cfg.optLevel, "opt-level", "O", "optimization level 0-3")
	cmd.Flags().BoolVar(&cfg.verbose, "verbose", false, "replay every diagnostic in the end-of-run summary")
	cmd.Flags().BoolVar(&cfg.generateLog, "generate-error-log", false, "write a timestamped diagnostic log file")
	cmd.Flags().StringVar(&cfg.stopAfter, "stop-after", "", "stop after one of: lexing, parsing, semantic, ir")

	return cmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cfg *config, inputPath string) error {
	diags := diag.Init(cfg.generateLog)
	defer diags.Cleanup()

	tgt, err := resolveTarget(cfg.targetName, diags)
	if err != nil {
		return err
	}

	lex := lexer.NewFromFile(inputPath, diags, tgt)
	if lex == nil {
		diags.PrintSummary(cfg.verbose)
		return fmt.Errorf("could not load %s", inputPath)
	}

	if cfg.stopAfter == "lexing" {
		drainTokens(lex)
		return finish(diags, cfg.verbose)
	}

	p := parser.New(lex, diags)
	prog := p.Parse()

	if cfg.stopAfter == "parsing" {
		if cfg.outputPath != "" {
			if err := os.WriteFile(cfg.outputPath, []byte(ast.PrettyPrint(prog)), 0o644); err != nil {
				diags.Report(diag.IO, diag.Error, inputPath, 0, 0, err.Error(), "", "main.go", 0)
			}
		}
		return finish(diags, cfg.verbose)
	}

	semantic.Analyze(prog, diags, tgt)
	if cfg.stopAfter == "semantic" {
		return finish(diags, cfg.verbose)
	}

	mod := ir.Lower(prog, diags, tgt)
	if cfg.stopAfter == "ir" {
		return finish(diags, cfg.verbose)
	}

	codegen.Emit(mod, diags, tgt)
	return finish(diags, cfg.verbose)
}

func resolveTarget(name string, diags *diag.Registry) (target.Info, error) {
	switch name {
	case "x86":
		return target.InitArch(target.X86), nil
	case "x86-64", "":
		return target.InitArch(target.X86_64), nil
	default:
		return target.Info{}, fmt.Errorf("unrecognized --target %q (want x86 or x86-64)", name)
	}
}

func drainTokens(lex *lexer.Lexer) {
	for {
		t := lex.NextToken()
		if t.Kind == token.EOF {
			return
		}
	}
}

// finish prints the end-of-run summary and translates the registry's
// exit status into cobra's error-return convention, so a run that
// recorded an Error ends through main's own os.Exit(1). A Fatal
// diagnostic ends the process earlier, inside diag.Registry.Report.
func finish(diags *diag.Registry, verbose bool) error {
	diags.PrintSummary(verbose)
	if diags.ExitStatus() != 0 {
		return errExitStatus
	}
	return nil
}
