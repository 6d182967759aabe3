// ==============================================================================================
// FILE: main.go
// ==============================================================================================
// PURPOSE: The pith command-line front end: a single cobra command implementing the external
//          interface (no args -> interactive, one path -> run and exit, -i plus a path -> run
//          then drop into an interactive session sharing the script's environment).
// ==============================================================================================

package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"pith/evaluator"
	"pith/internal/config"
	"pith/internal/perr"
	"pith/lexer"
	"pith/loader"
	"pith/object"
	"pith/parser"
	"pith/repl"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load("pith.yaml", ".env")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	var interactive bool
	var fb *config.FlagBinding
	exitCode := 0

	cmd := &cobra.Command{
		Use:           "pith [script]",
		Short:         "Run or interact with the Pith interpreter",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, cmdArgs []string) error {
			cfg = fb.ApplyFlags(cfg)
			switch {
			case len(cmdArgs) == 0:
				startREPL(cfg, nil)
			case interactive:
				it, runErr := runScript(cfg, cmdArgs[0])
				if runErr != nil && isExitRequest(runErr) {
					exitCode = exitCodeFor(runErr)
					return nil
				}
				startREPL(cfg, it)
			default:
				_, runErr := runScript(cfg, cmdArgs[0])
				if runErr != nil {
					exitCode = exitCodeFor(runErr)
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "enter interactive mode after running the script")
	fb = config.BindFlags(cmd.Flags(), cfg)

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return exitCode
}

// runScript executes path to completion against a fresh interpreter
// and returns it so -i can continue the session in its environment.
func runScript(cfg config.Config, path string) (*evaluator.Interp, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "pith: %v\n", err)
		return nil, err
	}

	reporter := perr.NewBatch()
	lx := lexer.New(string(data))
	ps := parser.New(lx)
	prog := ps.ParseProgram()
	if errs := ps.Errors(); len(errs) > 0 {
		for _, msg := range errs {
			fmt.Fprintln(os.Stderr, msg)
		}
		return nil, errors.New("parse errors")
	}

	it := evaluator.NewDefaultInterp(cfg.GCMinThreshold, cfg.GCMaxRootDepth, loader.NewFileSystemLoader(cfg.StdlibDir), reporter, nil)
	if err := it.RunProgram(prog); err != nil {
		var exitErr *object.ExitError
		if errors.As(err, &exitErr) {
			return it, exitErr
		}
		fmt.Fprintln(os.Stderr, err)
		return it, err
	}
	return it, nil
}

func startREPL(cfg config.Config, carryOver *evaluator.Interp) {
	r := repl.New(os.Stdin, os.Stdout, cfg)
	if carryOver != nil {
		r.UseInterp(carryOver)
	}
	r.Run()
}

func exitCodeFor(err error) int {
	var exitErr *object.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return 1
}

func isExitRequest(err error) bool {
	var exitErr *object.ExitError
	return errors.As(err, &exitErr)
}
