// ==============================================================================================
// FILE: tests/script_test.go
// ==============================================================================================
// PURPOSE: Drives the end-to-end golden scripts under testdata/script through testscript. Each
//          .txtar file runs a .pith program through a real "pith" subprocess command and checks
//          its output: most diff stdout against a checked-in golden file, the error and exit
//          scripts match stderr/stdout patterns instead.
// ==============================================================================================

package tests

import (
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/rogpeppe/go-internal/testscript"

	"pith/evaluator"
	"pith/internal/perr"
	"pith/lexer"
	"pith/loader"
	"pith/object"
	"pith/parser"
)

func TestMain(m *testing.M) {
	os.Exit(testscript.RunMain(m, map[string]func() int{
		"pith": pithMain,
	}))
}

func TestScripts(t *testing.T) {
	testscript.Run(t, testscript.Params{
		Dir: "testdata/script",
	})
}

// pithMain is the golden-script front end: run a single .pith file and
// exit with its requested code, the same contract main.go's script mode
// implements, minus config layering and REPL fallback.
func pithMain() int {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: pith <script>")
		return 2
	}

	data, err := os.ReadFile(os.Args[1])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	lx := lexer.New(string(data))
	ps := parser.New(lx)
	prog := ps.ParseProgram()
	if errs := ps.Errors(); len(errs) > 0 {
		for _, msg := range errs {
			fmt.Fprintln(os.Stderr, msg)
		}
		return 1
	}

	it := evaluator.NewDefaultInterp(1<<20, 256, loader.NewFileSystemLoader(""), perr.NewBatch(), nil)
	if err := it.RunProgram(prog); err != nil {
		var exitErr *object.ExitError
		if errors.As(err, &exitErr) {
			return exitErr.Code
		}
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}
