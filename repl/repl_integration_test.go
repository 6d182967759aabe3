// ==============================================================================================
// FILE: repl/repl_integration_test.go
// ==============================================================================================
// PURPOSE: Drives Run() end to end over a scripted input stream, the way a real terminal
//          session would feed it one line at a time.
// ==============================================================================================

package repl

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"pith/internal/config"
)

func TestRunEvaluatesSingleLineStatements(t *testing.T) {
	input := "print(1 + 2)\n.exit\n"
	var out bytes.Buffer
	r := New(strings.NewReader(input), &out, config.Defaults())
	r.Run()
	require.Contains(t, out.String(), "3\n")
}

func TestRunBuffersIndentedBlockUntilBlankLine(t *testing.T) {
	input := "if (true):\n    print(\"yes\")\n\n.exit\n"
	var out bytes.Buffer
	r := New(strings.NewReader(input), &out, config.Defaults())
	r.Run()
	require.Contains(t, out.String(), "yes\n")
}

func TestRunPersistsStateAcrossLines(t *testing.T) {
	input := "int total = 0\ntotal = total + 5\nprint(total)\n.exit\n"
	var out bytes.Buffer
	r := New(strings.NewReader(input), &out, config.Defaults())
	r.Run()
	require.Contains(t, out.String(), "5\n")
}

func TestRunClearCommandDropsState(t *testing.T) {
	input := "int total = 7\n.clear\nprint(total)\n.exit\n"
	var out bytes.Buffer
	r := New(strings.NewReader(input), &out, config.Defaults())
	r.Run()
	require.Contains(t, out.String(), "NameError")
}
