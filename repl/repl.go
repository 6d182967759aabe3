// ==============================================================================================
// FILE: repl/repl.go
// ==============================================================================================
// PACKAGE: repl
// PURPOSE: The Read-Eval-Print Loop interface. It connects the user input stream to the
//          compiler pipeline (lexer -> parser -> evaluator) and manages the persistent
//          interpreter state across lines.
// ==============================================================================================

package repl

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/google/shlex"

	"pith/evaluator"
	"pith/internal/config"
	"pith/internal/perr"
	"pith/lexer"
	"pith/loader"
	"pith/parser"
	"pith/token"
)

// ----------------------------------------------------------------------------
// UI CONSTANTS
// ----------------------------------------------------------------------------

const LOGO = `
┏━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━┓
┃  ____  _ _   _                                     ┃
┃ |  _ \(_) |_| |__                                  ┃
┃ | |_) | | __| '_ \                                 ┃
┃ |  __/| | |_| | | |                                ┃
┃ |_|   |_|\__|_| |_|                                ┃
┃                                                     ┃
┃ indentation, scoped closures, a small mark-sweep    ┃
┃ heap underneath                                     ┃
┗━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━┛
`

// ANSI color codes for terminal output.
const (
	Reset  = "\033[0m"
	Red    = "\033[31m"
	Green  = "\033[32m"
	Yellow = "\033[33m"
	Blue   = "\033[34m"
	Purple = "\033[35m"
	Cyan   = "\033[36m"
	Gray   = "\033[37m"
	Bold   = "\033[1m"
)

// REPL holds everything a session needs to survive across lines: the
// live interpreter (and, through it, the global environment and the
// collector), the input/output streams, and the debug toggle.
type REPL struct {
	in     *bufio.Scanner
	out    io.Writer
	cfg    config.Config
	it     *evaluator.Interp
	report *perr.Interactive

	debugMode bool
	pending   []string // lines of a not-yet-terminated indented block
}

// New builds a REPL bound to in/out under cfg, with a fresh interpreter.
func New(in io.Reader, out io.Writer, cfg config.Config) *REPL {
	r := &REPL{
		in:  bufio.NewScanner(in),
		out: out,
		cfg: cfg,
	}
	r.reset()
	return r
}

// UseInterp swaps in an interpreter that already has bindings (e.g. one
// left over from a `-i` script run), so the session continues in its
// environment rather than starting from scratch.
func (r *REPL) UseInterp(it *evaluator.Interp) {
	r.it = it
	r.report = perr.NewInteractive(func(msg string) { fmt.Fprintln(r.out, Red+msg+Reset) })
	r.it.Reporter = r.report
}

func (r *REPL) reset() {
	report := perr.NewInteractive(func(msg string) { fmt.Fprintln(r.out, Red+msg+Reset) })
	r.report = report
	r.it = evaluator.NewDefaultInterp(r.cfg.GCMinThreshold, r.cfg.GCMaxRootDepth, loader.NewFileSystemLoader(r.cfg.StdlibDir), report, nil)
	r.it.Out = r.out
}

// Run launches the loop. It returns once the input stream is exhausted
// or the user issues .exit.
func (r *REPL) Run() {
	fmt.Fprint(r.out, LOGO)
	if r.cfg.Banner != "" {
		fmt.Fprintln(r.out, r.cfg.Banner)
	}
	printHelp(r.out)

	for {
		prompt := r.cfg.Prompt
		if len(r.pending) > 0 {
			prompt = "... "
		}
		fmt.Fprint(r.out, Cyan+prompt+Reset)

		if !r.in.Scan() {
			return
		}
		line := r.in.Text()

		if len(r.pending) == 0 {
			trimmed := strings.TrimSpace(line)
			if trimmed == "" {
				continue
			}
			if strings.HasPrefix(trimmed, ".") {
				if r.runCommand(trimmed) {
					return
				}
				continue
			}
		}

		if strings.TrimSpace(line) == "" && len(r.pending) > 0 {
			r.runBuffered()
			continue
		}

		r.pending = append(r.pending, line)
		if len(r.pending) == 1 && !startsIndentedBlock(r.pending) {
			r.runBuffered()
		}
	}
}

// startsIndentedBlock reports whether the accumulated lines still
// expect a nested body (the source ends in a trailing colon), meaning
// the REPL should keep reading lines instead of evaluating yet.
func startsIndentedBlock(lines []string) bool {
	last := strings.TrimRight(lines[len(lines)-1], " \t")
	return strings.HasSuffix(last, ":")
}

func (r *REPL) runBuffered() {
	src := strings.Join(r.pending, "\n")
	r.pending = nil
	r.evalSource(src)
}

func (r *REPL) evalSource(src string) {
	r.report.Reset()

	if r.debugMode {
		printTokens(r.out, src)
	}

	lx := lexer.New(src)
	ps := parser.New(lx)
	prog := ps.ParseProgram()
	if errs := ps.Errors(); len(errs) > 0 {
		printParserErrors(r.out, errs)
		return
	}

	if r.debugMode {
		printAST(r.out, prog)
	}

	if err := r.it.RunProgram(prog); err != nil && !r.report.HasErrors() {
		fmt.Fprintln(r.out, Red+err.Error()+Reset)
	}
}

// splitCommand tokenizes a dot-command line the way a shell would, so a
// quoted argument (a path with spaces, say) survives as one token.
func splitCommand(line string) ([]string, error) {
	return shlex.Split(line)
}

// runCommand handles a leading-dot directive. It reports whether the
// session should end.
func (r *REPL) runCommand(line string) bool {
	parts, err := splitCommand(line)
	if err != nil || len(parts) == 0 {
		fmt.Fprintf(r.out, Red+"could not parse command: %v\n"+Reset, err)
		return false
	}
	cmd, args := parts[0], parts[1:]

	switch cmd {
	case ".exit":
		fmt.Fprintln(r.out, Yellow+"Goodbye!"+Reset)
		return true
	case ".clear":
		r.pending = nil
		r.reset()
		fmt.Fprintln(r.out, Green+"Environment cleared."+Reset)
	case ".debug":
		r.debugMode = !r.debugMode
		status := "DISABLED"
		if r.debugMode {
			status = "ENABLED"
		}
		fmt.Fprintf(r.out, Gray+"Debug mode %s\n"+Reset, status)
	case ".gc":
		r.runGC(args)
	case ".help":
		printHelp(r.out)
	default:
		fmt.Fprintf(r.out, Red+"Unknown command: %s. Type .help for info.\n"+Reset, cmd)
	}
	return false
}

func (r *REPL) runGC(args []string) {
	if len(args) > 0 && args[0] == "stats" {
		coll := r.it.GC
		fmt.Fprintf(r.out, Gray+"live_bytes=%d cycles=%d threshold=%d root_depth=%d\n"+Reset,
			coll.LiveBytes(), coll.Cycles(), coll.Threshold(), coll.RootDepth())
		return
	}
	before := r.it.GC.LiveBytes()
	r.it.GC.Collect()
	after := r.it.GC.LiveBytes()
	fmt.Fprintf(r.out, Gray+"collected: live_bytes %d -> %d\n"+Reset, before, after)
}

// ----------------------------------------------------------------------------
// helpers
// ----------------------------------------------------------------------------

func printHelp(out io.Writer) {
	fmt.Fprintln(out, Gray+"Commands:")
	fmt.Fprintln(out, "  .exit         Quit the REPL")
	fmt.Fprintln(out, "  .clear        Reset the session (fresh interpreter, fresh heap)")
	fmt.Fprintln(out, "  .debug        Toggle token/AST dumps before evaluation")
	fmt.Fprintln(out, "  .gc           Force a collection cycle")
	fmt.Fprintln(out, "  .gc stats     Print collector counters without collecting")
	fmt.Fprintln(out, "  .help         Show this message"+Reset)
	fmt.Fprintln(out)
}

func printTokens(out io.Writer, src string) {
	fmt.Fprintln(out, Gray+"┌── [ TOKENS ] ──────────────────────────────────────────┐"+Reset)
	lx := lexer.New(src)
	for tok := lx.NextToken(); tok.Type != token.EOF; tok = lx.NextToken() {
		fmt.Fprintf(out, "│ %-15s : %s\n", tok.Type, tok.Literal)
	}
	fmt.Fprintln(out, Gray+"└────────────────────────────────────────────────────────┘"+Reset)
}

func printAST(out io.Writer, program fmt.Stringer) {
	fmt.Fprintln(out, Gray+"┌── [ AST TREE ] ────────────────────────────────────────┐"+Reset)
	if str := program.String(); str != "" {
		fmt.Fprintf(out, "%s\n", str)
	}
	fmt.Fprintln(out, Gray+"└────────────────────────────────────────────────────────┘"+Reset)
}

func printParserErrors(out io.Writer, errors []string) {
	fmt.Fprintln(out, Red+Bold+"Parse errors:"+Reset)
	for _, msg := range errors {
		fmt.Fprintf(out, Red+"  - %s\n"+Reset, msg)
	}
}
