// ==============================================================================================
// FILE: internal/perr/perr.go
// ==============================================================================================
// PACKAGE: perr
// PURPOSE: Centralizes the error-reporting contract shared by lexer, parser and
//          evaluator: one Kind enum, one Reporter interface, and two concrete reporters - a
//          Batch reporter for script runs (collect everything for the caller to read back) and
//          an Interactive reporter for the REPL (print immediately, abort the current line
//          only). Both share the same Diagnostic formatting.
// ==============================================================================================

package perr

import "fmt"

// Kind classifies a diagnostic by the phase and nature of the failure.
type Kind int

const (
	Lexical Kind = iota
	Syntactic
	Name
	Type
	Bounds
	Arithmetic
	Resource
)

var kindNames = map[Kind]string{
	Lexical: "LexicalError", Syntactic: "SyntaxError", Name: "NameError",
	Type: "TypeError", Bounds: "BoundsError", Arithmetic: "ArithmeticError",
	Resource: "ResourceError",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Error(%d)", int(k))
}

// Diagnostic is one reported error, tagged with the line it occurred on.
type Diagnostic struct {
	Kind Kind
	Line int
	Msg  string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: line %d: %s", d.Kind, d.Line, d.Msg)
}

// Reporter is the sink every stage of the pipeline reports diagnostics
// to, rather than returning error values for every failure path.
type Reporter interface {
	Report(kind Kind, line int, msg string)
	HasErrors() bool
}

// Batch collects every diagnostic reported during a run (a whole script
// file) without printing anything; Diagnostics returns them in report
// order for the caller to print or inspect.
type Batch struct {
	diags []Diagnostic
}

func NewBatch() *Batch { return &Batch{} }

func (b *Batch) Report(kind Kind, line int, msg string) {
	b.diags = append(b.diags, Diagnostic{Kind: kind, Line: line, Msg: msg})
}

func (b *Batch) HasErrors() bool { return len(b.diags) > 0 }

func (b *Batch) Diagnostics() []Diagnostic { return b.diags }

// Interactive reports each diagnostic as it happens and tracks only
// whether the current line had an error, matching a REPL's
// one-line-at-a-time evaluation model.
type Interactive struct {
	out     func(string)
	errored bool
}

func NewInteractive(out func(string)) *Interactive {
	return &Interactive{out: out}
}

func (i *Interactive) Report(kind Kind, line int, msg string) {
	i.errored = true
	if i.out != nil {
		i.out(Diagnostic{Kind: kind, Line: line, Msg: msg}.String())
	}
}

func (i *Interactive) HasErrors() bool { return i.errored }

// Reset clears the errored flag between REPL lines.
func (i *Interactive) Reset() { i.errored = false }
