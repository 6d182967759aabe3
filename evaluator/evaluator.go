// ==============================================================================================
// FILE: evaluator/evaluator.go
// ==============================================================================================
// PACKAGE: evaluator
// PURPOSE: Implements the runtime execution engine: a tree-walking interpreter over ast.Node
//          with two mutually recursive entry points, Eval (expressions) and Exec (statements),
//          matching the dual-dispatch design in the data model this interpreter follows. Exec
//          returns a Propagate value instead of overloading the result type, so BREAK, CONTINUE
//          and a function return never get confused with an ordinary value flowing out of a
//          block.
// ==============================================================================================

package evaluator

import (
	"fmt"
	"io"
	"os"

	"pith/ast"
	"pith/gc"
	"pith/internal/diagnostics"
	"pith/internal/perr"
	"pith/loader"
	"pith/object"
)

// Signal classifies the non-local control effect a statement produced.
type Signal int

const (
	SigNone Signal = iota
	SigReturn
	SigBreak
	SigContinue
)

// Propagate is exec's result: either a plain fallthrough (SigNone) or a
// non-local control transfer carrying a value (return) or none
// (break/continue).
type Propagate struct {
	Signal Signal
	Value  object.Value
}

func none() Propagate                    { return Propagate{Signal: SigNone} }
func ret(v object.Value) Propagate       { return Propagate{Signal: SigReturn, Value: v} }
func brk() Propagate                     { return Propagate{Signal: SigBreak} }
func cont() Propagate                    { return Propagate{Signal: SigContinue} }
func (p Propagate) isLoopCtrl() bool     { return p.Signal == SigBreak || p.Signal == SigContinue }
func (p Propagate) stopsExecution() bool { return p.Signal != SigNone }

// Interp bundles everything Eval/Exec need beyond the AST and the
// current environment handle: the collector, the two external
// collaborators (native registry, source loader), the error reporter,
// and a pointer to the live global environment head.
type Interp struct {
	GC       *gc.Collector
	Registry object.NativeRegistry
	Loader   loader.SourceLoader
	Reporter perr.Reporter
	Log      *diagnostics.Logger
	Out      io.Writer

	global *object.Environment
	line   int // current statement's source line, for natives with no call-site context
}

// New builds an interpreter around coll and the given collaborators.
// coll is constructed by the caller (commonly via NewDefaultInterp)
// specifically so the registry's native modules can be allocated
// through the same collector the interpreter traces, rather than a
// second, untracked one. The global environment starts empty (nil
// head).
func New(coll *gc.Collector, registry object.NativeRegistry, ldr loader.SourceLoader, reporter perr.Reporter, log *diagnostics.Logger) *Interp {
	it := &Interp{GC: coll, Registry: registry, Loader: ldr, Reporter: reporter, Log: log, Out: os.Stdout}
	coll.SetGlobalRoot(func() gc.HeapObject {
		if it.global == nil {
			return nil
		}
		return it.global
	})
	if registry != nil {
		coll.SetExtraRoots(func() []gc.HeapObject {
			mods := registry.Roots()
			roots := make([]gc.HeapObject, len(mods))
			for i, m := range mods {
				roots[i] = m
			}
			return roots
		})
	}
	if log != nil {
		coll.SetCycleObserver(func(s gc.CycleStats) {
			log.With("gc").Info("cycle complete",
				diagnostics.F("cycle", s.Cycle),
				diagnostics.F("swept", s.ObjectsSwept),
				diagnostics.F("bytes_freed", s.BytesFreed),
				diagnostics.F("live_bytes", s.LiveBytes),
				diagnostics.F("threshold", s.NewThreshold))
		})
	}
	return it
}

// NewDefaultInterp builds a collector, wires object.NewDefaultRegistry
// to it, and returns a ready-to-run interpreter using that registry, ldr,
// reporter and log.
func NewDefaultInterp(minThreshold int64, maxRootDepth int, ldr loader.SourceLoader, reporter perr.Reporter, log *diagnostics.Logger) *Interp {
	coll := gc.New(minThreshold, maxRootDepth)
	registry := object.NewDefaultRegistry(coll)
	return New(coll, registry, ldr, reporter, log)
}

// Global returns the interpreter's current global environment head.
func (it *Interp) Global() *object.Environment { return it.global }

// declareGlobal extends the global chain with one new binding, used by
// every top-level statement that introduces a name (var decl, function
// def, class def, import).
func (it *Interp) declareGlobal(name string, val object.Value) {
	it.global = object.NewEnvironment(it.GC, name, val, it.global)
}

func (it *Interp) reportf(kind perr.Kind, line int, format string, args ...interface{}) error {
	msg := fmt.Sprintf(format, args...)
	if it.Reporter != nil {
		it.Reporter.Report(kind, line, msg)
	}
	return fmt.Errorf("[line %d] %s: %s", line, kind, msg)
}

// RunProgram executes every top-level statement in prog against the
// interpreter's global chain. Declaring statements (var/func/class/
// import) extend it.global so later statements, and closures captured
// along the way, see them.
func (it *Interp) RunProgram(prog *ast.Node) error {
	for _, stmt := range prog.Children {
		if isDeclaring(stmt.Kind) {
			newEnv, err := it.execDecl(stmt, it.global)
			if err != nil {
				return err
			}
			it.global = newEnv
			continue
		}
		if stmt.Kind == ast.ForEach {
			newEnv, prop, err := it.execForEach(stmt, it.global)
			if err != nil {
				return err
			}
			it.global = newEnv
			if prop.Signal == SigReturn {
				return it.reportf(perr.Syntactic, stmt.Line, "return outside of a function")
			}
			if prop.isLoopCtrl() {
				return it.reportf(perr.Syntactic, stmt.Line, "break/continue outside of a loop")
			}
			continue
		}
		prop, err := it.Exec(stmt, it.global)
		if err != nil {
			return err
		}
		if prop.Signal == SigReturn {
			return it.reportf(perr.Syntactic, stmt.Line, "return outside of a function")
		}
		if prop.isLoopCtrl() {
			return it.reportf(perr.Syntactic, stmt.Line, "break/continue outside of a loop")
		}
	}
	return nil
}

// resolve implements the two-stage variable lookup: walk env's own
// chain first, then fall back to the interpreter's live global head -
// necessary because a closure's captured chain is frozen at definition
// time and will not see globals declared afterward. A name bound in
// neither chain resolves to the registry's built-in function of that
// name (len, typeof, ...), if there is one.
func (it *Interp) resolve(env *object.Environment, name string) (object.Value, bool) {
	if v, ok := env.Lookup(name); ok {
		return v, true
	}
	if it.global != nil {
		if v, ok := it.global.Lookup(name); ok {
			return v, true
		}
	}
	if it.Registry != nil {
		if nat, ok := it.Registry.Lookup(name); ok {
			return object.NativeVal(nat), true
		}
	}
	return object.Value{}, false
}

// assign implements the matching two-stage write: try env's chain,
// then the global chain.
func (it *Interp) assign(env *object.Environment, name string, val object.Value) bool {
	if env.Assign(name, val) {
		return true
	}
	if it.global != nil {
		return it.global.Assign(name, val)
	}
	return false
}

// Eval evaluates an expression node and returns its value.
func (it *Interp) Eval(n *ast.Node, env *object.Environment) (object.Value, error) {
	if n == nil {
		return object.Void(), nil
	}
	it.line = n.Line
	switch n.Kind {
	case ast.IntLit:
		return evalIntLit(n)
	case ast.FloatLit:
		return evalFloatLit(n)
	case ast.StringLit:
		return object.Str(n.Text), nil
	case ast.BoolLit:
		return object.Bool(n.Text == "true"), nil
	case ast.ListLit:
		return it.evalListLit(n, env)
	case ast.MapLit:
		return it.evalMapLit(n, env)
	case ast.VarRef:
		v, ok := it.resolve(env, n.Text)
		if !ok {
			return object.Value{}, it.reportf(perr.Name, n.Line, "undefined variable %q", n.Text)
		}
		return v, nil
	case ast.BinaryOp:
		return it.evalBinary(n, env)
	case ast.UnaryOp:
		return it.evalUnary(n, env)
	case ast.Call:
		return it.evalCall(n, env)
	case ast.New:
		return it.evalNew(n, env)
	case ast.FieldAccess:
		return it.evalFieldAccess(n, env)
	case ast.IndexAccess:
		return it.evalIndexAccess(n, env)
	}
	return object.Value{}, it.reportf(perr.Syntactic, n.Line, "cannot evaluate node kind %s", n.Kind)
}

func evalIntLit(n *ast.Node) (object.Value, error) {
	var v int32
	if _, err := fmt.Sscanf(n.Text, "%d", &v); err != nil {
		return object.Value{}, fmt.Errorf("[line %d] LexicalError: malformed integer literal %q", n.Line, n.Text)
	}
	return object.Int(v), nil
}

func evalFloatLit(n *ast.Node) (object.Value, error) {
	var v float32
	if _, err := fmt.Sscanf(n.Text, "%g", &v); err != nil {
		return object.Value{}, fmt.Errorf("[line %d] LexicalError: malformed float literal %q", n.Line, n.Text)
	}
	return object.Float(v), nil
}
