// ==============================================================================================
// FILE: evaluator/evaluator_unit_test.go
// ==============================================================================================
// PURPOSE: Unit tests for evaluator helpers and individual statement/expression handlers,
//          exercised directly against hand-built ast.Node trees rather than through the lexer
//          and parser.
// ==============================================================================================

package evaluator

import (
	"bytes"
	"testing"

	"pith/ast"
	"pith/internal/perr"
	"pith/loader"
	"pith/object"
)

func newTestInterp(t *testing.T) (*Interp, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	it := NewDefaultInterp(1<<20, 256, loader.NewFileSystemLoader(""), perr.NewBatch(), nil)
	it.Out = &buf
	return it, &buf
}

func TestGenericParamsSplitsListAndMap(t *testing.T) {
	if got := genericParams("list<int>"); len(got) != 1 || got[0] != "int" {
		t.Fatalf("expected [int], got %v", got)
	}
	if got := genericParams("map<string,int>"); len(got) != 2 || got[0] != "string" || got[1] != "int" {
		t.Fatalf("expected [string int], got %v", got)
	}
	if got := genericParams("int"); got != nil {
		t.Fatalf("expected nil for non-generic type, got %v", got)
	}
}

func TestTypeNameHeadStripsGenericParams(t *testing.T) {
	if got := typeNameHead("list<int>"); got != "list" {
		t.Fatalf("expected list, got %s", got)
	}
	if got := typeNameHead("int"); got != "int" {
		t.Fatalf("expected int, got %s", got)
	}
}

func TestPropagateHelpers(t *testing.T) {
	if !brk().isLoopCtrl() || !cont().isLoopCtrl() {
		t.Fatalf("break/continue should be loop-control signals")
	}
	if ret(object.Int(1)).isLoopCtrl() {
		t.Fatalf("return should not be a loop-control signal")
	}
	if none().stopsExecution() {
		t.Fatalf("none() should not stop execution")
	}
	if !ret(object.Void()).stopsExecution() {
		t.Fatalf("return should stop execution")
	}
}

func TestVarDeclWithoutInitializerDefaultsPerType(t *testing.T) {
	it, _ := newTestInterp(t)

	intDecl := ast.NewNode(ast.VarDecl, 1)
	intDecl.TypeName = "int"
	intDecl.Text = "n"
	intDecl.Children = []*ast.Node{nil, nil}

	env, err := it.execVarDecl(intDecl, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	v, _ := env.Lookup("n")
	if v.Kind != object.KVoid {
		t.Fatalf("expected void default for scalar decl, got %s", v.Kind)
	}

	listDecl := ast.NewNode(ast.VarDecl, 1)
	listDecl.TypeName = "list<int>"
	listDecl.Text = "xs"
	listDecl.Children = []*ast.Node{nil, nil}

	env, err = it.execVarDecl(listDecl, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	v, _ = env.Lookup("xs")
	if v.Kind != object.KList {
		t.Fatalf("expected an empty list default, got %s", v.Kind)
	}
	if len(v.Ref.(*object.List).Elems) != 0 {
		t.Fatalf("expected the default list to start empty")
	}
}

func TestVarDeclFixedSizeArrayPrefillsVoid(t *testing.T) {
	it, _ := newTestInterp(t)

	sizeExpr := ast.NewNode(ast.IntLit, 1)
	sizeExpr.Text = "3"
	spec := ast.NewNode(ast.ArraySpec, 1)
	spec.Children = []*ast.Node{sizeExpr}

	decl := ast.NewNode(ast.VarDecl, 1)
	decl.TypeName = "int"
	decl.Text = "arr"
	decl.Children = []*ast.Node{spec, nil}

	env, err := it.execVarDecl(decl, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	v, _ := env.Lookup("arr")
	l := v.Ref.(*object.List)
	if !l.FixedSize || len(l.Elems) != 3 {
		t.Fatalf("expected a fixed-size list of length 3, got fixed=%v len=%d", l.FixedSize, len(l.Elems))
	}
	for _, e := range l.Elems {
		if e.Kind != object.KVoid {
			t.Fatalf("expected every fixed-size slot prefilled to void")
		}
	}
	if err := l.Append(object.Int(1)); err == nil {
		t.Fatalf("expected append on a fixed-size list to fail")
	}
}

func TestExecPrintWritesSpaceSeparatedInspectedValues(t *testing.T) {
	it, buf := newTestInterp(t)
	n := ast.NewNode(ast.Print, 1)
	n.Children = []*ast.Node{
		strLit(1, "hi"),
		intLit(1, "2"),
	}
	if _, err := it.Exec(n, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := buf.String(); got != "hi 2\n" {
		t.Fatalf("expected %q, got %q", "hi 2\n", got)
	}
}

func TestExecIfTakesElseBranchWhenConditionFalse(t *testing.T) {
	it, buf := newTestInterp(t)
	printOne := ast.NewNode(ast.Print, 1)
	printOne.Children = []*ast.Node{strLit(2, "ok")}
	elseBlock := ast.NewNode(ast.Block, 1)
	elseBlock.Children = []*ast.Node{printOne}

	n := ast.NewNode(ast.If, 1)
	n.Children = []*ast.Node{boolLit(false), ast.NewNode(ast.Block, 1), elseBlock}

	if _, err := it.Exec(n, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := buf.String(); got != "ok\n" {
		t.Fatalf("expected else branch output, got %q", got)
	}
}

func TestExecWhileHonorsBreak(t *testing.T) {
	it, _ := newTestInterp(t)

	decl := ast.NewNode(ast.VarDecl, 1)
	decl.TypeName = "int"
	decl.Text = "i"
	decl.Children = []*ast.Node{nil, intLit(1, "0")}

	env, err := it.execVarDecl(decl, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cond := ast.NewNode(ast.BoolLit, 1)
	cond.Text = "true"
	body := ast.NewNode(ast.Block, 1)
	body.Children = []*ast.Node{ast.NewNode(ast.Break, 1)}

	n := ast.NewNode(ast.While, 1)
	n.Children = []*ast.Node{cond, body}

	prop, err := it.Exec(n, env)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if prop.Signal != SigNone {
		t.Fatalf("expected break to be absorbed by the loop, got signal %d", prop.Signal)
	}
}

// --- small node builders shared by this file's tests ---

func strLit(line int, text string) *ast.Node {
	n := ast.NewNode(ast.StringLit, line)
	n.Text = text
	return n
}

func boolLit(v bool) *ast.Node {
	n := ast.NewNode(ast.BoolLit, 1)
	if v {
		n.Text = "true"
	} else {
		n.Text = "false"
	}
	return n
}

func intLit(line int, text string) *ast.Node {
	n := ast.NewNode(ast.IntLit, line)
	n.Text = text
	return n
}
