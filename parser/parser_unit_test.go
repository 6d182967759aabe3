// ==============================================================================================
// FILE: parser/parser_unit_test.go
// ==============================================================================================
// PURPOSE: Unit tests for expression precedence and individual statement forms.
// ==============================================================================================

package parser

import (
	"testing"

	"pith/ast"
	"pith/lexer"
)

func parseExprString(t *testing.T, input string) string {
	t.Helper()
	l := lexer.New(input + "\n")
	p := New(l)
	prog := p.ParseProgram()
	if len(p.Errors()) != 0 {
		t.Fatalf("parser errors: %v", p.Errors())
	}
	if len(prog.Children) != 1 {
		t.Fatalf("expected exactly one statement, got %d", len(prog.Children))
	}
	return prog.Children[0].String()
}

func TestOperatorPrecedence(t *testing.T) {
	tests := []struct{ input, want string }{
		{"1 + 2 * 3", "(1 + (2 * 3))"},
		{"(1 + 2) * 3", "((1 + 2) * 3)"},
		{"a + b - c", "((a + b) - c)"},
		{"a or b and c", "(a or (b and c))"},
		{"1 < 2 == 3 > 4", "((1 < 2) == (3 > 4))"},
		// ^ is left-associative per the grammar, unlike math convention.
		{"2 ^ 3 ^ 2", "((2 ^ 3) ^ 2)"},
		// unary prefix binds tighter than exponent.
		{"-x ^ y", "((-x) ^ y)"},
		{"!a and !b", "((!a) and (!b))"},
	}
	for _, tt := range tests {
		got := parseExprString(t, tt.input)
		if got != tt.want {
			t.Errorf("input %q: got %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestCallAndFieldAndIndexChain(t *testing.T) {
	got := parseExprString(t, "obj.method(1, 2)[0]")
	want := "obj.method(1, 2)[0]"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestUnaryOverPostfixChain(t *testing.T) {
	got := parseExprString(t, "-obj.field")
	want := "(-obj.field)"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestListAndMapLiterals(t *testing.T) {
	got := parseExprString(t, "[1, 2, 3]")
	if got != "[1, 2, 3]" {
		t.Errorf("list: got %q", got)
	}
	got = parseExprString(t, `{"a": 1, "b": 2}`)
	if got != `{"a": 1, "b": 2}` {
		t.Errorf("map: got %q", got)
	}
}

func TestNewExpression(t *testing.T) {
	got := parseExprString(t, "new Dog(\"Rex\")")
	if got != `new Dog("Rex")` {
		t.Errorf("got %q", got)
	}
}

func parseOne(t *testing.T, input string) *ast.Node {
	t.Helper()
	l := lexer.New(input)
	p := New(l)
	prog := p.ParseProgram()
	if len(p.Errors()) != 0 {
		t.Fatalf("parser errors for %q: %v", input, p.Errors())
	}
	if len(prog.Children) != 1 {
		t.Fatalf("expected 1 statement, got %d: %v", len(prog.Children), prog.Children)
	}
	return prog.Children[0]
}

func TestTypedDeclaration(t *testing.T) {
	n := parseOne(t, "int x = 5\n")
	if n.Kind != ast.VarDecl || n.TypeName != "int" || n.Text != "x" {
		t.Fatalf("got %+v", n)
	}
	if n.Child(1) == nil || n.Child(1).Text != "5" {
		t.Fatalf("expected initializer 5, got %v", n.Child(1))
	}
}

func TestTypedDeclarationWithArraySpec(t *testing.T) {
	n := parseOne(t, "int[5] arr\n")
	if n.Kind != ast.VarDecl || n.TypeName != "int" {
		t.Fatalf("got %+v", n)
	}
	spec := n.Child(0)
	if spec == nil || spec.Kind != ast.ArraySpec || spec.Child(0).Text != "5" {
		t.Fatalf("expected ArraySpec[5], got %+v", spec)
	}
}

func TestGenericListDeclaration(t *testing.T) {
	n := parseOne(t, "list<int> nums = [1, 2]\n")
	if n.TypeName != "list<int>" {
		t.Fatalf("got TypeName=%q", n.TypeName)
	}
}

func TestGenericMapDeclaration(t *testing.T) {
	n := parseOne(t, "map<string,int> scores\n")
	if n.TypeName != "map<string,int>" {
		t.Fatalf("got TypeName=%q", n.TypeName)
	}
}

func TestUserTypedDeclarationNoInitializer(t *testing.T) {
	n := parseOne(t, "Dog rex\n")
	if n.Kind != ast.VarDecl || n.TypeName != "Dog" || n.Text != "rex" {
		t.Fatalf("got %+v", n)
	}
	if n.Child(1) != nil {
		t.Fatalf("expected no initializer, got %v", n.Child(1))
	}
}

func TestAssignmentStatement(t *testing.T) {
	n := parseOne(t, "x = 5\n")
	if n.Kind != ast.Assign {
		t.Fatalf("expected Assign, got %s", n.Kind)
	}
	if n.Child(0).Text != "x" || n.Child(1).Text != "5" {
		t.Fatalf("got %+v", n)
	}
}

func TestIfElifElse(t *testing.T) {
	input := "if a:\n  print(1)\nelif b:\n  print(2)\nelse:\n  print(3)\n"
	n := parseOne(t, input)
	if n.Kind != ast.If {
		t.Fatalf("expected If, got %s", n.Kind)
	}
	elif := n.Child(2)
	if elif == nil || elif.Kind != ast.If {
		t.Fatalf("expected nested If for elif, got %+v", elif)
	}
	elseBlock := elif.Child(2)
	if elseBlock == nil || elseBlock.Kind != ast.Block {
		t.Fatalf("expected else Block, got %+v", elseBlock)
	}
}

func TestWhileLoop(t *testing.T) {
	n := parseOne(t, "while x < 10:\n  x = x + 1\n")
	if n.Kind != ast.While {
		t.Fatalf("expected While, got %s", n.Kind)
	}
}

func TestDoWhileLoop(t *testing.T) {
	n := parseOne(t, "do:\n  x = x + 1\nwhile (x < 10)\n")
	if n.Kind != ast.DoWhile {
		t.Fatalf("expected DoWhile, got %s", n.Kind)
	}
	if n.Child(1).Text != "<" {
		t.Fatalf("expected cond binary op <, got %+v", n.Child(1))
	}
}

func TestCStyleForLoop(t *testing.T) {
	n := parseOne(t, "for (int i = 0; i < 10; i = i + 1):\n  print(i)\n")
	if n.Kind != ast.CFor {
		t.Fatalf("expected CFor, got %s", n.Kind)
	}
	if n.Child(0).Kind != ast.VarDecl {
		t.Fatalf("expected init VarDecl, got %+v", n.Child(0))
	}
	if n.Child(1).Kind != ast.BinaryOp {
		t.Fatalf("expected cond BinaryOp, got %+v", n.Child(1))
	}
	if n.Child(2).Kind != ast.Assign {
		t.Fatalf("expected inc Assign, got %+v", n.Child(2))
	}
}

func TestForeachLoop(t *testing.T) {
	n := parseOne(t, "foreach (int x in items):\n  print(x)\n")
	if n.Kind != ast.ForEach || n.TypeName != "int" || n.Text != "x" {
		t.Fatalf("got %+v", n)
	}
}

func TestSwitchWithFallthroughAndDefault(t *testing.T) {
	input := "switch (x):\n  case 1:\n    print(1)\n  case 2:\n    print(2)\n  default:\n    print(0)\n"
	n := parseOne(t, input)
	if n.Kind != ast.Switch {
		t.Fatalf("expected Switch, got %s", n.Kind)
	}
	if len(n.Children) != 4 {
		t.Fatalf("expected subject + 2 cases + default, got %d children", len(n.Children))
	}
	if n.Children[1].Kind != ast.Case || n.Children[2].Kind != ast.Case {
		t.Fatalf("expected Case nodes, got %+v, %+v", n.Children[1], n.Children[2])
	}
	if n.Children[3].Kind != ast.DefaultCase {
		t.Fatalf("expected DefaultCase, got %+v", n.Children[3])
	}
}

func TestSwitchCaseWithNoIndentedBodyFallsThroughAsEmptyBlock(t *testing.T) {
	input := "switch (x):\n  case 1:\n  case 2:\n    print(2)\n  default:\n    print(0)\n"
	n := parseOne(t, input)
	if n.Kind != ast.Switch {
		t.Fatalf("expected Switch, got %s", n.Kind)
	}
	if len(n.Children) != 4 {
		t.Fatalf("expected subject + 2 cases + default, got %d children", len(n.Children))
	}
	firstCase := n.Children[1]
	if firstCase.Kind != ast.Case {
		t.Fatalf("expected Case, got %+v", firstCase)
	}
	body := firstCase.Child(1)
	if body.Kind != ast.Block || len(body.Children) != 0 {
		t.Fatalf("expected case 1 to parse as an empty block, got %+v", body)
	}
	secondCase := n.Children[2]
	if secondCase.Kind != ast.Case || len(secondCase.Child(1).Children) != 1 {
		t.Fatalf("expected case 2 to keep its own body, got %+v", secondCase)
	}
}

func TestFunctionDefinitionWithTypedParamsAndReturn(t *testing.T) {
	n := parseOne(t, "define int add(int a, int b):\n  return a + b\n")
	if n.Kind != ast.FuncDef || n.Text != "add" || n.TypeName != "int" {
		t.Fatalf("got %+v", n)
	}
	if len(n.Params) != 2 || n.Params[0] != "a" || n.Params[1] != "b" {
		t.Fatalf("got params %v", n.Params)
	}
}

func TestFunctionDefinitionVoidReturnImplied(t *testing.T) {
	n := parseOne(t, "define greet(name):\n  print(name)\n")
	if n.Kind != ast.FuncDef || n.TypeName != "" {
		t.Fatalf("got %+v", n)
	}
	if len(n.Params) != 1 || n.Params[0] != "name" {
		t.Fatalf("got params %v", n.Params)
	}
}

func TestClassDefinitionWithInheritance(t *testing.T) {
	input := "class Dog extends Animal:\n  string name\n  define speak():\n    print(name)\n"
	n := parseOne(t, input)
	if n.Kind != ast.ClassDef || n.Text != "Dog" || n.ParentName != "Animal" {
		t.Fatalf("got %+v", n)
	}
	if len(n.Children) != 2 {
		t.Fatalf("expected 2 members, got %d", len(n.Children))
	}
	if n.Children[0].Kind != ast.FieldDecl {
		t.Fatalf("expected FieldDecl, got %+v", n.Children[0])
	}
	if n.Children[1].Kind != ast.FuncDef {
		t.Fatalf("expected FuncDef, got %+v", n.Children[1])
	}
}

func TestClassBodyPassIsDiscarded(t *testing.T) {
	n := parseOne(t, "class Empty:\n  pass\n")
	if n.Kind != ast.ClassDef || len(n.Children) != 0 {
		t.Fatalf("expected ClassDef with no members, got %+v", n)
	}
}

func TestPrintStatementVariadic(t *testing.T) {
	n := parseOne(t, "print(1, 2, 3)\n")
	if n.Kind != ast.Print || len(n.Children) != 3 {
		t.Fatalf("got %+v", n)
	}
}

func TestImportStatement(t *testing.T) {
	n := parseOne(t, `import "math"` + "\n")
	if n.Kind != ast.Import || n.Text != "math" {
		t.Fatalf("got %+v", n)
	}
}

func TestBreakContinuePass(t *testing.T) {
	for _, tt := range []struct {
		input string
		kind  ast.Kind
	}{
		{"break\n", ast.Break},
		{"continue\n", ast.Continue},
		{"pass\n", ast.Pass},
	} {
		n := parseOne(t, tt.input)
		if n.Kind != tt.kind {
			t.Errorf("input %q: got kind %s, want %s", tt.input, n.Kind, tt.kind)
		}
	}
}
