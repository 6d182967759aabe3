// ==============================================================================================
// FILE: parser/parser_integration_test.go
// ==============================================================================================
// PURPOSE: End-to-end parse tests over small but complete programs, checking that the whole
//          source round-trips through Node.String() without losing structure.
// ==============================================================================================

package parser

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"pith/ast"
	"pith/lexer"
)

func parseProgramErrors(t *testing.T, input string) []string {
	t.Helper()
	l := lexer.New(input)
	p := New(l)
	p.ParseProgram()
	return p.Errors()
}

func TestFibonacciProgramParsesCleanly(t *testing.T) {
	input := `define int fib(int n):
    if n < 2:
        return n
    return fib(n - 1) + fib(n - 2)

print(fib(10))
`
	if errs := parseProgramErrors(t, input); len(errs) != 0 {
		t.Fatalf("unexpected parser errors: %v", errs)
	}
}

func TestClassHierarchyProgramParsesCleanly(t *testing.T) {
	input := `class Animal:
    string name

    define speak():
        print(name)

class Dog extends Animal:
    define speak():
        print("woof")

Dog d = new Dog()
d.speak()
`
	if errs := parseProgramErrors(t, input); len(errs) != 0 {
		t.Fatalf("unexpected parser errors: %v", errs)
	}
}

func TestLoopsAndSwitchProgramParsesCleanly(t *testing.T) {
	input := `list<int> nums = [1, 2, 3]
int total = 0
foreach (int n in nums):
    total = total + n

for (int i = 0; i < 3; i = i + 1):
    switch (i):
        case 0:
            print("zero")
        case 1:
            print("one")
        default:
            print("many")

print(total)
`
	if errs := parseProgramErrors(t, input); len(errs) != 0 {
		t.Fatalf("unexpected parser errors: %v", errs)
	}
}

// nodeDiffOpts ignores Line, which a pretty-print/relex pass cannot be
// expected to preserve, while still comparing every other field of
// ast.Node structurally and recursively through Children.
var nodeDiffOpts = cmp.Options{cmpopts.IgnoreFields(ast.Node{}, "Line")}

func nodesEqual(a, b *ast.Node) bool {
	return cmp.Equal(a, b, nodeDiffOpts)
}

func TestRoundtripThroughPrettyPrintReparses(t *testing.T) {
	programs := []string{
		"print(1 + 2 * 3)\nprint((1 + 2) * 3)\n",
		"define int add(int a, int b):\n    return a + b\nprint(add(2, 3))\n",
		"class A:\n    define string speak():\n        return \"A\"\nclass B extends A:\n    define string speak():\n        return \"B\"\n",
		"list<int> xs = [1, 2, 3]\nforeach (int v in xs):\n    print(v)\n",
	}
	for _, src := range programs {
		l1 := lexer.New(src)
		p1 := New(l1)
		prog1 := p1.ParseProgram()
		if errs := p1.Errors(); len(errs) != 0 {
			t.Fatalf("unexpected parse errors for %q: %v", src, errs)
		}

		printed := prog1.String()

		l2 := lexer.New(printed)
		p2 := New(l2)
		prog2 := p2.ParseProgram()
		if errs := p2.Errors(); len(errs) != 0 {
			t.Fatalf("unexpected parse errors reparsing pretty-printed output %q: %v", printed, errs)
		}

		if diff := cmp.Diff(prog1, prog2, nodeDiffOpts); diff != "" {
			t.Fatalf("roundtrip mismatch for %q (printed: %s):\n%s", src, printed, diff)
		}
	}
}

func TestMalformedIfReportsError(t *testing.T) {
	input := "if x\n  print(1)\n"
	errs := parseProgramErrors(t, input)
	if len(errs) == 0 {
		t.Fatalf("expected a parse error for a missing colon")
	}
}
