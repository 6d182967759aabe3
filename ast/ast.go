// ==============================================================================================
// FILE: ast/ast.go
// ==============================================================================================
// PACKAGE: ast
// PURPOSE: Defines the Abstract Syntax Tree produced by the parser and walked by the evaluator.
//          Rather than one Go type per construct (interfaces + dynamic dispatch), every node is
//          the same tagged-variant struct: a Kind tag plus a small set of generically-named
//          payload fields, interpreted positionally per Kind. exec/eval switch on Kind instead
//          of relying on polymorphism - see evaluator.Eval/evaluator.Exec.
// ==============================================================================================

package ast

import (
	"fmt"
	"strings"
)

// Kind tags every construct the grammar can produce.
type Kind int

const (
	Program Kind = iota
	Block

	IntLit
	FloatLit
	StringLit
	BoolLit
	ListLit
	MapLit

	VarDecl
	ArraySpec // the optional "[size]" part of a typed declaration; Children[0] is the size expr, or absent for an unsized spec
	Assign
	VarRef

	BinaryOp
	UnaryOp

	If
	While
	DoWhile
	CFor
	ForEach
	Switch
	Case
	DefaultCase
	Break
	Continue
	Return
	Pass
	Print

	FuncDef
	Call
	Import

	ClassDef
	FieldDecl
	New
	FieldAccess
	IndexAccess
)

var kindNames = map[Kind]string{
	Program: "Program", Block: "Block",
	IntLit: "IntLit", FloatLit: "FloatLit", StringLit: "StringLit", BoolLit: "BoolLit",
	ListLit: "ListLit", MapLit: "MapLit",
	VarDecl: "VarDecl", ArraySpec: "ArraySpec", Assign: "Assign", VarRef: "VarRef",
	BinaryOp: "BinaryOp", UnaryOp: "UnaryOp",
	If: "If", While: "While", DoWhile: "DoWhile", CFor: "CFor", ForEach: "ForEach",
	Switch: "Switch", Case: "Case", DefaultCase: "DefaultCase",
	Break: "Break", Continue: "Continue", Return: "Return", Pass: "Pass", Print: "Print",
	FuncDef: "FuncDef", Call: "Call", Import: "Import",
	ClassDef: "ClassDef", FieldDecl: "FieldDecl", New: "New",
	FieldAccess: "FieldAccess", IndexAccess: "IndexAccess",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Node is the single AST node type. Fields are interpreted positionally
// per Kind; the parser's constructors and write below show the
// convention for each construct.
//
// Common fields present on (almost) every node:
//   Text       - operator text, identifier/name, or literal text payload
//   TypeName   - declared-type-name payload (declarations, generics, foreach binder)
//   ParentName - parent-class-name payload (class definitions only)
//   Children   - ordered child list, positionally interpreted per Kind
//   Params     - ordered parameter/argument-name list (function/class parameters)
//   Line       - source line this node was parsed from
type Node struct {
	Kind       Kind
	Line       int
	Text       string
	TypeName   string
	ParentName string
	Children   []*Node
	Params     []string
}

func NewNode(kind Kind, line int) *Node {
	return &Node{Kind: kind, Line: line}
}

// Child returns Children[i], or nil if i is out of range or the slot
// itself holds nil (both mean "absent" to callers).
func (n *Node) Child(i int) *Node {
	if n == nil || i < 0 || i >= len(n.Children) {
		return nil
	}
	return n.Children[i]
}

// String renders the node back to Pith source text. It is used both for
// debugging (REPL .debug mode) and to exercise the lex/parse/print/relex
// roundtrip property: printing a parsed program and reparsing the result
// must produce a structurally equivalent tree.
func (n *Node) String() string {
	if n == nil {
		return ""
	}
	var b strings.Builder
	n.write(&b, 0)
	return b.String()
}

func indent(b *strings.Builder, depth int) {
	for i := 0; i < depth; i++ {
		b.WriteString("    ")
	}
}

func (n *Node) write(b *strings.Builder, depth int) {
	switch n.Kind {
	case Program:
		for _, c := range n.Children {
			c.write(b, depth)
			b.WriteString("\n")
		}
	case Block:
		for _, c := range n.Children {
			indent(b, depth)
			c.write(b, depth)
			b.WriteString("\n")
		}
	case IntLit, FloatLit:
		b.WriteString(n.Text)
	case StringLit:
		b.WriteString(fmt.Sprintf("%q", n.Text))
	case BoolLit:
		b.WriteString(n.Text)
	case ListLit:
		b.WriteString("[")
		for i, c := range n.Children {
			if i > 0 {
				b.WriteString(", ")
			}
			c.write(b, 0)
		}
		b.WriteString("]")
	case MapLit:
		b.WriteString("{")
		for i := 0; i+1 < len(n.Children); i += 2 {
			if i > 0 {
				b.WriteString(", ")
			}
			n.Children[i].write(b, 0)
			b.WriteString(": ")
			n.Children[i+1].write(b, 0)
		}
		b.WriteString("}")
	case VarDecl:
		b.WriteString(n.TypeName)
		if spec := n.Child(0); spec != nil {
			spec.write(b, 0)
		}
		b.WriteString(" " + n.Text)
		if init := n.Child(1); init != nil {
			b.WriteString(" = ")
			init.write(b, 0)
		}
	case ArraySpec:
		b.WriteString("[")
		if size := n.Child(0); size != nil {
			size.write(b, 0)
		}
		b.WriteString("]")
	case Assign:
		n.Child(0).write(b, 0)
		b.WriteString(" = ")
		n.Child(1).write(b, 0)
	case VarRef:
		b.WriteString(n.Text)
	case BinaryOp:
		b.WriteString("(")
		n.Child(0).write(b, 0)
		b.WriteString(" " + n.Text + " ")
		n.Child(1).write(b, 0)
		b.WriteString(")")
	case UnaryOp:
		b.WriteString("(" + n.Text)
		n.Child(0).write(b, 0)
		b.WriteString(")")
	case If:
		b.WriteString("if ")
		n.Child(0).write(b, 0)
		b.WriteString(":\n")
		n.Child(1).write(b, depth+1)
		if alt := n.Child(2); alt != nil {
			indent(b, depth)
			if alt.Kind == If {
				b.WriteString("el")
				alt.write(b, depth)
			} else {
				b.WriteString("else:\n")
				alt.write(b, depth+1)
			}
		}
	case While:
		b.WriteString("while ")
		n.Child(0).write(b, 0)
		b.WriteString(":\n")
		n.Child(1).write(b, depth+1)
	case DoWhile:
		b.WriteString("do:\n")
		n.Child(0).write(b, depth+1)
		indent(b, depth)
		b.WriteString("while (")
		n.Child(1).write(b, 0)
		b.WriteString(")")
	case CFor:
		b.WriteString("for (")
		if in := n.Child(0); in != nil {
			in.write(b, 0)
		}
		b.WriteString("; ")
		if cond := n.Child(1); cond != nil {
			cond.write(b, 0)
		}
		b.WriteString("; ")
		if inc := n.Child(2); inc != nil {
			inc.write(b, 0)
		}
		b.WriteString("):\n")
		n.Child(3).write(b, depth+1)
	case ForEach:
		b.WriteString(fmt.Sprintf("foreach (%s %s in ", n.TypeName, n.Text))
		n.Child(0).write(b, 0)
		b.WriteString("):\n")
		n.Child(1).write(b, depth+1)
	case Switch:
		b.WriteString("switch (")
		n.Child(0).write(b, 0)
		b.WriteString("):\n")
		for _, c := range n.Children[1:] {
			indent(b, depth+1)
			c.write(b, depth+1)
		}
	case Case:
		b.WriteString("case ")
		n.Child(0).write(b, 0)
		b.WriteString(":\n")
		n.Child(1).write(b, depth+1)
	case DefaultCase:
		b.WriteString("default:\n")
		n.Child(0).write(b, depth+1)
	case Break:
		b.WriteString("break")
	case Continue:
		b.WriteString("continue")
	case Pass:
		b.WriteString("pass")
	case Return:
		b.WriteString("return")
		if v := n.Child(0); v != nil {
			b.WriteString(" ")
			v.write(b, 0)
		}
	case Print:
		b.WriteString("print(")
		for i, c := range n.Children {
			if i > 0 {
				b.WriteString(", ")
			}
			c.write(b, 0)
		}
		b.WriteString(")")
	case FuncDef:
		b.WriteString("define ")
		if n.TypeName != "" {
			b.WriteString(n.TypeName + " ")
		}
		b.WriteString(fmt.Sprintf("%s(%s):\n", n.Text, strings.Join(n.Params, ", ")))
		n.Child(0).write(b, depth+1)
	case Call:
		n.Child(0).write(b, 0)
		b.WriteString("(")
		for i, c := range n.Children[1:] {
			if i > 0 {
				b.WriteString(", ")
			}
			c.write(b, 0)
		}
		b.WriteString(")")
	case Import:
		b.WriteString(fmt.Sprintf("import %q", n.Text))
	case ClassDef:
		b.WriteString("class " + n.Text)
		if n.ParentName != "" {
			b.WriteString(" extends " + n.ParentName)
		}
		b.WriteString(":\n")
		for _, c := range n.Children {
			indent(b, depth+1)
			c.write(b, depth+1)
			b.WriteString("\n")
		}
	case FieldDecl:
		b.WriteString(n.TypeName + " " + n.Text)
	case New:
		b.WriteString("new ")
		n.Child(0).write(b, 0)
	case FieldAccess:
		n.Child(0).write(b, 0)
		b.WriteString("." + n.Text)
	case IndexAccess:
		n.Child(0).write(b, 0)
		b.WriteString("[")
		n.Child(1).write(b, 0)
		b.WriteString("]")
	default:
		b.WriteString(n.Kind.String())
	}
}
