// ==============================================================================================
// FILE: evaluator/expressions.go
// ==============================================================================================
// PURPOSE: Evaluation of compound expressions: literals that allocate (list/map), binary and
//          unary operators with the int/float promotion rules, and field/index access. Call
//          dispatch and new-expressions live in calls.go.
// ==============================================================================================

package evaluator

import (
	"strings"

	"pith/ast"
	"pith/internal/perr"
	"pith/object"
)

func (it *Interp) evalListLit(n *ast.Node, env *object.Environment) (object.Value, error) {
	elems := make([]object.Value, 0, len(n.Children))
	for _, c := range n.Children {
		v, err := it.Eval(c, env)
		if err != nil {
			return object.Value{}, err
		}
		elems = append(elems, v)
	}
	l := object.NewList(it.GC, elems)
	return object.ListVal(l), nil
}

func (it *Interp) evalMapLit(n *ast.Node, env *object.Environment) (object.Value, error) {
	m := object.NewMap(it.GC, nil)
	it.GC.PushRoot(m)
	defer it.GC.PopRoot()
	for i := 0; i+1 < len(n.Children); i += 2 {
		kv, err := it.Eval(n.Children[i], env)
		if err != nil {
			return object.Value{}, err
		}
		if kv.Kind != object.KString {
			return object.Value{}, it.reportf(perr.Type, n.Line, "map keys must be strings, got %s", object.TypeName(kv))
		}
		vv, err := it.Eval(n.Children[i+1], env)
		if err != nil {
			return object.Value{}, err
		}
		if err := m.Insert(kv.S, vv); err != nil {
			return object.Value{}, it.reportf(perr.Type, n.Line, "%v", err)
		}
	}
	return object.MapVal(m), nil
}

func (it *Interp) evalUnary(n *ast.Node, env *object.Environment) (object.Value, error) {
	operand, err := it.Eval(n.Child(0), env)
	if err != nil {
		return object.Value{}, err
	}
	switch n.Text {
	case "-":
		switch operand.Kind {
		case object.KInt:
			return object.Int(-operand.I), nil
		case object.KFloat:
			return object.Float(-operand.F), nil
		}
	case "!":
		if operand.Kind == object.KBool {
			return object.Bool(!operand.B), nil
		}
	}
	return object.Value{}, it.reportf(perr.Type, n.Line, "unary %s not supported for %s", n.Text, object.TypeName(operand))
}

func (it *Interp) evalBinary(n *ast.Node, env *object.Environment) (object.Value, error) {
	left, err := it.Eval(n.Child(0), env)
	if err != nil {
		return object.Value{}, err
	}
	right, err := it.Eval(n.Child(1), env)
	if err != nil {
		return object.Value{}, err
	}
	return it.applyBinary(n.Line, n.Text, left, right)
}

func (it *Interp) applyBinary(line int, op string, left, right object.Value) (object.Value, error) {
	switch op {
	case "and":
		if left.Kind != object.KBool || right.Kind != object.KBool {
			return object.Value{}, it.reportf(perr.Type, line, "'and' requires bool operands")
		}
		return object.Bool(left.B && right.B), nil
	case "or":
		if left.Kind != object.KBool || right.Kind != object.KBool {
			return object.Value{}, it.reportf(perr.Type, line, "'or' requires bool operands")
		}
		return object.Bool(left.B || right.B), nil
	case "==":
		return object.Bool(object.Equal(left, right)), nil
	case "!=":
		return object.Bool(!object.Equal(left, right)), nil
	}

	if left.Kind == object.KString && right.Kind == object.KString {
		return it.applyStringBinary(line, op, left.S, right.S)
	}
	if isNumericPair(left, right) {
		return it.applyNumericBinary(line, op, left, right)
	}
	return object.Value{}, it.reportf(perr.Type, line, "operator %s not supported between %s and %s",
		op, object.TypeName(left), object.TypeName(right))
}

func isNumericPair(a, b object.Value) bool {
	return (a.Kind == object.KInt || a.Kind == object.KFloat) && (b.Kind == object.KInt || b.Kind == object.KFloat)
}

func (it *Interp) applyStringBinary(line int, op, l, r string) (object.Value, error) {
	switch op {
	case "+":
		return object.Str(l + r), nil
	case "<":
		return object.Bool(l < r), nil
	case ">":
		return object.Bool(l > r), nil
	case "<=":
		return object.Bool(l <= r), nil
	case ">=":
		return object.Bool(l >= r), nil
	}
	return object.Value{}, it.reportf(perr.Type, line, "operator %s not supported on strings", op)
}

func (it *Interp) applyNumericBinary(line int, op string, left, right object.Value) (object.Value, error) {
	bothInt := left.Kind == object.KInt && right.Kind == object.KInt
	if bothInt {
		l, r := left.I, right.I
		switch op {
		case "+":
			return object.Int(l + r), nil
		case "-":
			return object.Int(l - r), nil
		case "*":
			return object.Int(l * r), nil
		case "/":
			if r == 0 {
				return object.Value{}, it.reportf(perr.Arithmetic, line, "division by zero")
			}
			return object.Int(l / r), nil
		case "%":
			if r == 0 {
				return object.Value{}, it.reportf(perr.Arithmetic, line, "modulo by zero")
			}
			return object.Int(l % r), nil
		case "^":
			return object.Int(intPow(l, r)), nil
		case "<":
			return object.Bool(l < r), nil
		case ">":
			return object.Bool(l > r), nil
		case "<=":
			return object.Bool(l <= r), nil
		case ">=":
			return object.Bool(l >= r), nil
		}
		return object.Value{}, it.reportf(perr.Type, line, "operator %s not supported on int", op)
	}

	l, r := numericAsFloat(left), numericAsFloat(right)
	switch op {
	case "+":
		return object.Float(l + r), nil
	case "-":
		return object.Float(l - r), nil
	case "*":
		return object.Float(l * r), nil
	case "/":
		if r == 0 {
			return object.Value{}, it.reportf(perr.Arithmetic, line, "division by zero")
		}
		return object.Float(l / r), nil
	case "^":
		return object.Float(floatPow(l, r)), nil
	case "<":
		return object.Bool(l < r), nil
	case ">":
		return object.Bool(l > r), nil
	case "<=":
		return object.Bool(l <= r), nil
	case ">=":
		return object.Bool(l >= r), nil
	}
	return object.Value{}, it.reportf(perr.Type, line, "operator %s not supported on float", op)
}

func numericAsFloat(v object.Value) float32 {
	if v.Kind == object.KInt {
		return float32(v.I)
	}
	return v.F
}

func intPow(base, exp int32) int32 {
	if exp < 0 {
		return 0
	}
	result := int32(1)
	for i := int32(0); i < exp; i++ {
		result *= base
	}
	return result
}

func floatPow(base, exp float32) float32 {
	result := float32(1)
	neg := exp < 0
	n := exp
	if neg {
		n = -n
	}
	for i := float32(0); i < n; i++ {
		result *= base
	}
	if neg {
		return 1 / result
	}
	return result
}

func (it *Interp) evalFieldAccess(n *ast.Node, env *object.Environment) (object.Value, error) {
	target, err := it.Eval(n.Child(0), env)
	if err != nil {
		return object.Value{}, err
	}
	return it.fieldOf(n.Line, target, n.Text)
}

func (it *Interp) fieldOf(line int, target object.Value, name string) (object.Value, error) {
	switch target.Kind {
	case object.KInstance:
		inst := target.Ref.(*object.Instance)
		if v, ok := inst.Fields[name]; ok {
			return v, nil
		}
		if m := inst.Class.ResolveMethod(name); m != nil {
			bm := object.NewBoundMethod(it.GC, inst, m)
			return object.BoundMethodVal(bm), nil
		}
		return object.Value{}, it.reportf(perr.Name, line, "%s has no field or method %q", inst.Class.Name, name)
	case object.KModule:
		mod := target.Ref.(*object.Module)
		if v, ok := mod.Exports[name]; ok {
			return v, nil
		}
		return object.Value{}, it.reportf(perr.Name, line, "module %s has no member %q", mod.Name, name)
	case object.KString, object.KList:
		if v, ok := it.bindReceiverNative(name, target); ok {
			return v, nil
		}
	}
	return object.Value{}, it.reportf(perr.Name, line, "cannot access field %q on %s", name, object.TypeName(target))
}

// bindReceiverNative looks up name (upper, lower, len, append, ...) in
// the global native namespace and, if found, returns a new native that
// calls it with receiver prepended to whatever arguments the dotted
// call site supplies - letting string and list values expose the same
// built-ins both as free functions and as methods.
func (it *Interp) bindReceiverNative(name string, receiver object.Value) (object.Value, bool) {
	base, ok := it.Registry.Lookup(name)
	if !ok {
		return object.Value{}, false
	}
	bound := &object.Native{Name: name, Fn: func(args []object.Value, line int) (object.Value, error) {
		full := append([]object.Value{receiver}, args...)
		return base.Fn(full, line)
	}}
	return object.NativeVal(bound), true
}

func (it *Interp) evalIndexAccess(n *ast.Node, env *object.Environment) (object.Value, error) {
	target, err := it.Eval(n.Child(0), env)
	if err != nil {
		return object.Value{}, err
	}
	idx, err := it.Eval(n.Child(1), env)
	if err != nil {
		return object.Value{}, err
	}
	return it.indexOf(n.Line, target, idx)
}

func (it *Interp) indexOf(line int, target, idx object.Value) (object.Value, error) {
	switch target.Kind {
	case object.KList:
		if idx.Kind != object.KInt {
			return object.Value{}, it.reportf(perr.Type, line, "list index must be an int")
		}
		l := target.Ref.(*object.List)
		if idx.I < 0 || int(idx.I) >= len(l.Elems) {
			return object.Value{}, it.reportf(perr.Bounds, line, "list index %d out of range (len %d)", idx.I, len(l.Elems))
		}
		return l.Elems[idx.I], nil
	case object.KMap:
		if idx.Kind != object.KString {
			return object.Value{}, it.reportf(perr.Type, line, "map key must be a string")
		}
		m := target.Ref.(*object.Map)
		v, ok := m.Entries[idx.S]
		if !ok {
			return object.Value{}, it.reportf(perr.Bounds, line, "map has no key %q", idx.S)
		}
		return v, nil
	case object.KString:
		if idx.Kind != object.KInt {
			return object.Value{}, it.reportf(perr.Type, line, "string index must be an int")
		}
		if idx.I < 0 || int(idx.I) >= len(target.S) {
			return object.Value{}, it.reportf(perr.Bounds, line, "string index %d out of range", idx.I)
		}
		return object.Str(string(target.S[idx.I])), nil
	}
	return object.Value{}, it.reportf(perr.Type, line, "cannot index %s", object.TypeName(target))
}

// typeNameHead returns the head type name of a possibly generic
// declared type (e.g. "list" from "list<int>"), used to decide which
// heap kind a VarDecl's initializer should produce when absent.
func typeNameHead(typeName string) string {
	if i := strings.IndexByte(typeName, '<'); i >= 0 {
		return typeName[:i]
	}
	return typeName
}
