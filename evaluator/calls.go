// ==============================================================================================
// FILE: evaluator/calls.go
// ==============================================================================================
// PURPOSE: Call dispatch across the three callee kinds (native, function, bound method) and
//          new-expression evaluation, matching the evaluator's call contract.
// ==============================================================================================

package evaluator

import (
	"pith/ast"
	"pith/internal/perr"
	"pith/object"
)

func (it *Interp) evalCall(n *ast.Node, env *object.Environment) (object.Value, error) {
	callee, err := it.Eval(n.Child(0), env)
	if err != nil {
		return object.Value{}, err
	}
	args := make([]object.Value, 0, len(n.Children)-1)
	for _, a := range n.Children[1:] {
		v, err := it.Eval(a, env)
		if err != nil {
			return object.Value{}, err
		}
		args = append(args, v)
	}
	return it.dispatch(n.Line, callee, args)
}

func (it *Interp) dispatch(line int, callee object.Value, args []object.Value) (object.Value, error) {
	switch callee.Kind {
	case object.KNative:
		v, err := callee.Nat.Fn(args, line)
		if err != nil {
			if exitErr, ok := err.(*object.ExitError); ok {
				return object.Value{}, exitErr
			}
			return object.Value{}, it.reportf(perr.Type, line, "%v", err)
		}
		return v, nil
	case object.KFunction:
		return it.callFunction(line, callee.Ref.(*object.Function), nil, args)
	case object.KBoundMethod:
		bm := callee.Ref.(*object.BoundMethod)
		return it.callFunction(line, bm.Method, bm.Receiver, args)
	}
	return object.Value{}, it.reportf(perr.Type, line, "cannot call a value of kind %s", object.TypeName(callee))
}

// callFunction introduces a fresh binding chain for one call: if
// receiver is non-nil, "this" is bound first, then each parameter in
// order, chained onto the function's captured closure - never onto the
// caller's environment.
func (it *Interp) callFunction(line int, fn *object.Function, receiver *object.Instance, args []object.Value) (object.Value, error) {
	local := fn.Closure
	if receiver != nil {
		local = object.NewEnvironment(it.GC, "this", object.InstanceVal(receiver), local)
	}
	for i, param := range fn.Params {
		var v object.Value
		if i < len(args) {
			v = args[i]
		} else {
			v = object.Void()
		}
		local = object.NewEnvironment(it.GC, param, v, local)
	}

	prop, err := it.Exec(fn.Body, local)
	if err != nil {
		return object.Value{}, err
	}
	switch prop.Signal {
	case SigReturn:
		return prop.Value, nil
	case SigBreak, SigContinue:
		return object.Value{}, it.reportf(perr.Syntactic, line, "break/continue outside of a loop in function %s", fn.Name)
	}
	return object.Void(), nil
}

func (it *Interp) evalNew(n *ast.Node, env *object.Environment) (object.Value, error) {
	callExpr := n.Child(0)
	classVal, err := it.Eval(callExpr.Child(0), env)
	if err != nil {
		return object.Value{}, err
	}
	if classVal.Kind != object.KClass {
		return object.Value{}, it.reportf(perr.Type, n.Line, "'new' target must be a class, got %s", object.TypeName(classVal))
	}
	class := classVal.Ref.(*object.Class)

	args := make([]object.Value, 0, len(callExpr.Children)-1)
	for _, a := range callExpr.Children[1:] {
		v, err := it.Eval(a, env)
		if err != nil {
			return object.Value{}, err
		}
		args = append(args, v)
	}

	inst := object.NewInstance(it.GC, class)
	it.GC.PushRoot(inst)
	defer it.GC.PopRoot()
	for _, f := range class.AllFields() {
		inst.Fields[f] = object.Void()
	}

	if init := class.ResolveMethod("init"); init != nil {
		if _, err := it.callFunction(n.Line, init, inst, args); err != nil {
			return object.Value{}, err
		}
	}
	return object.InstanceVal(inst), nil
}
