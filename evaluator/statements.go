// ==============================================================================================
// FILE: evaluator/statements.go
// ==============================================================================================
// PURPOSE: Statement execution. Exec walks a block's statements in order, threading a
//          growing environment chain through declaring forms (var/func/class/import) so each
//          new binding is visible to the statements that follow it, and dispatching every
//          other statement kind to its handler.
// ==============================================================================================

package evaluator

import (
	"fmt"
	"strings"

	"pith/ast"
	"pith/internal/perr"
	"pith/lexer"
	"pith/object"
	"pith/parser"
)

// isDeclaring reports whether a statement kind introduces a new name
// into whatever chain it executes against, rather than just acting.
func isDeclaring(k ast.Kind) bool {
	switch k {
	case ast.VarDecl, ast.FuncDef, ast.ClassDef, ast.Import:
		return true
	}
	return false
}

// Exec executes one statement and reports any non-local control effect
// it produced. Declaring statements are only reachable here through
// Block (and RunProgram, for the top level) which thread the extended
// chain themselves; Exec never needs to hand a new environment back to
// its caller.
func (it *Interp) Exec(n *ast.Node, env *object.Environment) (Propagate, error) {
	if n == nil {
		return none(), nil
	}
	it.line = n.Line
	switch n.Kind {
	case ast.Block:
		return it.execBlock(n, env)
	case ast.VarDecl, ast.FuncDef, ast.ClassDef, ast.Import:
		_, err := it.execDecl(n, env)
		if err != nil {
			return Propagate{}, err
		}
		return none(), nil
	case ast.Assign:
		return it.execAssign(n, env)
	case ast.Print:
		return it.execPrint(n, env)
	case ast.If:
		return it.execIf(n, env)
	case ast.While:
		return it.execWhile(n, env)
	case ast.DoWhile:
		return it.execDoWhile(n, env)
	case ast.CFor:
		return it.execCFor(n, env)
	case ast.ForEach:
		// Reached only defensively: execBlock and RunProgram special-case
		// ForEach themselves so the loop variable's binding can be
		// threaded back into the caller's chain. A ForEach Exec'd through
		// here directly has nowhere to hand that binding back to.
		_, prop, err := it.execForEach(n, env)
		if err != nil {
			return Propagate{}, err
		}
		return prop, nil
	case ast.Switch:
		return it.execSwitch(n, env)
	case ast.Break:
		return brk(), nil
	case ast.Continue:
		return cont(), nil
	case ast.Return:
		v, err := it.Eval(n.Child(0), env)
		if err != nil {
			return Propagate{}, err
		}
		return ret(v), nil
	case ast.Pass:
		return none(), nil
	}
	// Every other kind is an expression used as a statement (a bare
	// call, most commonly): evaluate it for effect and discard the
	// value.
	if _, err := it.Eval(n, env); err != nil {
		return Propagate{}, err
	}
	return none(), nil
}

// execBlock runs a block's statements against a chain that starts at
// env and grows by one frame for each declaring statement encountered,
// so later statements in the same block see earlier declarations.
func (it *Interp) execBlock(n *ast.Node, env *object.Environment) (Propagate, error) {
	cur := env
	for _, stmt := range n.Children {
		if isDeclaring(stmt.Kind) {
			newEnv, err := it.execDecl(stmt, cur)
			if err != nil {
				return Propagate{}, err
			}
			cur = newEnv
			continue
		}
		if stmt.Kind == ast.ForEach {
			newEnv, prop, err := it.execForEach(stmt, cur)
			if err != nil {
				return Propagate{}, err
			}
			cur = newEnv
			if prop.stopsExecution() {
				return prop, nil
			}
			continue
		}
		prop, err := it.Exec(stmt, cur)
		if err != nil {
			return Propagate{}, err
		}
		if prop.stopsExecution() {
			return prop, nil
		}
	}
	return none(), nil
}

// execDecl evaluates one declaring statement and returns env extended
// by the new binding. It is shared by execBlock and RunProgram, which
// each decide where the returned chain head is kept (a local variable
// for execBlock, it.global for RunProgram).
func (it *Interp) execDecl(n *ast.Node, env *object.Environment) (*object.Environment, error) {
	switch n.Kind {
	case ast.VarDecl:
		return it.execVarDecl(n, env)
	case ast.FuncDef:
		return it.execFuncDef(n, env)
	case ast.ClassDef:
		return it.execClassDef(n, env)
	case ast.Import:
		return it.execImport(n, env)
	}
	return env, it.reportf(perr.Syntactic, n.Line, "not a declaring statement: %s", n.Kind)
}

func (it *Interp) execVarDecl(n *ast.Node, env *object.Environment) (*object.Environment, error) {
	var val object.Value
	if init := n.Child(1); init != nil {
		v, err := it.Eval(init, env)
		if err != nil {
			return env, err
		}
		val = v
	} else {
		v, err := it.zeroValue(n, env)
		if err != nil {
			return env, err
		}
		val = v
	}
	return object.NewEnvironment(it.GC, n.Text, val, env), nil
}

// zeroValue produces the value an un-initialized declaration of n's
// declared type evaluates to: a void-prefilled fixed-size list for any
// `T[n]` declaration, an empty container for list/map types, void for
// everything else including user class types.
func (it *Interp) zeroValue(n *ast.Node, env *object.Environment) (object.Value, error) {
	head := typeNameHead(n.TypeName)
	params := genericParams(n.TypeName)

	switch {
	case head == "list" || (head != "map" && n.Child(0) != nil):
		elemType := ""
		if head != "list" {
			elemType = head
		} else if len(params) == 1 {
			elemType = params[0]
		}
		if spec := n.Child(0); spec != nil {
			size := 0
			if sizeExpr := spec.Child(0); sizeExpr != nil {
				sv, err := it.Eval(sizeExpr, env)
				if err != nil {
					return object.Value{}, err
				}
				if sv.Kind != object.KInt {
					return object.Value{}, it.reportf(perr.Type, n.Line, "array size must be an int")
				}
				size = int(sv.I)
			}
			return object.ListVal(object.NewFixedList(it.GC, size, elemType)), nil
		}
		l := object.NewList(it.GC, nil)
		l.ElemType = elemType
		return object.ListVal(l), nil
	case head == "map":
		valueType := ""
		if len(params) == 2 {
			valueType = params[1]
		}
		return object.MapVal(object.NewTypedMap(it.GC, valueType)), nil
	}
	return object.Void(), nil
}

// genericParams splits "list<int>" into ["int"] or "map<string,int>"
// into ["string", "int"]; it returns nil for a non-generic type name.
func genericParams(typeName string) []string {
	open := strings.IndexByte(typeName, '<')
	shut := strings.IndexByte(typeName, '>')
	if open < 0 || shut < 0 || shut < open {
		return nil
	}
	inner := typeName[open+1 : shut]
	parts := strings.Split(inner, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

func (it *Interp) execFuncDef(n *ast.Node, env *object.Environment) (*object.Environment, error) {
	fn := object.NewFunction(it.GC, n.Text, n.Params, n.Child(0), env)
	return object.NewEnvironment(it.GC, n.Text, object.FunctionVal(fn), env), nil
}

func (it *Interp) execClassDef(n *ast.Node, env *object.Environment) (*object.Environment, error) {
	var parent *object.Class
	if n.ParentName != "" {
		pv, ok := it.resolve(env, n.ParentName)
		if !ok || pv.Kind != object.KClass {
			return env, it.reportf(perr.Name, n.Line, "undefined parent class %q", n.ParentName)
		}
		parent = pv.Ref.(*object.Class)
	}

	class := object.NewClass(it.GC, n.Text, parent)
	it.GC.PushRoot(class)
	defer it.GC.PopRoot()

	for _, member := range n.Children {
		switch member.Kind {
		case ast.FieldDecl:
			class.FieldOrder = append(class.FieldOrder, member.Text)
			class.FieldTypes[member.Text] = member.TypeName
		case ast.FuncDef:
			fn := object.NewFunction(it.GC, member.Text, member.Params, member.Child(0), env)
			fn.OwningClass = class
			class.Methods[member.Text] = fn
		}
	}

	return object.NewEnvironment(it.GC, n.Text, object.ClassVal(class), env), nil
}

// execImport resolves an import by name, seeding the module's exports
// from any native module of that name and then letting a same-named
// source module override it: script definitions shadow native ones,
// never the reverse. A name with neither a native nor a loadable
// source module is an error.
func (it *Interp) execImport(n *ast.Node, env *object.Environment) (*object.Environment, error) {
	name := n.Text
	exports := make(map[string]object.Value)
	native, hasNative := it.Registry.Module(name)

	src, err := it.Loader.Load(name)
	switch {
	case err == nil:
		lx := lexer.New(src)
		ps := parser.New(lx)
		prog := ps.ParseProgram()
		if errs := ps.Errors(); len(errs) > 0 {
			return env, it.reportf(perr.Syntactic, n.Line, "import %q: %s", name, strings.Join(errs, "; "))
		}

		savedGlobal := it.global
		it.global = nil
		runErr := it.RunProgram(prog)
		scriptGlobal := it.global
		it.global = savedGlobal
		if runErr != nil {
			return env, fmt.Errorf("import %q: %w", name, runErr)
		}

		// Walk newest-to-oldest so an earlier (shadowed) re-declaration
		// of the same name in the script never overwrites the live one.
		scriptExports := make(map[string]object.Value)
		for cur := scriptGlobal; cur != nil; cur = cur.Outer {
			if _, exists := scriptExports[cur.Name]; !exists {
				scriptExports[cur.Name] = cur.Val
			}
		}
		// Native bindings seed the module first; script bindings are
		// layered on top unconditionally, so a script definition shadows
		// a native one of the same name, never the reverse.
		if hasNative {
			for k, v := range native.Exports {
				exports[k] = v
			}
		}
		for k, v := range scriptExports {
			exports[k] = v
		}
	case hasNative:
		for k, v := range native.Exports {
			exports[k] = v
		}
	default:
		return env, it.reportf(perr.Name, n.Line, "import %q: %v", name, err)
	}

	mod := object.NewModule(it.GC, name, exports)
	return object.NewEnvironment(it.GC, name, object.ModuleVal(mod), env), nil
}

func (it *Interp) execAssign(n *ast.Node, env *object.Environment) (Propagate, error) {
	lhs := n.Child(0)
	rhs, err := it.Eval(n.Child(1), env)
	if err != nil {
		return Propagate{}, err
	}

	switch lhs.Kind {
	case ast.VarRef:
		if !it.assign(env, lhs.Text, rhs) {
			return Propagate{}, it.reportf(perr.Name, n.Line, "undefined variable %q", lhs.Text)
		}
		return none(), nil

	case ast.FieldAccess:
		target, err := it.Eval(lhs.Child(0), env)
		if err != nil {
			return Propagate{}, err
		}
		if target.Kind != object.KInstance {
			return Propagate{}, it.reportf(perr.Type, n.Line, "cannot assign field on %s", object.TypeName(target))
		}
		target.Ref.(*object.Instance).Fields[lhs.Text] = rhs
		return none(), nil

	case ast.IndexAccess:
		target, err := it.Eval(lhs.Child(0), env)
		if err != nil {
			return Propagate{}, err
		}
		idx, err := it.Eval(lhs.Child(1), env)
		if err != nil {
			return Propagate{}, err
		}
		switch target.Kind {
		case object.KList:
			if idx.Kind != object.KInt {
				return Propagate{}, it.reportf(perr.Type, n.Line, "list index must be an int")
			}
			l := target.Ref.(*object.List)
			if idx.I < 0 || int(idx.I) >= len(l.Elems) {
				return Propagate{}, it.reportf(perr.Bounds, n.Line, "list index %d out of range (len %d)", idx.I, len(l.Elems))
			}
			l.Elems[idx.I] = rhs
			return none(), nil
		case object.KMap:
			if idx.Kind != object.KString {
				return Propagate{}, it.reportf(perr.Type, n.Line, "map key must be a string")
			}
			m := target.Ref.(*object.Map)
			if err := m.Insert(idx.S, rhs); err != nil {
				return Propagate{}, it.reportf(perr.Type, n.Line, "%v", err)
			}
			return none(), nil
		}
		return Propagate{}, it.reportf(perr.Type, n.Line, "cannot index-assign %s", object.TypeName(target))
	}
	return Propagate{}, it.reportf(perr.Syntactic, n.Line, "invalid assignment target")
}

func (it *Interp) execPrint(n *ast.Node, env *object.Environment) (Propagate, error) {
	parts := make([]string, len(n.Children))
	for i, c := range n.Children {
		v, err := it.Eval(c, env)
		if err != nil {
			return Propagate{}, err
		}
		parts[i] = object.Inspect(v)
	}
	fmt.Fprintln(it.Out, strings.Join(parts, " "))
	return none(), nil
}

func (it *Interp) execIf(n *ast.Node, env *object.Environment) (Propagate, error) {
	cond, err := it.Eval(n.Child(0), env)
	if err != nil {
		return Propagate{}, err
	}
	if object.Truthy(cond) {
		return it.Exec(n.Child(1), env)
	}
	if branch := n.Child(2); branch != nil {
		return it.Exec(branch, env)
	}
	return none(), nil
}

func (it *Interp) execWhile(n *ast.Node, env *object.Environment) (Propagate, error) {
	for {
		cond, err := it.Eval(n.Child(0), env)
		if err != nil {
			return Propagate{}, err
		}
		if !object.Truthy(cond) {
			return none(), nil
		}
		prop, err := it.Exec(n.Child(1), env)
		if err != nil {
			return Propagate{}, err
		}
		switch prop.Signal {
		case SigBreak:
			return none(), nil
		case SigReturn:
			return prop, nil
		}
	}
}

func (it *Interp) execDoWhile(n *ast.Node, env *object.Environment) (Propagate, error) {
	for {
		prop, err := it.Exec(n.Child(0), env)
		if err != nil {
			return Propagate{}, err
		}
		switch prop.Signal {
		case SigBreak:
			return none(), nil
		case SigReturn:
			return prop, nil
		}
		cond, err := it.Eval(n.Child(1), env)
		if err != nil {
			return Propagate{}, err
		}
		if !object.Truthy(cond) {
			return none(), nil
		}
	}
}

func (it *Interp) execCFor(n *ast.Node, env *object.Environment) (Propagate, error) {
	cur := env
	if init := n.Child(0); init != nil {
		if isDeclaring(init.Kind) {
			newEnv, err := it.execDecl(init, cur)
			if err != nil {
				return Propagate{}, err
			}
			cur = newEnv
		} else if _, err := it.Exec(init, cur); err != nil {
			return Propagate{}, err
		}
	}
	for {
		if condExpr := n.Child(1); condExpr != nil {
			cond, err := it.Eval(condExpr, cur)
			if err != nil {
				return Propagate{}, err
			}
			if !object.Truthy(cond) {
				return none(), nil
			}
		}
		prop, err := it.Exec(n.Child(3), cur)
		if err != nil {
			return Propagate{}, err
		}
		switch prop.Signal {
		case SigBreak:
			return none(), nil
		case SigReturn:
			return prop, nil
		}
		if inc := n.Child(2); inc != nil {
			if _, err := it.Exec(inc, cur); err != nil {
				return Propagate{}, err
			}
		}
	}
}

// execForEach binds the loop variable once in the loop's own frame and
// reassigns it every iteration. Per documented behavior the binding
// persists, holding the final element's value (or void, for an empty
// list), after the loop exits - so it returns that frame as the chain
// the caller continues with, the same way a declaring statement does.
func (it *Interp) execForEach(n *ast.Node, env *object.Environment) (*object.Environment, Propagate, error) {
	coll, err := it.Eval(n.Child(0), env)
	if err != nil {
		return env, Propagate{}, err
	}
	if coll.Kind != object.KList {
		return env, Propagate{}, it.reportf(perr.Type, n.Line, "foreach requires a list, got %s", object.TypeName(coll))
	}
	l := coll.Ref.(*object.List)

	loopEnv := object.NewEnvironment(it.GC, n.Text, object.Void(), env)
	for _, elem := range l.Elems {
		loopEnv.Val = elem
		prop, err := it.Exec(n.Child(1), loopEnv)
		if err != nil {
			return loopEnv, Propagate{}, err
		}
		switch prop.Signal {
		case SigBreak:
			return loopEnv, none(), nil
		case SigReturn:
			return loopEnv, prop, nil
		}
	}
	return loopEnv, none(), nil
}

// execSwitch dispatches on value equality, then falls through every
// case body after the first match (including into default) until a
// break or the end of the switch.
func (it *Interp) execSwitch(n *ast.Node, env *object.Environment) (Propagate, error) {
	subject, err := it.Eval(n.Child(0), env)
	if err != nil {
		return Propagate{}, err
	}

	matched := false
	for _, arm := range n.Children[1:] {
		if !matched {
			if arm.Kind == ast.Case {
				matchVal, err := it.Eval(arm.Child(0), env)
				if err != nil {
					return Propagate{}, err
				}
				if !object.Equal(subject, matchVal) {
					continue
				}
				matched = true
			} else {
				matched = true
			}
		}

		body := arm.Child(0)
		if arm.Kind == ast.Case {
			body = arm.Child(1)
		}
		prop, err := it.Exec(body, env)
		if err != nil {
			return Propagate{}, err
		}
		switch prop.Signal {
		case SigBreak:
			return none(), nil
		case SigReturn, SigContinue:
			return prop, nil
		}
	}
	return none(), nil
}
