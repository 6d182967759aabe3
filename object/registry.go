// ==============================================================================================
// FILE: object/registry.go
// ==============================================================================================
// PURPOSE: NativeRegistry is the external-collaborator interface through which the evaluator
//          resolves built-in callables and native modules. DefaultRegistry is a small,
//          self-contained implementation wiring list/string/math built-ins; callers embedding
//          Pith can supply their own registry instead.
// ==============================================================================================

package object

import (
	"fmt"
	"math"
	"strings"

	"pith/gc"
)

// NativeRegistry resolves built-in functions and native modules by name.
// Built-ins are plain *Native values (Go closures, not heap objects) and
// contribute no roots. Native modules are different: they are *Module
// heap objects allocated through the collector the registry was built
// with, so the collector must be able to reach them even when no script
// currently holds a reference - see Roots.
type NativeRegistry interface {
	// Lookup returns the built-in function bound to name in the global
	// namespace (len, append, typeof, and similar), if any.
	Lookup(name string) (*Native, bool)
	// Module returns the native module bound to name (math, sys),
	// if any, as an already-built Module value.
	Module(name string) (*Module, bool)
	// Roots returns every native module the registry owns, so the
	// collector can register them as a root set alongside the global
	// environment chain and the temporary root stack.
	Roots() []*Module
}

// DefaultRegistry is the built-in registry wired into a fresh evaluator
// unless the embedder supplies its own.
type DefaultRegistry struct {
	builtins map[string]*Native
	modules  map[string]*Module
}

// NewDefaultRegistry builds the registry's built-ins and native modules.
// Module construction allocates through coll so its exports participate
// in the managed heap like any other value.
func NewDefaultRegistry(coll *gc.Collector) *DefaultRegistry {
	r := &DefaultRegistry{
		builtins: map[string]*Native{
			"len":    lenNative(),
			"append": appendNative(),
			"typeof": typeofNative(),
			"upper":  upperNative(),
			"lower":  lowerNative(),
		},
		modules: map[string]*Module{},
	}
	r.modules["math"] = NewModule(coll, "math", map[string]Value{
		"pi":    Float(float32(math.Pi)),
		"e":     Float(float32(math.E)),
		"sqrt":  NativeVal(sqrtNative()),
		"floor": NativeVal(floorNative()),
		"ceil":  NativeVal(ceilNative()),
		"abs":   NativeVal(absNative()),
		"pow":   NativeVal(powNative()),
	})
	r.modules["sys"] = NewModule(coll, "sys", map[string]Value{
		"version": Str("1.0"),
		"exit":    NativeVal(exitNative()),
	})
	return r
}

// ExitError is returned by sys.exit to unwind the evaluator with a
// specific process exit code, rather than the generic failure code
// every other error maps to. The command-line driver type-asserts for
// it; embedders that don't care about exit codes see it as an
// ordinary error.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string { return fmt.Sprintf("sys.exit(%d)", e.Code) }

func exitNative() *Native {
	return &Native{Name: "exit", Fn: func(args []Value, line int) (Value, error) {
		code := 0
		if len(args) > 0 {
			n, ok := asNum(args[0])
			if !ok {
				return Value{}, fmt.Errorf("sys.exit: expected a numeric exit code, line %d", line)
			}
			code = int(n)
		}
		return Value{}, &ExitError{Code: code}
	}}
}

func (r *DefaultRegistry) Lookup(name string) (*Native, bool) {
	n, ok := r.builtins[name]
	return n, ok
}

func (r *DefaultRegistry) Module(name string) (*Module, bool) {
	m, ok := r.modules[name]
	return m, ok
}

func (r *DefaultRegistry) Roots() []*Module {
	mods := make([]*Module, 0, len(r.modules))
	for _, m := range r.modules {
		mods = append(mods, m)
	}
	return mods
}

func argErr(fn string, want, got int) error {
	return fmt.Errorf("%s: expected %d argument(s), got %d", fn, want, got)
}

func asList(v Value) (*List, bool) { l, ok := v.Ref.(*List); return l, ok }
func asStr(v Value) (string, bool) {
	if v.Kind != KString {
		return "", false
	}
	return v.S, true
}
func asNum(v Value) (float64, bool) {
	switch v.Kind {
	case KInt:
		return float64(v.I), true
	case KFloat:
		return float64(v.F), true
	}
	return 0, false
}

func lenNative() *Native {
	return &Native{Name: "len", Fn: func(args []Value, line int) (Value, error) {
		if len(args) != 1 {
			return Value{}, argErr("len", 1, len(args))
		}
		switch args[0].Kind {
		case KString:
			return Int(int32(len(args[0].S))), nil
		case KList:
			l, _ := asList(args[0])
			return Int(int32(len(l.Elems))), nil
		case KMap:
			m, _ := args[0].Ref.(*Map)
			return Int(int32(len(m.Entries))), nil
		}
		return Value{}, fmt.Errorf("len: unsupported operand kind %s at line %d", args[0].Kind, line)
	}}
}

func appendNative() *Native {
	return &Native{Name: "append", Fn: func(args []Value, line int) (Value, error) {
		if len(args) != 2 {
			return Value{}, argErr("append", 2, len(args))
		}
		l, ok := asList(args[0])
		if !ok {
			return Value{}, fmt.Errorf("append: first argument must be a list, line %d", line)
		}
		if err := l.Append(args[1]); err != nil {
			return Value{}, fmt.Errorf("append: %v, line %d", err, line)
		}
		return args[0], nil
	}}
}

func typeofNative() *Native {
	return &Native{Name: "typeof", Fn: func(args []Value, line int) (Value, error) {
		if len(args) != 1 {
			return Value{}, argErr("typeof", 1, len(args))
		}
		return Str(TypeName(args[0])), nil
	}}
}

func upperNative() *Native {
	return &Native{Name: "upper", Fn: func(args []Value, line int) (Value, error) {
		s, ok := asStr(firstOrVoid(args))
		if !ok {
			return Value{}, fmt.Errorf("upper: expected a string argument, line %d", line)
		}
		return Str(strings.ToUpper(s)), nil
	}}
}

func lowerNative() *Native {
	return &Native{Name: "lower", Fn: func(args []Value, line int) (Value, error) {
		s, ok := asStr(firstOrVoid(args))
		if !ok {
			return Value{}, fmt.Errorf("lower: expected a string argument, line %d", line)
		}
		return Str(strings.ToLower(s)), nil
	}}
}

func sqrtNative() *Native {
	return &Native{Name: "sqrt", Fn: func(args []Value, line int) (Value, error) {
		n, ok := asNum(firstOrVoid(args))
		if !ok {
			return Value{}, fmt.Errorf("sqrt: expected a numeric argument, line %d", line)
		}
		return Float(float32(math.Sqrt(n))), nil
	}}
}

func floorNative() *Native {
	return &Native{Name: "floor", Fn: func(args []Value, line int) (Value, error) {
		n, ok := asNum(firstOrVoid(args))
		if !ok {
			return Value{}, fmt.Errorf("floor: expected a numeric argument, line %d", line)
		}
		return Float(float32(math.Floor(n))), nil
	}}
}

func ceilNative() *Native {
	return &Native{Name: "ceil", Fn: func(args []Value, line int) (Value, error) {
		n, ok := asNum(firstOrVoid(args))
		if !ok {
			return Value{}, fmt.Errorf("ceil: expected a numeric argument, line %d", line)
		}
		return Float(float32(math.Ceil(n))), nil
	}}
}

func absNative() *Native {
	return &Native{Name: "abs", Fn: func(args []Value, line int) (Value, error) {
		v := firstOrVoid(args)
		if v.Kind == KInt {
			if v.I < 0 {
				return Int(-v.I), nil
			}
			return v, nil
		}
		n, ok := asNum(v)
		if !ok {
			return Value{}, fmt.Errorf("abs: expected a numeric argument, line %d", line)
		}
		return Float(float32(math.Abs(n))), nil
	}}
}

func powNative() *Native {
	return &Native{Name: "pow", Fn: func(args []Value, line int) (Value, error) {
		if len(args) != 2 {
			return Value{}, argErr("pow", 2, len(args))
		}
		base, ok1 := asNum(args[0])
		exp, ok2 := asNum(args[1])
		if !ok1 || !ok2 {
			return Value{}, fmt.Errorf("pow: expected numeric arguments, line %d", line)
		}
		return Float(float32(math.Pow(base, exp))), nil
	}}
}

func firstOrVoid(args []Value) Value {
	if len(args) == 0 {
		return Void()
	}
	return args[0]
}
