// ==============================================================================================
// FILE: object/value.go
// ==============================================================================================
// PACKAGE: object
// PURPOSE: The runtime Value type: a small tagged union covering every kind a Pith expression
//          can produce. Scalars (int32/float32/bool/string/void) are carried
//          inline; everything else (list, map, function, module, class, instance, bound
//          method) is a heap object allocated through a gc.Collector and carried by
//          reference. Natives are plain Go closures, not heap objects - see DESIGN.md.
// ==============================================================================================

package object

import (
	"fmt"
	"strings"
)

// Kind tags a Value's active variant.
type Kind int

const (
	KInt Kind = iota
	KFloat
	KBool
	KString
	KVoid
	KNative
	KList
	KMap
	KFunction
	KModule
	KClass
	KInstance
	KBoundMethod
	KBreak
	KContinue
)

var kindNames = map[Kind]string{
	KInt: "int", KFloat: "float", KBool: "bool", KString: "string", KVoid: "void",
	KNative: "native", KList: "list", KMap: "map", KFunction: "function",
	KModule: "module", KClass: "class", KInstance: "instance", KBoundMethod: "bound method",
	KBreak: "break", KContinue: "continue",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Value is passed by copy everywhere in the evaluator. Heap-backed kinds
// carry a pointer in Ref; scalar kinds carry their payload inline.
type Value struct {
	Kind Kind

	I int32
	F float32
	B bool
	S string

	Nat *Native
	Ref interface{} // one of *List, *Map, *Function, *Module, *Class, *Instance, *BoundMethod
}

// Native is a built-in callable implemented in Go. It is not a heap
// object: it holds no references into the managed graph, so the
// collector never needs to trace or sweep it. See NativeRegistry.
type Native struct {
	Name string
	Fn   func(args []Value, line int) (Value, error)
}

func Int(v int32) Value     { return Value{Kind: KInt, I: v} }
func Float(v float32) Value { return Value{Kind: KFloat, F: v} }
func Bool(v bool) Value     { return Value{Kind: KBool, B: v} }
func Str(v string) Value    { return Value{Kind: KString, S: v} }
func Void() Value           { return Value{Kind: KVoid} }
func BreakSig() Value       { return Value{Kind: KBreak} }
func ContinueSig() Value    { return Value{Kind: KContinue} }

func NativeVal(n *Native) Value { return Value{Kind: KNative, Nat: n} }

func ListVal(l *List) Value               { return Value{Kind: KList, Ref: l} }
func MapVal(m *Map) Value                 { return Value{Kind: KMap, Ref: m} }
func FunctionVal(f *Function) Value       { return Value{Kind: KFunction, Ref: f} }
func ModuleVal(m *Module) Value           { return Value{Kind: KModule, Ref: m} }
func ClassVal(c *Class) Value             { return Value{Kind: KClass, Ref: c} }
func InstanceVal(i *Instance) Value       { return Value{Kind: KInstance, Ref: i} }
func BoundMethodVal(b *BoundMethod) Value { return Value{Kind: KBoundMethod, Ref: b} }

// Truthy implements the language's boolean-coercion rule: zero-valued
// scalars and empty strings are false, void is always false, every
// heap-backed value is true.
func Truthy(v Value) bool {
	switch v.Kind {
	case KInt:
		return v.I != 0
	case KFloat:
		return v.F != 0
	case KBool:
		return v.B
	case KString:
		return v.S != ""
	case KVoid:
		return false
	default:
		return true
	}
}

// Equal implements the language's equality rule: numeric kinds compare
// by promoted value, strings and bools by content, everything
// heap-backed by reference identity.
func Equal(a, b Value) bool {
	switch {
	case isNumeric(a.Kind) && isNumeric(b.Kind):
		return numericValue(a) == numericValue(b)
	case a.Kind == KBool && b.Kind == KBool:
		return a.B == b.B
	case a.Kind == KString && b.Kind == KString:
		return a.S == b.S
	case a.Kind == KVoid && b.Kind == KVoid:
		return true
	case a.Kind != b.Kind:
		return false
	default:
		return a.Ref == b.Ref
	}
}

func isNumeric(k Kind) bool { return k == KInt || k == KFloat }

func numericValue(v Value) float64 {
	if v.Kind == KInt {
		return float64(v.I)
	}
	return float64(v.F)
}

// TypeName returns the user-facing type name used in diagnostics and by
// the "typeof" native.
func TypeName(v Value) string {
	switch v.Kind {
	case KInstance:
		if inst, ok := v.Ref.(*Instance); ok && inst.Class != nil {
			return inst.Class.Name
		}
	}
	return v.Kind.String()
}

// Inspect renders v the way print(...) shows it: strings bare (no
// quotes), lists/maps recursively, instances as "<ClassName instance>"
// without their fields.
func Inspect(v Value) string {
	switch v.Kind {
	case KInt:
		return fmt.Sprintf("%d", v.I)
	case KFloat:
		return fmt.Sprintf("%g", v.F)
	case KBool:
		return fmt.Sprintf("%t", v.B)
	case KString:
		return v.S
	case KVoid:
		return "void"
	case KList:
		l := v.Ref.(*List)
		parts := make([]string, len(l.Elems))
		for i, e := range l.Elems {
			parts[i] = Inspect(e)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case KMap:
		m := v.Ref.(*Map)
		parts := make([]string, 0, len(m.Entries))
		for k, e := range m.Entries {
			parts = append(parts, fmt.Sprintf("%s: %s", k, Inspect(e)))
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case KFunction:
		return fmt.Sprintf("<function %s>", v.Ref.(*Function).Name)
	case KNative:
		return fmt.Sprintf("<native %s>", v.Nat.Name)
	case KModule:
		return fmt.Sprintf("<module %s>", v.Ref.(*Module).Name)
	case KClass:
		return fmt.Sprintf("<class %s>", v.Ref.(*Class).Name)
	case KInstance:
		return fmt.Sprintf("<%s instance>", TypeName(v))
	case KBoundMethod:
		bm := v.Ref.(*BoundMethod)
		return fmt.Sprintf("<bound method %s.%s>", TypeName(InstanceVal(bm.Receiver)), bm.Method.Name)
	case KBreak:
		return "break"
	case KContinue:
		return "continue"
	}
	return v.Kind.String()
}
