// ==============================================================================================
// FILE: object/environment.go
// ==============================================================================================
// PURPOSE: Environment is a single-binding linked list, not a map-per-scope frame. Each
//          declaration allocates one Environment node holding exactly one name/value pair and
//          a pointer to the enclosing scope. Lookup walks the chain name by name. This shape
//          makes closures cheap to capture (just keep the node the closure was created under)
//          and gives the collector a uniform heap object to trace instead of a special case.
//
//          A closure's captured chain is frozen at the point the function was defined, so it
//          will not see global bindings declared afterward. The evaluator resolves this with a
//          two-stage lookup: walk the current chain first, then fall back to the live global
//          head it tracks separately - see evaluator.resolve.
// ==============================================================================================

package object

import "pith/gc"

// Environment is one binding frame in a lexical scope chain.
type Environment struct {
	gc.Header
	Name  string
	Val   Value
	Outer *Environment
}

// NewEnvironment allocates a fresh binding frame for name=val, chained
// onto outer.
func NewEnvironment(c *gc.Collector, name string, val Value, outer *Environment) *Environment {
	e := &Environment{Name: name, Val: val, Outer: outer}
	c.Alloc(e, 48)
	return e
}

func (e *Environment) GCHeader() *gc.Header { return &e.Header }

func (e *Environment) Trace(mark func(gc.HeapObject)) {
	traceValue(e.Val, mark)
	if e.Outer != nil {
		mark(e.Outer)
	}
}

func (e *Environment) Release() { e.Outer = nil }

// Lookup walks the chain starting at e looking for name, returning the
// binding's Value and true if found.
func (e *Environment) Lookup(name string) (Value, bool) {
	for cur := e; cur != nil; cur = cur.Outer {
		if cur.Name == name {
			return cur.Val, true
		}
	}
	return Value{}, false
}

// Assign walks the chain starting at e looking for an existing binding
// named name and overwrites it in place, returning true on success.
func (e *Environment) Assign(name string, val Value) bool {
	for cur := e; cur != nil; cur = cur.Outer {
		if cur.Name == name {
			cur.Val = val
			return true
		}
	}
	return false
}
