// ==============================================================================================
// FILE: object/list.go
// ==============================================================================================

package object

import (
	"fmt"

	"pith/gc"
)

// List is a growable, heterogeneous sequence; both fixed-size array
// declarations (`int[5]`) and list literals share this representation,
// unified per the Open Question resolution recorded in DESIGN.md.
// FixedSize lists have Elems pre-filled to Void() and never grow:
// Append refuses to mutate them, preserving invariant 4.
type List struct {
	gc.Header
	Elems     []Value
	FixedSize bool
	ElemType  string // declared element type name, or "" if unconstrained
}

// NewList allocates a growable list through the collector, charging it
// for the backing slice's current capacity.
func NewList(c *gc.Collector, elems []Value) *List {
	l := &List{Elems: elems}
	c.Alloc(l, int64(cap(elems))*elemCost)
	return l
}

// NewFixedList allocates a fixed-size list of the given length, every
// slot initialized to void.
func NewFixedList(c *gc.Collector, size int, elemType string) *List {
	elems := make([]Value, size)
	for i := range elems {
		elems[i] = Void()
	}
	l := &List{Elems: elems, FixedSize: true, ElemType: elemType}
	c.Alloc(l, int64(size)*elemCost)
	return l
}

// Append grows the list by one element. It fails for fixed-size lists,
// whose length is invariant for their whole lifetime.
func (l *List) Append(v Value) error {
	if l.FixedSize {
		return fmt.Errorf("cannot append to a fixed-size list")
	}
	l.Elems = append(l.Elems, v)
	return nil
}

const elemCost = 24 // rough per-Value accounting unit, not a real sizeof

func (l *List) GCHeader() *gc.Header { return &l.Header }

func (l *List) Trace(mark func(gc.HeapObject)) {
	for _, v := range l.Elems {
		traceValue(v, mark)
	}
}

func (l *List) Release() { l.Elems = nil }

// traceValue marks the heap object referenced by v, if any. Scalars and
// natives contribute nothing.
func traceValue(v Value, mark func(gc.HeapObject)) {
	switch ref := v.Ref.(type) {
	case *List:
		mark(ref)
	case *Map:
		mark(ref)
	case *Function:
		mark(ref)
	case *Module:
		mark(ref)
	case *Class:
		mark(ref)
	case *Instance:
		mark(ref)
	case *BoundMethod:
		mark(ref)
	}
}
