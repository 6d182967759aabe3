// ==============================================================================================
// FILE: object/list_unit_test.go
// ==============================================================================================
// PURPOSE: Unit tests for List and Map heap objects: allocation bookkeeping and Trace reaching
//          nested heap-backed elements.
// ==============================================================================================

package object

import (
	"testing"

	"pith/gc"
)

func TestNewListTracesElements(t *testing.T) {
	c := gc.New(1<<20, 64)
	inner := NewList(c, []Value{Int(1)})
	outer := NewList(c, []Value{ListVal(inner), Int(2)})

	var seen []gc.HeapObject
	outer.Trace(func(o gc.HeapObject) { seen = append(seen, o) })

	if len(seen) != 1 {
		t.Fatalf("expected trace to find exactly the nested list, got %d objects", len(seen))
	}
	if seen[0] != gc.HeapObject(inner) {
		t.Fatalf("expected traced object to be the inner list")
	}
}

func TestListReleaseClearsElements(t *testing.T) {
	c := gc.New(1<<20, 64)
	l := NewList(c, []Value{Int(1), Int(2)})
	l.Release()
	if l.Elems != nil {
		t.Fatalf("expected Release to clear backing slice")
	}
}

func TestFixedListPrefillsVoidAndRejectsAppend(t *testing.T) {
	c := gc.New(1<<20, 64)
	l := NewFixedList(c, 3, "int")

	for i, v := range l.Elems {
		if v.Kind != KVoid {
			t.Fatalf("expected slot %d to be void, got %+v", i, v)
		}
	}
	if err := l.Append(Int(1)); err == nil {
		t.Fatalf("expected append on a fixed-size list to fail")
	}
	if len(l.Elems) != 3 {
		t.Fatalf("expected fixed-size list length to remain 3, got %d", len(l.Elems))
	}
}

func TestGrowableListAppendGrows(t *testing.T) {
	c := gc.New(1<<20, 64)
	l := NewList(c, []Value{Int(1)})
	if err := l.Append(Int(2)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(l.Elems) != 2 || l.Elems[1].I != 2 {
		t.Fatalf("expected list to grow to [1, 2], got %+v", l.Elems)
	}
}

func TestMapInsertRejectsTypeMismatch(t *testing.T) {
	c := gc.New(1<<20, 64)
	m := NewTypedMap(c, "int")
	if err := m.Insert("a", Int(1)); err != nil {
		t.Fatalf("unexpected error inserting matching type: %v", err)
	}
	if err := m.Insert("b", Str("x")); err == nil {
		t.Fatalf("expected type mismatch error inserting a string into map<string,int>")
	}
}

func TestMapInsertUnconstrainedAcceptsAnyType(t *testing.T) {
	c := gc.New(1<<20, 64)
	m := NewMap(c, nil)
	if err := m.Insert("a", Int(1)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := m.Insert("b", Str("x")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestNewMapTracesValues(t *testing.T) {
	c := gc.New(1<<20, 64)
	inner := NewList(c, nil)
	m := NewMap(c, map[string]Value{"a": ListVal(inner), "b": Int(1)})

	var seen []gc.HeapObject
	m.Trace(func(o gc.HeapObject) { seen = append(seen, o) })

	if len(seen) != 1 {
		t.Fatalf("expected trace to find exactly the nested list, got %d", len(seen))
	}
}
