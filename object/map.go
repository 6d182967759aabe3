// ==============================================================================================
// FILE: object/map.go
// ==============================================================================================

package object

import (
	"fmt"

	"pith/gc"
)

// Map is a string-keyed dictionary. Declared key type is always string
// per current semantics; ValueType, when non-empty, is enforced on
// every Insert per invariant 5.
type Map struct {
	gc.Header
	Entries   map[string]Value
	ValueType string
}

func NewMap(c *gc.Collector, entries map[string]Value) *Map {
	if entries == nil {
		entries = make(map[string]Value)
	}
	m := &Map{Entries: entries}
	c.Alloc(m, int64(len(entries))*elemCost)
	return m
}

// NewTypedMap allocates an empty map whose inserted values must match
// valueType (ignored when valueType is "" or "void").
func NewTypedMap(c *gc.Collector, valueType string) *Map {
	m := &Map{Entries: make(map[string]Value), ValueType: valueType}
	c.Alloc(m, 0)
	return m
}

func (m *Map) GCHeader() *gc.Header { return &m.Header }

func (m *Map) Trace(mark func(gc.HeapObject)) {
	for _, v := range m.Entries {
		traceValue(v, mark)
	}
}

func (m *Map) Release() { m.Entries = nil }

// Insert sets key to val, rejecting the write if the map has a
// non-void declared value type that val's kind does not match.
func (m *Map) Insert(key string, val Value) error {
	if m.ValueType != "" && m.ValueType != "void" && TypeName(val) != m.ValueType {
		return fmt.Errorf("cannot insert value of type %s into map<string,%s>", TypeName(val), m.ValueType)
	}
	m.Entries[key] = val
	return nil
}
