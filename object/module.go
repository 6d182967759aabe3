// ==============================================================================================
// FILE: object/module.go
// ==============================================================================================

package object

import "pith/gc"

// Module is the namespace produced by an import: either a native module
// (backed by a NativeRegistry entry) or a user source file's top-level
// environment, exposed by name.
type Module struct {
	gc.Header
	Name    string
	Exports map[string]Value
}

func NewModule(c *gc.Collector, name string, exports map[string]Value) *Module {
	if exports == nil {
		exports = make(map[string]Value)
	}
	m := &Module{Name: name, Exports: exports}
	c.Alloc(m, int64(32+24*len(exports)))
	return m
}

func (m *Module) GCHeader() *gc.Header { return &m.Header }

func (m *Module) Trace(mark func(gc.HeapObject)) {
	for _, v := range m.Exports {
		traceValue(v, mark)
	}
}

func (m *Module) Release() { m.Exports = nil }
