// ==============================================================================================
// FILE: object/class.go
// ==============================================================================================
// PURPOSE: Class and Instance model single inheritance with dual dispatch for fields (by
//          declaration order, walking up the Parent chain) and methods (by name, most-derived
//          wins). Method resolution is a plain linked walk up the Parent chain rather than a
//          flattened vtable.
// ==============================================================================================

package object

import "pith/gc"

// Class is a class definition: its own field and method tables plus a
// pointer to its parent class, if any.
type Class struct {
	gc.Header
	Name       string
	Parent     *Class
	FieldOrder []string // declared field names, in declaration order, this class only
	FieldTypes map[string]string
	Methods    map[string]*Function
}

func NewClass(c *gc.Collector, name string, parent *Class) *Class {
	cl := &Class{
		Name:       name,
		Parent:     parent,
		FieldTypes: make(map[string]string),
		Methods:    make(map[string]*Function),
	}
	c.Alloc(cl, 96)
	return cl
}

func (c *Class) GCHeader() *gc.Header { return &c.Header }

func (c *Class) Trace(mark func(gc.HeapObject)) {
	if c.Parent != nil {
		mark(c.Parent)
	}
	for _, m := range c.Methods {
		mark(m)
	}
}

func (c *Class) Release() { c.Parent = nil; c.Methods = nil }

// ResolveMethod walks this class and its ancestors looking for name,
// returning the most-derived definition (dual dispatch: the instance's
// dynamic class is always where the walk starts).
func (c *Class) ResolveMethod(name string) *Function {
	for cur := c; cur != nil; cur = cur.Parent {
		if m, ok := cur.Methods[name]; ok {
			return m
		}
	}
	return nil
}

// AllFields returns every field name declared by this class and its
// ancestors, ancestors first, so instance initialization order matches
// declaration order across the inheritance chain.
func (c *Class) AllFields() []string {
	var chain []*Class
	for cur := c; cur != nil; cur = cur.Parent {
		chain = append(chain, cur)
	}
	var names []string
	for i := len(chain) - 1; i >= 0; i-- {
		names = append(names, chain[i].FieldOrder...)
	}
	return names
}

// IsSubclassOf reports whether c is cand or a descendant of cand,
// walking the parent chain. The evaluator does not call it.
func (c *Class) IsSubclassOf(cand *Class) bool {
	for cur := c; cur != nil; cur = cur.Parent {
		if cur == cand {
			return true
		}
	}
	return false
}

// Instance is a live object of some Class, holding one Value per field
// name visible through the class's inheritance chain.
type Instance struct {
	gc.Header
	Class  *Class
	Fields map[string]Value
}

func NewInstance(c *gc.Collector, class *Class) *Instance {
	inst := &Instance{Class: class, Fields: make(map[string]Value)}
	c.Alloc(inst, int64(64+24*len(class.AllFields())))
	return inst
}

func (i *Instance) GCHeader() *gc.Header { return &i.Header }

func (i *Instance) Trace(mark func(gc.HeapObject)) {
	if i.Class != nil {
		mark(i.Class)
	}
	for _, v := range i.Fields {
		traceValue(v, mark)
	}
}

func (i *Instance) Release() { i.Class = nil; i.Fields = nil }

// BoundMethod pairs a resolved method with the instance it was looked up
// on, so that calling it later still has "self" available.
type BoundMethod struct {
	gc.Header
	Receiver *Instance
	Method   *Function
}

func NewBoundMethod(c *gc.Collector, receiver *Instance, method *Function) *BoundMethod {
	b := &BoundMethod{Receiver: receiver, Method: method}
	c.Alloc(b, 32)
	return b
}

func (b *BoundMethod) GCHeader() *gc.Header { return &b.Header }

func (b *BoundMethod) Trace(mark func(gc.HeapObject)) {
	if b.Receiver != nil {
		mark(b.Receiver)
	}
	if b.Method != nil {
		mark(b.Method)
	}
}

func (b *BoundMethod) Release() { b.Receiver = nil; b.Method = nil }
