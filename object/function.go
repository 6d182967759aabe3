// ==============================================================================================
// FILE: object/function.go
// ==============================================================================================

package object

import (
	"pith/ast"
	"pith/gc"
)

// Function is a user-defined function or method: its declaration plus
// the environment it closed over at definition time. OwningClass is set
// for methods defined inside a class body and nil for free functions.
type Function struct {
	gc.Header
	Name        string
	Params      []string
	Body        *ast.Node
	Closure     *Environment
	OwningClass *Class
}

func NewFunction(c *gc.Collector, name string, params []string, body *ast.Node, closure *Environment) *Function {
	f := &Function{Name: name, Params: params, Body: body, Closure: closure}
	c.Alloc(f, 64)
	return f
}

func (f *Function) GCHeader() *gc.Header { return &f.Header }

func (f *Function) Trace(mark func(gc.HeapObject)) {
	if f.Closure != nil {
		mark(f.Closure)
	}
	if f.OwningClass != nil {
		mark(f.OwningClass)
	}
}

func (f *Function) Release() { f.Closure = nil; f.Body = nil; f.OwningClass = nil }
