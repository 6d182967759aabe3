// ==============================================================================================
// FILE: gc/collector.go
// ==============================================================================================
// PACKAGE: gc
// PURPOSE: Mark-and-sweep garbage collector over the interpreter's heap object graph. Owns the
//          global object chain, the temporary root stack, and the allocation/threshold policy.
//          Concrete heap object kinds live in package object and satisfy the HeapObject interface
//          defined here so that gc never needs to import object (avoids an import cycle: object
//          embeds gc.Header and implements gc.HeapObject).
// ==============================================================================================

package gc

import "fmt"

// Header is embedded in every heap object. It carries the mark bit and the
// intrusive link that forms the collector's global object chain.
type Header struct {
	Marked bool
	Next   HeapObject
	Bytes  int64
}

// HeapObject is satisfied by every allocated value the collector manages:
// List, Map, Function, Module, Class, Instance, BoundMethod, Environment.
type HeapObject interface {
	GCHeader() *Header
	// Trace calls mark for every HeapObject directly reachable from this one.
	Trace(mark func(HeapObject))
	// Release frees any owned buffers (backing arrays, maps, strings) held
	// only by this object. Called once, during sweep or final teardown.
	Release()
}

// CycleStats summarizes one collection cycle for diagnostics logging.
type CycleStats struct {
	Cycle        int
	ObjectsSwept int
	BytesFreed   int64
	LiveBytes    int64
	NewThreshold int64
}

// Collector implements mark-and-sweep garbage collection over the heap
// object graph. It is not safe for concurrent use; the language runtime
// is single-threaded by design.
type Collector struct {
	head      HeapObject
	liveBytes int64
	threshold int64
	minThresh int64

	tempRoots    []HeapObject
	maxRootDepth int

	globalRoot func() HeapObject
	extraRoots func() []HeapObject

	cycles  int
	onCycle func(CycleStats)
}

// New creates a collector with the given minimum threshold (in bytes
// charged at allocation) and maximum temporary-root-stack depth.
func New(minThreshold int64, maxRootDepth int) *Collector {
	return &Collector{
		threshold:    minThreshold,
		minThresh:    minThreshold,
		maxRootDepth: maxRootDepth,
	}
}

// SetGlobalRoot registers a callback returning the current head of the
// global environment chain. The evaluator calls this once at startup;
// the callback itself always reflects the live, current head since the
// chain grows as top-level declarations execute.
func (c *Collector) SetGlobalRoot(fn func() HeapObject) { c.globalRoot = fn }

// SetExtraRoots registers a callback returning any additional root
// objects the collector should keep alive beyond the global chain and
// the temporary root stack - notably the native registry's own module
// objects (math, sys, ...), which are heap-allocated through this same
// collector and reachable from nowhere else once a script has imported
// and then dropped its reference to them.
func (c *Collector) SetExtraRoots(fn func() []HeapObject) { c.extraRoots = fn }

// SetCycleObserver registers a callback invoked after every completed
// collection cycle, used by internal/diagnostics to log GC statistics.
func (c *Collector) SetCycleObserver(fn func(CycleStats)) { c.onCycle = fn }

// LiveBytes reports the allocator's current live-bytes counter.
func (c *Collector) LiveBytes() int64 { return c.liveBytes }

// Cycles reports how many collections have run so far.
func (c *Collector) Cycles() int { return c.cycles }

// Threshold reports the live-bytes level that triggers the next cycle.
func (c *Collector) Threshold() int64 { return c.threshold }

// PushRoot registers o as a temporary root: a reference held only on the
// evaluator's own call stack, for the duration of some allocating
// operation (building an instance, assembling a bound method, populating
// a module). Must be paired with PopRoot once the operation completes.
func (c *Collector) PushRoot(o HeapObject) {
	if o == nil {
		return
	}
	if len(c.tempRoots) >= c.maxRootDepth {
		panic(fmt.Sprintf("gc: temporary root stack overflow (max depth %d)", c.maxRootDepth))
	}
	c.tempRoots = append(c.tempRoots, o)
}

// PopRoot removes the most recently pushed temporary root.
func (c *Collector) PopRoot() {
	if len(c.tempRoots) == 0 {
		return
	}
	c.tempRoots = c.tempRoots[:len(c.tempRoots)-1]
}

// RootDepth reports the current temporary root stack depth, used by tests
// checking that the stack returns to zero between top-level statements.
func (c *Collector) RootDepth() int { return len(c.tempRoots) }

// Alloc links o into the object chain and charges bytes against the
// live-bytes counter. If the counter already exceeds the threshold
// before this allocation, a collection runs first.
func (c *Collector) Alloc(o HeapObject, bytes int64) {
	if c.liveBytes > c.threshold {
		c.Collect()
	}
	h := o.GCHeader()
	h.Next = c.head
	h.Bytes = bytes
	h.Marked = false
	c.head = o
	c.liveBytes += bytes
}

// Collect runs one mark-and-sweep cycle.
func (c *Collector) Collect() {
	mark := func(o HeapObject) {}
	var visit func(o HeapObject)
	visit = func(o HeapObject) {
		if o == nil {
			return
		}
		h := o.GCHeader()
		if h.Marked {
			return
		}
		h.Marked = true
		o.Trace(visit)
	}
	mark = visit

	for _, r := range c.tempRoots {
		mark(r)
	}
	if c.globalRoot != nil {
		mark(c.globalRoot())
	}
	if c.extraRoots != nil {
		for _, r := range c.extraRoots() {
			mark(r)
		}
	}

	var (
		survivors    HeapObject
		tail         HeapObject
		swept        int
		freedBytes   int64
		newLiveBytes int64
	)
	for o := c.head; o != nil; {
		h := o.GCHeader()
		next := h.Next
		if h.Marked {
			h.Marked = false
			h.Next = nil
			if survivors == nil {
				survivors = o
			} else {
				tail.GCHeader().Next = o
			}
			tail = o
			newLiveBytes += h.Bytes
		} else {
			o.Release()
			swept++
			freedBytes += h.Bytes
		}
		o = next
	}
	c.head = survivors
	c.liveBytes = newLiveBytes
	c.cycles++
	c.threshold = c.minThresh
	if doubled := 2 * c.liveBytes; doubled > c.threshold {
		c.threshold = doubled
	}

	if c.onCycle != nil {
		c.onCycle(CycleStats{
			Cycle:        c.cycles,
			ObjectsSwept: swept,
			BytesFreed:   freedBytes,
			LiveBytes:    c.liveBytes,
			NewThreshold: c.threshold,
		})
	}
}

// Teardown performs a sweep with no preceding mark, releasing every
// remaining object. Called once at program exit.
func (c *Collector) Teardown() {
	for o := c.head; o != nil; {
		next := o.GCHeader().Next
		o.Release()
		o = next
	}
	c.head = nil
	c.liveBytes = 0
}
