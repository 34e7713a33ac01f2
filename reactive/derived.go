package reactive

// Derived is a read-only value computed from other cells and derived
// values. It is recomputed lazily: only on Get after a dependency changed.
type Derived[T any] struct {
	rt           *Runtime
	node         *node
	compute      func() T
	value        T
	computed     bool
	computations int
}

// NewDerived creates a derived value. compute must not write cells.
func NewDerived[T any](rt *Runtime, compute func() T) *Derived[T] {
	return NewNamedDerived(rt, "", compute)
}

// NewNamedDerived is NewDerived with a diagnostic label.
func NewNamedDerived[T any](rt *Runtime, name string, compute func() T) *Derived[T] {
	return &Derived[T]{
		rt:      rt,
		node:    rt.addNode(kindDerived, name),
		compute: compute,
	}
}

// Get returns the value, recomputing it first when a dependency changed
// since the last computation. The read is tracked.
func (d *Derived[T]) Get() T {
	if d.node.disposed {
		var v T
		d.rt.Untracked(func() { v = d.compute() })
		return v
	}
	if d.node.running {
		panic(cycleError(d.node.name))
	}
	d.rt.track(d.node.id)
	if d.computed && !d.node.stale {
		return d.value
	}
	d.recompute()
	return d.value
}

// Peek returns the value like Get but without tracking the read.
func (d *Derived[T]) Peek() T {
	var v T
	d.rt.Untracked(func() { v = d.Get() })
	return v
}

// Dispose detaches the derived value from the graph and frees its slot.
// Later reads compute the value without caching or tracking.
func (d *Derived[T]) Dispose() {
	d.rt.detach(d.node)
}

// Computations reports how many times compute has run.
func (d *Derived[T]) Computations() int {
	return d.computations
}

func (d *Derived[T]) recompute() {
	d.node.running = true
	d.rt.derivedDepth++
	defer func() {
		d.rt.derivedDepth--
		d.node.running = false
	}()

	var next T
	d.rt.runTracked(d.node, func() {
		next = d.compute()
	})
	d.value = next
	d.computed = true
	d.node.stale = false
	d.computations++
}
