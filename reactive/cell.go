package reactive

// Cell is a writable value. Reads inside a Derived or Effect register a
// dependency; writes notify every dependent.
type Cell[T any] struct {
	rt     *Runtime
	node   *node
	value  T
	equals func(a, b T) bool
}

// CellOption configures a Cell.
type CellOption[T any] func(*Cell[T])

// WithEquals makes Set skip writes for which equal reports true. Without it
// every write propagates, including writes of an identical value.
func WithEquals[T any](equal func(a, b T) bool) CellOption[T] {
	return func(c *Cell[T]) {
		c.equals = equal
	}
}

// WithName labels the cell in diagnostics.
func WithName[T any](name string) CellOption[T] {
	return func(c *Cell[T]) {
		c.node.name = name
	}
}

// NewCell creates a cell holding initial.
func NewCell[T any](rt *Runtime, initial T, opts ...CellOption[T]) *Cell[T] {
	c := &Cell[T]{
		rt:    rt,
		node:  rt.addNode(kindCell, ""),
		value: initial,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the current value and tracks the read.
func (c *Cell[T]) Get() T {
	if !c.node.disposed {
		c.rt.track(c.node.id)
	}
	return c.value
}

// Peek returns the current value without tracking.
func (c *Cell[T]) Peek() T {
	return c.value
}

// Set replaces the value and propagates the change.
func (c *Cell[T]) Set(v T) {
	if c.rt.derivedDepth > 0 {
		panic(derivedWriteError(c.node.name))
	}
	if c.equals != nil && c.equals(c.value, v) {
		return
	}
	c.value = v
	if c.node.disposed {
		return
	}
	c.rt.logger.Debug("cell write", "cell", c.node.name, "subscribers", len(c.node.subs))
	c.rt.changed(c.node.id)
}

// Dispose detaches the cell from the graph and frees its slot. The value
// stays readable; later writes no longer propagate.
func (c *Cell[T]) Dispose() {
	c.rt.detach(c.node)
}

// Update applies fn to the current value and stores the result.
func (c *Cell[T]) Update(fn func(T) T) {
	c.Set(fn(c.value))
}
