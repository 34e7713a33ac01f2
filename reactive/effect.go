package reactive

// Effect is a side-effecting computation that re-runs after any of the
// values it read changes.
type Effect struct {
	rt       *Runtime
	node     *node
	fn       func()
	cleanups []func()
	runs     int
}

// NewEffect creates an effect and runs it immediately.
func NewEffect(rt *Runtime, fn func()) *Effect {
	return NewNamedEffect(rt, "", fn)
}

// NewNamedEffect is NewEffect with a diagnostic label.
func NewNamedEffect(rt *Runtime, name string, fn func()) *Effect {
	e := &Effect{
		rt:   rt,
		node: rt.addNode(kindEffect, name),
		fn:   fn,
	}
	e.node.run = e.execute
	e.execute()
	return e
}

// Runs reports how many times the effect body executed.
func (e *Effect) Runs() int {
	return e.runs
}

// Stopped reports whether Stop was called.
func (e *Effect) Stopped() bool {
	return e.node.disposed
}

// Stop runs the pending cleanups and detaches the effect from the graph,
// freeing its slot. Stopping twice is a no-op.
func (e *Effect) Stop() {
	if e.node.disposed {
		return
	}
	e.rt.detach(e.node)
	e.runCleanups()
}

func (e *Effect) execute() {
	if e.node.disposed {
		return
	}
	e.node.stale = false
	e.runCleanups()

	prev := e.rt.effect
	e.rt.effect = e
	defer func() { e.rt.effect = prev }()

	e.runs++
	e.node.running = true
	func() {
		defer func() { e.node.running = false }()
		e.rt.runTracked(e.node, e.fn)
	}()

	if e.node.stale && !e.node.disposed {
		e.rt.schedule(e.node.id)
	}
}

func (e *Effect) runCleanups() {
	cleanups := e.cleanups
	e.cleanups = nil
	for i := len(cleanups) - 1; i >= 0; i-- {
		cleanups[i]()
	}
}
