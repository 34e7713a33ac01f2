package reactive

import (
	"context"
	"log/slog"
	"slices"
	"sync"
)

// DefaultMaxEffectRuns bounds how many effect executions a single flush may
// perform before it is treated as a feedback loop.
const DefaultMaxEffectRuns = 10000

type nodeKind uint8

const (
	kindCell nodeKind = iota + 1
	kindDerived
	kindEffect
)

func (k nodeKind) String() string {
	switch k {
	case kindCell:
		return "cell"
	case kindDerived:
		return "derived"
	case kindEffect:
		return "effect"
	default:
		return "unknown"
	}
}

// node is an arena slot. deps are the nodes read during the last run,
// subs the nodes that read this one.
type node struct {
	id       int
	kind     nodeKind
	name     string
	deps     []int
	subs     []int
	stale    bool
	running  bool
	disposed bool
	run      func()
}

// frame collects the dependencies read by the computation currently running.
type frame struct {
	owner int
	deps  []int
}

// add records id and reports whether it was new for this run.
func (f *frame) add(id int) bool {
	if id == f.owner || slices.Contains(f.deps, id) {
		return false
	}
	f.deps = append(f.deps, id)
	return true
}

// Option configures a Runtime.
type Option func(*Runtime)

// WithLogger sets the logger used for graph diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(rt *Runtime) {
		if logger != nil {
			rt.logger = logger
		}
	}
}

// WithMaxEffectRuns overrides DefaultMaxEffectRuns.
func WithMaxEffectRuns(n int) Option {
	return func(rt *Runtime) {
		if n > 0 {
			rt.maxEffectRuns = n
		}
	}
}

// Runtime owns the dependency graph and the continuation queue.
// Graph operations must be called from the owner goroutine; Go, Post and
// Pending are safe from any goroutine.
type Runtime struct {
	nodes         []*node
	free          []int
	frame         *frame
	effect        *Effect
	derivedDepth  int
	batchDepth    int
	queue         []int
	flushing      bool
	maxEffectRuns int
	logger        *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.Mutex
	inbox    []func()
	inflight int
	closed   bool
	wake     chan struct{}
}

// NewRuntime creates an empty runtime.
func NewRuntime(opts ...Option) *Runtime {
	ctx, cancel := context.WithCancel(context.Background())
	rt := &Runtime{
		maxEffectRuns: DefaultMaxEffectRuns,
		logger:        slog.New(slog.DiscardHandler),
		ctx:           ctx,
		cancel:        cancel,
		wake:          make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(rt)
	}
	return rt
}

// Logger returns the runtime logger.
func (rt *Runtime) Logger() *slog.Logger {
	return rt.logger
}

// Context is cancelled when the runtime is closed.
func (rt *Runtime) Context() context.Context {
	return rt.ctx
}

func (rt *Runtime) addNode(kind nodeKind, name string) *node {
	n := &node{kind: kind, name: name}
	if n.name == "" {
		n.name = kind.String()
	}
	if last := len(rt.free) - 1; last >= 0 {
		n.id = rt.free[last]
		rt.free = rt.free[:last]
		rt.nodes[n.id] = n
		return n
	}
	n.id = len(rt.nodes)
	rt.nodes = append(rt.nodes, n)
	return n
}

// Nodes returns the number of live nodes in the graph.
func (rt *Runtime) Nodes() int {
	return len(rt.nodes) - len(rt.free)
}

// track registers id as a dependency of the running computation. The edge
// is live immediately, so a change made while the owner is still running
// marks it stale.
func (rt *Runtime) track(id int) {
	if f := rt.frame; f != nil && f.add(id) {
		rt.subscribe(id, f.owner)
	}
}

// runTracked executes fn as node owner. Edges read during the run are added
// as they are read; edges of the previous run that were not read again are
// dropped when fn returns.
func (rt *Runtime) runTracked(owner *node, fn func()) {
	prevDeps := owner.deps

	prev := rt.frame
	current := &frame{owner: owner.id}
	rt.frame = current
	defer func() {
		rt.frame = prev
		if owner.disposed {
			for _, dep := range current.deps {
				rt.unsubscribe(dep, owner.id)
			}
			owner.deps = nil
			rt.release(owner)
			return
		}
		for _, dep := range prevDeps {
			if !slices.Contains(current.deps, dep) {
				rt.unsubscribe(dep, owner.id)
			}
		}
		owner.deps = current.deps
	}()

	fn()
}

func (rt *Runtime) subscribe(dep, sub int) {
	n := rt.nodes[dep]
	if n == nil {
		return
	}
	if !slices.Contains(n.subs, sub) {
		n.subs = append(n.subs, sub)
	}
}

func (rt *Runtime) unsubscribe(dep, sub int) {
	n := rt.nodes[dep]
	if n == nil {
		return
	}
	if i := slices.Index(n.subs, sub); i >= 0 {
		n.subs = slices.Delete(n.subs, i, i+1)
	}
}

// detach removes n from the graph. Its slot is reused once n is no longer
// running.
func (rt *Runtime) detach(n *node) {
	if n.disposed {
		return
	}
	n.disposed = true
	for _, dep := range n.deps {
		rt.unsubscribe(dep, n.id)
	}
	n.deps = nil
	for _, sub := range n.subs {
		if s := rt.nodes[sub]; s != nil {
			s.deps = slices.DeleteFunc(s.deps, func(d int) bool { return d == n.id })
		}
	}
	n.subs = nil
	if !n.running {
		rt.release(n)
	}
}

func (rt *Runtime) release(n *node) {
	if rt.nodes[n.id] != n {
		return
	}
	rt.nodes[n.id] = nil
	rt.free = append(rt.free, n.id)
}

// schedule queues an effect that went stale while it was running.
func (rt *Runtime) schedule(id int) {
	rt.queue = append(rt.queue, id)
	if rt.batchDepth == 0 {
		rt.flush()
	}
}

// markSubs walks the reverse edges of id: derived dependents become stale
// (and propagate further), effect dependents are queued.
func (rt *Runtime) markSubs(id int) {
	for _, sub := range rt.nodes[id].subs {
		n := rt.nodes[sub]
		if n == nil || n.disposed || n.stale {
			continue
		}
		n.stale = true
		switch n.kind {
		case kindDerived:
			rt.markSubs(sub)
		case kindEffect:
			rt.queue = append(rt.queue, sub)
		}
	}
}

// changed is called after a cell write.
func (rt *Runtime) changed(id int) {
	rt.markSubs(id)
	if rt.batchDepth == 0 {
		rt.flush()
	}
}

// flush runs queued effects until the queue is empty. Effects that write
// cells extend the queue of the flush already in progress.
func (rt *Runtime) flush() {
	if rt.flushing {
		return
	}
	rt.flushing = true
	defer func() { rt.flushing = false }()

	runs := 0
	for len(rt.queue) > 0 {
		id := rt.queue[0]
		rt.queue = rt.queue[1:]

		n := rt.nodes[id]
		// a running effect is queued again when its run ends
		if n == nil || n.disposed || n.running || !n.stale {
			continue
		}
		runs++
		if runs > rt.maxEffectRuns {
			rt.queue = nil
			panic(effectLoopError(runs - 1))
		}
		n.run()
	}
}

// Batch defers propagation of every write made by fn until fn returns, so
// dependents observe all of them at once.
func (rt *Runtime) Batch(fn func()) {
	rt.batchDepth++
	completed := false
	defer func() {
		rt.batchDepth--
		if completed && rt.batchDepth == 0 {
			rt.flush()
		}
	}()
	fn()
	completed = true
}

// Untracked runs fn without registering the reads it performs.
func (rt *Runtime) Untracked(fn func()) {
	prev := rt.frame
	rt.frame = nil
	defer func() { rt.frame = prev }()
	fn()
}

// OnCleanup registers fn on the effect currently running. It runs before the
// effect's next execution and when the effect stops. Outside an effect the
// call is ignored.
func (rt *Runtime) OnCleanup(fn func()) {
	if rt.effect == nil {
		rt.logger.Debug("cleanup registered outside an effect")
		return
	}
	rt.effect.cleanups = append(rt.effect.cleanups, fn)
}

// Go runs task on a new goroutine. The continuation task returns is queued
// and applied on the owner goroutine by Drain or Wait. A nil continuation is
// allowed. Tasks are not started once the runtime is closed.
func (rt *Runtime) Go(ctx context.Context, task func(ctx context.Context) func()) bool {
	rt.mu.Lock()
	if rt.closed {
		rt.mu.Unlock()
		return false
	}
	rt.inflight++
	rt.mu.Unlock()

	go func() {
		var cont func()
		defer func() {
			if r := recover(); r != nil {
				rt.logger.Error("async task panicked", "panic", r)
				cont = nil
			}
			rt.settle(cont)
		}()
		cont = task(ctx)
	}()
	return true
}

// Post queues fn for the owner goroutine without counting it as in-flight
// work. It is meant for long-lived producers such as tickers.
func (rt *Runtime) Post(fn func()) bool {
	rt.mu.Lock()
	if rt.closed {
		rt.mu.Unlock()
		return false
	}
	rt.inbox = append(rt.inbox, fn)
	rt.mu.Unlock()
	rt.signal()
	return true
}

func (rt *Runtime) settle(cont func()) {
	rt.mu.Lock()
	rt.inflight--
	if cont != nil && !rt.closed {
		rt.inbox = append(rt.inbox, cont)
	}
	rt.mu.Unlock()
	rt.signal()
}

func (rt *Runtime) signal() {
	select {
	case rt.wake <- struct{}{}:
	default:
	}
}

// Pending returns the number of tasks started with Go that have not settled.
func (rt *Runtime) Pending() int {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	return rt.inflight
}

// Drain applies every queued continuation, each inside its own batch, and
// returns how many ran. It never blocks.
func (rt *Runtime) Drain() int {
	applied := 0
	for {
		rt.mu.Lock()
		ready := rt.inbox
		rt.inbox = nil
		rt.mu.Unlock()

		if len(ready) == 0 {
			return applied
		}
		for _, cont := range ready {
			rt.Batch(cont)
			applied++
		}
	}
}

// Wait applies continuations until no task is in flight and the queue is
// empty, or ctx ends.
func (rt *Runtime) Wait(ctx context.Context) error {
	for {
		rt.Drain()

		rt.mu.Lock()
		idle := rt.inflight == 0 && len(rt.inbox) == 0
		rt.mu.Unlock()
		if idle {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-rt.wake:
		}
	}
}

// Close cancels the runtime context and drops queued and future
// continuations.
func (rt *Runtime) Close() {
	rt.cancel()
	rt.mu.Lock()
	rt.closed = true
	rt.inbox = nil
	rt.mu.Unlock()
}
