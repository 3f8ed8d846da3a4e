package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"go.uber.org/atomic"

	"github.com/jask/wastewise/internal/auth"
	"github.com/jask/wastewise/internal/navigation"
)

// Snapshot is a consistent read of the router.
type Snapshot struct {
	Seq   uint64
	State State
	Ready bool
	Graph navigation.Graph
}

// Options configures a Router.
type Options struct {
	Resolver auth.RoleResolver
	Logger   *slog.Logger
	// QueueSize bounds pending provider events; a full queue applies backpressure to the provider.
	QueueSize int
}

type authEvent struct {
	id *auth.Identity
}

type listener struct {
	id uint64
	fn func(Snapshot)
}

// Router is the session-gated router. It is the only writer of the session
// state; everything else reads snapshots.
//
// Listeners registered with Subscribe run while transitions are serialised and
// must not call OnAuthEvent or OnReadinessChange.
type Router struct {
	registry *navigation.Registry
	resolver auth.RoleResolver
	log      *slog.Logger
	queue    int

	assets *Signal
	authed *Signal

	applyMu sync.Mutex // serialises transitions and their notification

	mu        sync.RWMutex
	state     State
	seq       uint64
	listeners []listener // subscription order
	nextID    uint64

	halted atomic.Bool // set by Stop; no transition applies afterwards

	lifeMu      sync.Mutex
	started     bool
	stopped     bool
	unsubscribe func()
	loopCtx     context.Context
	cancel      context.CancelFunc
	events      chan authEvent
	loopDone    chan struct{}
}

// New creates a router over registry in StatusInitializing.
func New(registry *navigation.Registry, opts Options) *Router {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	queue := opts.QueueSize
	if queue <= 0 {
		queue = 64
	}
	return &Router{
		registry:  registry,
		resolver:  opts.Resolver,
		log:       logger.With("component", "session"),
		queue:     queue,
		assets:    NewSignal(),
		authed:    NewSignal(),
		state:     State{Status: StatusInitializing},
	}
}

// Start subscribes to provider and applies its events in arrival order on a
// single goroutine until Stop or ctx ends. Calling Start again is a no-op;
// Start after Stop returns ErrRouterStopped.
func (r *Router) Start(ctx context.Context, provider auth.Provider) error {
	r.lifeMu.Lock()
	defer r.lifeMu.Unlock()
	if r.stopped {
		return ErrRouterStopped
	}
	if r.started {
		return nil
	}
	r.started = true
	r.loopCtx, r.cancel = context.WithCancel(ctx)
	r.events = make(chan authEvent, r.queue)
	r.loopDone = make(chan struct{})
	go r.loop()
	r.unsubscribe = provider.Subscribe(r.enqueue)
	r.log.Debug("router started")
	return nil
}

// Stop releases the provider subscription exactly once and waits for the
// event loop to exit. Queued events are dropped. Repeated calls are no-ops.
func (r *Router) Stop() {
	r.lifeMu.Lock()
	if !r.started || r.stopped {
		r.lifeMu.Unlock()
		return
	}
	r.stopped = true
	r.halted.Store(true)
	unsubscribe := r.unsubscribe
	r.unsubscribe = nil
	r.cancel()
	r.lifeMu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
	<-r.loopDone
	r.log.Debug("router stopped")
}

func (r *Router) enqueue(id *auth.Identity) {
	if r.loopCtx.Err() != nil {
		return
	}
	select {
	case r.events <- authEvent{id: id}:
	case <-r.loopCtx.Done():
	}
}

func (r *Router) loop() {
	defer close(r.loopDone)
	for {
		select {
		case <-r.loopCtx.Done():
			return
		case ev := <-r.events:
			if r.loopCtx.Err() != nil {
				return
			}
			r.apply(r.loopCtx, ev.id, r.loopCtx)
		}
	}
}

// OnAuthEvent applies one auth event: nil signs out, an identity signs in with
// the resolved role. The first event also fires the auth-resolved signal.
// It returns the new state. After Stop the event is dropped and the current
// state is returned.
func (r *Router) OnAuthEvent(ctx context.Context, id *auth.Identity) State {
	s, _ := r.apply(ctx, id, nil)
	return s
}

// apply runs one transition. The event is dropped once the router is stopped
// or when guard is done after role resolution.
func (r *Router) apply(ctx context.Context, id *auth.Identity, guard context.Context) (State, bool) {
	r.applyMu.Lock()
	defer r.applyMu.Unlock()
	if r.halted.Load() {
		return r.State(), false
	}

	var (
		role    auth.Role
		roleErr error
	)
	if id != nil {
		role, roleErr = r.resolve(ctx, *id)
	}
	if r.halted.Load() || (guard != nil && guard.Err() != nil) {
		return r.State(), false
	}

	next := Next(id, role, roleErr)
	if r.authed.Fire() {
		r.log.Debug("auth resolved")
	}

	r.mu.Lock()
	prev := r.state.Status
	r.state = next
	r.seq++
	snap := r.snapshotLocked()
	listeners := r.listenersLocked()
	r.mu.Unlock()

	r.log.Info("session transition", "from", prev, "to", next.Status, "seq", snap.Seq, "ready", snap.Ready)
	for _, l := range listeners {
		l(snap)
	}
	return next.clone(), true
}

func (r *Router) resolve(ctx context.Context, id auth.Identity) (auth.Role, error) {
	if r.resolver == nil {
		err := fmt.Errorf("no role resolver configured: %w", auth.ErrMissingRole)
		r.log.Warn("role resolution failed, assuming user", "uid", id.UID, "err", err)
		return auth.RoleUser, err
	}
	role, err := r.resolver.Resolve(ctx, id)
	if err == nil {
		if parsed, ok := auth.ParseRole(string(role)); ok {
			return parsed, nil
		}
		err = fmt.Errorf("role %q: %w", role, auth.ErrMissingRole)
	}
	r.log.Warn("role resolution failed, assuming user", "uid", id.UID, "err", err)
	return auth.RoleUser, err
}

// OnReadinessChange reports the two readiness sources. Signals are one-shot:
// true fires a signal, false leaves it as it is. It is ignored after Stop.
func (r *Router) OnReadinessChange(assetsReady, authResolved bool) {
	r.applyMu.Lock()
	defer r.applyMu.Unlock()
	if r.halted.Load() {
		return
	}

	changed := false
	if assetsReady && r.assets.Fire() {
		changed = true
	}
	if authResolved && r.authed.Fire() {
		changed = true
	}
	if !changed {
		return
	}

	r.mu.Lock()
	r.seq++
	snap := r.snapshotLocked()
	listeners := r.listenersLocked()
	r.mu.Unlock()

	r.log.Info("readiness changed", "assets", r.assets.Fired(), "auth", r.authed.Fired(), "seq", snap.Seq)
	for _, l := range listeners {
		l(snap)
	}
}

// Ready reports whether both readiness signals have fired.
func (r *Router) Ready() bool {
	return r.assets.Fired() && r.authed.Fired()
}

// AwaitReady blocks until both readiness signals fire or ctx ends.
func (r *Router) AwaitReady(ctx context.Context) error {
	for _, s := range []*Signal{r.assets, r.authed} {
		select {
		case <-s.Done():
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// State returns a copy of the current state.
func (r *Router) State() State {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state.clone()
}

// CurrentGraph returns the destinations reachable right now. It is empty
// until the router is ready and while the state is initializing.
func (r *Router) CurrentGraph() navigation.Graph {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.graphLocked()
}

// Snapshot returns state, readiness and graph read together.
func (r *Router) Snapshot() Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snapshotLocked()
}

// Lookup returns the named destination if the current state may visit it.
func (r *Router) Lookup(name string) (navigation.Destination, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if !r.Ready() || r.state.Status == StatusInitializing {
		return navigation.Destination{}, ErrNotReady
	}
	if _, ok := r.registry.Lookup(name); !ok {
		return navigation.Destination{}, fmt.Errorf("%w: %s", ErrUnknownDestination, name)
	}
	d, ok := r.graphLocked().Find(name)
	if !ok {
		return navigation.Destination{}, fmt.Errorf("%w: %s", ErrUnreachable, name)
	}
	return d, nil
}

// Subscribe registers fn for every state or readiness change. The
// fn is called once immediately with the current snapshot. The returned
// cancel func is idempotent.
func (r *Router) Subscribe(fn func(Snapshot)) (cancel func()) {
	r.applyMu.Lock()
	defer r.applyMu.Unlock()

	r.mu.Lock()
	id := r.nextID
	r.nextID++
	r.listeners = append(r.listeners, listener{id: id, fn: fn})
	snap := r.snapshotLocked()
	r.mu.Unlock()

	fn(snap)

	var once sync.Once
	return func() {
		once.Do(func() {
			r.mu.Lock()
			for i, l := range r.listeners {
				if l.id == id {
					r.listeners = append(r.listeners[:i:i], r.listeners[i+1:]...)
					break
				}
			}
			r.mu.Unlock()
		})
	}
}

func (r *Router) graphLocked() navigation.Graph {
	if !r.Ready() || r.state.Status == StatusInitializing {
		return navigation.Graph{}
	}
	return r.registry.Reachable(r.state.Viewer())
}

func (r *Router) snapshotLocked() Snapshot {
	return Snapshot{
		Seq:   r.seq,
		State: r.state.clone(),
		Ready: r.Ready(),
		Graph: r.graphLocked(),
	}
}

func (r *Router) listenersLocked() []func(Snapshot) {
	out := make([]func(Snapshot), len(r.listeners))
	for i, l := range r.listeners {
		out[i] = l.fn
	}
	return out
}
