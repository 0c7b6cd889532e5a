package loom

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// binding pairs an active definition with its cache slot. Rebinding a token
// installs a fresh binding record, so a singleton build that raced with a
// rebind publishes into the superseded record and is never observed through
// the new one.
type binding struct {
	def Definition

	mu     sync.Mutex
	value  any
	cached bool
}

// containerImpl implements Container.
type containerImpl struct {
	bindings map[*tokenHandle]*binding
	order    []AnyToken
	hooks    *hookChain
	monitors MonitorFactory
	log      *zap.Logger
	pathKeep int
	mu       sync.RWMutex
}

func newContainer(opts ...Option) *containerImpl {
	c := &containerImpl{
		bindings: make(map[*tokenHandle]*binding),
		hooks:    newHookChain(),
		monitors: NewMonitor,
		log:      zap.NewNop(),
		pathKeep: DefaultPathLimit,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Bind registers def under its token, overwriting any prior registration.
func (c *containerImpl) Bind(def Definition) {
	tok := def.Token()

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.bindings[tok.handle()]; !exists {
		c.order = append(c.order, tok)
	}

	c.bindings[tok.handle()] = &binding{def: def}

	c.log.Debug("bound definition",
		zap.String("token", tok.Label()),
		zap.Stringer("scope", def.Scope()))
}

// Unbind removes the token's registration and evicts its cached value.
func (c *containerImpl) Unbind(tok AnyToken) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.bindings[tok.handle()]; !exists {
		return
	}

	delete(c.bindings, tok.handle())

	for i, t := range c.order {
		if t.handle() == tok.handle() {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}

	c.log.Debug("unbound definition", zap.String("token", tok.Label()))
}

// IsBound reports whether the token has an active binding.
func (c *containerImpl) IsBound(tok AnyToken) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	_, exists := c.bindings[tok.handle()]

	return exists
}

// Resolve is the suspending resolution entry point.
func (c *containerImpl) Resolve(ctx context.Context, tok AnyToken) (any, error) {
	return c.resolveTop(ctx, tok, true)
}

// ResolveSync is the blocking resolution entry point.
func (c *containerImpl) ResolveSync(tok AnyToken) (any, error) {
	return c.resolveTop(context.Background(), tok, false)
}

// resolveTop opens a fresh monitor for one top-level resolution and runs the
// hook chain around it.
func (c *containerImpl) resolveTop(ctx context.Context, tok AnyToken, await bool) (any, error) {
	monitor := c.monitors()

	if err := c.hooks.beforeResolve(ctx, tok); err != nil {
		return nil, err
	}

	value, err := c.resolve(ctx, tok, monitor, await)

	if hookErr := c.hooks.afterResolve(ctx, tok, value, err); hookErr != nil {
		return nil, hookErr
	}

	return value, err
}

// resolve performs one step of the resolution algorithm. Nested resolutions
// issued by creators re-enter here through the ResolveContext with the same
// monitor, so cycle detection spans the whole chain.
func (c *containerImpl) resolve(ctx context.Context, tok AnyToken, monitor *Monitor, await bool) (any, error) {
	if !monitor.Enter(tok) {
		path := renderPath(append(monitor.Path(), tok), c.pathKeep)
		c.log.Debug("circular dependency",
			zap.String("token", tok.Label()),
			zap.String("request", monitor.RequestID()))

		return nil, newCircularDependency(tok, monitor.RequestID(), path)
	}
	defer monitor.Exit(tok)

	c.mu.RLock()
	b, exists := c.bindings[tok.handle()]
	c.mu.RUnlock()

	if !exists {
		path := renderPath(monitor.Path(), c.pathKeep)

		return nil, newBindingNotFound(tok, monitor.RequestID(), path)
	}

	if b.def.Scope() != Singleton {
		return c.invokeCreator(ctx, b, tok, monitor, await)
	}

	// Fast path: cached singleton.
	b.mu.Lock()
	if b.cached {
		value := b.value
		b.mu.Unlock()

		c.log.Debug("cache hit", zap.String("token", tok.Label()))

		return value, nil
	}

	// Slow path: build while holding the binding lock so concurrent chains
	// resolving the same token serialize here and the creator runs at most
	// once per active binding. Cycles within one chain never reacquire the
	// lock; the monitor rejects them above.
	defer b.mu.Unlock()

	value, err := c.invokeCreator(ctx, b, tok, monitor, await)
	if err != nil {
		return nil, err
	}

	b.value = value
	b.cached = true

	return value, nil
}

// invokeCreator runs the binding's creator and, on the suspending path,
// awaits a pending result. On the blocking path a pending result is an
// ASYNC_ONLY_BINDING failure, detected without running the deferred work.
func (c *containerImpl) invokeCreator(ctx context.Context, b *binding, tok AnyToken, monitor *Monitor, await bool) (any, error) {
	rc := &ResolveContext{c: c, monitor: monitor}

	out, err := b.def.Creator()(rc)
	if err != nil {
		// Creator errors propagate through the chain unchanged.
		return nil, err
	}

	if pending, ok := out.(*Deferred); ok {
		if !await {
			path := renderPath(monitor.Path(), c.pathKeep)

			return nil, newAsyncOnlyBinding(tok, monitor.RequestID(), path)
		}

		return pending.await(ctx, rc)
	}

	return out, nil
}

// Use appends a resolution hook.
func (c *containerImpl) Use(h Hook) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hooks.add(h)
}

// Bindings returns the bound tokens in registration order.
func (c *containerImpl) Bindings() []AnyToken {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]AnyToken, len(c.order))
	copy(out, c.order)

	return out
}

// Inspect returns diagnostic information about a token's binding.
func (c *containerImpl) Inspect(tok AnyToken) BindingInfo {
	c.mu.RLock()
	b, exists := c.bindings[tok.handle()]
	c.mu.RUnlock()

	if !exists {
		return BindingInfo{Label: tok.Label()}
	}

	b.mu.Lock()
	cached := b.cached
	b.mu.Unlock()

	imports := b.def.Imports()
	importLabels := make([]string, len(imports))
	for i, imp := range imports {
		importLabels[i] = imp.Token().Label()
	}

	return BindingInfo{
		Label:   tok.Label(),
		Bound:   true,
		Scope:   b.def.Scope(),
		Cached:  cached,
		Imports: importLabels,
	}
}

// Validate implements Container.
func (c *containerImpl) Validate() error {
	return c.importGraph().validate()
}

// ResolutionOrder returns the bound tokens sorted so that every declared
// import precedes its dependents. Tokens without imports keep registration
// order. It fails when the declared graph has a static cycle.
func (c *containerImpl) ResolutionOrder() ([]AnyToken, error) {
	return c.importGraph().topologicalSort()
}

func (c *containerImpl) importGraph() *importGraph {
	c.mu.RLock()
	defer c.mu.RUnlock()

	g := newImportGraph(c.pathKeep)
	for _, tok := range c.order {
		g.addNode(tok, c.bindings[tok.handle()].def.Imports())
	}

	return g
}

// BindingInfo is diagnostic information about one token's binding.
type BindingInfo struct {
	Label   string
	Bound   bool
	Scope   Scope
	Cached  bool
	Imports []string
}

// =============================================================================
// RESOLVE CONTEXT
// =============================================================================

// ResolveContext is the resolution context passed to creators. Nested
// resolutions issued through it share the monitor of the chain that invoked
// the creator, which is what lets cycle detection span the whole chain.
// ResolveContext implements Resolver, so code written against the Resolver
// contract works unchanged inside creators.
type ResolveContext struct {
	c       *containerImpl
	monitor *Monitor
}

// Resolve performs a nested suspending resolution within the current chain.
func (rc *ResolveContext) Resolve(ctx context.Context, tok AnyToken) (any, error) {
	return rc.c.resolve(ctx, tok, rc.monitor, true)
}

// ResolveSync performs a nested blocking resolution within the current chain.
func (rc *ResolveContext) ResolveSync(tok AnyToken) (any, error) {
	return rc.c.resolve(context.Background(), tok, rc.monitor, false)
}

// RequestID returns the identifier of the enclosing resolution chain.
func (rc *ResolveContext) RequestID() string {
	return rc.monitor.RequestID()
}
