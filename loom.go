package loom

import "context"

// Resolver is the resolution contract consumed by adapter layers and by wire
// definitions. Both entry points look up the token's active definition, run
// its creator if no cached value exists, and cache the result for singleton
// scope. Every call opens a fresh resolution monitor, so independent calls
// never observe each other as cycles.
type Resolver interface {
	// Resolve is the suspending entry point: creators that return pending
	// values are awaited with ctx.
	Resolve(ctx context.Context, tok AnyToken) (any, error)

	// ResolveSync is the blocking entry point: it fails with
	// ErrAsyncOnlyBinding when the creator suspends.
	ResolveSync(tok AnyToken) (any, error)
}

// Binder is the registration contract. Definitions are written against
// Binder and Resolver, not against a concrete container, so adapters can
// translate bindings into a third-party container's native calls.
type Binder interface {
	// Bind registers def under its token, overwriting any prior
	// registration. Bind does not evict a cached value; Unbind does.
	Bind(def Definition)

	// Unbind removes the token's registration and evicts its cached value.
	Unbind(tok AnyToken)

	// IsBound reports whether the token has an active binding.
	IsBound(tok AnyToken) bool
}

// Container composes the binding registry, the singleton cache, and a
// monitor factory. Use New to create one.
type Container interface {
	Resolver
	Binder

	// Use appends a resolution hook, called around every top-level
	// resolution in the order hooks were added.
	Use(h Hook)

	// Inspect returns diagnostic information about a token's binding.
	Inspect(tok AnyToken) BindingInfo

	// Bindings returns the bound tokens in registration order.
	Bindings() []AnyToken

	// Validate checks the declared import graph of all bound definitions
	// for missing bindings and static cycles. Creators that resolve tokens
	// they never declared are outside its reach; the per-request monitor
	// still catches those at resolution time.
	Validate() error

	// ResolutionOrder returns the bound tokens sorted so every declared
	// import precedes its dependents.
	ResolutionOrder() ([]AnyToken, error)
}

// New creates an empty container. Behavior is configured per container,
// never through globals:
//
//	c := loom.New(
//	    loom.WithLogger(log),
//	    loom.WithPathLimit(8),
//	)
func New(opts ...Option) Container {
	return newContainer(opts...)
}
