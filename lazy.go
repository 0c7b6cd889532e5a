package loom

import (
	"context"
	"fmt"
	"sync"
)

// Lazy wraps a token whose value is resolved on first access. This is useful
// for breaking declared cycles or deferring expensive resolutions until the
// value is actually needed.
type Lazy[T any] struct {
	resolver Resolver
	token    Token[T]
	once     sync.Once
	value    T
	err      error
	resolved bool
}

// NewLazy creates a lazy wrapper over a token. Resolution goes through r —
// a container or, inside a creator, the creator's ResolveContext.
func NewLazy[T any](r Resolver, tok Token[T]) *Lazy[T] {
	return &Lazy[T]{resolver: r, token: tok}
}

// Get resolves the token through the suspending path. Resolution happens
// only once; subsequent calls return the first outcome, error included.
func (l *Lazy[T]) Get(ctx context.Context) (T, error) {
	l.once.Do(func() {
		l.value, l.err = As[T](l.resolver.Resolve(ctx, l.token))
		l.resolved = l.err == nil
	})

	return l.value, l.err
}

// MustGet resolves the token and panics on error.
func (l *Lazy[T]) MustGet(ctx context.Context) T {
	value, err := l.Get(ctx)
	if err != nil {
		panic(fmt.Sprintf("lazy %s failed: %v", l.token.Label(), err))
	}

	return value
}

// IsResolved reports whether the value has been resolved successfully.
func (l *Lazy[T]) IsResolved() bool {
	return l.resolved
}

// Label returns the wrapped token's debug label.
func (l *Lazy[T]) Label() string {
	return l.token.Label()
}

// Provider wraps a token that is re-resolved on each access. With a
// transient binding every call yields a fresh value.
type Provider[T any] struct {
	resolver Resolver
	token    Token[T]
}

// NewProvider creates a provider over a token.
func NewProvider[T any](r Resolver, tok Token[T]) *Provider[T] {
	return &Provider[T]{resolver: r, token: tok}
}

// Provide resolves the token through the suspending path.
func (p *Provider[T]) Provide(ctx context.Context) (T, error) {
	return As[T](p.resolver.Resolve(ctx, p.token))
}

// MustProvide resolves the token and panics on error.
func (p *Provider[T]) MustProvide(ctx context.Context) T {
	value, err := p.Provide(ctx)
	if err != nil {
		panic(fmt.Sprintf("provider %s failed: %v", p.token.Label(), err))
	}

	return value
}

// Label returns the wrapped token's debug label.
func (p *Provider[T]) Label() string {
	return p.token.Label()
}
