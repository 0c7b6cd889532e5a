package loom

import (
	"context"
	"fmt"
)

// As narrows a (value, error) pair from the untyped Resolver contract to T.
// It is the plumbing behind the typed helpers and is exported for adapters:
//
//	logger, err := loom.As[*Logger](c.Resolve(ctx, tok))
func As[T any](v any, err error) (T, error) {
	var zero T

	if err != nil {
		return zero, err
	}

	typed, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("%w: value is %T, want %T", ErrTypeMismatch, v, zero)
	}

	return typed, nil
}

// Resolve resolves a token through the suspending path with type safety.
func Resolve[T any](ctx context.Context, r Resolver, tok Token[T]) (T, error) {
	return As[T](r.Resolve(ctx, tok))
}

// ResolveSync resolves a token through the blocking path with type safety.
// It fails with ErrAsyncOnlyBinding when the active creator suspends.
func ResolveSync[T any](r Resolver, tok Token[T]) (T, error) {
	return As[T](r.ResolveSync(tok))
}

// Must resolves through the suspending path or panics - use only during startup.
func Must[T any](ctx context.Context, r Resolver, tok Token[T]) T {
	value, err := Resolve(ctx, r, tok)
	if err != nil {
		panic(fmt.Sprintf("failed to resolve %s: %v", tok.Label(), err))
	}

	return value
}

// MustSync resolves through the blocking path or panics - use only during startup.
func MustSync[T any](r Resolver, tok Token[T]) T {
	value, err := ResolveSync(r, tok)
	if err != nil {
		panic(fmt.Sprintf("failed to resolve %s: %v", tok.Label(), err))
	}

	return value
}

// BindValue binds a pre-built value under tok (singleton, trivially).
func BindValue[T any](b Binder, tok Token[T], value T) {
	ValueDef(tok, value).Apply(b)
}
