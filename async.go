package loom

import "context"

// Deferred is a pending value. A creator that needs a context.Context (to
// perform nested suspending resolutions, I/O, or other asynchronous work)
// returns a Deferred instead of a finished value. The suspending resolution
// path runs it with the caller's context; the blocking path rejects it with
// an ASYNC_ONLY_BINDING error without running it.
type Deferred struct {
	fn func(ctx context.Context, rc *ResolveContext) (any, error)
}

// Defer wraps fn as a pending value. fn runs at most once per creator
// invocation, at the point the suspending resolver awaits it, with the same
// resolution context the creator received.
func Defer(fn func(ctx context.Context, rc *ResolveContext) (any, error)) *Deferred {
	return &Deferred{fn: fn}
}

func (d *Deferred) await(ctx context.Context, rc *ResolveContext) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return d.fn(ctx, rc)
}
