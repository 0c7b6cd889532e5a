package loom

import (
	"context"

	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Hook intercepts top-level resolutions. Hooks can be used for logging,
// metrics, access control, or testing.
type Hook interface {
	// BeforeResolve is called before a top-level resolution starts.
	// Return an error to abort it.
	BeforeResolve(ctx context.Context, tok AnyToken) error

	// AfterResolve is called after a top-level resolution finished,
	// successfully or not (value and err may both be set).
	AfterResolve(ctx context.Context, tok AnyToken, value any, err error) error
}

// hookChain runs multiple hooks in the order they were added.
type hookChain struct {
	hooks []Hook
}

func newHookChain() *hookChain {
	return &hookChain{hooks: make([]Hook, 0)}
}

func (h *hookChain) add(hook Hook) {
	h.hooks = append(h.hooks, hook)
}

// beforeResolve calls BeforeResolve on all hooks; the first error aborts.
func (h *hookChain) beforeResolve(ctx context.Context, tok AnyToken) error {
	for _, hook := range h.hooks {
		if err := hook.BeforeResolve(ctx, tok); err != nil {
			return err
		}
	}

	return nil
}

// afterResolve calls AfterResolve on all hooks. Every hook runs even when
// earlier ones fail; their errors are combined.
func (h *hookChain) afterResolve(ctx context.Context, tok AnyToken, value any, err error) error {
	var combined error

	for _, hook := range h.hooks {
		combined = multierr.Append(combined, hook.AfterResolve(ctx, tok, value, err))
	}

	return combined
}

// FuncHook wraps functions as a Hook. Nil fields are skipped.
type FuncHook struct {
	BeforeResolveFunc func(ctx context.Context, tok AnyToken) error
	AfterResolveFunc  func(ctx context.Context, tok AnyToken, value any, err error) error
}

// BeforeResolve implements Hook.
func (f *FuncHook) BeforeResolve(ctx context.Context, tok AnyToken) error {
	if f.BeforeResolveFunc != nil {
		return f.BeforeResolveFunc(ctx, tok)
	}

	return nil
}

// AfterResolve implements Hook.
func (f *FuncHook) AfterResolve(ctx context.Context, tok AnyToken, value any, err error) error {
	if f.AfterResolveFunc != nil {
		return f.AfterResolveFunc(ctx, tok, value, err)
	}

	return nil
}

// LoggingHook returns a Hook that logs every top-level resolution through
// log: debug on entry and success, warn on failure.
func LoggingHook(log *zap.Logger) Hook {
	return &FuncHook{
		BeforeResolveFunc: func(ctx context.Context, tok AnyToken) error {
			log.Debug("resolving", zap.String("token", tok.Label()))

			return nil
		},
		AfterResolveFunc: func(ctx context.Context, tok AnyToken, value any, err error) error {
			if err != nil {
				log.Warn("resolution failed",
					zap.String("token", tok.Label()),
					zap.Error(err))

				return nil
			}

			log.Debug("resolved", zap.String("token", tok.Label()))

			return nil
		},
	}
}
