package loom

import (
	"context"
	"sync"

	"go.uber.org/multierr"
)

// WireGroup is an ordered collection of definitions that is applied as a
// unit and resolvable in bulk. Groups are immutable; With returns a new
// group.
type WireGroup struct {
	defs []Definition
}

// NewGroup creates a group over the given definitions, in order.
func NewGroup(defs ...Definition) *WireGroup {
	return &WireGroup{defs: defs}
}

// Defs returns the member definitions in declaration order.
func (g *WireGroup) Defs() []Definition {
	out := make([]Definition, len(g.defs))
	copy(out, g.defs)

	return out
}

// Apply applies every member in declaration order. Sequential on purpose:
// later members may depend on earlier ones already being registered, via
// Apply's import chasing.
func (g *WireGroup) Apply(b Binder) {
	for _, def := range g.defs {
		def.Apply(b)
	}
}

// Instances resolves every member through the suspending path concurrently
// and returns the values in member order. Each member resolution is its own
// top-level chain with its own monitor. Failures from all members are
// combined into one error.
func (g *WireGroup) Instances(ctx context.Context, r Resolver) ([]any, error) {
	values := make([]any, len(g.defs))
	errs := make([]error, len(g.defs))

	var wg sync.WaitGroup
	for i, def := range g.defs {
		wg.Add(1)

		go func(i int, tok AnyToken) {
			defer wg.Done()
			values[i], errs[i] = r.Resolve(ctx, tok)
		}(i, def.Token())
	}
	wg.Wait()

	if err := multierr.Combine(errs...); err != nil {
		return nil, err
	}

	return values, nil
}

// InstancesSync resolves every member through the blocking path in order.
// The first failure stops the walk; a member whose creator suspends fails
// with ErrAsyncOnlyBinding.
func (g *WireGroup) InstancesSync(r Resolver) ([]any, error) {
	values := make([]any, len(g.defs))

	for i, def := range g.defs {
		value, err := r.ResolveSync(def.Token())
		if err != nil {
			return nil, err
		}

		values[i] = value
	}

	return values, nil
}

// With returns a new group whose members are this group's followed by extra.
// Because Apply is sequential and bind overwrites, an extra definition
// sharing a member's token takes effect as an override — the usual way to
// substitute test doubles into a larger group.
func (g *WireGroup) With(extra ...Definition) *WireGroup {
	defs := make([]Definition, 0, len(g.defs)+len(extra))
	defs = append(defs, g.defs...)
	defs = append(defs, extra...)

	return &WireGroup{defs: defs}
}
