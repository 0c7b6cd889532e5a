package loom

import (
	"context"
	"fmt"
	"sort"
)

// Creator builds the value for one definition. It receives the resolution
// context of the chain that triggered it, through which nested resolutions
// share the chain's monitor. A creator whose work needs a context.Context
// returns a *Deferred; the blocking resolution path fails on such creators
// instead of running them.
type Creator func(rc *ResolveContext) (any, error)

// Definition is the untyped view of a wire definition: an immutable record
// of how to build one value under one token. Concrete definitions are
// created with NewDef, NewAsyncDef, ValueDef, or Provide.
type Definition interface {
	// Token identifies what this definition builds.
	Token() AnyToken

	// Scope reports the definition's lifecycle scope.
	Scope() Scope

	// Imports returns the definitions this one declared as dependencies,
	// in deterministic order. Imports are registered transitively by Apply
	// and resolved lazily at creation time, never validated eagerly.
	Imports() []Definition

	// Creator returns the creator function.
	Creator() Creator

	// Apply registers this definition on b: unbound imports first, in
	// order, then unbind (evicting any cached value) and rebind under this
	// definition's token. Reapplying the same definition is idempotent.
	Apply(b Binder)
}

// Def is an immutable wire definition for a value of type T. The With*
// methods return copies sharing the same token; a Def is never mutated
// after construction.
type Def[T any] struct {
	token   Token[T]
	creator Creator
	scope   Scope
	imports []Definition
}

// NewDef creates a singleton-scoped definition with a synchronous creator.
func NewDef[T any](tok Token[T], create func(rc *ResolveContext) (T, error)) *Def[T] {
	return &Def[T]{
		token: tok,
		creator: func(rc *ResolveContext) (any, error) {
			return create(rc)
		},
	}
}

// NewAsyncDef creates a singleton-scoped definition whose creator suspends:
// create runs with the resolving caller's context. Definitions built this
// way resolve only through the suspending path.
func NewAsyncDef[T any](tok Token[T], create func(ctx context.Context, rc *ResolveContext) (T, error)) *Def[T] {
	return &Def[T]{
		token: tok,
		creator: func(rc *ResolveContext) (any, error) {
			return Defer(func(ctx context.Context, rc *ResolveContext) (any, error) {
				return create(ctx, rc)
			}), nil
		},
	}
}

// ValueDef creates a singleton-scoped definition for a pre-built value.
func ValueDef[T any](tok Token[T], value T) *Def[T] {
	return NewDef(tok, func(*ResolveContext) (T, error) {
		return value, nil
	})
}

// Token returns the definition's identity token.
func (d *Def[T]) Token() AnyToken { return d.token }

// Scope returns the definition's scope. The default is Singleton.
func (d *Def[T]) Scope() Scope { return d.scope }

// Imports returns the declared dependency definitions.
func (d *Def[T]) Imports() []Definition {
	out := make([]Definition, len(d.imports))
	copy(out, d.imports)

	return out
}

// Creator returns the creator function.
func (d *Def[T]) Creator() Creator { return d.creator }

// WithScope returns a copy of the definition with the given scope. The token
// and creator are shared with the original.
func (d *Def[T]) WithScope(s Scope) *Def[T] {
	cp := *d
	cp.scope = s

	return &cp
}

// WithCreator returns a copy of the definition whose creator is the decorator
// wrapped around the original. The decorator receives the original creator
// and may invoke it, wrap its result, or replace it entirely:
//
//	counted := def.WithCreator(func(rc *loom.ResolveContext, next loom.Creator) (any, error) {
//	    calls++
//	    return next(rc)
//	})
func (d *Def[T]) WithCreator(decorate func(rc *ResolveContext, next Creator) (any, error)) *Def[T] {
	next := d.creator
	cp := *d
	cp.creator = func(rc *ResolveContext) (any, error) {
		return decorate(rc, next)
	}

	return &cp
}

// WithImports returns a copy of the definition with the given declared
// dependencies appended. Apply registers them transitively.
func (d *Def[T]) WithImports(imports ...Definition) *Def[T] {
	cp := *d
	cp.imports = append(append([]Definition{}, d.imports...), imports...)

	return &cp
}

// Apply implements Definition.
func (d *Def[T]) Apply(b Binder) {
	for _, imp := range d.imports {
		if !b.IsBound(imp.Token()) {
			imp.Apply(b)
		}
	}

	b.Unbind(d.token)
	b.Bind(d)
}

// Resolve resolves this definition's token through r via the suspending path.
func (d *Def[T]) Resolve(ctx context.Context, r Resolver) (T, error) {
	return As[T](r.Resolve(ctx, d.token))
}

// ResolveSync resolves this definition's token through r via the blocking
// path. It fails with ErrAsyncOnlyBinding when the active creator suspends.
func (d *Def[T]) ResolveSync(r Resolver) (T, error) {
	return As[T](r.ResolveSync(d.token))
}

// =============================================================================
// AUTHORING HELPER
// =============================================================================

// Imports names the definitions a Provide-built definition depends on.
type Imports map[string]Definition

// Deps holds the resolved import values, keyed by the names given in Imports.
type Deps map[string]any

// Dep returns the named resolved import as a T. It panics on a missing name
// or a type mismatch; both are authoring mistakes, not runtime conditions.
func Dep[T any](deps Deps, name string) T {
	v, ok := deps[name]
	if !ok {
		panic(fmt.Sprintf("loom: no import named %q was declared", name))
	}

	typed, ok := v.(T)
	if !ok {
		var zero T
		panic(fmt.Sprintf("loom: import %q is %T, not %T", name, v, zero))
	}

	return typed
}

// Provide creates a definition that resolves every named import through the
// suspending path and then calls build with the resolved values. This is the
// common authoring form; NewDef and NewAsyncDef are the lower-level creator
// forms.
//
//	var userSvc = loom.Provide(UserServiceToken,
//	    loom.Imports{"logger": LoggerDef},
//	    func(ctx context.Context, rc *loom.ResolveContext, deps loom.Deps) (*UserService, error) {
//	        return NewUserService(loom.Dep[*Logger](deps, "logger")), nil
//	    },
//	)
//
// Imports are resolved in sorted name order so resolution paths are
// deterministic.
func Provide[T any](tok Token[T], imports Imports, build func(ctx context.Context, rc *ResolveContext, deps Deps) (T, error)) *Def[T] {
	names := make([]string, 0, len(imports))
	for name := range imports {
		names = append(names, name)
	}
	sort.Strings(names)

	declared := make([]Definition, len(names))
	for i, name := range names {
		declared[i] = imports[name]
	}

	creator := func(rc *ResolveContext) (any, error) {
		return Defer(func(ctx context.Context, rc *ResolveContext) (any, error) {
			deps := make(Deps, len(names))

			for _, name := range names {
				v, err := rc.Resolve(ctx, imports[name].Token())
				if err != nil {
					return nil, err
				}

				deps[name] = v
			}

			return build(ctx, rc, deps)
		}), nil
	}

	return &Def[T]{
		token:   tok,
		creator: creator,
		imports: declared,
	}
}
