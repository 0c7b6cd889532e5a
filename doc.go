// Package loom is a token-keyed dependency resolution engine: the runtime
// core beneath a dependency-injection library.
//
// Values are described by immutable wire definitions — a creator, a scope,
// and optional imports — registered under opaque typed tokens. The container
// builds and caches instances on demand, detects cycles per resolution
// chain, and offers both a blocking and a suspending resolution path.
//
// # Quick Start
//
//	var LoggerToken = loom.NewToken[*Logger]("logger")
//	var LoggerDef = loom.NewDef(LoggerToken, func(*loom.ResolveContext) (*Logger, error) {
//	    return NewLogger(), nil
//	})
//
//	var UserSvcToken = loom.NewToken[*UserService]("user-service")
//	var UserSvcDef = loom.Provide(UserSvcToken,
//	    loom.Imports{"logger": LoggerDef},
//	    func(ctx context.Context, rc *loom.ResolveContext, deps loom.Deps) (*UserService, error) {
//	        return NewUserService(loom.Dep[*Logger](deps, "logger")), nil
//	    },
//	)
//
//	c := loom.New()
//	UserSvcDef.Apply(c)
//
//	svc, err := loom.Resolve(ctx, c, UserSvcToken)
//
// # Scopes
//
// [Singleton] (default) — the creator runs at most once per active binding
// and the value is cached on the container.
//
// [Transient] — a fresh value on every resolution.
//
//	def := loom.NewDef(tok, create).WithScope(loom.Transient)
//
// # Blocking and suspending resolution
//
// [Resolver.ResolveSync] never awaits: a definition whose creator suspends
// (NewAsyncDef, Provide, or any creator returning a [Deferred]) fails with
// [ErrAsyncOnlyBinding]. [Resolver.Resolve] awaits pending creators with the
// caller's context. Both detect cycles with a monitor opened per top-level
// call, so concurrent resolutions of the same token are never mistaken for
// a cycle.
package loom
