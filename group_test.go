package loom

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stringDef(label, value string) *Def[string] {
	return NewDef(NewToken[string](label), func(*ResolveContext) (string, error) {
		return value, nil
	})
}

func TestGroup_ApplyInDeclarationOrder(t *testing.T) {
	var applied []string

	container := New()
	NewGroup(stringDef("a", "1"), stringDef("b", "2"), stringDef("c", "3")).Apply(container)

	for _, tok := range container.Bindings() {
		applied = append(applied, tok.Label())
	}

	assert.Equal(t, []string{"a", "b", "c"}, applied)
}

func TestGroup_LaterMemberMayImportEarlier(t *testing.T) {
	logTok := NewToken[*testLogger]("logger")
	logDef := NewDef(logTok, func(*ResolveContext) (*testLogger, error) {
		return &testLogger{name: "base"}, nil
	})

	svcTok := NewToken[*testService]("service")
	svcDef := Provide(svcTok, Imports{"logger": logDef},
		func(ctx context.Context, rc *ResolveContext, deps Deps) (*testService, error) {
			return &testService{logger: Dep[*testLogger](deps, "logger")}, nil
		},
	)

	c := New()
	NewGroup(logDef, svcDef).Apply(c)

	svc, err := Resolve(context.Background(), c, svcTok)
	require.NoError(t, err)
	assert.Equal(t, "base", svc.logger.name)
}

func TestGroup_Instances_ResultsInMemberOrder(t *testing.T) {
	a := stringDef("a", "va")
	b := stringDef("b", "vb")
	d := stringDef("c", "vc")

	c := New()
	group := NewGroup(a, b, d)
	group.Apply(c)

	values, err := group.Instances(context.Background(), c)
	require.NoError(t, err)
	assert.Equal(t, []any{"va", "vb", "vc"}, values)
}

func TestGroup_Instances_ConcurrentFanOut(t *testing.T) {
	// Each member parks in its creator until every member has started,
	// proving the fan-out issues all resolutions without awaiting each
	// other sequentially.
	const members = 4

	var started sync.WaitGroup
	started.Add(members)

	defs := make([]Definition, members)
	for i := 0; i < members; i++ {
		tok := NewToken[int]("member")
		n := i
		defs[i] = NewAsyncDef(tok, func(ctx context.Context, rc *ResolveContext) (int, error) {
			started.Done()
			started.Wait()

			return n, nil
		})
	}

	c := New()
	group := NewGroup(defs...)
	group.Apply(c)

	values, err := group.Instances(context.Background(), c)
	require.NoError(t, err)
	assert.Equal(t, []any{0, 1, 2, 3}, values)
}

func TestGroup_Instances_CombinesFailures(t *testing.T) {
	bound := stringDef("bound", "v")
	ghost := NewDef(NewToken[string]("ghost"), func(*ResolveContext) (string, error) {
		return "", nil
	})

	c := New()
	bound.Apply(c)
	// ghost deliberately not applied.

	group := NewGroup(bound, ghost)

	_, err := group.Instances(context.Background(), c)
	assert.ErrorIs(t, err, ErrBindingNotFound)
}

func TestGroup_InstancesSync_FailsOnSuspendingMember(t *testing.T) {
	sync1 := stringDef("sync", "v")
	async := NewAsyncDef(NewToken[string]("async"), func(ctx context.Context, rc *ResolveContext) (string, error) {
		return "v", nil
	})

	c := New()
	group := NewGroup(sync1, async)
	group.Apply(c)

	_, err := group.InstancesSync(c)
	assert.ErrorIs(t, err, ErrAsyncOnlyBinding)

	values, err := group.Instances(context.Background(), c)
	require.NoError(t, err)
	assert.Len(t, values, 2)
}

func TestGroup_With_OverridesByToken(t *testing.T) {
	tok := NewToken[string]("store")
	real := NewDef(tok, func(*ResolveContext) (string, error) {
		return "real-store", nil
	})
	other := stringDef("other", "untouched")

	fake := NewDef(tok, func(*ResolveContext) (string, error) {
		return "fake-store", nil
	})

	base := NewGroup(real, other)
	testGroup := base.With(fake)

	c := New()
	testGroup.Apply(c)

	got, err := ResolveSync(c, tok)
	require.NoError(t, err)
	assert.Equal(t, "fake-store", got, "the later member sharing the token wins")

	require.Len(t, base.Defs(), 2, "With returns a new group")
	assert.Len(t, testGroup.Defs(), 3)
}
