package loom

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAs_PassesErrorsThrough(t *testing.T) {
	_, err := As[string](nil, ErrBindingNotFound)
	assert.ErrorIs(t, err, ErrBindingNotFound)
}

func TestAs_TypeMismatch(t *testing.T) {
	_, err := As[int]("not an int", nil)
	assert.ErrorIs(t, err, ErrTypeMismatch)
}

func TestResolve_TypedHelpers(t *testing.T) {
	tok := NewToken[*testLogger]("logger")
	c := New()
	NewDef(tok, func(*ResolveContext) (*testLogger, error) {
		return &testLogger{name: "typed"}, nil
	}).Apply(c)

	ctx := context.Background()

	fromSuspending, err := Resolve(ctx, c, tok)
	require.NoError(t, err)
	assert.Equal(t, "typed", fromSuspending.name)

	fromBlocking, err := ResolveSync(c, tok)
	require.NoError(t, err)
	assert.Same(t, fromSuspending, fromBlocking)
}

func TestResolve_TypedHelperMismatch(t *testing.T) {
	// A decorator may substitute a value of the wrong type through the
	// untyped creator surface; the typed helper catches it at resolve time.
	tok := NewToken[int]("number")
	def := NewDef(tok, func(*ResolveContext) (int, error) {
		return 7, nil
	}).WithCreator(func(rc *ResolveContext, next Creator) (any, error) {
		return "not a number", nil
	})

	c := New()
	def.Apply(c)

	_, err := ResolveSync(c, tok)
	assert.ErrorIs(t, err, ErrTypeMismatch)
}

func TestMust_ReturnsOrPanics(t *testing.T) {
	tok := NewToken[string]("value")
	c := New()
	ValueDef(tok, "v").Apply(c)

	ctx := context.Background()

	assert.Equal(t, "v", Must(ctx, c, tok))
	assert.Equal(t, "v", MustSync(c, tok))

	ghost := NewToken[string]("ghost")
	assert.Panics(t, func() { Must(ctx, c, ghost) })
	assert.Panics(t, func() { MustSync(c, ghost) })
}

func TestBindValue(t *testing.T) {
	tok := NewToken[int]("answer")
	c := New()

	BindValue(c, tok, 42)

	got, err := ResolveSync(c, tok)
	require.NoError(t, err)
	assert.Equal(t, 42, got)

	again, err := ResolveSync(c, tok)
	require.NoError(t, err)
	assert.Equal(t, got, again)
}
