package loom

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewToken_Label(t *testing.T) {
	tok := NewToken[string]("greeting")
	assert.Equal(t, "greeting", tok.Label())
}

func TestTokens_IndependentCreationNeverEqual(t *testing.T) {
	a := NewToken[string]("same-label")
	b := NewToken[string]("same-label")

	// Token equality is handle identity, so compare with ==; testify's
	// NotEqual uses reflect.DeepEqual, which would follow the handle
	// pointers and compare labels instead.
	assert.True(t, a != b)

	// As untyped map keys they stay distinct too.
	seen := map[AnyToken]int{a: 1, b: 2}
	assert.Len(t, seen, 2)
}

func TestToken_EqualToItself(t *testing.T) {
	a := NewToken[int]("counter")
	b := a

	assert.Equal(t, a, b)

	seen := map[AnyToken]int{a: 1}
	seen[b] = 2
	assert.Len(t, seen, 1)
}

func TestToken_SameRuntimeRepresentationDifferentTokens(t *testing.T) {
	// Two definitions may both build a string; their tokens keep them apart.
	name := NewToken[string]("name")
	greeting := NewToken[string]("greeting")

	c := New()
	BindValue(c, name, "ada")
	BindValue(c, greeting, "hello")

	gotName, err := ResolveSync(c, name)
	assert.NoError(t, err)
	assert.Equal(t, "ada", gotName)

	gotGreeting, err := ResolveSync(c, greeting)
	assert.NoError(t, err)
	assert.Equal(t, "hello", gotGreeting)
}
