package loom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMonitor_EnterExit(t *testing.T) {
	m := NewMonitor()
	a := NewToken[string]("a")
	b := NewToken[string]("b")

	assert.True(t, m.Enter(a))
	assert.True(t, m.Enter(b))
	assert.Equal(t, 2, m.Depth())

	assert.False(t, m.Enter(a), "re-entering an in-flight token is a cycle")

	m.Exit(b)
	assert.Equal(t, 1, m.Depth())

	m.Exit(a)
	assert.Zero(t, m.Depth())

	assert.True(t, m.Enter(a), "a finished token may be entered again")
}

func TestMonitor_PathIsOrderedCopy(t *testing.T) {
	m := NewMonitor()
	a := NewToken[string]("a")
	b := NewToken[string]("b")

	m.Enter(a)
	m.Enter(b)

	path := m.Path()
	require.Len(t, path, 2)
	assert.Equal(t, "a", path[0].Label())
	assert.Equal(t, "b", path[1].Label())

	path[0] = path[1]
	assert.Equal(t, "a", m.Path()[0].Label(), "Path returns a copy")
}

func TestMonitor_RequestIDsAreUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := NewMonitor().RequestID()
		require.NotEmpty(t, id)
		require.False(t, seen[id])
		seen[id] = true
	}
}

func TestMonitor_IndependentMonitorsDoNotShareFlight(t *testing.T) {
	a := NewToken[string]("a")

	m1 := NewMonitor()
	m2 := NewMonitor()

	assert.True(t, m1.Enter(a))
	assert.True(t, m2.Enter(a), "monitors are per-chain, never shared")
}
