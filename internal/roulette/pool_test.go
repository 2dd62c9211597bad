package roulette_test

import (
	"testing"
	"time"

	"datingroulette/backend/internal/roulette"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPool_AddRejectsDuplicateConnection(t *testing.T) {
	p := roulette.NewPool()
	require.NoError(t, p.Add(entry("c1", "u1", roulette.GenderMale, roulette.GenderAll)))

	err := p.Add(entry("c1", "u1", roulette.GenderMale, roulette.GenderFemale))

	assert.ErrorIs(t, err, roulette.ErrDuplicateConnection)
	assert.Equal(t, 1, p.Len())
	got, _ := p.Get("c1")
	assert.Equal(t, roulette.GenderAll, got.WantedGender, "original entry must be kept")
}

func TestPool_RemoveIsIdempotent(t *testing.T) {
	p := roulette.NewPool()
	require.NoError(t, p.Add(entry("c1", "u1", roulette.GenderMale, roulette.GenderAll)))

	_, removed := p.Remove("c1")
	assert.True(t, removed)
	_, removed = p.Remove("c1")
	assert.False(t, removed)
	_, removed = p.Remove("never-added")
	assert.False(t, removed)
	assert.Zero(t, p.Len())
}

func TestPool_FindCompatible_EarliestWins(t *testing.T) {
	p := roulette.NewPool()
	for _, e := range []roulette.WaitingEntry{
		entry("x", "ux", roulette.GenderFemale, roulette.GenderAll),
		entry("y", "uy", roulette.GenderFemale, roulette.GenderAll),
		entry("z", "uz", roulette.GenderFemale, roulette.GenderAll),
	} {
		require.NoError(t, p.Add(e))
	}
	w := entry("w", "uw", roulette.GenderMale, roulette.GenderFemale)

	for i := 0; i < 3; i++ {
		got, ok := p.FindCompatible(w)
		require.True(t, ok)
		assert.Equal(t, "x", got.ConnectionID)
	}
}

func TestPool_FindCompatible_SkipsIncompatibleAndSelf(t *testing.T) {
	p := roulette.NewPool()
	w := entry("w", "uw", roulette.GenderMale, roulette.GenderFemale)
	require.NoError(t, p.Add(w))
	require.NoError(t, p.Add(entry("m", "um", roulette.GenderMale, roulette.GenderMale)))
	require.NoError(t, p.Add(entry("f", "uf", roulette.GenderFemale, roulette.GenderMale)))

	got, ok := p.FindCompatible(w)

	require.True(t, ok)
	assert.Equal(t, "f", got.ConnectionID)
}

func TestPool_FindCompatible_NeverPairsAUserWithThemselves(t *testing.T) {
	p := roulette.NewPool()
	require.NoError(t, p.Add(entry("tab1", "u1", roulette.GenderMale, roulette.GenderAll)))

	_, ok := p.FindCompatible(entry("tab2", "u1", roulette.GenderMale, roulette.GenderAll))

	assert.False(t, ok)
}

func TestPool_RemoveUserKeepsOrderOfOthers(t *testing.T) {
	p := roulette.NewPool()
	require.NoError(t, p.Add(entry("a", "u1", roulette.GenderMale, roulette.GenderAll)))
	require.NoError(t, p.Add(entry("b", "u2", roulette.GenderMale, roulette.GenderAll)))
	require.NoError(t, p.Add(entry("c", "u1", roulette.GenderMale, roulette.GenderAll)))
	require.NoError(t, p.Add(entry("d", "u3", roulette.GenderMale, roulette.GenderAll)))

	removed := p.RemoveUser("u1")

	assert.Len(t, removed, 2)
	var order []string
	for _, e := range p.Entries() {
		order = append(order, e.ConnectionID)
	}
	assert.Equal(t, []string{"b", "d"}, order)
	_, ok := p.Get("a")
	assert.False(t, ok)
}

func TestPool_RequeueKeepsJoinOrder(t *testing.T) {
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	at := func(conn string, offset time.Duration) roulette.WaitingEntry {
		e := entry(conn, "u"+conn, roulette.GenderMale, roulette.GenderAll)
		e.JoinedAt = base.Add(offset)
		return e
	}
	p := roulette.NewPool()
	require.NoError(t, p.Add(at("b", 2*time.Second)))
	require.NoError(t, p.Add(at("d", 4*time.Second)))

	require.NoError(t, p.Requeue(at("a", time.Second)))
	require.NoError(t, p.Requeue(at("c", 3*time.Second)))
	require.NoError(t, p.Requeue(at("e", 5*time.Second)))
	assert.ErrorIs(t, p.Requeue(at("c", 0)), roulette.ErrDuplicateConnection)

	var order []string
	for _, e := range p.Entries() {
		order = append(order, e.ConnectionID)
	}
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, order)
}
