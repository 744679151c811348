package challenge

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/focusplay/internal/store"
)

type seqSource struct {
	next []int
}

func (s *seqSource) Intn(n int) int {
	v := s.next[0]
	s.next = s.next[1:]
	return v % n
}

func (s *seqSource) Float64() float64 { return 0 }

func fixedNow() time.Time {
	return time.Date(2026, 5, 4, 12, 0, 0, 0, time.UTC)
}

func TestCurrentSelectsOnceAndReuses(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemory()
	src := &seqSource{next: []int{2}}
	sel := NewSelector(kv, src, fixedNow)

	first, err := sel.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, Templates[2].Title, first.Title)

	// A second selector over the same store must not draw again.
	again, err := NewSelector(kv, &seqSource{}, fixedNow).Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, again)
}

func TestCompletePersists(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemory()
	sel := NewSelector(kv, &seqSource{next: []int{0}}, fixedNow)

	done, err := sel.Complete(ctx)
	require.NoError(t, err)
	assert.True(t, done.Completed)
	require.NotNil(t, done.CompletedAt)
	assert.True(t, done.CompletedAt.Equal(fixedNow()))

	reloaded, err := NewSelector(kv, &seqSource{}, fixedNow).Current(ctx)
	require.NoError(t, err)
	assert.True(t, reloaded.Completed)
	assert.Equal(t, Templates[0].Title, reloaded.Title)
}

func TestRerollReplaces(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemory()
	sel := NewSelector(kv, &seqSource{next: []int{0, 3}}, fixedNow)
	_, err := sel.Complete(ctx)
	require.NoError(t, err)

	next, err := sel.Reroll(ctx)
	require.NoError(t, err)
	assert.Equal(t, Templates[3].Title, next.Title)
	assert.False(t, next.Completed)
}
