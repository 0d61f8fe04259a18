package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestInMemoryStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewInMemory(0)

	var got payload
	found, err := store.Get(ctx, "s1", KeySubmission, &got)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, store.Set(ctx, "s1", KeySubmission, payload{Name: "lion", Count: 2}))
	found, err = store.Get(ctx, "s1", KeySubmission, &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, payload{Name: "lion", Count: 2}, got)

	found, err = store.Get(ctx, "s2", KeySubmission, &got)
	require.NoError(t, err)
	assert.False(t, found, "sessions are isolated")
}

func TestInMemoryStore_ValuesAreCopied(t *testing.T) {
	ctx := context.Background()
	store := NewInMemory(0)

	in := &payload{Name: "lion"}
	require.NoError(t, store.Set(ctx, "s1", KeySubmission, in))
	in.Name = "tiger"

	var got payload
	_, err := store.Get(ctx, "s1", KeySubmission, &got)
	require.NoError(t, err)
	assert.Equal(t, "lion", got.Name)
}

func TestInMemoryStore_DeleteAndReset(t *testing.T) {
	ctx := context.Background()
	store := NewInMemory(0)
	require.NoError(t, store.Set(ctx, "s1", KeySubmission, payload{Name: "a"}))
	require.NoError(t, store.Set(ctx, "s1", KeyChangeRoute, payload{Name: "b"}))

	require.NoError(t, store.Delete(ctx, "s1", KeyChangeRoute))
	var got payload
	found, err := store.Get(ctx, "s1", KeyChangeRoute, &got)
	require.NoError(t, err)
	assert.False(t, found)
	found, err = store.Get(ctx, "s1", KeySubmission, &got)
	require.NoError(t, err)
	assert.True(t, found)

	require.NoError(t, store.Reset(ctx, "s1"))
	found, err = store.Get(ctx, "s1", KeySubmission, &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestInMemoryStore_SlidingExpiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	store := NewInMemory(time.Hour, WithMemoryClock(func() time.Time { return now }))
	require.NoError(t, store.Set(ctx, "s1", KeySubmission, payload{Name: "a"}))

	var got payload
	now = now.Add(50 * time.Minute)
	found, err := store.Get(ctx, "s1", KeySubmission, &got)
	require.NoError(t, err)
	assert.True(t, found, "read within ttl")

	now = now.Add(50 * time.Minute)
	found, err = store.Get(ctx, "s1", KeySubmission, &got)
	require.NoError(t, err)
	assert.True(t, found, "previous read extended the session")

	now = now.Add(61 * time.Minute)
	found, err = store.Get(ctx, "s1", KeySubmission, &got)
	require.NoError(t, err)
	assert.False(t, found, "idle past ttl")
}
