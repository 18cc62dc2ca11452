package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/noah-isme/sis-schedule-console/pkg/errors"
)

type cachedBoard struct {
	Session string   `json:"session"`
	IDs     []string `json:"ids"`
}

func TestMemoryCacheRepositoryRoundTrip(t *testing.T) {
	repo := NewMemoryCacheRepository()
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, "console:board:a", cachedBoard{Session: "a", IDs: []string{"1"}}, time.Minute))

	var got cachedBoard
	require.NoError(t, repo.Get(ctx, "console:board:a", &got))
	assert.Equal(t, "a", got.Session)

	got.IDs[0] = "mutated"
	var again cachedBoard
	require.NoError(t, repo.Get(ctx, "console:board:a", &again))
	assert.Equal(t, "1", again.IDs[0])
}

func TestMemoryCacheRepositoryExpiry(t *testing.T) {
	repo := NewMemoryCacheRepository()
	now := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, "console:draft:x", cachedBoard{}, time.Minute))
	now = now.Add(2 * time.Minute)

	var got cachedBoard
	assert.ErrorIs(t, repo.Get(ctx, "console:draft:x", &got), appErrors.ErrCacheMiss)
}

func TestMemoryCacheRepositoryDeleteByPattern(t *testing.T) {
	repo := NewMemoryCacheRepository()
	ctx := context.Background()
	require.NoError(t, repo.Set(ctx, "console:draft:1", 1, 0))
	require.NoError(t, repo.Set(ctx, "console:draft:2", 2, 0))
	require.NoError(t, repo.Set(ctx, "console:board:a", 3, 0))

	require.NoError(t, repo.DeleteByPattern(ctx, "console:draft:*"))

	var v int
	assert.ErrorIs(t, repo.Get(ctx, "console:draft:1", &v), appErrors.ErrCacheMiss)
	require.NoError(t, repo.Get(ctx, "console:board:a", &v))
	assert.Equal(t, 3, v)
}
