package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/moments/pkg/database"
)

func TestRelationDeleteReportsNotFound(t *testing.T) {
	db := database.NewTestDB(t)
	likes := NewLikeRepository(db)
	ctx := context.Background()

	err := likes.Delete(ctx, "u1", "p1")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, likes.Create(ctx, "u1", "p1"))
	assert.NoError(t, likes.Delete(ctx, "u1", "p1"))
	assert.ErrorIs(t, likes.Delete(ctx, "u1", "p1"), ErrNotFound)
}

func TestRelationCreateIsIdempotent(t *testing.T) {
	db := database.NewTestDB(t)
	bookmarks := NewBookmarkRepository(db)
	ctx := context.Background()

	require.NoError(t, bookmarks.Create(ctx, "u1", "p1"))
	require.NoError(t, bookmarks.Create(ctx, "u1", "p1"))

	n, err := bookmarks.CountByTarget(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestRelationCountsAndExistence(t *testing.T) {
	db := database.NewTestDB(t)
	likes := NewLikeRepository(db)
	ctx := context.Background()

	require.NoError(t, likes.Create(ctx, "u1", "p1"))
	require.NoError(t, likes.Create(ctx, "u2", "p1"))
	require.NoError(t, likes.Create(ctx, "u1", "p2"))

	counts, err := likes.CountByTargets(ctx, []string{"p1", "p2", "p3"})
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"p1": 2, "p2": 1}, counts)

	mine, err := likes.ExistingTargets(ctx, "u2", []string{"p1", "p2"})
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"p1": true}, mine)

	anon, err := likes.ExistingTargets(ctx, "", []string{"p1"})
	require.NoError(t, err)
	assert.Empty(t, anon)

	ok, err := likes.Exists(ctx, "u1", "p2")
	require.NoError(t, err)
	assert.True(t, ok)

	n, err := likes.CountByActor(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestFollowListTargets(t *testing.T) {
	db := database.NewTestDB(t)
	follows := NewFollowRepository(db)
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, follows.Create(ctx, "me", id))
	}
	require.NoError(t, follows.Create(ctx, "other", "me"))

	ids, err := follows.ListTargets(ctx, "me", 0, 10)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a", "b", "c"}, ids)

	followers, err := follows.CountByTarget(ctx, "me")
	require.NoError(t, err)
	assert.Equal(t, int64(1), followers)

	fans, err := follows.ListActors(ctx, "me", 0, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"other"}, fans)

	page, err := follows.ListTargets(ctx, "me", 2, 10)
	require.NoError(t, err)
	assert.Len(t, page, 1)
}
