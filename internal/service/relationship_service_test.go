package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/moments/pkg/errcode"
)

func TestToggleFollow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.user(t, "alice")
	f.user(t, "bob")
	svc := f.relationshipService()

	_, err := svc.ToggleFollow(ctx, "alice", "alice")
	assert.ErrorIs(t, err, ErrFollowSelf)
	assert.True(t, errcode.Is(err, errcode.Validation))

	_, err = svc.ToggleFollow(ctx, "alice", "ghost")
	assert.True(t, errcode.Is(err, errcode.NotFound))

	_, err = svc.ToggleFollow(ctx, "", "bob")
	assert.True(t, errcode.Is(err, errcode.Unauthenticated))

	on, err := svc.ToggleFollow(ctx, "alice", "bob")
	require.NoError(t, err)
	assert.True(t, on)

	on, err = svc.ToggleFollow(ctx, "alice", "bob")
	require.NoError(t, err)
	assert.False(t, on)
}

func TestListFollowingAndFollowers(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	for _, id := range []string{"me", "a", "b", "c"} {
		f.user(t, id)
	}
	f.follow(t, "me", "a")
	f.follow(t, "me", "b")
	f.follow(t, "me", "c")
	f.follow(t, "a", "me")
	svc := f.relationshipService()

	following, err := svc.ListFollowing(ctx, "me", 1, 2)
	require.NoError(t, err)
	assert.Len(t, following, 2)

	rest, err := svc.ListFollowing(ctx, "me", 2, 2)
	require.NoError(t, err)
	require.Len(t, rest, 1)

	all := append(following, rest...)
	var names []string
	for _, s := range all {
		names = append(names, s.Username)
	}
	assert.ElementsMatch(t, []string{"a", "b", "c"}, names)

	followers, err := svc.ListFollowers(ctx, "me", 0, 0)
	require.NoError(t, err)
	require.Len(t, followers, 1)
	assert.Equal(t, "User a", followers[0].FullName)

	_, err = svc.ListFollowers(ctx, "ghost", 1, 10)
	assert.True(t, errcode.Is(err, errcode.NotFound))
}
