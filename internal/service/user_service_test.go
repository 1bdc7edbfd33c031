package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/moments/pkg/errcode"
)

func TestGetByID(t *testing.T) {
	f := newFixture(t)
	f.user(t, "alice")
	svc := f.userService()

	u, err := svc.GetByID(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", u.Username)

	for _, id := range []string{"", "ghost"} {
		u, err := svc.GetByID(context.Background(), id)
		assert.NoError(t, err)
		assert.Nil(t, u)
	}
}

func TestGetProfile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	for _, id := range []string{"alice", "bob", "carol"} {
		f.user(t, id)
	}
	f.seedPosts(t, "alice", 3, base)
	f.follow(t, "bob", "alice")
	f.follow(t, "carol", "alice")
	f.follow(t, "alice", "bob")
	svc := f.userService()

	p, err := svc.GetProfile(ctx, "alice", "bob")
	require.NoError(t, err)
	assert.Equal(t, int64(3), p.TotalPosts)
	assert.Equal(t, int64(2), p.TotalFollowers)
	assert.Equal(t, int64(1), p.TotalFollowings)
	assert.True(t, p.Followed)
	assert.Equal(t, "", p.ProfileImageURL)
	assert.Nil(t, p.Bio)

	anon, err := svc.GetProfile(ctx, "alice", "")
	require.NoError(t, err)
	assert.False(t, anon.Followed)

	_, err = svc.GetProfile(ctx, "ghost", "")
	assert.True(t, errcode.Is(err, errcode.NotFound))
}
