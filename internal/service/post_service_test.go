package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/moments/internal/media"
	"github.com/d60-Lab/moments/pkg/errcode"
)

func TestCreatePostValidation(t *testing.T) {
	f := newFixture(t)
	f.user(t, "alice")
	svc := f.postService()
	ctx := context.Background()

	_, err := svc.Create(ctx, "", CreatePostInput{ImgURL: "https://x/y.jpg"})
	assert.True(t, errcode.Is(err, errcode.Unauthenticated))

	_, err = svc.Create(ctx, "alice", CreatePostInput{})
	require.True(t, errcode.Is(err, errcode.Validation))
	var appErr *errcode.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "Image URL is required", appErr.Message)

	long := strings.Repeat("a", 2201)
	_, err = svc.Create(ctx, "alice", CreatePostInput{Content: &long, ImgURL: "https://x/y.jpg"})
	assert.True(t, errcode.Is(err, errcode.Validation))

	assert.Empty(t, f.uploader.sources, "nothing uploaded for invalid input")
}

func TestCreatePostUploadFailures(t *testing.T) {
	f := newFixture(t)
	f.user(t, "alice")
	svc := f.postService()
	ctx := context.Background()

	f.uploader.err = errors.New("bucket unavailable")
	_, err := svc.Create(ctx, "alice", CreatePostInput{ImgURL: "https://x/y.jpg"})
	assert.True(t, errcode.Is(err, errcode.Upstream))

	f.uploader.err = media.ErrInvalidImage
	_, err = svc.Create(ctx, "alice", CreatePostInput{ImgURL: "data:text/plain,hello"})
	assert.True(t, errcode.Is(err, errcode.Validation))

	n, err := f.posts.CountByAuthor(ctx, "alice")
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestCreatePost(t *testing.T) {
	f := newFixture(t)
	f.user(t, "alice")
	content := "sunset"

	post, err := f.postService().Create(context.Background(), "alice", CreatePostInput{Content: &content, ImgURL: "https://cdn/x.jpg"})
	require.NoError(t, err)
	assert.NotEmpty(t, post.ID)
	assert.Equal(t, "alice", post.Author.Username)
	assert.Equal(t, []string{"https://cdn/x.jpg"}, f.uploader.sources)

	stored, err := f.posts.GetByID(context.Background(), post.ID)
	require.NoError(t, err)
	assert.Equal(t, "sunset", *stored.Content)
}

func TestDeletePostOwnership(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.user(t, "alice")
	f.user(t, "bob")
	ids := f.seedPosts(t, "alice", 1, base)
	svc := f.postService()

	_, err := svc.Delete(ctx, "", ids[0])
	assert.True(t, errcode.Is(err, errcode.Unauthenticated))

	_, err = svc.Delete(ctx, "bob", ids[0])
	assert.True(t, errcode.Is(err, errcode.Forbidden))

	_, err = svc.Delete(ctx, "alice", "missing")
	assert.True(t, errcode.Is(err, errcode.NotFound))

	ok, err := svc.Delete(ctx, "alice", ids[0])
	require.NoError(t, err)
	assert.True(t, ok)

	detail, err := f.feedService().GetPostByID(ctx, ids[0], "alice")
	require.NoError(t, err)
	assert.Nil(t, detail)
}

func TestTogglesOnMissingPost(t *testing.T) {
	f := newFixture(t)
	f.user(t, "alice")
	svc := f.postService()
	ctx := context.Background()

	_, err := svc.ToggleLike(ctx, "alice", "missing")
	assert.True(t, errcode.Is(err, errcode.NotFound))

	_, err = svc.ToggleBookmark(ctx, "", "missing")
	assert.True(t, errcode.Is(err, errcode.Unauthenticated), "authentication is checked first")
}
