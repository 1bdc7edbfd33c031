package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/d60-Lab/moments/internal/model"
	"github.com/d60-Lab/moments/pkg/database"
)

func seedUser(t *testing.T, db *gorm.DB, id string) {
	t.Helper()
	u := model.User{ID: id, Username: id, FullName: id, Email: id + "@example.com"}
	require.NoError(t, db.Create(&u).Error)
}

func seedPosts(t *testing.T, db *gorm.DB, authorID string, n int, base time.Time) []string {
	t.Helper()
	ids := make([]string, n)
	for i := 0; i < n; i++ {
		p := model.Post{
			ID:        fmt.Sprintf("%s-p%02d", authorID, i),
			AuthorID:  authorID,
			ImgURL:    "https://img.example.com/x.jpg",
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, db.Create(&p).Error)
		ids[i] = p.ID
	}
	return ids
}

func TestListFeedOnlyFollowedAuthors(t *testing.T) {
	db := database.NewTestDB(t)
	posts := NewPostRepository(db)
	follows := NewFollowRepository(db)
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	for _, id := range []string{"me", "alice", "bob"} {
		seedUser(t, db, id)
	}
	seedPosts(t, db, "alice", 2, base)
	seedPosts(t, db, "bob", 2, base)
	require.NoError(t, follows.Create(ctx, "me", "alice"))

	got, err := posts.ListFeed(ctx, "me", "", 10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "alice-p01", got[0].ID)
	assert.Equal(t, "alice-p00", got[1].ID)
	assert.Equal(t, "alice", got[0].Author.Username)
}

func TestListFeedSeeksPastCursorWithTies(t *testing.T) {
	db := database.NewTestDB(t)
	posts := NewPostRepository(db)
	follows := NewFollowRepository(db)
	ctx := context.Background()
	same := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	seedUser(t, db, "me")
	seedUser(t, db, "alice")
	require.NoError(t, follows.Create(ctx, "me", "alice"))
	for _, id := range []string{"a", "b", "c", "d"} {
		require.NoError(t, db.Create(&model.Post{ID: id, AuthorID: "alice", ImgURL: "x", CreatedAt: same}).Error)
	}

	first, err := posts.ListFeed(ctx, "me", "", 2)
	require.NoError(t, err)
	require.Len(t, first, 2)
	assert.Equal(t, "d", first[0].ID)
	assert.Equal(t, "c", first[1].ID)

	second, err := posts.ListFeed(ctx, "me", "c", 2)
	require.NoError(t, err)
	require.Len(t, second, 2)
	assert.Equal(t, "b", second[0].ID)
	assert.Equal(t, "a", second[1].ID)
}

func TestListFeedUnknownCursorRestarts(t *testing.T) {
	db := database.NewTestDB(t)
	posts := NewPostRepository(db)
	follows := NewFollowRepository(db)
	ctx := context.Background()

	seedUser(t, db, "me")
	seedUser(t, db, "alice")
	seedUser(t, db, "bob")
	require.NoError(t, follows.Create(ctx, "me", "alice"))
	seedPosts(t, db, "alice", 3, time.Now().UTC())
	bobs := seedPosts(t, db, "bob", 1, time.Now().UTC())

	for _, cursor := range []string{"missing", bobs[0]} {
		got, err := posts.ListFeed(ctx, "me", cursor, 10)
		require.NoError(t, err)
		assert.Len(t, got, 3, "cursor %q", cursor)
	}
}

func TestDeletePostCascades(t *testing.T) {
	db := database.NewTestDB(t)
	posts := NewPostRepository(db)
	likes := NewLikeRepository(db)
	bookmarks := NewBookmarkRepository(db)
	comments := NewCommentRepository(db)
	ctx := context.Background()

	seedUser(t, db, "alice")
	ids := seedPosts(t, db, "alice", 1, time.Now().UTC())
	require.NoError(t, likes.Create(ctx, "alice", ids[0]))
	require.NoError(t, bookmarks.Create(ctx, "alice", ids[0]))
	require.NoError(t, comments.Create(ctx, &model.Comment{ID: "c1", PostID: ids[0], UserID: "alice", Content: "hi"}))

	require.NoError(t, posts.Delete(ctx, ids[0]))

	_, err := posts.GetByID(ctx, ids[0])
	assert.ErrorIs(t, err, ErrNotFound)
	n, err := likes.CountByTarget(ctx, ids[0])
	require.NoError(t, err)
	assert.Zero(t, n)
	n, err = comments.CountByPost(ctx, ids[0])
	require.NoError(t, err)
	assert.Zero(t, n)

	assert.ErrorIs(t, posts.Delete(ctx, ids[0]), ErrNotFound)
}

func TestListByAuthorNewestFirst(t *testing.T) {
	db := database.NewTestDB(t)
	posts := NewPostRepository(db)
	ctx := context.Background()

	seedUser(t, db, "alice")
	ids := seedPosts(t, db, "alice", 3, time.Now().UTC())

	got, err := posts.ListByAuthor(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, ids[2], got[0].ID)
	assert.Equal(t, ids[0], got[2].ID)

	n, err := posts.CountByAuthor(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}
