package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/d60-Lab/moments/internal/model"
	"github.com/d60-Lab/moments/internal/repository"
	"github.com/d60-Lab/moments/internal/usercache"
	"github.com/d60-Lab/moments/pkg/database"
)

type fixture struct {
	db        *gorm.DB
	users     repository.UserRepository
	posts     repository.PostRepository
	comments  repository.CommentRepository
	likes     repository.RelationRepository
	bookmarks repository.RelationRepository
	follows   repository.RelationRepository
	uploader  *fakeUploader
}

func newFixture(t *testing.T) *fixture {
	db := database.NewTestDB(t)
	return &fixture{
		db:        db,
		users:     repository.NewUserRepository(db),
		posts:     repository.NewPostRepository(db),
		comments:  repository.NewCommentRepository(db),
		likes:     repository.NewLikeRepository(db),
		bookmarks: repository.NewBookmarkRepository(db),
		follows:   repository.NewFollowRepository(db),
		uploader:  &fakeUploader{},
	}
}

func (f *fixture) feedService() FeedService {
	return NewFeedService(f.posts, f.comments, f.users, f.likes, f.bookmarks)
}

func (f *fixture) postService() PostService {
	return NewPostService(f.posts, f.users, f.likes, f.bookmarks, f.uploader)
}

func (f *fixture) commentService() CommentService {
	return NewCommentService(f.comments, f.posts)
}

func (f *fixture) relationshipService() RelationshipService {
	return NewRelationshipService(f.follows, f.users, usercache.New(nil, time.Minute))
}

func (f *fixture) userService() UserService {
	return NewUserService(f.users, f.posts, f.follows)
}

func (f *fixture) user(t *testing.T, id string) *model.User {
	t.Helper()
	u := &model.User{ID: id, Username: id, FullName: "User " + id, Email: id + "@example.com"}
	require.NoError(t, f.users.Create(context.Background(), u))
	return u
}

func (f *fixture) follow(t *testing.T, followerID, followingID string) {
	t.Helper()
	require.NoError(t, f.follows.Create(context.Background(), followerID, followingID))
}

// seedPosts 创建 n 条帖子，第 i 条的时间为 base+i 分钟
func (f *fixture) seedPosts(t *testing.T, authorID string, n int, base time.Time) []string {
	t.Helper()
	ids := make([]string, n)
	for i := 0; i < n; i++ {
		p := &model.Post{
			ID:        fmt.Sprintf("%s-%02d", authorID, i),
			AuthorID:  authorID,
			ImgURL:    "https://img.example.com/p.jpg",
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, f.posts.Create(context.Background(), p))
		ids[i] = p.ID
	}
	return ids
}

type fakeUploader struct {
	err     error
	sources []string
}

func (u *fakeUploader) Upload(_ context.Context, source string) (string, error) {
	u.sources = append(u.sources, source)
	if u.err != nil {
		return "", u.err
	}
	return source, nil
}
