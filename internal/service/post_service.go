package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/d60-Lab/moments/internal/media"
	"github.com/d60-Lab/moments/internal/model"
	"github.com/d60-Lab/moments/internal/repository"
	"github.com/d60-Lab/moments/pkg/errcode"
)

// CreatePostInput imgURL 可以是 http(s) 地址或 data URI
type CreatePostInput struct {
	Content *string `json:"content" validate:"omitempty,max=2200"`
	ImgURL  string  `json:"imgURL" validate:"required"`
}

// PostService 帖子写操作
type PostService interface {
	Create(ctx context.Context, actorID string, in CreatePostInput) (*model.Post, error)
	Delete(ctx context.Context, actorID, postID string) (bool, error)
	ToggleLike(ctx context.Context, actorID, postID string) (bool, error)
	ToggleBookmark(ctx context.Context, actorID, postID string) (bool, error)
}

type postService struct {
	posts     repository.PostRepository
	users     repository.UserRepository
	uploader  media.Uploader
	likes     *Toggler
	bookmarks *Toggler
	now       func() time.Time
}

func NewPostService(
	posts repository.PostRepository,
	users repository.UserRepository,
	likes, bookmarks repository.RelationRepository,
	uploader media.Uploader,
) PostService {
	return &postService{
		posts:     posts,
		users:     users,
		uploader:  uploader,
		likes:     NewToggler("like", likes),
		bookmarks: NewToggler("bookmark", bookmarks),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (s *postService) Create(ctx context.Context, actorID string, in CreatePostInput) (*model.Post, error) {
	if actorID == "" {
		return nil, errcode.ErrUnauthenticated
	}
	if err := validate.Struct(in); err != nil {
		return nil, validationError(err)
	}

	// 先上传，失败时不落库
	hosted, err := s.uploader.Upload(ctx, in.ImgURL)
	if errors.Is(err, media.ErrInvalidImage) {
		return nil, errcode.Wrap(errcode.Validation, "Invalid image", err)
	}
	if err != nil {
		return nil, errcode.Wrap(errcode.Upstream, "Failed to upload image. Please try again.", err)
	}

	now := s.now()
	post := &model.Post{
		ID:        uuid.NewString(),
		AuthorID:  actorID,
		Content:   in.Content,
		ImgURL:    hosted,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.posts.Create(ctx, post); err != nil {
		return nil, storeErr("Failed to create post. Please try again.", err)
	}
	if author, err := s.users.GetByID(ctx, actorID); err == nil {
		post.Author = *author
	}
	return post, nil
}

func (s *postService) Delete(ctx context.Context, actorID, postID string) (bool, error) {
	if actorID == "" {
		return false, errcode.ErrUnauthenticated
	}
	post, err := s.posts.GetByID(ctx, postID)
	if errors.Is(err, repository.ErrNotFound) {
		return false, errcode.New(errcode.NotFound, "Post not found")
	}
	if err != nil {
		return false, storeErr("Failed to delete post", err)
	}
	if post.AuthorID != actorID {
		return false, errcode.New(errcode.Forbidden, "You can only delete your own posts")
	}

	err = s.posts.Delete(ctx, postID)
	if errors.Is(err, repository.ErrNotFound) {
		// 并发删除
		return false, errcode.New(errcode.NotFound, "Post not found")
	}
	if err != nil {
		return false, storeErr("Failed to delete post", err)
	}
	return true, nil
}

func (s *postService) ToggleLike(ctx context.Context, actorID, postID string) (bool, error) {
	if err := s.checkPost(ctx, actorID, postID); err != nil {
		return false, err
	}
	return s.likes.Toggle(ctx, actorID, postID)
}

func (s *postService) ToggleBookmark(ctx context.Context, actorID, postID string) (bool, error) {
	if err := s.checkPost(ctx, actorID, postID); err != nil {
		return false, err
	}
	return s.bookmarks.Toggle(ctx, actorID, postID)
}

func (s *postService) checkPost(ctx context.Context, actorID, postID string) error {
	if actorID == "" {
		return errcode.ErrUnauthenticated
	}
	ok, err := s.posts.Exists(ctx, postID)
	if err != nil {
		return storeErr("Failed to fetch post", err)
	}
	if !ok {
		return errcode.New(errcode.NotFound, "Post not found")
	}
	return nil
}
