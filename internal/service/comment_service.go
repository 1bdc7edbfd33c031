package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/d60-Lab/moments/internal/model"
	"github.com/d60-Lab/moments/internal/repository"
	"github.com/d60-Lab/moments/pkg/errcode"
)

type CommentInput struct {
	PostID  string `json:"postId" validate:"required"`
	Content string `json:"content" validate:"required,max=2200"`
}

type CommentService interface {
	Add(ctx context.Context, actorID string, in CommentInput) (*model.Comment, error)
	// Delete 任何已登录用户都可以删除评论
	Delete(ctx context.Context, actorID, commentID string) (bool, error)
}

type commentService struct {
	comments repository.CommentRepository
	posts    repository.PostRepository
	now      func() time.Time
}

func NewCommentService(comments repository.CommentRepository, posts repository.PostRepository) CommentService {
	return &commentService{
		comments: comments,
		posts:    posts,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *commentService) Add(ctx context.Context, actorID string, in CommentInput) (*model.Comment, error) {
	if actorID == "" {
		return nil, errcode.ErrUnauthenticated
	}
	in.Content = strings.TrimSpace(in.Content)
	if err := validate.Struct(in); err != nil {
		return nil, validationError(err)
	}

	ok, err := s.posts.Exists(ctx, in.PostID)
	if err != nil {
		return nil, storeErr("Failed to add comment", err)
	}
	if !ok {
		return nil, errcode.New(errcode.NotFound, "Post not found")
	}

	c := &model.Comment{
		ID:        uuid.NewString(),
		PostID:    in.PostID,
		UserID:    actorID,
		Content:   in.Content,
		CreatedAt: s.now(),
	}
	if err := s.comments.Create(ctx, c); err != nil {
		return nil, storeErr("Failed to add comment", err)
	}
	// 带上作者信息返回
	if full, err := s.comments.GetByID(ctx, c.ID); err == nil {
		return full, nil
	}
	return c, nil
}

func (s *commentService) Delete(ctx context.Context, actorID, commentID string) (bool, error) {
	if actorID == "" {
		return false, errcode.ErrUnauthenticated
	}
	err := s.comments.Delete(ctx, commentID)
	if errors.Is(err, repository.ErrNotFound) {
		return false, errcode.New(errcode.NotFound, "Comment not found")
	}
	if err != nil {
		return false, storeErr("Failed to delete comment", err)
	}
	return true, nil
}
