package service

import (
	"context"
	"errors"

	"github.com/d60-Lab/moments/internal/model"
	"github.com/d60-Lab/moments/internal/repository"
)

// PostView 帖子及其相对于当前用户的关系标注
type PostView struct {
	*model.Post
	TotalLikeCount int64
	UserHasLiked   bool
	Bookmarked     bool
}

// PostDetail 单帖详情，额外带评论
type PostDetail struct {
	PostView
	TotalCommentCount int64
	Comments          []*model.Comment
}

// FeedPage 一页 feed，NextCursor 为本页最后一条的 id
type FeedPage struct {
	Items      []*PostView
	NextCursor *string
	HasMore    bool
}

// FeedService 只读查询：feed、单帖、用户帖子、评论
type FeedService interface {
	ListFeed(ctx context.Context, actorID string, pageSize int, cursorID string) (*FeedPage, error)
	GetPostByID(ctx context.Context, postID, actorID string) (*PostDetail, error)
	ListPostsByUsername(ctx context.Context, username, actorID string) ([]*PostView, error)
	ListComments(ctx context.Context, postID string) ([]*model.Comment, error)
}

type feedService struct {
	posts     repository.PostRepository
	comments  repository.CommentRepository
	users     repository.UserRepository
	likes     repository.RelationRepository
	bookmarks repository.RelationRepository
}

func NewFeedService(
	posts repository.PostRepository,
	comments repository.CommentRepository,
	users repository.UserRepository,
	likes, bookmarks repository.RelationRepository,
) FeedService {
	return &feedService{posts: posts, comments: comments, users: users, likes: likes, bookmarks: bookmarks}
}

func (s *feedService) ListFeed(ctx context.Context, actorID string, pageSize int, cursorID string) (*FeedPage, error) {
	if actorID == "" {
		return nil, nil
	}
	pageSize = normalizePageSize(pageSize)

	// 多取一条用来判断是否还有下一页
	rows, err := s.posts.ListFeed(ctx, actorID, cursorID, pageSize+1)
	if err != nil {
		return nil, storeErr("Failed to fetch feed posts", err)
	}
	hasMore := len(rows) > pageSize
	if hasMore {
		rows = rows[:pageSize]
	}

	items, err := s.annotate(ctx, actorID, rows)
	if err != nil {
		return nil, err
	}
	page := &FeedPage{Items: items, HasMore: hasMore}
	if n := len(rows); n > 0 {
		last := rows[n-1].ID
		page.NextCursor = &last
	}
	return page, nil
}

func (s *feedService) GetPostByID(ctx context.Context, postID, actorID string) (*PostDetail, error) {
	post, err := s.posts.GetByID(ctx, postID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, storeErr("Failed to fetch post", err)
	}

	views, err := s.annotate(ctx, actorID, []*model.Post{post})
	if err != nil {
		return nil, err
	}
	comments, err := s.comments.ListByPost(ctx, postID)
	if err != nil {
		return nil, storeErr("Failed to fetch comments", err)
	}
	total, err := s.comments.CountByPost(ctx, postID)
	if err != nil {
		return nil, storeErr("Failed to fetch comments", err)
	}
	return &PostDetail{
		PostView:          *views[0],
		TotalCommentCount: total,
		Comments:          comments,
	}, nil
}

func (s *feedService) ListPostsByUsername(ctx context.Context, username, actorID string) ([]*PostView, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if errors.Is(err, repository.ErrNotFound) {
		return []*PostView{}, nil
	}
	if err != nil {
		return nil, storeErr("Failed to fetch user posts", err)
	}
	rows, err := s.posts.ListByAuthor(ctx, user.ID)
	if err != nil {
		return nil, storeErr("Failed to fetch user posts", err)
	}
	return s.annotate(ctx, actorID, rows)
}

func (s *feedService) ListComments(ctx context.Context, postID string) ([]*model.Comment, error) {
	comments, err := s.comments.ListByPost(ctx, postID)
	if err != nil {
		return nil, storeErr("Failed to fetch comments", err)
	}
	return comments, nil
}

// annotate 批量补充点赞数、是否点赞、是否收藏，每种关系一次查询
func (s *feedService) annotate(ctx context.Context, actorID string, rows []*model.Post) ([]*PostView, error) {
	views := make([]*PostView, len(rows))
	if len(rows) == 0 {
		return views, nil
	}
	ids := make([]string, len(rows))
	for i, p := range rows {
		ids[i] = p.ID
	}

	counts, err := s.likes.CountByTargets(ctx, ids)
	if err != nil {
		return nil, storeErr("Failed to fetch like counts", err)
	}
	liked, err := s.likes.ExistingTargets(ctx, actorID, ids)
	if err != nil {
		return nil, storeErr("Failed to fetch likes", err)
	}
	marked, err := s.bookmarks.ExistingTargets(ctx, actorID, ids)
	if err != nil {
		return nil, storeErr("Failed to fetch bookmarks", err)
	}

	for i, p := range rows {
		views[i] = &PostView{
			Post:           p,
			TotalLikeCount: counts[p.ID],
			UserHasLiked:   liked[p.ID],
			Bookmarked:     marked[p.ID],
		}
	}
	return views, nil
}
