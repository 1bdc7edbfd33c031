package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/d60-Lab/moments/internal/model"
)

type PostRepository interface {
	Create(ctx context.Context, post *model.Post) error
	GetByID(ctx context.Context, id string) (*model.Post, error)
	Exists(ctx context.Context, id string) (bool, error)
	// Delete removes the post together with its likes, bookmarks and comments.
	Delete(ctx context.Context, id string) error
	// ListFeed returns up to limit posts authored by users followerID follows,
	// newest first, strictly after cursorID when it names an eligible post.
	ListFeed(ctx context.Context, followerID, cursorID string, limit int) ([]*model.Post, error)
	ListByAuthor(ctx context.Context, authorID string) ([]*model.Post, error)
	CountByAuthor(ctx context.Context, authorID string) (int64, error)
}

type postRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) PostRepository { return &postRepository{db: db} }

func (r *postRepository) Create(ctx context.Context, post *model.Post) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(post).Error
}

func (r *postRepository) GetByID(ctx context.Context, id string) (*model.Post, error) {
	var p model.Post
	if err := r.db.WithContext(ctx).Preload("Author").Where("id = ?", id).Take(&p).Error; err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (r *postRepository) Exists(ctx context.Context, id string) (bool, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&model.Post{}).Where("id = ?", id).Count(&cnt).Error
	return cnt > 0, err
}

func (r *postRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, dep := range []interface{}{&model.Like{}, &model.Bookmark{}, &model.Comment{}} {
			if err := tx.Where("post_id = ?", id).Delete(dep).Error; err != nil {
				return err
			}
		}
		res := tx.Where("id = ?", id).Delete(&model.Post{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// followedAuthors 子查询：followerID 关注的所有用户
func (r *postRepository) followedAuthors(followerID string) *gorm.DB {
	return r.db.Model(&model.Follow{}).Select("following_id").Where("follower_id = ?", followerID)
}

func (r *postRepository) ListFeed(ctx context.Context, followerID, cursorID string, limit int) ([]*model.Post, error) {
	q := r.db.WithContext(ctx).
		Preload("Author").
		Where("author_id IN (?)", r.followedAuthors(followerID))

	if cursorID != "" {
		var anchor model.Post
		err := r.db.WithContext(ctx).
			Select("id", "created_at").
			Where("id = ? AND author_id IN (?)", cursorID, r.followedAuthors(followerID)).
			Take(&anchor).Error
		switch {
		case err == nil:
			// seek：(created_at, id) 严格小于锚点
			q = q.Where("(created_at < ? OR (created_at = ? AND id < ?))", anchor.CreatedAt, anchor.CreatedAt, anchor.ID)
		case errors.Is(err, gorm.ErrRecordNotFound):
			// 锚点已不在可见集合中，从头开始
		default:
			return nil, err
		}
	}

	var posts []*model.Post
	err := q.Order("created_at DESC").Order("id DESC").Limit(limit).Find(&posts).Error
	return posts, err
}

func (r *postRepository) ListByAuthor(ctx context.Context, authorID string) ([]*model.Post, error) {
	var posts []*model.Post
	err := r.db.WithContext(ctx).
		Preload("Author").
		Where("author_id = ?", authorID).
		Order("created_at DESC").Order("id DESC").
		Find(&posts).Error
	return posts, err
}

func (r *postRepository) CountByAuthor(ctx context.Context, authorID string) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&model.Post{}).Where("author_id = ?", authorID).Count(&cnt).Error
	return cnt, err
}
