package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/d60-Lab/moments/internal/model"
)

// RelationRepository 以 (actor, target) 复合键存储的开关型关系：点赞、收藏、关注
type RelationRepository interface {
	Create(ctx context.Context, actorID, targetID string) error
	// Delete returns ErrNotFound when no row matched.
	Delete(ctx context.Context, actorID, targetID string) error
	Exists(ctx context.Context, actorID, targetID string) (bool, error)
	// ExistingTargets reports which of targetIDs the actor has a row for.
	ExistingTargets(ctx context.Context, actorID string, targetIDs []string) (map[string]bool, error)
	CountByTargets(ctx context.Context, targetIDs []string) (map[string]int64, error)
	CountByTarget(ctx context.Context, targetID string) (int64, error)
	CountByActor(ctx context.Context, actorID string) (int64, error)
	ListTargets(ctx context.Context, actorID string, offset, limit int) ([]string, error)
	ListActors(ctx context.Context, targetID string, offset, limit int) ([]string, error)
}

type relationRepository struct {
	db        *gorm.DB
	table     string
	actorCol  string
	targetCol string
	newRow    func(actorID, targetID string) interface{}
}

func NewLikeRepository(db *gorm.DB) RelationRepository {
	return &relationRepository{
		db: db, table: model.Like{}.TableName(), actorCol: "user_id", targetCol: "post_id",
		newRow: func(a, t string) interface{} { return &model.Like{UserID: a, PostID: t} },
	}
}

func NewBookmarkRepository(db *gorm.DB) RelationRepository {
	return &relationRepository{
		db: db, table: model.Bookmark{}.TableName(), actorCol: "user_id", targetCol: "post_id",
		newRow: func(a, t string) interface{} { return &model.Bookmark{UserID: a, PostID: t} },
	}
}

func NewFollowRepository(db *gorm.DB) RelationRepository {
	return &relationRepository{
		db: db, table: model.Follow{}.TableName(), actorCol: "follower_id", targetCol: "following_id",
		newRow: func(a, t string) interface{} { return &model.Follow{FollowerID: a, FollowingID: t} },
	}
}

type targetCount struct {
	TargetID string
	N        int64
}

func (r *relationRepository) pair(ctx context.Context, actorID, targetID string) *gorm.DB {
	return r.db.WithContext(ctx).Where(r.actorCol+" = ? AND "+r.targetCol+" = ?", actorID, targetID)
}

func (r *relationRepository) Create(ctx context.Context, actorID, targetID string) error {
	// 幂等：并发的重复创建落在同一行上
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(r.newRow(actorID, targetID)).Error
}

func (r *relationRepository) Delete(ctx context.Context, actorID, targetID string) error {
	res := r.pair(ctx, actorID, targetID).Delete(r.newRow("", ""))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *relationRepository) Exists(ctx context.Context, actorID, targetID string) (bool, error) {
	var cnt int64
	if err := r.pair(ctx, actorID, targetID).Table(r.table).Count(&cnt).Error; err != nil {
		return false, err
	}
	return cnt > 0, nil
}

func (r *relationRepository) ExistingTargets(ctx context.Context, actorID string, targetIDs []string) (map[string]bool, error) {
	res := make(map[string]bool, len(targetIDs))
	if actorID == "" || len(targetIDs) == 0 {
		return res, nil
	}
	var ids []string
	err := r.db.WithContext(ctx).Table(r.table).
		Where(r.actorCol+" = ? AND "+r.targetCol+" IN ?", actorID, targetIDs).
		Pluck(r.targetCol, &ids).Error
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		res[id] = true
	}
	return res, nil
}

func (r *relationRepository) CountByTargets(ctx context.Context, targetIDs []string) (map[string]int64, error) {
	res := make(map[string]int64, len(targetIDs))
	if len(targetIDs) == 0 {
		return res, nil
	}
	var rows []targetCount
	err := r.db.WithContext(ctx).Table(r.table).
		Select(r.targetCol+" AS target_id, COUNT(*) AS n").
		Where(r.targetCol+" IN ?", targetIDs).
		Group(r.targetCol).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		res[row.TargetID] = row.N
	}
	return res, nil
}

func (r *relationRepository) CountByTarget(ctx context.Context, targetID string) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Table(r.table).Where(r.targetCol+" = ?", targetID).Count(&cnt).Error
	return cnt, err
}

func (r *relationRepository) CountByActor(ctx context.Context, actorID string) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Table(r.table).Where(r.actorCol+" = ?", actorID).Count(&cnt).Error
	return cnt, err
}

func (r *relationRepository) ListTargets(ctx context.Context, actorID string, offset, limit int) ([]string, error) {
	return r.list(ctx, r.actorCol, actorID, r.targetCol, offset, limit)
}

func (r *relationRepository) ListActors(ctx context.Context, targetID string, offset, limit int) ([]string, error) {
	return r.list(ctx, r.targetCol, targetID, r.actorCol, offset, limit)
}

func (r *relationRepository) list(ctx context.Context, byCol, id, pluckCol string, offset, limit int) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).Table(r.table).
		Where(byCol+" = ?", id).
		Order("created_at DESC").Order(pluckCol + " DESC").
		Offset(offset).Limit(limit).
		Pluck(pluckCol, &ids).Error
	return ids, err
}
