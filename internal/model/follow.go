package model

import (
	"time"
)

// Follow 关注关系（A 关注 B）
type Follow struct {
	// 复合主键即唯一约束，避免重复关注
	FollowerID  string `gorm:"primaryKey;type:varchar(36)"`
	FollowingID string `gorm:"primaryKey;type:varchar(36);index:idx_follow_following"`
	CreatedAt   time.Time
}

func (Follow) TableName() string { return "follows" }
