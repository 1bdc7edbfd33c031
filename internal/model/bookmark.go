package model

import "time"

// Bookmark 收藏，(user_id, post_id) 唯一
type Bookmark struct {
	UserID    string `gorm:"primaryKey;type:varchar(36)"`
	PostID    string `gorm:"primaryKey;type:varchar(36);index:idx_bookmark_post"`
	CreatedAt time.Time
}

func (Bookmark) TableName() string { return "bookmarks" }
