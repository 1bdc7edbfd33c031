package model

import "time"

// Post 帖子，作者创建后不可变更
type Post struct {
	ID        string    `gorm:"primaryKey;type:varchar(36);index:idx_post_feed,priority:2"`
	AuthorID  string    `gorm:"type:varchar(36);index:idx_post_author;not null"`
	Author    User      `gorm:"foreignKey:AuthorID"`
	Content   *string   `gorm:"type:text"`
	ImgURL    string    `gorm:"type:text;not null"`
	// idx_post_feed = (created_at, id)，与 feed 的排序一致
	CreatedAt time.Time `gorm:"index:idx_post_feed,priority:1"`
	UpdatedAt time.Time
}

func (Post) TableName() string { return "posts" }
