package model

import "time"

type Comment struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)"`
	PostID    string    `gorm:"type:varchar(36);index:idx_comment_post;not null"`
	UserID    string    `gorm:"type:varchar(36);not null"`
	User      User      `gorm:"foreignKey:UserID"`
	Content   string    `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"index:idx_comment_post"`
}

func (Comment) TableName() string { return "comments" }
