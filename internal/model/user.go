package model

import "time"

// User 用户，首次 Google 登录时按邮箱创建
type User struct {
	ID              string    `gorm:"primaryKey;type:varchar(36)"`
	Username        string    `gorm:"type:varchar(64);uniqueIndex;not null"`
	FullName        string    `gorm:"type:varchar(128);not null"`
	Email           string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	ProfileImageURL *string   `gorm:"type:text"`
	Bio             *string   `gorm:"type:text"`
	IsVerified      bool      `gorm:"not null;default:false"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (User) TableName() string { return "users" }
