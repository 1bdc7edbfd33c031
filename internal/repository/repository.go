package repository

import (
	"errors"

	"gorm.io/gorm"
)

// ErrNotFound 目标行不存在（包括删除时未命中任何行）
var ErrNotFound = errors.New("record not found")

func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
