package models

import (
	"time"
)

type Bookmark struct {
	ID        string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	UserID    string    `json:"userId" gorm:"column:user_id;type:uuid;not null;uniqueIndex:idx_user_novel"`
	NovelID   string    `json:"novelId" gorm:"column:novel_id;type:uuid;not null;uniqueIndex:idx_user_novel"`
	CreatedAt time.Time `json:"createdAt"`
}

func (Bookmark) TableName() string {
	return "bookmarks"
}
