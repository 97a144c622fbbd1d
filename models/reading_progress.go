package models

import (
	"time"
)

// ReadingProgress remembers where a user stopped in a novel. One row per
// (user, novel); updates are last-write-wins.
type ReadingProgress struct {
	ID        string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	UserID    string    `json:"userId" gorm:"column:user_id;type:uuid;not null;uniqueIndex:idx_user_novel_progress"`
	NovelID   string    `json:"novelId" gorm:"column:novel_id;type:uuid;not null;uniqueIndex:idx_user_novel_progress"`
	ChapterID string    `json:"chapterId" gorm:"column:chapter_id;type:uuid;not null"`
	// Offset inside the chapter (paragraph index on the reader side).
	Position  int       `json:"position" gorm:"default:0"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type ReadingProgressUpdate struct {
	ChapterID string `json:"chapterId" binding:"required"`
	Position  int    `json:"position"`
}

func (ReadingProgress) TableName() string {
	return "reading_progress"
}
