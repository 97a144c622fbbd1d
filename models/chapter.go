package models

import (
	"time"
)

type Chapter struct {
	ID      string `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	NovelID string `json:"novelId" gorm:"column:novel_id;type:uuid;not null;index"`
	// Float so that interleaved releases (12.5, specials) keep their place
	// in the reading order.
	Number    float64   `json:"number" gorm:"not null"`
	Title     string    `json:"title"`
	Body      string    `json:"body,omitempty" gorm:"type:text"`
	IsLocked  bool      `json:"isLocked" gorm:"column:is_locked;default:false"`
	LikeCount int       `json:"likeCount" gorm:"column:like_count;default:0"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type ChapterCreate struct {
	Number   float64 `json:"number" binding:"required"`
	Title    string  `json:"title"`
	Body     string  `json:"body" binding:"required"`
	IsLocked bool    `json:"isLocked"`
}

func (Chapter) TableName() string {
	return "chapters"
}
