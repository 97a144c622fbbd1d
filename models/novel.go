package models

import (
	"time"

	"gorm.io/gorm"
)

type NovelStatus string

const (
	NovelOngoing  NovelStatus = "ONGOING"
	NovelFinished NovelStatus = "FINISHED"
)

type Novel struct {
	ID          string      `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	Title       string      `json:"title" binding:"required" gorm:"not null;index"`
	AuthorName  string      `json:"authorName" gorm:"column:author_name"`
	Description string      `json:"description" gorm:"type:text"`
	Genres      string      `json:"genres"` // comma separated, e.g. "fantasy,romance"
	Status      NovelStatus `json:"status" gorm:"type:varchar(20);default:'ONGOING'"`
	CoverURL    string      `json:"coverUrl" gorm:"column:cover_url"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`

	// Filled at query time, not persisted.
	ChapterCount int `json:"chapterCount" gorm:"-"`
}

type NovelUpdate struct {
	Title       string      `json:"title"`
	AuthorName  string      `json:"authorName"`
	Description string      `json:"description"`
	Genres      string      `json:"genres"`
	Status      NovelStatus `json:"status"`
}

func (Novel) TableName() string {
	return "novels"
}
