package models

import (
	"time"
)

type Comment struct {
	ID      string `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	NovelID string `json:"novelId" gorm:"column:novel_id;type:uuid;not null;index"`
	// Nil for novel-level review comments, set for chapter discussions.
	ChapterID *string `json:"chapterId,omitempty" gorm:"column:chapter_id;type:uuid;index"`
	// Nil for top-level comments.
	ParentID   *string   `json:"parentId,omitempty" gorm:"column:parent_id;type:uuid;index"`
	AuthorID   string    `json:"authorId" gorm:"column:author_id;type:uuid;not null;index"`
	AuthorName string    `json:"authorName" gorm:"column:author_name"`
	Body       string    `json:"body" gorm:"type:text;not null"`
	LikeCount  int       `json:"likeCount" gorm:"column:like_count;default:0"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`

	// Filled at query time for the requesting user, not persisted.
	LikedByMe bool `json:"likedByMe" gorm:"-"`
}

type CommentCreate struct {
	Body     string  `json:"body" binding:"required"`
	ParentID *string `json:"parentId"`
}

type CommentUpdate struct {
	Body string `json:"body" binding:"required"`
}

func (Comment) TableName() string {
	return "comments"
}
