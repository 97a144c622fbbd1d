package models

import (
	"time"
)

type LikeSubject string

const (
	LikeComment LikeSubject = "comment"
	LikeChapter LikeSubject = "chapter"
)

// Like is the membership row behind every like counter: its presence means
// "this user currently likes this subject". The like_count column on the
// subject must always equal the number of rows here for that subject.
type Like struct {
	ID          string      `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	SubjectType LikeSubject `json:"subjectType" gorm:"column:subject_type;type:varchar(16);not null;uniqueIndex:idx_subject_user"`
	SubjectID   string      `json:"subjectId" gorm:"column:subject_id;type:uuid;not null;uniqueIndex:idx_subject_user"`
	UserID      string      `json:"userId" gorm:"column:user_id;type:uuid;not null;uniqueIndex:idx_subject_user"`
	CreatedAt   time.Time   `json:"createdAt"`
}

func (Like) TableName() string {
	return "likes"
}
