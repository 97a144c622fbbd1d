// Package likes owns every like/unlike in the application. The rule it
// protects: the like_count column on a subject always equals the number of
// membership rows in the likes table for that subject, even with several
// users toggling at once.
package likes

import (
	"errors"
	"fmt"

	"tene-backend/models"

	"gorm.io/gorm"
)

// ErrUnknownSubject is returned for a subject type the store does not track.
var ErrUnknownSubject = errors.New("likes: unknown subject type")

// Toggle flips the caller's membership for the subject and moves the
// subject's counter by exactly one, in a single transaction. The counter
// update is a database-side expression (like_count = like_count +/- 1), so
// concurrent toggles from different users cannot lose updates; a concurrent
// duplicate from the same user is rejected by the unique index on
// (subject_type, subject_id, user_id) and rolls back whole. On the unlike
// side, a delete that affects zero rows means a concurrent toggle removed
// the membership first; the counter is left alone so it cannot drop below
// the membership cardinality.
//
// On error nothing is persisted and the previous state stands.
func Toggle(db *gorm.DB, subject models.LikeSubject, subjectID, userID string) (liked bool, err error) {
	if subject != models.LikeComment && subject != models.LikeChapter {
		return false, ErrUnknownSubject
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		var existing models.Like
		res := tx.Where("subject_type = ? AND subject_id = ? AND user_id = ?",
			subject, subjectID, userID).First(&existing)

		if res.Error == nil {
			del := tx.Delete(&existing)
			if del.Error != nil {
				return del.Error
			}
			liked = false
			if del.RowsAffected == 0 {
				// A concurrent toggle already removed the membership; the
				// transaction that deleted the row owns the decrement.
				return nil
			}
			return bumpCount(tx, subject, subjectID, -1)
		}
		if !errors.Is(res.Error, gorm.ErrRecordNotFound) {
			return res.Error
		}

		like := models.Like{
			SubjectType: subject,
			SubjectID:   subjectID,
			UserID:      userID,
		}
		if err := tx.Create(&like).Error; err != nil {
			return err
		}
		liked = true
		return bumpCount(tx, subject, subjectID, 1)
	})
	if err != nil {
		return false, err
	}
	return liked, nil
}

func bumpCount(tx *gorm.DB, subject models.LikeSubject, subjectID string, delta int) error {
	var model interface{}
	switch subject {
	case models.LikeComment:
		model = &models.Comment{}
	case models.LikeChapter:
		model = &models.Chapter{}
	default:
		return ErrUnknownSubject
	}

	res := tx.Model(model).Where("id = ?", subjectID).
		UpdateColumn("like_count", gorm.Expr("like_count + ?", delta))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("likes: %s %s not found", subject, subjectID)
	}
	return nil
}

// Count reads the persisted counter for a subject.
func Count(db *gorm.DB, subject models.LikeSubject, subjectID string) (int64, error) {
	var model interface{}
	switch subject {
	case models.LikeComment:
		model = &models.Comment{}
	case models.LikeChapter:
		model = &models.Chapter{}
	default:
		return 0, ErrUnknownSubject
	}

	var count int64
	err := db.Model(model).Select("like_count").Where("id = ?", subjectID).Scan(&count).Error
	return count, err
}

// LikedSet returns, out of subjectIDs, the ones the user currently likes.
// One query regardless of list size; used to annotate comment and chapter
// listings.
func LikedSet(db *gorm.DB, subject models.LikeSubject, subjectIDs []string, userID string) (map[string]bool, error) {
	set := make(map[string]bool, len(subjectIDs))
	if len(subjectIDs) == 0 || userID == "" {
		return set, nil
	}

	var rows []models.Like
	err := db.Where("subject_type = ? AND user_id = ? AND subject_id IN ?",
		subject, userID, subjectIDs).Find(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		set[row.SubjectID] = true
	}
	return set, nil
}

// RemoveForSubjects drops every membership row for the given subjects.
// Called inside the comment cascade delete so counters and memberships
// disappear together.
func RemoveForSubjects(tx *gorm.DB, subject models.LikeSubject, subjectIDs []string) error {
	if len(subjectIDs) == 0 {
		return nil
	}
	return tx.Where("subject_type = ? AND subject_id IN ?", subject, subjectIDs).
		Delete(&models.Like{}).Error
}
