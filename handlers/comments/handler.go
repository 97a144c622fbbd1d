package comments

import (
	"net/http"
	"strings"

	"tene-backend/commenttree"
	"tene-backend/likes"
	"tene-backend/models"
	"tene-backend/notify"
	"tene-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type Handler struct {
	DB       *gorm.DB
	Notifier *notify.BotNotifier
}

func New(db *gorm.DB, notifier *notify.BotNotifier) *Handler {
	return &Handler{DB: db, Notifier: notifier}
}

type commentPage struct {
	Comments []*commenttree.Node `json:"comments"`
	Page     int                 `json:"page"`
	PageSize int                 `json:"pageSize"`
	HasMore  bool                `json:"hasMore"`
}

// @Summary List novel review comments
// @Description Paginated, newest first, threaded into reply trees
// @Tags comments
// @Produce json
// @Param id path string true "Novel ID"
// @Param page query int false "Page number (1-based)"
// @Param pageSize query int false "Page size"
// @Success 200 {object} map[string]interface{} "comments, page, pageSize, hasMore"
// @Failure 404 {object} map[string]string "error: Novel not found"
// @Router /novels/{id}/comments [get]
func (h *Handler) ListNovelComments(c *gin.Context) {
	novelID := c.Param("id")

	var novel models.Novel
	if err := h.DB.First(&novel, "id = ?", novelID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Novel not found"})
		return
	}

	h.list(c, h.DB.Where("novel_id = ? AND chapter_id IS NULL", novelID))
}

// @Summary List chapter comments
// @Description Paginated, newest first, threaded into reply trees
// @Tags comments
// @Produce json
// @Param id path string true "Chapter ID"
// @Param page query int false "Page number (1-based)"
// @Param pageSize query int false "Page size"
// @Success 200 {object} map[string]interface{} "comments, page, pageSize, hasMore"
// @Failure 404 {object} map[string]string "error: Chapter not found"
// @Router /chapters/{id}/comments [get]
func (h *Handler) ListChapterComments(c *gin.Context) {
	chapterID := c.Param("id")

	var chapter models.Chapter
	if err := h.DB.First(&chapter, "id = ?", chapterID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Chapter not found"})
		return
	}

	h.list(c, h.DB.Where("chapter_id = ?", chapterID))
}

func (h *Handler) list(c *gin.Context, scope *gorm.DB) {
	page, pageSize, offset := utils.PageParams(c, defaultPageSize, maxPageSize)

	var rows []models.Comment
	err := scope.Model(&models.Comment{}).
		Order("created_at DESC").
		Limit(pageSize).
		Offset(offset).
		Find(&rows).Error
	if err != nil {
		utils.LogError(err, "Error fetching comments in comments.list")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve comments"})
		return
	}

	if userID := c.GetString("user_id"); userID != "" && len(rows) > 0 {
		ids := make([]string, len(rows))
		for i := range rows {
			ids[i] = rows[i].ID
		}
		likedSet, err := likes.LikedSet(h.DB, models.LikeComment, ids, userID)
		if err != nil {
			// The page still renders, just without the reader's flags.
			utils.LogErrorWithUser(userID, err, "Error annotating liked comments in comments.list")
		} else {
			for i := range rows {
				rows[i].LikedByMe = likedSet[rows[i].ID]
			}
		}
	}

	c.JSON(http.StatusOK, commentPage{
		Comments: commenttree.Build(rows),
		Page:     page,
		PageSize: pageSize,
		HasMore:  utils.HasMore(len(rows), pageSize),
	})
}

// @Summary Comment on a novel
// @Description Create a review comment or a reply on the novel's thread
// @Tags comments
// @Accept json
// @Produce json
// @Param id path string true "Novel ID"
// @Param comment body models.CommentCreate true "Comment body and optional parentId"
// @Security BearerAuth
// @Success 201 {object} models.Comment
// @Failure 400 {object} map[string]string "error: Invalid input"
// @Failure 401 {object} map[string]string "error: Unauthorized"
// @Failure 404 {object} map[string]string "error: Novel not found"
// @Router /novels/{id}/comments [post]
func (h *Handler) CreateNovelComment(c *gin.Context) {
	novelID := c.Param("id")

	var novel models.Novel
	if err := h.DB.First(&novel, "id = ?", novelID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Novel not found"})
		return
	}

	h.create(c, novel, nil)
}

// @Summary Comment on a chapter
// @Description Create a comment or a reply on the chapter's discussion
// @Tags comments
// @Accept json
// @Produce json
// @Param id path string true "Chapter ID"
// @Param comment body models.CommentCreate true "Comment body and optional parentId"
// @Security BearerAuth
// @Success 201 {object} models.Comment
// @Failure 400 {object} map[string]string "error: Invalid input"
// @Failure 401 {object} map[string]string "error: Unauthorized"
// @Failure 404 {object} map[string]string "error: Chapter not found"
// @Router /chapters/{id}/comments [post]
func (h *Handler) CreateChapterComment(c *gin.Context) {
	chapterID := c.Param("id")

	var chapter models.Chapter
	if err := h.DB.First(&chapter, "id = ?", chapterID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Chapter not found"})
		return
	}

	var novel models.Novel
	if err := h.DB.First(&novel, "id = ?", chapter.NovelID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Novel not found"})
		return
	}

	h.create(c, novel, &chapter)
}

func (h *Handler) create(c *gin.Context, novel models.Novel, chapter *models.Chapter) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in token"})
		return
	}

	var input models.CommentCreate
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid comment data"})
		return
	}

	body := utils.SanitizeCommentBody(strings.TrimSpace(input.Body))
	if body == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Comment body cannot be empty"})
		return
	}

	var user models.User
	if err := h.DB.First(&user, "id = ?", userID).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
		return
	}

	var parent *models.Comment
	if input.ParentID != nil && *input.ParentID != "" {
		if _, err := uuid.Parse(*input.ParentID); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid parent comment ID"})
			return
		}

		var p models.Comment
		if err := h.DB.First(&p, "id = ?", *input.ParentID).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Parent comment not found"})
			return
		}

		// A reply stays in its parent's thread.
		sameSubject := p.NovelID == novel.ID
		if chapter == nil {
			sameSubject = sameSubject && p.ChapterID == nil
		} else {
			sameSubject = sameSubject && p.ChapterID != nil && *p.ChapterID == chapter.ID
		}
		if !sameSubject {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Parent comment belongs to another thread"})
			return
		}
		parent = &p
	}

	comment := models.Comment{
		NovelID:    novel.ID,
		AuthorID:   user.ID,
		AuthorName: user.UserName,
		Body:       body,
	}
	if chapter != nil {
		comment.ChapterID = &chapter.ID
	}
	if parent != nil {
		comment.ParentID = &parent.ID
	}

	if err := h.DB.Create(&comment).Error; err != nil {
		utils.LogErrorWithUser(userID, err, "Error saving comment in comments.create")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save comment"})
		return
	}

	// Novel review threads notify the chat bot. Fire and forget: the comment
	// is already committed, a webhook failure only loses the ping.
	if chapter == nil {
		event := notify.CommentEvent{
			AuthorName:  comment.AuthorName,
			CommentText: comment.Body,
			NovelTitle:  novel.Title,
		}
		if parent != nil {
			var parentAuthor models.User
			if err := h.DB.First(&parentAuthor, "id = ?", parent.AuthorID).Error; err == nil {
				event.ReplyToUid = parentAuthor.BotUid
			}
		}
		go func() {
			if err := h.Notifier.NotifyComment(event); err != nil {
				utils.LogError(err, "Bot notification failed in comments.create")
			}
		}()
	}

	c.JSON(http.StatusCreated, comment)
}

// canModify is the server-side enforcement of the edit/delete rule: only
// the author or an admin may touch a comment, whatever the UI hides.
func canModify(c *gin.Context, comment models.Comment) bool {
	return c.GetString("user_id") == comment.AuthorID ||
		c.GetString("role") == string(models.AdminRole)
}

// @Summary Edit a comment
// @Description Replace the body of a comment; author or admin only
// @Tags comments
// @Accept json
// @Produce json
// @Param id path string true "Comment ID"
// @Param comment body models.CommentUpdate true "New body"
// @Security BearerAuth
// @Success 200 {object} models.Comment
// @Failure 400 {object} map[string]string "error: Invalid input"
// @Failure 403 {object} map[string]string "error: Not allowed"
// @Failure 404 {object} map[string]string "error: Comment not found"
// @Router /comments/{id} [put]
func (h *Handler) UpdateComment(c *gin.Context) {
	commentID := c.Param("id")

	var comment models.Comment
	if err := h.DB.First(&comment, "id = ?", commentID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Comment not found"})
		return
	}

	if !canModify(c, comment) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You are not allowed to edit this comment"})
		return
	}

	var input models.CommentUpdate
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid comment data"})
		return
	}

	body := utils.SanitizeCommentBody(strings.TrimSpace(input.Body))
	if body == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Comment body cannot be empty"})
		return
	}

	if err := h.DB.Model(&comment).Update("body", body).Error; err != nil {
		utils.LogError(err, "Error updating comment in UpdateComment")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update comment"})
		return
	}

	comment.Body = body
	c.JSON(http.StatusOK, comment)
}

// @Summary Delete a comment
// @Description Delete a comment and its whole reply subtree; author or admin only
// @Tags comments
// @Produce json
// @Param id path string true "Comment ID"
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "message, deleted"
// @Failure 403 {object} map[string]string "error: Not allowed"
// @Failure 404 {object} map[string]string "error: Comment not found"
// @Router /comments/{id} [delete]
func (h *Handler) DeleteComment(c *gin.Context) {
	commentID := c.Param("id")

	var comment models.Comment
	if err := h.DB.First(&comment, "id = ?", commentID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Comment not found"})
		return
	}

	if !canModify(c, comment) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You are not allowed to delete this comment"})
		return
	}

	// Deleting a comment takes its reply subtree with it, and the like
	// memberships of every removed comment go in the same transaction so
	// the counter invariant survives.
	doomed := []string{comment.ID}
	err := h.DB.Transaction(func(tx *gorm.DB) error {
		frontier := []string{comment.ID}
		for len(frontier) > 0 {
			var children []models.Comment
			if err := tx.Select("id").Where("parent_id IN ?", frontier).Find(&children).Error; err != nil {
				return err
			}
			frontier = frontier[:0]
			for _, child := range children {
				doomed = append(doomed, child.ID)
				frontier = append(frontier, child.ID)
			}
		}

		if err := likes.RemoveForSubjects(tx, models.LikeComment, doomed); err != nil {
			return err
		}
		return tx.Where("id IN ?", doomed).Delete(&models.Comment{}).Error
	})
	if err != nil {
		utils.LogError(err, "Error deleting comment tree in DeleteComment")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete comment"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Comment deleted successfully",
		"deleted": len(doomed),
	})
}

// @Summary Toggle a like on a comment
// @Description Like or unlike a comment for the authenticated user
// @Tags comments
// @Produce json
// @Param id path string true "Comment ID"
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "liked, likeCount"
// @Failure 401 {object} map[string]string "error: Unauthorized"
// @Failure 404 {object} map[string]string "error: Comment not found"
// @Failure 500 {object} map[string]string "error: Error message"
// @Router /comments/{id}/like [post]
func (h *Handler) ToggleLike(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in token"})
		return
	}

	commentID := c.Param("id")

	var comment models.Comment
	if err := h.DB.First(&comment, "id = ?", commentID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Comment not found"})
		return
	}

	liked, err := likes.Toggle(h.DB, models.LikeComment, commentID, userID.(string))
	if err != nil {
		utils.LogErrorWithUser(userID, err, "Like toggle failed in comments.ToggleLike")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error toggling like"})
		return
	}

	count, err := likes.Count(h.DB, models.LikeComment, commentID)
	if err != nil {
		utils.LogErrorWithUser(userID, err, "Like count read failed in comments.ToggleLike")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error reading like count"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"liked": liked, "likeCount": count})
}
