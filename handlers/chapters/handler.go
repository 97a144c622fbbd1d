package chapters

import (
	"net/http"
	"time"

	"tene-backend/likes"
	"tene-backend/models"
	"tene-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	defaultPageSize = 50
	maxPageSize     = 200
)

type Handler struct {
	DB *gorm.DB
}

func New(db *gorm.DB) *Handler {
	return &Handler{DB: db}
}

type chapterPage struct {
	Chapters []models.Chapter `json:"chapters"`
	Page     int              `json:"page"`
	PageSize int              `json:"pageSize"`
	HasMore  bool             `json:"hasMore"`
}

// chapterView is what GetChapter answers with: the chapter row plus its
// body rendered to sanitized HTML.
type chapterView struct {
	models.Chapter
	BodyHTML  string `json:"bodyHtml,omitempty"`
	LikedByMe bool   `json:"likedByMe"`
}

// hasActiveSubscription reports whether the user currently holds an ACTIVE
// subscription that has not ended.
func (h *Handler) hasActiveSubscription(userID string) bool {
	if userID == "" {
		return false
	}
	var sub models.Subscription
	err := h.DB.Where("user_id = ? AND status = ? AND (end_date IS NULL OR end_date > ?)",
		userID, models.SubscriptionActive, time.Now()).First(&sub).Error
	return err == nil
}

// @Summary List chapters of a novel
// @Description Chapters in reading order (ascending number), paginated. Bodies are not included.
// @Tags chapters
// @Produce json
// @Param id path string true "Novel ID"
// @Param page query int false "Page number (1-based)"
// @Param pageSize query int false "Page size"
// @Success 200 {object} map[string]interface{} "chapters, page, pageSize, hasMore"
// @Failure 404 {object} map[string]string "error: Novel not found"
// @Router /novels/{id}/chapters [get]
func (h *Handler) ListChapters(c *gin.Context) {
	novelID := c.Param("id")

	var novel models.Novel
	if err := h.DB.First(&novel, "id = ?", novelID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Novel not found"})
		return
	}

	page, pageSize, offset := utils.PageParams(c, defaultPageSize, maxPageSize)

	var chapters []models.Chapter
	err := h.DB.Select("id", "novel_id", "number", "title", "is_locked", "like_count", "created_at", "updated_at").
		Where("novel_id = ?", novelID).
		Order("number ASC").
		Limit(pageSize).
		Offset(offset).
		Find(&chapters).Error
	if err != nil {
		utils.LogError(err, "Error fetching chapters in ListChapters")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve chapters"})
		return
	}

	c.JSON(http.StatusOK, chapterPage{
		Chapters: chapters,
		Page:     page,
		PageSize: pageSize,
		HasMore:  utils.HasMore(len(chapters), pageSize),
	})
}

// @Summary Read a chapter
// @Description Chapter with its body rendered to HTML. A locked chapter needs an active subscription or admin role.
// @Tags chapters
// @Produce json
// @Param id path string true "Chapter ID"
// @Success 200 {object} map[string]interface{}
// @Failure 402 {object} map[string]string "error: Subscription required"
// @Failure 404 {object} map[string]string "error: Chapter not found"
// @Router /chapters/{id} [get]
func (h *Handler) GetChapter(c *gin.Context) {
	chapterID := c.Param("id")
	if _, err := uuid.Parse(chapterID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid chapter ID"})
		return
	}

	var chapter models.Chapter
	if err := h.DB.First(&chapter, "id = ?", chapterID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Chapter not found"})
		return
	}

	userID := c.GetString("user_id")
	isAdmin := c.GetString("role") == string(models.AdminRole)

	if chapter.IsLocked && !isAdmin && !h.hasActiveSubscription(userID) {
		c.JSON(http.StatusPaymentRequired, gin.H{"error": "This chapter requires an active subscription"})
		return
	}

	view := chapterView{Chapter: chapter}
	view.BodyHTML = utils.RenderChapterHTML(chapter.Body)
	view.Body = "" // clients render bodyHtml

	if userID != "" {
		liked, err := likes.LikedSet(h.DB, models.LikeChapter, []string{chapter.ID}, userID)
		if err != nil {
			utils.LogErrorWithUser(userID, err, "Error annotating liked chapter in chapters.GetChapter")
		} else {
			view.LikedByMe = liked[chapter.ID]
		}
	}

	c.JSON(http.StatusOK, view)
}

// @Summary Toggle a like on a chapter
// @Description Like or unlike a chapter for the authenticated user
// @Tags chapters
// @Produce json
// @Param id path string true "Chapter ID"
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "liked, likeCount"
// @Failure 401 {object} map[string]string "error: Unauthorized"
// @Failure 404 {object} map[string]string "error: Chapter not found"
// @Failure 500 {object} map[string]string "error: Error message"
// @Router /chapters/{id}/like [post]
func (h *Handler) ToggleLike(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in token"})
		return
	}

	chapterID := c.Param("id")

	var chapter models.Chapter
	if err := h.DB.First(&chapter, "id = ?", chapterID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Chapter not found"})
		return
	}

	liked, err := likes.Toggle(h.DB, models.LikeChapter, chapterID, userID.(string))
	if err != nil {
		utils.LogErrorWithUser(userID, err, "Like toggle failed in chapters.ToggleLike")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error toggling like"})
		return
	}

	count, err := likes.Count(h.DB, models.LikeChapter, chapterID)
	if err != nil {
		utils.LogErrorWithUser(userID, err, "Like count read failed in chapters.ToggleLike")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error reading like count"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"liked": liked, "likeCount": count})
}

// @Summary Add a chapter to a novel
// @Description Create a chapter with a Markdown body
// @Tags chapters
// @Accept json
// @Produce json
// @Param id path string true "Novel ID"
// @Param chapter body models.ChapterCreate true "Chapter content"
// @Security BearerAuth
// @Success 201 {object} models.Chapter
// @Failure 400 {object} map[string]string "error: Invalid input"
// @Failure 404 {object} map[string]string "error: Novel not found"
// @Failure 500 {object} map[string]string "error: Error message"
// @Router /novels/{id}/chapters [post]
func (h *Handler) CreateChapter(c *gin.Context) {
	novelID := c.Param("id")

	var novel models.Novel
	if err := h.DB.First(&novel, "id = ?", novelID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Novel not found"})
		return
	}

	var input models.ChapterCreate
	if !utils.ValidateRequestBody(c, &input) {
		return
	}

	chapter := models.Chapter{
		NovelID:  novelID,
		Number:   input.Number,
		Title:    input.Title,
		Body:     input.Body,
		IsLocked: input.IsLocked,
	}

	if err := h.DB.Create(&chapter).Error; err != nil {
		utils.LogError(err, "Error creating chapter in CreateChapter")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error creating chapter"})
		return
	}

	c.JSON(http.StatusCreated, chapter)
}

// @Summary Delete a chapter
// @Tags chapters
// @Produce json
// @Param id path string true "Chapter ID"
// @Security BearerAuth
// @Success 200 {object} map[string]string "message: Chapter deleted successfully"
// @Failure 404 {object} map[string]string "error: Chapter not found"
// @Failure 500 {object} map[string]string "error: Error message"
// @Router /chapters/{id} [delete]
func (h *Handler) DeleteChapter(c *gin.Context) {
	chapterID := c.Param("id")

	var chapter models.Chapter
	if err := h.DB.First(&chapter, "id = ?", chapterID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Chapter not found"})
		return
	}

	if err := h.DB.Delete(&chapter).Error; err != nil {
		utils.LogError(err, "Error deleting chapter in DeleteChapter")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error deleting chapter"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Chapter deleted successfully"})
}
