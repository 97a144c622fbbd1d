package progress

import (
	"net/http"

	"tene-backend/models"
	"tene-backend/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Handler struct {
	DB *gorm.DB
}

func New(db *gorm.DB) *Handler {
	return &Handler{DB: db}
}

// @Summary Save reading progress
// @Description Upsert the caller's position in a novel; last write wins
// @Tags progress
// @Accept json
// @Produce json
// @Param id path string true "Novel ID"
// @Param progress body models.ReadingProgressUpdate true "Chapter and position"
// @Security BearerAuth
// @Success 200 {object} models.ReadingProgress
// @Failure 400 {object} map[string]string "error: Invalid input"
// @Failure 401 {object} map[string]string "error: Unauthorized"
// @Failure 404 {object} map[string]string "error: Chapter not found"
// @Router /novels/{id}/progress [put]
func (h *Handler) Save(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in token"})
		return
	}

	novelID := c.Param("id")

	var input models.ReadingProgressUpdate
	if !utils.ValidateRequestBody(c, &input) {
		return
	}

	var chapter models.Chapter
	if err := h.DB.First(&chapter, "id = ? AND novel_id = ?", input.ChapterID, novelID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Chapter not found in this novel"})
		return
	}

	record := models.ReadingProgress{
		UserID:    userID.(string),
		NovelID:   novelID,
		ChapterID: input.ChapterID,
		Position:  input.Position,
	}

	err := h.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "novel_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"chapter_id", "position", "updated_at"}),
	}).Create(&record).Error
	if err != nil {
		utils.LogErrorWithUser(userID, err, "Error saving progress in progress.Save")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error saving reading progress"})
		return
	}

	c.JSON(http.StatusOK, record)
}

// @Summary Get my progress in a novel
// @Tags progress
// @Produce json
// @Param id path string true "Novel ID"
// @Security BearerAuth
// @Success 200 {object} models.ReadingProgress
// @Failure 401 {object} map[string]string "error: Unauthorized"
// @Failure 404 {object} map[string]string "error: No progress recorded"
// @Router /novels/{id}/progress [get]
func (h *Handler) Get(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in token"})
		return
	}

	novelID := c.Param("id")

	var record models.ReadingProgress
	err := h.DB.Where("user_id = ? AND novel_id = ?", userID, novelID).First(&record).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No progress recorded for this novel"})
		return
	}

	c.JSON(http.StatusOK, record)
}

// @Summary List all my reading progress
// @Tags progress
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "progress"
// @Failure 401 {object} map[string]string "error: Unauthorized"
// @Router /progress [get]
func (h *Handler) ListMine(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in token"})
		return
	}

	var records []models.ReadingProgress
	if err := h.DB.Where("user_id = ?", userID).Order("updated_at DESC").Find(&records).Error; err != nil {
		utils.LogErrorWithUser(userID, err, "Error listing progress in progress.ListMine")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching reading progress"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"progress": records})
}
