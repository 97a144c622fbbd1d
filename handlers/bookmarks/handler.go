package bookmarks

import (
	"net/http"

	"tene-backend/models"
	"tene-backend/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type Handler struct {
	DB *gorm.DB
}

func New(db *gorm.DB) *Handler {
	return &Handler{DB: db}
}

// @Summary Toggle a bookmark on a novel
// @Description Bookmark the novel if not bookmarked, remove the bookmark otherwise
// @Tags bookmarks
// @Produce json
// @Param id path string true "Novel ID"
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "bookmarked, bookmarkCount"
// @Failure 401 {object} map[string]string "error: Unauthorized"
// @Failure 404 {object} map[string]string "error: Novel not found"
// @Failure 500 {object} map[string]string "error: Error message"
// @Router /novels/{id}/bookmark [post]
func (h *Handler) Toggle(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in token"})
		return
	}

	novelID := c.Param("id")

	var novel models.Novel
	if err := h.DB.First(&novel, "id = ?", novelID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Novel not found"})
		return
	}

	var bookmarked bool
	var existing models.Bookmark
	if err := h.DB.Where("user_id = ? AND novel_id = ?", userID, novelID).First(&existing).Error; err == nil {
		if err := h.DB.Delete(&existing).Error; err != nil {
			utils.LogErrorWithUser(userID, err, "Error removing bookmark in bookmarks.Toggle")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error removing bookmark"})
			return
		}
		bookmarked = false
	} else {
		bookmark := models.Bookmark{
			UserID:  userID.(string),
			NovelID: novelID,
		}
		if err := h.DB.Create(&bookmark).Error; err != nil {
			utils.LogErrorWithUser(userID, err, "Error adding bookmark in bookmarks.Toggle")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error adding bookmark"})
			return
		}
		bookmarked = true
	}

	var count int64
	h.DB.Model(&models.Bookmark{}).Where("novel_id = ?", novelID).Count(&count)

	c.JSON(http.StatusOK, gin.H{"bookmarked": bookmarked, "bookmarkCount": count})
}

// @Summary List my bookmarked novels
// @Tags bookmarks
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "novels"
// @Failure 401 {object} map[string]string "error: Unauthorized"
// @Failure 500 {object} map[string]string "error: Error message"
// @Router /bookmarks [get]
func (h *Handler) ListMine(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in token"})
		return
	}

	var bookmarks []models.Bookmark
	if err := h.DB.Where("user_id = ?", userID).Order("created_at DESC").Find(&bookmarks).Error; err != nil {
		utils.LogErrorWithUser(userID, err, "Error listing bookmarks in bookmarks.ListMine")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching bookmarks"})
		return
	}

	if len(bookmarks) == 0 {
		c.JSON(http.StatusOK, gin.H{"novels": []models.Novel{}})
		return
	}

	ids := make([]string, len(bookmarks))
	for i, b := range bookmarks {
		ids[i] = b.NovelID
	}

	var novels []models.Novel
	if err := h.DB.Where("id IN ?", ids).Find(&novels).Error; err != nil {
		utils.LogErrorWithUser(userID, err, "Error fetching bookmarked novels in bookmarks.ListMine")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching bookmarked novels"})
		return
	}

	// Keep the bookmark order, newest bookmark first.
	byID := make(map[string]models.Novel, len(novels))
	for _, n := range novels {
		byID[n.ID] = n
	}
	ordered := make([]models.Novel, 0, len(novels))
	for _, b := range bookmarks {
		if n, ok := byID[b.NovelID]; ok {
			ordered = append(ordered, n)
		}
	}

	c.JSON(http.StatusOK, gin.H{"novels": ordered})
}
