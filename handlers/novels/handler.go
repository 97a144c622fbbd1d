package novels

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"tene-backend/models"
	"tene-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
	catalogCacheTTL = 5 * time.Minute
)

type Handler struct {
	DB    *gorm.DB
	Cache *utils.Cache
}

func New(db *gorm.DB, cache *utils.Cache) *Handler {
	return &Handler{DB: db, Cache: cache}
}

type catalogPage struct {
	Novels   []models.Novel `json:"novels"`
	Page     int            `json:"page"`
	PageSize int            `json:"pageSize"`
	HasMore  bool           `json:"hasMore"`
}

// fillChapterCounts attaches the chapter total to every novel in one query.
func (h *Handler) fillChapterCounts(novels []models.Novel) {
	if len(novels) == 0 {
		return
	}

	ids := make([]string, len(novels))
	for i, n := range novels {
		ids[i] = n.ID
	}

	type countRow struct {
		NovelID string
		Count   int
	}
	var rows []countRow
	h.DB.Model(&models.Chapter{}).
		Select("novel_id, COUNT(*) as count").
		Where("novel_id IN ?", ids).
		Group("novel_id").
		Scan(&rows)

	counts := make(map[string]int, len(rows))
	for _, r := range rows {
		counts[r.NovelID] = r.Count
	}
	for i := range novels {
		novels[i].ChapterCount = counts[novels[i].ID]
	}
}

// @Summary List the novel catalog
// @Description Paginated catalog, optionally filtered by genre, status or a title search
// @Tags novels
// @Produce json
// @Param page query int false "Page number (1-based)"
// @Param pageSize query int false "Page size"
// @Param genre query string false "Filter by genre"
// @Param status query string false "Filter by status (ONGOING or FINISHED)"
// @Param search query string false "Search in titles"
// @Success 200 {object} map[string]interface{} "novels, page, pageSize, hasMore"
// @Failure 500 {object} map[string]string "error: Error message"
// @Router /novels [get]
func (h *Handler) GetAllNovels(c *gin.Context) {
	page, pageSize, offset := utils.PageParams(c, defaultPageSize, maxPageSize)

	genre := c.Query("genre")
	status := c.Query("status")
	search := c.Query("search")

	// Only unfiltered pages are worth caching; filtered combinations are
	// too sparse to hit.
	cacheable := genre == "" && status == "" && search == ""
	cacheKey := "novels:page:" + strconv.Itoa(page) + ":size:" + strconv.Itoa(pageSize)
	if cacheable {
		if cached := h.Cache.Get(cacheKey); cached != nil {
			if result, ok := cached.(catalogPage); ok {
				c.JSON(http.StatusOK, result)
				return
			}
		}
	}

	query := h.DB.Model(&models.Novel{})
	if genre != "" {
		query = query.Where("genres LIKE ?", "%"+genre+"%")
	}
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if search != "" {
		query = query.Where("title ILIKE ?", "%"+search+"%")
	}

	var novels []models.Novel
	err := query.Order("created_at DESC").
		Limit(pageSize).
		Offset(offset).
		Find(&novels).Error
	if err != nil {
		utils.LogError(err, "Error fetching catalog in GetAllNovels")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve novels"})
		return
	}

	h.fillChapterCounts(novels)

	result := catalogPage{
		Novels:   novels,
		Page:     page,
		PageSize: pageSize,
		HasMore:  utils.HasMore(len(novels), pageSize),
	}
	if cacheable {
		h.Cache.Set(cacheKey, result, catalogCacheTTL)
	}

	c.JSON(http.StatusOK, result)
}

// @Summary Get one novel
// @Description Retrieve a novel by its id
// @Tags novels
// @Produce json
// @Param id path string true "Novel ID"
// @Success 200 {object} models.Novel
// @Failure 400 {object} map[string]string "error: Invalid novel ID"
// @Failure 404 {object} map[string]string "error: Novel not found"
// @Router /novels/{id} [get]
func (h *Handler) GetNovelByID(c *gin.Context) {
	novelID := c.Param("id")
	if _, err := uuid.Parse(novelID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid novel ID"})
		return
	}

	var novel models.Novel
	if err := h.DB.First(&novel, "id = ?", novelID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Novel not found"})
		return
	}

	var count int64
	h.DB.Model(&models.Chapter{}).Where("novel_id = ?", novelID).Count(&count)
	novel.ChapterCount = int(count)

	c.JSON(http.StatusOK, novel)
}

// @Summary Create a novel
// @Description Add a novel to the catalog, with an optional cover image
// @Tags novels
// @Accept multipart/form-data
// @Produce json
// @Param title formData string true "Title"
// @Param authorName formData string false "Author name"
// @Param description formData string false "Description"
// @Param genres formData string false "Comma-separated genres"
// @Param cover formData file false "Cover image"
// @Security BearerAuth
// @Success 201 {object} models.Novel
// @Failure 400 {object} map[string]string "error: Invalid input"
// @Failure 401 {object} map[string]string "error: Unauthorized"
// @Failure 500 {object} map[string]string "error: Error message"
// @Router /novels [post]
func (h *Handler) CreateNovel(c *gin.Context) {
	title := c.Request.FormValue("title")
	if title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Title is required"})
		return
	}

	novel := models.Novel{
		Title:       title,
		AuthorName:  c.Request.FormValue("authorName"),
		Description: c.Request.FormValue("description"),
		Genres:      c.Request.FormValue("genres"),
		Status:      models.NovelOngoing,
	}
	if status := c.Request.FormValue("status"); status != "" {
		novel.Status = models.NovelStatus(status)
	}

	if file, err := c.FormFile("cover"); err == nil && file != nil {
		coverURL, err := utils.UploadImage(file, "novel_covers", "cover")
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error uploading cover: " + err.Error()})
			return
		}
		novel.CoverURL = coverURL
	}

	if err := h.DB.Create(&novel).Error; err != nil {
		utils.LogError(err, "Error creating novel in CreateNovel")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error creating novel: " + err.Error()})
		return
	}

	h.Cache.Purge()
	c.JSON(http.StatusCreated, novel)
}

// @Summary Update a novel
// @Description Update catalog fields of a novel
// @Tags novels
// @Accept json
// @Produce json
// @Param id path string true "Novel ID"
// @Param novel body models.NovelUpdate true "Fields to update"
// @Security BearerAuth
// @Success 200 {object} models.Novel
// @Failure 400 {object} map[string]string "error: Invalid input"
// @Failure 404 {object} map[string]string "error: Novel not found"
// @Failure 500 {object} map[string]string "error: Error message"
// @Router /novels/{id} [put]
func (h *Handler) UpdateNovel(c *gin.Context) {
	novelID := c.Param("id")

	var novel models.Novel
	if err := h.DB.First(&novel, "id = ?", novelID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Novel not found"})
		return
	}

	var input models.NovelUpdate
	if !utils.ValidateRequestBody(c, &input) {
		return
	}

	updates := map[string]interface{}{}
	if input.Title != "" {
		updates["title"] = input.Title
	}
	if input.AuthorName != "" {
		updates["author_name"] = input.AuthorName
	}
	if input.Description != "" {
		updates["description"] = input.Description
	}
	if input.Genres != "" {
		updates["genres"] = input.Genres
	}
	if input.Status != "" {
		if input.Status != models.NovelOngoing && input.Status != models.NovelFinished {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Unknown status %q", input.Status)})
			return
		}
		updates["status"] = input.Status
	}

	if err := h.DB.Model(&novel).Updates(updates).Error; err != nil {
		utils.LogError(err, "Error updating novel in UpdateNovel")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error updating novel"})
		return
	}

	h.Cache.Purge()
	c.JSON(http.StatusOK, novel)
}

// @Summary Delete a novel
// @Description Soft-delete a novel from the catalog
// @Tags novels
// @Produce json
// @Param id path string true "Novel ID"
// @Security BearerAuth
// @Success 200 {object} map[string]string "message: Novel deleted successfully"
// @Failure 404 {object} map[string]string "error: Novel not found"
// @Failure 500 {object} map[string]string "error: Error message"
// @Router /novels/{id} [delete]
func (h *Handler) DeleteNovel(c *gin.Context) {
	novelID := c.Param("id")

	var novel models.Novel
	if err := h.DB.First(&novel, "id = ?", novelID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Novel not found"})
		return
	}

	if err := h.DB.Delete(&novel).Error; err != nil {
		utils.LogError(err, "Error deleting novel in DeleteNovel")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error deleting novel"})
		return
	}

	h.Cache.Purge()
	c.JSON(http.StatusOK, gin.H{"message": "Novel deleted successfully"})
}
