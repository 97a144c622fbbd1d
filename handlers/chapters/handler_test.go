package chapters

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"tene-backend/testutils"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

const (
	novelID   = "aaaaaaaa-aaaa-aaaa-aaaa-aaaaaaaaaaaa"
	chapterID = "bbbbbbbb-bbbb-bbbb-bbbb-bbbbbbbbbbbb"
	readerID  = "cccccccc-cccc-cccc-cccc-cccccccccccc"
)

func TestMain(m *testing.M) {
	testutils.InitTestMain()

	log.SetOutput(io.Discard)

	exitCode := m.Run()

	log.SetOutput(os.Stdout)

	os.Exit(exitCode)
}

func asUser(userID, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Set("role", role)
		c.Next()
	}
}

func chapterColumns() []string {
	return []string{"id", "novel_id", "number", "title", "body", "is_locked", "like_count", "created_at", "updated_at"}
}

func chapterRow(mock sqlmock.Sqlmock, locked bool, body string) *sqlmock.Rows {
	now := time.Now()
	return mock.NewRows(chapterColumns()).
		AddRow(chapterID, novelID, 1.0, "Chapter One", body, locked, 0, now, now)
}

func novelRow(mock sqlmock.Sqlmock) *sqlmock.Rows {
	return mock.NewRows([]string{"id", "title", "status"}).
		AddRow(novelID, "The Long Road", "ONGOING")
}

func TestListChapters_ReadingOrder(t *testing.T) {
	db, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	now := time.Now()
	mock.ExpectQuery(`SELECT \* FROM "novels" WHERE id`).
		WillReturnRows(novelRow(mock))
	mock.ExpectQuery(`SELECT .+ FROM "chapters" WHERE novel_id`).
		WillReturnRows(mock.NewRows([]string{"id", "novel_id", "number", "title", "is_locked", "like_count", "created_at", "updated_at"}).
			AddRow("ch1", novelID, 1.0, "One", false, 0, now, now).
			AddRow("ch2", novelID, 1.5, "Interlude", false, 0, now, now).
			AddRow("ch3", novelID, 2.0, "Two", true, 0, now, now))

	h := New(db)
	r := testutils.SetupTestRouter()
	r.GET("/novels/:id/chapters", h.ListChapters)

	req, _ := http.NewRequest(http.MethodGet, "/novels/"+novelID+"/chapters", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusOK, resp.Code)

	var body struct {
		Chapters []struct {
			ID       string  `json:"id"`
			Number   float64 `json:"number"`
			IsLocked bool    `json:"isLocked"`
			Body     string  `json:"body"`
		} `json:"chapters"`
		HasMore bool `json:"hasMore"`
	}
	err := json.Unmarshal(resp.Body.Bytes(), &body)
	assert.NoError(t, err)

	assert.Len(t, body.Chapters, 3)
	assert.Equal(t, 1.5, body.Chapters[1].Number)
	assert.True(t, body.Chapters[2].IsLocked)
	// List never carries chapter bodies.
	for _, ch := range body.Chapters {
		assert.Empty(t, ch.Body)
	}
	assert.False(t, body.HasMore)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListChapters_NovelNotFound(t *testing.T) {
	db, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT \* FROM "novels" WHERE id`).
		WillReturnError(gorm.ErrRecordNotFound)

	h := New(db)
	r := testutils.SetupTestRouter()
	r.GET("/novels/:id/chapters", h.ListChapters)

	req, _ := http.NewRequest(http.MethodGet, "/novels/"+novelID+"/chapters", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestGetChapter_RendersBody(t *testing.T) {
	db, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT \* FROM "chapters" WHERE id`).
		WillReturnRows(chapterRow(mock, false, "# Dawn\n\nThe road went *on*."))

	h := New(db)
	r := testutils.SetupTestRouter()
	r.GET("/chapters/:id", h.GetChapter)

	req, _ := http.NewRequest(http.MethodGet, "/chapters/"+chapterID, nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusOK, resp.Code)

	var body map[string]interface{}
	json.Unmarshal(resp.Body.Bytes(), &body)
	assert.Contains(t, body["bodyHtml"], "<h1>Dawn</h1>")
	assert.Contains(t, body["bodyHtml"], "<em>on</em>")
	// The raw Markdown source stays server-side.
	assert.Empty(t, body["body"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetChapter_InvalidID(t *testing.T) {
	db, _, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	h := New(db)
	r := testutils.SetupTestRouter()
	r.GET("/chapters/:id", h.GetChapter)

	req, _ := http.NewRequest(http.MethodGet, "/chapters/not-a-uuid", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestGetChapter_LockedWithoutSubscription(t *testing.T) {
	db, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT \* FROM "chapters" WHERE id`).
		WillReturnRows(chapterRow(mock, true, "secret text"))
	mock.ExpectQuery(`SELECT \* FROM "subscriptions" WHERE user_id`).
		WillReturnError(gorm.ErrRecordNotFound)

	h := New(db)
	r := testutils.SetupTestRouter()
	r.GET("/chapters/:id", asUser(readerID, "USER"), h.GetChapter)

	req, _ := http.NewRequest(http.MethodGet, "/chapters/"+chapterID, nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusPaymentRequired, resp.Code)
	assert.NotContains(t, resp.Body.String(), "secret text")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetChapter_LockedAnonymous(t *testing.T) {
	db, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT \* FROM "chapters" WHERE id`).
		WillReturnRows(chapterRow(mock, true, "secret text"))

	h := New(db)
	r := testutils.SetupTestRouter()
	r.GET("/chapters/:id", h.GetChapter)

	req, _ := http.NewRequest(http.MethodGet, "/chapters/"+chapterID, nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusPaymentRequired, resp.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetChapter_LockedWithActiveSubscription(t *testing.T) {
	db, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	now := time.Now()
	mock.ExpectQuery(`SELECT \* FROM "chapters" WHERE id`).
		WillReturnRows(chapterRow(mock, true, "premium text"))
	mock.ExpectQuery(`SELECT \* FROM "subscriptions" WHERE user_id`).
		WillReturnRows(mock.NewRows([]string{"id", "user_id", "status", "start_date", "end_date"}).
			AddRow("sub-1", readerID, "ACTIVE", now.Add(-time.Hour), nil))
	mock.ExpectQuery(`SELECT \* FROM "likes" WHERE subject_type`).
		WillReturnRows(mock.NewRows([]string{"id", "subject_type", "subject_id", "user_id", "created_at"}))

	h := New(db)
	r := testutils.SetupTestRouter()
	r.GET("/chapters/:id", asUser(readerID, "SUBSCRIBER"), h.GetChapter)

	req, _ := http.NewRequest(http.MethodGet, "/chapters/"+chapterID, nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusOK, resp.Code)

	var body map[string]interface{}
	json.Unmarshal(resp.Body.Bytes(), &body)
	assert.Contains(t, body["bodyHtml"], "premium text")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetChapter_LockedAdminBypasses(t *testing.T) {
	db, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT \* FROM "chapters" WHERE id`).
		WillReturnRows(chapterRow(mock, true, "premium text"))
	mock.ExpectQuery(`SELECT \* FROM "likes" WHERE subject_type`).
		WillReturnRows(mock.NewRows([]string{"id", "subject_type", "subject_id", "user_id", "created_at"}))

	h := New(db)
	r := testutils.SetupTestRouter()
	r.GET("/chapters/:id", asUser(readerID, "ADMIN"), h.GetChapter)

	req, _ := http.NewRequest(http.MethodGet, "/chapters/"+chapterID, nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestToggleLike_Unauthenticated(t *testing.T) {
	db, _, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	h := New(db)
	r := testutils.SetupTestRouter()
	r.POST("/chapters/:id/like", h.ToggleLike)

	req, _ := http.NewRequest(http.MethodPost, "/chapters/"+chapterID+"/like", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestToggleLike_LikesChapter(t *testing.T) {
	db, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT \* FROM "chapters" WHERE id`).
		WillReturnRows(chapterRow(mock, false, "text"))

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "likes" WHERE subject_type`).
		WillReturnRows(mock.NewRows([]string{"id", "subject_type", "subject_id", "user_id", "created_at"}))
	mock.ExpectQuery(`INSERT INTO "likes"`).
		WillReturnRows(mock.NewRows([]string{"id"}).AddRow("like-1"))
	mock.ExpectExec(`UPDATE "chapters" SET "like_count"=like_count`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	mock.ExpectQuery(`SELECT like_count FROM "chapters" WHERE id`).
		WillReturnRows(mock.NewRows([]string{"like_count"}).AddRow(1))

	h := New(db)
	r := testutils.SetupTestRouter()
	r.POST("/chapters/:id/like", asUser(readerID, "USER"), h.ToggleLike)

	req, _ := http.NewRequest(http.MethodPost, "/chapters/"+chapterID+"/like", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusOK, resp.Code)

	var body map[string]interface{}
	json.Unmarshal(resp.Body.Bytes(), &body)
	assert.Equal(t, true, body["liked"])
	assert.Equal(t, float64(1), body["likeCount"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestToggleLike_CountReadFailureReturns500(t *testing.T) {
	db, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT \* FROM "chapters" WHERE id`).
		WillReturnRows(chapterRow(mock, false, "text"))

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "likes" WHERE subject_type`).
		WillReturnRows(mock.NewRows([]string{"id", "subject_type", "subject_id", "user_id", "created_at"}))
	mock.ExpectQuery(`INSERT INTO "likes"`).
		WillReturnRows(mock.NewRows([]string{"id"}).AddRow("like-1"))
	mock.ExpectExec(`UPDATE "chapters" SET "like_count"=like_count`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	mock.ExpectQuery(`SELECT like_count FROM "chapters" WHERE id`).
		WillReturnError(errors.New("connection reset"))

	h := New(db)
	r := testutils.SetupTestRouter()
	r.POST("/chapters/:id/like", asUser(readerID, "USER"), h.ToggleLike)

	req, _ := http.NewRequest(http.MethodPost, "/chapters/"+chapterID+"/like", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusInternalServerError, resp.Code)
	assert.Contains(t, resp.Body.String(), "Error reading like count")
	assert.NoError(t, mock.ExpectationsWereMet())
}
