package auth

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"tene-backend/testutils"

	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const userID = "cccccccc-cccc-cccc-cccc-cccccccccccc"

func TestMain(m *testing.M) {
	testutils.InitTestMain()

	os.Setenv("JWT_SECRET", "test-secret")
	log.SetOutput(io.Discard)

	exitCode := m.Run()

	log.SetOutput(os.Stdout)

	os.Exit(exitCode)
}

func userColumns() []string {
	return []string{"id", "email", "password", "user_name", "role", "enable", "created_at", "updated_at"}
}

func TestRegister_Success(t *testing.T) {
	db, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT \* FROM "users" WHERE email`).
		WillReturnError(gorm.ErrRecordNotFound)
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "users" (.+) RETURNING "id"`).
		WillReturnRows(mock.NewRows([]string{"id"}).AddRow(userID))
	mock.ExpectCommit()

	h := New(db)
	r := testutils.SetupTestRouter()
	r.POST("/register", h.Register)

	payload, _ := json.Marshal(map[string]string{
		"email":    "reader@example.com",
		"password": "Str0ngpass",
		"username": "reader",
	})
	req, _ := http.NewRequest(http.MethodPost, "/register", bytes.NewBuffer(payload))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusCreated, resp.Code)

	var body map[string]interface{}
	json.Unmarshal(resp.Body.Bytes(), &body)
	assert.Equal(t, "User created successfully", body["message"])
	assert.Equal(t, "reader@example.com", body["email"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegister_InvalidEmail(t *testing.T) {
	db, _, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	h := New(db)
	r := testutils.SetupTestRouter()
	r.POST("/register", h.Register)

	payload, _ := json.Marshal(map[string]string{
		"email":    "not-an-email",
		"password": "Str0ngpass",
	})
	req, _ := http.NewRequest(http.MethodPost, "/register", bytes.NewBuffer(payload))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestRegister_WeakPassword(t *testing.T) {
	db, _, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	h := New(db)
	r := testutils.SetupTestRouter()
	r.POST("/register", h.Register)

	payload, _ := json.Marshal(map[string]string{
		"email":    "reader@example.com",
		"password": "alllowercase",
	})
	req, _ := http.NewRequest(http.MethodPost, "/register", bytes.NewBuffer(payload))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	db, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	now := time.Now()
	mock.ExpectQuery(`SELECT \* FROM "users" WHERE email`).
		WillReturnRows(mock.NewRows(userColumns()).
			AddRow(userID, "reader@example.com", "hash", "reader", "USER", true, now, now))

	h := New(db)
	r := testutils.SetupTestRouter()
	r.POST("/register", h.Register)

	payload, _ := json.Marshal(map[string]string{
		"email":    "reader@example.com",
		"password": "Str0ngpass",
	})
	req, _ := http.NewRequest(http.MethodPost, "/register", bytes.NewBuffer(payload))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusConflict, resp.Code)

	var body map[string]string
	json.Unmarshal(resp.Body.Bytes(), &body)
	assert.Equal(t, "This email is already used", body["error"])
}

func TestLogin_Success(t *testing.T) {
	db, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	hash, _ := bcrypt.GenerateFromPassword([]byte("Str0ngpass"), bcrypt.DefaultCost)
	now := time.Now()
	mock.ExpectQuery(`SELECT \* FROM "users" WHERE email`).
		WillReturnRows(mock.NewRows(userColumns()).
			AddRow(userID, "reader@example.com", string(hash), "reader", "USER", true, now, now))

	h := New(db)
	r := testutils.SetupTestRouter()
	r.POST("/login", h.Login)

	payload, _ := json.Marshal(map[string]string{
		"email":    "reader@example.com",
		"password": "Str0ngpass",
	})
	req, _ := http.NewRequest(http.MethodPost, "/login", bytes.NewBuffer(payload))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusOK, resp.Code)

	var body map[string]interface{}
	json.Unmarshal(resp.Body.Bytes(), &body)
	assert.NotEmpty(t, body["token"])
}

func TestLogin_WrongPassword(t *testing.T) {
	db, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	hash, _ := bcrypt.GenerateFromPassword([]byte("Str0ngpass"), bcrypt.DefaultCost)
	now := time.Now()
	mock.ExpectQuery(`SELECT \* FROM "users" WHERE email`).
		WillReturnRows(mock.NewRows(userColumns()).
			AddRow(userID, "reader@example.com", string(hash), "reader", "USER", true, now, now))

	h := New(db)
	r := testutils.SetupTestRouter()
	r.POST("/login", h.Login)

	payload, _ := json.Marshal(map[string]string{
		"email":    "reader@example.com",
		"password": "wrong",
	})
	req, _ := http.NewRequest(http.MethodPost, "/login", bytes.NewBuffer(payload))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestLogin_UnknownEmail(t *testing.T) {
	db, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT \* FROM "users" WHERE email`).
		WillReturnError(gorm.ErrRecordNotFound)

	h := New(db)
	r := testutils.SetupTestRouter()
	r.POST("/login", h.Login)

	payload, _ := json.Marshal(map[string]string{
		"email":    "ghost@example.com",
		"password": "whatever",
	})
	req, _ := http.NewRequest(http.MethodPost, "/login", bytes.NewBuffer(payload))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestLogin_DisabledAccount(t *testing.T) {
	db, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	hash, _ := bcrypt.GenerateFromPassword([]byte("Str0ngpass"), bcrypt.DefaultCost)
	now := time.Now()
	mock.ExpectQuery(`SELECT \* FROM "users" WHERE email`).
		WillReturnRows(mock.NewRows(userColumns()).
			AddRow(userID, "reader@example.com", string(hash), "reader", "USER", false, now, now))

	h := New(db)
	r := testutils.SetupTestRouter()
	r.POST("/login", h.Login)

	payload, _ := json.Marshal(map[string]string{
		"email":    "reader@example.com",
		"password": "Str0ngpass",
	})
	req, _ := http.NewRequest(http.MethodPost, "/login", bytes.NewBuffer(payload))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}
