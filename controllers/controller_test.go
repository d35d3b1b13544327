package controllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/sandeshnepal106/quiz-app/config"
	"github.com/sandeshnepal106/quiz-app/middleware"
	"github.com/sandeshnepal106/quiz-app/models"
	"github.com/sandeshnepal106/quiz-app/utils"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Setenv("JWT_SECRET", "test-secret")
	os.Exit(m.Run())
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("không mở được sqlite in-memory: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("không lấy được sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := config.Migrate(db); err != nil {
		t.Fatalf("migrate thất bại: %v", err)
	}
	return db
}

// newTestRouter dựng router con với đúng các route được test
func newTestRouter(db *gorm.DB) *gin.Engine {
	r := gin.New()

	api := r.Group("/api")
	api.Use(middleware.DBMiddleware(db))

	auth := api.Group("/auth")
	auth.POST("/register", Register)
	auth.POST("/login", Login)

	quiz := api.Group("/quiz")
	quiz.GET("/:id/comments", middleware.OptionalAuthMiddleware(), GetComments)
	quiz.GET("/:id/like", middleware.OptionalAuthMiddleware(), GetLike)
	quiz.Use(middleware.AuthMiddleware())
	quiz.POST("", CreateQuiz)
	quiz.GET("/:id", GetQuiz)
	quiz.POST("/:id/attempt", SubmitAttempt)
	quiz.POST("/:id/like", LikeQuiz)
	quiz.DELETE("/:id/like", UnlikeQuiz)
	quiz.POST("/:id/comments", CreateComment)

	user := api.Group("/user")
	user.Use(middleware.AuthMiddleware())
	user.GET("/attempts/:attemptID", GetAttemptDetail)
	user.POST("/:id/follow", FollowUser)

	return r
}

func createTestUser(t *testing.T, db *gorm.DB, username string) models.User {
	t.Helper()
	user := models.User{
		Name:     username,
		Username: username,
		Email:    username + "@example.com",
		Password: "hashed",
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("không tạo được user %s: %v", username, err)
	}
	return user
}

func createTestQuiz(t *testing.T, db *gorm.DB, owner uuid.UUID, title string, numQuestions int) models.Quiz {
	t.Helper()
	quiz := models.Quiz{Title: title, CreatedBy: owner}
	for i := 0; i < numQuestions; i++ {
		question := models.Question{Question: fmt.Sprintf("Câu hỏi %d", i+1)}
		for j := 0; j < 4; j++ {
			question.Options = append(question.Options, models.Option{
				Option:    fmt.Sprintf("Lựa chọn %d", j+1),
				IsCorrect: j == 0,
			})
		}
		quiz.Questions = append(quiz.Questions, question)
	}
	if err := db.Create(&quiz).Error; err != nil {
		t.Fatalf("không tạo được quiz: %v", err)
	}
	if err := db.Preload("Questions.Options").First(&quiz, "id = ?", quiz.ID).Error; err != nil {
		t.Fatalf("không load lại được quiz: %v", err)
	}
	return quiz
}

func tokenFor(t *testing.T, user models.User) string {
	t.Helper()
	token, err := utils.GenerateToken(user.ID.String())
	if err != nil {
		t.Fatalf("không tạo được token: %v", err)
	}
	return token
}

// doJSON gửi request JSON, token rỗng nghĩa là anonymous
func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("không encode được body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("body không phải JSON: %v (%s)", err, w.Body.String())
	}
	return out
}

func TestAuthMiddlewareRejectsMissingToken(t *testing.T) {
	db := newTestDB(t)
	r := newTestRouter(db)

	w := doJSON(t, r, http.MethodPost, "/api/quiz", "", gin.H{"title": "x"})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, muốn 401", w.Code)
	}
}
