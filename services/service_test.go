package services

import (
	"fmt"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/sandeshnepal106/quiz-app/config"
	"github.com/sandeshnepal106/quiz-app/models"
)

// newTestDB mở SQLite in-memory và migrate schema như production
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("không mở được sqlite in-memory: %v", err)
	}

	// In-memory DB gắn với một connection duy nhất
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

// createTestQuiz tạo quiz public với numQuestions câu hỏi,
// mỗi câu 4 lựa chọn và lựa chọn đầu tiên là đáp án đúng
func createTestQuiz(t *testing.T, db *gorm.DB, owner uuid.UUID, title string, numQuestions int) models.Quiz {
	t.Helper()

	quiz := models.Quiz{
		Title:     title,
		CreatedBy: owner,
	}
	for i := 0; i < numQuestions; i++ {
		question := models.Question{Question: fmt.Sprintf("Câu hỏi %d của %s", i+1, title)}
		for j := 0; j < 4; j++ {
			question.Options = append(question.Options, models.Option{
				Option:    fmt.Sprintf("Lựa chọn %d", j+1),
				IsCorrect: j == 0,
			})
		}
		quiz.Questions = append(quiz.Questions, question)
	}
	if err := db.Create(&quiz).Error; err != nil {
		t.Fatalf("không tạo được quiz %s: %v", title, err)
	}

	if err := db.Preload("Questions.Options").First(&quiz, "id = ?", quiz.ID).Error; err != nil {
		t.Fatalf("không load lại được quiz: %v", err)
	}
	return quiz
}

// correctOption trả về option đúng của một câu hỏi đã seed
func correctOption(t *testing.T, q models.Question) models.Option {
	t.Helper()
	for _, o := range q.Options {
		if o.IsCorrect {
			return o
		}
	}
	t.Fatalf("câu hỏi %s không có đáp án đúng", q.ID)
	return models.Option{}
}

// wrongOption trả về một option sai của câu hỏi
func wrongOption(t *testing.T, q models.Question) models.Option {
	t.Helper()
	for _, o := range q.Options {
		if !o.IsCorrect {
			return o
		}
	}
	t.Fatalf("câu hỏi %s không có lựa chọn sai", q.ID)
	return models.Option{}
}
