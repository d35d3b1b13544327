package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sandeshnepal106/quiz-app/models"
	"github.com/sandeshnepal106/quiz-app/services"
)

type SubmitAttemptInput struct {
	Responses []services.ResponseInput `json:"responses" binding:"required,dive"`
}

// SubmitAttempt nhận bài nộp, chấm điểm và trả kết quả ngay
func SubmitAttempt(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)
	userID := uuid.MustParse(c.GetString("user_id"))

	quizID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "ID quiz không hợp lệ"})
		return
	}

	var input SubmitAttemptInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	attempt, err := services.NewScoringService(db).SubmitAttempt(userID, quizID, input.Responses)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrQuizNotFound):
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Quiz không tồn tại"})
		case errors.Is(err, services.ErrEmptyResponses):
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Bài nộp không có câu trả lời nào"})
		case errors.Is(err, services.ErrQuestionNotInQuiz):
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Bài nộp chứa câu hỏi không thuộc quiz này"})
		case errors.Is(err, services.ErrDuplicateQuestion):
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Bài nộp trả lời trùng một câu hỏi nhiều lần"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Lỗi khi chấm bài"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Nộp bài thành công",
		"attempt": gin.H{
			"id":                        attempt.ID,
			"quiz_id":                   attempt.QuizID,
			"total_questions":           attempt.TotalQuestions,
			"total_questions_attempted": attempt.TotalQuestionsAttempted,
			"total_correct_answers":     attempt.TotalCorrectAnswers,
			"score":                     attempt.Score,
			"created_at":                attempt.CreatedAt,
		},
	})
}

// GetMyAttempts trả lịch sử làm bài của user, mới nhất trước
func GetMyAttempts(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)
	userID := c.GetString("user_id")

	var attempts []models.Attempt
	if err := db.Preload("Quiz", func(tx *gorm.DB) *gorm.DB {
		return tx.Select("id", "title", "slug", "created_by")
	}).Where("user_id = ?", userID).
		Order("created_at DESC").Find(&attempts).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Lỗi khi lấy lịch sử làm bài"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "attempts": attempts})
}

// GetAttemptDetail trả chi tiết một lần làm bài để xem lại
func GetAttemptDetail(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)
	viewerID := uuid.MustParse(c.GetString("user_id"))

	attemptID, err := uuid.Parse(c.Param("attemptID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "ID attempt không hợp lệ"})
		return
	}

	detail, err := services.NewReviewService(db).GetAttemptDetails(viewerID, attemptID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrAttemptNotFound):
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Attempt không tồn tại"})
		case errors.Is(err, services.ErrNotAttemptOwner):
			c.JSON(http.StatusForbidden, gin.H{"success": false, "message": "Bạn không có quyền xem attempt này"})
		case errors.Is(err, services.ErrQuizNotFound):
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Quiz của attempt không còn tồn tại"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Lỗi khi lấy chi tiết attempt"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "attempt": detail})
}
