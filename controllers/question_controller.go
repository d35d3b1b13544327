package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/sandeshnepal106/quiz-app/models"
)

// quizOwnedBy kiểm tra quyền sửa quiz trước khi thao tác câu hỏi
func quizOwnedBy(db *gorm.DB, quizID, userID string) (*models.Quiz, int, string) {
	var quiz models.Quiz
	if err := db.Where("id = ?", quizID).First(&quiz).Error; err != nil {
		return nil, http.StatusNotFound, "Quiz không tồn tại"
	}
	if quiz.CreatedBy.String() != userID {
		return nil, http.StatusForbidden, "Bạn không có quyền sửa quiz này"
	}
	return &quiz, 0, ""
}

func CreateQuestion(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)
	userID := c.GetString("user_id")

	quiz, status, msg := quizOwnedBy(db, c.Param("id"), userID)
	if quiz == nil {
		c.JSON(status, gin.H{"success": false, "message": msg})
		return
	}

	var input QuestionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	question := models.Question{
		QuizID:   quiz.ID,
		Question: input.Question,
	}
	for _, o := range input.Options {
		question.Options = append(question.Options, models.Option{
			Option:    o.Option,
			IsCorrect: o.IsCorrect,
		})
	}

	if err := db.Create(&question).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Lỗi khi tạo câu hỏi"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Thêm câu hỏi thành công", "question": question})
}

type UpdateQuestionInput struct {
	Question string `json:"question" binding:"required"`
}

func UpdateQuestion(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)
	userID := c.GetString("user_id")

	var question models.Question
	if err := db.Where("id = ?", c.Param("questionID")).First(&question).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Câu hỏi không tồn tại"})
		return
	}

	quiz, status, msg := quizOwnedBy(db, question.QuizID.String(), userID)
	if quiz == nil {
		c.JSON(status, gin.H{"success": false, "message": msg})
		return
	}

	var input UpdateQuestionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	question.Question = input.Question
	if err := db.Save(&question).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Lỗi khi cập nhật câu hỏi"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Cập nhật câu hỏi thành công", "question": question})
}

func DeleteQuestion(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)
	userID := c.GetString("user_id")

	var question models.Question
	if err := db.Where("id = ?", c.Param("questionID")).First(&question).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Câu hỏi không tồn tại"})
		return
	}

	quiz, status, msg := quizOwnedBy(db, question.QuizID.String(), userID)
	if quiz == nil {
		c.JSON(status, gin.H{"success": false, "message": msg})
		return
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("question_id = ?", question.ID).Delete(&models.Option{}).Error; err != nil {
			return err
		}
		return tx.Delete(&question).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Lỗi khi xoá câu hỏi"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Xoá câu hỏi thành công"})
}

func CreateOption(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)
	userID := c.GetString("user_id")

	var question models.Question
	if err := db.Where("id = ?", c.Param("questionID")).First(&question).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Câu hỏi không tồn tại"})
		return
	}

	quiz, status, msg := quizOwnedBy(db, question.QuizID.String(), userID)
	if quiz == nil {
		c.JSON(status, gin.H{"success": false, "message": msg})
		return
	}

	var input OptionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	option := models.Option{
		QuestionID: question.ID,
		Option:     input.Option,
		IsCorrect:  input.IsCorrect,
	}
	if err := db.Create(&option).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Lỗi khi tạo lựa chọn"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Thêm lựa chọn thành công", "option": option})
}
