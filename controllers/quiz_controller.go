package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"

	"github.com/sandeshnepal106/quiz-app/models"
	"github.com/sandeshnepal106/quiz-app/services"
)

// ====== INPUT STRUCTS ======
type OptionInput struct {
	Option    string `json:"option" binding:"required"`
	IsCorrect bool   `json:"is_correct"`
}

type QuestionInput struct {
	Question string        `json:"question" binding:"required"`
	Options  []OptionInput `json:"options" binding:"required,min=2,dive"`
}

type CreateQuizInput struct {
	Title        string          `json:"title" binding:"required"`
	Description  string          `json:"description"`
	IsPrivate    bool            `json:"is_private"`
	Tags         []string        `json:"tags"`
	AllowedUsers []string        `json:"allowed_users"` // username của người được xem quiz riêng tư
	Questions    []QuestionInput `json:"questions" binding:"dive"`
}

type UpdateQuizInput struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	IsPrivate   *bool    `json:"is_private"`
	Tags        []string `json:"tags"`
}

// upsertTags tìm hoặc tạo tag theo tên (chuẩn hoá chữ thường)
func upsertTags(db *gorm.DB, names []string) ([]models.Tag, error) {
	var tags []models.Tag
	for _, name := range names {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" {
			continue
		}
		var tag models.Tag
		if err := db.Where("name = ?", name).FirstOrCreate(&tag, models.Tag{Name: name}).Error; err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	return tags, nil
}

// ====== HANDLERS ======
func CreateQuiz(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)
	userID := uuid.MustParse(c.GetString("user_id"))

	var input CreateQuizInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	quiz := models.Quiz{
		Title:       input.Title,
		Description: input.Description,
		Slug:        slug.Make(input.Title),
		IsPrivate:   input.IsPrivate,
		CreatedBy:   userID,
	}

	// Câu hỏi và lựa chọn tạo cùng quiz trong một transaction
	for _, q := range input.Questions {
		question := models.Question{Question: q.Question}
		for _, o := range q.Options {
			question.Options = append(question.Options, models.Option{
				Option:    o.Option,
				IsCorrect: o.IsCorrect,
			})
		}
		quiz.Questions = append(quiz.Questions, question)
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		tags, err := upsertTags(tx, input.Tags)
		if err != nil {
			return err
		}
		quiz.Tags = tags

		if len(input.AllowedUsers) > 0 {
			var allowed []models.User
			if err := tx.Where("username IN ?", input.AllowedUsers).Find(&allowed).Error; err != nil {
				return err
			}
			quiz.AllowedUsers = allowed
		}

		return tx.Create(&quiz).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Lỗi khi tạo quiz"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Tạo quiz thành công", "quiz": quiz})
}

func UpdateQuiz(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)
	userID := c.GetString("user_id")
	quizID := c.Param("id")

	var quiz models.Quiz
	if err := db.Where("id = ?", quizID).First(&quiz).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Quiz không tồn tại"})
		return
	}
	if quiz.CreatedBy.String() != userID {
		c.JSON(http.StatusForbidden, gin.H{"success": false, "message": "Bạn không có quyền sửa quiz này"})
		return
	}

	var input UpdateQuizInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	if input.Title != nil {
		quiz.Title = *input.Title
		quiz.Slug = slug.Make(*input.Title)
	}
	if input.Description != nil {
		quiz.Description = *input.Description
	}
	if input.IsPrivate != nil {
		quiz.IsPrivate = *input.IsPrivate
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if input.Tags != nil {
			tags, err := upsertTags(tx, input.Tags)
			if err != nil {
				return err
			}
			if err := tx.Model(&quiz).Association("Tags").Replace(tags); err != nil {
				return err
			}
		}
		return tx.Save(&quiz).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Lỗi khi cập nhật quiz"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Cập nhật quiz thành công", "quiz": quiz})
}

func DeleteQuiz(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)
	userID := c.GetString("user_id")
	quizID := c.Param("id")

	var quiz models.Quiz
	if err := db.Where("id = ?", quizID).First(&quiz).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Quiz không tồn tại"})
		return
	}
	if quiz.CreatedBy.String() != userID {
		c.JSON(http.StatusForbidden, gin.H{"success": false, "message": "Bạn không có quyền xoá quiz này"})
		return
	}

	// Xoá quiz kèm dữ liệu liên quan trong một transaction
	err := db.Transaction(func(tx *gorm.DB) error {
		var questionIDs []uuid.UUID
		if err := tx.Model(&models.Question{}).Where("quiz_id = ?", quiz.ID).Pluck("id", &questionIDs).Error; err != nil {
			return err
		}
		if len(questionIDs) > 0 {
			if err := tx.Where("question_id IN ?", questionIDs).Delete(&models.Option{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("quiz_id = ?", quiz.ID).Delete(&models.Question{}).Error; err != nil {
			return err
		}
		if err := tx.Where("quiz_id = ?", quiz.ID).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Where("quiz_id = ?", quiz.ID).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&quiz).Association("Tags").Clear(); err != nil {
			return err
		}
		if err := tx.Model(&quiz).Association("AllowedUsers").Clear(); err != nil {
			return err
		}
		return tx.Delete(&quiz).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Lỗi khi xoá quiz"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Xoá quiz thành công"})
}

// DTO trả câu hỏi cho người làm quiz, ẩn đáp án đúng
type quizOptionView struct {
	ID     uuid.UUID `json:"id"`
	Option string    `json:"option"`
}

type quizQuestionView struct {
	ID       uuid.UUID        `json:"id"`
	Question string           `json:"question"`
	Options  []quizOptionView `json:"options"`
}

func GetQuiz(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)
	viewerID := c.GetString("user_id")
	quizID := c.Param("id")

	var quiz models.Quiz
	if err := db.Preload("Creator").Preload("Tags").
		Preload("Questions.Options").
		Where("id = ?", quizID).First(&quiz).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Quiz không tồn tại"})
		return
	}

	isOwner := quiz.CreatedBy.String() == viewerID

	// Quiz riêng tư chỉ chủ sở hữu và người được chia sẻ mới xem được
	if quiz.IsPrivate && !isOwner {
		var count int64
		db.Table("quiz_allowed_users").
			Where("quiz_id = ? AND user_id = ?", quiz.ID, viewerID).
			Count(&count)
		if count == 0 {
			c.JSON(http.StatusForbidden, gin.H{"success": false, "message": "Bạn không có quyền xem quiz này"})
			return
		}
	}

	var likeCount, commentCount int64
	db.Model(&models.Like{}).Where("quiz_id = ?", quiz.ID).Count(&likeCount)
	db.Model(&models.Comment{}).Where("quiz_id = ?", quiz.ID).Count(&commentCount)

	resp := gin.H{
		"id":          quiz.ID,
		"title":       quiz.Title,
		"description": quiz.Description,
		"slug":        quiz.Slug,
		"is_private":  quiz.IsPrivate,
		"created_at":  quiz.CreatedAt,
		"tags":        quiz.Tags,
		"creator": gin.H{
			"id":       quiz.Creator.ID,
			"name":     quiz.Creator.Name,
			"username": quiz.Creator.Username,
		},
		"like_count":    likeCount,
		"comment_count": commentCount,
	}

	if isOwner {
		// Chủ sở hữu xem đầy đủ kèm đáp án đúng
		resp["questions"] = quiz.Questions
	} else {
		questions := make([]quizQuestionView, 0, len(quiz.Questions))
		for _, q := range quiz.Questions {
			view := quizQuestionView{ID: q.ID, Question: q.Question}
			for _, o := range q.Options {
				view.Options = append(view.Options, quizOptionView{ID: o.ID, Option: o.Option})
			}
			questions = append(questions, view)
		}
		resp["questions"] = questions
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "quiz": resp})
}

// GetMyQuizzes trả danh sách quiz của chính user
func GetMyQuizzes(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)
	userID := c.GetString("user_id")

	var quizzes []models.Quiz
	if err := db.Preload("Tags").
		Where("created_by = ?", userID).
		Order("created_at DESC").Find(&quizzes).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Lỗi khi lấy danh sách quiz"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "quizzes": quizzes})
}

// GetPrivateQuizzes trả danh sách quiz riêng tư được chia sẻ với user
func GetPrivateQuizzes(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)
	userID := c.GetString("user_id")

	var quizzes []models.Quiz
	if err := db.Preload("Creator").Preload("Tags").
		Joins("JOIN quiz_allowed_users qau ON qau.quiz_id = quizzes.id").
		Where("qau.user_id = ? AND quizzes.is_private = ?", userID, true).
		Order("quizzes.created_at DESC").Find(&quizzes).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Lỗi khi lấy danh sách quiz riêng tư"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "quizzes": quizzes})
}

// ====== TẠO QUIZ BẰNG AI ======
type GenerateQuizInput struct {
	Topic        string `json:"topic" binding:"required"`
	NumQuestions int    `json:"num_questions"`
}

type aiQuizPayload struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Questions   []struct {
		Question string `json:"question"`
		Options  []struct {
			Option    string `json:"option"`
			IsCorrect bool   `json:"is_correct"`
		} `json:"options"`
	} `json:"questions"`
}

func GenerateQuizWithAI(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)
	userID := uuid.MustParse(c.GetString("user_id"))

	var input GenerateQuizInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}
	if input.NumQuestions <= 0 || input.NumQuestions > 20 {
		input.NumQuestions = 5
	}

	prompt := fmt.Sprintf(`Tạo một bài quiz trắc nghiệm về chủ đề "%s" với %d câu hỏi.
Mỗi câu có 4 lựa chọn, đúng một lựa chọn có is_correct = true.
Chỉ trả về JSON thuần theo đúng định dạng sau, không thêm giải thích:
{"title": "...", "description": "...", "questions": [{"question": "...", "options": [{"option": "...", "is_correct": true}]}]}`,
		input.Topic, input.NumQuestions)

	// Gemini đôi lúc trả JSON lỗi, thử lại tối đa 3 lần
	var payload aiQuizPayload
	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		raw, err := services.GeminiGenerateText(prompt)
		if err != nil {
			lastErr = err
			continue
		}
		cleaned := strings.TrimSpace(raw)
		cleaned = strings.TrimPrefix(cleaned, "```json")
		cleaned = strings.TrimPrefix(cleaned, "```")
		cleaned = strings.TrimSuffix(cleaned, "```")
		if err := json.Unmarshal([]byte(strings.TrimSpace(cleaned)), &payload); err != nil {
			lastErr = err
			continue
		}
		lastErr = nil
		break
	}
	if lastErr != nil || len(payload.Questions) == 0 {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "AI không tạo được quiz hợp lệ, vui lòng thử lại"})
		return
	}

	// Quiz AI tạo để ở chế độ riêng tư cho user xem lại trước khi công khai
	quiz := models.Quiz{
		Title:       payload.Title,
		Description: payload.Description,
		Slug:        slug.Make(payload.Title),
		IsPrivate:   true,
		CreatedBy:   userID,
	}
	for _, q := range payload.Questions {
		question := models.Question{Question: q.Question}
		for _, o := range q.Options {
			question.Options = append(question.Options, models.Option{
				Option:    o.Option,
				IsCorrect: o.IsCorrect,
			})
		}
		quiz.Questions = append(quiz.Questions, question)
	}

	if err := db.Create(&quiz).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Lỗi khi lưu quiz"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Tạo quiz bằng AI thành công", "quiz": quiz})
}
