package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Attempt là bản ghi lịch sử một lần làm quiz, không bao giờ sửa sau khi tạo
type Attempt struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	User   User      `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE;" json:"-"`
	QuizID uuid.UUID `gorm:"type:uuid;not null;index" json:"quiz_id"`
	Quiz   Quiz      `gorm:"foreignKey:QuizID;references:ID;constraint:OnDelete:CASCADE;" json:"quiz,omitempty"`

	TotalQuestions          int     `gorm:"not null" json:"total_questions"`
	TotalQuestionsAttempted int     `gorm:"not null" json:"total_questions_attempted"`
	TotalCorrectAnswers     int     `gorm:"not null" json:"total_correct_answers"`
	Score                   float64 `gorm:"type:numeric(5,2);default:0" json:"score"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`

	Responses []AttemptResponse `gorm:"foreignKey:AttemptID" json:"responses,omitempty"`
}

func (a *Attempt) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// AttemptResponse là câu trả lời cho từng câu hỏi trong một attempt.
// Text của lựa chọn và đáp án đúng được chụp lại tại thời điểm chấm,
// để xem lại vẫn đúng dù option bị sửa hoặc xóa sau đó.
type AttemptResponse struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	AttemptID uuid.UUID `gorm:"type:uuid;not null;index" json:"attempt_id"`
	Attempt   Attempt   `gorm:"foreignKey:AttemptID;references:ID;constraint:OnDelete:CASCADE;" json:"-"`

	QuestionID       uuid.UUID `gorm:"type:uuid;not null" json:"question_id"`
	SelectedOptionID uuid.UUID `gorm:"type:uuid;not null" json:"selected_option_id"`
	IsCorrect        bool      `gorm:"default:false" json:"is_correct"`

	SelectedOptionText string    `gorm:"type:text" json:"selected_option_text"`
	CorrectOptionID    uuid.UUID `gorm:"type:uuid" json:"correct_option_id"`
	CorrectOptionText  string    `gorm:"type:text" json:"correct_option_text"`
}

func (r *AttemptResponse) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
