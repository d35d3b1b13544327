package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Quiz struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	Slug        string    `gorm:"size:255;index" json:"slug"`
	IsPrivate   bool      `gorm:"default:false" json:"is_private"`

	CreatedBy uuid.UUID `gorm:"type:uuid;not null;index" json:"created_by"`
	Creator   User      `gorm:"foreignKey:CreatedBy;references:ID;constraint:OnDelete:CASCADE;" json:"creator,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Tags []Tag `gorm:"many2many:quiz_tags" json:"tags,omitempty"`
	// Danh sách user được xem khi quiz ở chế độ riêng tư
	AllowedUsers []User     `gorm:"many2many:quiz_allowed_users" json:"allowed_users,omitempty"`
	Questions    []Question `gorm:"foreignKey:QuizID" json:"questions,omitempty"`
}

func (q *Quiz) BeforeCreate(tx *gorm.DB) error {
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	return nil
}

type Question struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	QuizID uuid.UUID `gorm:"type:uuid;not null;index" json:"quiz_id"`
	Quiz   Quiz      `gorm:"foreignKey:QuizID;references:ID;constraint:OnDelete:CASCADE;" json:"-"`

	Question string `gorm:"type:text;not null" json:"question"`
	// Thứ tự câu hỏi là thứ tự thêm vào quiz
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	Options   []Option  `gorm:"foreignKey:QuestionID" json:"options,omitempty"`
}

func (q *Question) BeforeCreate(tx *gorm.DB) error {
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	return nil
}

type Option struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	QuestionID uuid.UUID `gorm:"type:uuid;not null;index" json:"question_id"`
	Question   Question  `gorm:"foreignKey:QuestionID;references:ID;constraint:OnDelete:CASCADE;" json:"-"`
	Option     string    `gorm:"type:text;not null" json:"option"`
	IsCorrect  bool      `gorm:"default:false" json:"is_correct"`
}

func (o *Option) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}
