package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Like dùng khóa chính kép nên mỗi cặp (user, quiz) chỉ like được một lần,
// hai request trùng nhau thì request sau bị DB từ chối
type Like struct {
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	QuizID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"quiz_id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`

	User User `gorm:"constraint:OnDelete:CASCADE;" json:"user,omitempty"`
	Quiz Quiz `gorm:"constraint:OnDelete:CASCADE;" json:"quiz,omitempty"`
}

type Comment struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	QuizID uuid.UUID `gorm:"type:uuid;not null;index" json:"quiz_id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`

	Comment   string    `gorm:"type:text;not null" json:"comment"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`

	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Quiz Quiz `gorm:"foreignKey:QuizID;constraint:OnDelete:CASCADE;" json:"-"`
}

func (c *Comment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
