package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name       string    `gorm:"size:150;not null" json:"name"`
	Username   string    `gorm:"size:50;uniqueIndex;not null" json:"username"`
	Email      string    `gorm:"size:150;uniqueIndex;not null" json:"email"`
	Password   string    `gorm:"type:text;not null" json:"-"`
	ProfilePic string    `gorm:"type:text" json:"profile_pic"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Sở thích của user, dùng chung bảng tags với quiz
	Interests []Tag `gorm:"many2many:user_interests" json:"interests,omitempty"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// PasswordReset lưu OTP đặt lại mật khẩu gửi qua email
type PasswordReset struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Email     string    `gorm:"size:150;not null;index" json:"email"`
	Otp       string    `gorm:"size:6;not null" json:"-"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (p *PasswordReset) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
