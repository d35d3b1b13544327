package models

import (
	"time"

	"github.com/google/uuid"
)

// Follow dùng khóa chính kép (follower, following) để không thể follow trùng
type Follow struct {
	FollowerID  uuid.UUID `gorm:"type:uuid;primaryKey" json:"follower_id"`
	FollowingID uuid.UUID `gorm:"type:uuid;primaryKey" json:"following_id"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`

	Follower  User `gorm:"foreignKey:FollowerID;references:ID;constraint:OnDelete:CASCADE;" json:"follower,omitempty"`
	Following User `gorm:"foreignKey:FollowingID;references:ID;constraint:OnDelete:CASCADE;" json:"following,omitempty"`
}
