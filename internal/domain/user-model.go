package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	AuthProviderLocal  = "local"
	AuthProviderGoogle = "google"
)

type User struct {
	ID             string  `gorm:"type:uuid;primaryKey" json:"id"`
	Email          string  `gorm:"uniqueIndex;not null" json:"email"`
	Username       *string `gorm:"uniqueIndex" json:"username,omitempty"`
	FullName       string  `gorm:"not null" json:"full_name"`
	HashedPassword *string `json:"-"`
	Role           Role    `gorm:"type:varchar(50);not null;default:user" json:"role"`
	IsActive       bool    `gorm:"not null;default:true" json:"is_active"`
	IsVerified     bool    `gorm:"not null;default:false" json:"is_verified"`
	AuthProvider   string  `gorm:"type:varchar(20);not null;default:local" json:"auth_provider"`
	GoogleID       *string `gorm:"uniqueIndex" json:"google_id,omitempty"`
	AvatarURL      *string `json:"avatar_url,omitempty"`
	Bio            *string `json:"bio,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}
