package domain

import (
	"time"

	"github.com/google/uuid"
)

type UserRole string

const (
	RoleParent UserRole = "parent"
	RoleAdmin  UserRole = "admin"
)

type User struct {
	ID           uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Email        string    `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash string    `json:"-" gorm:"not null"`
	Role         UserRole  `json:"role" gorm:"type:varchar(16);default:'parent'"`
	IsActive     bool      `json:"isActive" gorm:"default:true"`

	EmailVerified            bool       `json:"emailVerified" gorm:"default:false"`
	EmailVerificationToken   *string    `json:"-" gorm:"index"`
	EmailVerificationExpires *time.Time `json:"-"`

	PasswordResetToken   *string    `json:"-" gorm:"index"`
	PasswordResetExpires *time.Time `json:"-"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Profiles      []Profile      `json:"-" gorm:"foreignKey:ParentID;constraint:OnDelete:CASCADE"`
	RefreshTokens []RefreshToken `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}
