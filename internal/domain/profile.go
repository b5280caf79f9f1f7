package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Profile is a child profile owned by a parent account. Deleting the parent
// cascades here, and deleting a profile cascades to its progress.
type Profile struct {
	ID                uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	ParentID          uuid.UUID      `json:"parentId" gorm:"type:uuid;not null;index"`
	Name              string         `json:"name" gorm:"not null"`
	Age               *float64       `json:"age"`
	AvatarURL         string         `json:"avatarUrl"`
	PreferredLanguage string         `json:"preferredLanguage" gorm:"default:'english'"`
	Settings          datatypes.JSON `json:"settings" gorm:"type:jsonb;default:'{}'"`
	CreatedAt         time.Time      `json:"createdAt"`
	UpdatedAt         time.Time      `json:"updatedAt"`

	Progress []Progress `json:"-" gorm:"foreignKey:ProfileID;constraint:OnDelete:CASCADE"`
}
