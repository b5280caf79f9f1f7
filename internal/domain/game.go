package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Game struct {
	ID              uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Title           string         `json:"title" gorm:"not null"`
	Slug            string         `json:"slug" gorm:"uniqueIndex;not null"`
	Description     string         `json:"description"`
	Icon            string         `json:"icon"`
	Category        string         `json:"category" gorm:"index;not null"`
	AgeRangeMin     int            `json:"ageRangeMin"`
	AgeRangeMax     int            `json:"ageRangeMax"`
	Difficulty      string         `json:"difficulty"`
	DurationMinutes int            `json:"durationMinutes"`
	GamePath        string         `json:"gamePath"`
	IsPublished     bool           `json:"isPublished" gorm:"default:true;index"`
	IsFeatured      bool           `json:"isFeatured" gorm:"default:false"`
	Config          datatypes.JSON `json:"config" gorm:"type:jsonb;default:'{}'"`
	TotalPlays      int            `json:"totalPlays" gorm:"default:0"`
	CreatedAt       time.Time      `json:"createdAt"`
	UpdatedAt       time.Time      `json:"updatedAt"`
}
