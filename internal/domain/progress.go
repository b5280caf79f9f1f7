package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Progress records one completed activity for a profile. Once written through
// the batch protocol a row is never updated.
//
// IdempotencyKey is optional and client-supplied. The composite unique index
// on (profile_id, idempotency_key) is the dedup contract for retried
// submissions; Postgres permits any number of NULL keys, so records without a
// key are never deduplicated.
type Progress struct {
	ID              uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	ProfileID       uuid.UUID      `json:"profileId" gorm:"type:uuid;not null;uniqueIndex:uix_profile_idempotency"`
	ActivityType    string         `json:"activityType" gorm:"not null"` // letter_tracing, recognition, game
	ContentID       string         `json:"contentId" gorm:"not null"`    // letter, word, object identifier
	Score           int            `json:"score" gorm:"default:0"`
	DurationSeconds int            `json:"durationSeconds" gorm:"default:0"`
	MetaData        datatypes.JSON `json:"metaData" gorm:"type:jsonb;default:'{}'"`
	IdempotencyKey  *string        `json:"idempotencyKey" gorm:"uniqueIndex:uix_profile_idempotency"`
	CompletedAt     time.Time      `json:"completedAt"`
}
