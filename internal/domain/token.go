package domain

import (
	"time"

	"github.com/google/uuid"
)

// RefreshToken is one link in a session lineage. Exactly one token per lineage
// is current; rotation revokes the old row and inserts a new one. A revoked
// token is terminal and is never reactivated.
type RefreshToken struct {
	ID        uuid.UUID  `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Token     string     `json:"-" gorm:"uniqueIndex;not null"`
	UserID    uuid.UUID  `json:"userId" gorm:"type:uuid;not null;index"`
	ExpiresAt time.Time  `json:"expiresAt" gorm:"not null"`
	IsActive  bool       `json:"isActive" gorm:"default:true"`
	IsRevoked bool       `json:"isRevoked" gorm:"default:false"`
	RevokedAt *time.Time `json:"revokedAt"`
	CreatedAt time.Time  `json:"createdAt"`
}

// Usable reports whether the token can still mint a new pair.
func (t *RefreshToken) Usable(now time.Time) bool {
	return t.IsActive && !t.IsRevoked && now.Before(t.ExpiresAt)
}
