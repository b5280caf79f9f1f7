package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pranaysuyash/advay-learning/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByVerificationToken(ctx context.Context, token string, now time.Time) (*domain.User, error)
	GetByPasswordResetToken(ctx context.Context, token string, now time.Time) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type ProfileRepository interface {
	Create(ctx context.Context, profile *domain.Profile) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Profile, error)
	GetByParentID(ctx context.Context, parentID uuid.UUID) ([]*domain.Profile, error)
	Update(ctx context.Context, profile *domain.Profile) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type ProgressRepository interface {
	// Create returns domain.ErrDuplicateKey when the insert loses the
	// (profile_id, idempotency_key) unique-constraint race.
	Create(ctx context.Context, progress *domain.Progress) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Progress, error)
	GetByProfileID(ctx context.Context, profileID uuid.UUID) ([]*domain.Progress, error)
	GetByProfileAndKey(ctx context.Context, profileID uuid.UUID, key string) (*domain.Progress, error)
}

type RefreshTokenRepository interface {
	Create(ctx context.Context, token *domain.RefreshToken) error
	GetByToken(ctx context.Context, token string) (*domain.RefreshToken, error)
	// Revoke marks a single token revoked and inactive. It reports how many
	// rows changed: zero means another request already rotated the token.
	Revoke(ctx context.Context, id uuid.UUID, at time.Time) (int64, error)
	RevokeAllByUserID(ctx context.Context, userID uuid.UUID, at time.Time) (int64, error)
	CountActiveByUserID(ctx context.Context, userID uuid.UUID) (int64, error)
}

type GameRepository interface {
	Create(ctx context.Context, game *domain.Game) error
	GetBySlug(ctx context.Context, slug string) (*domain.Game, error)
	GetPublished(ctx context.Context) ([]*domain.Game, error)
	Update(ctx context.Context, game *domain.Game) error
}

type Repositories struct {
	User         UserRepository
	Profile      ProfileRepository
	Progress     ProgressRepository
	RefreshToken RefreshTokenRepository
	Game         GameRepository
}
