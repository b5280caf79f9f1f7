package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pranaysuyash/advay-learning/internal/domain"
	"gorm.io/gorm"
)

type refreshTokenRepository struct {
	db *gorm.DB
}

func NewRefreshTokenRepository(db *gorm.DB) *refreshTokenRepository {
	return &refreshTokenRepository{db: db}
}

func (r *refreshTokenRepository) Create(ctx context.Context, token *domain.RefreshToken) error {
	return r.db.WithContext(ctx).Create(token).Error
}

func (r *refreshTokenRepository) GetByToken(ctx context.Context, token string) (*domain.RefreshToken, error) {
	var rt domain.RefreshToken
	err := r.db.WithContext(ctx).First(&rt, "token = ?", token).Error
	if err != nil {
		return nil, err
	}
	return &rt, nil
}

// Revoke is the one-shot rotation guard: the WHERE clause only matches a
// still-usable row, so of two concurrent rotations exactly one sees
// RowsAffected == 1.
func (r *refreshTokenRepository) Revoke(ctx context.Context, id uuid.UUID, at time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&domain.RefreshToken{}).
		Where("id = ? AND is_active = ? AND is_revoked = ?", id, true, false).
		Updates(map[string]interface{}{
			"is_active":  false,
			"is_revoked": true,
			"revoked_at": at,
		})
	return result.RowsAffected, result.Error
}

func (r *refreshTokenRepository) RevokeAllByUserID(ctx context.Context, userID uuid.UUID, at time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&domain.RefreshToken{}).
		Where("user_id = ? AND is_active = ? AND is_revoked = ?", userID, true, false).
		Updates(map[string]interface{}{
			"is_active":  false,
			"is_revoked": true,
			"revoked_at": at,
		})
	return result.RowsAffected, result.Error
}

func (r *refreshTokenRepository) CountActiveByUserID(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.RefreshToken{}).
		Where("user_id = ? AND is_active = ? AND is_revoked = ? AND expires_at > ?", userID, true, false, time.Now()).
		Count(&count).Error
	return count, err
}
