package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/pranaysuyash/advay-learning/internal/domain"
	"gorm.io/gorm"
)

type progressRepository struct {
	db *gorm.DB
}

func NewProgressRepository(db *gorm.DB) *progressRepository {
	return &progressRepository{db: db}
}

func (r *progressRepository) Create(ctx context.Context, progress *domain.Progress) error {
	err := r.db.WithContext(ctx).Create(progress).Error
	if isUniqueViolation(err) {
		// A concurrent submission with the same idempotency key won the
		// insert race; the caller re-reads and reports the winner.
		return domain.ErrDuplicateKey
	}
	return err
}

func (r *progressRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Progress, error) {
	var progress domain.Progress
	err := r.db.WithContext(ctx).First(&progress, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &progress, nil
}

func (r *progressRepository) GetByProfileID(ctx context.Context, profileID uuid.UUID) ([]*domain.Progress, error) {
	var records []*domain.Progress
	err := r.db.WithContext(ctx).
		Where("profile_id = ?", profileID).
		Order("completed_at DESC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *progressRepository) GetByProfileAndKey(ctx context.Context, profileID uuid.UUID, key string) (*domain.Progress, error) {
	var progress domain.Progress
	err := r.db.WithContext(ctx).
		First(&progress, "profile_id = ? AND idempotency_key = ?", profileID, key).Error
	if err != nil {
		return nil, err
	}
	return &progress, nil
}
