package postgres

import (
	"context"

	"github.com/pranaysuyash/advay-learning/internal/domain"
	"gorm.io/gorm"
)

type gameRepository struct {
	db *gorm.DB
}

func NewGameRepository(db *gorm.DB) *gameRepository {
	return &gameRepository{db: db}
}

func (r *gameRepository) Create(ctx context.Context, game *domain.Game) error {
	err := r.db.WithContext(ctx).Create(game).Error
	if isUniqueViolation(err) {
		return domain.ErrDuplicateKey
	}
	return err
}

func (r *gameRepository) GetBySlug(ctx context.Context, slug string) (*domain.Game, error) {
	var game domain.Game
	err := r.db.WithContext(ctx).First(&game, "slug = ?", slug).Error
	if err != nil {
		return nil, err
	}
	return &game, nil
}

func (r *gameRepository) GetPublished(ctx context.Context) ([]*domain.Game, error) {
	var games []*domain.Game
	err := r.db.WithContext(ctx).
		Where("is_published = ?", true).
		Order("category ASC, title ASC").
		Find(&games).Error
	if err != nil {
		return nil, err
	}
	return games, nil
}

func (r *gameRepository) Update(ctx context.Context, game *domain.Game) error {
	return r.db.WithContext(ctx).Save(game).Error
}
