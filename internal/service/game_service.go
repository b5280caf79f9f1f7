package service

import (
	"context"
	"errors"

	"github.com/pranaysuyash/advay-learning/internal/domain"
	"github.com/pranaysuyash/advay-learning/internal/repository"
	"gorm.io/gorm"
)

type GameService struct {
	games repository.GameRepository
}

func NewGameService(games repository.GameRepository) *GameService {
	return &GameService{games: games}
}

func (s *GameService) ListPublished(ctx context.Context) ([]*domain.Game, error) {
	return s.games.GetPublished(ctx)
}

func (s *GameService) GetBySlug(ctx context.Context, slug string) (*domain.Game, error) {
	game, err := s.games.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrGameNotFound
		}
		return nil, err
	}
	return game, nil
}
