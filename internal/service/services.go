package service

import (
	"github.com/pranaysuyash/advay-learning/internal/config"
	"github.com/pranaysuyash/advay-learning/internal/email"
	"github.com/pranaysuyash/advay-learning/internal/repository"
)

type Services struct {
	Auth     *AuthService
	Token    *TokenService
	Profile  *ProfileService
	Progress *ProgressService
	Game     *GameService
}

func NewServices(repos *repository.Repositories, cfg *config.Config) *Services {
	mailer := email.NewSender(cfg.FrontendURL)
	tokens := NewTokenService(repos.RefreshToken, repos.User, cfg)
	lockouts := NewLockoutTracker()

	return &Services{
		Auth:     NewAuthService(repos.User, tokens, lockouts, mailer, cfg),
		Token:    tokens,
		Profile:  NewProfileService(repos.Profile),
		Progress: NewProgressService(repos.Progress),
		Game:     NewGameService(repos.Game),
	}
}
