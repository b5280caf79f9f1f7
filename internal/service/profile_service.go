package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/pranaysuyash/advay-learning/internal/domain"
	"github.com/pranaysuyash/advay-learning/internal/repository"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ProfileService struct {
	profiles repository.ProfileRepository
}

func NewProfileService(profiles repository.ProfileRepository) *ProfileService {
	return &ProfileService{profiles: profiles}
}

type ProfileInput struct {
	Name              string
	Age               *float64
	AvatarURL         *string
	PreferredLanguage *string
	Settings          datatypes.JSON
}

func (s *ProfileService) Create(ctx context.Context, parentID uuid.UUID, input ProfileInput) (*domain.Profile, error) {
	profile := &domain.Profile{
		ID:                uuid.New(),
		ParentID:          parentID,
		Name:              input.Name,
		Age:               input.Age,
		PreferredLanguage: "english",
		Settings:          datatypes.JSON([]byte("{}")),
		CreatedAt:         time.Now(),
		UpdatedAt:         time.Now(),
	}
	if input.AvatarURL != nil {
		profile.AvatarURL = *input.AvatarURL
	}
	if input.PreferredLanguage != nil {
		profile.PreferredLanguage = *input.PreferredLanguage
	}
	if input.Settings != nil {
		profile.Settings = input.Settings
	}

	if err := s.profiles.Create(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

func (s *ProfileService) ListByParent(ctx context.Context, parentID uuid.UUID) ([]*domain.Profile, error) {
	return s.profiles.GetByParentID(ctx, parentID)
}

// GetOwned fetches a profile and enforces that it belongs to parentID.
func (s *ProfileService) GetOwned(ctx context.Context, profileID, parentID uuid.UUID) (*domain.Profile, error) {
	profile, err := s.profiles.GetByID(ctx, profileID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, err
	}
	if profile.ParentID != parentID {
		return nil, domain.ErrNotProfileOwner
	}
	return profile, nil
}

func (s *ProfileService) Update(ctx context.Context, profileID, parentID uuid.UUID, input ProfileInput) (*domain.Profile, error) {
	profile, err := s.GetOwned(ctx, profileID, parentID)
	if err != nil {
		return nil, err
	}

	if input.Name != "" {
		profile.Name = input.Name
	}
	if input.Age != nil {
		profile.Age = input.Age
	}
	if input.AvatarURL != nil {
		profile.AvatarURL = *input.AvatarURL
	}
	if input.PreferredLanguage != nil {
		profile.PreferredLanguage = *input.PreferredLanguage
	}
	if input.Settings != nil {
		profile.Settings = input.Settings
	}
	profile.UpdatedAt = time.Now()

	if err := s.profiles.Update(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

func (s *ProfileService) Delete(ctx context.Context, profileID, parentID uuid.UUID) error {
	if _, err := s.GetOwned(ctx, profileID, parentID); err != nil {
		return err
	}
	return s.profiles.Delete(ctx, profileID)
}
