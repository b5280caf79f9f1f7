package testutil

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pranaysuyash/advay-learning/internal/domain"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// UserBuilder creates test users with a builder pattern
type UserBuilder struct {
	email    string
	password string
	verified bool
	active   bool
}

// NewUserBuilder creates a new UserBuilder with default values
func NewUserBuilder() *UserBuilder {
	return &UserBuilder{
		email:    fmt.Sprintf("test_%s@example.com", uuid.New().String()[:8]),
		password: "testpassword123",
		verified: true,
		active:   true,
	}
}

// WithEmail sets the email
func (b *UserBuilder) WithEmail(email string) *UserBuilder {
	b.email = email
	return b
}

// WithPassword sets the password
func (b *UserBuilder) WithPassword(password string) *UserBuilder {
	b.password = password
	return b
}

// Unverified marks the user's email as not yet verified
func (b *UserBuilder) Unverified() *UserBuilder {
	b.verified = false
	return b
}

// Inactive marks the account as deactivated
func (b *UserBuilder) Inactive() *UserBuilder {
	b.active = false
	return b
}

// Build creates the user in the database and returns the user with the raw password
func (b *UserBuilder) Build(t *testing.T, db *gorm.DB) (*domain.User, string) {
	t.Helper()

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(b.password), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &domain.User{
		ID:            uuid.New(),
		Email:         b.email,
		PasswordHash:  string(hashedPassword),
		Role:          domain.RoleParent,
		IsActive:      b.active,
		EmailVerified: b.verified,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}

	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	return user, b.password
}

// ProfileBuilder creates child profiles for a parent account
type ProfileBuilder struct {
	parentID uuid.UUID
	name     string
	age      *float64
}

func NewProfileBuilder(parentID uuid.UUID) *ProfileBuilder {
	return &ProfileBuilder{
		parentID: parentID,
		name:     fmt.Sprintf("child_%s", uuid.New().String()[:8]),
	}
}

func (b *ProfileBuilder) WithName(name string) *ProfileBuilder {
	b.name = name
	return b
}

func (b *ProfileBuilder) WithAge(age float64) *ProfileBuilder {
	b.age = &age
	return b
}

func (b *ProfileBuilder) Build(t *testing.T, db *gorm.DB) *domain.Profile {
	t.Helper()

	profile := &domain.Profile{
		ID:                uuid.New(),
		ParentID:          b.parentID,
		Name:              b.name,
		Age:               b.age,
		PreferredLanguage: "english",
		Settings:          datatypes.JSON([]byte("{}")),
		CreatedAt:         time.Now(),
		UpdatedAt:         time.Now(),
	}

	if err := db.Create(profile).Error; err != nil {
		t.Fatalf("failed to create profile: %v", err)
	}

	return profile
}

// BuildRefreshToken persists a refresh token row directly, bypassing the
// token service, for repository-level tests.
func BuildRefreshToken(t *testing.T, db *gorm.DB, userID uuid.UUID, expiresAt time.Time) *domain.RefreshToken {
	t.Helper()

	rt := &domain.RefreshToken{
		ID:        uuid.New(),
		Token:     uuid.New().String(),
		UserID:    userID,
		ExpiresAt: expiresAt,
		IsActive:  true,
		IsRevoked: false,
		CreatedAt: time.Now(),
	}

	if err := db.Create(rt).Error; err != nil {
		t.Fatalf("failed to create refresh token: %v", err)
	}

	return rt
}
