package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/pranaysuyash/advay-learning/internal/repository/postgres"
	"github.com/pranaysuyash/advay-learning/internal/service"
	"github.com/pranaysuyash/advay-learning/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenService_AccessToken(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	cfg := testutil.TestConfig()
	tokenService := service.NewTokenService(repos.RefreshToken, repos.User, cfg)

	user, _ := testutil.NewUserBuilder().Build(t, testDB.DB)

	token, err := tokenService.IssueAccessToken(user)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userID, err := tokenService.VerifyAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, userID)

	_, err = tokenService.VerifyAccessToken("not-a-token")
	assert.ErrorIs(t, err, service.ErrTokenInvalid)

	// Token signed with another secret must not verify.
	otherCfg := testutil.TestConfig()
	otherCfg.JWTSecret = "a-different-secret"
	otherService := service.NewTokenService(repos.RefreshToken, repos.User, otherCfg)
	foreign, err := otherService.IssueAccessToken(user)
	require.NoError(t, err)
	_, err = tokenService.VerifyAccessToken(foreign)
	assert.ErrorIs(t, err, service.ErrTokenInvalid)
}

func TestTokenService_Rotate(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	cfg := testutil.TestConfig()
	tokenService := service.NewTokenService(repos.RefreshToken, repos.User, cfg)
	ctx := context.Background()

	user, _ := testutil.NewUserBuilder().Build(t, testDB.DB)

	pair, err := tokenService.IssuePair(ctx, user)
	require.NoError(t, err)
	oldToken := pair.RefreshToken.Token

	// First rotation succeeds and returns a different token.
	newPair, rotatedUser, err := tokenService.Rotate(ctx, oldToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, rotatedUser.ID)
	assert.NotEqual(t, oldToken, newPair.RefreshToken.Token)

	// The new access token validates.
	userID, err := tokenService.VerifyAccessToken(newPair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, userID)

	// Rotation is one-shot: replaying the old token fails as revoked.
	_, _, err = tokenService.Rotate(ctx, oldToken)
	assert.ErrorIs(t, err, service.ErrTokenRevoked)
}

func TestTokenService_RotateReuseRevokesLineage(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	cfg := testutil.TestConfig()
	tokenService := service.NewTokenService(repos.RefreshToken, repos.User, cfg)
	ctx := context.Background()

	user, _ := testutil.NewUserBuilder().Build(t, testDB.DB)

	pair, err := tokenService.IssuePair(ctx, user)
	require.NoError(t, err)
	oldToken := pair.RefreshToken.Token

	newPair, _, err := tokenService.Rotate(ctx, oldToken)
	require.NoError(t, err)

	// Replaying the rotated token is reuse; the whole lineage dies with it.
	_, _, err = tokenService.Rotate(ctx, oldToken)
	require.ErrorIs(t, err, service.ErrTokenRevoked)

	_, _, err = tokenService.Rotate(ctx, newPair.RefreshToken.Token)
	assert.ErrorIs(t, err, service.ErrTokenRevoked, "descendant token must be dead after reuse detection")

	count, err := repos.RefreshToken.CountActiveByUserID(ctx, user.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestTokenService_RotateExpired(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	cfg := testutil.TestConfig()
	tokenService := service.NewTokenService(repos.RefreshToken, repos.User, cfg)
	ctx := context.Background()

	user, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	expired := testutil.BuildRefreshToken(t, testDB.DB, user.ID, time.Now().Add(-time.Hour))

	_, _, err := tokenService.Rotate(ctx, expired.Token)
	assert.ErrorIs(t, err, service.ErrTokenExpired)
}

func TestTokenService_RotateUnknownToken(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	cfg := testutil.TestConfig()
	tokenService := service.NewTokenService(repos.RefreshToken, repos.User, cfg)

	_, _, err := tokenService.Rotate(context.Background(), "never-issued")
	assert.ErrorIs(t, err, service.ErrTokenInvalid)
}

func TestTokenService_RotateInactiveUser(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	cfg := testutil.TestConfig()
	tokenService := service.NewTokenService(repos.RefreshToken, repos.User, cfg)
	ctx := context.Background()

	user, _ := testutil.NewUserBuilder().Inactive().Build(t, testDB.DB)
	rt := testutil.BuildRefreshToken(t, testDB.DB, user.ID, time.Now().Add(time.Hour))

	_, _, err := tokenService.Rotate(ctx, rt.Token)
	assert.ErrorIs(t, err, service.ErrTokenInvalid)
}

func TestTokenService_RevokeIsIdempotent(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	cfg := testutil.TestConfig()
	tokenService := service.NewTokenService(repos.RefreshToken, repos.User, cfg)
	ctx := context.Background()

	user, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	pair, err := tokenService.IssuePair(ctx, user)
	require.NoError(t, err)

	require.NoError(t, tokenService.Revoke(ctx, pair.RefreshToken.Token))
	require.NoError(t, tokenService.Revoke(ctx, pair.RefreshToken.Token))
	require.NoError(t, tokenService.Revoke(ctx, "unknown-token"))

	_, _, err = tokenService.Rotate(ctx, pair.RefreshToken.Token)
	assert.ErrorIs(t, err, service.ErrTokenRevoked)
}
