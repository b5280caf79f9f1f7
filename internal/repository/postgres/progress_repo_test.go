package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pranaysuyash/advay-learning/internal/domain"
	"github.com/pranaysuyash/advay-learning/internal/repository/postgres"
	"github.com/pranaysuyash/advay-learning/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func progressRecord(profileID uuid.UUID, key *string) *domain.Progress {
	return &domain.Progress{
		ProfileID:       profileID,
		ActivityType:    "letter_tracing",
		ContentID:       "letter_a",
		Score:           90,
		DurationSeconds: 45,
		IdempotencyKey:  key,
		CompletedAt:     time.Now(),
	}
}

func TestProgressRepository_UniqueKeyPerProfile(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	ctx := context.Background()

	parent, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	profile := testutil.NewProfileBuilder(parent.ID).Build(t, testDB.DB)
	sibling := testutil.NewProfileBuilder(parent.ID).WithName("Sibling").Build(t, testDB.DB)

	key := "client-key-1"
	first := progressRecord(profile.ID, &key)
	require.NoError(t, repos.Progress.Create(ctx, first))

	t.Run("same key same profile violates constraint", func(t *testing.T) {
		dup := progressRecord(profile.ID, &key)
		err := repos.Progress.Create(ctx, dup)
		assert.ErrorIs(t, err, domain.ErrDuplicateKey)
	})

	t.Run("same key different profile is allowed", func(t *testing.T) {
		other := progressRecord(sibling.ID, &key)
		assert.NoError(t, repos.Progress.Create(ctx, other))
	})

	t.Run("winner is retrievable by key", func(t *testing.T) {
		got, err := repos.Progress.GetByProfileAndKey(ctx, profile.ID, key)
		require.NoError(t, err)
		assert.Equal(t, first.ID, got.ID)
	})
}

func TestProgressRepository_NullKeysAreNotUnique(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	ctx := context.Background()

	parent, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	profile := testutil.NewProfileBuilder(parent.ID).Build(t, testDB.DB)

	// Partial-index semantics: NULL keys never collide with each other.
	for i := 0; i < 3; i++ {
		record := progressRecord(profile.ID, nil)
		require.NoError(t, repos.Progress.Create(ctx, record), "insert %d", i)
	}

	records, err := repos.Progress.GetByProfileID(ctx, profile.ID)
	require.NoError(t, err)
	assert.Len(t, records, 3)
}

func TestProgressRepository_GetByProfileIDOrdering(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	ctx := context.Background()

	parent, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	profile := testutil.NewProfileBuilder(parent.ID).Build(t, testDB.DB)

	older := progressRecord(profile.ID, nil)
	older.ContentID = "letter_a"
	older.CompletedAt = time.Now().Add(-time.Hour)
	require.NoError(t, repos.Progress.Create(ctx, older))

	newer := progressRecord(profile.ID, nil)
	newer.ContentID = "letter_b"
	require.NoError(t, repos.Progress.Create(ctx, newer))

	records, err := repos.Progress.GetByProfileID(ctx, profile.ID)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "letter_b", records[0].ContentID, "newest first")
	assert.Equal(t, "letter_a", records[1].ContentID)
}
