package handlers_test

import (
	"net/http"
	"testing"

	"github.com/pranaysuyash/advay-learning/internal/domain"
	"github.com/pranaysuyash/advay-learning/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedGame(t *testing.T, ts *testutil.TestServer, slug string, published bool) {
	t.Helper()
	err := ts.DB.DB.Create(&domain.Game{
		Title:       slug,
		Slug:        slug,
		Category:    "alphabet",
		AgeRangeMin: 3,
		AgeRangeMax: 6,
		IsPublished: published,
	}).Error
	require.NoError(t, err)
}

func TestGameHandler_List(t *testing.T) {
	ts := testutil.NewTestServer(t)

	seedGame(t, ts, "letter-safari", true)
	seedGame(t, ts, "unreleased-game", false)

	resp, err := http.Get(ts.APIURL("/games/"))
	require.NoError(t, err)
	defer resp.Body.Close()
	testutil.AssertStatusCode(t, resp, http.StatusOK)

	var games []struct {
		Slug string `json:"slug"`
	}
	testutil.AssertJSONResponse(t, resp, &games)
	require.Len(t, games, 1, "unpublished games stay hidden")
	assert.Equal(t, "letter-safari", games[0].Slug)
}

func TestGameHandler_Get(t *testing.T) {
	ts := testutil.NewTestServer(t)

	seedGame(t, ts, "letter-safari", true)

	t.Run("found", func(t *testing.T) {
		resp, err := http.Get(ts.APIURL("/games/letter-safari"))
		require.NoError(t, err)
		defer resp.Body.Close()
		testutil.AssertStatusCode(t, resp, http.StatusOK)

		var game struct {
			Slug     string `json:"slug"`
			Category string `json:"category"`
		}
		testutil.AssertJSONResponse(t, resp, &game)
		assert.Equal(t, "letter-safari", game.Slug)
		assert.Equal(t, "alphabet", game.Category)
	})

	t.Run("unknown slug", func(t *testing.T) {
		resp, err := http.Get(ts.APIURL("/games/no-such-game"))
		require.NoError(t, err)
		defer resp.Body.Close()
		testutil.AssertErrorResponse(t, resp, http.StatusNotFound, "Game not found")
	})
}
