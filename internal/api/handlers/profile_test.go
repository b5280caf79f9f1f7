package handlers_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/pranaysuyash/advay-learning/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileHandler_CRUD(t *testing.T) {
	ts := testutil.NewTestServer(t)

	_, password := testutil.NewUserBuilder().
		WithEmail("parent@example.com").
		Build(t, ts.DB.DB)

	client := newClient(t)
	resp := login(t, ts, client, "parent@example.com", password)
	testutil.AssertStatusCode(t, resp, http.StatusOK)

	type profileResponse struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}

	var created profileResponse
	t.Run("create", func(t *testing.T) {
		resp := postJSON(t, client, ts.APIURL("/users/me/profiles/"), map[string]interface{}{
			"name":              "Advay",
			"age":               4.5,
			"preferredLanguage": "english",
		})
		testutil.AssertStatusCode(t, resp, http.StatusOK)
		testutil.AssertJSONResponse(t, resp, &created)
		assert.NotEmpty(t, created.ID)
		assert.Equal(t, "Advay", created.Name)
	})

	t.Run("list", func(t *testing.T) {
		resp, err := client.Get(ts.APIURL("/users/me/profiles/"))
		require.NoError(t, err)
		defer resp.Body.Close()
		testutil.AssertStatusCode(t, resp, http.StatusOK)

		var profiles []profileResponse
		testutil.AssertJSONResponse(t, resp, &profiles)
		require.Len(t, profiles, 1)
		assert.Equal(t, created.ID, profiles[0].ID)
	})

	t.Run("update", func(t *testing.T) {
		req, err := newJSONRequest(http.MethodPut,
			ts.APIURL("/users/me/profiles/"+created.ID),
			map[string]interface{}{"name": "Advay Jr", "age": 5.0})
		require.NoError(t, err)
		resp, err := client.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		testutil.AssertStatusCode(t, resp, http.StatusOK)

		var updated profileResponse
		testutil.AssertJSONResponse(t, resp, &updated)
		assert.Equal(t, "Advay Jr", updated.Name)
	})

	t.Run("delete", func(t *testing.T) {
		req, err := http.NewRequest(http.MethodDelete, ts.APIURL("/users/me/profiles/"+created.ID), nil)
		require.NoError(t, err)
		resp, err := client.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		testutil.AssertStatusCode(t, resp, http.StatusOK)

		get, err := client.Get(ts.APIURL("/users/me/profiles/" + created.ID))
		require.NoError(t, err)
		defer get.Body.Close()
		testutil.AssertStatusCode(t, get, http.StatusNotFound)
	})
}

func TestProfileHandler_CrossParentAccess(t *testing.T) {
	ts := testutil.NewTestServer(t)

	owner, _ := testutil.NewUserBuilder().
		WithEmail("owner@example.com").
		Build(t, ts.DB.DB)
	profile := testutil.NewProfileBuilder(owner.ID).Build(t, ts.DB.DB)

	_, password := testutil.NewUserBuilder().
		WithEmail("intruder@example.com").
		Build(t, ts.DB.DB)

	client := newClient(t)
	resp := login(t, ts, client, "intruder@example.com", password)
	testutil.AssertStatusCode(t, resp, http.StatusOK)

	urls := map[string]func() (*http.Response, error){
		"get": func() (*http.Response, error) {
			return client.Get(ts.APIURL("/users/me/profiles/" + profile.ID.String()))
		},
		"delete": func() (*http.Response, error) {
			req, err := http.NewRequest(http.MethodDelete, ts.APIURL("/users/me/profiles/"+profile.ID.String()), nil)
			if err != nil {
				return nil, err
			}
			return client.Do(req)
		},
	}

	for name, do := range urls {
		t.Run(fmt.Sprintf("%s another parent's profile", name), func(t *testing.T) {
			resp, err := do()
			require.NoError(t, err)
			defer resp.Body.Close()
			testutil.AssertStatusCode(t, resp, http.StatusForbidden)
		})
	}
}
