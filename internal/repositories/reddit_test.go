package repositories

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRedditServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()

	mux.HandleFunc("/api/v1/access_token", func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "client-id", user)
		assert.Equal(t, "client-secret", pass)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "client_credentials", r.Form.Get("grant_type"))
		w.Write([]byte(`{"access_token": "tok-123", "token_type": "bearer"}`))
	})

	mux.HandleFunc("/api/search_reddit_names", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))
		if r.URL.Query().Get("query") == "seattle" {
			w.Write([]byte(`{"names": ["Seattle", "SeattleWA", "gardening"]}`))
			return
		}
		w.Write([]byte(`{"names": []}`))
	})

	mux.HandleFunc("/r/", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))
		assert.Equal(t, "week", r.URL.Query().Get("t"))
		assert.Contains(t, r.URL.Query().Get("q"), "storm OR")

		if strings.Contains(r.URL.Path, "/r/weather/") {
			w.Write([]byte(`{"data": {"children": [
				{"data": {"title": "Storm rolling in", "created_utc": 1756300000, "url": "https://reddit.com/p/1", "selftext": "clouds building"}}
			]}}`))
			return
		}
		if strings.Contains(r.URL.Path, "/r/StormComing/") {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write([]byte(`{"data": {"children": []}}`))
	})

	return httptest.NewServer(mux)
}

func TestFetchWeatherPosts(t *testing.T) {
	server := testRedditServer(t)
	defer server.Close()

	repo := NewRedditRepository("client-id", "client-secret", "weather-chatbot", testLogger(), &http.Client{})
	repo.authURL = server.URL + "/api/v1/access_token"
	repo.baseURL = server.URL

	posts, err := repo.FetchWeatherPosts(context.Background(), "Seattle, WA", 10)
	require.NoError(t, err)

	// One hit from r/weather; the 404 from r/StormComing is skipped, the
	// rest return nothing.
	require.Len(t, posts, 1)
	assert.Equal(t, "Storm rolling in", posts[0].Title)
	assert.Equal(t, "weather", posts[0].Subreddit)
	assert.Equal(t, int64(1756300000), posts[0].CreatedUTC)
}

func TestFetchWeatherPostsAuthFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	repo := NewRedditRepository("bad", "creds", "weather-chatbot", testLogger(), &http.Client{})
	repo.authURL = server.URL
	repo.baseURL = server.URL

	_, err := repo.FetchWeatherPosts(context.Background(), "Seattle, WA", 10)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "reddit auth failed")
}

func TestLocationSubreddits(t *testing.T) {
	server := testRedditServer(t)
	defer server.Close()

	repo := NewRedditRepository("client-id", "client-secret", "weather-chatbot", testLogger(), &http.Client{})
	repo.authURL = server.URL + "/api/v1/access_token"
	repo.baseURL = server.URL

	subs := repo.locationSubreddits(context.Background(), "tok-123", "Seattle, WA")
	// "gardening" does not contain a location part and is filtered out.
	assert.Equal(t, []string{"Seattle", "SeattleWA"}, subs)
}
