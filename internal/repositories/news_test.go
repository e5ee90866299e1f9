package repositories

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractCityState(t *testing.T) {
	tests := []struct {
		location string
		city     string
		state    string
	}{
		{"Seattle, WA", "Seattle", "Washington"},
		{"new orleans, la", "new orleans", "Louisiana"},
		{"Washington, DC", "Washington", "District of Columbia"},
		{"Paris", "Paris", ""},
		{"Springfield, XX", "Springfield", ""},
		{"  Boston ,  MA ", "Boston", "Massachusetts"},
	}

	for _, tt := range tests {
		city, state := ExtractCityState(tt.location)
		assert.Equal(t, tt.city, city, tt.location)
		assert.Equal(t, tt.state, state, tt.location)
	}
}

func TestFetchWeatherNews(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Contains(t, q.Get("q"), "Seattle OR Washington")
		assert.Contains(t, q.Get("q"), "-sports")
		assert.Equal(t, "en", q.Get("language"))
		assert.Equal(t, "relevancy", q.Get("sortBy"))
		assert.Equal(t, "3", q.Get("pageSize"))
		assert.Equal(t, "news-key", q.Get("apiKey"))

		w.Write([]byte(`{"articles": [
			{"title": "Heatwave hits Seattle", "description": "Temperatures soar", "publishedAt": "2026-08-27T10:00:00Z", "url": "https://example.com/1", "source": {"name": "Example News"}},
			{"title": "[Removed]", "description": "", "publishedAt": "", "url": "", "source": {"name": ""}}
		]}`))
	}))
	defer server.Close()

	repo := NewNewsRepository("news-key", testLogger(), &http.Client{})
	repo.baseURL = server.URL

	articles, err := repo.FetchWeatherNews(context.Background(), "Seattle, WA", 3, 3)
	require.NoError(t, err)

	// The article with an empty description is dropped.
	require.Len(t, articles, 1)
	assert.Equal(t, "Heatwave hits Seattle", articles[0].Title)
	assert.Equal(t, "Example News", articles[0].Source)
	assert.Equal(t, "Temperatures soar", articles[0].Snippet)
}

func TestFetchWeatherNewsHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	repo := NewNewsRepository("bad-key", testLogger(), &http.Client{})
	repo.baseURL = server.URL

	_, err := repo.FetchWeatherNews(context.Background(), "Seattle, WA", 3, 3)
	assert.Error(t, err)
}
