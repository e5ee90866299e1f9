package wrangle

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/thehaltingverse/weather-chatbot/internal/models"
)

func TestFormatNews(t *testing.T) {
	articles := []models.Article{
		{
			Title:         "Heat wave grips the valley",
			Source:        "Example Tribune",
			DatePublished: "2025-07-24T10:00:00Z",
			Snippet:       "Temperatures soar past records.",
			URL:           "https://news.example.com/heat",
		},
		{Title: "Storm watch issued"},
	}

	out := FormatNews(articles)

	assert.True(t, strings.HasPrefix(out, "Recent Weather News Articles:"))
	assert.Contains(t, out, "[1] Heat wave grips the valley")
	assert.Contains(t, out, "Source: Example Tribune | Published: 2025-07-24T10:00:00Z")
	assert.Contains(t, out, "[2] Storm watch issued")
	// Missing fields fall back to placeholders instead of blanks.
	assert.Contains(t, out, "Unknown Source")
	assert.Contains(t, out, "No snippet available.")
}

func TestFormatNews_Empty(t *testing.T) {
	out := FormatNews(nil)
	assert.Equal(t, "No weather-related news was found for this city in the past few days.", out)
}

func TestFormatRedditPosts(t *testing.T) {
	posts := []models.RedditPost{
		{
			Title:      "Wall cloud over downtown right now",
			Subreddit:  "weather",
			CreatedUTC: 1753455600,
			URL:        "https://reddit.example.com/abc",
			Selftext:   strings.Repeat("x", 200),
		},
		{
			Title:      "Anyone else hear hail?",
			Subreddit:  "StormComing",
			CreatedUTC: 1753455600,
			URL:        "https://reddit.example.com/def",
		},
	}

	out := FormatRedditPosts(posts)

	assert.Contains(t, out, "r/weather: Wall cloud over downtown right now")
	assert.Contains(t, out, "r/StormComing: Anyone else hear hail?")
	assert.Contains(t, out, "----")
	// Selftext snippets are capped at 150 chars plus an ellipsis.
	assert.Contains(t, out, strings.Repeat("x", 150)+"...")
	assert.NotContains(t, out, strings.Repeat("x", 151))
}

func TestFormatRedditPosts_Empty(t *testing.T) {
	out := FormatRedditPosts(nil)
	assert.Equal(t, "No recent weather-related social media posts were found for this location.", out)
}
