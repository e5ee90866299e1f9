package wrangle

import (
	"fmt"
	"strings"
	"time"

	"github.com/thehaltingverse/weather-chatbot/internal/models"
)

// FormatNews renders news articles into the prompt-ready block. An empty
// collection yields an explicit fallback line rather than an empty string
// so the prompt always says what happened to the dataset.
func FormatNews(articles []models.Article) string {
	if len(articles) == 0 {
		return "No weather-related news was found for this city in the past few days."
	}

	lines := []string{"Recent Weather News Articles:"}
	for i, a := range articles {
		title := orDefault(a.Title, "No Title")
		source := orDefault(a.Source, "Unknown Source")
		date := orDefault(a.DatePublished, "Unknown Date")
		snippet := orDefault(a.Snippet, "No snippet available.")
		url := orDefault(a.URL, "No URL")

		lines = append(lines, fmt.Sprintf(
			"\n[%d] %s\nSource: %s | Published: %s\nSnippet: %s\nLink: %s",
			i+1, title, source, date, snippet, url))
	}
	return strings.Join(lines, "\n")
}

// FormatRedditPosts renders social media posts into the prompt-ready
// block, with selftext snippets capped at 150 characters.
func FormatRedditPosts(posts []models.RedditPost) string {
	if len(posts) == 0 {
		return "No recent weather-related social media posts were found for this location."
	}

	formatted := make([]string, 0, len(posts))
	for _, post := range posts {
		dt := time.Unix(post.CreatedUTC, 0).UTC().Format("2006-01-02 15:04 UTC")

		snippet := ""
		if post.Selftext != "" {
			snippet = post.Selftext
			if len(snippet) > 150 {
				snippet = snippet[:150]
			}
			snippet += "..."
		}

		formatted = append(formatted, fmt.Sprintf(
			"[%s] r/%s: %s\nSnippet: %s\nURL: %s\n----",
			dt, post.Subreddit, post.Title, snippet, post.URL))
	}
	return strings.Join(formatted, "\n")
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
