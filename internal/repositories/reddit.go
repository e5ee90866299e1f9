package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/thehaltingverse/weather-chatbot/internal/models"
	"github.com/thehaltingverse/weather-chatbot/pkg/observe"
)

const (
	RedditAuthURL    = "https://www.reddit.com/api/v1/access_token"
	RedditAPIBaseURL = "https://oauth.reddit.com"
)

var weatherSubreddits = []string{"weather", "climate", "StormComing"}

var weatherKeywords = []string{
	"weather", "storm", "flood", "rain", "snow", "heatwave",
	"tornado", "hurricane", "drought", "lightning", "climate",
	"hail", "wind",
}

// RedditRepository searches weather subreddits, plus subreddits matching
// the location name, for recent weather chatter. Uses the application-only
// OAuth flow.
type RedditRepository struct {
	authURL      string
	baseURL      string
	clientID     string
	clientSecret string
	userAgent    string
	httpClient   HTTPClient
	l            *observe.Logger
}

func NewRedditRepository(clientID, clientSecret, userAgent string, l *observe.Logger, httpClient HTTPClient) *RedditRepository {
	return &RedditRepository{
		authURL:      RedditAuthURL,
		baseURL:      RedditAPIBaseURL,
		clientID:     clientID,
		clientSecret: clientSecret,
		userAgent:    userAgent,
		httpClient:   httpClient,
		l:            l,
	}
}

func (r *RedditRepository) FetchWeatherPosts(ctx context.Context, location string, maxPosts int) ([]models.RedditPost, error) {
	token, err := r.accessToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("reddit auth failed: %w", err)
	}

	subreddits := append([]string{}, weatherSubreddits...)
	subreddits = append(subreddits, r.locationSubreddits(ctx, token, location)...)

	query := strings.Join(weatherKeywords, " OR ")

	var posts []models.RedditPost
	for _, sub := range subreddits {
		found, err := r.searchSubreddit(ctx, token, sub, query, maxPosts)
		if err != nil {
			// A missing or private subreddit should not sink the whole fetch.
			r.l.Warning("subreddit search failed", map[string]any{
				"subreddit": sub,
				"error":     err.Error(),
			})
			continue
		}
		posts = append(posts, found...)
		if len(posts) >= maxPosts {
			posts = posts[:maxPosts]
			break
		}
	}

	return posts, nil
}

// locationSubreddits finds subreddits whose names contain a part of the
// location, e.g. r/Seattle for "Seattle, WA". Failures just mean fewer
// sources to search.
func (r *RedditRepository) locationSubreddits(ctx context.Context, token, location string) []string {
	parts := strings.Fields(strings.ToLower(strings.ReplaceAll(location, ",", "")))

	var found []string
	seen := map[string]bool{}
	for _, sub := range weatherSubreddits {
		seen[strings.ToLower(sub)] = true
	}

	for _, part := range parts {
		names, err := r.searchSubredditNames(ctx, token, part)
		if err != nil {
			r.l.Warning("subreddit name search failed", map[string]any{
				"query": part,
				"error": err.Error(),
			})
			continue
		}
		if len(names) > 5 {
			names = names[:5]
		}
		for _, name := range names {
			lower := strings.ToLower(name)
			if seen[lower] {
				continue
			}
			for _, p := range parts {
				if strings.Contains(lower, p) {
					seen[lower] = true
					found = append(found, name)
					break
				}
			}
		}
	}

	return found
}

func (r *RedditRepository) searchSubredditNames(ctx context.Context, token, query string) ([]string, error) {
	q := url.Values{}
	q.Set("query", query)

	body, err := r.get(ctx, token, r.baseURL+"/api/search_reddit_names?"+q.Encode())
	if err != nil {
		return nil, err
	}

	var payload struct {
		Names []string `json:"names"`
	}
	if err = json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("failed to parse name search response: %w", err)
	}
	return payload.Names, nil
}

func (r *RedditRepository) searchSubreddit(ctx context.Context, token, subreddit, query string, limit int) ([]models.RedditPost, error) {
	q := url.Values{}
	q.Set("q", query)
	q.Set("restrict_sr", "on")
	q.Set("t", "week")
	q.Set("sort", "relevance")
	q.Set("limit", strconv.Itoa(limit))

	body, err := r.get(ctx, token, fmt.Sprintf("%s/r/%s/search?%s", r.baseURL, subreddit, q.Encode()))
	if err != nil {
		return nil, err
	}

	var payload struct {
		Data struct {
			Children []struct {
				Data struct {
					Title      string  `json:"title"`
					CreatedUTC float64 `json:"created_utc"`
					URL        string  `json:"url"`
					Selftext   string  `json:"selftext"`
				} `json:"data"`
			} `json:"children"`
		} `json:"data"`
	}
	if err = json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("failed to parse search response: %w", err)
	}

	posts := make([]models.RedditPost, 0, len(payload.Data.Children))
	for _, child := range payload.Data.Children {
		posts = append(posts, models.RedditPost{
			Title:      child.Data.Title,
			Subreddit:  subreddit,
			CreatedUTC: int64(child.Data.CreatedUTC),
			URL:        child.Data.URL,
			Selftext:   child.Data.Selftext,
		})
	}
	return posts, nil
}

// accessToken performs the client-credentials grant.
func (r *RedditRepository) accessToken(ctx context.Context) (string, error) {
	form := url.Values{}
	form.Set("grant_type", "client_credentials")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.authURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.SetBasicAuth(r.clientID, r.clientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", r.userAgent)

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to do request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("HTTP error (status %d): %s", resp.StatusCode, resp.Status)
	}

	var payload struct {
		AccessToken string `json:"access_token"`
	}
	if err = json.Unmarshal(body, &payload); err != nil {
		return "", fmt.Errorf("failed to parse token response: %w", err)
	}
	if payload.AccessToken == "" {
		return "", fmt.Errorf("empty access token in response")
	}
	return payload.AccessToken, nil
}

func (r *RedditRepository) get(ctx context.Context, token, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("User-Agent", r.userAgent)

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to do request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error (status %d): %s", resp.StatusCode, resp.Status)
	}
	return body, nil
}
