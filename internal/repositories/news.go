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
	"time"

	"github.com/thehaltingverse/weather-chatbot/internal/models"
	"github.com/thehaltingverse/weather-chatbot/pkg/observe"
)

const NewsAPIBaseURL = "https://newsapi.org/v2/everything"

// usStateNames expands postal abbreviations so the news query can match
// articles that mention the state rather than the city.
var usStateNames = map[string]string{
	"AL": "Alabama", "AK": "Alaska", "AZ": "Arizona", "AR": "Arkansas",
	"CA": "California", "CO": "Colorado", "CT": "Connecticut", "DE": "Delaware",
	"FL": "Florida", "GA": "Georgia", "HI": "Hawaii", "ID": "Idaho",
	"IL": "Illinois", "IN": "Indiana", "IA": "Iowa", "KS": "Kansas",
	"KY": "Kentucky", "LA": "Louisiana", "ME": "Maine", "MD": "Maryland",
	"MA": "Massachusetts", "MI": "Michigan", "MN": "Minnesota", "MS": "Mississippi",
	"MO": "Missouri", "MT": "Montana", "NE": "Nebraska", "NV": "Nevada",
	"NH": "New Hampshire", "NJ": "New Jersey", "NM": "New Mexico", "NY": "New York",
	"NC": "North Carolina", "ND": "North Dakota", "OH": "Ohio", "OK": "Oklahoma",
	"OR": "Oregon", "PA": "Pennsylvania", "RI": "Rhode Island", "SC": "South Carolina",
	"SD": "South Dakota", "TN": "Tennessee", "TX": "Texas", "UT": "Utah",
	"VT": "Vermont", "VA": "Virginia", "WA": "Washington", "WV": "West Virginia",
	"WI": "Wisconsin", "WY": "Wyoming", "DC": "District of Columbia",
}

// ExtractCityState splits a "City, ST" location string and expands the
// state abbreviation to its full name. The state is empty when the
// location has no recognizable abbreviation.
func ExtractCityState(location string) (city, state string) {
	parts := strings.SplitN(location, ",", 2)
	city = strings.TrimSpace(parts[0])
	if len(parts) == 2 {
		abbr := strings.ToUpper(strings.TrimSpace(parts[1]))
		state = usStateNames[abbr]
	}
	return city, state
}

// NewsRepository searches NewsAPI for recent weather coverage of a city.
type NewsRepository struct {
	baseURL    string
	apiKey     string
	httpClient HTTPClient
	l          *observe.Logger
}

func NewNewsRepository(apiKey string, l *observe.Logger, httpClient HTTPClient) *NewsRepository {
	return &NewsRepository{
		baseURL:    NewsAPIBaseURL,
		apiKey:     apiKey,
		httpClient: httpClient,
		l:          l,
	}
}

func (r *NewsRepository) FetchWeatherNews(ctx context.Context, location string, daysBack, maxArticles int) ([]models.Article, error) {
	city, state := ExtractCityState(location)

	place := city
	if state != "" {
		place = fmt.Sprintf("%s OR %s", city, state)
	}
	query := fmt.Sprintf(
		"(%s) AND (weather OR storm OR forecast OR temperature OR rainfall OR snow OR flooding OR humidity) "+
			"-sports -baseball -football -NBA -concert -game -soccer -crime",
		place,
	)

	now := time.Now().UTC()
	q := url.Values{}
	q.Set("q", query)
	q.Set("from", now.AddDate(0, 0, -daysBack).Format("2006-01-02"))
	q.Set("to", now.Format("2006-01-02"))
	q.Set("language", "en")
	q.Set("sortBy", "relevancy")
	q.Set("pageSize", strconv.Itoa(maxArticles))
	q.Set("apiKey", r.apiKey)

	r.l.Info("making newsapi request", map[string]any{"city": city, "state": state})

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
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

	var payload struct {
		Articles []struct {
			Title       string `json:"title"`
			Description string `json:"description"`
			PublishedAt string `json:"publishedAt"`
			URL         string `json:"url"`
			Source      struct {
				Name string `json:"name"`
			} `json:"source"`
		} `json:"articles"`
	}
	if err = json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("failed to parse news response: %w", err)
	}

	articles := make([]models.Article, 0, len(payload.Articles))
	for _, a := range payload.Articles {
		// NewsAPI sometimes returns removed articles with empty fields.
		if a.Title == "" || a.Description == "" {
			continue
		}
		articles = append(articles, models.Article{
			Title:         a.Title,
			Source:        a.Source.Name,
			DatePublished: a.PublishedAt,
			Snippet:       a.Description,
			URL:           a.URL,
		})
	}

	return articles, nil
}
