package repositories

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/thehaltingverse/weather-chatbot/internal/services/wrangle"
	"github.com/thehaltingverse/weather-chatbot/pkg/observe"
)

const WeatherbitBaseURL = "https://api.weatherbit.io/v2.0/forecast/daily"

// WeatherbitRepository fetches daily forecasts from Weatherbit.
type WeatherbitRepository struct {
	baseURL    string
	apiKey     string
	httpClient HTTPClient
	l          *observe.Logger
}

func NewWeatherbitRepository(apiKey string, l *observe.Logger, httpClient HTTPClient) *WeatherbitRepository {
	return &WeatherbitRepository{
		baseURL:    WeatherbitBaseURL,
		apiKey:     apiKey,
		httpClient: httpClient,
		l:          l,
	}
}

func (w *WeatherbitRepository) Name() string {
	return wrangle.SourceWeatherbit
}

func (w *WeatherbitRepository) FetchForecast(ctx context.Context, lat, lon float64, days int) ([]byte, error) {
	url := fmt.Sprintf("%s?lat=%f&lon=%f&key=%s&days=%d", w.baseURL, lat, lon, w.apiKey, days)

	w.l.Info("making weatherbit API request", map[string]any{
		"lat":  lat,
		"lon":  lon,
		"days": days,
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := w.httpClient.Do(req)
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
