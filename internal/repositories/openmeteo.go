package repositories

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/thehaltingverse/weather-chatbot/internal/services/wrangle"
	"github.com/thehaltingverse/weather-chatbot/pkg/observe"
)

const OpenMeteoBaseURL = "https://api.open-meteo.com/v1/forecast"

// OpenMeteoRepository fetches daily forecasts from Open-Meteo.
// No API key required.
type OpenMeteoRepository struct {
	baseURL    string
	httpClient HTTPClient
	l          *observe.Logger
}

func NewOpenMeteoRepository(l *observe.Logger, httpClient HTTPClient) *OpenMeteoRepository {
	return &OpenMeteoRepository{
		baseURL:    OpenMeteoBaseURL,
		httpClient: httpClient,
		l:          l,
	}
}

func (o *OpenMeteoRepository) Name() string {
	return wrangle.SourceOpenMeteo
}

func (o *OpenMeteoRepository) FetchForecast(ctx context.Context, lat, lon float64, days int) ([]byte, error) {
	url := fmt.Sprintf(
		"%s?latitude=%f&longitude=%f&daily=temperature_2m_max,temperature_2m_min,precipitation_sum,windspeed_10m_max&forecast_days=%d&timezone=auto",
		o.baseURL, lat, lon, days,
	)

	o.l.Info("making open-meteo API request", map[string]any{
		"lat":  lat,
		"lon":  lon,
		"days": days,
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := o.httpClient.Do(req)
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
