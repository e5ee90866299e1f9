package repositories

import "context"

// ForecastRepository fetches a daily forecast for a coordinate pair and
// returns the provider's raw JSON payload. Interpretation of the payload
// is left to the wrangle normalizers, keyed by Name.
type ForecastRepository interface {
	Name() string
	FetchForecast(ctx context.Context, lat, lon float64, days int) ([]byte, error)
}
