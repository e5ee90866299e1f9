package repositories

import (
	"net/http"
	"time"

	"github.com/thehaltingverse/weather-chatbot/config"
	"github.com/thehaltingverse/weather-chatbot/pkg/observe"
)

// Set bundles every external-data repository the briefing pipeline
// talks to.
type Set struct {
	Geocode   *GeocodeRepository
	Forecasts []ForecastRepository
	NOAA      *NOAARepository
	News      *NewsRepository
	Reddit    *RedditRepository
	LLM       *OpenAIRepository
}

func InitRepositories(cfg *config.Config, l *observe.Logger) *Set {
	client := &http.Client{Timeout: 30 * time.Second}

	return &Set{
		Geocode: NewGeocodeRepository(cfg.App.Name, l, client),
		Forecasts: []ForecastRepository{
			NewOpenMeteoRepository(l, client),
			NewWeatherbitRepository(cfg.Keys.WeatherbitAPIKey, l, client),
		},
		NOAA:   NewNOAARepository(cfg.Keys.NOAAToken, l, client),
		News:   NewNewsRepository(cfg.Keys.NewsAPIKey, l, client),
		Reddit: NewRedditRepository(cfg.Keys.RedditID, cfg.Keys.RedditSecret, cfg.App.Name, l, client),
		LLM:    NewOpenAIRepository(cfg.Keys.OpenAIKey, l),
	}
}
