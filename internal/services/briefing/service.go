package briefing

import (
	"context"

	"github.com/pkg/errors"

	"github.com/thehaltingverse/weather-chatbot/config"
	"github.com/thehaltingverse/weather-chatbot/internal/models"
	"github.com/thehaltingverse/weather-chatbot/internal/repositories"
	"github.com/thehaltingverse/weather-chatbot/internal/services/wrangle"
	"github.com/thehaltingverse/weather-chatbot/pkg/observe"
)

// ErrNarrativeGeneration marks an upstream LLM failure so the transport
// layer can map it separately from pipeline errors.
var ErrNarrativeGeneration = errors.New("narrative generation failed")

type GeocodeSource interface {
	Locate(ctx context.Context, city string) (models.Location, error)
}

type HistorySource interface {
	FetchDecadeHistory(ctx context.Context, lat, lon float64, daysBack int) ([]wrangle.Observation, models.Station, error)
}

type NewsSource interface {
	FetchWeatherNews(ctx context.Context, location string, daysBack, maxArticles int) ([]models.Article, error)
}

type SocialSource interface {
	FetchWeatherPosts(ctx context.Context, location string, maxPosts int) ([]models.RedditPost, error)
}

// Briefing is a generated weather report for one city.
type Briefing struct {
	City      string  `json:"city"`
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lon"`
	StationID string  `json:"station_id"`
	Narrative string  `json:"briefing"`
}

// Service runs the briefing pipeline: geocode, fetch, wrangle, prompt,
// complete. One call is one full stateless pass.
type Service struct {
	geocode   GeocodeSource
	forecasts []repositories.ForecastRepository
	history   HistorySource
	news      NewsSource
	social    SocialSource
	llm       repositories.Completer
	cfg       config.PipelineConfig
	l         *observe.Logger
}

func NewService(
	geocode GeocodeSource,
	forecasts []repositories.ForecastRepository,
	history HistorySource,
	news NewsSource,
	social SocialSource,
	llm repositories.Completer,
	cfg config.PipelineConfig,
	l *observe.Logger,
) *Service {
	return &Service{
		geocode:   geocode,
		forecasts: forecasts,
		history:   history,
		news:      news,
		social:    social,
		llm:       llm,
		cfg:       cfg,
		l:         l,
	}
}

func NewServiceFromSet(repos *repositories.Set, cfg config.PipelineConfig, l *observe.Logger) *Service {
	return NewService(repos.Geocode, repos.Forecasts, repos.NOAA, repos.News, repos.Reddit, repos.LLM, cfg, l)
}

// GenerateBriefing runs one sequential pass of the pipeline. Provider
// failures degrade to empty datasets; geocoding and station selection
// are the only fatal steps before the LLM call.
func (s *Service) GenerateBriefing(ctx context.Context, city string) (Briefing, error) {
	loc, err := s.geocode.Locate(ctx, city)
	if err != nil {
		return Briefing{}, errors.Wrapf(err, "geocoding %q", city)
	}

	s.l.Info("generating briefing", map[string]any{"params": loc.RequestParams()})

	forecast := s.mergedForecast(ctx, loc)

	observations, station, err := s.history.FetchDecadeHistory(ctx, loc.Latitude, loc.Longitude, s.cfg.DaysBack)
	if err != nil {
		return Briefing{}, errors.Wrap(err, "fetching historical data")
	}

	historical, duplicates := wrangle.PivotObservations(observations)
	if duplicates > 0 {
		s.l.Warning("duplicate historical readings dropped", map[string]any{
			"station":    station.ID,
			"duplicates": duplicates,
		})
	}
	summary := wrangle.SummarizeHistorical(historical)
	climatology := wrangle.SummarizeClimatology(historical)

	articles, err := s.news.FetchWeatherNews(ctx, city, s.cfg.NewsDaysBack, s.cfg.MaxArticles)
	if err != nil {
		s.l.Warning("news fetch failed, continuing without articles", map[string]any{
			"error": err.Error(),
		})
		articles = nil
	}

	posts, err := s.social.FetchWeatherPosts(ctx, city, s.cfg.MaxPosts)
	if err != nil {
		s.l.Warning("social fetch failed, continuing without posts", map[string]any{
			"error": err.Error(),
		})
		posts = nil
	}

	prompt := buildPrompt(promptInput{
		Location:    loc,
		StationID:   station.ID,
		Forecast:    forecast,
		Summary:     summary,
		Climatology: climatology,
		News:        wrangle.FormatNews(articles),
		Social:      wrangle.FormatRedditPosts(posts),
	})

	narrative, err := s.llm.Complete(ctx, prompt)
	if err != nil {
		return Briefing{}, errors.Wrap(ErrNarrativeGeneration, err.Error())
	}

	return Briefing{
		City:      city,
		Latitude:  loc.Latitude,
		Longitude: loc.Longitude,
		StationID: station.ID,
		Narrative: narrative,
	}, nil
}

// mergedForecast folds every provider's normalized table into one wide
// table. A failed provider contributes an empty table so its columns
// still appear.
func (s *Service) mergedForecast(ctx context.Context, loc models.Location) *wrangle.Table {
	var merged *wrangle.Table

	for _, repo := range s.forecasts {
		normalizer, ok := wrangle.NormalizerFor(repo.Name())
		if !ok {
			s.l.Warning("no normalizer for forecast source", map[string]any{
				"source": repo.Name(),
			})
			continue
		}

		raw, err := repo.FetchForecast(ctx, loc.Latitude, loc.Longitude, s.cfg.DaysAhead)
		if err != nil {
			s.l.Warning("forecast fetch failed, continuing with empty data", map[string]any{
				"source": repo.Name(),
				"error":  err.Error(),
			})
			raw = nil
		}

		table := normalizer.Normalize(raw)
		if merged == nil {
			merged = table
			continue
		}
		merged = wrangle.MergeForecasts(merged, table)
	}

	if merged == nil {
		merged = wrangle.NewTable("date")
	}
	return merged
}
