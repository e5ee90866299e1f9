package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/pkg/errors"

	"github.com/thehaltingverse/weather-chatbot/internal/models"
	"github.com/thehaltingverse/weather-chatbot/pkg/observe"
)

const NominatimBaseURL = "https://nominatim.openstreetmap.org/search"

// ErrLocationNotFound is returned when the geocoder has no match for
// the requested city.
var ErrLocationNotFound = errors.New("location not found")

// GeocodeRepository resolves free-form city names to coordinates via
// the Nominatim search API.
type GeocodeRepository struct {
	baseURL    string
	userAgent  string
	httpClient HTTPClient
	l          *observe.Logger
}

func NewGeocodeRepository(userAgent string, l *observe.Logger, httpClient HTTPClient) *GeocodeRepository {
	return &GeocodeRepository{
		baseURL:    NominatimBaseURL,
		userAgent:  userAgent,
		httpClient: httpClient,
		l:          l,
	}
}

func (g *GeocodeRepository) Locate(ctx context.Context, city string) (models.Location, error) {
	loc := models.Location{City: city}

	q := url.Values{}
	q.Set("q", city)
	q.Set("format", "json")
	q.Set("limit", "1")

	g.l.Info("making nominatim geocode request", map[string]any{"city": city})

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return loc, fmt.Errorf("failed to create request: %w", err)
	}
	// Nominatim's usage policy requires an identifying User-Agent.
	req.Header.Set("User-Agent", g.userAgent)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return loc, fmt.Errorf("failed to do request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return loc, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return loc, fmt.Errorf("HTTP error (status %d): %s", resp.StatusCode, resp.Status)
	}

	// Nominatim returns coordinates as strings.
	var results []struct {
		Lat string `json:"lat"`
		Lon string `json:"lon"`
	}
	if err = json.Unmarshal(body, &results); err != nil {
		return loc, fmt.Errorf("failed to parse geocode response: %w", err)
	}

	if len(results) == 0 {
		return loc, errors.Wrap(ErrLocationNotFound, city)
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return loc, fmt.Errorf("invalid latitude %q: %w", results[0].Lat, err)
	}
	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return loc, fmt.Errorf("invalid longitude %q: %w", results[0].Lon, err)
	}

	loc.Latitude = lat
	loc.Longitude = lon
	return loc, nil
}
