package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sony/gobreaker"

	"github.com/thehaltingverse/weather-chatbot/internal/models"
	"github.com/thehaltingverse/weather-chatbot/internal/services/wrangle"
	"github.com/thehaltingverse/weather-chatbot/pkg/observe"
)

const (
	NOAABaseURL = "https://www.ncdc.noaa.gov/cdo-web/api/v2"

	// qualifyingStationPrefix keeps only first-order (airport) stations,
	// which report all four datatypes reliably.
	qualifyingStationPrefix = "GHCND:USW"

	noaaPageLimit = 1000
	noaaYearsBack = 10
)

// ErrNoStation is returned when no qualifying station exists inside the
// search box around the requested coordinates. The pipeline treats this
// as fatal since the historical baseline cannot be built.
var ErrNoStation = errors.New("no qualifying NOAA station near location")

// BackoffPolicy controls retries against the rate-limited CDO API.
type BackoffPolicy struct {
	MaxAttempts  int
	InitialDelay time.Duration
}

// NOAARepository pulls GHCND daily summaries from the NOAA Climate Data
// Online API. Requests go through a circuit breaker and a retry loop
// since CDO sheds load with 503s.
type NOAARepository struct {
	baseURL    string
	token      string
	httpClient HTTPClient
	breaker    *gobreaker.CircuitBreaker
	backoff    BackoffPolicy
	l          *observe.Logger
}

func NewNOAARepository(token string, l *observe.Logger, httpClient HTTPClient) *NOAARepository {
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "noaa-cdo",
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     2 * time.Minute,
	})

	return &NOAARepository{
		baseURL:    NOAABaseURL,
		token:      token,
		httpClient: httpClient,
		breaker:    breaker,
		backoff:    BackoffPolicy{MaxAttempts: 5, InitialDelay: 5 * time.Second},
		l:          l,
	}
}

// DateRange is an inclusive date window in YYYY-MM-DD form.
type DateRange struct {
	Start string
	End   string
}

// PastTenYearRanges builds one window per year for the last ten years,
// each starting on today's month and day and extending daysBack days.
// A Feb 29 anchor is clamped to day 28 in non-leap years.
func PastTenYearRanges(today time.Time, daysBack int) []DateRange {
	ranges := make([]DateRange, 0, noaaYearsBack)
	for i := 1; i <= noaaYearsBack; i++ {
		year := today.Year() - i
		start := time.Date(year, today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
		if start.Month() != today.Month() {
			start = time.Date(year, today.Month(), 28, 0, 0, 0, 0, time.UTC)
		}
		end := start.AddDate(0, 0, daysBack)
		ranges = append(ranges, DateRange{
			Start: start.Format("2006-01-02"),
			End:   end.Format("2006-01-02"),
		})
	}
	return ranges
}

// NearestQualifyingStation picks the haversine-nearest station whose ID
// carries the first-order prefix. Returns ErrNoStation when none qualify.
func NearestQualifyingStation(stations []models.Station, lat, lon float64) (models.Station, error) {
	var best models.Station
	bestDist := math.Inf(1)
	for _, s := range stations {
		if !strings.HasPrefix(s.ID, qualifyingStationPrefix) {
			continue
		}
		d := haversineKm(lat, lon, s.Latitude, s.Longitude)
		if d < bestDist {
			bestDist = d
			best = s
		}
	}
	if math.IsInf(bestDist, 1) {
		return models.Station{}, ErrNoStation
	}
	return best, nil
}

// FindNearestStation queries the stations endpoint over a 2x2 degree box
// centered on the coordinates and selects the nearest qualifying station
// with GHCND coverage over the given window.
func (n *NOAARepository) FindNearestStation(ctx context.Context, lat, lon float64, window DateRange) (models.Station, error) {
	q := url.Values{}
	q.Set("datasetid", "GHCND")
	q.Set("startdate", window.Start)
	q.Set("enddate", window.End)
	q.Set("limit", strconv.Itoa(noaaPageLimit))
	q.Set("extent", fmt.Sprintf("%f,%f,%f,%f", lat-1, lon-1, lat+1, lon+1))
	q.Set("sortfield", "datacoverage")
	q.Set("sortorder", "desc")

	n.l.Info("searching NOAA stations", map[string]any{
		"lat": lat, "lon": lon, "start": window.Start, "end": window.End,
	})

	body, err := n.doRequest(ctx, n.baseURL+"/stations?"+q.Encode())
	if err != nil {
		return models.Station{}, fmt.Errorf("station search failed: %w", err)
	}

	var payload struct {
		Results []models.Station `json:"results"`
	}
	if err = json.Unmarshal(body, &payload); err != nil {
		return models.Station{}, fmt.Errorf("failed to parse station response: %w", err)
	}

	station, err := NearestQualifyingStation(payload.Results, lat, lon)
	if err != nil {
		return models.Station{}, err
	}

	n.l.Info("selected NOAA station", map[string]any{
		"station": station.ID, "name": station.Name,
	})
	return station, nil
}

// FetchDailyRange pages through the data endpoint for one station and
// window, collecting TMIN, TMAX, PRCP and AWND observations.
func (n *NOAARepository) FetchDailyRange(ctx context.Context, stationID string, window DateRange) ([]wrangle.Observation, error) {
	var all []wrangle.Observation

	offset := 1
	for {
		q := url.Values{}
		q.Set("datasetid", "GHCND")
		for _, dt := range []string{"TMIN", "TMAX", "PRCP", "AWND"} {
			q.Add("datatypeid", dt)
		}
		q.Set("stationid", stationID)
		q.Set("startdate", window.Start)
		q.Set("enddate", window.End)
		q.Set("units", "metric")
		q.Set("limit", strconv.Itoa(noaaPageLimit))
		q.Set("offset", strconv.Itoa(offset))
		q.Set("sortfield", "date")
		q.Set("sortorder", "asc")

		body, err := n.doRequest(ctx, n.baseURL+"/data?"+q.Encode())
		if err != nil {
			return nil, fmt.Errorf("data fetch failed at offset %d: %w", offset, err)
		}

		var payload struct {
			Metadata struct {
				Resultset struct {
					Count int `json:"count"`
				} `json:"resultset"`
			} `json:"metadata"`
			Results []wrangle.Observation `json:"results"`
		}
		if err = json.Unmarshal(body, &payload); err != nil {
			return nil, fmt.Errorf("failed to parse data response: %w", err)
		}

		all = append(all, payload.Results...)

		if offset+noaaPageLimit > payload.Metadata.Resultset.Count {
			break
		}
		offset += noaaPageLimit
	}

	return all, nil
}

// FetchDecadeHistory selects a station once and then pulls one window of
// observations per year over the last decade. A failed year is logged
// and skipped; only station selection failure is fatal.
func (n *NOAARepository) FetchDecadeHistory(ctx context.Context, lat, lon float64, daysBack int) ([]wrangle.Observation, models.Station, error) {
	ranges := PastTenYearRanges(time.Now().UTC(), daysBack)

	// Require coverage back to the oldest window.
	station, err := n.FindNearestStation(ctx, lat, lon, ranges[len(ranges)-1])
	if err != nil {
		return nil, models.Station{}, err
	}

	var all []wrangle.Observation
	for _, window := range ranges {
		data, err := n.FetchDailyRange(ctx, station.ID, window)
		if err != nil {
			n.l.Warning("skipping NOAA window after fetch failure", map[string]any{
				"station": station.ID,
				"start":   window.Start,
				"end":     window.End,
				"error":   err.Error(),
			})
			continue
		}
		all = append(all, data...)
	}

	return all, station, nil
}

// doRequest performs one authenticated GET with circuit breaking and
// exponential backoff on 503 responses.
func (n *NOAARepository) doRequest(ctx context.Context, rawURL string) ([]byte, error) {
	delay := n.backoff.InitialDelay

	var lastErr error
	for attempt := 1; attempt <= n.backoff.MaxAttempts; attempt++ {
		body, retryable, err := n.attempt(ctx, rawURL)
		if err == nil {
			return body, nil
		}
		lastErr = err
		if !retryable {
			return nil, err
		}

		if attempt < n.backoff.MaxAttempts {
			n.l.Warning("NOAA request throttled, backing off", map[string]any{
				"attempt": attempt,
				"delay":   delay.String(),
			})
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
			delay *= 2
		}
	}

	return nil, fmt.Errorf("exhausted %d attempts: %w", n.backoff.MaxAttempts, lastErr)
}

// attempt reports whether the failure is worth retrying (503 only).
func (n *NOAARepository) attempt(ctx context.Context, rawURL string) ([]byte, bool, error) {
	result, err := n.breaker.Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("token", n.token)

		resp, err := n.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("failed to do request: %w", err)
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to read response body: %w", err)
		}

		if resp.StatusCode != http.StatusOK {
			return nil, &httpStatusError{status: resp.StatusCode, text: resp.Status}
		}
		return body, nil
	})
	if err != nil {
		var statusErr *httpStatusError
		if errors.As(err, &statusErr) {
			return nil, statusErr.status == http.StatusServiceUnavailable, err
		}
		return nil, false, err
	}
	return result.([]byte), false, nil
}

type httpStatusError struct {
	status int
	text   string
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("HTTP error (status %d): %s", e.status, e.text)
}

// haversineKm is the great-circle distance between two coordinates.
func haversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	const earthRadiusKm = 6371.0

	toRad := func(deg float64) float64 { return deg * math.Pi / 180 }

	dLat := toRad(lat2 - lat1)
	dLon := toRad(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusKm * math.Asin(math.Sqrt(a))
}
