package wrangle

import "encoding/json"

// Source tags carried in column names, e.g. "temp_max-degC-open_meteo".
const (
	SourceOpenMeteo  = "open_meteo"
	SourceWeatherbit = "weatherbit"
	SourceNOAA       = "noaa"
)

// Canonical variable column prefixes; the unit is part of the name so a
// column is unambiguous after tables from different sources are merged.
const (
	varTempMax = "temp_max-degC"
	varTempMin = "temp_min-degC"
	varPrecip  = "precip-mm"
	varWindMax = "wind_max-mpersec"
)

var canonicalVariables = []string{varTempMax, varTempMin, varPrecip, varWindMax}

// ForecastColumns returns the source-qualified column set for one provider.
func ForecastColumns(source string) []string {
	cols := make([]string, 0, len(canonicalVariables))
	for _, v := range canonicalVariables {
		cols = append(cols, v+"-"+source)
	}
	return cols
}

// ForecastNormalizer converts one provider's raw forecast payload into a
// date-keyed table with source-qualified columns. Implementations never
// fail on missing or malformed fields: anything unusable becomes an
// absent cell, and an empty or undecodable payload becomes an empty table.
type ForecastNormalizer interface {
	Source() string
	Normalize(raw []byte) *Table
}

// NormalizerFor returns the normalizer for a known source tag. Adding a
// third provider means adding one implementation here.
func NormalizerFor(source string) (ForecastNormalizer, bool) {
	switch source {
	case SourceOpenMeteo:
		return openMeteoNormalizer{}, true
	case SourceWeatherbit:
		return weatherbitNormalizer{}, true
	}
	return nil, false
}

// openMeteoNormalizer handles the parallel-array shape: a "daily" object
// with a time array and one value array per variable, indexed by position.
type openMeteoNormalizer struct{}

func (openMeteoNormalizer) Source() string { return SourceOpenMeteo }

func (openMeteoNormalizer) Normalize(raw []byte) *Table {
	table := NewTable("date", ForecastColumns(SourceOpenMeteo)...)

	var payload struct {
		Daily struct {
			Time             []string   `json:"time"`
			Temperature2mMax []*float64 `json:"temperature_2m_max"`
			Temperature2mMin []*float64 `json:"temperature_2m_min"`
			PrecipitationSum []*float64 `json:"precipitation_sum"`
			WindSpeed10mMax  []*float64 `json:"windspeed_10m_max"`
		} `json:"daily"`
	}
	if len(raw) == 0 || json.Unmarshal(raw, &payload) != nil {
		return table
	}

	for i, date := range payload.Daily.Time {
		if date == "" {
			continue
		}
		table.AppendRow(date, map[string]*float64{
			varTempMax + "-" + SourceOpenMeteo: at(payload.Daily.Temperature2mMax, i),
			varTempMin + "-" + SourceOpenMeteo: at(payload.Daily.Temperature2mMin, i),
			varPrecip + "-" + SourceOpenMeteo:  at(payload.Daily.PrecipitationSum, i),
			varWindMax + "-" + SourceOpenMeteo: at(payload.Daily.WindSpeed10mMax, i),
		})
	}
	return table
}

// weatherbitNormalizer handles the object-per-day shape: a "data" array
// where each element carries its own date and values.
type weatherbitNormalizer struct{}

func (weatherbitNormalizer) Source() string { return SourceWeatherbit }

func (weatherbitNormalizer) Normalize(raw []byte) *Table {
	table := NewTable("date", ForecastColumns(SourceWeatherbit)...)

	var payload struct {
		Data []struct {
			Datetime  string   `json:"datetime"`
			MaxTemp   *float64 `json:"max_temp"`
			MinTemp   *float64 `json:"min_temp"`
			Precip    *float64 `json:"precip"`
			WindSpeed *float64 `json:"wind_spd"`
		} `json:"data"`
	}
	if len(raw) == 0 || json.Unmarshal(raw, &payload) != nil {
		return table
	}

	for _, day := range payload.Data {
		if day.Datetime == "" {
			continue
		}
		table.AppendRow(day.Datetime, map[string]*float64{
			varTempMax + "-" + SourceWeatherbit: day.MaxTemp,
			varTempMin + "-" + SourceWeatherbit: day.MinTemp,
			varPrecip + "-" + SourceWeatherbit:  day.Precip,
			varWindMax + "-" + SourceWeatherbit: day.WindSpeed,
		})
	}
	return table
}

// at reads a parallel array defensively: a short or missing array yields
// an absent cell for that date instead of failing the row.
func at(values []*float64, i int) *float64 {
	if i < 0 || i >= len(values) {
		return nil
	}
	return values[i]
}
