package briefing

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/thehaltingverse/weather-chatbot/internal/models"
	"github.com/thehaltingverse/weather-chatbot/internal/services/wrangle"
)

func TestBuildPrompt(t *testing.T) {
	forecast := wrangle.NewTable("date", "temp_max-degC-open_meteo")
	forecast.AppendRow("2026-08-28", map[string]*float64{
		"temp_max-degC-open_meteo": wrangle.Float(25.0),
	})

	prompt := buildPrompt(promptInput{
		Location:    models.Location{City: "Seattle, WA", Latitude: 47.6, Longitude: -122.33},
		StationID:   "GHCND:USW00024233",
		Forecast:    forecast,
		Summary:     wrangle.NewTable("variable"),
		Climatology: nil,
		News:        "Recent Weather News Articles: ...",
		Social:      "No recent weather-related social media posts were found for this location.",
	})

	assert.Contains(t, prompt, "You are a professional, friendly meteorologist")
	assert.Contains(t, prompt, "Dataset 1 (merged forecast):")
	assert.Contains(t, prompt, `"temp_max-degC-open_meteo":25`)
	assert.Contains(t, prompt, "City: Seattle, WA")
	assert.Contains(t, prompt, "Latitude: 47.6")
	assert.Contains(t, prompt, "NOAA Station ID: GHCND:USW00024233")
	assert.Contains(t, prompt, "**Historical comparison:**")

	// Empty and nil tables both degrade to the explicit marker.
	assert.Equal(t, 2, strings.Count(prompt, noDataText))

	// Datasets come before the response format section.
	assert.Less(t,
		strings.Index(prompt, "Dataset 1"),
		strings.Index(prompt, "Please provide your response"))
}

func TestDatasetText(t *testing.T) {
	assert.Equal(t, noDataText, datasetText(nil))
	assert.Equal(t, noDataText, datasetText(wrangle.NewTable("date", "a")))

	table := wrangle.NewTable("date", "a")
	table.AppendRow("2026-08-28", map[string]*float64{"a": wrangle.Float(1.5)})
	assert.JSONEq(t, `[{"date": "2026-08-28", "a": 1.5}]`, datasetText(table))
}
