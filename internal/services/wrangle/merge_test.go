package wrangle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func forecastTable(source string, dates ...string) *Table {
	t := NewTable("date", ForecastColumns(source)...)
	for i, date := range dates {
		t.AppendRow(date, map[string]*float64{
			"temp_max-degC-" + source: Float(30.0 + float64(i)),
		})
	}
	return t
}

func TestMergeForecasts_NonOverlappingDates(t *testing.T) {
	a := forecastTable(SourceOpenMeteo, "2025-07-25", "2025-07-26")
	b := forecastTable(SourceWeatherbit, "2025-07-27", "2025-07-28")

	merged := MergeForecasts(a, b)

	// Row count equals the union of distinct dates; no date twice.
	require.Len(t, merged.Rows, 4)
	seen := map[string]bool{}
	for _, row := range merged.Rows {
		assert.False(t, seen[row.Key], "date %s appears twice", row.Key)
		seen[row.Key] = true
	}

	// Dates only in one source leave the other source's columns absent.
	assert.Nil(t, merged.Rows[0].Cells["temp_max-degC-weatherbit"])
	assert.NotNil(t, merged.Rows[0].Cells["temp_max-degC-open_meteo"])
	assert.Nil(t, merged.Rows[3].Cells["temp_max-degC-open_meteo"])
	assert.NotNil(t, merged.Rows[3].Cells["temp_max-degC-weatherbit"])
}

func TestMergeForecasts_OverlappingDates(t *testing.T) {
	a := forecastTable(SourceOpenMeteo, "2025-07-25", "2025-07-26")
	b := forecastTable(SourceWeatherbit, "2025-07-26", "2025-07-27")

	merged := MergeForecasts(a, b)

	require.Len(t, merged.Rows, 3)
	mid := merged.Rows[1]
	assert.Equal(t, "2025-07-26", mid.Key)
	assert.NotNil(t, mid.Cells["temp_max-degC-open_meteo"])
	assert.NotNil(t, mid.Cells["temp_max-degC-weatherbit"])
}

func TestMergeForecasts_OneEmptySource(t *testing.T) {
	a := forecastTable(SourceOpenMeteo, "2025-07-25", "2025-07-26")
	b := NewTable("date", ForecastColumns(SourceWeatherbit)...)

	merged := MergeForecasts(a, b)

	require.Len(t, merged.Rows, 2)
	// The empty source's columns are declared but entirely absent-valued.
	assert.Contains(t, merged.Columns, "temp_max-degC-weatherbit")
	for _, row := range merged.Rows {
		assert.Nil(t, row.Cells["temp_max-degC-weatherbit"])
		assert.NotNil(t, row.Cells["temp_max-degC-open_meteo"])
	}
}

func TestMergeForecasts_SortedAscending(t *testing.T) {
	a := forecastTable(SourceOpenMeteo, "2025-07-28", "2025-07-25")
	b := forecastTable(SourceWeatherbit, "2025-07-27", "2025-07-26")

	merged := MergeForecasts(a, b)

	dates := make([]string, 0, len(merged.Rows))
	for _, row := range merged.Rows {
		dates = append(dates, row.Key)
	}
	assert.Equal(t, []string{"2025-07-25", "2025-07-26", "2025-07-27", "2025-07-28"}, dates)
}

func TestMergeForecasts_RecordsSerializeAbsentAsNull(t *testing.T) {
	a := forecastTable(SourceOpenMeteo, "2025-07-25")
	b := NewTable("date", ForecastColumns(SourceWeatherbit)...)

	merged := MergeForecasts(a, b)
	out, err := merged.RecordsJSON()
	require.NoError(t, err)

	assert.Contains(t, out, `"temp_max-degC-weatherbit":null`)
	assert.Contains(t, out, `"temp_max-degC-open_meteo":30`)
}
