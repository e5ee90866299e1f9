package wrangle

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func historicalRow(t *Table, date string, tmax, tmin, prcp, wind *float64) {
	t.AppendRow(date, map[string]*float64{
		"temp_max-degC-noaa":    tmax,
		"temp_min-degC-noaa":    tmin,
		"precip-mm-noaa":        prcp,
		"wind_max-mpersec-noaa": wind,
	})
}

func TestSummarizeHistorical(t *testing.T) {
	table := NewTable("date", HistoricalColumns()...)
	historicalRow(table, "2015-07-04", Float(32.0), Float(21.0), Float(0.0), Float(4.5))
	historicalRow(table, "2015-07-05", Float(30.0), Float(20.0), Float(1.0), Float(5.5))
	historicalRow(table, "2015-07-06", Float(31.0), nil, nil, nil)

	summary := SummarizeHistorical(table)

	require.Len(t, summary.Rows, 4)
	assert.Equal(t, "variable", summary.Key)

	byVar := map[string]Row{}
	for _, row := range summary.Rows {
		byVar[row.Key] = row
	}

	tmax := byVar["temp_max-degC-noaa"]
	assert.Equal(t, 31.0, *tmax.Cells["mean"])
	assert.Equal(t, 1.0, *tmax.Cells["std"])
	assert.Equal(t, 3.0, *tmax.Cells["count"])

	// Count is per-variable: tmin is present in only two rows even
	// though three rows survive the all-absent filter.
	tmin := byVar["temp_min-degC-noaa"]
	assert.Equal(t, 2.0, *tmin.Cells["count"])
	assert.Equal(t, 20.5, *tmin.Cells["mean"])
}

func TestSummarizeHistorical_AllAbsentRowsExcluded(t *testing.T) {
	table := NewTable("date", HistoricalColumns()...)
	historicalRow(table, "2015-07-04", Float(32.0), nil, nil, nil)
	historicalRow(table, "2015-07-05", nil, nil, nil, nil)

	summary := SummarizeHistorical(table)

	byVar := map[string]Row{}
	for _, row := range summary.Rows {
		byVar[row.Key] = row
	}
	assert.Equal(t, 1.0, *byVar["temp_max-degC-noaa"].Cells["count"])
	assert.Equal(t, 0.0, *byVar["temp_min-degC-noaa"].Cells["count"])
	assert.Nil(t, byVar["temp_min-degC-noaa"].Cells["mean"])
}

func TestSummarizeHistorical_Rounding(t *testing.T) {
	table := NewTable("date", HistoricalColumns()...)
	historicalRow(table, "2015-07-04", Float(1.0), nil, nil, nil)
	historicalRow(table, "2015-07-05", Float(2.0), nil, nil, nil)
	historicalRow(table, "2015-07-06", Float(2.0), nil, nil, nil)

	summary := SummarizeHistorical(table)

	var tmax Row
	for _, row := range summary.Rows {
		if row.Key == "temp_max-degC-noaa" {
			tmax = row
		}
	}
	// mean 5/3 = 1.666..., rounded to 2 places.
	assert.Equal(t, 1.67, *tmax.Cells["mean"])
	// sample std of {1,2,2} = 0.57735..., rounded.
	assert.Equal(t, 0.58, *tmax.Cells["std"])
}

func TestSummarizeHistorical_StdAbsentForSingleObservation(t *testing.T) {
	table := NewTable("date", HistoricalColumns()...)
	historicalRow(table, "2015-07-04", Float(32.0), nil, nil, nil)

	summary := SummarizeHistorical(table)

	for _, row := range summary.Rows {
		if row.Key == "temp_max-degC-noaa" {
			assert.NotNil(t, row.Cells["mean"])
			assert.Nil(t, row.Cells["std"])
		}
	}
}

func TestSummarizeClimatology_SevenDayWindowOverTenYears(t *testing.T) {
	table := NewTable("date", HistoricalColumns()...)
	// 10 years, same 7-day July window each year, no missing days.
	for year := 2015; year < 2025; year++ {
		for day := 1; day <= 7; day++ {
			date := fmt.Sprintf("%d-07-%02d", year, day)
			historicalRow(table, date,
				Float(30.0+float64(day)), Float(20.0), Float(0.5), Float(5.0))
		}
	}

	clim := SummarizeClimatology(table)

	require.Len(t, clim.Rows, 7)
	for _, row := range clim.Rows {
		assert.Equal(t, 10.0, *row.Cells["temp_max-degC-noaa-count"])
		assert.Equal(t, 10.0, *row.Cells["precip-mm-noaa-count"])
		// Identical values across years: zero spread.
		assert.InDelta(t, 0.0, *row.Cells["temp_min-degC-noaa-std"], 1e-9)
	}
	assert.Equal(t, "07-01", clim.Rows[0].Key)
	assert.Equal(t, "07-07", clim.Rows[6].Key)
}

func TestSummarizeClimatology_WorkedExample(t *testing.T) {
	table := NewTable("date", HistoricalColumns()...)
	historicalRow(table, "2024-07-04", Float(32.0), nil, nil, nil)
	historicalRow(table, "2023-07-04", Float(30.0), nil, nil, nil)

	clim := SummarizeClimatology(table)

	require.Len(t, clim.Rows, 1)
	row := clim.Rows[0]
	assert.Equal(t, "07-04", row.Key)
	assert.Equal(t, 31.0, *row.Cells["temp_max-degC-noaa-mean"])
	assert.InDelta(t, 1.41, *row.Cells["temp_max-degC-noaa-std"], 0.01)
	assert.Equal(t, 2.0, *row.Cells["temp_max-degC-noaa-count"])
}

func TestSummarizeClimatology_PartialYears(t *testing.T) {
	table := NewTable("date", HistoricalColumns()...)
	historicalRow(table, "2024-07-04", Float(32.0), Float(21.0), nil, nil)
	historicalRow(table, "2023-07-04", Float(30.0), nil, nil, nil)
	historicalRow(table, "2023-07-05", nil, nil, nil, nil) // fully absent, dropped

	clim := SummarizeClimatology(table)

	require.Len(t, clim.Rows, 1)
	row := clim.Rows[0]
	assert.Equal(t, 2.0, *row.Cells["temp_max-degC-noaa-count"])
	assert.Equal(t, 1.0, *row.Cells["temp_min-degC-noaa-count"])
	assert.Nil(t, row.Cells["temp_min-degC-noaa-std"])
	assert.Equal(t, 0.0, *row.Cells["precip-mm-noaa-count"])
}

func TestSummarizeClimatology_EmptyTable(t *testing.T) {
	table := NewTable("date", HistoricalColumns()...)

	clim := SummarizeClimatology(table)

	assert.True(t, clim.Empty())
	// Flattened variable-statistic columns are still declared.
	assert.Contains(t, clim.Columns, "temp_max-degC-noaa-mean")
	assert.Contains(t, clim.Columns, "wind_max-mpersec-noaa-count")
	assert.Len(t, clim.Columns, 12)
}
