package wrangle

// Observation is one long-form NOAA daily record: a single (date,
// datatype) measurement as returned by the CDO data endpoint.
type Observation struct {
	Date     string  `json:"date"`
	Datatype string  `json:"datatype"`
	Value    float64 `json:"value"`
}

// noaaColumnByDatatype maps the CDO 4-symbol vocabulary onto the
// canonical column names.
var noaaColumnByDatatype = map[string]string{
	"TMAX": varTempMax + "-" + SourceNOAA,
	"TMIN": varTempMin + "-" + SourceNOAA,
	"PRCP": varPrecip + "-" + SourceNOAA,
	"AWND": varWindMax + "-" + SourceNOAA,
}

// HistoricalColumns is the canonical wide column set for station data.
// It is pre-declared even on an empty pivot so downstream code can rely
// on column presence with zero rows.
func HistoricalColumns() []string {
	return ForecastColumns(SourceNOAA)
}

// PivotObservations reshapes long-form observations (one row per
// date+datatype) into wide form (one row per date, one column per
// variable). On duplicate (date, datatype) pairs the first-encountered
// value wins and later ones are dropped; the number of dropped
// duplicates comes back as a diagnostic so callers can surface the data
// loss instead of ignoring it. Datatypes outside the known vocabulary
// are skipped.
func PivotObservations(observations []Observation) (*Table, int) {
	table := NewTable("date", HistoricalColumns()...)

	cellsByDate := map[string]map[string]*float64{}
	duplicates := 0

	for _, obs := range observations {
		col, known := noaaColumnByDatatype[obs.Datatype]
		if !known {
			continue
		}
		date := dayOf(obs.Date)
		if date == "" {
			continue
		}

		cells, ok := cellsByDate[date]
		if !ok {
			cells = map[string]*float64{}
			cellsByDate[date] = cells
		}
		if _, taken := cells[col]; taken {
			duplicates++
			continue
		}
		cells[col] = Float(obs.Value)
	}

	for date, cells := range cellsByDate {
		table.AppendRow(date, cells)
	}
	table.SortByKey()
	return table, duplicates
}

// dayOf truncates a NOAA timestamp ("2015-07-04T00:00:00") to its
// calendar day.
func dayOf(date string) string {
	if len(date) < 10 {
		return ""
	}
	return date[:10]
}
