package wrangle

import (
	"math"
	"time"
)

// SummarizeHistorical computes mean, sample standard deviation and
// observation count per variable over the wide historical table.
// Rows where every variable is absent are dropped first; rows with
// partial data still contribute to the columns they do have, so counts
// can legitimately differ between variables. Results are rounded to two
// decimals for presentation stability.
func SummarizeHistorical(historical *Table) *Table {
	summary := NewTable("variable", "mean", "std", "count")

	rows := rowsWithAnyValue(historical)
	for _, col := range historical.Columns {
		mean, std, count := columnStats(rows, col)
		summary.AppendRow(col, map[string]*float64{
			"mean":  round2(mean),
			"std":   round2(std),
			"count": Float(float64(count)),
		})
	}
	return summary
}

// SummarizeClimatology groups the historical table by month-day (year
// discarded) and computes the same statistics per group, flattened into
// "<variable>-mean" / "-std" / "-count" columns. One output row per
// distinct month-day, sorted ascending; the per-group counts say how
// many of the contributing years had a value for that calendar day.
func SummarizeClimatology(historical *Table) *Table {
	columns := make([]string, 0, len(historical.Columns)*3)
	for _, col := range historical.Columns {
		columns = append(columns, col+"-mean", col+"-std", col+"-count")
	}
	climatology := NewTable("month_day", columns...)

	groups := map[string][]Row{}
	for _, row := range rowsWithAnyValue(historical) {
		key, ok := monthDay(row.Key)
		if !ok {
			continue
		}
		groups[key] = append(groups[key], row)
	}

	for key, rows := range groups {
		cells := make(map[string]*float64, len(columns))
		for _, col := range historical.Columns {
			mean, std, count := columnStats(rows, col)
			cells[col+"-mean"] = mean
			cells[col+"-std"] = std
			cells[col+"-count"] = Float(float64(count))
		}
		climatology.AppendRow(key, cells)
	}
	climatology.SortByKey()
	return climatology
}

// rowsWithAnyValue drops rows where all variable columns are absent.
func rowsWithAnyValue(t *Table) []Row {
	var kept []Row
	for _, row := range t.Rows {
		for _, col := range t.Columns {
			if row.Cells[col] != nil {
				kept = append(kept, row)
				break
			}
		}
	}
	return kept
}

// columnStats computes pairwise-complete statistics for one column:
// only rows where that column is present contribute. Mean is absent for
// an empty column, std is absent below two observations.
func columnStats(rows []Row, col string) (mean, std *float64, count int) {
	var values []float64
	for _, row := range rows {
		if v := row.Cells[col]; v != nil {
			values = append(values, *v)
		}
	}
	count = len(values)
	if count == 0 {
		return nil, nil, 0
	}

	var sum float64
	for _, v := range values {
		sum += v
	}
	m := sum / float64(count)
	mean = Float(m)

	if count < 2 {
		return mean, nil, count
	}
	var ss float64
	for _, v := range values {
		ss += (v - m) * (v - m)
	}
	return mean, Float(math.Sqrt(ss / float64(count-1))), count
}

// monthDay derives the grouping key from an ISO date, e.g. "07-04".
func monthDay(date string) (string, bool) {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return "", false
	}
	return t.Format("01-02"), true
}

func round2(v *float64) *float64 {
	if v == nil {
		return nil
	}
	return Float(math.Round(*v*100) / 100)
}
