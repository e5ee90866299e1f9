package wrangle

// MergeForecasts full-outer-joins two date-keyed tables: every date
// present in either input appears exactly once in the output, with absent
// cells for the columns of a source that lacks that date. Rows come back
// sorted ascending by date.
func MergeForecasts(a, b *Table) *Table {
	merged := NewTable("date")
	merged.Columns = append(merged.Columns, a.Columns...)
	merged.Columns = append(merged.Columns, b.Columns...)

	byDate := map[string]map[string]*float64{}
	var order []string

	collect := func(t *Table) {
		for _, row := range t.Rows {
			cells, ok := byDate[row.Key]
			if !ok {
				cells = map[string]*float64{}
				byDate[row.Key] = cells
				order = append(order, row.Key)
			}
			for _, col := range t.Columns {
				cells[col] = row.Cells[col]
			}
		}
	}
	collect(a)
	collect(b)

	for _, date := range order {
		merged.AppendRow(date, byDate[date])
	}
	merged.SortByKey()
	return merged
}
