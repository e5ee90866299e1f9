// Package wrangle holds the data reconciliation core: it normalizes
// provider payloads into one tabular model, merges forecast tables on
// date, pivots long-form station observations to wide form, and computes
// the historical and climatological summaries embedded in the LLM prompt.
// Everything in this package is a pure function of its inputs.
package wrangle

import (
	"encoding/json"
	"sort"
)

// Table is a small record-oriented table keyed by a string column
// ("date" for forecast/historical tables, "month_day" for climatology).
// A nil cell means the value is absent, which is distinct from zero.
type Table struct {
	Key     string
	Columns []string
	Rows    []Row
}

type Row struct {
	Key   string
	Cells map[string]*float64
}

func NewTable(key string, columns ...string) *Table {
	return &Table{Key: key, Columns: columns}
}

func (t *Table) AppendRow(key string, cells map[string]*float64) {
	if cells == nil {
		cells = map[string]*float64{}
	}
	t.Rows = append(t.Rows, Row{Key: key, Cells: cells})
}

func (t *Table) Empty() bool {
	return t == nil || len(t.Rows) == 0
}

// SortByKey orders rows ascending by key. ISO dates and month-day keys
// both sort correctly as strings.
func (t *Table) SortByKey() {
	sort.SliceStable(t.Rows, func(i, j int) bool {
		return t.Rows[i].Key < t.Rows[j].Key
	})
}

// Records flattens the table into one map per row, key column first.
// Absent cells serialize as JSON null so downstream consumers can tell
// missing from zero.
func (t *Table) Records() []map[string]any {
	records := make([]map[string]any, 0, len(t.Rows))
	for _, row := range t.Rows {
		rec := make(map[string]any, len(t.Columns)+1)
		rec[t.Key] = row.Key
		for _, col := range t.Columns {
			if v, ok := row.Cells[col]; ok && v != nil {
				rec[col] = *v
			} else {
				rec[col] = nil
			}
		}
		records = append(records, rec)
	}
	return records
}

// RecordsJSON renders the table in the record-oriented form embedded in
// the LLM prompt.
func (t *Table) RecordsJSON() (string, error) {
	b, err := json.Marshal(t.Records())
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Float is a convenience for building cell values.
func Float(v float64) *float64 {
	return &v
}
