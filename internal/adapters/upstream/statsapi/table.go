package statsapi

import (
	"strconv"
	"strings"

	jsoniter "github.com/json-iterator/go"

	"github.com/benitoschiffler/nba-props-lab/internal/adapters/upstream"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// rawSet is one named table of the tabular payload.
type rawSet struct {
	Name    string  `json:"name"`
	Headers []any   `json:"headers"`
	RowSet  [][]any `json:"rowSet"`
}

// envelope covers both the plural and the older singular layout.
type envelope struct {
	ResultSets []rawSet `json:"resultSets"`
	ResultSet  *rawSet  `json:"resultSet"`
}

// Table is a decoded result set addressed by column name.
type Table struct {
	Name  string
	index map[string]int
	rows  [][]any
}

// Parse decodes a tabular body into its tables keyed by name.
func Parse(body []byte) (map[string]*Table, error) {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, upstream.Malformed(Source, "decode: %v", err)
	}
	sets := env.ResultSets
	if env.ResultSet != nil {
		sets = append(sets, *env.ResultSet)
	}
	if len(sets) == 0 {
		return nil, upstream.Malformed(Source, "no result sets")
	}

	out := make(map[string]*Table, len(sets))
	for _, s := range sets {
		t := &Table{Name: s.Name, index: make(map[string]int, len(s.Headers)), rows: s.RowSet}
		for i, h := range s.Headers {
			if name, ok := h.(string); ok {
				t.index[strings.ToUpper(name)] = i
			}
		}
		out[s.Name] = t
	}
	return out, nil
}

// Len is the number of rows.
func (t *Table) Len() int { return len(t.rows) }

// Row returns row i.
func (t *Table) Row(i int) Row { return Row{t: t, vals: t.rows[i]} }

// Has reports whether the table carries col.
func (t *Table) Has(col string) bool {
	_, ok := t.index[col]
	return ok
}

// Rows iterates over every row.
func (t *Table) Rows() []Row {
	out := make([]Row, len(t.rows))
	for i := range t.rows {
		out[i] = t.Row(i)
	}
	return out
}

// Row is one table row. Missing columns and nulls read as zero values.
type Row struct {
	t    *Table
	vals []any
}

func (r Row) raw(col string) any {
	i, ok := r.t.index[col]
	if !ok || i >= len(r.vals) {
		return nil
	}
	return r.vals[i]
}

// Float reads a numeric column.
func (r Row) Float(col string) float64 {
	switch v := r.raw(col).(type) {
	case float64:
		return v
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0
		}
		return f
	case bool:
		if v {
			return 1
		}
	}
	return 0
}

// Int reads a numeric column truncated to int.
func (r Row) Int(col string) int { return int(r.Float(col)) }

// String reads a column as text; numbers are printed without exponent.
func (r Row) String(col string) string {
	switch v := r.raw(col).(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return ""
}
