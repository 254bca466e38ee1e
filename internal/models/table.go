package models

import "strconv"

// ColumnKind is the value kind inferred for a column at load time
type ColumnKind int

const (
	KindCategorical ColumnKind = iota
	KindNumeric
)

func (k ColumnKind) String() string {
	if k == KindNumeric {
		return "numeric"
	}
	return "categorical"
}

// MarshalText lets kinds appear as names in JSON/YAML output
func (k ColumnKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Column is one named column of a Table.
// Texts always holds the raw cell text (used for export and categorical counting).
// Numbers is only populated for KindNumeric columns. Missing marks absent cells;
// an absent cell keeps its position in every slice.
type Column struct {
	Name    string     `json:"name"`
	Kind    ColumnKind `json:"kind"`
	Texts   []string   `json:"values"`
	Numbers []float64  `json:"-"`
	Missing []bool     `json:"-"`
}

// Len returns the number of cells in the column
func (c *Column) Len() int {
	return len(c.Texts)
}

// IsNumeric reports whether the column was inferred as numeric
func (c *Column) IsNumeric() bool {
	return c.Kind == KindNumeric
}

// PresentCount returns the number of non-missing cells
func (c *Column) PresentCount() int {
	n := 0
	for _, m := range c.Missing {
		if !m {
			n++
		}
	}
	return n
}

// NumericValues returns the non-missing values of a numeric column in row order
func (c *Column) NumericValues() []float64 {
	if c.Kind != KindNumeric {
		return nil
	}
	vals := make([]float64, 0, len(c.Numbers))
	for i, v := range c.Numbers {
		if !c.Missing[i] {
			vals = append(vals, v)
		}
	}
	return vals
}

// Label returns the value-centric label of a cell: the shortest decimal form for
// numeric cells, the raw text otherwise. Missing cells return "".
func (c *Column) Label(row int) string {
	if c.Missing[row] {
		return ""
	}
	if c.Kind == KindNumeric {
		return strconv.FormatFloat(c.Numbers[row], 'f', -1, 64)
	}
	return c.Texts[row]
}

// Table is an ordered set of equally sized columns loaded from a survey source.
// A Table is never mutated after it is built.
type Table struct {
	Source  string    `json:"source"`
	Columns []*Column `json:"columns"`
	Rows    int       `json:"rows"`
}

// Headers returns the column names in source order
func (t *Table) Headers() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// Column returns the named column or nil
func (t *Table) Column(name string) *Column {
	for _, c := range t.Columns {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// Record returns the raw cell texts of one row, missing cells as ""
func (t *Table) Record(row int) []string {
	rec := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		if !c.Missing[row] {
			rec[i] = c.Texts[row]
		}
	}
	return rec
}
