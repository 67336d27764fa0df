package model

// Reference table names.
const (
	TableMaterials = "materials"
	TableCustomers = "customers"
)

// Table is a reference table as read from its source: a header and string cells.
// Every row has exactly len(Columns) cells.
type Table struct {
	Name    string
	Columns []string
	Rows    [][]string
}

// Column returns the index of the named column, or -1.
func (t Table) Column(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Field is one column of a record, kept in source column order for display.
type Field struct {
	Column string `json:"column"`
	Value  string `json:"value"`
}

// Fields projects a row onto its column names.
func (t Table) Fields(row []string) []Field {
	out := make([]Field, len(t.Columns))
	for i, c := range t.Columns {
		out[i] = Field{Column: c}
		if i < len(row) {
			out[i].Value = row[i]
		}
	}
	return out
}
