package esframe

// Fragment is a small, fully materialized table produced from a set of
// documents. Every row holds exactly one cell per column, in column order.
// A cell is nil (missing), a scalar, or a []interface{} of scalars when the
// document held several values for that field.
type Fragment struct {
	Columns []string        // Columns are the projectable fields of the Schema, in Schema order
	Dtypes  []Dtype         // Dtypes holds the Dtype of each column
	Index   []string        // Index holds the label of each row: its document _id, or its index field value
	Rows    [][]interface{} // Rows holds cell values, indexed by row then column
}

// NumRows returns the number of rows in this Fragment
func (f *Fragment) NumRows() int {
	return len(f.Rows)
}

// NumColumns returns the number of columns in this Fragment
func (f *Fragment) NumColumns() int {
	return len(f.Columns)
}

// ColumnIndex returns the position of a column, or -1 if it does not exist
func (f *Fragment) ColumnIndex(colName string) int {
	for i, name := range f.Columns {
		if name == colName {
			return i
		}
	}
	return -1
}

// Column returns every value of a single column, in row order
func (f *Fragment) Column(colName string) ([]interface{}, bool) {
	idx := f.ColumnIndex(colName)
	if idx < 0 {
		return nil, false
	}
	values := make([]interface{}, len(f.Rows))
	for i, row := range f.Rows {
		values[i] = row[idx]
	}
	return values, true
}

// Get returns the value of a single cell
func (f *Fragment) Get(row int, colName string) (interface{}, bool) {
	idx := f.ColumnIndex(colName)
	if idx < 0 || row < 0 || row >= len(f.Rows) {
		return nil, false
	}
	return f.Rows[row][idx], true
}
