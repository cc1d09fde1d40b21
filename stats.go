package esframe

// StatisticNames are the row labels of a Statistics table, in order
var StatisticNames = [8]string{"count", "mean", "std", "min", "25%", "50%", "75%", "max"}

// Statistics is the result of describing a DataFrame: one column per numeric,
// aggregatable field, and one row per entry in StatisticNames. A field for which
// nothing could be computed has no column at all.
type Statistics struct {
	Columns []string              // Columns are the described fields, in Schema order
	Values  map[string][]*float64 // Values maps a column to its statistics, in StatisticNames order. Nil entries are null.
}

// NumColumns returns the number of described columns
func (s *Statistics) NumColumns() int {
	return len(s.Columns)
}

// HasColumn returns true iff the given field was described
func (s *Statistics) HasColumn(colName string) bool {
	_, ok := s.Values[colName]
	return ok
}

// Get returns a single statistic for a column. ok is false if the column
// is absent, the statistic name is unknown, or the value is null.
func (s *Statistics) Get(stat string, colName string) (value float64, ok bool) {
	values, hasCol := s.Values[colName]
	if !hasCol {
		return 0, false
	}
	for i, name := range StatisticNames {
		if name == stat && values[i] != nil {
			return *values[i], true
		}
	}
	return 0, false
}
