package projection

import (
	"log/slog"

	"github.com/go-sif/esframe"
	"github.com/go-sif/esframe/logging"
)

// Reconcile assembles flattened Rows into a Fragment whose columns are exactly the
// projectable fields of the Schema, in Schema order. Documents rarely hold every
// mapped field: a column missing from a row, or from every row, is filled with nil.
// ids holds the document _id of each row, and may be nil.
func Reconcile(ids []string, rows []Row, schema esframe.Schema, logger *slog.Logger) *esframe.Fragment {
	logger = logging.OrDiscard(logger)
	columns := schema.ProjectableFields()
	dtypes := make([]esframe.Dtype, len(columns))
	for i, col := range columns {
		_, dtypes[i] = schema.DtypeOf(col)
	}

	present := make(map[string]bool, len(columns))
	for _, row := range rows {
		for col := range row {
			present[col] = true
		}
	}
	for i, col := range columns {
		if !present[col] {
			logger.Debug("column absent from every document, filling with nulls", "column", col, "dtype", dtypes[i].String())
		}
	}

	cells := make([][]interface{}, len(rows))
	for r, row := range rows {
		values := make([]interface{}, len(columns))
		for i, col := range columns {
			values[i] = row[col]
		}
		cells[r] = values
	}
	return &esframe.Fragment{
		Columns: columns,
		Dtypes:  dtypes,
		Index:   ids,
		Rows:    cells,
	}
}
