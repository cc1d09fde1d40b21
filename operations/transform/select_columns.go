package transform

import (
	"strings"

	"github.com/go-sif/esframe"
)

// SelectColumns restricts a DataFrame to the given columns. Columns keep the
// DataFrame's order, whatever order they are requested in.
func SelectColumns(colNames ...string) esframe.DataFrameOperation {
	return func(d esframe.DataFrame) (string, *esframe.OperationResult, error) {
		newSchema, err := d.GetSchema().Narrow(colNames...)
		if err != nil {
			return "", nil, err
		}
		return "select_columns(" + strings.Join(colNames, ", ") + ")", &esframe.OperationResult{Schema: newSchema, IndexField: d.IndexField()}, nil
	}
}
