package transform

import (
	"strings"

	"github.com/go-sif/esframe"
	errors "github.com/go-sif/esframe/errors"
)

// RemoveColumn removes existing columns, keeping every other column of the DataFrame
func RemoveColumn(oldNames ...string) esframe.DataFrameOperation {
	return func(d esframe.DataFrame) (string, *esframe.OperationResult, error) {
		toRemove := make(map[string]bool, len(oldNames))
		for _, oldName := range oldNames {
			if isProjectable, _ := d.GetSchema().DtypeOf(oldName); !isProjectable {
				return "", nil, &errors.UnknownColumnError{Name: oldName}
			}
			toRemove[oldName] = true
		}
		kept := make([]string, 0, len(d.Columns()))
		for _, col := range d.Columns() {
			if !toRemove[col] {
				kept = append(kept, col)
			}
		}
		newSchema, err := d.GetSchema().Narrow(kept...)
		if err != nil {
			return "", nil, err
		}
		return "remove_column(" + strings.Join(oldNames, ", ") + ")", &esframe.OperationResult{Schema: newSchema, IndexField: d.IndexField()}, nil
	}
}
