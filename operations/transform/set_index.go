package transform

import (
	"fmt"

	"github.com/go-sif/esframe"
	errors "github.com/go-sif/esframe/errors"
)

// SetIndex indexes the rows of a DataFrame by the values of a column instead of the
// document _id. Rows are then read in the order of that column, and only documents
// holding a value for it are counted. The column must be aggregatable, so that the
// store can sort on it. Passing esframe.DocumentIDField restores the default index.
func SetIndex(colName string) esframe.DataFrameOperation {
	return func(d esframe.DataFrame) (string, *esframe.OperationResult, error) {
		if colName != esframe.DocumentIDField {
			if isProjectable, _ := d.GetSchema().DtypeOf(colName); !isProjectable {
				return "", nil, &errors.UnknownColumnError{Name: colName}
			}
			if field, _ := d.GetSchema().Field(colName); !field.Aggregatable {
				return "", nil, fmt.Errorf("cannot index by %s: field is not aggregatable", colName)
			}
		}
		return "set_index(" + colName + ")", &esframe.OperationResult{Schema: d.GetSchema(), IndexField: colName}, nil
	}
}
