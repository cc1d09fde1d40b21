package esframe

// DocumentIDField is the default row index of a DataFrame: the document _id
const DocumentIDField = "_id"

// DataFrameOperation - A generic DataFrame transform, returning a string representation of the
// operation and a description of the resulting DataFrame. Operations are pending: they
// shape the queries issued by later accessors, and never query the store themselves.
type DataFrameOperation func(df DataFrame) (opName string, result *OperationResult, err error)

// OperationResult describes the DataFrame produced by a DataFrameOperation
type OperationResult struct {
	Schema     Schema // Schema is the (possibly narrowed) Schema of the resulting DataFrame
	IndexField string // IndexField is the field whose values index rows, or DocumentIDField
}
