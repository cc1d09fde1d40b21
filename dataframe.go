package esframe

import "context"

// A DataFrame is a table-like proxy onto the documents of an index pattern.
// DataFrames are immutable: operations produce new DataFrames sharing the
// same DataSource and a (possibly narrowed) Schema. Every accessor which
// takes a Context issues its own queries against the DataSource.
type DataFrame interface {
	// GetSchema returns the Schema of a DataFrame
	GetSchema() Schema
	// GetDataSource returns the DataSource of a DataFrame
	GetDataSource() DataSource
	// IndexPattern returns the index pattern this DataFrame proxies
	IndexPattern() string
	// Operations returns the names of the pending operations applied to this DataFrame, oldest first
	Operations() []string
	// IndexField returns the field whose values index rows. Defaults to DocumentIDField.
	IndexField() string
	// To is a "functional operations" factory method for DataFrames, chaining operations onto the current one(s).
	To(ops ...DataFrameOperation) (DataFrame, error)
	// Columns returns the column names of this DataFrame, in Schema order
	Columns() []string
	// Dtypes returns the Dtype of each column
	Dtypes() []Dtype
	// Project returns a DataFrame restricted to the given columns
	Project(colNames ...string) (DataFrame, error)
	// Shape returns the number of matching documents and the number of columns. When an
	// index field has been set, only documents holding a value for it are counted.
	Shape(ctx context.Context) (rows int64, cols int, err error)
	// Head returns the first n documents, in the store's default order, or in ascending
	// order of the index field when one has been set
	Head(ctx context.Context, n int) (*Fragment, error)
	// Tail returns the last n documents, in index order, or in ascending order of the
	// index field when one has been set
	Tail(ctx context.Context, n int) (*Fragment, error)
	// Describe computes summary statistics for numeric, aggregatable columns
	Describe(ctx context.Context) (*Statistics, error)
	// Count returns the number of non-null values of each column, in column order
	Count(ctx context.Context) ([]int64, error)
	// SchemaChanged returns true iff the index mapping no longer matches this DataFrame's Schema
	SchemaChanged(ctx context.Context) (bool, error)
}
