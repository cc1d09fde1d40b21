package dataframe

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/go-sif/esframe"
	errors "github.com/go-sif/esframe/errors"
	"github.com/go-sif/esframe/internal/aggregation"
	"github.com/go-sif/esframe/internal/projection"
	"github.com/go-sif/esframe/logging"
	"github.com/go-sif/esframe/operations/transform"
	"github.com/go-sif/esframe/schema"
	"github.com/hashicorp/go-multierror"
	"golang.org/x/sync/errgroup"
)

// docSortField sorts documents in index order
const docSortField = "_doc"

// A dataFrameImpl implements DataFrame internally for esframe
type dataFrameImpl struct {
	parent       *dataFrameImpl         // the parent DataFrame. Nil if this is the root.
	opName       string                 // a description of the operation which produced this DataFrame. Empty for the root.
	source       esframe.DataSource     // the store the data lives in
	indexPattern string                 // the index pattern queried in source
	schema       esframe.Schema         // the (possibly narrowed) schema of the data, shared with derived DataFrames
	conf         *esframe.DataFrameConf // configuration, shared with derived DataFrames
	index        *esframe.Field         // the field indexing rows. Nil for the document _id.
	indexSchema  esframe.Schema         // a single-field schema for flattening index values
}

// CreateDataFrame is a factory for DataFrames. It fetches the description of the index pattern
// once and builds a Schema from it. This function is not intended to be used directly,
// as DataFrames are returned by DataSource packages.
func CreateDataFrame(ctx context.Context, source esframe.DataSource, indexPattern string, conf *esframe.DataFrameConf) (esframe.DataFrame, error) {
	conf = withDefaults(conf)
	desc, err := source.FetchSchemaDescription(ctx, indexPattern)
	if err != nil {
		return nil, err
	}
	s, err := schema.Build(indexPattern, desc, conf.Logger)
	if err != nil {
		return nil, err
	}
	return &dataFrameImpl{
		source:       source,
		indexPattern: indexPattern,
		schema:       s,
		conf:         conf,
	}, nil
}

// withDefaults returns a copy of conf with defaults applied
func withDefaults(conf *esframe.DataFrameConf) *esframe.DataFrameConf {
	result := &esframe.DataFrameConf{}
	if conf != nil {
		*result = *conf
	}
	result.Logger = logging.OrDiscard(result.Logger)
	if result.MaxConcurrentQueries <= 0 {
		result.MaxConcurrentQueries = esframe.DefaultMaxConcurrentQueries
	}
	return result
}

// GetSchema returns the Schema of a DataFrame
func (df *dataFrameImpl) GetSchema() esframe.Schema {
	return df.schema
}

// GetDataSource returns the DataSource of a DataFrame
func (df *dataFrameImpl) GetDataSource() esframe.DataSource {
	return df.source
}

// IndexPattern returns the index pattern this DataFrame proxies
func (df *dataFrameImpl) IndexPattern() string {
	return df.indexPattern
}

// Operations returns the names of the operations applied to this DataFrame, oldest first
func (df *dataFrameImpl) Operations() []string {
	ops := make([]string, 0)
	for next := df; next != nil; next = next.parent {
		if next.opName != "" {
			ops = append([]string{next.opName}, ops...)
		}
	}
	return ops
}

// IndexField returns the field whose values index rows
func (df *dataFrameImpl) IndexField() string {
	if df.index == nil {
		return esframe.DocumentIDField
	}
	return df.index.Name
}

// To is a "functional operations" factory method for DataFrames,
// chaining operations onto the current one(s).
func (df *dataFrameImpl) To(ops ...esframe.DataFrameOperation) (esframe.DataFrame, error) {
	next := df
	// See https://dave.cheney.net/2014/10/17/functional-options-for-friendly-apis for details of approach
	for _, op := range ops {
		opName, result, err := op(next)
		if err != nil {
			return nil, err
		}
		index, indexSchema := next.index, next.indexSchema
		if result.IndexField != next.IndexField() {
			index, indexSchema, err = resolveIndex(result.Schema, result.IndexField)
			if err != nil {
				return nil, err
			}
		}
		next = &dataFrameImpl{
			parent:       next,
			opName:       opName,
			source:       df.source,
			indexPattern: df.indexPattern,
			schema:       result.Schema,
			conf:         df.conf,
			index:        index,
			indexSchema:  indexSchema,
		}
	}
	return next, nil
}

// resolveIndex looks up a new index field. The field keeps indexing rows even if a
// later operation removes it from the columns.
func resolveIndex(s esframe.Schema, name string) (*esframe.Field, esframe.Schema, error) {
	if name == "" || name == esframe.DocumentIDField {
		return nil, nil, nil
	}
	field, ok := s.Field(name)
	if !ok || !field.Projectable {
		return nil, nil, &errors.UnknownColumnError{Name: name}
	}
	return &field, schema.CreateSchema(field), nil
}

// Columns returns the column names of this DataFrame, in Schema order
func (df *dataFrameImpl) Columns() []string {
	return df.schema.ProjectableFields()
}

// Dtypes returns the Dtype of each column
func (df *dataFrameImpl) Dtypes() []esframe.Dtype {
	columns := df.Columns()
	dtypes := make([]esframe.Dtype, len(columns))
	for i, col := range columns {
		_, dtypes[i] = df.schema.DtypeOf(col)
	}
	return dtypes
}

// Project returns a DataFrame restricted to the given columns. No query is issued.
func (df *dataFrameImpl) Project(colNames ...string) (esframe.DataFrame, error) {
	return df.To(transform.SelectColumns(colNames...))
}

// Shape returns the number of matching documents and the number of columns
func (df *dataFrameImpl) Shape(ctx context.Context) (int64, int, error) {
	var req *esframe.CountRequest
	if df.index != nil {
		req = &esframe.CountRequest{ExistsField: df.index.Name}
	}
	df.conf.Logger.Debug("counting documents", "index_pattern", df.indexPattern, "index_field", df.IndexField())
	rows, err := df.source.FetchRowCount(ctx, df.indexPattern, req)
	if err != nil {
		return 0, 0, err
	}
	return rows, len(df.Columns()), nil
}

// Head returns the first n documents, in the store's default result order
func (df *dataFrameImpl) Head(ctx context.Context, n int) (*esframe.Fragment, error) {
	if n < 0 {
		return nil, fmt.Errorf("Head requires a non-negative number of rows, got %d", n)
	}
	req := &esframe.SearchRequest{Size: n}
	if df.index != nil {
		req.SortBy = df.index.Name
	}
	hits, err := df.fetch(ctx, req)
	if err != nil {
		return nil, err
	}
	return df.toFragment(hits)
}

// Tail returns the last n documents, in index order
func (df *dataFrameImpl) Tail(ctx context.Context, n int) (*esframe.Fragment, error) {
	if n < 0 {
		return nil, fmt.Errorf("Tail requires a non-negative number of rows, got %d", n)
	}
	req := &esframe.SearchRequest{Size: n, SortBy: docSortField, SortDesc: true}
	if df.index != nil {
		req.SortBy = df.index.Name
	}
	hits, err := df.fetch(ctx, req)
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(hits)-1; i < j; i, j = i+1, j-1 {
		hits[i], hits[j] = hits[j], hits[i]
	}
	return df.toFragment(hits)
}

// fetch retrieves raw documents, restricting _source to this DataFrame's columns when they have been narrowed
func (df *dataFrameImpl) fetch(ctx context.Context, req *esframe.SearchRequest) ([]esframe.Hit, error) {
	if len(df.Operations()) > 0 {
		req.Source = df.Columns()
		if isProjectable, _ := df.schema.DtypeOf(df.IndexField()); df.index != nil && !isProjectable {
			req.Source = append(req.Source, df.index.Name)
		}
	}
	df.conf.Logger.Debug("fetching documents", "index_pattern", df.indexPattern, "size", req.Size, "sort", req.SortBy)
	return df.source.FetchDocuments(ctx, df.indexPattern, req)
}

// toFragment flattens and reconciles raw documents. Any document which cannot be
// flattened fails the whole Fragment. Rows are indexed by document _id, or by the
// value of the index field.
func (df *dataFrameImpl) toFragment(hits []esframe.Hit) (*esframe.Fragment, error) {
	ids := make([]string, 0, len(hits))
	rows := make([]projection.Row, 0, len(hits))
	var merr *multierror.Error
	for _, hit := range hits {
		row, err := projection.Flatten(hit.Source, df.schema)
		if err != nil {
			merr = multierror.Append(merr, fmt.Errorf("document %s: %w", hit.ID, err))
			continue
		}
		id, err := df.indexValue(hit)
		if err != nil {
			merr = multierror.Append(merr, fmt.Errorf("document %s: %w", hit.ID, err))
			continue
		}
		ids = append(ids, id)
		rows = append(rows, row)
	}
	if err := merr.ErrorOrNil(); err != nil {
		return nil, err
	}
	return projection.Reconcile(ids, rows, df.schema, df.conf.Logger), nil
}

// indexValue returns the index label of a document. Documents without a value for
// the index field are labelled with the null representation of its Dtype.
func (df *dataFrameImpl) indexValue(hit esframe.Hit) (string, error) {
	if df.index == nil {
		return hit.ID, nil
	}
	row, err := projection.Flatten(hit.Source, df.indexSchema)
	if err != nil {
		return "", err
	}
	return df.index.Dtype.ToString(row[df.index.Name]), nil
}

// Describe computes count, mean, std, min, quartiles and max for every numeric,
// aggregatable column, in a single aggregation query
func (df *dataFrameImpl) Describe(ctx context.Context) (*esframe.Statistics, error) {
	fields := df.schema.NumericAggregatableFields()
	df.conf.Logger.Debug("describing columns", "index_pattern", df.indexPattern, "columns", fields)
	resp, err := df.source.ExecuteAggregation(ctx, df.indexPattern, aggregation.BuildStatsRequest(fields))
	if err != nil {
		return nil, err
	}
	return aggregation.ParseStatsResponse(resp, fields)
}

// Count returns the number of documents holding a non-null value for each column, in
// column order. One exists query is issued per column, with bounded parallelism.
func (df *dataFrameImpl) Count(ctx context.Context) ([]int64, error) {
	columns := df.Columns()
	counts := make([]int64, len(columns))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(df.conf.MaxConcurrentQueries)
	for i, col := range columns {
		i, col := i, col
		g.Go(func() error {
			count, err := df.source.FetchRowCount(gctx, df.indexPattern, &esframe.CountRequest{ExistsField: col})
			if err != nil {
				return err
			}
			counts[i] = count
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return counts, nil
}

// SchemaChanged fetches the description of the index pattern again, and compares it
// to this DataFrame's Schema. A narrowed DataFrame only compares its own columns.
func (df *dataFrameImpl) SchemaChanged(ctx context.Context) (bool, error) {
	desc, err := df.source.FetchSchemaDescription(ctx, df.indexPattern)
	if err != nil {
		return false, err
	}
	fresh, err := schema.Build(df.indexPattern, desc, df.conf.Logger)
	if err != nil {
		return false, err
	}
	if len(df.Operations()) > 0 {
		fresh, err = fresh.Narrow(df.Columns()...)
		var unknownCol *errors.UnknownColumnError
		if stderrors.As(err, &unknownCol) {
			return true, nil
		} else if err != nil {
			return false, err
		}
	}
	changed := fresh.Fingerprint() != df.schema.Fingerprint()
	if changed {
		df.conf.Logger.Warn("index mapping has changed", "index_pattern", df.indexPattern)
	}
	return changed, nil
}
