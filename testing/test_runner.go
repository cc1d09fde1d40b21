// Package testing helps users of esframe test code which consumes DataFrames,
// without a running Elasticsearch cluster.
package testing

import (
	"context"
	"io"

	"github.com/go-sif/esframe"
	"github.com/go-sif/esframe/datasource/memory"
)

// LocalDataFrame loads JSON Lines documents into a single in-memory index, described
// by the given raw mapping and field capabilities, and returns a DataFrame over it
// along with its DataSource, so that calls can be inspected.
func LocalDataFrame(ctx context.Context, indexName string, mapping []byte, fieldCaps []byte, documents io.Reader, conf *esframe.DataFrameConf) (esframe.DataFrame, *memory.DataSource, error) {
	source := memory.CreateDataSource(&esframe.SchemaDescription{Mapping: mapping, FieldCaps: fieldCaps})
	if err := source.AddIndex(indexName, documents, nil); err != nil {
		return nil, nil, err
	}
	df, err := memory.CreateDataFrame(ctx, source, indexName, conf)
	if err != nil {
		return nil, nil, err
	}
	return df, source, nil
}
