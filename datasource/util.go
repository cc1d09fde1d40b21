package datasource

import (
	"context"
	"path"
	"strings"

	"github.com/go-sif/esframe"
	"github.com/go-sif/esframe/internal/dataframe"
)

// CreateDataFrame produces a fresh DataFrame (useful for the implementation of DataSources)
func CreateDataFrame(ctx context.Context, source esframe.DataSource, indexPattern string, conf *esframe.DataFrameConf) (esframe.DataFrame, error) {
	return dataframe.CreateDataFrame(ctx, source, indexPattern, conf)
}

// MatchIndexPattern returns true iff index matches a comma-separated list of
// wildcard expressions, e.g. "orders-*,archive"
func MatchIndexPattern(indexPattern string, index string) bool {
	for _, expr := range strings.Split(indexPattern, ",") {
		expr = strings.TrimSpace(expr)
		if expr == "_all" {
			return true
		}
		if ok, err := path.Match(expr, index); err == nil && ok {
			return true
		}
	}
	return false
}
