package memory

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/go-sif/esframe"
	"github.com/go-sif/esframe/accumulators"
	"github.com/go-sif/esframe/datasource"
	errors "github.com/go-sif/esframe/errors"
	json "github.com/json-iterator/go"
	"github.com/tidwall/gjson"
)

// Names of the operations counted by Calls
const (
	SchemaOp    = "schema"
	SearchOp    = "search"
	CountOp     = "count"
	AggregateOp = "aggregate"
)

// index is a named, ordered collection of documents
type index struct {
	name string
	docs []esframe.Hit
}

// DataSource is a set of in-memory indices, described by a single raw mapping
// and field capabilities response
type DataSource struct {
	mu      sync.RWMutex
	desc    *esframe.SchemaDescription
	indices []*index
	calls   map[string]*atomic.Int64
}

// CreateDataSource is a factory for DataSources
func CreateDataSource(desc *esframe.SchemaDescription) *DataSource {
	return &DataSource{
		desc:    desc,
		indices: make([]*index, 0),
		calls: map[string]*atomic.Int64{
			SchemaOp:    new(atomic.Int64),
			SearchOp:    new(atomic.Int64),
			CountOp:     new(atomic.Int64),
			AggregateOp: new(atomic.Int64),
		},
	}
}

// CreateDataFrame is a factory for DataFrames backed by a memory DataSource
func CreateDataFrame(ctx context.Context, source *DataSource, indexPattern string, conf *esframe.DataFrameConf) (esframe.DataFrame, error) {
	return datasource.CreateDataFrame(ctx, source, indexPattern, conf)
}

// AddIndex parses JSON Lines documents from r into a new index. Indices are
// searched in the order they were added.
func (ds *DataSource) AddIndex(name string, r io.Reader, conf *ParserConf) error {
	docs, err := ParseJSONL(r, conf)
	if err != nil {
		return fmt.Errorf("index %s: %w", name, err)
	}
	ds.AddDocuments(name, docs...)
	return nil
}

// AddDocuments appends documents to an index, creating it if necessary
func (ds *DataSource) AddDocuments(name string, docs ...esframe.Hit) {
	ds.mu.Lock()
	defer ds.mu.Unlock()
	for _, idx := range ds.indices {
		if idx.name == name {
			idx.docs = append(idx.docs, docs...)
			return
		}
	}
	ds.indices = append(ds.indices, &index{name: name, docs: docs})
}

// SetSchemaDescription replaces the raw description returned for every index pattern
func (ds *DataSource) SetSchemaDescription(desc *esframe.SchemaDescription) {
	ds.mu.Lock()
	defer ds.mu.Unlock()
	ds.desc = desc
}

// Calls returns the number of requests received for an operation
func (ds *DataSource) Calls(op string) int64 {
	counter, ok := ds.calls[op]
	if !ok {
		return 0
	}
	return counter.Load()
}

// TotalCalls returns the number of requests received for all operations
func (ds *DataSource) TotalCalls() int64 {
	var total int64
	for _, counter := range ds.calls {
		total += counter.Load()
	}
	return total
}

// matching returns the indices matching an index pattern, in the order they were added
func (ds *DataSource) matching(op string, indexPattern string) ([]*index, error) {
	ds.mu.RLock()
	defer ds.mu.RUnlock()
	result := make([]*index, 0, len(ds.indices))
	for _, idx := range ds.indices {
		if datasource.MatchIndexPattern(indexPattern, idx.name) {
			result = append(result, &index{name: idx.name, docs: idx.docs})
		}
	}
	if len(result) == 0 {
		return nil, &errors.TransportError{
			Op:         op,
			StatusCode: http.StatusNotFound,
			Err:        fmt.Errorf("no such index [%s]", indexPattern),
		}
	}
	return result, nil
}

// FetchSchemaDescription returns the raw description of the DataSource
func (ds *DataSource) FetchSchemaDescription(ctx context.Context, indexPattern string) (*esframe.SchemaDescription, error) {
	ds.calls[SchemaOp].Add(1)
	if err := ctx.Err(); err != nil {
		return nil, &errors.TransportError{Op: SchemaOp, Err: err}
	}
	if _, err := ds.matching(SchemaOp, indexPattern); err != nil {
		return nil, err
	}
	ds.mu.RLock()
	defer ds.mu.RUnlock()
	if ds.desc == nil {
		return nil, &errors.TransportError{
			Op:         SchemaOp,
			StatusCode: http.StatusNotFound,
			Err:        fmt.Errorf("no mapping for [%s]", indexPattern),
		}
	}
	return &esframe.SchemaDescription{Mapping: ds.desc.Mapping, FieldCaps: ds.desc.FieldCaps}, nil
}

// FetchDocuments returns up to req.Size documents, sorted and filtered as requested.
// Without a sort, documents are returned in index order.
func (ds *DataSource) FetchDocuments(ctx context.Context, indexPattern string, req *esframe.SearchRequest) ([]esframe.Hit, error) {
	ds.calls[SearchOp].Add(1)
	if err := ctx.Err(); err != nil {
		return nil, &errors.TransportError{Op: SearchOp, Err: err}
	}
	indices, err := ds.matching(SearchOp, indexPattern)
	if err != nil {
		return nil, err
	}
	if req == nil {
		req = &esframe.SearchRequest{Size: 10}
	}
	hits := make([]esframe.Hit, 0)
	for _, idx := range indices {
		hits = append(hits, idx.docs...)
	}
	sortHits(hits, req.SortBy, req.SortDesc)
	if req.Size < len(hits) {
		hits = hits[:req.Size]
	}
	result := make([]esframe.Hit, len(hits))
	for i, hit := range hits {
		source := hit.Source
		if len(req.Source) > 0 {
			source, err = filterSource(hit.Source, req.Source)
			if err != nil {
				return nil, &errors.TransportError{Op: SearchOp, StatusCode: http.StatusInternalServerError, Err: err}
			}
		}
		result[i] = esframe.Hit{ID: hit.ID, Source: source}
	}
	return result, nil
}

// sortHits sorts documents in place. "_doc" is index order; any other field sorts
// on its first value, with documents missing the field last.
func sortHits(hits []esframe.Hit, sortBy string, desc bool) {
	if sortBy == "" {
		return
	}
	if sortBy == "_doc" {
		if desc {
			for i, j := 0, len(hits)-1; i < j; i, j = i+1, j-1 {
				hits[i], hits[j] = hits[j], hits[i]
			}
		}
		return
	}
	keys := make([]gjson.Result, len(hits))
	present := make([]bool, len(hits))
	for i, hit := range hits {
		keys[i], present[i] = firstValue(gjson.ParseBytes(hit.Source), sortBy)
	}
	order := make([]int, len(hits))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		i, j := order[a], order[b]
		if !present[i] || !present[j] {
			return present[i] && !present[j]
		}
		if desc {
			return keys[j].Less(keys[i], true)
		}
		return keys[i].Less(keys[j], true)
	})
	sorted := make([]esframe.Hit, len(hits))
	for i, o := range order {
		sorted[i] = hits[o]
	}
	copy(hits, sorted)
}

// FetchRowCount counts documents, optionally only those holding a value for req.ExistsField
func (ds *DataSource) FetchRowCount(ctx context.Context, indexPattern string, req *esframe.CountRequest) (int64, error) {
	ds.calls[CountOp].Add(1)
	if err := ctx.Err(); err != nil {
		return 0, &errors.TransportError{Op: CountOp, Err: err}
	}
	indices, err := ds.matching(CountOp, indexPattern)
	if err != nil {
		return 0, err
	}
	var count int64
	for _, idx := range indices {
		for _, doc := range idx.docs {
			if req == nil || req.ExistsField == "" || hasValue(gjson.ParseBytes(doc.Source), req.ExistsField) {
				count++
			}
		}
	}
	return count, nil
}

// fieldAggregations are the aggregations requested over a single field
type fieldAggregations struct {
	field     string
	names     []string
	factories []func() esframe.Accumulator
}

// ExecuteAggregation computes extended_stats, percentiles, value_count and sum
// aggregations. Each field is traversed once per index, feeding a composition of
// every aggregation requested over it, and per-index results are then merged.
func (ds *DataSource) ExecuteAggregation(ctx context.Context, indexPattern string, req esframe.AggregationRequest) (esframe.AggregationResponse, error) {
	ds.calls[AggregateOp].Add(1)
	if err := ctx.Err(); err != nil {
		return nil, &errors.TransportError{Op: AggregateOp, Err: err}
	}
	indices, err := ds.matching(AggregateOp, indexPattern)
	if err != nil {
		return nil, err
	}
	byField, err := groupAggregations(req)
	if err != nil {
		return nil, err
	}

	results := make(map[string]interface{}, len(req))
	for _, fa := range byField {
		var total esframe.Accumulator
		parts := strings.Split(fa.field, ".")
		for _, idx := range indices {
			acc := accumulators.Compose(fa.factories...)()
			for _, doc := range idx.docs {
				collectValues(gjson.ParseBytes(doc.Source), parts, func(value gjson.Result) {
					if err == nil {
						err = acc.Accumulate(value)
					}
				})
			}
			if err != nil {
				return nil, &errors.TransportError{Op: AggregateOp, StatusCode: http.StatusBadRequest, Err: fmt.Errorf("field %s: %w", fa.field, err)}
			}
			if total == nil {
				total = acc
			} else if err := total.Merge(acc); err != nil {
				return nil, &errors.TransportError{Op: AggregateOp, StatusCode: http.StatusInternalServerError, Err: err}
			}
		}
		for i, acc := range total.(*accumulators.Composed).GetResults() {
			results[fa.names[i]] = acc.Result()
		}
	}
	resp, err := json.ConfigCompatibleWithStandardLibrary.Marshal(results)
	if err != nil {
		return nil, &errors.TransportError{Op: AggregateOp, StatusCode: http.StatusInternalServerError, Err: err}
	}
	return resp, nil
}

// groupAggregations parses an AggregationRequest, grouping aggregations by field.
// Aggregation names are visited in sorted order.
func groupAggregations(req esframe.AggregationRequest) ([]*fieldAggregations, error) {
	names := make([]string, 0, len(req))
	for name := range req {
		names = append(names, name)
	}
	sort.Strings(names)
	byField := make([]*fieldAggregations, 0)
	lookup := make(map[string]*fieldAggregations)
	for _, name := range names {
		field, factory, err := parseAggregation(name, req[name])
		if err != nil {
			return nil, err
		}
		fa, ok := lookup[field]
		if !ok {
			fa = &fieldAggregations{field: field}
			lookup[field] = fa
			byField = append(byField, fa)
		}
		fa.names = append(fa.names, name)
		fa.factories = append(fa.factories, factory)
	}
	return byField, nil
}

// defaultPercents are the percentiles computed when none are requested
var defaultPercents = []float64{1, 5, 25, 50, 75, 95, 99}

// parseAggregation reads a single aggregation definition, e.g. {"sum": {"field": "price"}}
func parseAggregation(name string, def interface{}) (string, func() esframe.Accumulator, error) {
	body, ok := def.(map[string]interface{})
	if !ok || len(body) != 1 {
		return "", nil, &errors.TransportError{Op: AggregateOp, StatusCode: http.StatusBadRequest, Err: fmt.Errorf("aggregation %s must define exactly one aggregation type", name)}
	}
	for aggType, rawParams := range body {
		params, ok := rawParams.(map[string]interface{})
		if !ok {
			return "", nil, &errors.TransportError{Op: AggregateOp, StatusCode: http.StatusBadRequest, Err: fmt.Errorf("aggregation %s has no parameters", name)}
		}
		field, ok := params["field"].(string)
		if !ok || field == "" {
			return "", nil, &errors.TransportError{Op: AggregateOp, StatusCode: http.StatusBadRequest, Err: fmt.Errorf("aggregation %s has no field", name)}
		}
		switch aggType {
		case "extended_stats":
			return field, accumulators.ExtendedStatsAccumulator, nil
		case "value_count":
			return field, accumulators.Counter, nil
		case "sum":
			return field, accumulators.Adder, nil
		case "percentiles":
			percents, err := parsePercents(params["percents"])
			if err != nil {
				return "", nil, &errors.TransportError{Op: AggregateOp, StatusCode: http.StatusBadRequest, Err: fmt.Errorf("aggregation %s: %w", name, err)}
			}
			return field, accumulators.PercentilesAccumulator(percents...), nil
		default:
			return "", nil, &errors.UnsupportedAggregationError{Name: aggType}
		}
	}
	return "", nil, nil
}

func parsePercents(raw interface{}) ([]float64, error) {
	switch percents := raw.(type) {
	case nil:
		return defaultPercents, nil
	case []float64:
		return percents, nil
	case []interface{}:
		result := make([]float64, len(percents))
		for i, p := range percents {
			switch v := p.(type) {
			case float64:
				result[i] = v
			case int:
				result[i] = float64(v)
			default:
				return nil, fmt.Errorf("percent %v is not a number", p)
			}
		}
		return result, nil
	default:
		return nil, fmt.Errorf("percents must be a list of numbers")
	}
}
