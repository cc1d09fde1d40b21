package memory

import (
	"context"
	stderrors "errors"
	"strings"
	"testing"

	"github.com/go-sif/esframe"
	errors "github.com/go-sif/esframe/errors"
	"github.com/go-sif/esframe/internal/test"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func createOrdersDataSource(t *testing.T) *DataSource {
	source := CreateDataSource(test.OrdersDescription())
	require.Nil(t, source.AddIndex(test.OrdersIndex, test.OrdersDocumentsReader(), nil))
	return source
}

func TestParseJSONL(t *testing.T) {
	data := "# header\n{\"a\": 1}\n\n# comment\n{\"a\": 2}\n"
	hits, err := ParseJSONL(strings.NewReader(data), &ParserConf{HeaderLines: 1, Comment: '#'})
	require.Nil(t, err)
	require.Equal(t, []esframe.Hit{
		{ID: "0", Source: []byte(`{"a": 1}`)},
		{ID: "1", Source: []byte(`{"a": 2}`)},
	}, hits)

	_, err = ParseJSONL(strings.NewReader("{\"a\": 1}\n[1, 2]\n"), nil)
	require.NotNil(t, err)
	require.Contains(t, err.Error(), "line 2")
}

func TestFetchSchemaDescription(t *testing.T) {
	source := createOrdersDataSource(t)
	desc, err := source.FetchSchemaDescription(context.Background(), "ord*")
	require.Nil(t, err)
	require.Equal(t, test.OrdersMapping, string(desc.Mapping))
	require.EqualValues(t, 1, source.Calls(SchemaOp))

	_, err = source.FetchSchemaDescription(context.Background(), "customers")
	var transportErr *errors.TransportError
	require.True(t, stderrors.As(err, &transportErr))
	require.True(t, transportErr.IsNotFound())

	source.SetSchemaDescription(nil)
	_, err = source.FetchSchemaDescription(context.Background(), test.OrdersIndex)
	require.True(t, stderrors.As(err, &transportErr))
}

func TestFetchDocuments(t *testing.T) {
	source := createOrdersDataSource(t)
	hits, err := source.FetchDocuments(context.Background(), test.OrdersIndex, &esframe.SearchRequest{Size: 2})
	require.Nil(t, err)
	require.Len(t, hits, 2)
	require.Equal(t, "0", hits[0].ID)
	require.Equal(t, "Eddie", gjson.GetBytes(hits[0].Source, "customer_first_name").String())
	require.Equal(t, "1", hits[1].ID)
}

func TestFetchDocumentsSorted(t *testing.T) {
	source := createOrdersDataSource(t)
	hits, err := source.FetchDocuments(context.Background(), test.OrdersIndex, &esframe.SearchRequest{Size: 3, SortBy: "_doc", SortDesc: true})
	require.Nil(t, err)
	require.Equal(t, "2", hits[0].ID)
	require.Equal(t, "0", hits[2].ID)

	hits, err = source.FetchDocuments(context.Background(), test.OrdersIndex, &esframe.SearchRequest{Size: 3, SortBy: "taxful_total_price"})
	require.Nil(t, err)
	require.Equal(t, []string{"2", "0", "1"}, []string{hits[0].ID, hits[1].ID, hits[2].ID})

	// documents without the field sort last, in either direction
	hits, err = source.FetchDocuments(context.Background(), test.OrdersIndex, &esframe.SearchRequest{Size: 3, SortBy: "is_member", SortDesc: true})
	require.Nil(t, err)
	require.Equal(t, []string{"0", "1", "2"}, []string{hits[0].ID, hits[1].ID, hits[2].ID})
}

func TestFetchDocumentsSourceFiltering(t *testing.T) {
	source := createOrdersDataSource(t)
	hits, err := source.FetchDocuments(context.Background(), test.OrdersIndex, &esframe.SearchRequest{
		Size:   1,
		Source: []string{"group", "user.first", "products"},
	})
	require.Nil(t, err)
	require.JSONEq(t, `{
		"group": "amsterdam",
		"user": [{"first": "John"}, {"first": "Alice"}],
		"products": [{"price": 11.99, "created_on": "2016-12-26T09:28:48+00:00"}, {"price": 24.99, "created_on": "2016-12-12T00:00:00+00:00"}]
	}`, string(hits[0].Source))
}

func TestFilterSource(t *testing.T) {
	filtered, err := filterSource([]byte(`{"a": {"b": 1, "c": 2}, "a.d": 3, "e": [1, {"f": 2}], "g": {"h": 1}}`), []string{"a.b", "e.f", "g.h.i"})
	require.Nil(t, err)
	require.JSONEq(t, `{"a": {"b": 1}, "e": [{"f": 2}], "g": {}}`, string(filtered))
}

func TestFetchRowCount(t *testing.T) {
	source := createOrdersDataSource(t)
	count, err := source.FetchRowCount(context.Background(), test.OrdersIndex, nil)
	require.Nil(t, err)
	require.EqualValues(t, 3, count)

	expected := map[string]int64{
		"user.first":          2,
		"products.created_on": 2,
		"products.price":      3,
		"rating":              0,
		"location":            2,
		"discount":            0,
	}
	for field, exp := range expected {
		count, err := source.FetchRowCount(context.Background(), test.OrdersIndex, &esframe.CountRequest{ExistsField: field})
		require.Nil(t, err)
		require.Equal(t, exp, count, field)
	}
	require.EqualValues(t, 1+len(expected), source.Calls(CountOp))
}

func TestMultipleIndices(t *testing.T) {
	source := CreateDataSource(test.OrdersDescription())
	require.Nil(t, source.AddIndex("orders-2016", strings.NewReader(`{"rating": 1}`), nil))
	require.Nil(t, source.AddIndex("orders-2017", strings.NewReader("{\"rating\": 3}\n{\"rating\": 5}"), nil))
	require.Nil(t, source.AddIndex("archive", strings.NewReader(`{"rating": 100}`), nil))

	count, err := source.FetchRowCount(context.Background(), "orders-*", nil)
	require.Nil(t, err)
	require.EqualValues(t, 3, count)
	count, err = source.FetchRowCount(context.Background(), "orders-2016,archive", nil)
	require.Nil(t, err)
	require.EqualValues(t, 2, count)
	count, err = source.FetchRowCount(context.Background(), "_all", nil)
	require.Nil(t, err)
	require.EqualValues(t, 4, count)

	resp, err := source.ExecuteAggregation(context.Background(), "orders-*", esframe.AggregationRequest{
		"stats":  map[string]interface{}{"extended_stats": map[string]interface{}{"field": "rating"}},
		"median": map[string]interface{}{"percentiles": map[string]interface{}{"field": "rating", "percents": []interface{}{50.0}}},
		"total":  map[string]interface{}{"sum": map[string]interface{}{"field": "rating"}},
		"n":      map[string]interface{}{"value_count": map[string]interface{}{"field": "rating"}},
	})
	require.Nil(t, err)
	require.Equal(t, 3.0, gjson.GetBytes(resp, "stats.avg").Float())
	require.Equal(t, 1.0, gjson.GetBytes(resp, "stats.min").Float())
	require.Equal(t, 5.0, gjson.GetBytes(resp, "stats.max").Float())
	require.Equal(t, 3.0, gjson.GetBytes(resp, `median.values.50\.0`).Float())
	require.Equal(t, 9.0, gjson.GetBytes(resp, "total.value").Float())
	require.EqualValues(t, 3, gjson.GetBytes(resp, "n.value").Int())
}

func TestExecuteAggregationEmptyField(t *testing.T) {
	source := createOrdersDataSource(t)
	resp, err := source.ExecuteAggregation(context.Background(), test.OrdersIndex, esframe.AggregationRequest{
		"extended_stats_rating": map[string]interface{}{"extended_stats": map[string]interface{}{"field": "rating"}},
		"percentiles_rating":    map[string]interface{}{"percentiles": map[string]interface{}{"field": "rating"}},
	})
	require.Nil(t, err)
	require.EqualValues(t, 0, gjson.GetBytes(resp, "extended_stats_rating.count").Int())
	require.Equal(t, gjson.Null, gjson.GetBytes(resp, "extended_stats_rating.avg").Type)
	require.Equal(t, gjson.Null, gjson.GetBytes(resp, `percentiles_rating.values.50\.0`).Type)
	require.True(t, gjson.GetBytes(resp, `percentiles_rating.values.99\.0`).Exists())
}

func TestExecuteAggregationErrors(t *testing.T) {
	source := createOrdersDataSource(t)
	_, err := source.ExecuteAggregation(context.Background(), test.OrdersIndex, esframe.AggregationRequest{
		"terms_group": map[string]interface{}{"terms": map[string]interface{}{"field": "group"}},
	})
	var unsupported *errors.UnsupportedAggregationError
	require.True(t, stderrors.As(err, &unsupported))
	require.Equal(t, "terms", unsupported.Name)

	_, err = source.ExecuteAggregation(context.Background(), test.OrdersIndex, esframe.AggregationRequest{
		"sum_group": map[string]interface{}{"sum": map[string]interface{}{"field": "group"}},
	})
	var transportErr *errors.TransportError
	require.True(t, stderrors.As(err, &transportErr))
	require.Equal(t, 400, transportErr.StatusCode)

	_, err = source.ExecuteAggregation(context.Background(), test.OrdersIndex, esframe.AggregationRequest{
		"no_field": map[string]interface{}{"sum": map[string]interface{}{}},
	})
	require.True(t, stderrors.As(err, &transportErr))
}

func TestCreateDataFrame(t *testing.T) {
	source := createOrdersDataSource(t)
	df, err := CreateDataFrame(context.Background(), source, test.OrdersIndex, nil)
	require.Nil(t, err)
	require.Equal(t, test.OrdersColumns, df.Columns())
	require.Same(t, source, df.GetDataSource())
}
