package elasticsearch

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	es "github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/go-sif/esframe"
	"github.com/go-sif/esframe/datasource"
	errors "github.com/go-sif/esframe/errors"
	"github.com/go-sif/esframe/logging"
	"github.com/gofrs/uuid"
	json "github.com/json-iterator/go"
	"github.com/tidwall/gjson"
)

// Names of the operations reported in TransportErrors
const (
	GetMappingOp         = "get_mapping"
	FieldCapsOp          = "field_caps"
	SearchOp             = "search"
	CountOp              = "count"
	AggregateOp          = "aggregate"
	DeleteTrainedModelOp = "delete_trained_model"
)

// Conf configures a connection to an Elasticsearch cluster
type Conf struct {
	Addresses []string          // Addresses of cluster nodes. Defaults to http://localhost:9200.
	Username  string            // Username for basic authentication
	Password  string            // Password for basic authentication
	APIKey    string            // APIKey is a base64-encoded API key, used instead of basic authentication
	CloudID   string            // CloudID locates an Elastic Cloud deployment, used instead of Addresses
	Transport http.RoundTripper // Transport is the HTTP transport. Defaults to http.DefaultTransport.
	Logger    *slog.Logger      // Logger receives debug messages for every request. Defaults to discarding them.
}

// DataSource issues requests to an Elasticsearch cluster
type DataSource struct {
	client *es.Client
	logger *slog.Logger
}

// CreateDataSource is a factory for DataSources
func CreateDataSource(conf *Conf) (*DataSource, error) {
	if conf == nil {
		conf = &Conf{}
	}
	client, err := es.NewClient(es.Config{
		Addresses: conf.Addresses,
		Username:  conf.Username,
		Password:  conf.Password,
		APIKey:    conf.APIKey,
		CloudID:   conf.CloudID,
		Transport: conf.Transport,
	})
	if err != nil {
		return nil, err
	}
	return &DataSource{client: client, logger: logging.OrDiscard(conf.Logger)}, nil
}

// CreateDataFrame is a factory for DataFrames backed by an Elasticsearch DataSource
func CreateDataFrame(ctx context.Context, source *DataSource, indexPattern string, conf *esframe.DataFrameConf) (esframe.DataFrame, error) {
	return datasource.CreateDataFrame(ctx, source, indexPattern, conf)
}

// newOpaqueID produces an X-Opaque-Id, so that a request can be traced in the cluster's logs
func newOpaqueID() string {
	id, err := uuid.NewV4()
	if err != nil {
		return ""
	}
	return id.String()
}

// do reads the body of a response, turning transport failures and non-2xx responses into TransportErrors
func (ds *DataSource) do(op string, opaqueID string, res *esapi.Response, err error) ([]byte, error) {
	if err != nil {
		ds.logger.Debug("request failed", "op", op, "opaque_id", opaqueID, "error", err)
		return nil, &errors.TransportError{Op: op, Err: err}
	}
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, &errors.TransportError{Op: op, StatusCode: res.StatusCode, Err: err}
	}
	ds.logger.Debug("request completed", "op", op, "opaque_id", opaqueID, "status", res.StatusCode)
	if res.IsError() {
		return nil, &errors.TransportError{Op: op, StatusCode: res.StatusCode, Err: responseError(body)}
	}
	return body, nil
}

// responseError extracts the reason from an Elasticsearch error body
func responseError(body []byte) error {
	errType := gjson.GetBytes(body, "error.type").String()
	reason := gjson.GetBytes(body, "error.reason").String()
	switch {
	case errType != "" && reason != "":
		return fmt.Errorf("%s: %s", errType, reason)
	case reason != "":
		return fmt.Errorf("%s", reason)
	case len(body) > 0:
		return fmt.Errorf("%s", strings.TrimSpace(string(body)))
	default:
		return fmt.Errorf("empty response")
	}
}

// FetchSchemaDescription returns the raw mapping and field capabilities of an index pattern
func (ds *DataSource) FetchSchemaDescription(ctx context.Context, indexPattern string) (*esframe.SchemaDescription, error) {
	api := ds.client.Indices.GetMapping
	opaqueID := newOpaqueID()
	res, err := api(
		api.WithContext(ctx),
		api.WithIndex(indexPattern),
		api.WithOpaqueID(opaqueID),
	)
	mapping, err := ds.do(GetMappingOp, opaqueID, res, err)
	if err != nil {
		return nil, err
	}

	capsAPI := ds.client.FieldCaps
	opaqueID = newOpaqueID()
	res, err = capsAPI(
		capsAPI.WithContext(ctx),
		capsAPI.WithIndex(indexPattern),
		capsAPI.WithFields("*"),
		capsAPI.WithOpaqueID(opaqueID),
	)
	fieldCaps, err := ds.do(FieldCapsOp, opaqueID, res, err)
	if err != nil {
		return nil, err
	}
	return &esframe.SchemaDescription{Mapping: mapping, FieldCaps: fieldCaps}, nil
}

// FetchDocuments searches an index pattern for up to req.Size documents
func (ds *DataSource) FetchDocuments(ctx context.Context, indexPattern string, req *esframe.SearchRequest) ([]esframe.Hit, error) {
	if req == nil {
		req = &esframe.SearchRequest{Size: 10}
	}
	api := ds.client.Search
	opaqueID := newOpaqueID()
	opts := []func(*esapi.SearchRequest){
		api.WithContext(ctx),
		api.WithIndex(indexPattern),
		api.WithSize(req.Size),
		api.WithOpaqueID(opaqueID),
	}
	if req.SortBy != "" {
		order := "asc"
		if req.SortDesc {
			order = "desc"
		}
		opts = append(opts, api.WithSort(req.SortBy+":"+order))
	}
	if len(req.Source) > 0 {
		opts = append(opts, api.WithSourceIncludes(req.Source...))
	}
	res, err := api(opts...)
	body, err := ds.do(SearchOp, opaqueID, res, err)
	if err != nil {
		return nil, err
	}
	hits := gjson.GetBytes(body, "hits.hits")
	if !hits.IsArray() {
		return nil, &errors.TransportError{Op: SearchOp, StatusCode: res.StatusCode, Err: fmt.Errorf("response has no hits")}
	}
	result := make([]esframe.Hit, 0, len(hits.Array()))
	hits.ForEach(func(_, hit gjson.Result) bool {
		source := hit.Get("_source")
		raw := []byte("{}")
		if source.Exists() {
			raw = []byte(source.Raw)
		}
		result = append(result, esframe.Hit{ID: hit.Get("_id").String(), Source: raw})
		return true
	})
	return result, nil
}

// FetchRowCount counts the documents of an index pattern, optionally only those holding a value for req.ExistsField
func (ds *DataSource) FetchRowCount(ctx context.Context, indexPattern string, req *esframe.CountRequest) (int64, error) {
	api := ds.client.Count
	opaqueID := newOpaqueID()
	opts := []func(*esapi.CountRequest){
		api.WithContext(ctx),
		api.WithIndex(indexPattern),
		api.WithOpaqueID(opaqueID),
	}
	if req != nil && req.ExistsField != "" {
		query, err := json.ConfigCompatibleWithStandardLibrary.Marshal(map[string]interface{}{
			"query": map[string]interface{}{
				"exists": map[string]interface{}{"field": req.ExistsField},
			},
		})
		if err != nil {
			return 0, err
		}
		opts = append(opts, api.WithBody(bytes.NewReader(query)))
	}
	res, err := api(opts...)
	body, err := ds.do(CountOp, opaqueID, res, err)
	if err != nil {
		return 0, err
	}
	count := gjson.GetBytes(body, "count")
	if count.Type != gjson.Number {
		return 0, &errors.TransportError{Op: CountOp, StatusCode: res.StatusCode, Err: fmt.Errorf("response has no count")}
	}
	return count.Int(), nil
}

// ExecuteAggregation runs aggregations over every document of an index pattern, fetching no documents
func (ds *DataSource) ExecuteAggregation(ctx context.Context, indexPattern string, req esframe.AggregationRequest) (esframe.AggregationResponse, error) {
	query, err := json.ConfigCompatibleWithStandardLibrary.Marshal(map[string]interface{}{"aggs": req})
	if err != nil {
		return nil, err
	}
	api := ds.client.Search
	opaqueID := newOpaqueID()
	res, err := api(
		api.WithContext(ctx),
		api.WithIndex(indexPattern),
		api.WithSize(0),
		api.WithBody(bytes.NewReader(query)),
		api.WithOpaqueID(opaqueID),
	)
	body, err := ds.do(AggregateOp, opaqueID, res, err)
	if err != nil {
		return nil, err
	}
	aggs := gjson.GetBytes(body, "aggregations")
	if !aggs.Exists() {
		if len(req) == 0 {
			return esframe.AggregationResponse("{}"), nil
		}
		return nil, &errors.TransportError{Op: AggregateOp, StatusCode: res.StatusCode, Err: fmt.Errorf("response has no aggregations")}
	}
	return esframe.AggregationResponse(aggs.Raw), nil
}

// DeleteTrainedModel deletes a trained model by id
func (ds *DataSource) DeleteTrainedModel(ctx context.Context, modelID string) error {
	api := ds.client.ML.DeleteTrainedModel
	opaqueID := newOpaqueID()
	res, err := api(
		modelID,
		api.WithContext(ctx),
		api.WithOpaqueID(opaqueID),
	)
	_, err = ds.do(DeleteTrainedModelOp, opaqueID, res, err)
	return err
}
