package esframe

import "context"

// SchemaDescription is the raw description of an index pattern's fields, as returned by the store
type SchemaDescription struct {
	Mapping   []byte // Mapping is the body of a GET <index>/_mapping response
	FieldCaps []byte // FieldCaps is the body of a GET <index>/_field_caps response
}

// SearchRequest describes a request for raw documents
type SearchRequest struct {
	Size     int      // Size is the maximum number of documents to return
	SortBy   string   // SortBy is an optional field to sort on. Defaults to the store's natural result order.
	SortDesc bool     // SortDesc reverses the sort order of SortBy
	Source   []string // Source restricts the returned _source to these fields. Empty returns all fields.
}

// CountRequest describes a request for a document count
type CountRequest struct {
	ExistsField string // ExistsField restricts the count to documents with a non-null value for this field
}

// Hit is a single raw document returned by a search
type Hit struct {
	ID     string // ID is the document _id
	Source []byte // Source is the raw JSON _source of the document
}

// AggregationRequest is the body of the "aggs" section of a search request,
// keyed by aggregation name
type AggregationRequest map[string]interface{}

// AggregationResponse is the raw JSON "aggregations" object of a search response
type AggregationResponse []byte

// DataSource is the remote store a DataFrame proxies to. Implementations own
// transport, authentication, retries and timeouts; failures should be reported
// as *errors.TransportError and are propagated to callers unchanged.
type DataSource interface {
	// FetchSchemaDescription returns the raw mapping and field capabilities for an index pattern
	FetchSchemaDescription(ctx context.Context, indexPattern string) (*SchemaDescription, error)
	// FetchDocuments returns up to req.Size raw documents matching an index pattern
	FetchDocuments(ctx context.Context, indexPattern string, req *SearchRequest) ([]Hit, error)
	// FetchRowCount returns the number of documents matching an index pattern. A nil req counts all documents.
	FetchRowCount(ctx context.Context, indexPattern string, req *CountRequest) (int64, error)
	// ExecuteAggregation runs the requested aggregations server-side, over all matching documents
	ExecuteAggregation(ctx context.Context, indexPattern string, req AggregationRequest) (AggregationResponse, error)
}
