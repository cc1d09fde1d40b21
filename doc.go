// Package esframe contains the core components of esframe, a tabular view over documents stored in
// Elasticsearch. A DataFrame looks like an in-memory table (columns, projection, head, describe, shape)
// but holds no rows: every access is translated into a query against the remote index, and the
// returned documents or aggregations are reshaped into flat, consistently-ordered tables.
// This root package defines the types employed during regular use of the library, as well as in the
// implementation of new DataSources, and is an overview of its key concepts.
package esframe
