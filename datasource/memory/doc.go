// Package memory provides an in-process DataSource over JSON Lines documents. It
// answers searches, counts and numeric aggregations locally, in the same shape
// Elasticsearch would, which makes it suitable for tests and small offline data.
package memory
