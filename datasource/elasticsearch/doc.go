// Package elasticsearch provides a DataSource backed by an Elasticsearch cluster,
// through the official go-elasticsearch client.
package elasticsearch
