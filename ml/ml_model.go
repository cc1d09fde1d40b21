// Package ml manages machine learning models stored in Elasticsearch.
package ml

import (
	"context"
	stderrors "errors"

	errors "github.com/go-sif/esframe/errors"
)

// ModelClient is the part of a cluster client needed to manage trained models
type ModelClient interface {
	DeleteTrainedModel(ctx context.Context, modelID string) error
}

// Model is a trained inference model, identified by its model_id
type Model struct {
	client ModelClient
	id     string
}

// CreateModel is a factory for Models
func CreateModel(client ModelClient, modelID string) *Model {
	return &Model{client: client, id: modelID}
}

// ID returns the model_id of this Model
func (m *Model) ID() string {
	return m.id
}

// Delete removes this Model from the cluster. Deleting a Model which does not exist succeeds.
func (m *Model) Delete(ctx context.Context) error {
	err := m.client.DeleteTrainedModel(ctx, m.id)
	var transportErr *errors.TransportError
	if stderrors.As(err, &transportErr) && transportErr.IsNotFound() {
		return nil
	}
	return err
}
