package ml

import (
	"context"
	stderrors "errors"
	"net/http"
	"testing"

	errors "github.com/go-sif/esframe/errors"
	"github.com/stretchr/testify/require"
)

type fakeModelClient struct {
	deleted []string
	err     error
}

func (c *fakeModelClient) DeleteTrainedModel(ctx context.Context, modelID string) error {
	c.deleted = append(c.deleted, modelID)
	return c.err
}

func TestDelete(t *testing.T) {
	client := &fakeModelClient{}
	model := CreateModel(client, "flights")
	require.Equal(t, "flights", model.ID())
	require.Nil(t, model.Delete(context.Background()))
	require.Equal(t, []string{"flights"}, client.deleted)
}

func TestDeleteMissing(t *testing.T) {
	client := &fakeModelClient{err: &errors.TransportError{Op: "delete_trained_model", StatusCode: http.StatusNotFound}}
	require.Nil(t, CreateModel(client, "missing").Delete(context.Background()))
}

func TestDeleteError(t *testing.T) {
	cause := &errors.TransportError{Op: "delete_trained_model", StatusCode: http.StatusForbidden}
	client := &fakeModelClient{err: cause}
	err := CreateModel(client, "flights").Delete(context.Background())
	var transportErr *errors.TransportError
	require.True(t, stderrors.As(err, &transportErr))
	require.Equal(t, http.StatusForbidden, transportErr.StatusCode)
}
