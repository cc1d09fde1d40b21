package transform_test

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/go-sif/esframe"
	errors "github.com/go-sif/esframe/errors"
	"github.com/go-sif/esframe/internal/test"
	"github.com/go-sif/esframe/operations/transform"
	esftesting "github.com/go-sif/esframe/testing"
	"github.com/stretchr/testify/require"
)

func createOrdersDataFrame(t *testing.T) esframe.DataFrame {
	df, _, err := esftesting.LocalDataFrame(context.Background(), test.OrdersIndex, []byte(test.OrdersMapping), []byte(test.OrdersFieldCaps), test.OrdersDocumentsReader(), nil)
	require.Nil(t, err)
	return df
}

func TestSelectColumns(t *testing.T) {
	df := createOrdersDataFrame(t)
	selected, err := df.To(transform.SelectColumns("rating", "group"))
	require.Nil(t, err)
	require.Equal(t, []string{"group", "rating"}, selected.Columns())
	require.Equal(t, []string{"select_columns(rating, group)"}, selected.Operations())

	_, err = df.To(transform.SelectColumns("group", "missing"))
	var unknownCol *errors.UnknownColumnError
	require.True(t, stderrors.As(err, &unknownCol))
	require.Equal(t, "missing", unknownCol.Name)
}

func TestRemoveColumn(t *testing.T) {
	df := createOrdersDataFrame(t)
	removed, err := df.To(
		transform.SelectColumns("group", "rating", "user.first", "user.last"),
		transform.RemoveColumn("user.last", "rating"),
	)
	require.Nil(t, err)
	require.Equal(t, []string{"group", "user.first"}, removed.Columns())
	require.Equal(t, []string{
		"select_columns(group, rating, user.first, user.last)",
		"remove_column(user.last, rating)",
	}, removed.Operations())

	fragment, err := removed.Head(context.Background(), 1)
	require.Nil(t, err)
	require.Equal(t, []string{"group", "user.first"}, fragment.Columns)

	_, err = removed.To(transform.RemoveColumn("rating"))
	var unknownCol *errors.UnknownColumnError
	require.True(t, stderrors.As(err, &unknownCol))
}

func TestSetIndex(t *testing.T) {
	df := createOrdersDataFrame(t)
	indexed, err := df.To(transform.SetIndex("group"), transform.RemoveColumn("group"))
	require.Nil(t, err)
	require.Equal(t, "group", indexed.IndexField())
	require.NotContains(t, indexed.Columns(), "group")
	require.Equal(t, []string{"set_index(group)", "remove_column(group)"}, indexed.Operations())

	fragment, err := indexed.Head(context.Background(), 3)
	require.Nil(t, err)
	require.Equal(t, []string{"amsterdam", "amsterdam", "london"}, fragment.Index)
	require.Equal(t, -1, fragment.ColumnIndex("group"))
}
