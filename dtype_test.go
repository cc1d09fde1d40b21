package esframe

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDtypeFromESType(t *testing.T) {
	require.Equal(t, StringDtype, DtypeFromESType("keyword"))
	require.Equal(t, IntDtype, DtypeFromESType("long"))
	require.Equal(t, FloatDtype, DtypeFromESType("half_float"))
	require.Equal(t, DatetimeDtype, DtypeFromESType("date"))
	require.Equal(t, BoolDtype, DtypeFromESType("boolean"))
	require.Equal(t, ObjectDtype, DtypeFromESType("geo_point"))
	require.Equal(t, ObjectDtype, DtypeFromESType("binary"))
}

func TestDtypeToString(t *testing.T) {
	require.Equal(t, "NaN", FloatDtype.ToString(nil))
	require.Equal(t, "NaT", DatetimeDtype.ToString(nil))
	require.Equal(t, "None", StringDtype.ToString(nil))
	require.Equal(t, "[John, Alice]", StringDtype.ToString([]interface{}{"John", "Alice"}))
	require.Equal(t, "36.98", FloatDtype.ToString(36.98))
	require.Equal(t, "4", IntDtype.ToString(int64(4)))
	require.Equal(t, "2016-12-28 10:00:00", DatetimeDtype.ToString(time.Date(2016, 12, 28, 10, 0, 0, 0, time.UTC)))
	require.Equal(t, "true", BoolDtype.ToString(true))
}

func TestDtypeIsNumeric(t *testing.T) {
	require.True(t, IntDtype.IsNumeric())
	require.True(t, FloatDtype.IsNumeric())
	require.False(t, DatetimeDtype.IsNumeric())
	require.False(t, StringDtype.IsNumeric())
}

func TestFragment(t *testing.T) {
	f := &Fragment{
		Columns: []string{"group", "rating"},
		Dtypes:  []Dtype{StringDtype, IntDtype},
		Rows:    [][]interface{}{{"amsterdam", nil}, {"london", int64(4)}},
	}
	require.Equal(t, 2, f.NumRows())
	require.Equal(t, 2, f.NumColumns())
	require.Equal(t, 1, f.ColumnIndex("rating"))
	require.Equal(t, -1, f.ColumnIndex("missing"))
	values, ok := f.Column("rating")
	require.True(t, ok)
	require.Equal(t, []interface{}{nil, int64(4)}, values)
	v, ok := f.Get(1, "group")
	require.True(t, ok)
	require.Equal(t, "london", v)
	_, ok = f.Get(2, "group")
	require.False(t, ok)
}
