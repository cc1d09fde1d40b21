package projection

import (
	"math"
	"testing"
	"time"

	"github.com/go-sif/esframe"
	"github.com/go-sif/esframe/schema"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func createFlattenTestSchema() esframe.Schema {
	return schema.CreateSchema(
		esframe.Field{Name: "group", ESType: "keyword", Dtype: esframe.StringDtype, Projectable: true},
		esframe.Field{Name: "user.first", ESType: "text", Dtype: esframe.StringDtype, Projectable: true},
		esframe.Field{Name: "user.last", ESType: "text", Dtype: esframe.StringDtype, Projectable: true},
		esframe.Field{Name: "user.age", ESType: "long", Dtype: esframe.IntDtype, Projectable: true},
		esframe.Field{Name: "price", ESType: "float", Dtype: esframe.FloatDtype, Projectable: true},
		esframe.Field{Name: "created", ESType: "date", Dtype: esframe.DatetimeDtype, Projectable: true},
		esframe.Field{Name: "location", ESType: "geo_point", Dtype: esframe.ObjectDtype, Projectable: true},
		esframe.Field{Name: "city", ESType: "text", Dtype: esframe.StringDtype, Projectable: true},
		esframe.Field{Name: "city.keyword", ESType: "keyword", Dtype: esframe.StringDtype},
	)
}

func TestFlattenMultiValue(t *testing.T) {
	doc := []byte(`{"group": "amsterdam", "user": [{"first": "John", "last": "Smith"}, {"first": "Alice", "last": "White"}]}`)
	row, err := Flatten(doc, createFlattenTestSchema())
	require.Nil(t, err)
	require.Equal(t, Row{
		"group":      "amsterdam",
		"user.first": []interface{}{"John", "Alice"},
		"user.last":  []interface{}{"Smith", "White"},
	}, row)
}

func TestFlattenSingleValue(t *testing.T) {
	doc := []byte(`{"group": "london", "user": {"first": "Jane", "age": 41}}`)
	row, err := Flatten(doc, createFlattenTestSchema())
	require.Nil(t, err)
	require.Equal(t, Row{
		"group":      "london",
		"user.first": "Jane",
		"user.age":   int64(41),
	}, row)
}

func TestFlattenSingleElementArray(t *testing.T) {
	doc := []byte(`{"user": [{"first": "Jane"}], "group": ["london"]}`)
	row, err := Flatten(doc, createFlattenTestSchema())
	require.Nil(t, err)
	require.Equal(t, "Jane", row["user.first"])
	require.Equal(t, "london", row["group"])
}

func TestFlattenMoreThanTwoValues(t *testing.T) {
	doc := []byte(`{"user": [{"first": "A"}, {"first": "B"}, {"first": "A"}], "group": ["x", ["y", "z"]]}`)
	row, err := Flatten(doc, createFlattenTestSchema())
	require.Nil(t, err)
	// duplicates are preserved, in document order
	require.Equal(t, []interface{}{"A", "B", "A"}, row["user.first"])
	require.Equal(t, []interface{}{"x", "y", "z"}, row["group"])
}

func TestFlattenDottedKeys(t *testing.T) {
	doc := []byte(`{"user.first": "Jane", "user": {"last": "Doe"}}`)
	row, err := Flatten(doc, createFlattenTestSchema())
	require.Nil(t, err)
	require.Equal(t, Row{"user.first": "Jane", "user.last": "Doe"}, row)
}

func TestFlattenDropsUnknownAndNull(t *testing.T) {
	doc := []byte(`{"group": null, "unmapped": 1, "user": {"first": null, "nickname": "JJ"}, "price": 1}`)
	row, err := Flatten(doc, createFlattenTestSchema())
	require.Nil(t, err)
	require.Equal(t, Row{"price": 1.0}, row)
}

func TestFlattenStopsAtField(t *testing.T) {
	doc := []byte(`{"location": {"lat": 1.5, "lon": 2}, "city": "Paris"}`)
	row, err := Flatten(doc, createFlattenTestSchema())
	require.Nil(t, err)
	require.Equal(t, map[string]interface{}{"lat": 1.5, "lon": 2.0}, row["location"])
	require.Equal(t, "Paris", row["city"])
	_, ok := row["city.keyword"]
	require.False(t, ok)

	row, err = Flatten([]byte(`{"location": [2, 1.5]}`), createFlattenTestSchema())
	require.Nil(t, err)
	require.Equal(t, []interface{}{2.0, 1.5}, row["location"])
}

func TestFlattenCoercion(t *testing.T) {
	doc := []byte(`{"price": 3, "user": {"age": 2.5}, "created": "2020-01-02T03:04:05Z"}`)
	row, err := Flatten(doc, createFlattenTestSchema())
	require.Nil(t, err)
	require.Equal(t, 3.0, row["price"])
	require.Equal(t, 2.5, row["user.age"])
	require.True(t, time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC).Equal(row["created"].(time.Time)))
}

func TestFlattenLargeIntegers(t *testing.T) {
	s := schema.CreateSchema(
		esframe.Field{Name: "big", ESType: "unsigned_long", Dtype: esframe.IntDtype, Projectable: true},
		esframe.Field{Name: "small", ESType: "long", Dtype: esframe.IntDtype, Projectable: true},
	)
	row, err := Flatten([]byte(`{"big": 18446744073709551615, "small": -9223372036854775808}`), s)
	require.Nil(t, err)
	require.Equal(t, uint64(math.MaxUint64), row["big"])
	require.Equal(t, int64(math.MinInt64), row["small"])

	row, err = Flatten([]byte(`{"big": 9223372036854775808}`), s)
	require.Nil(t, err)
	require.Equal(t, uint64(1)<<63, row["big"])

	// beyond uint64 and below int64, nothing can hold the value
	_, err = Flatten([]byte(`{"big": 18446744073709551616}`), s)
	require.NotNil(t, err)
	require.Contains(t, err.Error(), "field big")
	_, err = Flatten([]byte(`{"small": -9223372036854775809}`), s)
	require.NotNil(t, err)
}

func TestFlattenErrors(t *testing.T) {
	_, err := Flatten([]byte(`{"group": `), createFlattenTestSchema())
	require.NotNil(t, err)

	_, err = Flatten([]byte(`{"created": "yesterday", "user": {"first": "x"}}`), createFlattenTestSchema())
	require.NotNil(t, err)
	require.Contains(t, err.Error(), "field created")
}

func TestParseDatetime(t *testing.T) {
	expected := time.Date(2016, 12, 28, 10, 0, 0, 0, time.UTC)
	for _, raw := range []string{
		`1482919200000`,
		`"1482919200000"`,
		`"2016-12-28T10:00:00Z"`,
		`"2016-12-28T11:00:00+01:00"`,
		`"2016-12-28T10:00:00.000"`,
		`"2016-12-28 10:00:00"`,
		`"2016-12-28T10:00"`,
	} {
		parsed, err := ParseDatetime(gjson.Parse(raw))
		require.Nil(t, err, raw)
		require.True(t, expected.Equal(parsed), raw)
		require.Equal(t, time.UTC, parsed.Location(), raw)
	}
	day, err := ParseDatetime(gjson.Parse(`"2016-12-28"`))
	require.Nil(t, err)
	require.True(t, time.Date(2016, 12, 28, 0, 0, 0, 0, time.UTC).Equal(day))

	_, err = ParseDatetime(gjson.Parse(`true`))
	require.NotNil(t, err)
}

func TestParseDatetimeEpochMillis(t *testing.T) {
	base := time.Date(2016, 12, 28, 10, 0, 0, 0, time.UTC)
	fractional, err := ParseDatetime(gjson.Parse(`1482919200000.5`))
	require.Nil(t, err)
	require.True(t, base.Add(500*time.Microsecond).Equal(fractional))

	fractional, err = ParseDatetime(gjson.Parse(`"1482919200000.25"`))
	require.Nil(t, err)
	require.True(t, base.Add(250*time.Microsecond).Equal(fractional))

	// the same far-future instant, however the number is spelled
	expected := time.UnixMilli(40000000000000).UTC()
	require.Equal(t, 3237, expected.Year())
	for _, raw := range []string{`40000000000000`, `4.0e13`, `40000000000000.0`, `"4e13"`} {
		parsed, err := ParseDatetime(gjson.Parse(raw))
		require.Nil(t, err, raw)
		require.True(t, expected.Equal(parsed), raw)
	}

	before, err := ParseDatetime(gjson.Parse(`-1.5`))
	require.Nil(t, err)
	require.True(t, time.Unix(0, 0).Add(-1500*time.Microsecond).Equal(before))

	_, err = ParseDatetime(gjson.Parse(`1e300`))
	require.NotNil(t, err)
	_, err = ParseDatetime(gjson.Parse(`"NaN"`))
	require.NotNil(t, err)
}
