package projection

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/go-sif/esframe"
	"github.com/hashicorp/go-multierror"
	"github.com/tidwall/gjson"
)

// Row is a flattened document: a mapping from column name to a scalar, or to a
// []interface{} of scalars when the document held several values for that column
type Row map[string]interface{}

// flattener accumulates the Row for a single document
type flattener struct {
	schema esframe.Schema
	row    Row
	multi  map[string]bool // columns whose value has been coalesced into a list
	errs   *multierror.Error
}

// Flatten converts a raw, arbitrarily nested JSON document into a Row.
//
// Objects extend the current path with their keys, while arrays do not: every
// element of an array is flattened at the same path as the array itself. As soon as
// the path names a projectable field of the Schema, traversal stops and the value is
// emitted. A field reached more than once is coalesced into a list, in document
// order. This mirrors how Elasticsearch indexes nested and repeated structures as
// multi-valued flat fields:
//
//	{"group": "amsterdam", "user": [{"first": "John"}, {"first": "Alice"}]}
//
// becomes
//
//	{"group": "amsterdam", "user.first": ["John", "Alice"]}
//
// Values of paths which are not projectable fields of the Schema are dropped. JSON
// nulls are treated as absent values.
func Flatten(source []byte, schema esframe.Schema) (Row, error) {
	if !gjson.ValidBytes(source) {
		return nil, fmt.Errorf("document is not valid JSON")
	}
	f := &flattener{
		schema: schema,
		row:    make(Row),
		multi:  make(map[string]bool),
	}
	f.flatten(gjson.ParseBytes(source), "")
	if err := f.errs.ErrorOrNil(); err != nil {
		return nil, err
	}
	return f.row, nil
}

func (f *flattener) flatten(node gjson.Result, path string) {
	isField, dtype := false, esframe.ObjectDtype
	if path != "" {
		isField, dtype = f.schema.DtypeOf(path)
	}
	switch {
	case isField:
		f.emit(path, node, dtype)
	case node.IsObject():
		node.ForEach(func(key, child gjson.Result) bool {
			f.flatten(child, joinPath(path, key.String()))
			return true
		})
	case node.IsArray():
		node.ForEach(func(_, elem gjson.Result) bool {
			f.flatten(elem, path)
			return true
		})
	}
}

// emit coerces a value of a projectable field and merges it into the Row.
// Arrays are expanded element-wise, except for ObjectDtype fields (e.g. a
// geo_point given as [lon, lat]), whose raw value is kept whole.
func (f *flattener) emit(path string, node gjson.Result, dtype esframe.Dtype) {
	if node.Type == gjson.Null {
		return
	}
	if node.IsArray() && dtype != esframe.ObjectDtype {
		node.ForEach(func(_, elem gjson.Result) bool {
			f.emit(path, elem, dtype)
			return true
		})
		return
	}
	value, err := coerce(node, dtype)
	if err != nil {
		f.errs = multierror.Append(f.errs, fmt.Errorf("field %s: %w", path, err))
		return
	}
	f.merge(path, value)
}

// merge sets a column value, or appends to it if the column was already seen
func (f *flattener) merge(path string, value interface{}) {
	existing, ok := f.row[path]
	switch {
	case !ok:
		f.row[path] = value
	case f.multi[path]:
		f.row[path] = append(existing.([]interface{}), value)
	default:
		f.row[path] = []interface{}{existing, value}
		f.multi[path] = true
	}
}

// coerce converts a raw JSON value into the Go representation of a Dtype
func coerce(node gjson.Result, dtype esframe.Dtype) (interface{}, error) {
	if dtype == esframe.DatetimeDtype {
		return ParseDatetime(node)
	}
	switch node.Type {
	case gjson.Number:
		if dtype == esframe.FloatDtype || !isIntegral(node.Raw) {
			return node.Float(), nil
		}
		return parseInteger(node.Raw)
	case gjson.String:
		return node.Str, nil
	case gjson.True, gjson.False:
		return node.Bool(), nil
	default:
		return node.Value(), nil
	}
}

// parseInteger reads an integral JSON number as an int64, or as a uint64 when it is
// too large for an int64 (unsigned_long fields hold values up to 2^64-1)
func parseInteger(raw string) (interface{}, error) {
	v, err := strconv.ParseInt(raw, 10, 64)
	if err == nil {
		return v, nil
	}
	if u, uerr := strconv.ParseUint(raw, 10, 64); uerr == nil {
		return u, nil
	}
	return nil, fmt.Errorf("integer %s is out of range", raw)
}

func isIntegral(raw string) bool {
	return !strings.ContainsAny(raw, ".eE")
}

func joinPath(prefix string, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}
