package esframe

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Dtype is the tabular data type of a column, derived from the Elasticsearch field type
type Dtype int

const (
	// ObjectDtype holds any value without a tabular equivalent (geo_point, ip, binary, ...)
	ObjectDtype Dtype = iota
	// IntDtype holds int64 values
	IntDtype
	// FloatDtype holds float64 values
	FloatDtype
	// BoolDtype holds bool values
	BoolDtype
	// StringDtype holds string values
	StringDtype
	// DatetimeDtype holds time.Time values, in UTC
	DatetimeDtype
)

// DatetimeFormat is the layout used to display datetime values
const DatetimeFormat = "2006-01-02 15:04:05.999999999"

var esTypeToDtype = map[string]Dtype{
	"text":             StringDtype,
	"keyword":          StringDtype,
	"constant_keyword": StringDtype,
	"wildcard":         StringDtype,
	"match_only_text":  StringDtype,

	"long":          IntDtype,
	"integer":       IntDtype,
	"short":         IntDtype,
	"byte":          IntDtype,
	"unsigned_long": IntDtype,

	"double":       FloatDtype,
	"float":        FloatDtype,
	"half_float":   FloatDtype,
	"scaled_float": FloatDtype,

	"date":       DatetimeDtype,
	"date_nanos": DatetimeDtype,

	"boolean": BoolDtype,
}

// DtypeFromESType maps an Elasticsearch field type to a Dtype. Unsupported types map to ObjectDtype.
func DtypeFromESType(esType string) Dtype {
	if dtype, ok := esTypeToDtype[esType]; ok {
		return dtype
	}
	return ObjectDtype
}

// String returns the name of this Dtype
func (d Dtype) String() string {
	switch d {
	case IntDtype:
		return "int64"
	case FloatDtype:
		return "float64"
	case BoolDtype:
		return "bool"
	case StringDtype:
		return "string"
	case DatetimeDtype:
		return "datetime64"
	default:
		return "object"
	}
}

// IsNumeric returns true iff values of this Dtype can be numerically aggregated
func (d Dtype) IsNumeric() bool {
	return d == IntDtype || d == FloatDtype
}

// NullString returns the representation of a missing value of this Dtype
func (d Dtype) NullString() string {
	switch d {
	case IntDtype, FloatDtype:
		return "NaN"
	case DatetimeDtype:
		return "NaT"
	default:
		return "None"
	}
}

// ToString produces a string representation of a cell value of this Dtype.
// Multi-valued cells are rendered as a bracketed list.
func (d Dtype) ToString(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return d.NullString()
	case []interface{}:
		parts := make([]string, len(val))
		for i, e := range val {
			parts[i] = d.ToString(e)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case time.Time:
		return val.Format(DatetimeFormat)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case int64:
		return strconv.FormatInt(val, 10)
	case bool:
		return strconv.FormatBool(val)
	case string:
		return val
	default:
		return fmt.Sprintf("%v", val)
	}
}
