package accumulators

import (
	"fmt"
	"strconv"

	"github.com/go-sif/esframe"
	"github.com/tidwall/gjson"
)

// Adder returns a new Sum Accumulator
func Adder() esframe.Accumulator {
	return new(Sum)
}

// Sum sums numeric values, like a sum aggregation
type Sum struct {
	sum float64
}

// GetSum returns the sum from this Accumulator
func (a *Sum) GetSum() float64 {
	return a.sum
}

// Accumulate adds a value to this Accumulator
func (a *Sum) Accumulate(value gjson.Result) error {
	v, err := toFloat(value)
	if err != nil {
		return err
	}
	a.sum += v
	return nil
}

// Merge merges another Accumulator into this one
func (a *Sum) Merge(o esframe.Accumulator) error {
	sa, ok := o.(*Sum)
	if !ok {
		return fmt.Errorf("Incoming accumulator is not a Sum Accumulator")
	}
	a.sum += sa.sum
	return nil
}

// Result returns {"value": sum}
func (a *Sum) Result() map[string]interface{} {
	return map[string]interface{}{"value": a.sum}
}

// toFloat reads a numeric value. Numeric strings are accepted, as Elasticsearch
// coerces them when indexing.
func toFloat(value gjson.Result) (float64, error) {
	switch value.Type {
	case gjson.Number:
		return value.Float(), nil
	case gjson.String:
		if v, err := strconv.ParseFloat(value.Str, 64); err == nil {
			return v, nil
		}
	}
	return 0, fmt.Errorf("value %s is not numeric", value.Raw)
}
