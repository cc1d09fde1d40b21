package accumulators

import (
	"fmt"

	"github.com/go-sif/esframe"
	"github.com/tidwall/gjson"
)

// Counter returns a new Count Accumulator
func Counter() esframe.Accumulator {
	return new(Count)
}

// Count counts values, like a value_count aggregation
type Count struct {
	count uint64
}

// GetCount returns the value count from this Accumulator
func (a *Count) GetCount() uint64 {
	return a.count
}

// Accumulate adds a value to this Accumulator
func (a *Count) Accumulate(value gjson.Result) error {
	a.count++
	return nil
}

// Merge merges another Accumulator into this one
func (a *Count) Merge(o esframe.Accumulator) error {
	ca, ok := o.(*Count)
	if !ok {
		return fmt.Errorf("Incoming accumulator is not a Count Accumulator")
	}
	a.count += ca.count
	return nil
}

// Result returns {"value": count}
func (a *Count) Result() map[string]interface{} {
	return map[string]interface{}{"value": a.count}
}
