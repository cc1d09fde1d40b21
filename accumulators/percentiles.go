package accumulators

import (
	"fmt"
	"math"
	"sort"
	"strconv"

	"github.com/go-sif/esframe"
	"github.com/tidwall/gjson"
)

// PercentilesAccumulator returns a factory for Percentiles Accumulators computing the given percents
func PercentilesAccumulator(percents ...float64) func() esframe.Accumulator {
	return func() esframe.Accumulator {
		p := make([]float64, len(percents))
		copy(p, percents)
		return &Percentiles{percents: p}
	}
}

// Percentiles computes exact percentiles, interpolating linearly between the
// closest ranks. All values are retained, so this is only suitable for small data.
type Percentiles struct {
	percents []float64
	values   []float64
}

// Accumulate adds a value to this Accumulator
func (a *Percentiles) Accumulate(value gjson.Result) error {
	v, err := toFloat(value)
	if err != nil {
		return err
	}
	a.values = append(a.values, v)
	return nil
}

// Merge merges another Accumulator into this one
func (a *Percentiles) Merge(o esframe.Accumulator) error {
	pa, ok := o.(*Percentiles)
	if !ok {
		return fmt.Errorf("Incoming accumulator is not a Percentiles Accumulator")
	}
	a.values = append(a.values, pa.values...)
	return nil
}

// Result returns {"values": {"25.0": v, ...}}, with null values when no values were seen
func (a *Percentiles) Result() map[string]interface{} {
	sorted := make([]float64, len(a.values))
	copy(sorted, a.values)
	sort.Float64s(sorted)
	values := make(map[string]interface{}, len(a.percents))
	for _, p := range a.percents {
		key := strconv.FormatFloat(p, 'f', 1, 64)
		if len(sorted) == 0 {
			values[key] = nil
			continue
		}
		values[key] = quantile(sorted, p/100)
	}
	return map[string]interface{}{"values": values}
}

// quantile interpolates the q-th quantile of sorted values
func quantile(sorted []float64, q float64) float64 {
	pos := q * float64(len(sorted)-1)
	floor := math.Floor(pos)
	ceil := math.Ceil(pos)
	if floor == ceil {
		return sorted[int(pos)]
	}
	lower := sorted[int(floor)]
	upper := sorted[int(ceil)]
	return lower + (pos-floor)*(upper-lower)
}
