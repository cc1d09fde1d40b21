package accumulators

import (
	"fmt"
	"math"

	"github.com/go-sif/esframe"
	"github.com/tidwall/gjson"
)

// ExtendedStatsAccumulator returns a new ExtendedStats Accumulator
func ExtendedStatsAccumulator() esframe.Accumulator {
	return &ExtendedStats{min: math.Inf(1), max: math.Inf(-1)}
}

// ExtendedStats computes the same statistics as an extended_stats aggregation.
// The standard deviation and variance are population statistics.
type ExtendedStats struct {
	count        uint64
	sum          float64
	sumOfSquares float64
	min          float64
	max          float64
}

// Accumulate adds a value to this Accumulator
func (a *ExtendedStats) Accumulate(value gjson.Result) error {
	v, err := toFloat(value)
	if err != nil {
		return err
	}
	a.count++
	a.sum += v
	a.sumOfSquares += v * v
	a.min = math.Min(a.min, v)
	a.max = math.Max(a.max, v)
	return nil
}

// Merge merges another Accumulator into this one
func (a *ExtendedStats) Merge(o esframe.Accumulator) error {
	ea, ok := o.(*ExtendedStats)
	if !ok {
		return fmt.Errorf("Incoming accumulator is not an ExtendedStats Accumulator")
	}
	a.count += ea.count
	a.sum += ea.sum
	a.sumOfSquares += ea.sumOfSquares
	a.min = math.Min(a.min, ea.min)
	a.max = math.Max(a.max, ea.max)
	return nil
}

// Result returns the statistics. Everything but count and sum is null when no values were seen.
func (a *ExtendedStats) Result() map[string]interface{} {
	if a.count == 0 {
		return map[string]interface{}{
			"count":          a.count,
			"min":            nil,
			"max":            nil,
			"avg":            nil,
			"sum":            a.sum,
			"sum_of_squares": nil,
			"variance":       nil,
			"std_deviation":  nil,
		}
	}
	n := float64(a.count)
	avg := a.sum / n
	variance := math.Max(a.sumOfSquares/n-avg*avg, 0)
	return map[string]interface{}{
		"count":          a.count,
		"min":            a.min,
		"max":            a.max,
		"avg":            avg,
		"sum":            a.sum,
		"sum_of_squares": a.sumOfSquares,
		"variance":       variance,
		"std_deviation":  math.Sqrt(variance),
	}
}
