package accumulators

import (
	"fmt"

	"github.com/go-sif/esframe"
	"github.com/tidwall/gjson"
)

// Compose returns a factory for Composed Accumulators
func Compose(faccs ...func() esframe.Accumulator) func() esframe.Accumulator {
	return func() esframe.Accumulator {
		accs := make([]esframe.Accumulator, len(faccs))
		for i, f := range faccs {
			accs[i] = f()
		}
		return &Composed{accs: accs}
	}
}

// Composed composes other Accumulators, feeding each of them every value
type Composed struct {
	accs []esframe.Accumulator
}

// GetResults returns the contained Accumulators, so that their results may be accessed
func (c *Composed) GetResults() []esframe.Accumulator {
	return c.accs
}

// Accumulate adds a value to all contained Accumulators
func (c *Composed) Accumulate(value gjson.Result) error {
	for _, a := range c.accs {
		err := a.Accumulate(value)
		if err != nil {
			return err
		}
	}
	return nil
}

// Merge merges another Composed Accumulator into this one, merging all contained Accumulators
func (c *Composed) Merge(o esframe.Accumulator) error {
	compa, ok := o.(*Composed)
	if !ok {
		return fmt.Errorf("Incoming accumulator is not a Composed Accumulator")
	}
	if len(compa.accs) != len(c.accs) {
		return fmt.Errorf("Incoming Composed Accumulator has %d accumulators, expected %d", len(compa.accs), len(c.accs))
	}
	for i, a := range c.accs {
		err := a.Merge(compa.accs[i])
		if err != nil {
			return err
		}
	}
	return nil
}

// Result merges the results of all contained Accumulators. Later keys win.
func (c *Composed) Result() map[string]interface{} {
	result := make(map[string]interface{})
	for _, a := range c.accs {
		for k, v := range a.Result() {
			result[k] = v
		}
	}
	return result
}
