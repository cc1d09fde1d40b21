package esframe

import "github.com/tidwall/gjson"

// An Accumulator siphons values of a single field into a custom data structure,
// producing the body of an aggregation result. Accumulators are used by DataSources
// which cannot delegate aggregation to a search engine, such as the in-memory
// DataSource. Values are accumulated independently per index, and the per-index
// Accumulators are then merged into one.
type Accumulator interface {
	// Accumulate adds a single, non-null field value to this Accumulator
	Accumulate(value gjson.Result) error
	// Merge merges another Accumulator of the same kind into this one
	Merge(o Accumulator) error
	// Result returns the aggregation result body, as Elasticsearch would report it
	Result() map[string]interface{}
}
