package esframe

// Field describes a single field of an Elasticsearch index, as it
// appears to a DataFrame.
type Field struct {
	Name         string // Name is the fully-qualified, dot-separated path of this Field
	ESType       string // ESType is the Elasticsearch field type (keyword, long, date, ...)
	Dtype        Dtype  // Dtype is the tabular type values of this Field are coerced to
	Projectable  bool   // Projectable is true iff this Field is a source field, and not a multi-field sub-field
	Searchable   bool   // Searchable is true iff this Field can be queried
	Aggregatable bool   // Aggregatable is true iff this Field supports aggregations
}
