package esframe

// Schema is an immutable description of the fields of an index pattern,
// in a stable, deterministic order. It decides which fields become
// DataFrame columns, and which of those can be described numerically.
type Schema interface {
	// Fields returns every known field (projectable or not), in Schema order
	Fields() []Field
	// Field returns the descriptor for a field, by name
	Field(name string) (field Field, ok bool)
	// NumFields returns the total number of fields in this Schema
	NumFields() int
	// ProjectableFields returns the names of fields which are DataFrame columns, in Schema order
	ProjectableFields() []string
	// NumericAggregatableFields returns the projectable int and float fields which support aggregation, in Schema order
	NumericAggregatableFields() []string
	// DtypeOf reports whether path is a projectable field and, if so, its Dtype
	DtypeOf(path string) (isProjectable bool, dtype Dtype)
	// Narrow produces a new Schema restricted to the given projectable fields, preserving this Schema's order
	Narrow(names ...string) (Schema, error)
	// Fingerprint returns a hash of the ordered field descriptors, for detecting mapping changes
	Fingerprint() uint64
}
