package schema

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/cespare/xxhash/v2"
	"github.com/go-sif/esframe"
	errors "github.com/go-sif/esframe/errors"
	"github.com/go-sif/esframe/logging"
	"github.com/hashicorp/go-multierror"
	"github.com/tidwall/gjson"
)

// snapshot is an immutable, ordered set of field descriptors
type snapshot struct {
	fields      []esframe.Field
	byName      map[string]int
	projectable []string
	numeric     []string
	fingerprint uint64
}

// CreateSchema is a factory for Schemas built from explicit field descriptors.
// Fields are ordered by name; a repeated name keeps its first descriptor.
func CreateSchema(fields ...esframe.Field) esframe.Schema {
	sorted := make([]esframe.Field, 0, len(fields))
	seen := make(map[string]bool, len(fields))
	for _, f := range fields {
		if seen[f.Name] {
			continue
		}
		seen[f.Name] = true
		sorted = append(sorted, f)
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Name < sorted[j].Name
	})
	return newSnapshot(sorted)
}

// newSnapshot indexes already-ordered fields
func newSnapshot(fields []esframe.Field) *snapshot {
	s := &snapshot{
		fields:      fields,
		byName:      make(map[string]int, len(fields)),
		projectable: make([]string, 0, len(fields)),
		numeric:     make([]string, 0),
	}
	hasher := xxhash.New()
	for i, f := range fields {
		s.byName[f.Name] = i
		if f.Projectable {
			s.projectable = append(s.projectable, f.Name)
			if f.Dtype.IsNumeric() && f.Aggregatable {
				s.numeric = append(s.numeric, f.Name)
			}
		}
		fmt.Fprintf(hasher, "%s\x00%s\x00%t\x00%t\x00%t\n", f.Name, f.ESType, f.Projectable, f.Searchable, f.Aggregatable)
	}
	s.fingerprint = hasher.Sum64()
	return s
}

// Fields returns every known field, in Schema order
func (s *snapshot) Fields() []esframe.Field {
	fields := make([]esframe.Field, len(s.fields))
	copy(fields, s.fields)
	return fields
}

// Field returns the descriptor for a field, by name
func (s *snapshot) Field(name string) (esframe.Field, bool) {
	idx, ok := s.byName[name]
	if !ok {
		return esframe.Field{}, false
	}
	return s.fields[idx], true
}

// NumFields returns the total number of fields in this Schema
func (s *snapshot) NumFields() int {
	return len(s.fields)
}

// ProjectableFields returns the names of the source fields in this Schema, in order
func (s *snapshot) ProjectableFields() []string {
	names := make([]string, len(s.projectable))
	copy(names, s.projectable)
	return names
}

// NumericAggregatableFields returns the projectable int and float fields which support aggregation, in order
func (s *snapshot) NumericAggregatableFields() []string {
	names := make([]string, len(s.numeric))
	copy(names, s.numeric)
	return names
}

// DtypeOf reports whether path is a projectable field and, if so, its Dtype
func (s *snapshot) DtypeOf(path string) (bool, esframe.Dtype) {
	idx, ok := s.byName[path]
	if !ok || !s.fields[idx].Projectable {
		return false, esframe.ObjectDtype
	}
	return true, s.fields[idx].Dtype
}

// Narrow produces a new Schema containing only the named projectable fields.
// The result follows this Schema's order, not the order of names.
func (s *snapshot) Narrow(names ...string) (esframe.Schema, error) {
	wanted := make(map[string]bool, len(names))
	for _, name := range names {
		if isProjectable, _ := s.DtypeOf(name); !isProjectable {
			return nil, &errors.UnknownColumnError{Name: name}
		}
		wanted[name] = true
	}
	fields := make([]esframe.Field, 0, len(wanted))
	for _, f := range s.fields {
		if wanted[f.Name] {
			fields = append(fields, f)
		}
	}
	return newSnapshot(fields), nil
}

// Fingerprint returns an xxhash of the ordered field descriptors
func (s *snapshot) Fingerprint() uint64 {
	return s.fingerprint
}

// mappedField is a field discovered while walking an index mapping
type mappedField struct {
	esType string
	source bool
}

// Build parses the raw mapping and field capabilities of an index pattern into a Schema.
// Fields are ordered by name. Only fields present in both the mapping and the field
// capabilities are kept; multi-field sub-fields (e.g. city.keyword) are kept, but are not
// projectable. Type conflicts across indices are resolved in favour of the first
// definition seen in the mapping, and logged.
func Build(indexPattern string, desc *esframe.SchemaDescription, logger *slog.Logger) (esframe.Schema, error) {
	logger = logging.OrDiscard(logger)
	if desc == nil || len(desc.Mapping) == 0 {
		return nil, &errors.SchemaError{IndexPattern: indexPattern, Reason: "missing mapping"}
	}
	if len(desc.FieldCaps) == 0 {
		return nil, &errors.SchemaError{IndexPattern: indexPattern, Reason: "missing field capabilities"}
	}
	if !gjson.ValidBytes(desc.Mapping) {
		return nil, &errors.SchemaError{IndexPattern: indexPattern, Reason: "mapping is not valid JSON"}
	}
	if !gjson.ValidBytes(desc.FieldCaps) {
		return nil, &errors.SchemaError{IndexPattern: indexPattern, Reason: "field capabilities are not valid JSON"}
	}

	var merr *multierror.Error
	mapping := gjson.ParseBytes(desc.Mapping)
	if !mapping.IsObject() {
		return nil, &errors.SchemaError{IndexPattern: indexPattern, Reason: "mapping is not an object"}
	}
	mapped := make(map[string]mappedField)
	mapping.ForEach(func(index, body gjson.Result) bool {
		props := body.Get("mappings.properties")
		if !props.Exists() {
			return true
		}
		if !props.IsObject() {
			merr = multierror.Append(merr, fmt.Errorf("index %s: properties is not an object", index.String()))
			return true
		}
		merr = walkProperties(props, "", mapped, logger, merr)
		return true
	})

	caps := gjson.GetBytes(desc.FieldCaps, "fields")
	if !caps.IsObject() {
		return nil, &errors.SchemaError{IndexPattern: indexPattern, Reason: "field capabilities have no fields object"}
	}
	fields := make([]esframe.Field, 0, len(mapped))
	for name, fieldCaps := range caps.Map() {
		mf, ok := mapped[name]
		if !ok {
			// metadata fields (_id, _index, ...) and fields from unmapped indices
			continue
		}
		field, err := parseFieldCaps(name, mf, fieldCaps, logger)
		if err != nil {
			merr = multierror.Append(merr, err)
			continue
		}
		fields = append(fields, field)
	}
	if err := merr.ErrorOrNil(); err != nil {
		return nil, &errors.SchemaError{IndexPattern: indexPattern, Reason: "malformed field description", Err: err}
	}
	if len(fields) == 0 {
		return nil, &errors.SchemaError{IndexPattern: indexPattern, Reason: "no fields"}
	}
	sort.Slice(fields, func(i, j int) bool {
		return fields[i].Name < fields[j].Name
	})
	logger.Debug("built schema", "index_pattern", indexPattern, "fields", len(fields))
	return newSnapshot(fields), nil
}

// walkProperties records every typed field beneath a "properties" object, in document order
func walkProperties(props gjson.Result, prefix string, mapped map[string]mappedField, logger *slog.Logger, merr *multierror.Error) *multierror.Error {
	props.ForEach(func(key, def gjson.Result) bool {
		name := prefix + key.String()
		if !def.IsObject() {
			merr = multierror.Append(merr, fmt.Errorf("field %s: definition is not an object", name))
			return true
		}
		typ := def.Get("type")
		if typ.Exists() && typ.Type != gjson.String {
			merr = multierror.Append(merr, fmt.Errorf("field %s: type is not a string", name))
			return true
		}
		if children := def.Get("properties"); children.Exists() {
			if !children.IsObject() {
				merr = multierror.Append(merr, fmt.Errorf("field %s: properties is not an object", name))
				return true
			}
			merr = walkProperties(children, name+".", mapped, logger, merr)
		}
		esType := typ.String()
		if esType == "" || esType == "object" || esType == "nested" {
			return true
		}
		recordField(name, mappedField{esType: esType, source: true}, mapped, logger)
		def.Get("fields").ForEach(func(subKey, subDef gjson.Result) bool {
			subType := subDef.Get("type")
			if subType.Type != gjson.String {
				merr = multierror.Append(merr, fmt.Errorf("field %s.%s: multi-field has no type", name, subKey.String()))
				return true
			}
			recordField(name+"."+subKey.String(), mappedField{esType: subType.String()}, mapped, logger)
			return true
		})
		return true
	})
	return merr
}

// recordField adds a field to mapped. The first type seen for a name wins.
func recordField(name string, mf mappedField, mapped map[string]mappedField, logger *slog.Logger) {
	existing, ok := mapped[name]
	if !ok {
		mapped[name] = mf
		return
	}
	if existing.esType != mf.esType {
		logger.Warn("field has conflicting types", "field", name, "type", existing.esType, "conflicting_type", mf.esType)
	}
}

// parseFieldCaps reads the capabilities of a single field. Its type is the first one
// seen in the mapping, and its capabilities come from the entry of that type. When no
// entry matches the mapped type, the first entry is used. Disagreements are logged.
func parseFieldCaps(name string, mf mappedField, fieldCaps gjson.Result, logger *slog.Logger) (esframe.Field, error) {
	if !fieldCaps.IsObject() {
		return esframe.Field{}, fmt.Errorf("field %s: capabilities are not an object", name)
	}
	var chosen, first gjson.Result
	entries, matched := 0, false
	var err error
	fieldCaps.ForEach(func(typeKey, entry gjson.Result) bool {
		if !entry.IsObject() {
			err = fmt.Errorf("field %s: capability %s is not an object", name, typeKey.String())
			return false
		}
		if entries == 0 {
			first = entry
		}
		entries++
		esType := entry.Get("type").String()
		if esType == "" {
			esType = typeKey.String()
		}
		if esType == mf.esType && !matched {
			chosen, matched = entry, true
		} else if esType != mf.esType {
			logger.Warn("field capabilities disagree with the mapping", "field", name, "type", mf.esType, "conflicting_type", esType)
		}
		return true
	})
	if err != nil {
		return esframe.Field{}, err
	}
	if entries == 0 {
		return esframe.Field{}, fmt.Errorf("field %s: no capabilities", name)
	}
	if !matched {
		chosen = first
	}
	if indices := chosen.Get("non_aggregatable_indices"); indices.Exists() {
		logger.Warn("field is not aggregatable in every index", "field", name, "indices", indices.String())
	}
	if indices := chosen.Get("non_searchable_indices"); indices.Exists() {
		logger.Warn("field is not searchable in every index", "field", name, "indices", indices.String())
	}
	return esframe.Field{
		Name:         name,
		ESType:       mf.esType,
		Dtype:        esframe.DtypeFromESType(mf.esType),
		Projectable:  mf.source,
		Searchable:   chosen.Get("searchable").Bool(),
		Aggregatable: chosen.Get("aggregatable").Bool(),
	}, nil
}
