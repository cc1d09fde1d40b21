package memory

import (
	"strings"

	json "github.com/json-iterator/go"
	"github.com/tidwall/gjson"
)

// collectValues calls fn for every non-null leaf value stored at a dotted field path.
// Arrays are traversed at any depth, and keys may themselves contain dots.
func collectValues(node gjson.Result, parts []string, fn func(value gjson.Result)) {
	if node.IsArray() {
		node.ForEach(func(_, elem gjson.Result) bool {
			collectValues(elem, parts, fn)
			return true
		})
		return
	}
	if len(parts) == 0 {
		if node.Exists() && node.Type != gjson.Null {
			fn(node)
		}
		return
	}
	if !node.IsObject() {
		return
	}
	node.ForEach(func(key, child gjson.Result) bool {
		k := key.String()
		for i := 1; i <= len(parts); i++ {
			if k == strings.Join(parts[:i], ".") {
				collectValues(child, parts[i:], fn)
			}
		}
		return true
	})
}

// hasValue returns true iff a document holds at least one non-null value for a field
func hasValue(doc gjson.Result, field string) bool {
	found := false
	collectValues(doc, strings.Split(field, "."), func(gjson.Result) {
		found = true
	})
	return found
}

// firstValue returns the first non-null value of a field within a document
func firstValue(doc gjson.Result, field string) (gjson.Result, bool) {
	var first gjson.Result
	found := false
	collectValues(doc, strings.Split(field, "."), func(value gjson.Result) {
		if !found {
			first, found = value, true
		}
	})
	return first, found
}

type inclusion int

const (
	excluded inclusion = iota
	partial
	included
)

// includes reports whether a path is wholly included by a list of _source
// includes, or is only an ancestor of an included path
func includes(path string, paths []string) inclusion {
	result := excluded
	for _, p := range paths {
		if path == p || strings.HasPrefix(path, p+".") {
			return included
		}
		if strings.HasPrefix(p, path+".") {
			result = partial
		}
	}
	return result
}

// filterSource keeps only the parts of a document which are beneath the included
// paths, preserving key order
func filterSource(source []byte, paths []string) ([]byte, error) {
	stream := json.ConfigCompatibleWithStandardLibrary.BorrowStream(nil)
	defer json.ConfigCompatibleWithStandardLibrary.ReturnStream(stream)
	writeFiltered(stream, gjson.ParseBytes(source), "", paths)
	if stream.Error != nil {
		return nil, stream.Error
	}
	filtered := make([]byte, len(stream.Buffer()))
	copy(filtered, stream.Buffer())
	return filtered, nil
}

func writeFiltered(stream *json.Stream, node gjson.Result, path string, paths []string) {
	switch {
	case node.IsObject():
		stream.WriteObjectStart()
		first := true
		node.ForEach(func(key, child gjson.Result) bool {
			childPath := key.String()
			if path != "" {
				childPath = path + "." + childPath
			}
			inc := includes(childPath, paths)
			if inc == excluded || (inc == partial && !child.IsObject() && !child.IsArray()) {
				return true
			}
			if !first {
				stream.WriteMore()
			}
			first = false
			stream.WriteObjectField(key.String())
			if inc == included {
				stream.WriteRaw(child.Raw)
			} else {
				writeFiltered(stream, child, childPath, paths)
			}
			return true
		})
		stream.WriteObjectEnd()
	case node.IsArray():
		// only containers can hold included descendants
		stream.WriteArrayStart()
		first := true
		node.ForEach(func(_, elem gjson.Result) bool {
			if !elem.IsObject() && !elem.IsArray() {
				return true
			}
			if !first {
				stream.WriteMore()
			}
			first = false
			writeFiltered(stream, elem, path, paths)
			return true
		})
		stream.WriteArrayEnd()
	default:
		stream.WriteRaw(node.Raw)
	}
}
