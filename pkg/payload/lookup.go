package payload

// Best-effort field access over loosely typed JSON trees. Each helper walks a
// key path through nested maps and reports whether a value of the expected
// type was found, so callers never poke at raw interface{} values inline.

func at(tree interface{}, path ...string) (interface{}, bool) {
	node := tree
	for _, key := range path {
		m, ok := node.(map[string]interface{})
		if !ok {
			return nil, false
		}
		node, ok = m[key]
		if !ok {
			return nil, false
		}
	}
	if node == nil {
		return nil, false
	}
	return node, true
}

// StringAt returns the string value at the given key path
func StringAt(tree interface{}, path ...string) (string, bool) {
	v, ok := at(tree, path...)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// IntAt returns the integer value at the given key path. JSON numbers decode
// as float64; fractional values are truncated.
func IntAt(tree interface{}, path ...string) (int64, bool) {
	v, ok := at(tree, path...)
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return int64(n), true
	case int64:
		return n, true
	case int:
		return int64(n), true
	}
	return 0, false
}

// SliceAt returns the list value at the given key path
func SliceAt(tree interface{}, path ...string) ([]interface{}, bool) {
	v, ok := at(tree, path...)
	if !ok {
		return nil, false
	}
	s, ok := v.([]interface{})
	return s, ok
}

// MapAt returns the object value at the given key path
func MapAt(tree interface{}, path ...string) (map[string]interface{}, bool) {
	v, ok := at(tree, path...)
	if !ok {
		return nil, false
	}
	m, ok := v.(map[string]interface{})
	return m, ok
}
