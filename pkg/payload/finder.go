package payload

import "sort"

// NestedLookup collects every value stored under the given key at any depth
// of a generic JSON tree. The key may appear under arbitrarily different
// ancestor chains, so no parent shape is assumed. Duplicates are kept when
// the same subtree is reachable multiple ways. Map keys are visited in sorted
// order so results are deterministic across runs.
func NestedLookup(key string, tree interface{}) []interface{} {
	var found []interface{}
	nestedLookup(key, tree, &found)
	return found
}

func nestedLookup(key string, node interface{}, found *[]interface{}) {
	switch v := node.(type) {
	case map[string]interface{}:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if k == key {
				*found = append(*found, v[k])
			}
			nestedLookup(key, v[k], found)
		}
	case []interface{}:
		for _, item := range v {
			nestedLookup(key, item, found)
		}
	}
}
