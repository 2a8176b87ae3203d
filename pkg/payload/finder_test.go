package payload

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, raw string) interface{} {
	t.Helper()
	var tree interface{}
	require.NoError(t, json.Unmarshal([]byte(raw), &tree))
	return tree
}

func TestNestedLookup(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		key  string
		want []interface{}
	}{
		{
			name: "top level key",
			raw:  `{"target":"a"}`,
			key:  "target",
			want: []interface{}{"a"},
		},
		{
			name: "deeply nested key",
			raw:  `{"a":{"b":{"c":{"target":42}}}}`,
			key:  "target",
			want: []interface{}{float64(42)},
		},
		{
			name: "key inside list elements",
			raw:  `{"items":[{"target":"x"},{"other":1},{"target":"y"}]}`,
			key:  "target",
			want: []interface{}{"x", "y"},
		},
		{
			name: "same key at multiple depths",
			raw:  `{"target":{"target":"inner"}}`,
			key:  "target",
			want: []interface{}{map[string]interface{}{"target": "inner"}, "inner"},
		},
		{
			name: "absent key",
			raw:  `{"a":{"b":[1,2,3]}}`,
			key:  "target",
			want: nil,
		},
		{
			name: "scalar tree",
			raw:  `"just a string"`,
			key:  "target",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NestedLookup(tt.key, mustParse(t, tt.raw))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNestedLookupDeterministicOrder(t *testing.T) {
	raw := `{"z":{"target":"from_z"},"a":{"target":"from_a"},"m":{"target":"from_m"}}`

	// Map traversal is sorted, so repeated runs see the same order.
	first := NestedLookup("target", mustParse(t, raw))
	require.Equal(t, []interface{}{"from_a", "from_m", "from_z"}, first)

	for i := 0; i < 10; i++ {
		assert.Equal(t, first, NestedLookup("target", mustParse(t, raw)))
	}
}

func TestNestedLookupKeepsDuplicateSubtrees(t *testing.T) {
	raw := `{"a":{"thread_items":["r1"]},"b":{"thread_items":["r1"]}}`

	got := NestedLookup("thread_items", mustParse(t, raw))
	assert.Equal(t, []interface{}{
		[]interface{}{"r1"},
		[]interface{}{"r1"},
	}, got)
}
