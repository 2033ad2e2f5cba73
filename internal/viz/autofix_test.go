package viz

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAutoFixTrailingCommas(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"array", `{"data":[1,2,]}`, `{"data":[1,2]}`},
		{"object", `{"a":1,}`, `{"a":1}`},
		{"nested", `{"a":[{"b":2,},]}`, `{"a":[{"b":2}]}`},
		{"comma with whitespace", "{\"a\":[1, \n]}", "{\"a\":[1 \n]}"},
		{"comma inside string untouched", `{"a":",}"}`, `{"a":",}"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _, err := removeTrailingCommas(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAutoFixDuplicateKeys(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"last wins", `{"a":1,"a":2}`, `{"a":2}`},
		{"no duplicates", `{"a":1,"b":2}`, `{"a":1,"b":2}`},
		{"nested object", `{"x":{"k":1,"k":2},"k":3}`, `{"x":{"k":2},"k":3}`},
		{"outer duplicate before nested one", `{"y":1,"x":{"a":1,"a":2},"y":2}`, `{"x":{"a":2},"y":2}`},
		{"triple", `{"a":1,"a":2,"a":3}`, `{"a":3}`},
		{"same key different levels kept", `{"a":{"a":1}}`, `{"a":{"a":1}}`},
		{"malformed input untouched", `{"a":1,"a":`, `{"a":1,"a":`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _, err := removeDuplicateKeys(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAutoFixRebalanceBrackets(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"missing closers appended", `{"a":[1,2`, `{"a":[1,2]}`},
		{"mismatched closer replaced", `{"a":[1,2}}`, `{"a":[1,2]}`},
		{"stray closer dropped", `{"a":1}]`, `{"a":1}`},
		{"brackets in strings ignored", `{"a":"[{"}`, `{"a":"[{"}`},
		{"unterminated string closed", `{"a":"x`, `{"a":"x"}`},
		{"balanced untouched", `{"a":[1,2]}`, `{"a":[1,2]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _, err := rebalanceBrackets(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

// Brace and bracket counts outside string literals must match after the
// rebalancing pass, whatever the input.
func TestRebalanceBalanceInvariant(t *testing.T) {
	inputs := []string{
		`{"a":[1,2`,
		`}}]]`,
		`{"a":{"b":[`,
		`[[[`,
		`{"s":"}}]]"`,
		`{"a":1}`,
		``,
		`{"x": [1, {"y": "z`,
	}
	for _, in := range inputs {
		out, _, err := rebalanceBrackets(in)
		require.NoError(t, err)
		ob, cb, obk, cbk := bracketCounts(out)
		assert.Equal(t, ob, cb, "brace balance for %q -> %q", in, out)
		assert.Equal(t, obk, cbk, "bracket balance for %q -> %q", in, out)
	}
}

func TestAutoFixMissingCommas(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"between strings in array", `["a" "b"]`, `["a","b"]`},
		{"between objects in array", `[{"a":1} {"b":2}]`, `[{"a":1},{"b":2}]`},
		{"between members", `{"a":"x" "b":"y"}`, `{"a":"x","b":"y"}`},
		{"after closing bracket", `{"a":[1] "b":2}`, `{"a":[1],"b":2}`},
		{"key colon untouched", `{"a": "x"}`, `{"a": "x"}`},
		{"top level untouched", `"a" "b"`, `"a" "b"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _, err := insertMissingCommas(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAutoFixSurrogates(t *testing.T) {
	t.Run("lone high surrogate escape dropped", func(t *testing.T) {
		got, warns, err := sanitizeSurrogates(`{"a":"x\uD800y"}`)
		require.NoError(t, err)
		assert.Equal(t, `{"a":"xy"}`, got)
		assert.NotEmpty(t, warns)
	})
	t.Run("valid surrogate pair kept", func(t *testing.T) {
		in := `{"a":"😀"}`
		got, warns, err := sanitizeSurrogates(in)
		require.NoError(t, err)
		assert.Equal(t, in, got)
		assert.Empty(t, warns)
	})
	t.Run("lone low surrogate escape dropped", func(t *testing.T) {
		got, _, err := sanitizeSurrogates(`{"a":"\uDC00"}`)
		require.NoError(t, err)
		assert.Equal(t, `{"a":""}`, got)
	})
	t.Run("escaped backslash is not an escape prefix", func(t *testing.T) {
		in := `{"a":"\\uD800"}`
		got, _, err := sanitizeSurrogates(in)
		require.NoError(t, err)
		assert.Equal(t, in, got)
	})
	t.Run("invalid utf8 bytes dropped", func(t *testing.T) {
		got, _, err := sanitizeSurrogates("{\"a\":\"x\xffy\"}")
		require.NoError(t, err)
		assert.Equal(t, `{"a":"xy"}`, got)
	})
}

func TestAutoFixSchemaNormalization(t *testing.T) {
	tests := []struct {
		name  string
		input string
		hint  string
		check func(t *testing.T, fixed string)
	}{
		{
			name:  "direct line type rewritten to chart",
			input: `{"type":"line","data":{}}`,
			hint:  "chart",
			check: func(t *testing.T, fixed string) {
				var p map[string]any
				require.NoError(t, json.Unmarshal([]byte(fixed), &p))
				assert.Equal(t, "chart", p["type"])
				assert.Equal(t, "line", p["chartType"])
			},
		},
		{
			name:  "table columns renamed to headers",
			input: `{"type":"table","columns":["A"],"rows":[]}`,
			hint:  "table",
			check: func(t *testing.T, fixed string) {
				var p map[string]any
				require.NoError(t, json.Unmarshal([]byte(fixed), &p))
				assert.Equal(t, []any{"A"}, p["headers"])
				assert.NotContains(t, p, "columns")
			},
		},
		{
			name:  "table headers and rows guaranteed",
			input: `{"type":"table"}`,
			hint:  "table",
			check: func(t *testing.T, fixed string) {
				var p map[string]any
				require.NoError(t, json.Unmarshal([]byte(fixed), &p))
				assert.Contains(t, p, "headers")
				assert.Contains(t, p, "rows")
			},
		},
		{
			name:  "chart defaults",
			input: `{"type":"chart"}`,
			hint:  "chart",
			check: func(t *testing.T, fixed string) {
				var p map[string]any
				require.NoError(t, json.Unmarshal([]byte(fixed), &p))
				assert.Equal(t, "bar", p["chartType"])
				assert.Contains(t, p, "data")
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fixed, _, err := normalizeSchema(tt.input, tt.hint)
			require.NoError(t, err)
			tt.check(t, fixed)
		})
	}
}

// Running the fixer over its own output must be a no-op.
func TestAutoFixIdempotence(t *testing.T) {
	inputs := []struct {
		candidate string
		hint      string
	}{
		{`{"headers":["A"],"rows":[["x"]]}`, "table"},
		{`{"type":"bar","data":{"labels":["X"],"datasets":[{"data":[1,]}]}}`, "chart"},
		{`{"a":[1,2`, "table"},
		{`{"a":1,"a":2,}`, "pie"},
		{`{"y":1,"x":{"a":1,"a":2},"y":2}`, "pie"},
		{`{"a":"x`, "line"},
		{`["a" "b"]`, "table"},
		{`{"type":"line","data":{}}`, "chart"},
		{`garbage that is not json`, "table"},
	}
	for _, in := range inputs {
		first := AutoFix(in.candidate, in.hint)
		second := AutoFix(first.Fixed, in.hint)
		assert.Equal(t, first.Fixed, second.Fixed, "fixer not idempotent for %q", in.candidate)
		assert.False(t, second.WasFixed, "second run reported changes for %q", in.candidate)
	}
}

func TestAutoFixNeverThrows(t *testing.T) {
	inputs := []string{
		"", "{", "}", `)(`, "\x00\xff\xfe", `{"a":`, "[[[[[[", `{"`, "\\u12",
	}
	for _, in := range inputs {
		assert.NotPanics(t, func() { AutoFix(in, "table") }, "input %q", in)
	}
}
