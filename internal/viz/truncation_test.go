package viz

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectTruncation(t *testing.T) {
	tests := []struct {
		name       string
		candidate  string
		truncated  bool
		confidence float64
	}{
		{"trailing comma", `{"a":1,`, true, 0.9},
		{"trailing comma with newline", "{\"a\":1,\n", true, 0.9},
		{"dangling colon", `{"a":`, true, 0.95},
		{"colon into open array", `{"labels":[`, true, 0.95},
		{"open object inside array", `[ {"label": "Food", "value": 12`, true, 0.85},
		{"ends inside string", `{"a":"unfinishe`, true, 0.7},
		{"long imbalanced", `{"a":{"b":{"c":"` + strings.Repeat("x", 50) + `"}`, true, 0.8},
		{"short imbalance ignored", `{"a":1`, false, 0},
		{"complete object", `{"a":1}`, false, 0},
		{"empty", "", false, 0},
		{"whitespace only", "  \n\t", false, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DetectTruncation(tt.candidate)
			assert.Equal(t, tt.truncated, got.IsTruncated)
			assert.InDelta(t, tt.confidence, got.Confidence, 0.001)
			if tt.truncated {
				assert.NotEmpty(t, got.Reason)
			}
		})
	}
}

// The comma heuristic is checked before the string heuristic, so a payload
// whose trailing comma sits inside an unterminated string still classifies by
// the comma suffix.
func TestDetectTruncationCheckOrder(t *testing.T) {
	got := DetectTruncation(`{"a":"x,`)
	assert.True(t, got.IsTruncated)
	assert.InDelta(t, 0.9, got.Confidence, 0.001)
}

func TestEndsInsideString(t *testing.T) {
	assert.True(t, endsInsideString(`{"a":"open`))
	assert.False(t, endsInsideString(`{"a":"closed"`))
	assert.False(t, endsInsideString(`{"a":"esc\""`))
	assert.True(t, endsInsideString(`{"a":"esc\"`))
}

func TestBracketCounts(t *testing.T) {
	ob, cb, obk, cbk := bracketCounts(`{"a":[1,2],"s":"}]"}`)
	assert.Equal(t, 1, ob)
	assert.Equal(t, 1, cb)
	assert.Equal(t, 1, obk)
	assert.Equal(t, 1, cbk)
}
