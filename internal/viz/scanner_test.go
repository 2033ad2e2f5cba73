package viz

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanMarkers(t *testing.T) {
	text := `intro ![viz:table]({"headers":[]}) middle ![viz:pie]({"data":[]}) end`
	markers := ScanMarkers(text)
	require.Len(t, markers, 2)

	assert.Equal(t, "table", markers[0].TypeTag)
	assert.Equal(t, strings.Index(text, "![viz:table]"), markers[0].Start)
	assert.Equal(t, strings.Index(text, `{"headers"`), markers[0].OpenParen)

	assert.Equal(t, "pie", markers[1].TypeTag)
	assert.Equal(t, strings.Index(text, "![viz:pie]"), markers[1].Start)
}

func TestScanMarkersLowercasesTag(t *testing.T) {
	markers := ScanMarkers(`![viz:TABLE]({})`)
	require.Len(t, markers, 1)
	assert.Equal(t, "table", markers[0].TypeTag)
}

func TestScanMarkersSkipsFencedCode(t *testing.T) {
	text := "before\n```\n![viz:table]({})\n```\nafter ![viz:pie]({})"
	markers := ScanMarkers(text)
	require.Len(t, markers, 1)
	assert.Equal(t, "pie", markers[0].TypeTag)
}

func TestScanMarkersSkipsUnclosedFence(t *testing.T) {
	text := "prose\n```json\n![viz:table]({\"headers\":[]}"
	assert.Empty(t, ScanMarkers(text))
}

func TestScanMarkersSkipsInlineCode(t *testing.T) {
	text := "write `![viz:table]({...})` to embed a table"
	assert.Empty(t, ScanMarkers(text))

	// a closed code span earlier on the line does not swallow the marker
	text = "the `viz` syntax: ![viz:table]({})"
	markers := ScanMarkers(text)
	require.Len(t, markers, 1)
	assert.Equal(t, "table", markers[0].TypeTag)
}

func TestScanMarkersNone(t *testing.T) {
	assert.Empty(t, ScanMarkers("just prose with [links](http://x) and !bangs"))
	assert.Empty(t, ScanMarkers(""))
}

func TestBalancePayload(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		from      int
		ok        bool
		candidate string
		end       int
		complete  bool
	}{
		{
			name: "object with closing paren",
			text: `({"a":1}) tail`, from: 1,
			ok: true, candidate: `{"a":1}`, end: 9, complete: true,
		},
		{
			name: "balanced but paren forgotten",
			text: `{"a":1} tail`, from: 0,
			ok: true, candidate: `{"a":1}`, end: 7, complete: true,
		},
		{
			name: "paren inside string ignored",
			text: `{"a":")"})x`, from: 0,
			ok: true, candidate: `{"a":")"}`, end: 10, complete: true,
		},
		{
			name: "escaped quote inside string",
			text: `{"a":"\")"})`, from: 0,
			ok: true, candidate: `{"a":"\")"}`, end: 12, complete: true,
		},
		{
			name: "truncated mid-stream",
			text: `{"a":[1,`, from: 0,
			ok: true, candidate: `{"a":[1,`, end: 8, complete: false,
		},
		{
			name: "leading whitespace",
			text: "  \n{\"a\":1})", from: 0,
			ok: true, candidate: `{"a":1}`, end: 11, complete: true,
		},
		{
			name: "array root",
			text: `[1,2])`, from: 0,
			ok: true, candidate: `[1,2]`, end: 6, complete: true,
		},
		{
			name: "whitespace before closing paren",
			text: `{"a":1}  )`, from: 0,
			ok: true, candidate: `{"a":1}`, end: 10, complete: true,
		},
		{
			name: "no json at position",
			text: `hello)`, from: 0,
			ok: false,
		},
		{
			name: "end of text",
			text: `abc`, from: 3,
			ok: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sp, ok := balancePayload(tt.text, tt.from)
			require.Equal(t, tt.ok, ok)
			if !ok {
				return
			}
			assert.Equal(t, tt.candidate, tt.text[sp.JSONStart:sp.JSONEnd])
			assert.Equal(t, tt.end, sp.End)
			assert.Equal(t, tt.complete, sp.Complete)
		})
	}
}
