package viz

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// assertGapless checks that segments tile the whole input: contiguous,
// in order, first at 0, last at len(text).
func assertGapless(t *testing.T, text string, segments []Segment) {
	t.Helper()
	if len(text) == 0 {
		assert.Empty(t, segments)
		return
	}
	require.NotEmpty(t, segments)
	assert.Equal(t, 0, segments[0].Start)
	assert.Equal(t, len(text), segments[len(segments)-1].End)
	for i := 1; i < len(segments); i++ {
		assert.Equal(t, segments[i-1].End, segments[i].Start, "gap before segment %d", i)
	}
	for _, s := range segments {
		if s.Type == SegmentText {
			assert.Equal(t, text[s.Start:s.End], s.Content)
		}
	}
}

func TestSplitSegmentsNoSpans(t *testing.T) {
	text := "plain prose only"
	segments := splitSegments(text, nil)
	require.Len(t, segments, 1)
	assert.Equal(t, SegmentText, segments[0].Type)
	assert.Equal(t, text, segments[0].Content)
	assertGapless(t, text, segments)
}

func TestSplitSegmentsInterleaved(t *testing.T) {
	text := "aaa[VIZ]bbb[ERR]ccc"
	spans := []resolvedSpan{
		{Start: 3, End: 8, Command: TableCommand{}},
		{Start: 11, End: 16, Err: &ParseError{Start: 11, End: 16}},
	}
	segments := splitSegments(text, spans)
	require.Len(t, segments, 5)

	assert.Equal(t, SegmentText, segments[0].Type)
	assert.Equal(t, "aaa", segments[0].Content)
	assert.Equal(t, SegmentViz, segments[1].Type)
	assert.Equal(t, SegmentText, segments[2].Type)
	assert.Equal(t, "bbb", segments[2].Content)
	assert.Equal(t, SegmentError, segments[3].Type)
	assert.NotNil(t, segments[3].Err)
	assert.Equal(t, SegmentText, segments[4].Type)
	assert.Equal(t, "ccc", segments[4].Content)
	assertGapless(t, text, segments)
}

func TestSplitSegmentsSpanAtEdges(t *testing.T) {
	text := "[VIZ]middle[VIZ]"
	spans := []resolvedSpan{
		{Start: 0, End: 5, Command: PieCommand{}},
		{Start: 11, End: 16, Command: PieCommand{}},
	}
	segments := splitSegments(text, spans)
	require.Len(t, segments, 3)
	assert.Equal(t, SegmentViz, segments[0].Type)
	assert.Equal(t, SegmentText, segments[1].Type)
	assert.Equal(t, "middle", segments[1].Content)
	assert.Equal(t, SegmentViz, segments[2].Type)
	assertGapless(t, text, segments)
}

func TestSplitSegmentsWholeTextSpan(t *testing.T) {
	text := "[VIZ]"
	segments := splitSegments(text, []resolvedSpan{{Start: 0, End: 5, Command: TableCommand{}}})
	require.Len(t, segments, 1)
	assert.Equal(t, SegmentViz, segments[0].Type)
	assertGapless(t, text, segments)
}

func TestSplitSegmentsEmptyText(t *testing.T) {
	assert.Empty(t, splitSegments("", nil))
}
