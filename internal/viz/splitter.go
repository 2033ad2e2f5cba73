package viz

// resolvedSpan is a visualization span whose fate is already decided: either
// a recovered command or a parse error.
type resolvedSpan struct {
	Start     int
	End       int
	Command   Command
	AutoFixed bool
	FixNotes  []string
	Err       *ParseError
}

// splitSegments partitions text into alternating prose and
// visualization/error segments. Spans must be sorted by Start and must not
// overlap; the output covers the input with no gaps, so concatenating the
// text segments with the spans' source ranges reproduces the original text.
func splitSegments(text string, spans []resolvedSpan) []Segment {
	segments := make([]Segment, 0, 2*len(spans)+1)
	cur := 0
	for _, sp := range spans {
		if sp.Start > cur {
			segments = append(segments, Segment{
				Type:    SegmentText,
				Content: text[cur:sp.Start],
				Start:   cur,
				End:     sp.Start,
			})
		}
		if sp.Err != nil {
			segments = append(segments, Segment{
				Type:  SegmentError,
				Err:   sp.Err,
				Start: sp.Start,
				End:   sp.End,
			})
		} else {
			segments = append(segments, Segment{
				Type:      SegmentViz,
				Command:   sp.Command,
				AutoFixed: sp.AutoFixed,
				FixNotes:  sp.FixNotes,
				Start:     sp.Start,
				End:       sp.End,
			})
		}
		cur = sp.End
	}
	if cur < len(text) {
		segments = append(segments, Segment{
			Type:    SegmentText,
			Content: text[cur:],
			Start:   cur,
			End:     len(text),
		})
	}
	return segments
}
