package viz

import (
	"regexp"
	"strings"
)

// Marker is one located occurrence of `![viz:type](` in the source text.
type Marker struct {
	TypeTag   string // lower-cased type tag
	Start     int    // offset of '!'
	OpenParen int    // offset just after '('
}

// Go regexps carry no cursor state across calls, so a package-level compiled
// instance is safe for concurrent use.
var markerRe = regexp.MustCompile(`!\[viz:(\w+)\]\(`)

// ScanMarkers returns all visualization markers in text, in order, skipping
// any that sit inside fenced code blocks or inline code spans, which are
// illustrative examples in prose, not commands.
func ScanMarkers(text string) []Marker {
	matches := markerRe.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return nil
	}

	fences := fencedRanges(text)
	markers := make([]Marker, 0, len(matches))
	for _, m := range matches {
		start := m[0]
		if inRanges(fences, start) || inInlineCode(text, start) {
			continue
		}
		markers = append(markers, Marker{
			TypeTag:   strings.ToLower(text[m[2]:m[3]]),
			Start:     start,
			OpenParen: m[1],
		})
	}
	return markers
}

// Range is a half-open [Start, End) interval over the source text.
type Range struct {
	Start int
	End   int
}

func inRanges(ranges []Range, pos int) bool {
	for _, r := range ranges {
		if pos >= r.Start && pos < r.End {
			return true
		}
	}
	return false
}

func overlapsRanges(ranges []Range, start, end int) bool {
	for _, r := range ranges {
		if start < r.End && end > r.Start {
			return true
		}
	}
	return false
}

// fencedRanges locates triple-backtick fenced code blocks. An unclosed fence
// extends to the end of the text.
func fencedRanges(text string) []Range {
	var ranges []Range
	open := -1
	lineStart := 0
	for lineStart <= len(text) {
		lineEnd := strings.IndexByte(text[lineStart:], '\n')
		if lineEnd == -1 {
			lineEnd = len(text)
		} else {
			lineEnd += lineStart
		}
		line := strings.TrimLeft(text[lineStart:lineEnd], " \t")
		if strings.HasPrefix(line, "```") {
			if open == -1 {
				open = lineStart
			} else {
				ranges = append(ranges, Range{open, lineEnd + 1})
				open = -1
			}
		}
		if lineEnd == len(text) {
			break
		}
		lineStart = lineEnd + 1
	}
	if open != -1 {
		ranges = append(ranges, Range{open, len(text)})
	}
	return ranges
}

// inInlineCode reports whether pos falls inside an inline code span by
// toggling on each backtick run earlier on the same line.
func inInlineCode(text string, pos int) bool {
	lineStart := strings.LastIndexByte(text[:pos], '\n') + 1
	inside := false
	for i := lineStart; i < pos; i++ {
		if text[i] != '`' {
			continue
		}
		for i+1 < pos && text[i+1] == '`' {
			i++
		}
		inside = !inside
	}
	return inside
}
