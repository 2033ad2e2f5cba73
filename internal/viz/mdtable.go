package viz

import (
	"strings"
)

// TableMatch is a markdown pipe table detected in prose, converted into a
// table command.
type TableMatch struct {
	Start   int
	End     int
	Command TableCommand
}

// DetectMarkdownTables finds GFM pipe tables that fall outside all covered
// visualization spans and synthesizes table commands from them. The system
// prompt forbids markdown tables, but models emit them anyway; converting
// instead of rejecting keeps the output usable.
func DetectMarkdownTables(text string, covered []Range) []TableMatch {
	skip := append(append([]Range(nil), covered...), fencedRanges(text)...)

	var matches []TableMatch
	lines := splitLines(text)
	for i := 0; i+1 < len(lines); i++ {
		header := lines[i]
		if !looksLikeTableRow(header.text) || !isSeparatorRow(lines[i+1].text) {
			continue
		}

		end := i + 1
		for end+1 < len(lines) && looksLikeTableRow(lines[end+1].text) {
			end++
		}
		if end == i+1 {
			continue // separator with no data rows
		}

		start := header.start
		stop := lines[end].end
		if overlapsRanges(skip, start, stop) {
			i = end
			continue
		}

		cmd := TableCommand{Headers: splitCells(header.text)}
		for j := i + 2; j <= end; j++ {
			cmd.Rows = append(cmd.Rows, splitCells(lines[j].text))
		}
		matches = append(matches, TableMatch{Start: start, End: stop, Command: cmd})
		i = end
	}
	return matches
}

type line struct {
	text  string
	start int
	end   int
}

func splitLines(text string) []line {
	var lines []line
	start := 0
	for start <= len(text) {
		idx := strings.IndexByte(text[start:], '\n')
		end := len(text)
		if idx != -1 {
			end = start + idx
		}
		lines = append(lines, line{text[start:end], start, end})
		if idx == -1 {
			break
		}
		start = end + 1
	}
	return lines
}

func looksLikeTableRow(s string) bool {
	s = strings.TrimSpace(s)
	return strings.Contains(s, "|") && !isSeparatorRow(s)
}

// isSeparatorRow matches the GFM delimiter row: only '-', ':', '|' and
// whitespace, with at least one dash.
func isSeparatorRow(s string) bool {
	s = strings.TrimSpace(s)
	if !strings.Contains(s, "-") || !strings.Contains(s, "|") {
		return false
	}
	for _, c := range s {
		switch c {
		case '-', ':', '|', ' ', '\t':
		default:
			return false
		}
	}
	return true
}

// splitCells splits a pipe row into trimmed cells, discarding the empty
// leading/trailing cells produced by outer pipes.
func splitCells(row string) []string {
	parts := strings.Split(strings.TrimSpace(row), "|")
	if len(parts) > 0 && strings.TrimSpace(parts[0]) == "" {
		parts = parts[1:]
	}
	if len(parts) > 0 && strings.TrimSpace(parts[len(parts)-1]) == "" {
		parts = parts[:len(parts)-1]
	}
	cells := make([]string, len(parts))
	for i, p := range parts {
		cells[i] = strings.TrimSpace(p)
	}
	return cells
}
