package viz

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// FixResult is the output of the auto-fix pipeline.
type FixResult struct {
	Fixed    string
	WasFixed bool
	Warnings []string
}

type fixPass struct {
	name string
	fn   func(string) (string, []string, error)
}

// AutoFix runs the ordered repair passes over a JSON candidate. Each pass is
// independent and idempotent; a pass that fails internally is skipped and its
// input flows through unchanged, so an overly aggressive repair can never
// crash the pipeline. Order matters: schema normalization assumes the earlier
// passes already produced syntactically valid JSON.
func AutoFix(candidate, typeHint string) FixResult {
	passes := []fixPass{
		{"sanitize-surrogates", sanitizeSurrogates},
		{"trailing-commas", removeTrailingCommas},
		{"duplicate-keys", removeDuplicateKeys},
		{"rebalance-brackets", rebalanceBrackets},
		{"missing-commas", insertMissingCommas},
		{"normalize-schema", func(s string) (string, []string, error) {
			return normalizeSchema(s, typeHint)
		}},
	}

	cur := candidate
	var warnings []string
	for _, p := range passes {
		out, warns, err := runPass(p, cur)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("%s pass failed: %v", p.name, err))
			continue
		}
		warnings = append(warnings, warns...)
		cur = out
	}

	if !json.Valid([]byte(cur)) {
		warnings = append(warnings, "payload is still invalid JSON after all repair passes")
	}
	return FixResult{Fixed: cur, WasFixed: cur != candidate, Warnings: warnings}
}

// runPass isolates a single pass so a panic inside it degrades to a warning
// with the input passed through unchanged.
func runPass(p fixPass, in string) (out string, warns []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			out, warns, err = in, nil, fmt.Errorf("%v", r)
		}
	}()
	return p.fn(in)
}

// sanitizeSurrogates strips lone UTF-16 surrogate halves that would break
// downstream JSON encoding: unpaired \uD800–\uDFFF escape sequences, and raw
// bytes that do not form valid UTF-8. Valid surrogate escape pairs are kept.
func sanitizeSurrogates(s string) (string, []string, error) {
	var b strings.Builder
	b.Grow(len(s))
	dropped := 0

	for i := 0; i < len(s); {
		if s[i] == '\\' && i+1 < len(s) {
			next := s[i+1]
			if next == '\\' {
				b.WriteString(s[i : i+2])
				i += 2
				continue
			}
			if next == 'u' && i+6 <= len(s) {
				if cp, ok := hexEscape(s[i : i+6]); ok {
					switch {
					case cp >= 0xD800 && cp <= 0xDBFF:
						// high surrogate: keep only when a low surrogate follows
						if i+12 <= len(s) && s[i+6] == '\\' && s[i+7] == 'u' {
							if lo, lok := hexEscape(s[i+6 : i+12]); lok && lo >= 0xDC00 && lo <= 0xDFFF {
								b.WriteString(s[i : i+12])
								i += 12
								continue
							}
						}
						dropped++
						i += 6
						continue
					case cp >= 0xDC00 && cp <= 0xDFFF:
						// low surrogate with no preceding high
						dropped++
						i += 6
						continue
					}
					b.WriteString(s[i : i+6])
					i += 6
					continue
				}
			}
		}

		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size == 1 {
			dropped++
			i++
			continue
		}
		b.WriteString(s[i : i+size])
		i += size
	}

	if dropped == 0 {
		return s, nil, nil
	}
	return b.String(), []string{fmt.Sprintf("removed %d lone surrogate character(s)", dropped)}, nil
}

func hexEscape(esc string) (int, bool) {
	if len(esc) != 6 || esc[0] != '\\' || (esc[1] != 'u' && esc[1] != 'U') {
		return 0, false
	}
	cp := 0
	for _, c := range esc[2:] {
		cp <<= 4
		switch {
		case c >= '0' && c <= '9':
			cp |= int(c - '0')
		case c >= 'a' && c <= 'f':
			cp |= int(c-'a') + 10
		case c >= 'A' && c <= 'F':
			cp |= int(c-'A') + 10
		default:
			return 0, false
		}
	}
	return cp, true
}

// removeTrailingCommas drops commas that directly precede a closing brace or
// bracket, outside string literals.
func removeTrailingCommas(s string) (string, []string, error) {
	var b strings.Builder
	b.Grow(len(s))
	var inString, escape bool
	removed := 0

	for i := 0; i < len(s); i++ {
		c := s[i]
		if escape {
			escape = false
			b.WriteByte(c)
			continue
		}
		if inString {
			switch c {
			case '\\':
				escape = true
			case '"':
				inString = false
			}
			b.WriteByte(c)
			continue
		}
		if c == '"' {
			inString = true
			b.WriteByte(c)
			continue
		}
		if c == ',' {
			j := i + 1
			for j < len(s) && isSpaceByte(s[j]) {
				j++
			}
			if j < len(s) && (s[j] == '}' || s[j] == ']') {
				removed++
				continue // drop the comma, keep the whitespace
			}
		}
		b.WriteByte(c)
	}

	if removed == 0 {
		return s, nil, nil
	}
	return b.String(), []string{fmt.Sprintf("removed %d trailing comma(s)", removed)}, nil
}

// removeDuplicateKeys drops all but the last occurrence of a key repeated at
// the same object nesting level. JSON semantics already make the last key win,
// but strict parsers reject duplicates outright. The pass runs a small
// structural scan; when the candidate is too malformed to walk, it bails out
// and returns the input untouched; the bracket passes run later.
func removeDuplicateKeys(s string) (string, []string, error) {
	w := dupWalker{text: s}
	i := w.skipSpace(0)
	if i >= len(s) || s[i] != '{' {
		return s, nil, nil
	}
	if _, ok := w.walkValue(i); !ok || len(w.drops) == 0 {
		return s, nil, nil
	}

	// Nested objects are walked before their enclosing one finishes, so drops
	// arrive nested-first. The rebuild below needs them in text order.
	sort.Slice(w.drops, func(a, b int) bool { return w.drops[a].Start < w.drops[b].Start })

	var b strings.Builder
	b.Grow(len(s))
	pos := 0
	for _, d := range w.drops {
		if d.Start < pos {
			continue
		}
		b.WriteString(s[pos:d.Start])
		pos = d.End
	}
	b.WriteString(s[pos:])

	warns := make([]string, 0, len(w.dupKeys))
	for _, k := range w.dupKeys {
		warns = append(warns, fmt.Sprintf("removed duplicate key %q (kept the last occurrence)", k))
	}
	return b.String(), warns, nil
}

type dupWalker struct {
	text    string
	drops   []Range
	dupKeys []string
}

func (w *dupWalker) skipSpace(i int) int {
	for i < len(w.text) && isSpaceByte(w.text[i]) {
		i++
	}
	return i
}

// walkValue returns the index just past the value starting at i.
func (w *dupWalker) walkValue(i int) (int, bool) {
	i = w.skipSpace(i)
	if i >= len(w.text) {
		return i, false
	}
	switch w.text[i] {
	case '{':
		return w.walkObject(i)
	case '[':
		return w.walkArray(i)
	case '"':
		return w.walkString(i)
	default:
		for i < len(w.text) {
			c := w.text[i]
			if c == ',' || c == '}' || c == ']' || isSpaceByte(c) {
				break
			}
			i++
		}
		return i, true
	}
}

func (w *dupWalker) walkString(i int) (int, bool) {
	i++ // opening quote
	for i < len(w.text) {
		switch w.text[i] {
		case '\\':
			i += 2
			continue
		case '"':
			return i + 1, true
		}
		i++
	}
	return i, false
}

func (w *dupWalker) walkArray(i int) (int, bool) {
	i++ // '['
	for {
		i = w.skipSpace(i)
		if i >= len(w.text) {
			return i, false
		}
		if w.text[i] == ']' {
			return i + 1, true
		}
		var ok bool
		if i, ok = w.walkValue(i); !ok {
			return i, false
		}
		i = w.skipSpace(i)
		if i < len(w.text) && w.text[i] == ',' {
			i++
		}
	}
}

type objMember struct {
	key   string
	start int
	end   int // past the trailing comma when present
}

func (w *dupWalker) walkObject(i int) (int, bool) {
	i++ // '{'
	var members []objMember
	for {
		i = w.skipSpace(i)
		if i >= len(w.text) {
			return i, false
		}
		if w.text[i] == '}' {
			i++
			break
		}
		start := i
		if w.text[i] != '"' {
			return i, false
		}
		keyEnd, ok := w.walkString(i)
		if !ok {
			return keyEnd, false
		}
		key := w.text[i+1 : keyEnd-1]
		i = w.skipSpace(keyEnd)
		if i >= len(w.text) || w.text[i] != ':' {
			return i, false
		}
		if i, ok = w.walkValue(i + 1); !ok {
			return i, false
		}
		end := i
		j := w.skipSpace(i)
		if j < len(w.text) && w.text[j] == ',' {
			end = j + 1
			i = end
		}
		members = append(members, objMember{key, start, end})
	}

	seen := make(map[string]int, len(members))
	for _, m := range members {
		seen[m.key]++
	}
	for _, m := range members {
		if seen[m.key] > 1 {
			w.drops = append(w.drops, Range{m.start, m.end})
			seen[m.key]--
			if seen[m.key] == 1 {
				w.dupKeys = append(w.dupKeys, m.key)
			}
		}
	}
	return i, true
}

// rebalanceBrackets guarantees syntactic balance: stray closers are replaced
// with the closer matching the current stack top, missing closers are appended
// at the end, and a string left open at end-of-input is closed first so the
// appended closers land outside it.
func rebalanceBrackets(s string) (string, []string, error) {
	var b strings.Builder
	b.Grow(len(s) + 4)
	var stack []byte
	var inString, escape bool
	var warns []string

	for i := 0; i < len(s); i++ {
		c := s[i]
		if escape {
			escape = false
			b.WriteByte(c)
			continue
		}
		if inString {
			switch c {
			case '\\':
				escape = true
			case '"':
				inString = false
			}
			b.WriteByte(c)
			continue
		}
		switch c {
		case '"':
			inString = true
			b.WriteByte(c)
		case '{', '[':
			stack = append(stack, c)
			b.WriteByte(c)
		case '}', ']':
			if len(stack) == 0 {
				warns = append(warns, fmt.Sprintf("discarded stray %q", string(c)))
				continue
			}
			top := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			correct := closerFor(top)
			if correct != c {
				warns = append(warns, fmt.Sprintf("replaced mismatched %q with %q", string(c), string(correct)))
			}
			b.WriteByte(correct)
		default:
			b.WriteByte(c)
		}
	}

	if inString {
		b.WriteByte('"')
		warns = append(warns, "closed unterminated string")
	}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		b.WriteByte(closerFor(top))
		warns = append(warns, fmt.Sprintf("appended missing %q", string(closerFor(top))))
	}

	out := b.String()
	if out == s {
		return s, nil, nil
	}
	return out, warns, nil
}

func closerFor(open byte) byte {
	if open == '[' {
		return ']'
	}
	return '}'
}

// insertMissingCommas inserts a comma between adjacent value boundaries: a
// closing '"', '}' or ']' followed directly by an opening '"', '{' or '[',
// outside string context and inside an enclosing container.
func insertMissingCommas(s string) (string, []string, error) {
	var b strings.Builder
	b.Grow(len(s) + 4)
	var inString, escape, boundary bool
	depth := 0
	inserted := 0

	for i := 0; i < len(s); i++ {
		c := s[i]
		if escape {
			escape = false
			b.WriteByte(c)
			continue
		}
		if inString {
			switch c {
			case '\\':
				escape = true
			case '"':
				inString = false
				boundary = depth > 0
			}
			b.WriteByte(c)
			continue
		}
		switch c {
		case '"', '{', '[':
			if boundary {
				b.WriteByte(',')
				inserted++
			}
			boundary = false
			if c == '"' {
				inString = true
			} else {
				depth++
			}
			b.WriteByte(c)
		case '}', ']':
			if depth > 0 {
				depth--
			}
			boundary = depth > 0
			b.WriteByte(c)
		default:
			if !isSpaceByte(c) {
				boundary = false
			}
			b.WriteByte(c)
		}
	}

	if inserted == 0 {
		return s, nil, nil
	}
	return b.String(), []string{fmt.Sprintf("inserted %d missing comma(s)", inserted)}, nil
}

// normalizeSchema rewrites a now-parseable payload into the canonical command
// shape: direct line/bar/scatter types become {type:"chart",chartType:...},
// tables get headers/rows guaranteed (with a columns→headers rename), charts
// get chartType and data defaults. Requires valid JSON; otherwise the payload
// flows through for the caller to classify.
func normalizeSchema(s, typeHint string) (string, []string, error) {
	if !gjson.Valid(s) {
		return s, nil, nil
	}
	root := gjson.Parse(s)
	if !root.IsObject() {
		return s, nil, nil
	}

	var warns []string
	set := func(path string, value any, note string) {
		out, err := sjson.Set(s, path, value)
		if err != nil {
			return
		}
		s = out
		warns = append(warns, note)
	}

	typ := strings.ToLower(gjson.Get(s, "type").String())
	hint := strings.ToLower(typeHint)

	if typ == "line" || typ == "bar" || typ == "scatter" {
		set("type", "chart", fmt.Sprintf("rewrote type %q to chart/chartType", typ))
		if !gjson.Get(s, "chartType").Exists() {
			s, _ = sjson.Set(s, "chartType", typ)
		}
	}

	// A payload with no type field is routed by the marker tag at decode
	// time; the tag still decides which shape defaults apply here.
	effective := strings.ToLower(gjson.Get(s, "type").String())
	if effective == "" {
		effective = canonicalType(hint)
	}

	switch effective {
	case "table":
		if cols := gjson.Get(s, "columns"); cols.Exists() && !gjson.Get(s, "headers").Exists() {
			if out, err := sjson.SetRaw(s, "headers", cols.Raw); err == nil {
				s = out
				s, _ = sjson.Delete(s, "columns")
				warns = append(warns, "renamed columns to headers")
			}
		}
		if !gjson.Get(s, "headers").Exists() {
			set("headers", []string{}, "added missing headers array")
		}
		if !gjson.Get(s, "rows").Exists() {
			set("rows", [][]string{}, "added missing rows array")
		}
	case "chart":
		if typ == "chart" && !gjson.Get(s, "chartType").Exists() {
			set("chartType", "bar", "defaulted chartType to bar")
		}
		if !gjson.Get(s, "data").Exists() {
			set("data", map[string]any{}, "added missing data object")
		}
	}

	return s, warns, nil
}

// canonicalType maps a marker type tag to its command kind: the line, bar,
// and scatter tags are aliases for chart.
func canonicalType(tag string) string {
	switch tag {
	case "line", "bar", "scatter":
		return "chart"
	}
	return tag
}
