package viz

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/tidwall/gjson"
)

// Parse recovers visualization commands from text. It never fails as a whole:
// every marker yields either a command or an inline ParseError, markdown pipe
// tables outside claimed spans are converted as a fallback, and the remainder
// is returned as prose segments. Safe to call repeatedly over a growing
// buffer while a response is still streaming.
func Parse(text string) Result {
	var spans []resolvedSpan
	var covered []Range

	for _, m := range ScanMarkers(text) {
		if inRanges(covered, m.Start) {
			continue
		}
		sp, resolved := resolveMarker(text, m)
		if resolved {
			spans = append(spans, sp)
			covered = append(covered, Range{sp.Start, sp.End})
		}
	}

	for _, tm := range DetectMarkdownTables(text, covered) {
		spans = append(spans, resolvedSpan{
			Start:     tm.Start,
			End:       tm.End,
			Command:   tm.Command,
			AutoFixed: true,
			FixNotes:  []string{"converted a markdown table into a table visualization"},
		})
	}

	sort.Slice(spans, func(i, j int) bool { return spans[i].Start < spans[j].Start })

	res := Result{Segments: splitSegments(text, spans)}
	for _, s := range res.Segments {
		switch s.Type {
		case SegmentViz:
			res.Commands = append(res.Commands, s.Command)
		case SegmentError:
			res.Errors = append(res.Errors, *s.Err)
		}
	}
	return res
}

// resolveMarker turns one marker into a command span or an error span.
func resolveMarker(text string, m Marker) (resolvedSpan, bool) {
	sp, ok := balancePayload(text, m.OpenParen)
	if !ok {
		return resolvedSpan{
			Start: m.Start,
			End:   m.OpenParen,
			Err: &ParseError{
				Start:   m.Start,
				End:     m.OpenParen,
				Type:    m.TypeTag,
				Message: "no JSON payload found after the marker",
				Hint:    "the payload must start with {; check for a missing closing parenthesis",
			},
		}, true
	}

	candidate := text[sp.JSONStart:sp.JSONEnd]
	fix := AutoFix(candidate, m.TypeTag)
	cmd, decodeErr := decodeCommand(fix.Fixed, m.TypeTag)
	if decodeErr == nil {
		return resolvedSpan{
			Start:     m.Start,
			End:       sp.End,
			Command:   cmd,
			AutoFixed: fix.WasFixed,
			FixNotes:  fix.Warnings,
		}, true
	}

	perr := &ParseError{
		Start:   m.Start,
		End:     sp.End,
		Type:    m.TypeTag,
		Message: decodeErr.message,
		Hint:    hintFor(m.TypeTag, decodeErr.shape),
	}
	if !decodeErr.shape {
		if trunc := DetectTruncation(candidate); trunc.Confidence > 0.7 {
			perr.TruncationDetected = true
			perr.Hint = "the response looks cut off; ask the model to regenerate with fewer visualizations or a shorter answer"
			if trunc.Reason != "" {
				perr.Message = fmt.Sprintf("%s (%s)", decodeErr.message, trunc.Reason)
			}
		}
	}
	return resolvedSpan{Start: m.Start, End: sp.End, Err: perr}, true
}

// commandError distinguishes syntax failures (still-unparseable JSON) from
// shape failures (valid JSON violating the expected command schema).
type commandError struct {
	message string
	shape   bool
}

// decodeCommand turns a repaired JSON payload into a typed command. When the
// payload omits its type field, the marker's type tag routes the dispatch.
// line/bar/scatter tags are chart aliases.
func decodeCommand(payload, typeTag string) (Command, *commandError) {
	if !gjson.Valid(payload) {
		return nil, &commandError{message: "payload is not valid JSON even after auto-fixing"}
	}
	root := gjson.Parse(payload)
	if !root.IsObject() {
		return nil, &commandError{message: "expected a JSON object at the top level", shape: true}
	}

	tag := strings.ToLower(typeTag)
	typ := strings.ToLower(root.Get("type").String())
	defaultChartType := "bar"
	if typ == "" {
		typ = canonicalType(tag)
		if typ == "chart" && tag != "chart" {
			defaultChartType = tag
		}
	}

	switch typ {
	case "chart":
		var p struct {
			ChartType string         `json:"chartType"`
			Data      ChartData      `json:"data"`
			Options   map[string]any `json:"options"`
		}
		if err := json.Unmarshal([]byte(payload), &p); err != nil {
			return nil, &commandError{message: fmt.Sprintf("chart payload has the wrong shape: %v", err), shape: true}
		}
		if p.ChartType == "" {
			p.ChartType = defaultChartType
		}
		return ChartCommand{ChartType: p.ChartType, Data: p.Data, Options: p.Options}, nil

	case "table":
		var p struct {
			Headers []any   `json:"headers"`
			Rows    [][]any `json:"rows"`
		}
		if err := json.Unmarshal([]byte(payload), &p); err != nil {
			return nil, &commandError{message: fmt.Sprintf("table payload has the wrong shape: %v", err), shape: true}
		}
		cmd := TableCommand{Headers: make([]string, len(p.Headers))}
		for i, h := range p.Headers {
			cmd.Headers[i] = cellString(h)
		}
		for _, row := range p.Rows {
			cells := make([]string, len(row))
			for i, c := range row {
				cells[i] = cellString(c)
			}
			cmd.Rows = append(cmd.Rows, cells)
		}
		return cmd, nil

	case "pie":
		var p struct {
			Data    []PieSlice  `json:"data"`
			Options *PieOptions `json:"options"`
		}
		if err := json.Unmarshal([]byte(payload), &p); err != nil {
			return nil, &commandError{message: fmt.Sprintf("pie payload has the wrong shape: %v", err), shape: true}
		}
		return PieCommand{Data: p.Data, Options: p.Options}, nil

	case "":
		return nil, &commandError{message: "payload is missing its type field", shape: true}
	default:
		return nil, &commandError{message: fmt.Sprintf("unknown visualization type %q", typ), shape: true}
	}
}

func hintFor(typeTag string, shape bool) string {
	switch typeTag {
	case "table":
		return `tables need the shape {"headers":["..."],"rows":[["..."]]}`
	case "pie":
		return `pies need the shape {"data":[{"label":"...","value":1}]}`
	case "chart", "line", "bar", "scatter":
		return `charts need the shape {"data":{"labels":[...],"datasets":[{"label":"...","data":[...]}]}}`
	}
	if shape {
		return "the payload parsed as JSON but does not match any known visualization shape"
	}
	return "the visualization JSON could not be repaired; check for unbalanced brackets or quotes"
}
