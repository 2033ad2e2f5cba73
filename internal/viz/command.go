// Package viz recovers chart/table/pie visualization commands from the
// `![viz:type](...)` markup convention embedded in LLM-generated prose.
//
// The text producer is unreliable: payloads arrive truncated mid-stream,
// missing closing syntax, or with malformed JSON. Every entry point in this
// package is pure and total: failures become ParseError records, never Go
// errors or panics, so a single broken visualization cannot take down the
// rest of a message.
package viz

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Kind discriminates the visualization command variants.
type Kind string

const (
	KindChart Kind = "chart"
	KindTable Kind = "table"
	KindPie   Kind = "pie"
)

// Command is the recovered, typed visualization payload. Implementations are
// ChartCommand, TableCommand, and PieCommand; rendering dispatch switches on
// Kind() exhaustively instead of probing optional fields.
type Command interface {
	Kind() Kind
}

// Dataset is one series of a chart.
type Dataset struct {
	Label string    `json:"label,omitempty"`
	Data  []float64 `json:"data"`
}

// ChartData holds the axis labels and series of a chart.
type ChartData struct {
	Labels   []string  `json:"labels"`
	Datasets []Dataset `json:"datasets"`
}

// ChartCommand is a line/bar/scatter chart specification.
type ChartCommand struct {
	ChartType string
	Data      ChartData
	Options   map[string]any
}

// Kind implements Command.
func (ChartCommand) Kind() Kind { return KindChart }

// MarshalJSON emits the canonical {"type":"chart",...} wire shape.
func (c ChartCommand) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type      string         `json:"type"`
		ChartType string         `json:"chartType"`
		Data      ChartData      `json:"data"`
		Options   map[string]any `json:"options,omitempty"`
	}{"chart", c.ChartType, c.Data, c.Options})
}

// TableCommand is a headers/rows table specification.
type TableCommand struct {
	Headers []string
	Rows    [][]string
}

// Kind implements Command.
func (TableCommand) Kind() Kind { return KindTable }

// MarshalJSON emits the canonical {"type":"table",...} wire shape.
func (t TableCommand) MarshalJSON() ([]byte, error) {
	headers := t.Headers
	if headers == nil {
		headers = []string{}
	}
	rows := t.Rows
	if rows == nil {
		rows = [][]string{}
	}
	return json.Marshal(struct {
		Type    string     `json:"type"`
		Headers []string   `json:"headers"`
		Rows    [][]string `json:"rows"`
	}{"table", headers, rows})
}

// PieSlice is one labeled slice of a pie chart.
type PieSlice struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// PieOptions carries optional pie presentation settings.
type PieOptions struct {
	Title string `json:"title,omitempty"`
}

// PieCommand is a pie chart specification.
type PieCommand struct {
	Data    []PieSlice
	Options *PieOptions
}

// Kind implements Command.
func (PieCommand) Kind() Kind { return KindPie }

// MarshalJSON emits the canonical {"type":"pie",...} wire shape.
func (p PieCommand) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type    string      `json:"type"`
		Data    []PieSlice  `json:"data"`
		Options *PieOptions `json:"options,omitempty"`
	}{"pie", p.Data, p.Options})
}

// ParseError describes a visualization span that could not be recovered even
// after auto-fixing. It is surfaced inline in place of the broken markup.
type ParseError struct {
	Start              int    `json:"startIndex"`
	End                int    `json:"endIndex"`
	Type               string `json:"type"`
	Message            string `json:"error"`
	Hint               string `json:"hint"`
	TruncationDetected bool   `json:"truncationDetected,omitempty"`
}

// Inline renders the user-facing inline error block substituted at the
// failure site.
func (e *ParseError) Inline() string {
	return fmt.Sprintf("⚠️ %s error: %s\n💡 %s", e.Type, e.Message, e.Hint)
}

// SegmentType tags a rendered segment.
type SegmentType string

const (
	SegmentText  SegmentType = "text"
	SegmentViz   SegmentType = "viz"
	SegmentError SegmentType = "error"
)

// Segment is one renderable slice of a message: prose, a recovered
// visualization, or an inline error. Start/End reference the original text.
type Segment struct {
	Type      SegmentType
	Content   string
	Command   Command
	AutoFixed bool
	FixNotes  []string
	Err       *ParseError
	Start     int
	End       int
}

// MarshalJSON emits the discriminated segment shape the rendering layer consumes.
func (s Segment) MarshalJSON() ([]byte, error) {
	switch s.Type {
	case SegmentViz:
		return json.Marshal(struct {
			Type      SegmentType `json:"type"`
			Command   Command     `json:"command"`
			AutoFixed bool        `json:"autoFixed,omitempty"`
			FixNotes  []string    `json:"fixNotes,omitempty"`
		}{s.Type, s.Command, s.AutoFixed, s.FixNotes})
	case SegmentError:
		return json.Marshal(struct {
			Type  SegmentType `json:"type"`
			Error *ParseError `json:"error"`
		}{s.Type, s.Err})
	default:
		return json.Marshal(struct {
			Type    SegmentType `json:"type"`
			Content string      `json:"content"`
		}{SegmentText, s.Content})
	}
}

// Result is the outcome of parsing one message text.
type Result struct {
	Segments []Segment    `json:"segments"`
	Commands []Command    `json:"commands"`
	Errors   []ParseError `json:"errors"`
}

func cellString(v any) string {
	switch c := v.(type) {
	case string:
		return c
	case float64:
		return strconv.FormatFloat(c, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(c)
	case nil:
		return ""
	default:
		b, err := json.Marshal(c)
		if err != nil {
			return fmt.Sprintf("%v", c)
		}
		return string(b)
	}
}
