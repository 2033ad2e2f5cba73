package viz

import (
	"fmt"
	"regexp"
	"strings"
)

// TruncationResult classifies whether a payload looks cut off mid-stream as
// opposed to malformed-but-complete. It only picks the user-facing remedy
// message; parsing behavior never depends on it.
type TruncationResult struct {
	IsTruncated bool    `json:"isTruncated"`
	Confidence  float64 `json:"confidence"`
	Reason      string  `json:"reason,omitempty"`
}

var (
	danglingColonRe = regexp.MustCompile(`:\s*\[?\s*$`)
	openArrayObjRe  = regexp.MustCompile(`\[\s*\{[^}\]]*$`)
)

// DetectTruncation applies confidence-ranked heuristics, most distinctive
// first, and returns the first match.
func DetectTruncation(candidate string) TruncationResult {
	trimmed := strings.TrimRight(candidate, " \t\r\n")
	if trimmed == "" {
		return TruncationResult{}
	}

	if strings.HasSuffix(trimmed, ",") {
		return TruncationResult{true, 0.9, "payload ends with a comma, cut off mid-list or mid-object"}
	}
	if danglingColonRe.MatchString(candidate) {
		return TruncationResult{true, 0.95, "property value missing after colon, cut off mid-value"}
	}
	if openArrayObjRe.MatchString(candidate) {
		return TruncationResult{true, 0.85, "array opens an object that never closes"}
	}
	if endsInsideString(trimmed) {
		return TruncationResult{true, 0.7, "payload ends inside a string literal"}
	}

	openBraces, closeBraces, openBrackets, closeBrackets := bracketCounts(trimmed)
	if (openBraces != closeBraces || openBrackets != closeBrackets) && len(trimmed) > 50 {
		return TruncationResult{true, 0.8, fmt.Sprintf(
			"unbalanced brackets: %d '{' vs %d '}', %d '[' vs %d ']'",
			openBraces, closeBraces, openBrackets, closeBrackets)}
	}

	return TruncationResult{}
}

// endsInsideString reports whether a string-aware scan of s runs off the end
// while still inside a string literal.
func endsInsideString(s string) bool {
	var inString, escape bool
	for i := 0; i < len(s); i++ {
		if escape {
			escape = false
			continue
		}
		if inString {
			switch s[i] {
			case '\\':
				escape = true
			case '"':
				inString = false
			}
			continue
		}
		if s[i] == '"' {
			inString = true
		}
	}
	return inString
}

// bracketCounts counts braces and brackets outside string literals.
func bracketCounts(s string) (openBraces, closeBraces, openBrackets, closeBrackets int) {
	var inString, escape bool
	for i := 0; i < len(s); i++ {
		c := s[i]
		if escape {
			escape = false
			continue
		}
		if inString {
			switch c {
			case '\\':
				escape = true
			case '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			openBraces++
		case '}':
			closeBraces++
		case '[':
			openBrackets++
		case ']':
			closeBrackets++
		}
	}
	return
}
