package viz

// payloadSpan delimits the JSON candidate found after a marker's '('.
type payloadSpan struct {
	JSONStart int  // offset of the opening '{' or '['
	JSONEnd   int  // exclusive end of the candidate JSON
	End       int  // offset just past the consumed span, including a trailing ')'
	Complete  bool // the root value closed before the text ran out
}

// balancePayload scans forward from the character after a marker's '(' and
// isolates the JSON payload by tracking brace and bracket depth with a
// string/escape state machine. Naive ')'-searching breaks both when the model
// forgets the trailing paren and when a ')' appears inside a string literal;
// depth balancing handles both.
//
// Termination, in priority order:
//  1. the root value closes and a literal ')' follows (the standard case);
//  2. the root value closes with no ')' (the model forgot the paren);
//  3. the text runs out first, the streaming/truncation case, reported with
//     Complete=false so the caller can attempt a best-effort repair.
//
// Returns ok=false when the first non-whitespace character is neither '{'
// nor '[': there is no plausible payload at this position.
func balancePayload(text string, from int) (payloadSpan, bool) {
	i := from
	for i < len(text) && isSpaceByte(text[i]) {
		i++
	}
	if i >= len(text) || (text[i] != '{' && text[i] != '[') {
		return payloadSpan{}, false
	}
	jsonStart := i

	var braces, brackets int
	var inString, escape, opened bool
	for ; i < len(text); i++ {
		c := text[i]
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
			braces++
			opened = true
		case '[':
			brackets++
			opened = true
		case '}':
			if braces > 0 {
				braces--
			}
		case ']':
			if brackets > 0 {
				brackets--
			}
		}
		if opened && braces == 0 && brackets == 0 {
			jsonEnd := i + 1
			j := jsonEnd
			for j < len(text) && isSpaceByte(text[j]) {
				j++
			}
			if j < len(text) && text[j] == ')' {
				return payloadSpan{jsonStart, jsonEnd, j + 1, true}, true
			}
			return payloadSpan{jsonStart, jsonEnd, jsonEnd, true}, true
		}
	}

	return payloadSpan{jsonStart, len(text), len(text), false}, true
}

func isSpaceByte(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}
