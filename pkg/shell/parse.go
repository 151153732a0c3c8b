package shell

import "strings"

// quoteState tracks the three quote characters independently, the way a
// pipe scan needs them: an unmatched apostrophe inside double quotes still
// counts as open.
type quoteState struct {
	double, single, backtick bool
}

func (q *quoteState) toggle(c byte) {
	switch c {
	case '"':
		q.double = !q.double
	case '\'':
		q.single = !q.single
	case '`':
		q.backtick = !q.backtick
	}
}

func (q quoteState) open() bool {
	return q.double || q.single || q.backtick
}

// splitSegments splits raw on unquoted '|' without trimming.
func splitSegments(raw string) []string {
	var segments []string
	var q quoteState
	start := 0
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		if c == '|' && !q.open() {
			segments = append(segments, raw[start:i])
			start = i + 1
			continue
		}
		q.toggle(c)
	}
	return append(segments, raw[start:])
}

// SplitPipes splits raw input into the head command and its pipe stages.
// A '|' inside any open quote is literal content.
func SplitPipes(raw string) (head string, pipes []string) {
	segments := splitSegments(raw)
	for i := range segments {
		segments[i] = strings.TrimSpace(segments[i])
	}
	return segments[0], segments[1:]
}

// Tokenize splits text on unquoted whitespace. A quoted substring is part
// of a single token and loses its quotes; inside one quote kind the other
// quote characters are literal.
func Tokenize(text string) []string {
	var tokens []string
	var cur strings.Builder
	var quote byte
	inToken := false

	for i := 0; i < len(text); i++ {
		c := text[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
				continue
			}
			cur.WriteByte(c)
		case c == '"' || c == '\'' || c == '`':
			quote = c
			inToken = true
		case c == ' ' || c == '\t' || c == '\n':
			if inToken {
				tokens = append(tokens, cur.String())
				cur.Reset()
				inToken = false
			}
		default:
			cur.WriteByte(c)
			inToken = true
		}
	}
	if inToken {
		tokens = append(tokens, cur.String())
	}
	return tokens
}
