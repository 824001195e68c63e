// Package scan provides string-literal and bracket aware searching over
// TypeScript declaration listings and compiled JavaScript. Searches skip
// quoted regions and jump bracketed regions, so callers only ever see
// matches at the nesting level they started from.
package scan

import (
	"fmt"
	"strings"
)

// DelimiterError reports an opening bracket that is never closed.
type DelimiterError struct {
	Bracket byte
	Line    int
}

func (e *DelimiterError) Error() string {
	return fmt.Sprintf("mismatched delimiter %q on line %d", e.Bracket, e.Line)
}

// Index returns the offset of the first occurrence of pattern at or after
// from. Occurrences inside string literals or bracket regions are ignored.
// It returns -1 if pattern does not occur before the end of text.
func Index(text, pattern string, from int) (int, error) {
	if pattern == "" || from < 0 {
		return -1, nil
	}
	var quote byte
	for i := from; i < len(text); i++ {
		ch := text[i]
		if quote != 0 {
			if ch == quote && text[i-1] != '\\' {
				quote = 0
			}
			continue
		}
		if strings.HasPrefix(text[i:], pattern) {
			return i, nil
		}
		if isOpenBracket(ch) {
			end, err := FindClosing(text, i)
			if err != nil {
				return -1, err
			}
			i = end
			continue
		}
		if isQuote(ch) {
			quote = ch
		}
	}
	return -1, nil
}

// IndexAny returns the offset and value of the first occurrence of any byte
// in chars at or after from, with the same skipping rules as Index. It
// returns -1 and a zero byte if none occurs.
func IndexAny(text, chars string, from int) (int, byte, error) {
	if chars == "" || from < 0 {
		return -1, 0, nil
	}
	var quote byte
	for i := from; i < len(text); i++ {
		ch := text[i]
		if quote != 0 {
			if ch == quote && text[i-1] != '\\' {
				quote = 0
			}
			continue
		}
		if strings.IndexByte(chars, ch) >= 0 {
			return i, ch, nil
		}
		if isOpenBracket(ch) {
			end, err := FindClosing(text, i)
			if err != nil {
				return -1, 0, err
			}
			i = end
			continue
		}
		if isQuote(ch) {
			quote = ch
		}
	}
	return -1, 0, nil
}

// FindClosing returns the offset of the closing bracket matching the opening
// bracket at open. Nested brackets of the same kind are counted, brackets
// inside string literals are not. An unclosed bracket yields a
// *DelimiterError carrying the line of the opening bracket.
func FindClosing(text string, open int) (int, error) {
	if open < 0 || open >= len(text) {
		return -1, fmt.Errorf("find closing: offset %d out of range", open)
	}
	openCh := text[open]
	closeCh := closingFor(openCh)
	if closeCh == 0 {
		return -1, fmt.Errorf("find closing: %q is not an opening bracket", openCh)
	}
	depth := 1
	var quote byte
	for i := open + 1; i < len(text); i++ {
		ch := text[i]
		if quote != 0 {
			if ch == quote && text[i-1] != '\\' {
				quote = 0
			}
			continue
		}
		switch ch {
		case openCh:
			depth++
		case closeCh:
			depth--
			if depth == 0 {
				return i, nil
			}
		default:
			if isQuote(ch) {
				quote = ch
			}
		}
	}
	return -1, &DelimiterError{Bracket: openCh, Line: Line(text, open)}
}

// Split divides text on occurrences of sep outside string literals and
// bracket regions. The result always has at least one chunk and the final
// chunk extends to the end of text.
func Split(text, sep string) ([]string, error) {
	var chunks []string
	from := 0
	for {
		i, err := Index(text, sep, from)
		if err != nil {
			return nil, err
		}
		if i < 0 {
			chunks = append(chunks, text[from:])
			return chunks, nil
		}
		chunks = append(chunks, text[from:i])
		from = i + len(sep)
	}
}

// SplitTrim is Split with surrounding whitespace removed from every chunk.
func SplitTrim(text, sep string) ([]string, error) {
	chunks, err := Split(text, sep)
	if err != nil {
		return nil, err
	}
	for i, c := range chunks {
		chunks[i] = strings.TrimSpace(c)
	}
	return chunks, nil
}

// Line returns the 1-based line number of offset in text.
func Line(text string, offset int) int {
	if offset > len(text) {
		offset = len(text)
	}
	if offset < 0 {
		offset = 0
	}
	return 1 + strings.Count(text[:offset], "\n")
}

// SkipSpace returns the offset of the first non-whitespace byte at or after
// from, or len(text) if none remains.
func SkipSpace(text string, from int) int {
	if from < 0 {
		from = 0
	}
	for from < len(text) {
		switch text[from] {
		case ' ', '\t', '\r', '\n':
			from++
		default:
			return from
		}
	}
	return from
}

func closingFor(open byte) byte {
	switch open {
	case '{':
		return '}'
	case '[':
		return ']'
	case '(':
		return ')'
	case '<':
		return '>'
	}
	return 0
}

func isOpenBracket(ch byte) bool {
	return closingFor(ch) != 0
}

func isQuote(ch byte) bool {
	return ch == '\'' || ch == '"' || ch == '`'
}
