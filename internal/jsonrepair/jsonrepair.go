// Package jsonrepair recovers JSON from model output that is almost, but not
// quite, valid: wrapped in prose or markdown fences, carrying comments and
// trailing commas, written with Python-style quoting, or cut off mid-stream.
//
// Repair tries a fixed chain of strategies and stops at the first candidate
// that parses. The cleanup, quotes and balance strategies build on each
// other, so a later strategy sees the output of the earlier ones.
package jsonrepair

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
)

// Strategy names the step of the chain that produced valid JSON.
type Strategy string

const (
	StrategyDirect  Strategy = "direct"
	StrategyExtract Strategy = "extract"
	StrategyCleanup Strategy = "cleanup"
	StrategyQuotes  Strategy = "quotes"
	StrategyBalance Strategy = "balance"
)

var ErrUnrecoverable = errors.New("jsonrepair: no strategy produced valid JSON")

// Strategies lists the chain in the order Repair applies it.
var Strategies = []Strategy{StrategyDirect, StrategyExtract, StrategyCleanup, StrategyQuotes, StrategyBalance}

// Repair returns valid JSON recovered from input and the strategy that
// produced it.
func Repair(input []byte) ([]byte, Strategy, error) {
	trimmed := bytes.TrimSpace(input)
	if len(trimmed) == 0 {
		return nil, "", ErrUnrecoverable
	}
	if json.Valid(trimmed) {
		return trimmed, StrategyDirect, nil
	}

	candidate := extract(string(trimmed))
	if json.Valid([]byte(candidate)) {
		return []byte(candidate), StrategyExtract, nil
	}

	candidate = removeTrailingCommas(removeComments(candidate))
	if json.Valid([]byte(candidate)) {
		return []byte(candidate), StrategyCleanup, nil
	}

	candidate = removeTrailingCommas(fixQuotes(candidate))
	if json.Valid([]byte(candidate)) {
		return []byte(candidate), StrategyQuotes, nil
	}

	candidate = balance(candidate)
	if json.Valid([]byte(candidate)) {
		return []byte(candidate), StrategyBalance, nil
	}

	return nil, "", ErrUnrecoverable
}

// Unmarshal repairs input and decodes it into v.
func Unmarshal(input []byte, v any) (Strategy, error) {
	data, strategy, err := Repair(input)
	if err != nil {
		return "", err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return strategy, err
	}
	return strategy, nil
}

// extract strips markdown fences and narrows s to the first JSON object or
// array. An unclosed value runs to the end of s.
func extract(s string) string {
	s = stripFences(s)

	start := strings.IndexAny(s, "{[")
	if start < 0 {
		return strings.TrimSpace(s)
	}

	var (
		depth int
		quote byte
		esc   bool
	)
	for i := start; i < len(s); i++ {
		c := s[i]
		if quote != 0 {
			switch {
			case esc:
				esc = false
			case c == '\\':
				esc = true
			case c == quote:
				quote = 0
			}
			continue
		}
		switch c {
		case '"', '\'':
			quote = c
		case '{', '[':
			depth++
		case '}', ']':
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}
	return strings.TrimSpace(s[start:])
}

func stripFences(s string) string {
	open := strings.Index(s, "```")
	if open < 0 {
		return s
	}
	body := s[open+3:]
	// Drop the info string, e.g. ```json
	if nl := strings.IndexByte(body, '\n'); nl >= 0 {
		body = body[nl+1:]
	} else {
		body = strings.TrimPrefix(body, "json")
	}
	if end := strings.Index(body, "```"); end >= 0 {
		body = body[:end]
	}
	return strings.TrimSpace(body)
}

// scanner walks JSON-ish text and tracks whether the cursor is inside a
// quoted string, so rewrites only touch structural text.
type scanner struct {
	out   strings.Builder
	quote byte
	esc   bool
}

// inString feeds c to the string state machine and reports whether c was
// consumed as part of a string.
func (sc *scanner) inString(c byte) bool {
	if sc.quote == 0 {
		return false
	}
	switch {
	case sc.esc:
		sc.esc = false
	case c == '\\':
		sc.esc = true
	case c == sc.quote:
		sc.quote = 0
	}
	sc.out.WriteByte(c)
	return true
}

func removeComments(s string) string {
	sc := &scanner{}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if sc.inString(c) {
			continue
		}
		if c == '"' || c == '\'' {
			sc.quote = c
			sc.out.WriteByte(c)
			continue
		}
		if c == '/' && i+1 < len(s) {
			switch s[i+1] {
			case '/':
				for i < len(s) && s[i] != '\n' {
					i++
				}
				if i < len(s) {
					sc.out.WriteByte('\n')
				}
				continue
			case '*':
				end := strings.Index(s[i+2:], "*/")
				if end < 0 {
					i = len(s)
				} else {
					i += end + 3
				}
				continue
			}
		}
		sc.out.WriteByte(c)
	}
	return sc.out.String()
}

func removeTrailingCommas(s string) string {
	sc := &scanner{}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if sc.inString(c) {
			continue
		}
		if c == '"' || c == '\'' {
			sc.quote = c
			sc.out.WriteByte(c)
			continue
		}
		if c == ',' {
			j := i + 1
			for j < len(s) && isSpace(s[j]) {
				j++
			}
			if j < len(s) && (s[j] == '}' || s[j] == ']') {
				continue
			}
		}
		sc.out.WriteByte(c)
	}
	return sc.out.String()
}

// fixQuotes rewrites single-quoted strings as double-quoted ones, quotes
// bare object keys and maps Python literals onto JSON ones.
func fixQuotes(s string) string {
	var out strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '"':
			j := skipString(s, i, '"')
			out.WriteString(s[i:j])
			i = j - 1
		case c == '\'':
			j := i + 1
			out.WriteByte('"')
			for ; j < len(s); j++ {
				d := s[j]
				if d == '\\' && j+1 < len(s) {
					if s[j+1] == '\'' {
						out.WriteByte('\'')
					} else {
						out.WriteByte('\\')
						out.WriteByte(s[j+1])
					}
					j++
					continue
				}
				if d == '\'' {
					out.WriteByte('"')
					break
				}
				if d == '"' {
					out.WriteString(`\"`)
					continue
				}
				out.WriteByte(d)
			}
			i = j
		case isIdentStart(c):
			j := i
			for j < len(s) && isIdentPart(s[j]) {
				j++
			}
			word := s[i:j]
			k := j
			for k < len(s) && isSpace(s[k]) {
				k++
			}
			switch {
			case k < len(s) && s[k] == ':':
				out.WriteString(`"` + word + `"`)
			case word == "True":
				out.WriteString("true")
			case word == "False":
				out.WriteString("false")
			case word == "None":
				out.WriteString("null")
			default:
				out.WriteString(word)
			}
			i = j - 1
		default:
			out.WriteByte(c)
		}
	}
	return out.String()
}

// skipString returns the index just past the string that opens at s[i].
// An unterminated string runs to the end of s.
func skipString(s string, i int, quote byte) int {
	for j := i + 1; j < len(s); j++ {
		switch s[j] {
		case '\\':
			j++
		case quote:
			return j + 1
		}
	}
	return len(s)
}

// balance closes an unterminated string, completes a literal cut off at the
// end and appends the closers a truncated document is missing. A closer that
// skips over open containers closes them first; one with no opener is
// dropped.
func balance(s string) string {
	var (
		out      strings.Builder
		stack    []byte
		inString bool
		esc      bool
	)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case esc:
				esc = false
			case c == '\\':
				esc = true
			case c == '"':
				inString = false
			}
			out.WriteByte(c)
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			stack = append(stack, '}')
		case '[':
			stack = append(stack, ']')
		case '}', ']':
			j := bytes.LastIndexByte(stack, c)
			if j < 0 {
				continue
			}
			for k := len(stack) - 1; k > j; k-- {
				out.WriteByte(stack[k])
			}
			stack = stack[:j]
		}
		out.WriteByte(c)
	}

	text := out.String()
	if inString {
		if esc {
			text = text[:len(text)-1]
		}
		text += `"`
	} else {
		text = completeLiteral(strings.TrimRight(text, " \t\r\n"))
	}
	text = strings.TrimRight(text, " \t\r\n")
	switch {
	case strings.HasSuffix(text, ","):
		text = text[:len(text)-1]
	case strings.HasSuffix(text, ":"):
		text += "null"
	}
	for i := len(stack) - 1; i >= 0; i-- {
		text += string(stack[i])
	}
	return text
}

// completeLiteral finishes a true, false or null cut off at the end of s
// and drops any other trailing bare word.
func completeLiteral(s string) string {
	i := len(s)
	for i > 0 && s[i-1] >= 'a' && s[i-1] <= 'z' {
		i--
	}
	word := s[i:]
	if word == "" {
		return s
	}
	for _, lit := range []string{"true", "false", "null"} {
		if strings.HasPrefix(lit, word) {
			return s[:i] + lit
		}
	}
	return s[:i]
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isIdentStart(c byte) bool {
	return c == '_' || c == '$' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9') || c == '-'
}
