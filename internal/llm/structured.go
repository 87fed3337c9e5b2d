package llm

import (
	"encoding/json"
	"fmt"
	"strings"
)

// SchemaValidator checks a decoded payload. A non-nil error rejects it.
type SchemaValidator[T any] func(T) error

// ExtractJSON decodes the first JSON object in raw model output into T.
// Small models wrap their answer in prose or a ``` fence, and sometimes emit
// comments, trailing commas or numbers like .8; those are repaired first.
func ExtractJSON[T any](raw string, validator SchemaValidator[T]) (T, error) {
	var zero T

	block := firstObject(unfence(raw))
	if block == "" {
		return zero, fmt.Errorf("%w: no JSON object found in response", ErrInvalidOutput)
	}

	var result T
	if err := json.Unmarshal([]byte(repairJSON(block)), &result); err != nil {
		return zero, fmt.Errorf("%w: %v", ErrInvalidOutput, err)
	}
	if validator != nil {
		if err := validator(result); err != nil {
			return zero, fmt.Errorf("%w: validation failed: %v", ErrInvalidOutput, err)
		}
	}
	return result, nil
}

// AcceptJSON turns a validator into a GenerateRequest.Accept hook, so an
// unusable answer moves the client on to the next endpoint and model.
func AcceptJSON[T any](validator SchemaValidator[T]) func(string) error {
	return func(text string) error {
		_, err := ExtractJSON(text, validator)
		return err
	}
}

// unfence returns the body of the first ``` fence that holds a '{', or s
// unchanged when there is none.
func unfence(s string) string {
	const fence = "```"
	rest := s
	for {
		open := strings.Index(rest, fence)
		if open < 0 {
			return s
		}
		body := rest[open+len(fence):]
		// Skip the info string, e.g. ```json.
		if nl := strings.IndexByte(body, '\n'); nl >= 0 {
			body = body[nl+1:]
		}
		end := strings.Index(body, fence)
		if end < 0 {
			return body
		}
		if strings.Contains(body[:end], "{") {
			return body[:end]
		}
		rest = body[end+len(fence):]
	}
}

// lexer tracks whether a byte sits inside a JSON string literal.
type lexer struct {
	inString bool
	escaped  bool
}

// literal consumes c and reports whether it belongs to a string literal,
// quotes included.
func (l *lexer) literal(c byte) bool {
	switch {
	case l.escaped:
		l.escaped = false
		return true
	case l.inString && c == '\\':
		l.escaped = true
		return true
	case c == '"':
		l.inString = !l.inString
		return true
	}
	return l.inString
}

// firstObject returns the first balanced {...} block, or "".
func firstObject(s string) string {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return ""
	}
	var lx lexer
	depth := 0
	for i := start; i < len(s); i++ {
		if lx.literal(s[i]) {
			continue
		}
		switch s[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}
	return ""
}

// repairJSON rewrites the common model mistakes outside string literals in
// one pass: comments are dropped, ".8" becomes "0.8" and a comma directly
// before a closing bracket is removed.
func repairJSON(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 8)
	var lx lexer

	for i := 0; i < len(s); i++ {
		c := s[i]
		if lx.literal(c) {
			b.WriteByte(c)
			continue
		}

		switch {
		case c == '/' && i+1 < len(s) && s[i+1] == '/':
			for i+1 < len(s) && s[i+1] != '\n' {
				i++
			}
			continue
		case c == '/' && i+1 < len(s) && s[i+1] == '*':
			end := strings.Index(s[i+2:], "*/")
			if end < 0 {
				return b.String()
			}
			i += end + 3
			continue
		case c == ',':
			if next := nextSignificant(s, i+1); next == '}' || next == ']' {
				continue
			}
		case c == '.' && i+1 < len(s) && isDigit(s[i+1]) && startsNumber(lastSignificant(b.String())):
			b.WriteByte('0')
		}
		b.WriteByte(c)
	}
	return b.String()
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\n' || c == '\r' || c == '\t'
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// startsNumber reports whether a number may begin right after c.
func startsNumber(c byte) bool {
	switch c {
	case 0, ':', ',', '[', '{', '-':
		return true
	}
	return false
}

func lastSignificant(s string) byte {
	for i := len(s) - 1; i >= 0; i-- {
		if !isSpace(s[i]) {
			return s[i]
		}
	}
	return 0
}

// nextSignificant skips whitespace and comments.
func nextSignificant(s string, i int) byte {
	for i < len(s) {
		switch {
		case isSpace(s[i]):
			i++
		case strings.HasPrefix(s[i:], "//"):
			nl := strings.IndexByte(s[i:], '\n')
			if nl < 0 {
				return 0
			}
			i += nl + 1
		case strings.HasPrefix(s[i:], "/*"):
			end := strings.Index(s[i+2:], "*/")
			if end < 0 {
				return 0
			}
			i += end + 4
		default:
			return s[i]
		}
	}
	return 0
}
