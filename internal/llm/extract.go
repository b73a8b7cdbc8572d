package llm

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// ExtractStatus classifies the outcome of extracting JSON from oracle output.
type ExtractStatus int

const (
	// JSONParsed means the payload was valid as-is (after fence stripping).
	JSONParsed ExtractStatus = iota
	// JSONRepaired means the payload was truncated and the repair
	// heuristic produced a valid document.
	JSONRepaired
	// JSONMalformed means no valid document could be recovered.
	JSONMalformed
)

// ExtractResult is the typed outcome of ExtractJSON.
type ExtractResult struct {
	Status ExtractStatus
	JSON   []byte
}

var fenceRe = regexp.MustCompile("```json\\s*|\\s*```")

// ExtractJSON turns raw model output into a valid JSON document.
// Markdown code fences are stripped first. If the remainder is invalid,
// it is assumed to be truncated at the token limit: the text is cut at
// the last well-formed closing brace and any brackets still open are
// closed. The repair is heuristic; when it fails the result is
// JSONMalformed with a non-nil error.
func ExtractJSON(raw string) (ExtractResult, error) {
	cleaned := strings.TrimSpace(fenceRe.ReplaceAllString(raw, ""))
	if cleaned == "" {
		return ExtractResult{Status: JSONMalformed}, fmt.Errorf("empty model output")
	}

	if json.Valid([]byte(cleaned)) {
		return ExtractResult{Status: JSONParsed, JSON: []byte(cleaned)}, nil
	}

	idx := strings.LastIndexByte(cleaned, '}')
	if idx < 0 {
		return ExtractResult{Status: JSONMalformed}, fmt.Errorf("model output contains no closing brace: %s", snippet(cleaned))
	}

	cut := cleaned[:idx+1]
	closers, ok := danglingClosers(cut)
	if !ok {
		return ExtractResult{Status: JSONMalformed}, fmt.Errorf("model output is not repairable: %s", snippet(cleaned))
	}

	repaired := cut + closers
	if !json.Valid([]byte(repaired)) {
		return ExtractResult{Status: JSONMalformed}, fmt.Errorf("repaired model output is still invalid JSON: %s", snippet(cleaned))
	}
	return ExtractResult{Status: JSONRepaired, JSON: []byte(repaired)}, nil
}

// danglingClosers scans s outside string literals and returns the closing
// brackets needed to balance it, innermost first. ok is false when the
// input closes a bracket it never opened.
func danglingClosers(s string) (string, bool) {
	var stack []byte
	inString := false
	escaped := false

	for i := 0; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{', '[':
			stack = append(stack, c)
		case '}', ']':
			if len(stack) == 0 {
				return "", false
			}
			open := stack[len(stack)-1]
			if (c == '}' && open != '{') || (c == ']' && open != '[') {
				return "", false
			}
			stack = stack[:len(stack)-1]
		}
	}
	if inString {
		return "", false
	}

	var b strings.Builder
	for i := len(stack) - 1; i >= 0; i-- {
		if stack[i] == '{' {
			b.WriteByte('}')
		} else {
			b.WriteByte(']')
		}
	}
	return b.String(), true
}

func snippet(s string) string {
	const max = 200
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
