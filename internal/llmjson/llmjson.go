// Package llmjson recovers structured JSON from free-form model output.
// Models routinely wrap their JSON in prose or markdown fencing, so a strict
// parse is tried first and progressively looser extractions follow.
package llmjson

import (
	"encoding/json"
	"strings"
)

// Recover extracts a JSON value from text. The cascade runs cheapest and most
// precise first; the first success wins:
//
//  1. parse the text as-is
//  2. strip markdown code fences and parse
//  3. parse the span from the first "{" to the last "}"
//  4. parse the span from the first "[" to the last "]"
//
// The bracket scans are greedy to the last closing bracket, not the first
// balanced match. That can mis-extract when trailing garbage contains an
// unrelated brace; known limitation, kept for predictable behavior when
// multiple JSON-like spans are present. Returns (nil, false) when nothing
// parses.
func Recover(text string) (any, bool) {
	if v, ok := tryParse(text); ok {
		return v, true
	}
	if v, ok := tryParse(StripFences(text)); ok {
		return v, true
	}
	if v, ok := tryParse(bracketSpan(text, '{', '}')); ok {
		return v, true
	}
	if v, ok := tryParse(bracketSpan(text, '[', ']')); ok {
		return v, true
	}
	return nil, false
}

func tryParse(s string) (any, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, false
	}
	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return nil, false
	}
	return v, true
}

// StripFences removes a leading markdown code fence (labeled or not) and the
// matching trailing fence, plus surrounding whitespace. Text without fences
// is returned trimmed.
func StripFences(text string) string {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```json") {
		text = strings.TrimPrefix(text, "```json")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
	} else if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
	}
	return strings.TrimSpace(text)
}

// bracketSpan returns the substring from the first open bracket to the last
// close bracket, or "" when no such span exists.
func bracketSpan(text string, open, close byte) string {
	start := strings.IndexByte(text, open)
	end := strings.LastIndexByte(text, close)
	if start < 0 || end <= start {
		return ""
	}
	return text[start : end+1]
}
