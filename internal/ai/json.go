// Package ai builds prompts for the hosted completion API and parses
// its free-text output back into typed results.
package ai

import (
	"encoding/json"
	"strings"

	"github.com/rotisserie/eris"
)

// CleanJSON strips markdown fences and slices out the outermost JSON
// object or array from model output.
func CleanJSON(text string) string {
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

	objStart := strings.Index(text, "{")
	arrStart := strings.Index(text, "[")

	start, closer := objStart, "}"
	if objStart < 0 || (arrStart >= 0 && arrStart < objStart) {
		start, closer = arrStart, "]"
	}

	if start >= 0 {
		if end := strings.LastIndex(text, closer); end > start {
			text = text[start : end+1]
		}
	}

	return strings.TrimSpace(text)
}

// ExtractJSON parses model output into v: first a strict parse of the
// whole string, then a repaired parse of the extracted JSON body.
func ExtractJSON(text string, v any) error {
	if err := json.Unmarshal([]byte(text), v); err == nil {
		return nil
	}
	cleaned := CleanJSON(text)
	if err := json.Unmarshal([]byte(cleaned), v); err != nil {
		return eris.Wrap(err, "ai: response is not valid JSON")
	}
	return nil
}
