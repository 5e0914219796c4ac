// Copyright (c) 2026 ScholarLink. All rights reserved.

package llm

import (
	"encoding/json"
	"regexp"
	"strings"
)

// fencedJSON matches a ```json ... ``` markdown block.
var fencedJSON = regexp.MustCompile("(?s)```json\\s*(\\{.*?\\})\\s*```")

// ExtractJSON recovers a JSON object from verbose model output.
//
// # Strategy
//
// 1. Prefer a fenced ```json block if present.
// 2. Otherwise take the outermost {...} span of the text.
//
// It returns false when no parseable object can be found. Callers treat that
// as a parse failure for the affected row, never as a batch abort.
func ExtractJSON(text string, target interface{}) bool {
	if strings.TrimSpace(text) == "" {
		return false
	}

	if match := fencedJSON.FindStringSubmatch(text); match != nil {
		if json.Unmarshal([]byte(match[1]), target) == nil {
			return true
		}
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end <= start {
		return false
	}

	return json.Unmarshal([]byte(text[start:end+1]), target) == nil
}
