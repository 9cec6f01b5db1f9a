package scanning

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// parseTextLines extracts the JSON array of text fragments from an LLM reply
func parseTextLines(text string) ([]string, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSpace(text)

	// Models sometimes wrap the array in prose; keep only the outermost brackets
	startIdx := strings.Index(text, "[")
	if startIdx == -1 {
		return nil, fmt.Errorf("no JSON array found in response")
	}
	endIdx := strings.LastIndex(text, "]")
	if endIdx == -1 || endIdx < startIdx {
		return nil, fmt.Errorf("invalid JSON array in response")
	}
	text = text[startIdx : endIdx+1]

	var raw []any
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return nil, fmt.Errorf("unmarshaling json: %w", err)
	}

	lines := make([]string, 0, len(raw))
	for _, v := range raw {
		var s string
		switch v := v.(type) {
		case string:
			s = v
		case float64:
			// A bare price like 25000 comes back as a JSON number
			s = strconv.FormatFloat(v, 'f', -1, 64)
		case nil:
			continue
		default:
			s = fmt.Sprint(v)
		}
		if strings.TrimSpace(s) == "" {
			continue
		}
		lines = append(lines, s)
	}

	return lines, nil
}

// splitLines turns plain OCR output into non-blank lines
func splitLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}
