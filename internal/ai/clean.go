package ai

import (
	"encoding/json"
	"errors"
	"strings"
)

var ErrNoJSON = errors.New("no JSON object in model output")

// CleanJSON strips markdown code fences and returns the outermost JSON
// object from raw model output. Models wrap JSON in ```json fences or
// prepend prose often enough that callers should never json.Unmarshal
// the raw response.
func CleanJSON(raw string) (string, error) {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```JSON")
		s = strings.TrimPrefix(s, "```")
		if i := strings.LastIndex(s, "```"); i >= 0 {
			s = s[:i]
		}
		s = strings.TrimSpace(s)
	}

	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end < 0 || end <= start {
		return "", ErrNoJSON
	}
	return s[start : end+1], nil
}

// DecodeJSON cleans raw model output and unmarshals it into out.
func DecodeJSON(raw string, out any) error {
	s, err := CleanJSON(raw)
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(s), out)
}
