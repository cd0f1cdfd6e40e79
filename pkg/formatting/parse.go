package formatting

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrParseFailed is returned when content cannot be parsed as JSON.
var ErrParseFailed = errors.New("failed to parse response")

var jsonFenceRegex = regexp.MustCompile("(?is)```json\\s*(.*?)```")

// ExtractJSON isolates a JSON payload from model output. It prefers the
// body of a ```json fence (case-insensitive), then the span from the first
// '{' to the last '}', and otherwise returns text unchanged.
func ExtractJSON(text string) string {
	if m := jsonFenceRegex.FindStringSubmatch(text); m != nil {
		return m[1]
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start >= 0 && end > start {
		return text[start : end+1]
	}

	return text
}

// Parse unmarshals the payload found by ExtractJSON into T.
func Parse[T any](content string) (T, error) {
	var result T
	payload := strings.TrimSpace(ExtractJSON(content))

	if err := json.Unmarshal([]byte(payload), &result); err != nil {
		return result, fmt.Errorf("%w: %w", ErrParseFailed, err)
	}

	return result, nil
}
