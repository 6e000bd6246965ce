package classifier

import (
	"fmt"
	"strings"

	"github.com/safespend-dev/safespend/internal/actions"
)

// ExtractJSON decodes model output into raw records. Markdown code fences
// and prose around the JSON are dropped first, since models add them even
// when told not to.
func ExtractJSON(raw string) ([]map[string]any, error) {
	clean := stripFences(raw)
	if clean == "" {
		return nil, fmt.Errorf("%w: empty response", ErrUnavailable)
	}
	records, err := actions.Decode([]byte(clean))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return records, nil
}

func stripFences(raw string) string {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, "```") {
		idx := strings.Index(s, "\n")
		if idx == -1 {
			return ""
		}
		s = strings.TrimSpace(s[idx+1:])
	}
	if idx := strings.LastIndex(s, "```"); idx != -1 {
		s = s[:idx]
	}
	s = strings.TrimSpace(s)

	// Keep the outermost array or object, whichever opens first.
	start := strings.IndexAny(s, "[{")
	if start == -1 {
		return s
	}
	closer := "]"
	if s[start] == '{' {
		closer = "}"
	}
	if end := strings.LastIndex(s, closer); end > start {
		s = s[start : end+1]
	}
	return strings.TrimSpace(s)
}
