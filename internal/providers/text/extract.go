package text

import (
	"encoding/json"
	"errors"
	"strings"

	"logoforge/internal/domain"
)

// ErrNoJSONObject is wrapped by ExtractJSONObject when the text holds no
// well-formed JSON object.
var ErrNoJSONObject = errors.New("no well-formed JSON object in response")

// ExtractJSONObject returns the first well-formed JSON object found anywhere
// in raw. Code fences and commentary around the object are ignored. When
// nothing parses the error is a ProviderError of kind malformed_json.
func ExtractJSONObject(provider, raw string) (json.RawMessage, error) {
	text := trimCodeFence(raw)
	for offset := 0; offset < len(text); {
		idx := strings.IndexByte(text[offset:], '{')
		if idx < 0 {
			break
		}
		start := offset + idx
		dec := json.NewDecoder(strings.NewReader(text[start:]))
		var obj json.RawMessage
		if err := dec.Decode(&obj); err == nil && len(obj) > 0 && obj[0] == '{' {
			return obj, nil
		}
		offset = start + 1
	}
	return nil, domain.NewProviderError(provider, domain.ProviderKindMalformedJSON, ErrNoJSONObject)
}

// DecodeJSONObject extracts the first JSON object from raw and decodes it
// into T.
func DecodeJSONObject[T any](provider, raw string) (T, error) {
	var zero T
	obj, err := ExtractJSONObject(provider, raw)
	if err != nil {
		return zero, err
	}
	var decoded T
	if err := json.Unmarshal(obj, &decoded); err != nil {
		return zero, domain.NewProviderError(provider, domain.ProviderKindMalformedJSON, err)
	}
	return decoded, nil
}

func trimCodeFence(text string) string {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```JSON")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSpace(trimmed)
	if idx := strings.LastIndex(trimmed, "```"); idx >= 0 {
		trimmed = trimmed[:idx]
	}
	return strings.TrimSpace(trimmed)
}
