package postgres

import (
	"encoding/json"
	"fmt"
)

// encodeTags serializes a tag list for storage in a JSONB column,
// preserving insertion order. A nil slice encodes as an empty array.
func encodeTags(tags []string) ([]byte, error) {
	if tags == nil {
		tags = []string{}
	}
	raw, err := json.Marshal(tags)
	if err != nil {
		return nil, fmt.Errorf("failed to encode tags: %w", err)
	}
	return raw, nil
}

// decodeTags deserializes a JSONB tags column back into a tag list.
func decodeTags(raw []byte) ([]string, error) {
	var tags []string
	if err := json.Unmarshal(raw, &tags); err != nil {
		return nil, fmt.Errorf("failed to decode tags: %w", err)
	}
	if tags == nil {
		tags = []string{}
	}
	return tags, nil
}
