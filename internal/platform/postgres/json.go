package postgres

import (
	"encoding/json"
	"fmt"
)

// marshalJSONB serializes a Go value into a JSONB column value.
// A nil value is stored as SQL NULL rather than the JSON literal null.
func marshalJSONB(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal JSONB value: %w", err)
	}
	return data, nil
}

// unmarshalJSONB deserializes a JSONB column value into dst.
// NULL columns leave dst untouched.
func unmarshalJSONB(data []byte, dst any) error {
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("failed to unmarshal JSONB value: %w", err)
	}
	return nil
}
