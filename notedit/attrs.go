package notedit

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// MergeAttributes combines a free-form JSON object with structured fields
// into one attribute set. The JSON blob is parsed first; structured values
// overlay it, so they win on key collision. Empty structured values are
// treated as unset. A nil result means "no attributes" — the caller must
// not emit an attribute payload at all.
func MergeAttributes(jsonBlob string, structured map[string]string) (map[string]string, error) {
	merged := make(map[string]string)

	if strings.TrimSpace(jsonBlob) != "" {
		var raw map[string]any
		if err := json.Unmarshal([]byte(jsonBlob), &raw); err != nil {
			return nil, fmt.Errorf("notedit: parse attributes JSON: %w", err)
		}
		for k, v := range raw {
			s, err := scalarString(v)
			if err != nil {
				return nil, fmt.Errorf("notedit: attribute %q: %w", k, err)
			}
			merged[k] = s
		}
	}

	for k, v := range structured {
		if v == "" {
			continue
		}
		merged[k] = v
	}

	if len(merged) == 0 {
		return nil, nil
	}
	return merged, nil
}

func scalarString(v any) (string, error) {
	switch t := v.(type) {
	case string:
		return t, nil
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), nil
	case bool:
		return strconv.FormatBool(t), nil
	case nil:
		return "", nil
	}
	return "", fmt.Errorf("value must be a scalar")
}
