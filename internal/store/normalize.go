package store

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// NormalizeCustomer flattens the joined customer value of an order row.
// A list yields its first element (or nil when empty), an object is used
// as-is and null yields nil.
func NormalizeCustomer(raw JSON) (*CustomerName, error) {
	if raw.IsNull() {
		return nil, nil
	}

	trimmed := bytes.TrimSpace(raw)
	switch trimmed[0] {
	case '[':
		var list []*CustomerName
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return nil, fmt.Errorf("decode customer list: %w", err)
		}
		if len(list) == 0 {
			return nil, nil
		}
		return list[0], nil
	case '{':
		var c CustomerName
		if err := json.Unmarshal(trimmed, &c); err != nil {
			return nil, fmt.Errorf("decode customer: %w", err)
		}
		return &c, nil
	default:
		return nil, fmt.Errorf("unexpected customer value %q", trimmed)
	}
}
