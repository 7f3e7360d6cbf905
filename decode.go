package workqueue

import (
	"encoding/json"
	"fmt"
)

// Decode converts a callback result into T. Results of in-process units are
// returned as is; JSON replies of process and shell units are unmarshalled.
func Decode[T any](result any) (T, error) {
	var ret T
	if v, ok := result.(T); ok {
		return v, nil
	}
	var data []byte
	switch actual := result.(type) {
	case nil:
		return ret, fmt.Errorf("result was nil")
	case json.RawMessage:
		data = actual
	case []byte:
		data = actual
	default:
		var err error
		if data, err = json.Marshal(result); err != nil {
			return ret, fmt.Errorf("failed to encode result %T: %w", result, err)
		}
	}
	if err := json.Unmarshal(data, &ret); err != nil {
		return ret, fmt.Errorf("failed to decode result into %T: %w", ret, err)
	}
	return ret, nil
}
