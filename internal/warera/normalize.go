package warera

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// normalizePositional turns a tRPC batch body into a positional list of call
// results. The upstream answers either with a JSON array or with an object
// keyed by the same numeric indices the request used; downstream code never
// sees the difference.
func normalizePositional(body []byte, n int) ([]json.RawMessage, error) {
	trimmed := bytes.TrimLeft(body, " \t\r\n")
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("empty response body")
	}

	if trimmed[0] == '[' {
		var list []json.RawMessage
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return nil, fmt.Errorf("decode array response: %w", err)
		}
		return list, nil
	}

	var keyed map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &keyed); err != nil {
		return nil, fmt.Errorf("decode keyed response: %w", err)
	}

	// A plain single-call body without index keys is treated as the sole
	// result.
	if _, ok := keyed["0"]; !ok {
		return []json.RawMessage{trimmed}, nil
	}

	list := make([]json.RawMessage, 0, n)
	for i := 0; ; i++ {
		raw, ok := keyed[strconv.Itoa(i)]
		if !ok {
			break
		}
		list = append(list, raw)
	}
	return list, nil
}

// unwrap extracts result.data from one call result envelope. A missing
// result yields nil data, not an error; callers treat it as absent.
func unwrap(raw json.RawMessage) (json.RawMessage, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("decode result envelope: %w", err)
	}
	if len(env.Error) > 0 && string(env.Error) != "null" {
		return nil, fmt.Errorf("upstream call error: %s", env.Error)
	}
	return env.Result.Data, nil
}
