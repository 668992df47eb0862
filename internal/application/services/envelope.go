package services

import (
	"bytes"
	"encoding/json"

	"salonathome.in/cli/internal/apiclient"
)

// The backend wraps most payloads as {"success": true, "data": ...}.
type dataEnvelope struct {
	Data json.RawMessage `json:"data"`
}

// decodeData unwraps the data member when present and decodes it into T;
// bare payloads are decoded as-is.
func decodeData[T any](raw json.RawMessage) (T, error) {
	var env dataEnvelope
	if err := json.Unmarshal(raw, &env); err == nil {
		if d := bytes.TrimSpace(env.Data); len(d) > 0 && !bytes.Equal(d, []byte("null")) {
			raw = env.Data
		}
	}
	return apiclient.Decode[T](raw)
}
