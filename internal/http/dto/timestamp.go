package dto

import (
	"bytes"
	"encoding/json"
	"strconv"
	"time"

	"github.com/invopop/jsonschema"
)

// maxEpochMillis is 9999-12-31T23:59:59.999Z.
const maxEpochMillis = 253402300799999

// Timestamp accepts RFC 3339 strings or unix epoch milliseconds. Unparseable values
// decode to the zero time instead of failing the whole request body.
type Timestamp struct {
	time.Time
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil
		}
		if parsed, err := time.Parse(time.RFC3339Nano, s); err == nil && parsed.Year() >= 1970 {
			t.Time = parsed
			return nil
		}
		if ms, err := strconv.ParseInt(s, 10, 64); err == nil && inEpochRange(float64(ms)) {
			t.Time = time.UnixMilli(ms).UTC()
		}
		return nil
	}

	if ms, err := strconv.ParseFloat(string(data), 64); err == nil && inEpochRange(ms) {
		t.Time = time.UnixMilli(int64(ms)).UTC()
	}
	return nil
}

func inEpochRange(ms float64) bool {
	return ms >= 0 && ms <= maxEpochMillis
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Time.UTC().Format(time.RFC3339Nano))
}

// JSONSchema describes both accepted encodings.
func (Timestamp) JSONSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		OneOf: []*jsonschema.Schema{
			{Type: "string", Format: "date-time"},
			{Type: "integer", Description: "unix epoch milliseconds"},
		},
	}
}
