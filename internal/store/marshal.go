package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/roach88/catalogcheck/internal/harness"
)

// timeLayout stores instants as sortable UTC text.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse time %q: %w", s, err)
	}
	return t, nil
}

// marshalCalls converts the calls of an outcome to JSON TEXT for storage.
// HTML escaping is disabled so queries like "a&b" stay readable in the
// database.
func marshalCalls(calls []harness.Call) (string, error) {
	if calls == nil {
		calls = []harness.Call{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(calls); err != nil {
		return "", fmt.Errorf("marshal calls: %w", err)
	}
	// Encoder adds a trailing newline
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

// unmarshalCalls converts JSON TEXT from storage back to calls.
func unmarshalCalls(data string) ([]harness.Call, error) {
	var calls []harness.Call
	if err := json.Unmarshal([]byte(data), &calls); err != nil {
		return nil, fmt.Errorf("unmarshal calls: %w", err)
	}
	if len(calls) == 0 {
		return nil, nil
	}
	return calls, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
