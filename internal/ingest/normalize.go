package ingest

import (
	"encoding/json"
	"strings"
)

// messageFields lists the JSON field names checked, in order, for the
// semantic log message when a raw line is a JSON object rather than plain
// text.
var messageFields = []string{"message", "msg", "text", "_raw", "event"}

// extractMessage returns the semantic message of rawLog: the first matching
// field of a JSON object, or rawLog itself for plain text.
func extractMessage(rawLog string) string {
	var parsed map[string]interface{}
	if err := json.Unmarshal([]byte(rawLog), &parsed); err != nil {
		return rawLog
	}

	for _, field := range messageFields {
		if value, ok := parsed[field]; ok {
			if msg, ok := value.(string); ok && msg != "" {
				return msg
			}
		}
	}
	return rawLog
}

// preProcess normalizes rawLog for Drain clustering: extract the semantic
// message, lowercase, trim. Variable masking happens after clustering, in
// mask.go, not here.
func preProcess(rawLog string) string {
	message := extractMessage(rawLog)
	message = strings.ToLower(message)
	return strings.TrimSpace(message)
}
