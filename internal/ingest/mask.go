package ingest

import (
	"regexp"
	"strings"
)

var (
	ipv4Pattern = regexp.MustCompile(`\b\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3}\b`)
	ipv6Pattern = regexp.MustCompile(`\b[0-9a-fA-F:]+:[0-9a-fA-F:]+\b`)

	uuidPattern = regexp.MustCompile(`\b[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}\b`)

	timestampPattern     = regexp.MustCompile(`\b\d{4}-\d{2}-\d{2}[T ]\d{2}:\d{2}:\d{2}(\.\d+)?(Z|[+-]\d{2}:\d{2})?\b`)
	unixTimestampPattern = regexp.MustCompile(`\b\d{10,13}\b`)

	hexPattern     = regexp.MustCompile(`\b0x[0-9a-fA-F]+\b`)
	longHexPattern = regexp.MustCompile(`\b[0-9a-fA-F]{16,}\b`)

	filePathPattern = regexp.MustCompile(`(/[a-zA-Z0-9_.-]+)+`)
	urlPattern      = regexp.MustCompile(`\bhttps?://[a-zA-Z0-9.-]+[a-zA-Z0-9/._?=&-]*\b`)
	emailPattern    = regexp.MustCompile(`\b[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}\b`)

	preserveContexts = []string{"status", "code", "http", "returned", "response"}
)

// mask replaces variable substrings in a Drain template with stable
// placeholders, most specific pattern first, so two log lines differing
// only in a payload value collapse to the same event type. HTTP status
// codes are left as literals so "returned 404" and "returned 500" stay
// distinct event types.
func mask(template string) string {
	template = ipv6Pattern.ReplaceAllString(template, "<IP>")
	template = ipv4Pattern.ReplaceAllString(template, "<IP>")
	template = uuidPattern.ReplaceAllString(template, "<UUID>")
	template = timestampPattern.ReplaceAllString(template, "<TIMESTAMP>")
	template = unixTimestampPattern.ReplaceAllString(template, "<TIMESTAMP>")
	template = hexPattern.ReplaceAllString(template, "<HEX>")
	template = longHexPattern.ReplaceAllString(template, "<HEX>")
	template = urlPattern.ReplaceAllString(template, "<URL>")
	template = emailPattern.ReplaceAllString(template, "<EMAIL>")
	template = filePathPattern.ReplaceAllString(template, "<PATH>")
	return maskNumbersExceptStatusCodes(template)
}

func maskNumbersExceptStatusCodes(template string) string {
	tokens := strings.Fields(template)
	for i, token := range tokens {
		if !isNumber(token) {
			continue
		}
		if !statusCodeContext(tokens, i) {
			tokens[i] = "<NUM>"
		}
	}
	return strings.Join(tokens, " ")
}

func statusCodeContext(tokens []string, i int) bool {
	start, end := max(0, i-3), min(len(tokens), i+4)
	for j := start; j < end; j++ {
		if j == i {
			continue
		}
		lower := strings.ToLower(tokens[j])
		for _, ctx := range preserveContexts {
			if strings.Contains(lower, ctx) {
				return true
			}
		}
	}
	return false
}

func isNumber(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// normalizeWildcards collapses every placeholder Drain or mask may have
// introduced -- its own "<*>" plus ours -- down to one canonical "<VAR>",
// so a template's event type is stable regardless of how much of it Drain
// had already learned to generalize when it was classified.
func normalizeWildcards(pattern string) string {
	placeholders := []string{
		"<*>", "<IP>", "<UUID>", "<TIMESTAMP>", "<HEX>", "<PATH>",
		"<URL>", "<EMAIL>", "<NUM>",
	}
	for _, p := range placeholders {
		pattern = strings.ReplaceAll(pattern, p, "<VAR>")
	}
	return pattern
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
