package identity

import (
	"regexp"
	"strings"
)

var multiSpaceRegex = regexp.MustCompile(`\s+`)

// Key returns the grouping key for a property address: trimmed, inner
// whitespace collapsed, lowercased. Two records describe the same listing
// iff their keys are equal. An empty key means the address is unusable.
func Key(address string) string {
	addr := strings.ToLower(strings.TrimSpace(address))
	return multiSpaceRegex.ReplaceAllString(addr, " ")
}
