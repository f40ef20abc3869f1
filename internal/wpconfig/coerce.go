package wpconfig

import (
	"strconv"
	"strings"
)

// ParseBool reads "true", "1", "yes" and "on" as true, in any case. Every
// other value, including the empty string, is false.
func ParseBool(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}

// ParseInt reads a base-10 integer, returning 0 for anything non-numeric.
func ParseInt(raw string) int {
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0
	}
	return v
}
