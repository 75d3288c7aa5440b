package compliance

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatVersion renders a plan version for presentation ("v3").
func FormatVersion(n int) string {
	if n < 1 {
		n = 1
	}
	return "v" + strconv.Itoa(n)
}

// ParseVersion accepts "v3", "V3" or "3".
func ParseVersion(raw string) (int, error) {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(strings.TrimPrefix(s, "v"), "V")
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid version %q", raw)
	}
	return n, nil
}
