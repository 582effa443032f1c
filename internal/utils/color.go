package utils

import (
	"fmt"
	"regexp"
	"strings"
)

var hexColorPattern = regexp.MustCompile(`^#?([0-9a-fA-F]{6}|[0-9a-fA-F]{3})$`)

// NormalizeHexColor validates a hex RGB color and returns it in canonical
// "#RRGGBB" form. Accepts "#abc", "abc", "#aabbcc" and "aabbcc".
func NormalizeHexColor(color string) (string, error) {
	matches := hexColorPattern.FindStringSubmatch(strings.TrimSpace(color))
	if matches == nil {
		return "", fmt.Errorf("invalid hex color %q", color)
	}

	hex := strings.ToUpper(matches[1])
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	return "#" + hex, nil
}

// IsValidHexColor reports whether the string is a hex RGB color.
func IsValidHexColor(color string) bool {
	_, err := NormalizeHexColor(color)
	return err == nil
}
