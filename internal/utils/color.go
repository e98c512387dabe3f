package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"regexp"
)

var hexColorPattern = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// GenerateColor returns a random colour in the format #RRGGBB
func GenerateColor() (string, error) {
	bytes := make([]byte, 3)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}
	return "#" + hex.EncodeToString(bytes), nil
}

// IsHexColor reports whether s is a #RGB or #RRGGBB colour.
func IsHexColor(s string) bool {
	return hexColorPattern.MatchString(s)
}
