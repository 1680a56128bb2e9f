package utils

import (
	"strconv"
	"strings"
)

// ParseIntDefault converts s to an int, returning fallback when s is blank or not a number.
func ParseIntDefault(s string, fallback int) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return fallback
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return n
}

// IsTruthy reports whether a query or form value means "yes" ("true", "1", "yes", "on").
func IsTruthy(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "yes", "on":
		return true
	}
	return false
}
