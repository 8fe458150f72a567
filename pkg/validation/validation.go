// Package validation checks names supplied from outside the simulation
// before they reach the game.
package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// MaxPlayerNameLen is the longest accepted player name, in bytes.
const MaxPlayerNameLen = 32

// ErrInvalidName is wrapped by every name rejection.
var ErrInvalidName = errors.New("invalid player name")

// Alphanumerics, spaces and a little punctuation.
var validPlayerNameChars = regexp.MustCompile(`^[a-zA-Z0-9\s\-_.<>()]+$`)

// ValidatePlayerName returns name trimmed of surrounding whitespace, or an
// error wrapping ErrInvalidName.
func ValidatePlayerName(name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("%w: cannot be empty", ErrInvalidName)
	}
	if len(name) > MaxPlayerNameLen {
		return "", fmt.Errorf("%w: too long: %d characters (max %d)", ErrInvalidName, len(name), MaxPlayerNameLen)
	}
	if !utf8.ValidString(name) {
		return "", fmt.Errorf("%w: contains invalid UTF-8 characters", ErrInvalidName)
	}

	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "", fmt.Errorf("%w: cannot be only whitespace", ErrInvalidName)
	}
	for _, r := range trimmed {
		if unicode.IsControl(r) {
			return "", fmt.Errorf("%w: contains control characters", ErrInvalidName)
		}
	}
	if !validPlayerNameChars.MatchString(trimmed) {
		return "", fmt.Errorf("%w: contains invalid characters (only alphanumeric, spaces, hyphens, underscores, and basic punctuation allowed)", ErrInvalidName)
	}
	return trimmed, nil
}

// ValidatePlayerNames validates every name and rejects duplicates after
// trimming. Names are compared case-insensitively.
func ValidatePlayerNames(names []string) ([]string, error) {
	out := make([]string, 0, len(names))
	seen := make(map[string]int, len(names))
	for i, name := range names {
		clean, err := ValidatePlayerName(name)
		if err != nil {
			return nil, fmt.Errorf("name %d: %w", i+1, err)
		}
		key := strings.ToLower(clean)
		if first, dup := seen[key]; dup {
			return nil, fmt.Errorf("%w: %q given twice (names %d and %d)", ErrInvalidName, clean, first+1, i+1)
		}
		seen[key] = i
		out = append(out, clean)
	}
	return out, nil
}
