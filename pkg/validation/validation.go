// Package validation holds input checks shared by the API handlers.
package validation

import (
	"encoding/hex"
	"fmt"
	"strings"
	"unicode/utf8"
)

// MaxCatNameLen is the longest cat name the catalog accepts.
const MaxCatNameLen = 20

// Vibes lists the tags a cat can carry.
var Vibes = []string{
	"happy", "sleepy", "grumpy", "menace", "void", "derp",
	"chonk", "floof", "loaf", "zoomies", "majestic", "chaos",
}

// ValidateAddress validates a wallet address: optional 0x prefix followed
// by 44 hex characters (22 bytes, ICAN format).
func ValidateAddress(addr string) error {
	if addr == "" {
		return fmt.Errorf("address cannot be empty")
	}

	normalized := strings.TrimPrefix(addr, "0x")
	normalized = strings.TrimPrefix(normalized, "0X")

	if len(normalized) != 44 {
		return fmt.Errorf("invalid address length: expected 44 characters (without 0x), got %d", len(normalized))
	}

	if _, err := hex.DecodeString(normalized); err != nil {
		return fmt.Errorf("invalid hex address: %w", err)
	}

	return nil
}

// NormalizeAddress converts an address to lowercase without 0x prefix.
func NormalizeAddress(addr string) string {
	addr = strings.TrimPrefix(addr, "0x")
	addr = strings.TrimPrefix(addr, "0X")
	return strings.ToLower(addr)
}

// ValidateCatName trims the name and checks the catalog constraints.
// Returns the trimmed name.
func ValidateCatName(name string) (string, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "", fmt.Errorf("name is required")
	}
	if utf8.RuneCountInString(trimmed) > MaxCatNameLen {
		return "", fmt.Errorf("name too long (max %d chars)", MaxCatNameLen)
	}
	return trimmed, nil
}

// ValidateMediaType checks the catalog media type.
func ValidateMediaType(mediaType string) error {
	if mediaType != "image" && mediaType != "video" {
		return fmt.Errorf("mediaType must be image or video")
	}
	return nil
}

// ValidateVibes checks that every tag is a known vibe.
func ValidateVibes(vibes []string) error {
	for _, v := range vibes {
		if !isVibe(v) {
			return fmt.Errorf("unknown vibe: %s", v)
		}
	}
	return nil
}

func isVibe(v string) bool {
	for _, known := range Vibes {
		if v == known {
			return true
		}
	}
	return false
}
