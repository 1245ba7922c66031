package domain

import (
	"strings"

	"go.trai.ch/zerr"
)

// Fingerprint is the freshness signal recorded for a unit at compile time.
// Two fingerprints are compared for exact equality; any difference is a miss.
type Fingerprint string

// FingerprintMode selects how fingerprints are computed.
type FingerprintMode string

const (
	// FingerprintModTime fingerprints a unit by its modification time in Unix nanoseconds.
	FingerprintModTime FingerprintMode = "mtime"
	// FingerprintContent fingerprints a unit by an xxhash digest of its source bytes.
	FingerprintContent FingerprintMode = "content"
)

// ParseFingerprintMode parses a mode name, defaulting to FingerprintModTime when empty.
func ParseFingerprintMode(s string) (FingerprintMode, error) {
	switch FingerprintMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", FingerprintModTime:
		return FingerprintModTime, nil
	case FingerprintContent:
		return FingerprintContent, nil
	default:
		return "", zerr.With(ErrInvalidFingerprintMode, "mode", s)
	}
}
