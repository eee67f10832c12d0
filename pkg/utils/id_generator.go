// Package utils provides shared helpers used across the application.
//
// Go Learning Note - "pkg/" Directory Convention:
// Code under pkg/ is intended to be importable by external projects (unlike
// internal/ which is compiler-enforced private). This is a community
// convention, not a Go language feature.
package utils

import (
	"github.com/google/uuid"
)

// shortIDLen is the number of leading characters of a report ID quoted back
// to users, e.g. in SMS confirmations.
const shortIDLen = 8

// GenerateID returns a new random (v4) UUID string. Report IDs are generated
// here so they can be assigned before the report reaches any store.
func GenerateID() string {
	return uuid.New().String()
}

// ShortID returns the human-facing prefix of an ID produced by GenerateID.
// IDs shorter than the prefix are returned unchanged.
func ShortID(id string) string {
	if len(id) > shortIDLen {
		return id[:shortIDLen]
	}
	return id
}
