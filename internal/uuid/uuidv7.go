// Package uuid generates the time-ordered identifiers used as primary keys.
package uuid

import (
	googleuuid "github.com/google/uuid"
)

// New returns a UUIDv7 string. Identifiers sort by creation time, which keeps
// insertion order stable for listings that tie on other columns.
func New() string {
	id, err := googleuuid.NewV7()
	if err != nil {
		// The random source failed; a v4 id is still unique, just unordered.
		return googleuuid.NewString()
	}
	return id.String()
}

// Parse validates a UUID string and returns its canonical form.
func Parse(s string) (string, error) {
	parsed, err := googleuuid.Parse(s)
	if err != nil {
		return "", err
	}
	return parsed.String(), nil
}

// IsValid checks if a string is a valid UUID
func IsValid(s string) bool {
	_, err := googleuuid.Parse(s)
	return err == nil
}
