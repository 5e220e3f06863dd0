// Package uuid generates UUIDv7 identifiers for database primary keys.
// UUIDv7 is time-ordered, which keeps index pages warm under insert-heavy
// workloads such as materialized transactions and notifications.
package uuid

import (
	googleuuid "github.com/google/uuid"
)

// New returns a new UUIDv7 string. If v7 generation fails (exhausted
// entropy source), it falls back to a random UUIDv4.
func New() string {
	id, err := googleuuid.NewV7()
	if err != nil {
		return googleuuid.New().String()
	}
	return id.String()
}

// Parse validates and normalizes a UUID string.
func Parse(s string) (string, error) {
	parsed, err := googleuuid.Parse(s)
	if err != nil {
		return "", err
	}
	return parsed.String(), nil
}

// IsValid reports whether s is a well-formed UUID.
func IsValid(s string) bool {
	_, err := googleuuid.Parse(s)
	return err == nil
}
