// Package uuid generates time-ordered UUIDv7 identifiers for database
// primary keys. Provider-sourced records keep the provider's own id;
// everything created manually gets one of these.
package uuid

import googleuuid "github.com/google/uuid"

// New returns a new UUIDv7 string. UUIDv7 embeds a millisecond
// timestamp, so keys sort roughly by creation time. Falls back to a
// random UUIDv4 if v7 generation fails.
func New() string {
	id, err := googleuuid.NewV7()
	if err != nil {
		return googleuuid.NewString()
	}
	return id.String()
}

// IsValid checks if a string is a valid UUID.
func IsValid(s string) bool {
	_, err := googleuuid.Parse(s)
	return err == nil
}
