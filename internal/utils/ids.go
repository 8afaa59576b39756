package utils

import "github.com/google/uuid"

// IsUUID reports whether s is a well-formed UUID. Route params are checked
// with this before any repo call so malformed ids come back as 400, not 404.
func IsUUID(s string) bool {
	_, err := uuid.Parse(s)

	return err == nil
}
