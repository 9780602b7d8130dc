package token

import (
	"strings"

	"github.com/google/uuid"
)

// NewValue returns a fresh opaque token value: a v4 UUID with the dashes
// stripped, 32 hex characters carrying 122 random bits. The value is never
// derived from user-identifying data.
func NewValue() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
