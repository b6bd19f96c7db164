package id

import (
	"strings"

	"github.com/google/uuid"
)

// NewID32 returns a random v4 UUID as 32 lowercase hex characters.
// Used as the primary key for submissions, activities and notifications.
func NewID32() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// NewEventID identifies one logical fanout event; every notification emitted
// for the same event shares it.
func NewEventID() string { return uuid.NewString() }
