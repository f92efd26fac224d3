// Package domain holds the shared identifier and enum types that cross
// package boundaries. Keeping them here avoids import cycles between
// stores, services, and transport.
package domain

import "github.com/google/uuid"

// UserID is the stable account identifier assigned by the identity provider.
type UserID uuid.UUID

// EventID identifies a single feed event.
type EventID uuid.UUID

func (id UserID) String() string  { return uuid.UUID(id).String() }
func (id EventID) String() string { return uuid.UUID(id).String() }

// IsNil reports whether the ID is the zero UUID.
func (id UserID) IsNil() bool  { return uuid.UUID(id) == uuid.Nil }
func (id EventID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }

// ParseUserID parses a canonical UUID string into a UserID.
func ParseUserID(s string) (UserID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return UserID{}, err
	}
	return UserID(u), nil
}

// NewEventID returns a random event identifier.
func NewEventID() EventID {
	return EventID(uuid.New())
}
