// Package uuid wraps google/uuid with the binding hook gin needs to
// parse resource IDs from URI parameters and request bodies, so that
// an unparseable ID surfaces as a binding error instead of a zero ID.
package uuid

import (
	google_uuid "github.com/google/uuid"
)

// UUID identifies a resource, an account, user, session, attachment
// or match rule.
type UUID struct {
	google_uuid.UUID
}

var Nil UUID

// UnmarshalParam parses a UUID from a URI or form parameter. An empty
// parameter is the Nil UUID, anything else must parse per
// https://pkg.go.dev/github.com/google/uuid#Parse
func (u *UUID) UnmarshalParam(p string) error {
	if p == "" {
		*u = Nil
		return nil
	}

	parsed, e := google_uuid.Parse(p)
	if e != nil {
		return e
	}

	*u = UUID{parsed}
	return nil
}
