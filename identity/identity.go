// Package identity defines the authenticated caller attached to each request
// and a bounded in-process cache that maps verified token subjects to their
// identity snapshot.
package identity

import "github.com/google/uuid"

// Identity is the resolved caller for one request. It is a point-in-time
// snapshot of the user record; handlers must treat it as read-only.
type Identity struct {
	ID        uuid.UUID
	Username  string
	Email     string
	Active    bool
	Admin     bool
	Superuser bool
}

// Anonymous returns the identity used for requests that carry no usable
// credentials. It is a distinct non-error state: public endpoints accept it,
// protected endpoints reject it with an authentication challenge.
func Anonymous() Identity {
	return Identity{}
}

// IsAnonymous reports whether the identity carries no authenticated subject.
func (i Identity) IsAnonymous() bool {
	return i.ID == uuid.Nil
}
