package domain

import "time"

// Actor is an authenticated identity with exactly one role, fixed for the
// duration of a request.
type Actor struct {
	ID   string
	Role Role
}

// ActorFor builds an Actor from a user record.
func ActorFor(user *User) Actor {
	return Actor{ID: user.ID, Role: user.Role}
}

// Token represents issued authentication token metadata.
type Token struct {
	ID        string
	UserID    string
	Role      Role
	ExpiresAt time.Time
	IssuedAt  time.Time
}
