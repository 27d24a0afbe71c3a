package models

import "time"

// Actor identifies who issues a command. It is a snapshot supplied by
// the session layer; the booking core only reads ID, Name, Email, Role.
type Actor struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// Session binds an opaque token to an actor snapshot.
type Session struct {
	Token     string    `json:"token"`
	Actor     Actor     `json:"actor"`
	CreatedAt time.Time `json:"created_at"`
}
