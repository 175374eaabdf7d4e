package models

import "time"

// Role is the coarse permission level carried by an identity.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleClient Role = "client"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleClient
}

type User struct {
	ID           int64         `json:"id"`
	Username     string        `json:"username"`
	FullName     string        `json:"full_name"`
	Role         Role          `json:"role"`
	Position     string        `json:"position"`
	CreatedAt    time.Time     `json:"created_at"`
	Affiliations []Affiliation `json:"affiliations,omitempty"`
}
