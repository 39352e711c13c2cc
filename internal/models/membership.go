package models

import "time"

// Role is the part a user plays on a wishlist
type Role string

const (
	RoleOwner       Role = "owner"
	RoleContributor Role = "contributor"
)

// Valid reports whether r is a known role
func (r Role) Valid() bool {
	switch r {
	case RoleOwner, RoleContributor:
		return true
	}
	return false
}

// Membership represents the join table between wishlists and users
type Membership struct {
	WishlistID int64     `json:"wishlist_id" db:"wishlist_id"`
	UserID     int64     `json:"user_id" db:"user_id"`
	Role       Role      `json:"role" db:"role"`
	JoinedAt   time.Time `json:"joined_at" db:"joined_at"`
}

// Member is a membership resolved with the user's display data
type Member struct {
	UserID int64   `json:"id"`
	Name   *string `json:"name"`
	Role   Role    `json:"role"`
}
