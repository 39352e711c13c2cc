package models

import "time"

// Wishlist is a named collection of desired items for a recipient
type Wishlist struct {
	ID            int64     `json:"id" db:"id"`
	Title         string    `json:"title" db:"title"`
	RecipientName *string   `json:"recipient_name" db:"recipient_name"`
	CreatedByID   int64     `json:"created_by_id" db:"created_by_id"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	InvitationID  string    `json:"invitation_id,omitempty" db:"invitation_id"`
	Members       []Member  `json:"users,omitempty"`
}

// Item represents a desired object within a wishlist.
//
// Claim and acquisition are tracked independently so that the person who
// announced the intent to buy need not be the one who bought it.
type Item struct {
	ID           int64        `json:"id" db:"id"`
	WishlistID   int64        `json:"wishlist_id" db:"wishlist_id"`
	Name         string       `json:"name" db:"name"`
	Description  *string      `json:"description" db:"description"`
	URL          *string      `json:"url" db:"url"`
	AddedByID    int64        `json:"added_by_id" db:"added_by_id"`
	ClaimedByID  *int64       `json:"claimed_by_id" db:"claimed_by_id"`
	AcquiredByID *int64       `json:"acquired_by_id" db:"acquired_by_id"`
	Active       bool         `json:"active" db:"active"`
	CreatedAt    time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at" db:"updated_at"`
	AddedBy      *UserSummary `json:"added_by,omitempty"`
	ClaimedBy    *UserSummary `json:"claimed_by,omitempty"`
	AcquiredBy   *UserSummary `json:"acquired_by,omitempty"`
}

// IsClaimed reports whether someone has announced they will get the item
func (i *Item) IsClaimed() bool {
	return i.ClaimedByID != nil
}

// IsAcquired reports whether someone has recorded buying the item
func (i *Item) IsAcquired() bool {
	return i.AcquiredByID != nil
}
