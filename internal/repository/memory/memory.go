// Package memory provides an in-process implementation of the repository
// interfaces. It enforces the same uniqueness and reference rules as the
// Postgres schema so it can stand in for it in development and tests.
package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/Kerhoff/giftlist/internal/models"
	"github.com/Kerhoff/giftlist/internal/repository"
)

type membershipKey struct {
	wishlistID int64
	userID     int64
}

// Store holds every table behind one lock.
type Store struct {
	mu sync.RWMutex

	nextUserID     int64
	nextWishlistID int64
	nextItemID     int64

	users       map[int64]models.User
	wishlists   map[int64]models.Wishlist
	memberships map[membershipKey]models.Membership
	items       map[int64]models.Item
}

// New creates an empty store
func New() *Store {
	return &Store{
		users:       make(map[int64]models.User),
		wishlists:   make(map[int64]models.Wishlist),
		memberships: make(map[membershipKey]models.Membership),
		items:       make(map[int64]models.Item),
	}
}

// Users returns the user repository view of the store
func (s *Store) Users() repository.UserRepository { return &userRepository{s} }

// Wishlists returns the wishlist repository view of the store
func (s *Store) Wishlists() repository.WishlistRepository { return &wishlistRepository{s} }

// Memberships returns the membership repository view of the store
func (s *Store) Memberships() repository.MembershipRepository { return &membershipRepository{s} }

// Items returns the item repository view of the store
func (s *Store) Items() repository.ItemRepository { return &itemRepository{s} }

// PingContext always succeeds; it lets the store satisfy health checks.
func (s *Store) PingContext(context.Context) error { return nil }

// The helpers below expect s.mu to be held.

func (s *Store) emailTaken(email string, exceptID int64) bool {
	for _, u := range s.users {
		if u.ID != exceptID && strings.EqualFold(u.Email, email) {
			return true
		}
	}
	return false
}

func (s *Store) requireUser(id int64) error {
	if _, ok := s.users[id]; !ok {
		return fmt.Errorf("%w: user %d", repository.ErrForeignKey, id)
	}
	return nil
}

func (s *Store) summary(id int64) *models.UserSummary {
	u, ok := s.users[id]
	if !ok {
		return nil
	}
	return u.Summary()
}

func (s *Store) resolve(item models.Item) *models.Item {
	item.AddedBy = s.summary(item.AddedByID)
	if item.ClaimedByID != nil {
		item.ClaimedBy = s.summary(*item.ClaimedByID)
	}
	if item.AcquiredByID != nil {
		item.AcquiredBy = s.summary(*item.AcquiredByID)
	}
	return &item
}

func cloneString(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneInt(p *int64) *int64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
