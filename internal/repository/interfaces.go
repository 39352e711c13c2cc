package repository

import (
	"context"
	"errors"

	"github.com/Kerhoff/giftlist/internal/models"
)

var (
	// ErrDuplicate is returned when a write violates a uniqueness constraint
	ErrDuplicate = errors.New("duplicate key")
	// ErrForeignKey is returned when a write references a row that does not exist
	ErrForeignKey = errors.New("referenced row does not exist")
)

// Lookups return (nil, nil) when the row does not exist. Mutations of a
// single row by id return (nil, nil) or a false flag when nothing matched.

// UserRepository defines the interface for user data operations
type UserRepository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByExternalID(ctx context.Context, externalID string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) (*models.User, error)
}

// WishlistRepository defines the interface for wishlist operations
type WishlistRepository interface {
	// CreateWithOwner inserts the wishlist and the creator's owner membership
	// in a single transaction.
	CreateWithOwner(ctx context.Context, list *models.Wishlist) (*models.Wishlist, error)
	GetByID(ctx context.Context, id int64) (*models.Wishlist, error)
	GetByInvitationID(ctx context.Context, invitationID string) (*models.Wishlist, error)
	ListByMember(ctx context.Context, userID int64) ([]*models.Wishlist, error)
}

// MembershipRepository defines the interface for wishlist membership operations
type MembershipRepository interface {
	// Add inserts a membership. An existing pair yields ErrDuplicate.
	Add(ctx context.Context, m *models.Membership) (*models.Membership, error)
	Get(ctx context.Context, wishlistID, userID int64) (*models.Membership, error)
	// Remove deletes the pair and reports whether a row existed.
	Remove(ctx context.Context, wishlistID, userID int64) (bool, error)
	ListMembers(ctx context.Context, wishlistID int64) ([]models.Member, error)
	// ListMembersFor returns members keyed by wishlist id.
	ListMembersFor(ctx context.Context, wishlistIDs []int64) (map[int64][]models.Member, error)
	CountOwners(ctx context.Context, wishlistID int64) (int, error)
}

// ItemRepository defines the interface for wishlist item operations
type ItemRepository interface {
	Create(ctx context.Context, item *models.Item) (*models.Item, error)
	GetByID(ctx context.Context, id int64) (*models.Item, error)
	// ListActive returns active items with adder, claimant and acquirer
	// profiles resolved.
	ListActive(ctx context.Context, wishlistID int64) ([]*models.Item, error)
	Update(ctx context.Context, item *models.Item) (*models.Item, error)
	// SetClaimedBy overwrites the claimant unconditionally; nil clears it.
	SetClaimedBy(ctx context.Context, itemID int64, userID *int64) (*models.Item, error)
	// SetAcquiredBy overwrites the acquirer unconditionally; nil clears it.
	SetAcquiredBy(ctx context.Context, itemID int64, userID *int64) (*models.Item, error)
}
