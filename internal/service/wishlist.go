package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/Kerhoff/giftlist/internal/models"
)

// CreateWishlist creates a wishlist owned by ownerID together with the
// owner's membership. Both rows are written in one transaction.
func (s *Service) CreateWishlist(ctx context.Context, ownerID int64, title string, recipientName *string) (*models.Wishlist, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, badRequest("title is required")
	}
	if _, err := s.GetUser(ctx, ownerID); err != nil {
		return nil, err
	}

	list, err := s.Wishlists.CreateWithOwner(ctx, &models.Wishlist{
		Title:         title,
		RecipientName: trimmed(recipientName),
		CreatedByID:   ownerID,
		InvitationID:  uuid.NewString(),
	})
	if err != nil {
		return nil, storeError("create wishlist", err)
	}

	s.logger.WithFields(logrus.Fields{
		"wishlist_id": list.ID,
		"owner_id":    ownerID,
	}).Infof("Created wishlist %q", list.Title)
	return list, nil
}

// GetWishlist looks up a wishlist by id
func (s *Service) GetWishlist(ctx context.Context, wishlistID int64) (*models.Wishlist, error) {
	list, err := s.Wishlists.GetByID(ctx, wishlistID)
	if err != nil {
		return nil, fmt.Errorf("failed to get wishlist %d: %w", wishlistID, err)
	}
	if list == nil {
		return nil, fmt.Errorf("%w: wishlist %d", ErrNotFound, wishlistID)
	}
	return list, nil
}

// IsMember reports whether the user holds any role on the wishlist
func (s *Service) IsMember(ctx context.Context, wishlistID, userID int64) (bool, error) {
	membership, err := s.Memberships.Get(ctx, wishlistID, userID)
	if err != nil {
		return false, fmt.Errorf("failed to check membership: %w", err)
	}
	return membership != nil, nil
}

// ListWishlistsForUser returns every wishlist the user belongs to, each
// annotated with its members.
func (s *Service) ListWishlistsForUser(ctx context.Context, userID int64) ([]*models.Wishlist, error) {
	lists, err := s.Wishlists.ListByMember(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list wishlists for user %d: %w", userID, err)
	}
	if len(lists) == 0 {
		return lists, nil
	}

	ids := make([]int64, len(lists))
	for i, list := range lists {
		ids[i] = list.ID
	}
	members, err := s.Memberships.ListMembersFor(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to list members for user %d wishlists: %w", userID, err)
	}
	for _, list := range lists {
		list.Members = members[list.ID]
		if list.Members == nil {
			list.Members = []models.Member{}
		}
	}
	return lists, nil
}

// ListMembers returns the users of a wishlist with their roles
func (s *Service) ListMembers(ctx context.Context, wishlistID int64) ([]models.Member, error) {
	if _, err := s.GetWishlist(ctx, wishlistID); err != nil {
		return nil, err
	}
	members, err := s.Memberships.ListMembers(ctx, wishlistID)
	if err != nil {
		return nil, fmt.Errorf("failed to list members of wishlist %d: %w", wishlistID, err)
	}
	return members, nil
}

// JoinByInvitationToken resolves an invitation token to the wishlist it
// grants access to. It does not create the membership; malformed and unknown
// tokens both fail with ErrNotFound.
func (s *Service) JoinByInvitationToken(ctx context.Context, token string, userID int64) (int64, error) {
	wishlistID, found, err := s.ValidateInvitationToken(ctx, token)
	if err != nil || !found {
		if err != nil && !isBadRequest(err) {
			return 0, err
		}
		return 0, fmt.Errorf("%w: invitation for user %d", ErrNotFound, userID)
	}
	return wishlistID, nil
}

// AddMember grants userID the role on the wishlist. An existing membership
// is a conflict and is left untouched.
func (s *Service) AddMember(ctx context.Context, wishlistID, userID int64, role models.Role) error {
	if role == "" {
		role = models.RoleContributor
	}
	if !role.Valid() {
		return badRequest("unknown role %q", role)
	}

	existing, err := s.Memberships.Get(ctx, wishlistID, userID)
	if err != nil {
		return fmt.Errorf("failed to check membership: %w", err)
	}
	if existing != nil {
		return fmt.Errorf("%w: user %d is already a member of wishlist %d", ErrConflict, userID, wishlistID)
	}

	if _, err := s.Memberships.Add(ctx, &models.Membership{
		WishlistID: wishlistID,
		UserID:     userID,
		Role:       role,
	}); err != nil {
		return storeError("add wishlist member", err)
	}

	s.logger.WithFields(logrus.Fields{
		"wishlist_id": wishlistID,
		"user_id":     userID,
		"role":        role,
	}).Info("Added wishlist member")
	return nil
}

// RemoveMember deletes the user's membership. The last owner cannot leave.
func (s *Service) RemoveMember(ctx context.Context, wishlistID, userID int64) error {
	membership, err := s.Memberships.Get(ctx, wishlistID, userID)
	if err != nil {
		return fmt.Errorf("failed to check membership: %w", err)
	}
	if membership == nil {
		return fmt.Errorf("%w: user %d is not associated with wishlist %d", ErrNotFound, userID, wishlistID)
	}

	if membership.Role == models.RoleOwner {
		owners, err := s.Memberships.CountOwners(ctx, wishlistID)
		if err != nil {
			return err
		}
		if owners <= 1 {
			return fmt.Errorf("%w: user %d is the last owner of wishlist %d", ErrConflict, userID, wishlistID)
		}
	}

	removed, err := s.Memberships.Remove(ctx, wishlistID, userID)
	if err != nil {
		return err
	}
	if !removed {
		return fmt.Errorf("%w: user %d is not associated with wishlist %d", ErrNotFound, userID, wishlistID)
	}

	s.logger.WithFields(logrus.Fields{
		"wishlist_id": wishlistID,
		"user_id":     userID,
	}).Info("Removed wishlist member")
	return nil
}
