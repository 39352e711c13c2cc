package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/Kerhoff/giftlist/internal/models"
)

// Transition names an item claim or acquisition change
type Transition string

const (
	TransitionClaim     Transition = "claim"
	TransitionUnclaim   Transition = "unclaim"
	TransitionAcquire   Transition = "acquire"
	TransitionUnacquire Transition = "unacquire"
)

// AddItem adds an item to a wishlist on behalf of userID, who must be a member.
func (s *Service) AddItem(ctx context.Context, wishlistID, userID int64, name string, description, url *string) (*models.Item, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, badRequest("name is required")
	}
	if url != nil {
		if err := models.ValidateURL(*url); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadRequest, err)
		}
	}

	if _, err := s.GetWishlist(ctx, wishlistID); err != nil {
		return nil, err
	}
	membership, err := s.Memberships.Get(ctx, wishlistID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to check membership: %w", err)
	}
	if membership == nil {
		return nil, fmt.Errorf("%w: user %d is not a member of wishlist %d", ErrForbidden, userID, wishlistID)
	}

	item, err := s.Items.Create(ctx, &models.Item{
		WishlistID:  wishlistID,
		Name:        name,
		Description: trimmed(description),
		URL:         trimmed(url),
		AddedByID:   userID,
	})
	if err != nil {
		return nil, storeError("add item", err)
	}

	s.logger.WithFields(logrus.Fields{
		"wishlist_id": wishlistID,
		"item_id":     item.ID,
		"user_id":     userID,
	}).Info("Added item")
	return item, nil
}

// ListActiveItems returns the wishlist's active items with profiles resolved
func (s *Service) ListActiveItems(ctx context.Context, wishlistID int64) ([]*models.Item, error) {
	if _, err := s.GetWishlist(ctx, wishlistID); err != nil {
		return nil, err
	}
	items, err := s.Items.ListActive(ctx, wishlistID)
	if err != nil {
		return nil, fmt.Errorf("failed to list items of wishlist %d: %w", wishlistID, err)
	}
	return items, nil
}

// GetItem returns an item if the configured visibility policy lets
// requestingUserID see it.
func (s *Service) GetItem(ctx context.Context, itemID, requestingUserID int64) (*models.Item, error) {
	item, err := s.findItem(ctx, itemID)
	if err != nil {
		return nil, err
	}

	var membership *models.Membership
	if s.visibility != VisibilityAdder {
		membership, err = s.Memberships.Get(ctx, item.WishlistID, requestingUserID)
		if err != nil {
			return nil, fmt.Errorf("failed to check membership: %w", err)
		}
	}
	if !s.visibility.allows(item, requestingUserID, membership) {
		return nil, fmt.Errorf("%w: user %d may not view item %d", ErrForbidden, requestingUserID, itemID)
	}
	return item, nil
}

// EditItem applies the present fields of patch. Deactivation is the only
// removal; setting active back to true restores the item.
func (s *Service) EditItem(ctx context.Context, itemID int64, patch models.ItemPatch) (*models.Item, error) {
	if err := patch.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadRequest, err)
	}

	item, err := s.findItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if patch.Empty() {
		return item, nil
	}

	patch.Apply(item)
	updated, err := s.Items.Update(ctx, item)
	if err != nil {
		return nil, storeError("edit item", err)
	}
	if updated == nil {
		return nil, fmt.Errorf("%w: item %d", ErrNotFound, itemID)
	}

	s.logger.WithField("item_id", itemID).Info("Edited item")
	return updated, nil
}

// Claim records userID as intending to get the item. Any previous claimant is
// overwritten: the last caller wins.
func (s *Service) Claim(ctx context.Context, itemID, userID int64) (*models.Item, error) {
	item, err := s.Items.SetClaimedBy(ctx, itemID, &userID)
	return s.transitioned(TransitionClaim, itemID, item, err)
}

// Unclaim clears the claimant regardless of who set it
func (s *Service) Unclaim(ctx context.Context, itemID int64) (*models.Item, error) {
	item, err := s.Items.SetClaimedBy(ctx, itemID, nil)
	return s.transitioned(TransitionUnclaim, itemID, item, err)
}

// Acquire records userID as having obtained the item, overwriting any
// previous acquirer.
func (s *Service) Acquire(ctx context.Context, itemID, userID int64) (*models.Item, error) {
	item, err := s.Items.SetAcquiredBy(ctx, itemID, &userID)
	return s.transitioned(TransitionAcquire, itemID, item, err)
}

// Unacquire clears the acquirer regardless of who set it
func (s *Service) Unacquire(ctx context.Context, itemID int64) (*models.Item, error) {
	item, err := s.Items.SetAcquiredBy(ctx, itemID, nil)
	return s.transitioned(TransitionUnacquire, itemID, item, err)
}

func (s *Service) transitioned(t Transition, itemID int64, item *models.Item, err error) (*models.Item, error) {
	if err != nil {
		return nil, storeError(string(t)+" item", err)
	}
	if item == nil {
		return nil, fmt.Errorf("%w: item %d", ErrNotFound, itemID)
	}
	s.logger.WithFields(logrus.Fields{
		"item_id":    itemID,
		"transition": t,
		"claimed":    item.IsClaimed(),
		"acquired":   item.IsAcquired(),
	}).Info("Item state changed")
	return item, nil
}

func (s *Service) findItem(ctx context.Context, itemID int64) (*models.Item, error) {
	item, err := s.Items.GetByID(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to get item %d: %w", itemID, err)
	}
	if item == nil {
		return nil, fmt.Errorf("%w: item %d", ErrNotFound, itemID)
	}
	return item, nil
}
