package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/Kerhoff/giftlist/internal/models"
	"github.com/Kerhoff/giftlist/internal/repository"
)

type itemRepository struct {
	s *Store
}

func (r *itemRepository) Create(_ context.Context, item *models.Item) (*models.Item, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.wishlists[item.WishlistID]; !ok {
		return nil, fmt.Errorf("failed to create item: %w: wishlist %d", repository.ErrForeignKey, item.WishlistID)
	}
	if err := r.s.requireUser(item.AddedByID); err != nil {
		return nil, fmt.Errorf("failed to create item: %w", err)
	}

	r.s.nextItemID++
	now := time.Now().UTC()
	stored := models.Item{
		ID:          r.s.nextItemID,
		WishlistID:  item.WishlistID,
		Name:        item.Name,
		Description: cloneString(item.Description),
		URL:         cloneString(item.URL),
		AddedByID:   item.AddedByID,
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	r.s.items[stored.ID] = stored

	return r.s.resolve(copyItem(stored)), nil
}

func (r *itemRepository) GetByID(_ context.Context, id int64) (*models.Item, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	item, ok := r.s.items[id]
	if !ok {
		return nil, nil
	}
	return r.s.resolve(copyItem(item)), nil
}

func (r *itemRepository) ListActive(_ context.Context, wishlistID int64) ([]*models.Item, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	items := []*models.Item{}
	for _, item := range r.s.items {
		if item.WishlistID == wishlistID && item.Active {
			items = append(items, r.s.resolve(copyItem(item)))
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items, nil
}

func (r *itemRepository) Update(_ context.Context, item *models.Item) (*models.Item, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored, ok := r.s.items[item.ID]
	if !ok {
		return nil, nil
	}
	stored.Name = item.Name
	stored.Description = cloneString(item.Description)
	stored.URL = cloneString(item.URL)
	stored.Active = item.Active
	stored.UpdatedAt = time.Now().UTC()
	r.s.items[stored.ID] = stored

	return r.s.resolve(copyItem(stored)), nil
}

func (r *itemRepository) SetClaimedBy(_ context.Context, itemID int64, userID *int64) (*models.Item, error) {
	return r.set(itemID, userID, func(item *models.Item, v *int64) { item.ClaimedByID = v })
}

func (r *itemRepository) SetAcquiredBy(_ context.Context, itemID int64, userID *int64) (*models.Item, error) {
	return r.set(itemID, userID, func(item *models.Item, v *int64) { item.AcquiredByID = v })
}

func (r *itemRepository) set(itemID int64, userID *int64, assign func(*models.Item, *int64)) (*models.Item, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored, ok := r.s.items[itemID]
	if !ok {
		return nil, nil
	}
	if userID != nil {
		if err := r.s.requireUser(*userID); err != nil {
			return nil, fmt.Errorf("failed to update item: %w", err)
		}
	}
	assign(&stored, cloneInt(userID))
	stored.UpdatedAt = time.Now().UTC()
	r.s.items[itemID] = stored

	return r.s.resolve(copyItem(stored)), nil
}

func copyItem(item models.Item) models.Item {
	item.Description = cloneString(item.Description)
	item.URL = cloneString(item.URL)
	item.ClaimedByID = cloneInt(item.ClaimedByID)
	item.AcquiredByID = cloneInt(item.AcquiredByID)
	return item
}
