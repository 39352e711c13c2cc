package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/Kerhoff/giftlist/internal/models"
	"github.com/Kerhoff/giftlist/internal/repository"
)

type wishlistRepository struct {
	s *Store
}

func (r *wishlistRepository) CreateWithOwner(_ context.Context, list *models.Wishlist) (*models.Wishlist, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := r.s.requireUser(list.CreatedByID); err != nil {
		return nil, fmt.Errorf("failed to insert wishlist: %w", err)
	}
	for _, w := range r.s.wishlists {
		if w.InvitationID == list.InvitationID {
			return nil, fmt.Errorf("failed to insert wishlist: %w: wishlists_invitation_id_key", repository.ErrDuplicate)
		}
	}

	r.s.nextWishlistID++
	stored := *list
	stored.ID = r.s.nextWishlistID
	stored.RecipientName = cloneString(list.RecipientName)
	stored.CreatedAt = time.Now().UTC()
	stored.Members = nil
	r.s.wishlists[stored.ID] = stored

	r.s.memberships[membershipKey{stored.ID, stored.CreatedByID}] = models.Membership{
		WishlistID: stored.ID,
		UserID:     stored.CreatedByID,
		Role:       models.RoleOwner,
		JoinedAt:   stored.CreatedAt,
	}

	out := stored
	return &out, nil
}

func (r *wishlistRepository) GetByID(_ context.Context, id int64) (*models.Wishlist, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	w, ok := r.s.wishlists[id]
	if !ok {
		return nil, nil
	}
	w.RecipientName = cloneString(w.RecipientName)
	return &w, nil
}

func (r *wishlistRepository) GetByInvitationID(_ context.Context, invitationID string) (*models.Wishlist, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, w := range r.s.wishlists {
		if w.InvitationID == invitationID {
			w.RecipientName = cloneString(w.RecipientName)
			return &w, nil
		}
	}
	return nil, nil
}

func (r *wishlistRepository) ListByMember(_ context.Context, userID int64) ([]*models.Wishlist, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	lists := []*models.Wishlist{}
	for key := range r.s.memberships {
		if key.userID != userID {
			continue
		}
		w := r.s.wishlists[key.wishlistID]
		w.RecipientName = cloneString(w.RecipientName)
		lists = append(lists, &w)
	}
	sort.Slice(lists, func(i, j int) bool { return lists[i].ID < lists[j].ID })
	return lists, nil
}

type membershipRepository struct {
	s *Store
}

func (r *membershipRepository) Add(_ context.Context, m *models.Membership) (*models.Membership, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.wishlists[m.WishlistID]; !ok {
		return nil, fmt.Errorf("failed to add wishlist member: %w: wishlist %d", repository.ErrForeignKey, m.WishlistID)
	}
	if err := r.s.requireUser(m.UserID); err != nil {
		return nil, fmt.Errorf("failed to add wishlist member: %w", err)
	}
	key := membershipKey{m.WishlistID, m.UserID}
	if _, ok := r.s.memberships[key]; ok {
		return nil, fmt.Errorf("failed to add wishlist member: %w: wishlist_users_pkey", repository.ErrDuplicate)
	}

	stored := *m
	stored.JoinedAt = time.Now().UTC()
	r.s.memberships[key] = stored

	out := stored
	return &out, nil
}

func (r *membershipRepository) Get(_ context.Context, wishlistID, userID int64) (*models.Membership, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	m, ok := r.s.memberships[membershipKey{wishlistID, userID}]
	if !ok {
		return nil, nil
	}
	return &m, nil
}

func (r *membershipRepository) Remove(_ context.Context, wishlistID, userID int64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	key := membershipKey{wishlistID, userID}
	if _, ok := r.s.memberships[key]; !ok {
		return false, nil
	}
	delete(r.s.memberships, key)
	return true, nil
}

func (r *membershipRepository) ListMembers(ctx context.Context, wishlistID int64) ([]models.Member, error) {
	byList, err := r.ListMembersFor(ctx, []int64{wishlistID})
	if err != nil {
		return nil, err
	}
	members := byList[wishlistID]
	if members == nil {
		members = []models.Member{}
	}
	return members, nil
}

func (r *membershipRepository) ListMembersFor(_ context.Context, wishlistIDs []int64) (map[int64][]models.Member, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	wanted := make(map[int64]bool, len(wishlistIDs))
	for _, id := range wishlistIDs {
		wanted[id] = true
	}

	byList := make(map[int64][]models.Membership)
	for key, m := range r.s.memberships {
		if wanted[key.wishlistID] {
			byList[key.wishlistID] = append(byList[key.wishlistID], m)
		}
	}

	result := make(map[int64][]models.Member, len(byList))
	for id, ms := range byList {
		sort.Slice(ms, func(i, j int) bool {
			if (ms[i].Role == models.RoleOwner) != (ms[j].Role == models.RoleOwner) {
				return ms[i].Role == models.RoleOwner
			}
			if !ms[i].JoinedAt.Equal(ms[j].JoinedAt) {
				return ms[i].JoinedAt.Before(ms[j].JoinedAt)
			}
			return ms[i].UserID < ms[j].UserID
		})
		members := make([]models.Member, len(ms))
		for i, m := range ms {
			members[i] = models.Member{
				UserID: m.UserID,
				Name:   cloneString(r.s.users[m.UserID].Name),
				Role:   m.Role,
			}
		}
		result[id] = members
	}
	return result, nil
}

func (r *membershipRepository) CountOwners(_ context.Context, wishlistID int64) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	count := 0
	for key, m := range r.s.memberships {
		if key.wishlistID == wishlistID && m.Role == models.RoleOwner {
			count++
		}
	}
	return count, nil
}
