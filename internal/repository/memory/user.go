package memory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Kerhoff/giftlist/internal/models"
	"github.com/Kerhoff/giftlist/internal/repository"
)

type userRepository struct {
	s *Store
}

func (r *userRepository) Create(_ context.Context, user *models.User) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.users {
		if u.ExternalID == user.ExternalID {
			return nil, fmt.Errorf("failed to create user: %w: users_external_id_key", repository.ErrDuplicate)
		}
	}
	if r.s.emailTaken(user.Email, 0) {
		return nil, fmt.Errorf("failed to create user: %w: idx_users_email", repository.ErrDuplicate)
	}

	r.s.nextUserID++
	now := time.Now().UTC()
	stored := *user
	stored.ID = r.s.nextUserID
	stored.Name = cloneString(user.Name)
	stored.CreatedAt = now
	stored.UpdatedAt = now
	r.s.users[stored.ID] = stored

	out := stored
	return &out, nil
}

func (r *userRepository) GetByID(_ context.Context, id int64) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, nil
	}
	u.Name = cloneString(u.Name)
	return &u, nil
}

func (r *userRepository) GetByExternalID(_ context.Context, externalID string) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, u := range r.s.users {
		if u.ExternalID == externalID {
			u.Name = cloneString(u.Name)
			return &u, nil
		}
	}
	return nil, nil
}

func (r *userRepository) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, u := range r.s.users {
		if strings.EqualFold(u.Email, email) {
			u.Name = cloneString(u.Name)
			return &u, nil
		}
	}
	return nil, nil
}

func (r *userRepository) Update(_ context.Context, user *models.User) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored, ok := r.s.users[user.ID]
	if !ok {
		return nil, nil
	}
	if r.s.emailTaken(user.Email, user.ID) {
		return nil, fmt.Errorf("failed to update user: %w: idx_users_email", repository.ErrDuplicate)
	}

	stored.Email = user.Email
	stored.Name = cloneString(user.Name)
	stored.UpdatedAt = time.Now().UTC()
	r.s.users[stored.ID] = stored

	out := stored
	out.Name = cloneString(stored.Name)
	return &out, nil
}
