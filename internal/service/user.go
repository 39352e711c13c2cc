package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/Kerhoff/giftlist/internal/models"
	"github.com/Kerhoff/giftlist/internal/repository"
)

// UpsertUserByExternalID returns the user bound to externalID, creating it on
// first sign-in. An existing user is returned unchanged. The email must not
// already belong to a different identity.
func (s *Service) UpsertUserByExternalID(ctx context.Context, externalID, email string, name *string) (*models.User, error) {
	externalID = strings.TrimSpace(externalID)
	email = strings.TrimSpace(email)
	if externalID == "" {
		return nil, badRequest("external_id is required")
	}
	if email == "" {
		return nil, badRequest("email is required")
	}

	user, err := s.Users.GetByExternalID(ctx, externalID)
	if err != nil {
		return nil, fmt.Errorf("failed to lookup user (external_id=%s): %w", externalID, err)
	}
	if user != nil {
		return user, nil
	}

	existing, err := s.Users.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to lookup user by email: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: email %s is bound to another identity", ErrConflict, email)
	}

	user, err = s.Users.Create(ctx, &models.User{
		ExternalID: externalID,
		Email:      email,
		Name:       trimmed(name),
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			// A concurrent first sign-in may have inserted the same identity.
			if again, lookupErr := s.Users.GetByExternalID(ctx, externalID); lookupErr == nil && again != nil {
				return again, nil
			}
		}
		return nil, storeError("create user", err)
	}

	s.logger.WithFields(logrus.Fields{"user_id": user.ID}).Infof("Created new user: %s", user.DisplayName())
	return user, nil
}

// GetByExternalID looks up a user by identity provider subject
func (s *Service) GetByExternalID(ctx context.Context, externalID string) (*models.User, error) {
	user, err := s.Users.GetByExternalID(ctx, strings.TrimSpace(externalID))
	if err != nil {
		return nil, fmt.Errorf("failed to lookup user (external_id=%s): %w", externalID, err)
	}
	if user == nil {
		return nil, fmt.Errorf("%w: user with external id %s", ErrNotFound, externalID)
	}
	return user, nil
}

// GetUser looks up a user by internal id
func (s *Service) GetUser(ctx context.Context, userID int64) (*models.User, error) {
	user, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to lookup user %d: %w", userID, err)
	}
	if user == nil {
		return nil, fmt.Errorf("%w: user %d", ErrNotFound, userID)
	}
	return user, nil
}

// UpdateProfile applies the present fields of patch to the user
func (s *Service) UpdateProfile(ctx context.Context, userID int64, patch models.UserPatch) (*models.User, error) {
	if err := patch.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadRequest, err)
	}

	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	patch.Apply(user)
	updated, err := s.Users.Update(ctx, user)
	if err != nil {
		return nil, storeError("update user", err)
	}
	if updated == nil {
		return nil, fmt.Errorf("%w: user %d", ErrNotFound, userID)
	}

	s.logger.WithField("user_id", userID).Info("Updated user profile")
	return updated, nil
}

func trimmed(p *string) *string {
	if p == nil {
		return nil
	}
	return models.Optional(*p)
}
