package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/Kerhoff/giftlist/internal/repository"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
	ErrConflict        = errors.New("conflict")
	ErrBadRequest      = errors.New("bad request")
)

// Service aggregates all repositories and provides the operations the API exposes
type Service struct {
	logger     *logrus.Logger
	visibility ItemVisibility

	Users       repository.UserRepository
	Wishlists   repository.WishlistRepository
	Memberships repository.MembershipRepository
	Items       repository.ItemRepository
}

// New creates a new Service with all required dependencies
func New(logger *logrus.Logger,
	users repository.UserRepository,
	wishlists repository.WishlistRepository,
	memberships repository.MembershipRepository,
	items repository.ItemRepository,
	visibility ItemVisibility,
) *Service {
	if visibility == "" {
		visibility = VisibilityAdder
	}
	return &Service{
		logger: logger, visibility: visibility,
		Users: users, Wishlists: wishlists,
		Memberships: memberships, Items: items,
	}
}

// Visibility returns the single-item fetch policy in effect
func (s *Service) Visibility() ItemVisibility {
	return s.visibility
}

// storeError lifts repository sentinels into the service taxonomy.
func storeError(op string, err error) error {
	switch {
	case errors.Is(err, repository.ErrDuplicate):
		return fmt.Errorf("%w: %s: %v", ErrConflict, op, err)
	case errors.Is(err, repository.ErrForeignKey):
		return fmt.Errorf("%w: %s: %v", ErrNotFound, op, err)
	}
	return fmt.Errorf("failed to %s: %w", op, err)
}

func badRequest(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrBadRequest, fmt.Sprintf(format, args...))
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
