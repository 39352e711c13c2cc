package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ValidateInvitationToken resolves token to a wishlist id.
//
// A token that is not a UUID fails with ErrBadRequest. A well-formed token
// that matches nothing returns found == false and a nil error; callers branch
// on the difference.
func (s *Service) ValidateInvitationToken(ctx context.Context, token string) (int64, bool, error) {
	parsed, err := uuid.Parse(strings.TrimSpace(token))
	if err != nil {
		return 0, false, fmt.Errorf("%w: invitation id is not a valid uuid", ErrBadRequest)
	}

	list, err := s.Wishlists.GetByInvitationID(ctx, parsed.String())
	if err != nil {
		return 0, false, fmt.Errorf("failed to resolve invitation: %w", err)
	}
	if list == nil {
		return 0, false, nil
	}
	return list.ID, true, nil
}

func isBadRequest(err error) bool {
	return errors.Is(err, ErrBadRequest)
}
