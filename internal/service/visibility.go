package service

import (
	"fmt"
	"strings"

	"github.com/Kerhoff/giftlist/internal/models"
)

// ItemVisibility decides who may fetch a single item
type ItemVisibility string

const (
	// VisibilityAdder allows only the user who added the item.
	VisibilityAdder ItemVisibility = "adder"
	// VisibilityMembers allows any member of the item's wishlist.
	VisibilityMembers ItemVisibility = "members"
	// VisibilitySurprise allows members other than the adder, so whoever
	// wished for the item cannot see who is getting it.
	VisibilitySurprise ItemVisibility = "surprise"
)

// ParseItemVisibility converts a configuration value into a policy
func ParseItemVisibility(raw string) (ItemVisibility, error) {
	switch v := ItemVisibility(strings.ToLower(strings.TrimSpace(raw))); v {
	case "":
		return VisibilityAdder, nil
	case VisibilityAdder, VisibilityMembers, VisibilitySurprise:
		return v, nil
	}
	return "", fmt.Errorf("unknown item visibility %q (want adder, members or surprise)", raw)
}

// allows reports whether the policy lets a user with the given membership see
// the item. membership is nil for users outside the wishlist.
func (v ItemVisibility) allows(item *models.Item, userID int64, membership *models.Membership) bool {
	switch v {
	case VisibilityMembers:
		return membership != nil
	case VisibilitySurprise:
		return membership != nil && item.AddedByID != userID
	default:
		return item.AddedByID == userID
	}
}
