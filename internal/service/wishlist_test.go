package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kerhoff/giftlist/internal/models"
)

func TestCreateWishlistAddsSingleOwner(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, VisibilityAdder)
	owner := mustUser(t, svc, "uid-a", "a@x.com")

	list, err := svc.CreateWishlist(ctx, owner.ID, " Birthday ", strptr("Emma"))
	require.NoError(t, err)
	assert.Equal(t, "Birthday", list.Title)
	assert.Equal(t, owner.ID, list.CreatedByID)
	_, err = uuid.Parse(list.InvitationID)
	require.NoError(t, err, "invitation id must be a uuid")

	members, err := svc.ListMembers(ctx, list.ID)
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, owner.ID, members[0].UserID)
	assert.Equal(t, models.RoleOwner, members[0].Role)
}

func TestCreateWishlistValidation(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, VisibilityAdder)
	owner := mustUser(t, svc, "uid-a", "a@x.com")

	_, err := svc.CreateWishlist(ctx, owner.ID, "   ", nil)
	require.ErrorIs(t, err, ErrBadRequest)

	_, err = svc.CreateWishlist(ctx, 999, "Birthday", nil)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestCreateWishlistTokensAreUnique(t *testing.T) {
	svc := newTestService(t, VisibilityAdder)
	owner := mustUser(t, svc, "uid-a", "a@x.com")

	seen := make(map[string]bool)
	for i := 0; i < 20; i++ {
		list := mustWishlist(t, svc, owner.ID, "List")
		require.False(t, seen[list.InvitationID])
		seen[list.InvitationID] = true
	}
}

func TestGetWishlistNotFound(t *testing.T) {
	svc := newTestService(t, VisibilityAdder)
	_, err := svc.GetWishlist(context.Background(), 7)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestJoinAddRemoveRoundTrip(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, VisibilityAdder)
	a := mustUser(t, svc, "uid-a", "a@x.com")
	b := mustUser(t, svc, "uid-b", "b@x.com")
	list := mustWishlist(t, svc, a.ID, "Birthday")

	wishlistID, err := svc.JoinByInvitationToken(ctx, list.InvitationID, b.ID)
	require.NoError(t, err)
	require.Equal(t, list.ID, wishlistID)

	// Validation alone does not create a membership.
	members, err := svc.ListMembers(ctx, list.ID)
	require.NoError(t, err)
	require.Len(t, members, 1)

	require.NoError(t, svc.AddMember(ctx, wishlistID, b.ID, ""))

	members, err = svc.ListMembers(ctx, list.ID)
	require.NoError(t, err)
	require.Len(t, members, 2)
	assert.Equal(t, models.RoleOwner, members[0].Role)
	assert.Equal(t, b.ID, members[1].UserID)
	assert.Equal(t, models.RoleContributor, members[1].Role)

	require.NoError(t, svc.RemoveMember(ctx, list.ID, b.ID))

	members, err = svc.ListMembers(ctx, list.ID)
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, a.ID, members[0].UserID)
}

func TestJoinByInvitationTokenUnknown(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, VisibilityAdder)

	_, err := svc.JoinByInvitationToken(ctx, "not-a-uuid", 1)
	require.ErrorIs(t, err, ErrNotFound)

	_, err = svc.JoinByInvitationToken(ctx, uuid.NewString(), 1)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestAddMember(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, VisibilityAdder)
	a := mustUser(t, svc, "uid-a", "a@x.com")
	b := mustUser(t, svc, "uid-b", "b@x.com")
	list := mustWishlist(t, svc, a.ID, "Birthday")

	require.NoError(t, svc.AddMember(ctx, list.ID, b.ID, models.RoleContributor))

	t.Run("duplicate is a conflict", func(t *testing.T) {
		err := svc.AddMember(ctx, list.ID, b.ID, models.RoleContributor)
		require.ErrorIs(t, err, ErrConflict)

		members, err := svc.ListMembers(ctx, list.ID)
		require.NoError(t, err)
		assert.Len(t, members, 2)
	})

	t.Run("owner joining again is a conflict", func(t *testing.T) {
		require.ErrorIs(t, svc.AddMember(ctx, list.ID, a.ID, ""), ErrConflict)
	})

	t.Run("unknown wishlist or user", func(t *testing.T) {
		require.ErrorIs(t, svc.AddMember(ctx, 999, b.ID, ""), ErrNotFound)
		require.ErrorIs(t, svc.AddMember(ctx, list.ID, 999, ""), ErrNotFound)
	})

	t.Run("unknown role", func(t *testing.T) {
		c := mustUser(t, svc, "uid-c", "c@x.com")
		require.ErrorIs(t, svc.AddMember(ctx, list.ID, c.ID, "admin"), ErrBadRequest)
	})
}

func TestRemoveMember(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, VisibilityAdder)
	a := mustUser(t, svc, "uid-a", "a@x.com")
	b := mustUser(t, svc, "uid-b", "b@x.com")
	list := mustWishlist(t, svc, a.ID, "Birthday")

	t.Run("not a member", func(t *testing.T) {
		require.ErrorIs(t, svc.RemoveMember(ctx, list.ID, b.ID), ErrNotFound)
	})

	t.Run("last owner cannot leave", func(t *testing.T) {
		require.ErrorIs(t, svc.RemoveMember(ctx, list.ID, a.ID), ErrConflict)
	})

	t.Run("an owner may leave when another owner remains", func(t *testing.T) {
		require.NoError(t, svc.AddMember(ctx, list.ID, b.ID, models.RoleOwner))
		require.NoError(t, svc.RemoveMember(ctx, list.ID, a.ID))

		members, err := svc.ListMembers(ctx, list.ID)
		require.NoError(t, err)
		require.Len(t, members, 1)
		assert.Equal(t, b.ID, members[0].UserID)
	})
}

func TestListWishlistsForUser(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, VisibilityAdder)
	a := mustUser(t, svc, "uid-a", "a@x.com")
	b := mustUser(t, svc, "uid-b", "b@x.com")

	mine := mustWishlist(t, svc, a.ID, "Mine")
	shared := mustWishlist(t, svc, b.ID, "Shared")
	mustWishlist(t, svc, b.ID, "Not mine")
	require.NoError(t, svc.AddMember(ctx, shared.ID, a.ID, ""))

	lists, err := svc.ListWishlistsForUser(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, lists, 2)
	assert.Equal(t, mine.ID, lists[0].ID)
	assert.Len(t, lists[0].Members, 1)
	assert.Equal(t, shared.ID, lists[1].ID)
	assert.Len(t, lists[1].Members, 2)

	none, err := svc.ListWishlistsForUser(ctx, 999)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestListMembersUnknownWishlist(t *testing.T) {
	svc := newTestService(t, VisibilityAdder)
	_, err := svc.ListMembers(context.Background(), 5)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestIsMember(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, VisibilityAdder)
	a := mustUser(t, svc, "uid-a", "a@x.com")
	b := mustUser(t, svc, "uid-b", "b@x.com")
	list := mustWishlist(t, svc, a.ID, "Birthday")

	member, err := svc.IsMember(ctx, list.ID, a.ID)
	require.NoError(t, err)
	assert.True(t, member)

	member, err = svc.IsMember(ctx, list.ID, b.ID)
	require.NoError(t, err)
	assert.False(t, member)
}
