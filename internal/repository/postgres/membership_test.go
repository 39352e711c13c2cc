package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kerhoff/giftlist/internal/models"
	"github.com/Kerhoff/giftlist/internal/repository"
)

func TestMembershipAdd(t *testing.T) {
	db, mock := newMock(t)
	repo := NewMembershipRepository(db)
	now := time.Now().UTC()

	mock.ExpectQuery(`INSERT INTO wishlist_users`).
		WithArgs(int64(5), int64(2), "contributor", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"joined_at"}).AddRow(now))

	m, err := repo.Add(context.Background(), &models.Membership{WishlistID: 5, UserID: 2, Role: models.RoleContributor})
	require.NoError(t, err)
	assert.Equal(t, now, m.JoinedAt)
}

func TestMembershipAddDuplicate(t *testing.T) {
	db, mock := newMock(t)
	repo := NewMembershipRepository(db)

	mock.ExpectQuery(`INSERT INTO wishlist_users`).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "wishlist_users_pkey"})

	_, err := repo.Add(context.Background(), &models.Membership{WishlistID: 5, UserID: 2, Role: models.RoleContributor})
	assert.ErrorIs(t, err, repository.ErrDuplicate)
}

func TestMembershipGet(t *testing.T) {
	db, mock := newMock(t)
	repo := NewMembershipRepository(db)
	now := time.Now().UTC()

	mock.ExpectQuery(`FROM wishlist_users`).
		WithArgs(int64(5), int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"wishlist_id", "user_id", "role", "joined_at"}).AddRow(5, 1, "owner", now))
	mock.ExpectQuery(`FROM wishlist_users`).
		WithArgs(int64(5), int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"wishlist_id", "user_id", "role", "joined_at"}))

	m, err := repo.Get(context.Background(), 5, 1)
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Equal(t, models.RoleOwner, m.Role)

	m, err = repo.Get(context.Background(), 5, 3)
	require.NoError(t, err)
	assert.Nil(t, m)
}

func TestMembershipRemove(t *testing.T) {
	db, mock := newMock(t)
	repo := NewMembershipRepository(db)

	mock.ExpectExec(`DELETE FROM wishlist_users`).
		WithArgs(int64(5), int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM wishlist_users`).
		WithArgs(int64(5), int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	removed, err := repo.Remove(context.Background(), 5, 2)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = repo.Remove(context.Background(), 5, 2)
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestMembershipListMembersFor(t *testing.T) {
	db, mock := newMock(t)
	repo := NewMembershipRepository(db)

	mock.ExpectQuery(`WHERE wu.wishlist_id = ANY\(\$1\)`).
		WillReturnRows(sqlmock.NewRows([]string{"wishlist_id", "id", "name", "role"}).
			AddRow(5, 1, "Ann", "owner").
			AddRow(5, 2, nil, "contributor").
			AddRow(6, 2, nil, "owner"))

	byList, err := repo.ListMembersFor(context.Background(), []int64{5, 6, 7})
	require.NoError(t, err)
	require.Len(t, byList[5], 2)
	assert.Equal(t, models.RoleOwner, byList[5][0].Role)
	assert.Nil(t, byList[5][1].Name)
	require.Len(t, byList[6], 1)
	assert.Empty(t, byList[7])
}

func TestMembershipListMembersForEmptySkipsQuery(t *testing.T) {
	db, _ := newMock(t)
	repo := NewMembershipRepository(db)

	byList, err := repo.ListMembersFor(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, byList)
}

func TestMembershipListMembersNeverNil(t *testing.T) {
	db, mock := newMock(t)
	repo := NewMembershipRepository(db)

	mock.ExpectQuery(`WHERE wu.wishlist_id = ANY\(\$1\)`).
		WillReturnRows(sqlmock.NewRows([]string{"wishlist_id", "id", "name", "role"}))

	members, err := repo.ListMembers(context.Background(), 5)
	require.NoError(t, err)
	assert.NotNil(t, members)
	assert.Empty(t, members)
}

func TestMembershipCountOwners(t *testing.T) {
	db, mock := newMock(t)
	repo := NewMembershipRepository(db)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM wishlist_users`).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	n, err := repo.CountOwners(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}
