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

var itemRowColumns = []string{
	"id", "wishlist_id", "name", "description", "url",
	"added_by_id", "claimed_by_id", "acquired_by_id", "active",
	"created_at", "updated_at",
	"adder_name", "adder_email",
	"claimant_name", "claimant_email",
	"acquirer_name", "acquirer_email",
}

func itemRow(rows *sqlmock.Rows, id int64, claimedBy any) *sqlmock.Rows {
	now := time.Now().UTC()
	var claimantName, claimantEmail any
	if claimedBy != nil {
		claimantName, claimantEmail = "Bob", "bob@example.com"
	}
	return rows.AddRow(id, 5, "Bike", nil, "https://shop.example/bike",
		1, claimedBy, nil, true,
		now, now,
		"Ann", "ann@example.com",
		claimantName, claimantEmail,
		nil, nil)
}

func TestItemCreate(t *testing.T) {
	db, mock := newMock(t)
	repo := NewItemRepository(db)
	now := time.Now().UTC()

	mock.ExpectQuery(`INSERT INTO items`).
		WithArgs(int64(5), "Bike", sqlmock.AnyArg(), sqlmock.AnyArg(), int64(1), true, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(11, now, now))

	item, err := repo.Create(context.Background(), &models.Item{WishlistID: 5, Name: "Bike", AddedByID: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(11), item.ID)
	assert.True(t, item.Active)
}

func TestItemCreateUnknownWishlist(t *testing.T) {
	db, mock := newMock(t)
	repo := NewItemRepository(db)

	mock.ExpectQuery(`INSERT INTO items`).
		WillReturnError(&pq.Error{Code: "23503", Constraint: "items_wishlist_id_fkey"})

	_, err := repo.Create(context.Background(), &models.Item{WishlistID: 99, Name: "Bike", AddedByID: 1})
	assert.ErrorIs(t, err, repository.ErrForeignKey)
}

func TestItemGetByIDResolvesProfiles(t *testing.T) {
	db, mock := newMock(t)
	repo := NewItemRepository(db)

	mock.ExpectQuery(`LEFT JOIN users c ON c.id = i.claimed_by_id`).
		WithArgs(int64(11)).
		WillReturnRows(itemRow(sqlmock.NewRows(itemRowColumns), 11, int64(2)))

	item, err := repo.GetByID(context.Background(), 11)
	require.NoError(t, err)
	require.NotNil(t, item)
	assert.Nil(t, item.Description)
	require.NotNil(t, item.URL)
	require.NotNil(t, item.AddedBy)
	assert.Equal(t, "ann@example.com", item.AddedBy.Email)
	require.NotNil(t, item.ClaimedBy)
	assert.Equal(t, int64(2), item.ClaimedBy.ID)
	assert.Equal(t, "bob@example.com", item.ClaimedBy.Email)
	assert.Nil(t, item.AcquiredBy)
}

func TestItemGetByIDMissing(t *testing.T) {
	db, mock := newMock(t)
	repo := NewItemRepository(db)

	mock.ExpectQuery(`WHERE i.id = \$1`).
		WithArgs(int64(12)).
		WillReturnRows(sqlmock.NewRows(itemRowColumns))

	item, err := repo.GetByID(context.Background(), 12)
	require.NoError(t, err)
	assert.Nil(t, item)
}

func TestItemListActive(t *testing.T) {
	db, mock := newMock(t)
	repo := NewItemRepository(db)

	rows := sqlmock.NewRows(itemRowColumns)
	itemRow(rows, 11, nil)
	itemRow(rows, 12, int64(2))
	mock.ExpectQuery(`WHERE i.wishlist_id = \$1 AND i.active = true`).
		WithArgs(int64(5)).
		WillReturnRows(rows)

	items, err := repo.ListActive(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Nil(t, items[0].ClaimedBy)
	assert.NotNil(t, items[1].ClaimedBy)
}

func TestItemSetClaimedBy(t *testing.T) {
	db, mock := newMock(t)
	repo := NewItemRepository(db)

	mock.ExpectExec(`UPDATE items SET claimed_by_id = \$2`).
		WithArgs(int64(11), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`WHERE i.id = \$1`).
		WithArgs(int64(11)).
		WillReturnRows(itemRow(sqlmock.NewRows(itemRowColumns), 11, int64(2)))

	claimant := int64(2)
	item, err := repo.SetClaimedBy(context.Background(), 11, &claimant)
	require.NoError(t, err)
	require.NotNil(t, item.ClaimedByID)
	assert.Equal(t, claimant, *item.ClaimedByID)
}

func TestItemSetAcquiredByMissingItem(t *testing.T) {
	db, mock := newMock(t)
	repo := NewItemRepository(db)

	mock.ExpectExec(`UPDATE items SET acquired_by_id = \$2`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	item, err := repo.SetAcquiredBy(context.Background(), 99, nil)
	require.NoError(t, err)
	assert.Nil(t, item)
}

func TestItemSetClaimedByUnknownUser(t *testing.T) {
	db, mock := newMock(t)
	repo := NewItemRepository(db)

	mock.ExpectExec(`UPDATE items SET claimed_by_id = \$2`).
		WillReturnError(&pq.Error{Code: "23503", Constraint: "items_claimed_by_id_fkey"})

	ghost := int64(404)
	_, err := repo.SetClaimedBy(context.Background(), 11, &ghost)
	assert.ErrorIs(t, err, repository.ErrForeignKey)
}

func TestItemUpdate(t *testing.T) {
	db, mock := newMock(t)
	repo := NewItemRepository(db)

	mock.ExpectExec(`UPDATE items\s+SET name = \$2`).
		WithArgs(int64(11), "Bike", sqlmock.AnyArg(), sqlmock.AnyArg(), false, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`WHERE i.id = \$1`).
		WithArgs(int64(11)).
		WillReturnRows(itemRow(sqlmock.NewRows(itemRowColumns), 11, nil))

	_, err := repo.Update(context.Background(), &models.Item{ID: 11, Name: "Bike", Active: false})
	require.NoError(t, err)
}
