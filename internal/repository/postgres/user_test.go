package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kerhoff/giftlist/internal/models"
	"github.com/Kerhoff/giftlist/internal/repository"
)

var userRowColumns = []string{"id", "external_id", "email", "name", "created_at", "updated_at"}

func TestUserCreate(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUserRepository(db)
	now := time.Now().UTC()

	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs("ext-1", "a@example.com", sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(7, now, now))

	user, err := repo.Create(context.Background(), &models.User{
		ExternalID: "ext-1",
		Email:      "a@example.com",
		Name:       strptr("Ann"),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(7), user.ID)
	assert.Equal(t, now, user.CreatedAt)
}

func TestUserCreateDuplicate(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery(`INSERT INTO users`).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "idx_users_email"})

	_, err := repo.Create(context.Background(), &models.User{ExternalID: "ext-1", Email: "a@example.com"})
	assert.ErrorIs(t, err, repository.ErrDuplicate)
}

func TestUserGetByExternalID(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUserRepository(db)
	now := time.Now().UTC()

	mock.ExpectQuery(`FROM users WHERE external_id = \$1`).
		WithArgs("ext-1").
		WillReturnRows(sqlmock.NewRows(userRowColumns).AddRow(7, "ext-1", "a@example.com", nil, now, now))

	user, err := repo.GetByExternalID(context.Background(), "ext-1")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, int64(7), user.ID)
	assert.Nil(t, user.Name)
}

func TestUserGetMissingReturnsNil(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery(`FROM users WHERE id = \$1`).
		WithArgs(int64(9)).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery(`lower\(email\) = lower\(\$1\)`).
		WithArgs("A@example.com").
		WillReturnRows(sqlmock.NewRows(userRowColumns))

	user, err := repo.GetByID(context.Background(), 9)
	require.NoError(t, err)
	assert.Nil(t, user)

	user, err = repo.GetByEmail(context.Background(), "A@example.com")
	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestUserUpdate(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUserRepository(db)
	now := time.Now().UTC()

	mock.ExpectQuery(`UPDATE users`).
		WithArgs(int64(7), "b@example.com", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"updated_at"}).AddRow(now))
	mock.ExpectQuery(`UPDATE users`).
		WillReturnError(sql.ErrNoRows)

	user, err := repo.Update(context.Background(), &models.User{ID: 7, Email: "b@example.com"})
	require.NoError(t, err)
	assert.Equal(t, now, user.UpdatedAt)

	user, err = repo.Update(context.Background(), &models.User{ID: 8, Email: "c@example.com"})
	require.NoError(t, err)
	assert.Nil(t, user)
}
