package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Kerhoff/giftlist/internal/models"
	"github.com/Kerhoff/giftlist/internal/repository"
)

type wishlistRepository struct {
	db *sql.DB
}

// NewWishlistRepository creates a new wishlist repository
func NewWishlistRepository(db *sql.DB) repository.WishlistRepository {
	return &wishlistRepository{db: db}
}

func (r *wishlistRepository) CreateWithOwner(ctx context.Context, list *models.Wishlist) (*models.Wishlist, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	list.CreatedAt = time.Now().UTC()

	err = tx.QueryRowContext(ctx, `
		INSERT INTO wishlists (title, recipient_name, created_by_id, created_at, invitation_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`,
		list.Title,
		list.RecipientName,
		list.CreatedByID,
		list.CreatedAt,
		list.InvitationID,
	).Scan(&list.ID, &list.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert wishlist: %w", translate(err))
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO wishlist_users (wishlist_id, user_id, role, joined_at)
		VALUES ($1, $2, $3, $4)`,
		list.ID, list.CreatedByID, string(models.RoleOwner), list.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert owner membership: %w", translate(err))
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return list, nil
}

func (r *wishlistRepository) GetByID(ctx context.Context, id int64) (*models.Wishlist, error) {
	query := `
		SELECT id, title, recipient_name, created_by_id, created_at, invitation_id
		FROM wishlists
		WHERE id = $1`

	list, err := scanWishlist(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("failed to get wishlist by ID: %w", err)
	}
	return list, nil
}

func (r *wishlistRepository) GetByInvitationID(ctx context.Context, invitationID string) (*models.Wishlist, error) {
	query := `
		SELECT id, title, recipient_name, created_by_id, created_at, invitation_id
		FROM wishlists
		WHERE invitation_id = $1`

	list, err := scanWishlist(r.db.QueryRowContext(ctx, query, invitationID))
	if err != nil {
		return nil, fmt.Errorf("failed to get wishlist by invitation ID: %w", err)
	}
	return list, nil
}

func (r *wishlistRepository) ListByMember(ctx context.Context, userID int64) ([]*models.Wishlist, error) {
	query := `
		SELECT w.id, w.title, w.recipient_name, w.created_by_id, w.created_at, w.invitation_id
		FROM wishlists w
		JOIN wishlist_users wu ON wu.wishlist_id = w.id
		WHERE wu.user_id = $1
		ORDER BY w.created_at ASC, w.id ASC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query wishlists by member: %w", err)
	}
	defer rows.Close()

	lists := []*models.Wishlist{}
	for rows.Next() {
		list := &models.Wishlist{}
		if err := rows.Scan(
			&list.ID,
			&list.Title,
			&list.RecipientName,
			&list.CreatedByID,
			&list.CreatedAt,
			&list.InvitationID,
		); err != nil {
			return nil, fmt.Errorf("failed to scan wishlist: %w", err)
		}
		lists = append(lists, list)
	}

	return lists, rows.Err()
}

func scanWishlist(row *sql.Row) (*models.Wishlist, error) {
	list := &models.Wishlist{}
	err := row.Scan(
		&list.ID,
		&list.Title,
		&list.RecipientName,
		&list.CreatedByID,
		&list.CreatedAt,
		&list.InvitationID,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return list, nil
}
