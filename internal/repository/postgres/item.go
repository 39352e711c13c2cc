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

// selectItems resolves the three user references of an item in one pass.
const selectItems = `
	SELECT i.id, i.wishlist_id, i.name, i.description, i.url,
	       i.added_by_id, i.claimed_by_id, i.acquired_by_id, i.active,
	       i.created_at, i.updated_at,
	       a.name, a.email,
	       c.name, c.email,
	       q.name, q.email
	FROM items i
	JOIN users a ON a.id = i.added_by_id
	LEFT JOIN users c ON c.id = i.claimed_by_id
	LEFT JOIN users q ON q.id = i.acquired_by_id`

type rowScanner interface {
	Scan(dest ...any) error
}

type itemRepository struct {
	db *sql.DB
}

// NewItemRepository creates a new item repository
func NewItemRepository(db *sql.DB) repository.ItemRepository {
	return &itemRepository{db: db}
}

func (r *itemRepository) Create(ctx context.Context, item *models.Item) (*models.Item, error) {
	query := `
		INSERT INTO items (wishlist_id, name, description, url, added_by_id, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at`

	now := time.Now().UTC()
	item.Active = true
	item.CreatedAt = now
	item.UpdatedAt = now

	err := r.db.QueryRowContext(ctx, query,
		item.WishlistID,
		item.Name,
		item.Description,
		item.URL,
		item.AddedByID,
		item.Active,
		item.CreatedAt,
		item.UpdatedAt,
	).Scan(&item.ID, &item.CreatedAt, &item.UpdatedAt)

	if err != nil {
		return nil, fmt.Errorf("failed to create item: %w", translate(err))
	}

	return item, nil
}

func (r *itemRepository) GetByID(ctx context.Context, id int64) (*models.Item, error) {
	item, err := scanItem(r.db.QueryRowContext(ctx, selectItems+` WHERE i.id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get item by ID: %w", err)
	}
	return item, nil
}

func (r *itemRepository) ListActive(ctx context.Context, wishlistID int64) ([]*models.Item, error) {
	query := selectItems + `
		WHERE i.wishlist_id = $1 AND i.active = true
		ORDER BY i.created_at ASC, i.id ASC`

	rows, err := r.db.QueryContext(ctx, query, wishlistID)
	if err != nil {
		return nil, fmt.Errorf("failed to query items: %w", err)
	}
	defer rows.Close()

	items := []*models.Item{}
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, item)
	}

	return items, rows.Err()
}

func (r *itemRepository) Update(ctx context.Context, item *models.Item) (*models.Item, error) {
	query := `
		UPDATE items
		SET name = $2, description = $3, url = $4, active = $5, updated_at = $6
		WHERE id = $1`

	found, err := r.exec(ctx, query,
		item.ID,
		item.Name,
		item.Description,
		item.URL,
		item.Active,
		time.Now().UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update item: %w", err)
	}
	if !found {
		return nil, nil
	}

	return r.GetByID(ctx, item.ID)
}

func (r *itemRepository) SetClaimedBy(ctx context.Context, itemID int64, userID *int64) (*models.Item, error) {
	query := `UPDATE items SET claimed_by_id = $2, updated_at = $3 WHERE id = $1`

	found, err := r.exec(ctx, query, itemID, userID, time.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to set item claimant: %w", err)
	}
	if !found {
		return nil, nil
	}

	return r.GetByID(ctx, itemID)
}

func (r *itemRepository) SetAcquiredBy(ctx context.Context, itemID int64, userID *int64) (*models.Item, error) {
	query := `UPDATE items SET acquired_by_id = $2, updated_at = $3 WHERE id = $1`

	found, err := r.exec(ctx, query, itemID, userID, time.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to set item acquirer: %w", err)
	}
	if !found {
		return nil, nil
	}

	return r.GetByID(ctx, itemID)
}

// exec runs a single-row mutation and reports whether the row existed.
func (r *itemRepository) exec(ctx context.Context, query string, args ...any) (bool, error) {
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, translate(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected > 0, nil
}

func scanItem(row rowScanner) (*models.Item, error) {
	item := &models.Item{}
	var (
		adderName, claimantName, acquirerName sql.NullString
		adderEmail                            string
		claimantEmail, acquirerEmail          sql.NullString
	)

	err := row.Scan(
		&item.ID,
		&item.WishlistID,
		&item.Name,
		&item.Description,
		&item.URL,
		&item.AddedByID,
		&item.ClaimedByID,
		&item.AcquiredByID,
		&item.Active,
		&item.CreatedAt,
		&item.UpdatedAt,
		&adderName, &adderEmail,
		&claimantName, &claimantEmail,
		&acquirerName, &acquirerEmail,
	)
	if err != nil {
		return nil, err
	}

	item.AddedBy = &models.UserSummary{ID: item.AddedByID, Name: nullString(adderName), Email: adderEmail}
	if item.ClaimedByID != nil {
		item.ClaimedBy = &models.UserSummary{ID: *item.ClaimedByID, Name: nullString(claimantName), Email: claimantEmail.String}
	}
	if item.AcquiredByID != nil {
		item.AcquiredBy = &models.UserSummary{ID: *item.AcquiredByID, Name: nullString(acquirerName), Email: acquirerEmail.String}
	}

	return item, nil
}

func nullString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}
