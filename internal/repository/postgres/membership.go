package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/Kerhoff/giftlist/internal/models"
	"github.com/Kerhoff/giftlist/internal/repository"
)

type membershipRepository struct {
	db *sql.DB
}

// NewMembershipRepository creates a new wishlist membership repository
func NewMembershipRepository(db *sql.DB) repository.MembershipRepository {
	return &membershipRepository{db: db}
}

// Add inserts the pair without an upsert so a second join surfaces as ErrDuplicate.
func (r *membershipRepository) Add(ctx context.Context, m *models.Membership) (*models.Membership, error) {
	query := `
		INSERT INTO wishlist_users (wishlist_id, user_id, role, joined_at)
		VALUES ($1, $2, $3, $4)
		RETURNING joined_at`

	m.JoinedAt = time.Now().UTC()

	err := r.db.QueryRowContext(ctx, query,
		m.WishlistID, m.UserID, string(m.Role), m.JoinedAt,
	).Scan(&m.JoinedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to add wishlist member: %w", translate(err))
	}

	return m, nil
}

func (r *membershipRepository) Get(ctx context.Context, wishlistID, userID int64) (*models.Membership, error) {
	query := `
		SELECT wishlist_id, user_id, role, joined_at
		FROM wishlist_users
		WHERE wishlist_id = $1 AND user_id = $2`

	m := &models.Membership{}
	err := r.db.QueryRowContext(ctx, query, wishlistID, userID).Scan(
		&m.WishlistID,
		&m.UserID,
		&m.Role,
		&m.JoinedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get wishlist member: %w", err)
	}

	return m, nil
}

func (r *membershipRepository) Remove(ctx context.Context, wishlistID, userID int64) (bool, error) {
	query := `DELETE FROM wishlist_users WHERE wishlist_id = $1 AND user_id = $2`

	result, err := r.db.ExecContext(ctx, query, wishlistID, userID)
	if err != nil {
		return false, fmt.Errorf("failed to remove wishlist member: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected > 0, nil
}

func (r *membershipRepository) ListMembers(ctx context.Context, wishlistID int64) ([]models.Member, error) {
	byList, err := r.ListMembersFor(ctx, []int64{wishlistID})
	if err != nil {
		return nil, err
	}
	members := byList[wishlistID]
	if members == nil {
		members = []models.Member{}
	}
	return members, nil
}

func (r *membershipRepository) ListMembersFor(ctx context.Context, wishlistIDs []int64) (map[int64][]models.Member, error) {
	result := make(map[int64][]models.Member, len(wishlistIDs))
	if len(wishlistIDs) == 0 {
		return result, nil
	}

	query := `
		SELECT wu.wishlist_id, u.id, u.name, wu.role
		FROM wishlist_users wu
		JOIN users u ON u.id = wu.user_id
		WHERE wu.wishlist_id = ANY($1)
		ORDER BY wu.wishlist_id, (wu.role = 'owner') DESC, wu.joined_at ASC, u.id ASC`

	rows, err := r.db.QueryContext(ctx, query, pq.Array(wishlistIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to query wishlist members: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var wishlistID int64
		var member models.Member
		if err := rows.Scan(&wishlistID, &member.UserID, &member.Name, &member.Role); err != nil {
			return nil, fmt.Errorf("failed to scan wishlist member: %w", err)
		}
		result[wishlistID] = append(result[wishlistID], member)
	}

	return result, rows.Err()
}

func (r *membershipRepository) CountOwners(ctx context.Context, wishlistID int64) (int, error) {
	query := `SELECT COUNT(*) FROM wishlist_users WHERE wishlist_id = $1 AND role = 'owner'`

	var count int
	if err := r.db.QueryRowContext(ctx, query, wishlistID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count wishlist owners: %w", err)
	}
	return count, nil
}
