package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/matchbook-app/matchbook/internal/domain/club"
)

type ClubRepository struct {
	db *sqlx.DB
}

func NewClubRepository(db *sqlx.DB) *ClubRepository {
	return &ClubRepository{db: db}
}

func (r *ClubRepository) GetByID(ctx context.Context, clubID string) (club.Club, bool, error) {
	const query = `
SELECT public_id, name, owner_user_id
FROM clubs
WHERE public_id = $1
  AND deleted_at IS NULL`

	var row struct {
		PublicID    string `db:"public_id"`
		Name        string `db:"name"`
		OwnerUserID string `db:"owner_user_id"`
	}
	if err := r.db.GetContext(ctx, &row, query, clubID); err != nil {
		if isNotFound(err) {
			return club.Club{}, false, nil
		}
		return club.Club{}, false, fmt.Errorf("get club: %w", err)
	}

	return club.Club{
		ID:          row.PublicID,
		Name:        row.Name,
		OwnerUserID: row.OwnerUserID,
	}, true, nil
}
