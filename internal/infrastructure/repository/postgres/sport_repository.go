package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/matchbook-app/matchbook/internal/domain/sport"
)

type SportRepository struct {
	db *sqlx.DB
}

func NewSportRepository(db *sqlx.DB) *SportRepository {
	return &SportRepository{db: db}
}

func (r *SportRepository) List(ctx context.Context) ([]sport.Sport, error) {
	const query = `
SELECT code, name, positions, created_at, updated_at
FROM sports
WHERE deleted_at IS NULL
ORDER BY id`

	var rows []sportTableModel
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("select sports: %w", err)
	}

	out := make([]sport.Sport, 0, len(rows))
	for _, row := range rows {
		item, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}

	return out, nil
}

func (r *SportRepository) GetByCode(ctx context.Context, code string) (sport.Sport, bool, error) {
	const query = `
SELECT code, name, positions, created_at, updated_at
FROM sports
WHERE code = $1
  AND deleted_at IS NULL`

	var row sportTableModel
	if err := r.db.GetContext(ctx, &row, query, code); err != nil {
		if isNotFound(err) {
			return sport.Sport{}, false, nil
		}
		return sport.Sport{}, false, fmt.Errorf("get sport: %w", err)
	}

	item, err := row.toDomain()
	if err != nil {
		return sport.Sport{}, false, err
	}

	return item, true, nil
}

func (r *SportRepository) Upsert(ctx context.Context, item sport.Sport) error {
	positions, err := encodePositions(item)
	if err != nil {
		return err
	}

	const query = `
INSERT INTO sports (code, name, positions)
VALUES (:code, :name, :positions)
ON CONFLICT (code) DO UPDATE SET
    name = EXCLUDED.name,
    positions = EXCLUDED.positions,
    updated_at = NOW(),
    deleted_at = NULL`

	sqlQuery, args, err := sqlx.Named(query, map[string]any{
		"code":      item.Code,
		"name":      item.Name,
		"positions": positions,
	})
	if err != nil {
		return fmt.Errorf("bind upsert sport query: %w", err)
	}
	sqlQuery = r.db.Rebind(sqlQuery)
	if _, err := r.db.ExecContext(ctx, sqlQuery, args...); err != nil {
		return fmt.Errorf("upsert sport: %w", err)
	}

	return nil
}
