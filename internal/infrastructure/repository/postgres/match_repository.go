package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/matchbook-app/matchbook/internal/domain/match"
)

type MatchRepository struct {
	db *sqlx.DB
}

func NewMatchRepository(db *sqlx.DB) *MatchRepository {
	return &MatchRepository{db: db}
}

const matchColumns = `
public_id, club_public_id, sport_code, title, description, status, date,
location, base_price, max_players, position_quotas, position_prices,
reschedule_reason, cancel_reason, created_at, updated_at`

func (r *MatchRepository) Create(ctx context.Context, item match.Match) error {
	quotas, prices, err := encodeQuotaColumns(item)
	if err != nil {
		return err
	}

	const query = `
INSERT INTO matches (
    public_id, club_public_id, sport_code, title, description, status, date,
    location, base_price, max_players, position_quotas, position_prices,
    created_at, updated_at
) VALUES (
    :public_id, :club_public_id, :sport_code, :title, :description, :status, :date,
    :location, :base_price, :max_players, :position_quotas, :position_prices,
    :created_at, :updated_at
)`

	sqlQuery, args, err := sqlx.Named(query, map[string]any{
		"public_id":       item.ID,
		"club_public_id":  item.ClubID,
		"sport_code":      item.SportCode,
		"title":           item.Title,
		"description":     item.Description,
		"status":          string(item.Status),
		"date":            item.Date,
		"location":        item.Location,
		"base_price":      item.BasePrice,
		"max_players":     item.MaxPlayers,
		"position_quotas": quotas,
		"position_prices": prices,
		"created_at":      item.CreatedAt,
		"updated_at":      item.UpdatedAt,
	})
	if err != nil {
		return fmt.Errorf("bind insert match query: %w", err)
	}
	sqlQuery = r.db.Rebind(sqlQuery)
	if _, err := r.db.ExecContext(ctx, sqlQuery, args...); err != nil {
		return fmt.Errorf("insert match: %w", err)
	}

	return nil
}

func (r *MatchRepository) Update(ctx context.Context, item match.Match) error {
	quotas, prices, err := encodeQuotaColumns(item)
	if err != nil {
		return err
	}

	const query = `
UPDATE matches SET
    title = :title,
    description = :description,
    status = :status,
    date = :date,
    location = :location,
    base_price = :base_price,
    max_players = :max_players,
    position_quotas = :position_quotas,
    position_prices = :position_prices,
    reschedule_reason = :reschedule_reason,
    cancel_reason = :cancel_reason,
    updated_at = :updated_at
WHERE public_id = :public_id
  AND deleted_at IS NULL`

	sqlQuery, args, err := sqlx.Named(query, map[string]any{
		"public_id":         item.ID,
		"title":             item.Title,
		"description":       item.Description,
		"status":            string(item.Status),
		"date":              item.Date,
		"location":          item.Location,
		"base_price":        item.BasePrice,
		"max_players":       item.MaxPlayers,
		"position_quotas":   quotas,
		"position_prices":   prices,
		"reschedule_reason": item.RescheduleReason,
		"cancel_reason":     item.CancelReason,
		"updated_at":        item.UpdatedAt,
	})
	if err != nil {
		return fmt.Errorf("bind update match query: %w", err)
	}
	sqlQuery = r.db.Rebind(sqlQuery)
	if _, err := r.db.ExecContext(ctx, sqlQuery, args...); err != nil {
		return fmt.Errorf("update match: %w", err)
	}

	return nil
}

func (r *MatchRepository) GetByID(ctx context.Context, matchID string) (match.Match, bool, error) {
	query := `SELECT ` + matchColumns + `
FROM matches
WHERE public_id = $1
  AND deleted_at IS NULL`

	var row matchTableModel
	if err := r.db.GetContext(ctx, &row, query, matchID); err != nil {
		if isNotFound(err) {
			return match.Match{}, false, nil
		}
		return match.Match{}, false, fmt.Errorf("get match: %w", err)
	}

	item, err := row.toDomain()
	if err != nil {
		return match.Match{}, false, err
	}

	return item, true, nil
}

func (r *MatchRepository) ListPublished(ctx context.Context) ([]match.Match, error) {
	query := `SELECT ` + matchColumns + `
FROM matches
WHERE status = 'published'
  AND deleted_at IS NULL
ORDER BY date, public_id`

	return r.list(ctx, query)
}

func (r *MatchRepository) ListByClub(ctx context.Context, clubID string) ([]match.Match, error) {
	query := `SELECT ` + matchColumns + `
FROM matches
WHERE club_public_id = $1
  AND deleted_at IS NULL
ORDER BY date, public_id`

	return r.list(ctx, query, clubID)
}

func (r *MatchRepository) list(ctx context.Context, query string, args ...any) ([]match.Match, error) {
	var rows []matchTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select matches: %w", err)
	}

	out := make([]match.Match, 0, len(rows))
	for _, row := range rows {
		item, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}

	return out, nil
}
