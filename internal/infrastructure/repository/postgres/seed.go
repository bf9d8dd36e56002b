package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/matchbook-app/matchbook/internal/infrastructure/repository/memory"
)

// BootstrapSeed loads the demo catalog and clubs into an empty database. It
// is a no-op once any sport exists.
func BootstrapSeed(ctx context.Context, db *sqlx.DB) error {
	var count int
	if err := db.GetContext(ctx, &count, `SELECT COUNT(1) FROM sports WHERE deleted_at IS NULL`); err != nil {
		return fmt.Errorf("count sports for bootstrap seed: %w", err)
	}
	if count > 0 {
		return nil
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, s := range memory.SeedSports() {
		positions, err := encodePositions(s)
		if err != nil {
			return err
		}
		sqlQuery, args, err := sqlx.Named(`
INSERT INTO sports (code, name, positions)
VALUES (:code, :name, :positions)
ON CONFLICT (code) DO NOTHING`, map[string]any{
			"code":      s.Code,
			"name":      s.Name,
			"positions": positions,
		})
		if err != nil {
			return fmt.Errorf("bind seed sport %s query: %w", s.Code, err)
		}
		sqlQuery = tx.Rebind(sqlQuery)
		if _, err := tx.ExecContext(ctx, sqlQuery, args...); err != nil {
			return fmt.Errorf("seed sport %s: %w", s.Code, err)
		}
	}

	for _, c := range memory.SeedClubs() {
		sqlQuery, args, err := sqlx.Named(`
INSERT INTO clubs (public_id, name, owner_user_id)
VALUES (:public_id, :name, :owner_user_id)
ON CONFLICT (public_id) DO NOTHING`, map[string]any{
			"public_id":     c.ID,
			"name":          c.Name,
			"owner_user_id": c.OwnerUserID,
		})
		if err != nil {
			return fmt.Errorf("bind seed club %s query: %w", c.ID, err)
		}
		sqlQuery = tx.Rebind(sqlQuery)
		if _, err := tx.ExecContext(ctx, sqlQuery, args...); err != nil {
			return fmt.Errorf("seed club %s: %w", c.ID, err)
		}
	}

	for _, m := range memory.SeedMatches() {
		quotas, prices, err := encodeQuotaColumns(m)
		if err != nil {
			return err
		}
		sqlQuery, args, err := sqlx.Named(`
INSERT INTO matches (
    public_id, club_public_id, sport_code, title, description, status, date,
    location, base_price, max_players, position_quotas, position_prices,
    created_at, updated_at
) VALUES (
    :public_id, :club_public_id, :sport_code, :title, :description, :status, :date,
    :location, :base_price, :max_players, :position_quotas, :position_prices,
    :created_at, :updated_at
)
ON CONFLICT (public_id) DO NOTHING`, map[string]any{
			"public_id":       m.ID,
			"club_public_id":  m.ClubID,
			"sport_code":      m.SportCode,
			"title":           m.Title,
			"description":     m.Description,
			"status":          string(m.Status),
			"date":            m.Date,
			"location":        m.Location,
			"base_price":      m.BasePrice,
			"max_players":     m.MaxPlayers,
			"position_quotas": quotas,
			"position_prices": prices,
			"created_at":      m.CreatedAt,
			"updated_at":      m.UpdatedAt,
		})
		if err != nil {
			return fmt.Errorf("bind seed match %s query: %w", m.ID, err)
		}
		sqlQuery = tx.Rebind(sqlQuery)
		if _, err := tx.ExecContext(ctx, sqlQuery, args...); err != nil {
			return fmt.Errorf("seed match %s: %w", m.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit seed tx: %w", err)
	}

	return nil
}
