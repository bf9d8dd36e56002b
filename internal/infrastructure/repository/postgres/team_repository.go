package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/matchbook-app/matchbook/internal/domain/team"
)

type TeamRepository struct {
	db *sqlx.DB
}

func NewTeamRepository(db *sqlx.DB) *TeamRepository {
	return &TeamRepository{db: db}
}

// ReplaceForMatch deletes every roster of the match and writes the new split
// in one transaction, so readers never observe a half-replaced set. It locks
// the match row so reservations serialize against the replacement, and
// returns team.ErrBookingsChanged when the rosters no longer cover the
// confirmed booking set (a reserve or cancel committed after the caller's
// read).
func (r *TeamRepository) ReplaceForMatch(ctx context.Context, matchID string, rosters []team.Roster) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx for roster replace: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	const lockQuery = `
SELECT id FROM matches
WHERE public_id = $1
  AND deleted_at IS NULL
FOR UPDATE`
	var matchRowID int64
	if err := tx.GetContext(ctx, &matchRowID, lockQuery, matchID); err != nil {
		if isNotFound(err) {
			return fmt.Errorf("roster replace on unknown match %s", matchID)
		}
		return fmt.Errorf("lock match row: %w", err)
	}

	const confirmedQuery = `
SELECT public_id FROM bookings
WHERE match_public_id = $1
  AND status = 'confirmed'
  AND deleted_at IS NULL`
	var confirmedIDs []string
	if err := tx.SelectContext(ctx, &confirmedIDs, confirmedQuery, matchID); err != nil {
		return fmt.Errorf("select confirmed booking ids: %w", err)
	}

	confirmed := make(map[string]struct{}, len(confirmedIDs))
	for _, id := range confirmedIDs {
		confirmed[id] = struct{}{}
	}
	members := 0
	for _, roster := range rosters {
		for _, member := range roster.Members {
			if _, ok := confirmed[member.BookingID]; !ok {
				return team.ErrBookingsChanged
			}
			members++
		}
	}
	if members != len(confirmed) {
		return team.ErrBookingsChanged
	}

	const deleteMembersQuery = `
DELETE FROM team_members
WHERE team_public_id IN (
    SELECT public_id FROM teams WHERE match_public_id = $1
)`
	if _, err := tx.ExecContext(ctx, deleteMembersQuery, matchID); err != nil {
		return fmt.Errorf("delete prior team members: %w", err)
	}

	const deleteTeamsQuery = `DELETE FROM teams WHERE match_public_id = $1`
	if _, err := tx.ExecContext(ctx, deleteTeamsQuery, matchID); err != nil {
		return fmt.Errorf("delete prior teams: %w", err)
	}

	const insertTeamQuery = `
INSERT INTO teams (public_id, match_public_id, name, color, created_at)
VALUES (:public_id, :match_public_id, :name, :color, :created_at)`

	const insertMemberQuery = `
INSERT INTO team_members (public_id, team_public_id, booking_public_id, user_id)
VALUES (:public_id, :team_public_id, :booking_public_id, :user_id)`

	for _, roster := range rosters {
		sqlQuery, args, err := sqlx.Named(insertTeamQuery, map[string]any{
			"public_id":       roster.Team.ID,
			"match_public_id": roster.Team.MatchID,
			"name":            roster.Team.Name,
			"color":           roster.Team.Color,
			"created_at":      roster.Team.CreatedAt,
		})
		if err != nil {
			return fmt.Errorf("bind insert team %s query: %w", roster.Team.ID, err)
		}
		sqlQuery = tx.Rebind(sqlQuery)
		if _, err := tx.ExecContext(ctx, sqlQuery, args...); err != nil {
			return fmt.Errorf("insert team %s: %w", roster.Team.ID, err)
		}

		for _, member := range roster.Members {
			memberSQL, memberArgs, err := sqlx.Named(insertMemberQuery, map[string]any{
				"public_id":         member.ID,
				"team_public_id":    member.TeamID,
				"booking_public_id": member.BookingID,
				"user_id":           member.UserID,
			})
			if err != nil {
				return fmt.Errorf("bind insert team member %s query: %w", member.ID, err)
			}
			memberSQL = tx.Rebind(memberSQL)
			if _, err := tx.ExecContext(ctx, memberSQL, memberArgs...); err != nil {
				return fmt.Errorf("insert team member %s: %w", member.ID, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit roster replace tx: %w", err)
	}

	return nil
}

func (r *TeamRepository) ListByMatch(ctx context.Context, matchID string) ([]team.Roster, error) {
	const teamsQuery = `
SELECT public_id, match_public_id, name, color, created_at
FROM teams
WHERE match_public_id = $1
ORDER BY name`

	var teamRows []teamTableModel
	if err := r.db.SelectContext(ctx, &teamRows, teamsQuery, matchID); err != nil {
		return nil, fmt.Errorf("select teams: %w", err)
	}

	const membersQuery = `
SELECT tm.public_id, tm.team_public_id, tm.booking_public_id, tm.user_id
FROM team_members tm
JOIN teams t ON t.public_id = tm.team_public_id
WHERE t.match_public_id = $1
ORDER BY tm.public_id`

	var memberRows []teamMemberTableModel
	if err := r.db.SelectContext(ctx, &memberRows, membersQuery, matchID); err != nil {
		return nil, fmt.Errorf("select team members: %w", err)
	}

	byTeam := make(map[string][]team.Member, len(teamRows))
	for _, row := range memberRows {
		byTeam[row.TeamPublicID] = append(byTeam[row.TeamPublicID], row.toDomain())
	}

	out := make([]team.Roster, 0, len(teamRows))
	for _, row := range teamRows {
		out = append(out, team.Roster{
			Team:    row.toDomain(),
			Members: byTeam[row.PublicID],
		})
	}

	return out, nil
}

func (r *TeamRepository) GetMemberByID(ctx context.Context, memberID string) (team.Member, bool, error) {
	const query = `
SELECT public_id, team_public_id, booking_public_id, user_id
FROM team_members
WHERE public_id = $1`

	var row teamMemberTableModel
	if err := r.db.GetContext(ctx, &row, query, memberID); err != nil {
		if isNotFound(err) {
			return team.Member{}, false, nil
		}
		return team.Member{}, false, fmt.Errorf("get team member: %w", err)
	}

	return row.toDomain(), true, nil
}

func (r *TeamRepository) GetTeamByID(ctx context.Context, teamID string) (team.Team, bool, error) {
	const query = `
SELECT public_id, match_public_id, name, color, created_at
FROM teams
WHERE public_id = $1`

	var row teamTableModel
	if err := r.db.GetContext(ctx, &row, query, teamID); err != nil {
		if isNotFound(err) {
			return team.Team{}, false, nil
		}
		return team.Team{}, false, fmt.Errorf("get team: %w", err)
	}

	return row.toDomain(), true, nil
}

func (r *TeamRepository) MoveMember(ctx context.Context, memberID, targetTeamID string) error {
	const query = `
UPDATE team_members
SET team_public_id = $1
WHERE public_id = $2`

	result, err := r.db.ExecContext(ctx, query, targetTeamID, memberID)
	if err != nil {
		return fmt.Errorf("move team member: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("move team member rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("team member %s not found", memberID)
	}

	return nil
}
