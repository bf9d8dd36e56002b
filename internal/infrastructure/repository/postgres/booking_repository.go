package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/matchbook-app/matchbook/internal/domain/booking"
)

// uniqueConfirmedConstraint is the partial unique index on
// (match_public_id, user_id) WHERE status = 'confirmed'. It backstops the
// duplicate-user check for writers that bypass the row lock.
const uniqueConfirmedConstraint = "bookings_one_confirmed_per_user"

type BookingRepository struct {
	db *sqlx.DB
}

func NewBookingRepository(db *sqlx.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

const bookingColumns = `
public_id, match_public_id, user_id, position_code, status, price, is_paid,
created_at, updated_at`

// Reserve locks the match row for the duration of the transaction, so the
// count-then-insert pair is atomic against every other reservation on the
// same match.
func (r *BookingRepository) Reserve(ctx context.Context, item booking.Booking, quota int) (booking.Booking, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return booking.Booking{}, fmt.Errorf("begin tx for reserve: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	const lockQuery = `
SELECT id FROM matches
WHERE public_id = $1
  AND status = 'published'
  AND deleted_at IS NULL
FOR UPDATE`
	var matchRowID int64
	if err := tx.GetContext(ctx, &matchRowID, lockQuery, item.MatchID); err != nil {
		if isNotFound(err) {
			// Missing row or no longer published; a cancel can land between
			// the caller's status read and this lock.
			return booking.Booking{}, booking.ErrMatchNotOpen
		}
		return booking.Booking{}, fmt.Errorf("lock match row: %w", err)
	}

	const duplicateQuery = `
SELECT COUNT(1) FROM bookings
WHERE match_public_id = $1
  AND user_id = $2
  AND status = 'confirmed'
  AND deleted_at IS NULL`
	var duplicates int
	if err := tx.GetContext(ctx, &duplicates, duplicateQuery, item.MatchID, item.UserID); err != nil {
		return booking.Booking{}, fmt.Errorf("count user bookings: %w", err)
	}
	if duplicates > 0 {
		return booking.Booking{}, booking.ErrDuplicateUser
	}

	const confirmedQuery = `
SELECT COUNT(1) FROM bookings
WHERE match_public_id = $1
  AND position_code = $2
  AND status = 'confirmed'
  AND deleted_at IS NULL`
	var confirmed int
	if err := tx.GetContext(ctx, &confirmed, confirmedQuery, item.MatchID, item.PositionCode); err != nil {
		return booking.Booking{}, fmt.Errorf("count confirmed bookings: %w", err)
	}
	if confirmed >= quota {
		return booking.Booking{}, booking.ErrCapacityExceeded
	}

	const insertQuery = `
INSERT INTO bookings (
    public_id, match_public_id, user_id, position_code, status, price, is_paid,
    created_at, updated_at
) VALUES (
    :public_id, :match_public_id, :user_id, :position_code, :status, :price, :is_paid,
    :created_at, :updated_at
)`
	sqlQuery, args, err := sqlx.Named(insertQuery, map[string]any{
		"public_id":       item.ID,
		"match_public_id": item.MatchID,
		"user_id":         item.UserID,
		"position_code":   item.PositionCode,
		"status":          string(item.Status),
		"price":           item.Price,
		"is_paid":         item.IsPaid,
		"created_at":      item.CreatedAt,
		"updated_at":      item.UpdatedAt,
	})
	if err != nil {
		return booking.Booking{}, fmt.Errorf("bind insert booking query: %w", err)
	}
	sqlQuery = tx.Rebind(sqlQuery)
	if _, err := tx.ExecContext(ctx, sqlQuery, args...); err != nil {
		if isUniqueViolation(err, uniqueConfirmedConstraint) {
			return booking.Booking{}, booking.ErrDuplicateUser
		}
		return booking.Booking{}, fmt.Errorf("insert booking: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return booking.Booking{}, fmt.Errorf("commit reserve tx: %w", err)
	}

	return item, nil
}

func (r *BookingRepository) GetByID(ctx context.Context, bookingID string) (booking.Booking, bool, error) {
	query := `SELECT ` + bookingColumns + `
FROM bookings
WHERE public_id = $1
  AND deleted_at IS NULL`

	var row bookingTableModel
	if err := r.db.GetContext(ctx, &row, query, bookingID); err != nil {
		if isNotFound(err) {
			return booking.Booking{}, false, nil
		}
		return booking.Booking{}, false, fmt.Errorf("get booking: %w", err)
	}

	return row.toDomain(), true, nil
}

func (r *BookingRepository) Update(ctx context.Context, item booking.Booking) error {
	const query = `
UPDATE bookings SET
    status = :status,
    is_paid = :is_paid,
    updated_at = :updated_at
WHERE public_id = :public_id
  AND deleted_at IS NULL`

	sqlQuery, args, err := sqlx.Named(query, map[string]any{
		"public_id":  item.ID,
		"status":     string(item.Status),
		"is_paid":    item.IsPaid,
		"updated_at": item.UpdatedAt,
	})
	if err != nil {
		return fmt.Errorf("bind update booking query: %w", err)
	}
	sqlQuery = r.db.Rebind(sqlQuery)
	if _, err := r.db.ExecContext(ctx, sqlQuery, args...); err != nil {
		return fmt.Errorf("update booking: %w", err)
	}

	return nil
}

func (r *BookingRepository) ListConfirmedByMatch(ctx context.Context, matchID string) ([]booking.Booking, error) {
	query := `SELECT ` + bookingColumns + `
FROM bookings
WHERE match_public_id = $1
  AND status = 'confirmed'
  AND deleted_at IS NULL
ORDER BY created_at, public_id`

	var rows []bookingTableModel
	if err := r.db.SelectContext(ctx, &rows, query, matchID); err != nil {
		return nil, fmt.Errorf("select confirmed bookings: %w", err)
	}

	out := make([]booking.Booking, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}

	return out, nil
}

func (r *BookingRepository) CountConfirmedByPosition(ctx context.Context, matchID string) (map[string]int, error) {
	const query = `
SELECT position_code, COUNT(1) AS confirmed
FROM bookings
WHERE match_public_id = $1
  AND status = 'confirmed'
  AND deleted_at IS NULL
GROUP BY position_code`

	var rows []struct {
		PositionCode string `db:"position_code"`
		Confirmed    int    `db:"confirmed"`
	}
	if err := r.db.SelectContext(ctx, &rows, query, matchID); err != nil {
		return nil, fmt.Errorf("count confirmed bookings by position: %w", err)
	}

	counts := make(map[string]int, len(rows))
	for _, row := range rows {
		counts[row.PositionCode] = row.Confirmed
	}

	return counts, nil
}
