package postgres

import (
	"time"

	"github.com/matchbook-app/matchbook/internal/domain/booking"
)

type bookingTableModel struct {
	ID            int64      `db:"id"`
	PublicID      string     `db:"public_id"`
	MatchPublicID string     `db:"match_public_id"`
	UserID        string     `db:"user_id"`
	PositionCode  string     `db:"position_code"`
	Status        string     `db:"status"`
	Price         int64      `db:"price"`
	IsPaid        bool       `db:"is_paid"`
	CreatedAt     time.Time  `db:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at"`
	DeletedAt     *time.Time `db:"deleted_at"`
}

func (m bookingTableModel) toDomain() booking.Booking {
	return booking.Booking{
		ID:           m.PublicID,
		MatchID:      m.MatchPublicID,
		UserID:       m.UserID,
		PositionCode: m.PositionCode,
		Status:       booking.Status(m.Status),
		Price:        m.Price,
		IsPaid:       m.IsPaid,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}
