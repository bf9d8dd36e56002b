package postgres

import (
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/matchbook-app/matchbook/internal/domain/match"
)

type matchTableModel struct {
	ID               int64      `db:"id"`
	PublicID         string     `db:"public_id"`
	ClubPublicID     string     `db:"club_public_id"`
	SportCode        string     `db:"sport_code"`
	Title            string     `db:"title"`
	Description      string     `db:"description"`
	Status           string     `db:"status"`
	Date             time.Time  `db:"date"`
	Location         string     `db:"location"`
	BasePrice        int64      `db:"base_price"`
	MaxPlayers       int        `db:"max_players"`
	PositionQuotas   []byte     `db:"position_quotas"`
	PositionPrices   []byte     `db:"position_prices"`
	RescheduleReason string     `db:"reschedule_reason"`
	CancelReason     string     `db:"cancel_reason"`
	CreatedAt        time.Time  `db:"created_at"`
	UpdatedAt        time.Time  `db:"updated_at"`
	DeletedAt        *time.Time `db:"deleted_at"`
}

func (m matchTableModel) toDomain() (match.Match, error) {
	out := match.Match{
		ID:               m.PublicID,
		ClubID:           m.ClubPublicID,
		SportCode:        m.SportCode,
		Title:            m.Title,
		Description:      m.Description,
		Status:           match.Status(m.Status),
		Date:             m.Date,
		Location:         m.Location,
		BasePrice:        m.BasePrice,
		MaxPlayers:       m.MaxPlayers,
		RescheduleReason: m.RescheduleReason,
		CancelReason:     m.CancelReason,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}

	if len(m.PositionQuotas) > 0 {
		if err := sonic.Unmarshal(m.PositionQuotas, &out.PositionQuotas); err != nil {
			return match.Match{}, fmt.Errorf("decode position quotas for match %s: %w", m.PublicID, err)
		}
	}
	if len(m.PositionPrices) > 0 {
		if err := sonic.Unmarshal(m.PositionPrices, &out.PositionPrices); err != nil {
			return match.Match{}, fmt.Errorf("decode position prices for match %s: %w", m.PublicID, err)
		}
	}

	return out, nil
}

func encodeQuotaColumns(item match.Match) (quotas, prices []byte, err error) {
	if item.PositionQuotas != nil {
		quotas, err = sonic.Marshal(item.PositionQuotas)
		if err != nil {
			return nil, nil, fmt.Errorf("encode position quotas for match %s: %w", item.ID, err)
		}
	}
	if item.PositionPrices != nil {
		prices, err = sonic.Marshal(item.PositionPrices)
		if err != nil {
			return nil, nil, fmt.Errorf("encode position prices for match %s: %w", item.ID, err)
		}
	}
	return quotas, prices, nil
}
